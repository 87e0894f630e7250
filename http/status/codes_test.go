package status

import (
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStringCode(t *testing.T) {
	for _, code := range []Code{Continue, OK, PartialContent, NotModified, NotFound, InternalServerError} {
		require.Equal(t, strconv.Itoa(int(code)), StringCode(code))
	}

	require.Equal(t, "304 Not Modified", NotModified.String())
}

func TestText(t *testing.T) {
	require.Equal(t, "OK", Text(OK))
	require.Equal(t, "Range Not Satisfiable", Text(RequestedRangeNotSatisfiable))
	require.Equal(t, "Unknown Status Code", Text(299))
	require.Equal(t, "??? Unknown Status Code", Code(1000).String())
}

func TestCategory(t *testing.T) {
	for _, tc := range []struct {
		Code Code
		Want Category
	}{
		{Continue, Information},
		{OK, Successful},
		{PartialContent, Successful},
		{NotModified, Redirection},
		{RequestedRangeNotSatisfiable, ClientError},
		{InternalServerError, ServerError},
		{99, Unknown},
		{600, Unknown},
	} {
		require.Equal(t, tc.Want, tc.Code.Category(), tc.Code)
	}
}

func TestRequiredHeaders(t *testing.T) {
	require.Equal(t, []string{"Location"}, Found.RequiredHeaders())
	require.Equal(t, []string{"Allow"}, MethodNotAllowed.RequiredHeaders())
	require.Empty(t, OK.RequiredHeaders())
	require.Empty(t, NotModified.RequiredHeaders())
}

func TestHTTPError(t *testing.T) {
	wrapped := fmt.Errorf("%w: boom", ErrInternalServerError)
	require.True(t, errors.Is(wrapped, ErrInternalServerError))
	require.True(t, errors.Is(ErrCharsetNotAcceptable, ErrNotAcceptable))
	require.False(t, errors.Is(ErrNotAcceptable, ErrNotFound))
}
