package status

type HTTPError struct {
	Message string
	Code    Code
}

func NewError(code Code, message string) error {
	return HTTPError{
		Code:    code,
		Message: message,
	}
}

func (h HTTPError) Error() string {
	return h.Message
}

// Is reports HTTP errors with equal codes as matching, so wrapped and re-created
// errors can be checked via errors.Is against the sentinels below.
func (h HTTPError) Is(target error) bool {
	other, ok := target.(HTTPError)
	return ok && other.Code == h.Code
}

var (
	ErrBadRequest                   = NewError(BadRequest, "bad request")
	ErrBadRange                     = NewError(BadRequest, "malformed range header")
	ErrBadConditional               = NewError(BadRequest, "malformed conditional header")
	ErrNotFound                     = NewError(NotFound, "not found")
	ErrNotAcceptable                = NewError(NotAcceptable, "not acceptable")
	ErrUnsupportedEncoding          = NewError(NotAcceptable, "content encoding is not acceptable")
	ErrCharsetNotAcceptable         = NewError(NotAcceptable, "charset is not acceptable")
	ErrContentLengthMismatch        = NewError(NotAcceptable, "content length mismatch")
	ErrRequestedRangeNotSatisfiable = NewError(RequestedRangeNotSatisfiable, "requested range is not satisfiable")
	ErrInternalServerError          = NewError(InternalServerError, "internal server error")
)
