// Package stdhttp serves the route table through the response pipeline on top of net/http.
package stdhttp

import (
	"fmt"
	"io"
	"maps"
	nethttp "net/http"
	"slices"

	"github.com/indigo-web/facet/http"
	"github.com/indigo-web/facet/http/headers"
	"github.com/indigo-web/facet/http/method"
	"github.com/indigo-web/facet/http/mime"
	"github.com/indigo-web/facet/http/proto"
	"github.com/indigo-web/facet/http/query"
	"github.com/indigo-web/facet/http/status"
	"github.com/indigo-web/facet/http/transport"
	"github.com/indigo-web/facet/internal/strutil"
	"github.com/indigo-web/utils/strcomp"
)

// ErrFormTooLarge is reported when a form body exceeds the limit.
var ErrFormTooLarge = status.NewError(status.RequestEntityTooLarge, "form body is too large")

// NewRequest converts the request. Headers are added in the order of their names, as
// net/http doesn't preserve the original one. The Host header is restored from the
// request. Bodies of url-encoded forms up to maxForm bytes are parsed into Params,
// other bodies are left unread.
func NewRequest(r *nethttp.Request, maxForm int64) (*http.Request, error) {
	req := http.NewRequest(r.URL.Path)
	req.Method = method.Parse(r.Method)
	req.Protocol = proto.Parse(uint8(r.ProtoMajor), uint8(r.ProtoMinor))

	if r.TLS != nil {
		req.Transport = transport.Secure
	}

	if len(r.Host) > 0 {
		req.Headers.Add(headers.Host, r.Host)
	}

	for _, name := range slices.Sorted(maps.Keys(r.Header)) {
		for _, value := range r.Header[name] {
			req.Headers.Add(name, value)
		}
	}

	if err := query.Parse(r.URL.RawQuery, req.Query); err != nil {
		return nil, fmt.Errorf("%w: %v", status.ErrBadRequest, err)
	}

	if r.Body == nil || !isForm(r.Header.Get(headers.ContentType)) {
		return req, nil
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxForm+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", status.ErrBadRequest, err)
	}

	if int64(len(body)) > maxForm {
		return nil, ErrFormTooLarge
	}

	if err = query.Parse(string(body), req.Params); err != nil {
		return nil, fmt.Errorf("%w: %v", status.ErrBadRequest, err)
	}

	return req, nil
}

func isForm(contentType string) bool {
	essence, _ := strutil.CutHeader(contentType)
	return strcomp.EqualFold(strutil.TrimWS(essence), mime.FormUrlencoded)
}
