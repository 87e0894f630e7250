package decorator

import (
	"fmt"

	"github.com/indigo-web/facet/http"
	"github.com/indigo-web/facet/http/response"
	"github.com/indigo-web/facet/http/status"
)

// Chain wraps the sink into the complete pipeline for the request and returns the
// outermost response. From the sink outwards, the order is: header scope validation,
// status-required headers, the Server header requirement, conditional requests by
// ETag then by Last-Modified, byte ranges, multipart gating, HEAD suppression, gzip,
// charset, Content-Length and finally default headers.
//
// Malformed conditional, range or negotiation request headers result in a 400 error.
func Chain(request *http.Request, sink response.Response, opts Options) (response.Response, error) {
	opts = opts.withDefaults()

	r := Scope(sink)
	r = StatusRequired(r, opts)
	r = ServerRequired(request, r, opts)

	r, err := ETag(request, r, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", status.ErrBadConditional, err)
	}

	if r, err = LastModified(request, r, opts); err != nil {
		return nil, fmt.Errorf("%w: %v", status.ErrBadConditional, err)
	}

	if r, err = Ranges(request, r, opts); err != nil {
		return nil, fmt.Errorf("%w: %v", status.ErrBadRange, err)
	}

	r = Multipart(r)
	r = Head(request, r)

	if r, err = Gzip(request, r, opts); err != nil {
		return nil, fmt.Errorf("%w: %v", status.ErrBadRequest, err)
	}

	if r, err = Charset(request, r); err != nil {
		return nil, fmt.Errorf("%w: %v", status.ErrBadRequest, err)
	}

	r = ContentLength(r)
	r = DefaultHeaders(r, opts.DefaultHeaders)

	return r, nil
}
