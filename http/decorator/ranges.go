package decorator

import (
	"github.com/indigo-web/facet/http"
	"github.com/indigo-web/facet/http/entity"
	"github.com/indigo-web/facet/http/headers"
	"github.com/indigo-web/facet/http/response"
	"github.com/indigo-web/facet/http/status"
)

// ranges serves the requested parts of the body. Ranges are copied in the order they
// were requested, without sorting or merging, so overlapping ranges repeat bytes.
type ranges struct {
	response.Buffering
	env     env
	ranges  []headers.ByteRange
	discard bool
}

// Ranges is installed for requests with a Range header. Requests with more ranges
// than MaxRanges (if positive) are served as a whole.
func Ranges(request *http.Request, next response.Response, opts Options) (response.Response, error) {
	opts = opts.withDefaults()
	requested, found, err := request.Ranges()
	if err != nil || !found {
		return next, err
	}

	if opts.MaxRanges > 0 && len(requested) > opts.MaxRanges {
		return next, nil
	}

	r := &ranges{env: opts.env(), ranges: requested}
	r.Buffering = response.NewBuffering(next, r)
	return r, nil
}

func (r *ranges) SetBodyText(string) error {
	panic(ErrTextUnsupported)
}

func (r *ranges) AddFirstEntity(code status.Code, e entity.Entity) error {
	if code.Category() != status.Successful {
		return r.Forward(code, e)
	}

	length := e.Len()
	spans := make([]headers.Span, 0, len(r.ranges))
	size := int64(0)

	for _, rng := range r.ranges {
		first, last, ok := rng.Resolve(length)
		if !ok {
			return r.unsatisfiable(code, e)
		}

		spans = append(spans, headers.Span{First: first, Last: last, Length: length})
		size += last - first + 1
	}

	body := make([]byte, 0, size)
	for _, span := range spans {
		body = append(body, e.Body()[span.First:span.Last+1]...)
	}

	partial := e.SetBody(body)
	if partial.HasHeader(headers.ContentLength) {
		partial = partial.SetHeader(headers.ContentLength, headers.Number(size))
	}

	if len(spans) == 1 {
		partial = partial.SetHeader(headers.ContentRange, spans[0])
	}

	r.env.rewrite("range", code, status.PartialContent)
	return r.Forward(status.PartialContent, partial)
}

func (r *ranges) unsatisfiable(code status.Code, e entity.Entity) error {
	r.discard = true
	r.env.rewrite("range", code, status.RequestedRangeNotSatisfiable)

	rejected := e.RemoveContentHeaders().
		SetBody(nil).
		SetHeader(headers.ContentRange, headers.Span{Length: e.Len(), Unsatisfied: true})

	return r.Forward(status.RequestedRangeNotSatisfiable, rejected)
}

func (r *ranges) AddAdditionalEntity(e entity.Entity) error {
	if r.discard {
		return nil
	}

	return r.Next.AddEntity(e)
}
