package decorator

import (
	"fmt"

	"github.com/indigo-web/facet/http"
	"github.com/indigo-web/facet/http/codec"
	"github.com/indigo-web/facet/http/entity"
	"github.com/indigo-web/facet/http/headers"
	"github.com/indigo-web/facet/http/response"
	"github.com/indigo-web/facet/http/status"
	"github.com/indigo-web/utils/strcomp"
)

// compression encodes the first entity with the codec. Further entities are parts of
// a multipart body and are left as they are.
type compression struct {
	response.Wrapper
	codec codec.Codec
	seen  bool
}

// Gzip is installed if the client accepts the coding of the codec, either explicitly
// or via a wildcard.
func Gzip(request *http.Request, next response.Response, opts Options) (response.Response, error) {
	prefs, found, err := request.AcceptEncoding()
	if err != nil || !found {
		return next, err
	}

	c := opts.withDefaults().Codec
	if !prefs.Accepts(c.Coding().String()) {
		return next, nil
	}

	return &compression{
		Wrapper: response.Wrapper{Next: next},
		codec:   c,
	}, nil
}

func (c *compression) AddHeader(name string, value headers.Value) error {
	if strcomp.EqualFold(name, headers.ContentEncoding) && isWildcard(value) {
		return fmt.Errorf("%w: wildcard Content-Encoding", status.ErrUnsupportedEncoding)
	}

	return c.Next.AddHeader(name, value)
}

func (c *compression) SetBody(body []byte) error {
	return c.AddEntity(response.Staged(c.Next, body))
}

func (c *compression) AddEntity(e entity.Entity) error {
	if c.seen {
		return c.Next.AddEntity(e)
	}

	c.seen = true

	declared, found := e.Header(headers.ContentEncoding)
	switch {
	case !found:
		if len(e.Body()) == 0 {
			return c.Next.AddEntity(e)
		}

		e = e.SetHeader(headers.ContentEncoding, c.codec.Coding())
	case isWildcard(declared):
		return fmt.Errorf("%w: wildcard Content-Encoding", status.ErrUnsupportedEncoding)
	default:
		coding, ok := declared.(headers.Coding)
		if !ok || !coding.Is(c.codec.Coding()) {
			return c.Next.AddEntity(e)
		}
	}

	compressed, err := c.codec.Encode(e.Body())
	if err != nil {
		return fmt.Errorf("%w: %s: %v", status.ErrInternalServerError, c.codec.Coding(), err)
	}

	e = e.SetBody(compressed)
	if e.HasHeader(headers.ContentLength) {
		e = e.SetHeader(headers.ContentLength, headers.Number(len(compressed)))
	}

	return c.Next.AddEntity(e)
}

func isWildcard(value headers.Value) bool {
	w, ok := value.(interface{ IsWildcard() bool })
	return ok && w.IsWildcard()
}
