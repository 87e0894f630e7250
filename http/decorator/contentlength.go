package decorator

import (
	"fmt"

	"github.com/indigo-web/facet/http/entity"
	"github.com/indigo-web/facet/http/headers"
	"github.com/indigo-web/facet/http/response"
	"github.com/indigo-web/facet/http/status"
)

// contentLength makes sure the first entity declares its body length correctly.
type contentLength struct {
	response.Wrapper
	seen bool
}

func ContentLength(next response.Response) response.Response {
	return &contentLength{Wrapper: response.Wrapper{Next: next}}
}

func (c *contentLength) SetBody(body []byte) error {
	return c.AddEntity(response.Staged(c.Next, body))
}

func (c *contentLength) AddEntity(e entity.Entity) error {
	if c.seen {
		return c.Next.AddEntity(e)
	}

	c.seen = true

	if declared, found := e.Header(headers.ContentLength); found {
		if err := checkLength(declared, e.Len()); err != nil {
			return err
		}

		return c.Next.AddEntity(e)
	}

	return c.Next.AddEntity(e.SetHeader(headers.ContentLength, headers.Number(e.Len())))
}

func checkLength(declared headers.Value, length int64) error {
	if n, ok := declared.(headers.Number); !ok || int64(n) != length {
		return fmt.Errorf("%w: declared %s, got %d", status.ErrContentLengthMismatch, declared, length)
	}

	return nil
}
