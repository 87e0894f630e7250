package decorator

import (
	"github.com/indigo-web/facet/http/entity"
	"github.com/indigo-web/facet/http/response"
)

// multipart lets additional entities through only if the first one declared a
// multipart/byteranges body.
type multipart struct {
	response.Wrapper
	seen, multipart bool
}

func Multipart(next response.Response) response.Response {
	return &multipart{Wrapper: response.Wrapper{Next: next}}
}

func (m *multipart) SetBody(body []byte) error {
	return m.AddEntity(response.Staged(m.Next, body))
}

func (m *multipart) AddEntity(e entity.Entity) error {
	if m.seen {
		if !m.multipart {
			return nil
		}

		return m.Next.AddEntity(e)
	}

	m.seen = true
	if ct, ok := e.Headers().ContentType(); ok {
		m.multipart = ct.IsByteRanges()
	}

	return m.Next.AddEntity(e)
}
