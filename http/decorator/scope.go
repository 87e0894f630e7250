package decorator

import (
	"github.com/indigo-web/facet/http/entity"
	"github.com/indigo-web/facet/http/headers"
	"github.com/indigo-web/facet/http/response"
)

// scope panics on every header that isn't allowed to appear where it is being put. The
// first entity carries the response headers, the rest are multipart parts.
type scope struct {
	response.Wrapper
	seen bool
}

func Scope(next response.Response) response.Response {
	return &scope{Wrapper: response.Wrapper{Next: next}}
}

func (s *scope) AddHeader(name string, value headers.Value) error {
	s.check(name, value)
	return s.Next.AddHeader(name, value)
}

func (s *scope) SetBody(body []byte) error {
	return s.AddEntity(response.Staged(s.Next, body))
}

func (s *scope) AddEntity(e entity.Entity) error {
	for name, value := range e.Headers().Pairs() {
		s.check(name, value)
	}

	s.seen = true
	return s.Next.AddEntity(e)
}

func (s *scope) check(name string, value headers.Value) {
	sc := headers.ScopeResponse
	if s.seen {
		sc = headers.ScopeMultipart
	}

	if err := headers.Check(sc, name, value); err != nil {
		panic(err)
	}
}
