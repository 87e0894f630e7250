package entity

import (
	"github.com/indigo-web/facet/http/headers"
)

// Entity is a single unit of response content: typed headers and a body. Entities are
// values; every setter returns a new Entity and leaves the receiver untouched. The body
// is never copied, so callers must not modify a slice once it was handed over.
type Entity struct {
	headers headers.Map
	body    []byte
}

// Empty is an entity with neither headers nor body.
var Empty = Entity{}

func New(hdrs headers.Map, body []byte) Entity {
	return Entity{headers: hdrs, body: body}
}

// FromBody returns an entity with the body and no headers.
func FromBody(body []byte) Entity {
	return Entity{body: body}
}

func (e Entity) Headers() headers.Map {
	return e.headers
}

func (e Entity) Body() []byte {
	return e.body
}

// Len returns the body length.
func (e Entity) Len() int64 {
	return int64(len(e.body))
}

func (e Entity) Header(name string) (headers.Value, bool) {
	return e.headers.Get(name)
}

func (e Entity) HasHeader(name string) bool {
	return e.headers.Has(name)
}

// SetHeader replaces all the values of the header with a single one.
func (e Entity) SetHeader(name string, value headers.Value) Entity {
	e.headers = e.headers.With(name, value)
	return e
}

func (e Entity) AddHeader(name string, value headers.Value) Entity {
	e.headers = e.headers.Add(name, value)
	return e
}

func (e Entity) RemoveHeader(names ...string) Entity {
	e.headers = e.headers.Without(names...)
	return e
}

func (e Entity) SetHeaders(hdrs headers.Map) Entity {
	e.headers = hdrs
	return e
}

func (e Entity) SetBody(body []byte) Entity {
	e.body = body
	return e
}

// RemoveContentHeaders drops every header describing the body, e.g. Content-Length and
// Content-Type. The body itself is kept.
func (e Entity) RemoveContentHeaders() Entity {
	e.headers = e.headers.WithoutContent()
	return e
}
