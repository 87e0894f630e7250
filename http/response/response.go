package response

import (
	"errors"

	"github.com/indigo-web/facet/http/entity"
	"github.com/indigo-web/facet/http/headers"
	"github.com/indigo-web/facet/http/status"
)

var (
	// ErrNoStatus is raised (as a panic) whenever an entity is added before any status was set.
	ErrNoStatus = errors.New("entity is added before the status")
	// ErrTextAfterBytes is raised (as a panic) when a text body follows already added entities.
	ErrTextAfterBytes = errors.New("text body after byte entities")
)

// Response is the contract every stage of the response pipeline implements, from the
// outermost decorator down to the sink actually holding the result.
type Response interface {
	SetStatus(code status.Code)
	// Headers returns the headers staged for the next SetBody or SetBodyText call.
	Headers() headers.Map
	AddHeader(name string, value headers.Value) error
	// SetBody adds an entity consisting of the staged headers and the body.
	SetBody(body []byte) error
	SetBodyText(text string) error
	AddEntity(e entity.Entity) error
}

// Staged returns an entity made of the headers staged at r and the body.
func Staged(r Response, body []byte) entity.Entity {
	return entity.New(r.Headers(), body)
}

// Wrapper forwards every call to the next response. Decorators embed it and override
// only the calls they intercept.
type Wrapper struct {
	Next Response
}

func (w Wrapper) SetStatus(code status.Code) {
	w.Next.SetStatus(code)
}

func (w Wrapper) Headers() headers.Map {
	return w.Next.Headers()
}

func (w Wrapper) AddHeader(name string, value headers.Value) error {
	return w.Next.AddHeader(name, value)
}

func (w Wrapper) SetBody(body []byte) error {
	return w.Next.SetBody(body)
}

func (w Wrapper) SetBodyText(text string) error {
	return w.Next.SetBodyText(text)
}

func (w Wrapper) AddEntity(e entity.Entity) error {
	return w.Next.AddEntity(e)
}
