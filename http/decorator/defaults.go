package decorator

import (
	"github.com/indigo-web/facet/http/entity"
	"github.com/indigo-web/facet/http/headers"
	"github.com/indigo-web/facet/http/response"
)

// defaultHeaders completes the first entity with headers it doesn't set by itself.
type defaultHeaders struct {
	response.Wrapper
	defaults headers.Map
	seen     bool
}

// DefaultHeaders returns next as is if there are no default headers.
func DefaultHeaders(next response.Response, defaults headers.Map) response.Response {
	if defaults.Empty() {
		return next
	}

	return &defaultHeaders{
		Wrapper:  response.Wrapper{Next: next},
		defaults: defaults,
	}
}

func (d *defaultHeaders) SetBody(body []byte) error {
	return d.AddEntity(response.Staged(d.Next, body))
}

// SetBodyText stages the missing defaults, as the text becomes an entity only further
// down the pipeline.
func (d *defaultHeaders) SetBodyText(text string) error {
	if !d.seen {
		d.seen = true
		staged := d.Next.Headers()

		for name, value := range d.defaults.Pairs() {
			if staged.Has(name) {
				continue
			}

			if err := d.Next.AddHeader(name, value); err != nil {
				return err
			}
		}
	}

	return d.Next.SetBodyText(text)
}

func (d *defaultHeaders) AddEntity(e entity.Entity) error {
	if d.seen {
		return d.Next.AddEntity(e)
	}

	d.seen = true
	hdrs := e.Headers()

	for name, value := range d.defaults.Pairs() {
		if !hdrs.Has(name) {
			e = e.AddHeader(name, value)
		}
	}

	return d.Next.AddEntity(e)
}
