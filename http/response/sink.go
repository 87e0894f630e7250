package response

import (
	"github.com/indigo-web/facet/http/entity"
	"github.com/indigo-web/facet/http/headers"
	"github.com/indigo-web/facet/http/status"
	"github.com/indigo-web/utils/uf"
)

var _ Response = new(Sink)

// Sink is the terminal response. It records everything it receives in memory, leaving
// the actual writing to the transport.
type Sink struct {
	code     status.Code
	staged   headers.Map
	entities []entity.Entity
}

// NewSink returns a sink with the status preset to 200 OK.
func NewSink() *Sink {
	return &Sink{code: status.OK}
}

func (s *Sink) SetStatus(code status.Code) {
	s.code = code
}

func (s *Sink) Headers() headers.Map {
	return s.staged
}

func (s *Sink) AddHeader(name string, value headers.Value) error {
	s.staged = s.staged.Add(name, value)
	return nil
}

func (s *Sink) SetBody(body []byte) error {
	return s.AddEntity(Staged(s, body))
}

// SetBodyText stores the text as UTF-8 bytes. Only the very first body may be a text.
func (s *Sink) SetBodyText(text string) error {
	if len(s.entities) > 0 {
		panic(ErrTextAfterBytes)
	}

	return s.SetBody(uf.S2B(text))
}

// AddEntity records the entity. Staged headers are consumed.
func (s *Sink) AddEntity(e entity.Entity) error {
	s.entities = append(s.entities, e)
	s.staged = headers.Map{}
	return nil
}

func (s *Sink) Status() status.Code {
	return s.code
}

func (s *Sink) Entities() []entity.Entity {
	return s.entities
}

// Entity returns the first entity, which carries the response headers.
func (s *Sink) Entity() (entity.Entity, bool) {
	if len(s.entities) == 0 {
		return entity.Empty, false
	}

	return s.entities[0], true
}

// Body returns all the entity bodies concatenated.
func (s *Sink) Body() []byte {
	if len(s.entities) == 1 {
		return s.entities[0].Body()
	}

	var body []byte
	for _, e := range s.entities {
		body = append(body, e.Body()...)
	}

	return body
}

// Reset prepares the sink for another response.
func (s *Sink) Reset() {
	*s = Sink{code: status.OK, entities: s.entities[:0]}
}
