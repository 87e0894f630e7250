package response

import (
	"github.com/indigo-web/facet/http/entity"
	"github.com/indigo-web/facet/http/status"
	"github.com/indigo-web/utils/uf"
)

// Interceptor receives entities passing through a Buffering response.
type Interceptor interface {
	// AddFirstEntity is called once, with the status set so far. It decides the final
	// status and is responsible for forwarding both the status and the entity.
	AddFirstEntity(code status.Code, e entity.Entity) error
	AddAdditionalEntity(e entity.Entity) error
}

// Buffering holds the status back until the first entity is known, so that the entity
// is able to influence the final status (e.g. 200 becoming 304). Once the first entity
// passed, the response is committed and SetStatus is forwarded immediately.
type Buffering struct {
	Wrapper
	interceptor Interceptor
	code        status.Code
	hasStatus   bool
	committed   bool
}

func NewBuffering(next Response, interceptor Interceptor) Buffering {
	return Buffering{
		Wrapper:     Wrapper{Next: next},
		interceptor: interceptor,
	}
}

func (b *Buffering) SetStatus(code status.Code) {
	if b.committed {
		b.Next.SetStatus(code)
		return
	}

	b.code, b.hasStatus = code, true
}

// SetBody is converted into an entity, so every body reaches the interceptor.
func (b *Buffering) SetBody(body []byte) error {
	return b.AddEntity(Staged(b.Next, body))
}

// SetBodyText stores the text as UTF-8 bytes, the way Sink does. Only the first body
// may be a text.
func (b *Buffering) SetBodyText(text string) error {
	if b.committed {
		panic(ErrTextAfterBytes)
	}

	return b.AddEntity(Staged(b.Next, uf.S2B(text)))
}

func (b *Buffering) AddEntity(e entity.Entity) error {
	if b.committed {
		return b.interceptor.AddAdditionalEntity(e)
	}

	if !b.hasStatus {
		panic(ErrNoStatus)
	}

	b.committed = true
	return b.interceptor.AddFirstEntity(b.code, e)
}

// Committed tells whether the first entity already passed.
func (b *Buffering) Committed() bool {
	return b.committed
}

// Forward passes the status and the entity down unchanged.
func (b *Buffering) Forward(code status.Code, e entity.Entity) error {
	b.Next.SetStatus(code)
	return b.Next.AddEntity(e)
}
