package decorator

import (
	"github.com/indigo-web/facet/http"
	"github.com/indigo-web/facet/http/entity"
	"github.com/indigo-web/facet/http/method"
	"github.com/indigo-web/facet/http/response"
)

// head keeps the headers of the first entity, but never lets any body through.
type head struct {
	response.Wrapper
	seen bool
}

// Head is installed for HEAD requests only.
func Head(request *http.Request, next response.Response) response.Response {
	if request.Method != method.HEAD {
		return next
	}

	return &head{Wrapper: response.Wrapper{Next: next}}
}

func (h *head) SetBody(body []byte) error {
	return h.AddEntity(response.Staged(h.Next, body))
}

func (h *head) SetBodyText(string) error {
	return h.AddEntity(response.Staged(h.Next, nil))
}

func (h *head) AddEntity(e entity.Entity) error {
	if h.seen {
		return nil
	}

	h.seen = true
	return h.Next.AddEntity(e.SetBody(nil))
}
