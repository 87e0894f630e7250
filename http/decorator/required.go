package decorator

import (
	"github.com/indigo-web/facet/http"
	"github.com/indigo-web/facet/http/entity"
	"github.com/indigo-web/facet/http/headers"
	"github.com/indigo-web/facet/http/proto"
	"github.com/indigo-web/facet/http/response"
	"github.com/indigo-web/facet/http/status"
)

// required downgrades a response lacking mandatory headers to 500 with an empty body
// and swallows everything that follows.
type required struct {
	response.Buffering
	env     env
	name    string
	missing func(code status.Code, e entity.Entity) bool
	ignore  bool
}

func newRequired(next response.Response, env env, name string, missing func(status.Code, entity.Entity) bool) *required {
	r := &required{env: env, name: name, missing: missing}
	r.Buffering = response.NewBuffering(next, r)
	return r
}

// ServerRequired is installed for HTTP/1.1 requests only. Successful and redirection
// responses must carry the Server header.
func ServerRequired(request *http.Request, next response.Response, opts Options) response.Response {
	if request.Protocol != proto.HTTP11 {
		return next
	}

	return newRequired(next, opts.withDefaults().env(), "server-required", func(code status.Code, e entity.Entity) bool {
		switch code.Category() {
		case status.Successful, status.Redirection:
			return !e.HasHeader(headers.Server)
		default:
			return false
		}
	})
}

// StatusRequired checks the headers the status code itself declares as mandatory.
func StatusRequired(next response.Response, opts Options) response.Response {
	return newRequired(next, opts.withDefaults().env(), "status-required", func(code status.Code, e entity.Entity) bool {
		for _, name := range code.RequiredHeaders() {
			if !e.HasHeader(name) {
				return true
			}
		}

		return false
	})
}

func (r *required) AddFirstEntity(code status.Code, e entity.Entity) error {
	if !r.missing(code, e) {
		return r.Forward(code, e)
	}

	r.ignore = true
	r.env.rewrite(r.name, code, status.InternalServerError)

	return r.Forward(status.InternalServerError, entity.Empty)
}

func (r *required) AddAdditionalEntity(e entity.Entity) error {
	if r.ignore {
		return nil
	}

	return r.Next.AddEntity(e)
}
