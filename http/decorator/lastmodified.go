package decorator

import (
	"time"

	"github.com/indigo-web/facet/http"
	"github.com/indigo-web/facet/http/entity"
	"github.com/indigo-web/facet/http/headers"
	"github.com/indigo-web/facet/http/response"
	"github.com/indigo-web/facet/http/status"
)

// lastModified answers 304 Not Modified if the entity didn't change since the moment
// the client has.
type lastModified struct {
	response.Buffering
	env         env
	since       time.Time
	notModified bool
}

// LastModified is installed for GET and HEAD requests carrying If-Modified-Since, but
// no If-None-Match, which takes precedence.
func LastModified(request *http.Request, next response.Response, opts Options) (response.Response, error) {
	if !request.Method.Cacheable() {
		return next, nil
	}

	if request.Headers.Has(headers.IfNoneMatch) {
		return next, nil
	}

	since, found, err := request.IfModifiedSince()
	if err != nil || !found {
		return next, err
	}

	l := &lastModified{env: opts.withDefaults().env(), since: since}
	l.Buffering = response.NewBuffering(next, l)
	return l, nil
}

func (l *lastModified) AddFirstEntity(code status.Code, e entity.Entity) error {
	if code.Category() != status.Successful {
		return l.Forward(code, e)
	}

	modified, found := e.Headers().LastModified()
	if !found || modified.Time().After(l.since) {
		return l.Forward(code, e)
	}

	l.notModified = true
	l.env.rewrite("last-modified", code, status.NotModified)

	return l.Forward(status.NotModified, e.RemoveContentHeaders().SetBody(nil))
}

func (l *lastModified) AddAdditionalEntity(e entity.Entity) error {
	if l.notModified {
		return nil
	}

	return l.Next.AddEntity(e)
}
