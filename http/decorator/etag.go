package decorator

import (
	"github.com/indigo-web/facet/http"
	"github.com/indigo-web/facet/http/entity"
	"github.com/indigo-web/facet/http/headers"
	"github.com/indigo-web/facet/http/response"
	"github.com/indigo-web/facet/http/status"
)

// etag answers 304 Not Modified if the entity tag of the body matches one of the
// strong tags the client already has.
type etag struct {
	response.Buffering
	env         env
	tags        []headers.EntityTag
	hasher      Hasher
	notModified bool
}

// ETag is installed for GET and HEAD requests carrying at least one strong tag in
// If-None-Match.
func ETag(request *http.Request, next response.Response, opts Options) (response.Response, error) {
	if !request.Method.Cacheable() {
		return next, nil
	}

	tags, err := request.IfNoneMatch()
	if err != nil {
		return nil, err
	}

	var strong []headers.EntityTag
	for _, tag := range tags {
		if tag.IsStrong() {
			strong = append(strong, tag)
		}
	}

	if len(strong) == 0 {
		return next, nil
	}

	opts = opts.withDefaults()
	e := &etag{env: opts.env(), tags: strong, hasher: opts.Hasher}
	e.Buffering = response.NewBuffering(next, e)
	return e, nil
}

func (e *etag) SetBodyText(string) error {
	panic(ErrTextUnsupported)
}

func (e *etag) AddFirstEntity(code status.Code, ent entity.Entity) error {
	if code.Category() != status.Successful {
		return e.Forward(code, ent)
	}

	tag, found := ent.Headers().ETag()
	if !found {
		tag = e.hasher(ent.Body())
		ent = ent.SetHeader(headers.ETag, tag)
	}

	if !e.matches(tag) {
		return e.Forward(code, ent)
	}

	e.notModified = true
	e.env.rewrite("etag", code, status.NotModified)

	return e.Forward(status.NotModified, ent.RemoveContentHeaders().SetBody(nil))
}

func (e *etag) AddAdditionalEntity(ent entity.Entity) error {
	if e.notModified {
		return nil
	}

	return e.Next.AddEntity(ent)
}

func (e *etag) matches(tag headers.EntityTag) bool {
	for _, t := range e.tags {
		if t.StrongEqual(tag) {
			return true
		}
	}

	return false
}
