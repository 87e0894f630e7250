package decorator

import (
	"fmt"

	"github.com/indigo-web/facet/http"
	"github.com/indigo-web/facet/http/entity"
	"github.com/indigo-web/facet/http/headers"
	"github.com/indigo-web/facet/http/mime"
	"github.com/indigo-web/facet/http/response"
	"github.com/indigo-web/facet/http/status"
	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"
	"golang.org/x/text/encoding/htmlindex"
)

// charset checks the declared charset against Accept-Charset and turns text bodies
// into bytes.
type charset struct {
	response.Wrapper
	accepted  headers.Preferences
	negotiate bool
	seen      bool
}

// Charset is always installed, as it is the only stage converting text bodies. The
// Content-Type charset is only checked if the client sent Accept-Charset.
func Charset(request *http.Request, next response.Response) (response.Response, error) {
	prefs, found, err := request.AcceptCharset()
	if err != nil {
		return nil, err
	}

	return &charset{
		Wrapper:   response.Wrapper{Next: next},
		accepted:  prefs,
		negotiate: found,
	}, nil
}

func (c *charset) AddHeader(name string, value headers.Value) error {
	if c.negotiate && strcomp.EqualFold(name, headers.ContentType) {
		if err := c.check(value); err != nil {
			return err
		}
	}

	return c.Next.AddHeader(name, value)
}

func (c *charset) check(value headers.Value) error {
	mt, ok := value.(headers.MediaType)
	if !ok {
		return fmt.Errorf("%w: Content-Type %q is not a media type", status.ErrCharsetNotAcceptable, value)
	}

	cs, found := mt.Charset()
	if !found {
		return fmt.Errorf("%w: %s declares no charset", status.ErrCharsetNotAcceptable, mt.Essence())
	}

	if c.accepted.Accepts(cs) {
		return nil
	}

	if enc, err := htmlindex.Get(cs); err == nil {
		if name, err := htmlindex.Name(enc); err == nil && c.accepted.Accepts(name) {
			return nil
		}
	}

	return fmt.Errorf("%w: %s", status.ErrCharsetNotAcceptable, cs)
}

func (c *charset) SetBody(body []byte) error {
	c.seen = true
	return c.Next.SetBody(body)
}

func (c *charset) AddEntity(e entity.Entity) error {
	c.seen = true
	return c.Next.AddEntity(e)
}

// SetBodyText encodes the text with the charset of the staged Content-Type, which
// defaults to UTF-8. The resulting entity declares its length; a staged Content-Length
// must match it. Only the first body may be a text.
func (c *charset) SetBodyText(text string) error {
	if c.seen {
		panic(response.ErrTextAfterBytes)
	}

	staged := c.Next.Headers()
	ct, found := staged.ContentType()
	if !found {
		panic(ErrNoContentType)
	}

	cs, found := ct.Charset()
	if !found {
		cs = mime.UTF8
		staged = staged.With(headers.ContentType, ct.WithParam("charset", cs))
	}

	body, err := encode(cs, text)
	if err != nil {
		return err
	}

	if declared, found := staged.Get(headers.ContentLength); found {
		if err = checkLength(declared, int64(len(body))); err != nil {
			return err
		}
	}

	e := response.Staged(c.Next, body).
		SetHeaders(staged).
		SetHeader(headers.ContentLength, headers.Number(len(body)))

	c.seen = true
	return c.Next.AddEntity(e)
}

func encode(cs, text string) ([]byte, error) {
	if strcomp.EqualFold(cs, mime.UTF8) || strcomp.EqualFold(cs, "utf8") {
		return uf.S2B(text), nil
	}

	enc, err := htmlindex.Get(cs)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown charset %s", status.ErrCharsetNotAcceptable, cs)
	}

	body, err := enc.NewEncoder().Bytes(uf.S2B(text))
	if err != nil {
		return nil, fmt.Errorf("%w: encoding to %s: %v", status.ErrInternalServerError, cs, err)
	}

	return body, nil
}
