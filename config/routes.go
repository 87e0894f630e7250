package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/indigo-web/facet/http/headers"
	"github.com/indigo-web/facet/http/method"
	"github.com/indigo-web/facet/http/mime"
	"github.com/indigo-web/facet/http/response"
	"github.com/indigo-web/facet/http/status"
	"github.com/indigo-web/facet/router/attribute"
	"github.com/indigo-web/facet/router/routing"
	"github.com/indigo-web/facet/router/table"
)

// AnySegment is the path pattern matching every segment.
const AnySegment = "*"

type (
	// Match requires a named request attribute to carry the value. An empty value only
	// requires the attribute to be present.
	Match struct {
		Name  string `yaml:"name" mapstructure:"name" validate:"required"`
		Value string `yaml:"value,omitempty" mapstructure:"value"`
	}

	// Expression is a CEL predicate over the attribute, e.g. `value.startsWith("v")`.
	Expression struct {
		Attribute string `yaml:"attribute" mapstructure:"attribute" validate:"required,attribute"`
		Expr      string `yaml:"expr" mapstructure:"expr" validate:"required"`
	}

	Response struct {
		Status int `yaml:"status" mapstructure:"status" validate:"min=100,max=599"`
		// ContentType of a file defaults to the one guessed by its extension.
		ContentType string `yaml:"content_type,omitempty" mapstructure:"content_type" validate:"required_with=Body"`
		Body        string `yaml:"body,omitempty" mapstructure:"body" validate:"excluded_with=File"`
		// File is read on every request, so its changes are served without a restart.
		File string `yaml:"file,omitempty" mapstructure:"file" validate:"omitempty,file"`
	}

	// Route is a static endpoint. It matches if the request satisfies every listed
	// condition, conditions left empty don't restrict anything.
	Route struct {
		Name    string   `yaml:"name" mapstructure:"name" validate:"required"`
		Methods []string `yaml:"methods,omitempty" mapstructure:"methods" validate:"dive,oneof=GET HEAD POST PUT DELETE CONNECT OPTIONS TRACE PATCH"`
		// Path lists the patterns of the leading path segments. A pattern is either the
		// exact segment or AnySegment. Segments past the listed ones aren't checked.
		Path     []string     `yaml:"path,omitempty" mapstructure:"path"`
		Headers  []Match      `yaml:"headers,omitempty" mapstructure:"headers" validate:"dive"`
		Query    []Match      `yaml:"query,omitempty" mapstructure:"query" validate:"dive"`
		Cookies  []Match      `yaml:"cookies,omitempty" mapstructure:"cookies" validate:"dive"`
		Expr     []Expression `yaml:"expr,omitempty" mapstructure:"expr" validate:"dive"`
		Response Response     `yaml:"response" mapstructure:"response"`
	}
)

// Compile builds the routing targeting the route itself.
func (r *Route) Compile() (*routing.Routing[*Route], error) {
	var errs []error
	b := routing.With(r)

	for _, name := range r.Methods {
		m := method.Parse(name)
		if m == method.Unknown {
			errs = append(errs, fmt.Errorf("unknown method: %q", name))
			continue
		}

		b.Method(m)
	}

	for i, pattern := range r.Path {
		b.Path(i, segment(pattern))
	}

	for _, h := range r.Headers {
		b.Header(h.Name, h.predicate())
	}

	for _, q := range r.Query {
		b.Query(q.Name, q.predicate())
	}

	for _, c := range r.Cookies {
		b.Cookie(c.Name, c.predicate())
	}

	for _, e := range r.Expr {
		attr, err := attribute.Parse(e.Attribute)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		b.Expr(attr, e.Expr)
	}

	compiled, err := b.Build()
	if err = errors.Join(append(errs, err)...); err != nil {
		return nil, fmt.Errorf("route %s: %w", r.Name, err)
	}

	return compiled, nil
}

func segment(pattern string) routing.Predicate {
	if pattern == AnySegment {
		return routing.Present()
	}

	return routing.Equals(pattern)
}

func (m Match) predicate() routing.Predicate {
	if len(m.Value) == 0 {
		return routing.Present()
	}

	return routing.Equals(m.Value)
}

// Write responds with the configured status and body. Bodies are written as text,
// leaving the charset to the pipeline. Files are written as they are, along with
// their modification time.
func (r *Route) Write(resp response.Response) error {
	resp.SetStatus(status.Code(r.Response.Status))

	if len(r.Response.File) > 0 {
		return r.writeFile(resp)
	}

	if len(r.Response.ContentType) == 0 {
		return resp.SetBody(nil)
	}

	contentType, err := headers.ParseMediaType(r.Response.ContentType)
	if err != nil {
		return fmt.Errorf("route %s: %w", r.Name, err)
	}

	if err = resp.AddHeader(headers.ContentType, contentType); err != nil {
		return err
	}

	return resp.SetBodyText(r.Response.Body)
}

func (r *Route) writeFile(resp response.Response) error {
	info, err := os.Stat(r.Response.File)
	if err != nil {
		return fmt.Errorf("route %s: %w", r.Name, err)
	}

	body, err := os.ReadFile(r.Response.File)
	if err != nil {
		return fmt.Errorf("route %s: %w", r.Name, err)
	}

	raw := r.Response.ContentType
	if len(raw) == 0 {
		raw = mime.Classify(r.Response.File)
	}

	contentType, err := headers.ParseMediaType(raw)
	if err != nil {
		return fmt.Errorf("route %s: %w", r.Name, err)
	}

	if _, found := contentType.Charset(); !found {
		if charset, ok := mime.DefaultCharset[contentType.Essence()]; ok {
			contentType = contentType.WithParam("charset", charset)
		}
	}

	if err = resp.AddHeader(headers.ContentType, contentType); err != nil {
		return err
	}

	if err = resp.AddHeader(headers.LastModified, headers.NewTimestamp(info.ModTime())); err != nil {
		return err
	}

	return resp.SetBody(body)
}

// Table compiles all the routes, preserving their order.
func (c *Config) Table() (*table.Table[*Route], error) {
	t := table.New[*Route]()
	var errs []error

	for i := range c.Routes {
		r, err := c.Routes[i].Compile()
		if err != nil {
			errs = append(errs, err)
			continue
		}

		t.Add(r)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return t, nil
}

func (r *Route) String() string {
	return r.Name
}
