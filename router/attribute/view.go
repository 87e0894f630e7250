package attribute

import (
	"fmt"
	"iter"

	"github.com/indigo-web/facet/http"
	"github.com/indigo-web/facet/http/cookie"
	"github.com/indigo-web/facet/kv"
	json "github.com/json-iterator/go"
)

// Entry is a single attribute of the request together with its value.
type Entry struct {
	Attribute Attribute
	Value     any
}

// View exposes every attribute of a single request uniformly. Values are:
// transport.Transport, method.Method and proto.Protocol for the respective singletons,
// string for path segments and []string for everything else.
//
// A View memoizes what it computes and therefore must not be shared between goroutines.
type View struct {
	request   *http.Request
	entries   []Entry
	listed    bool
	jar       cookie.Jar
	jarParsed bool
}

func NewView(request *http.Request) *View {
	return &View{request: request}
}

func (v *View) Request() *http.Request {
	return v.request
}

// Get returns the value of the attribute. Absent attributes, as well as attributes of
// unknown kinds, result in (nil, false).
func (v *View) Get(attr Attribute) (any, bool) {
	r := v.request

	switch attr.Kind {
	case KindTransport:
		return r.Transport, true
	case KindMethod:
		return r.Method, true
	case KindProtocol:
		return r.Protocol, true
	case KindPath:
		segments := r.Segments()
		if attr.Index < 0 || attr.Index >= len(segments) {
			return nil, false
		}

		return segments[attr.Index], true
	case KindQuery:
		return values(r.Query, attr.Name)
	case KindCookie:
		return values(v.cookies(), attr.Name)
	case KindHeader:
		return values(r.Headers, attr.Name)
	case KindParam:
		return values(r.Params, attr.Name)
	default:
		return nil, false
	}
}

// Len returns the number of entries.
func (v *View) Len() int {
	return len(v.Entries())
}

// Entries lists all the attributes in a fixed order: transport, method and protocol,
// then path segments, query parameters, cookies, headers and finally body parameters.
// Every name appears once, its entry holding all of its values. The result is
// computed once and shared, so it must not be modified.
func (v *View) Entries() []Entry {
	if v.listed {
		return v.entries
	}

	r := v.request
	entries := []Entry{
		{Transport, r.Transport},
		{Method, r.Method},
		{Protocol, r.Protocol},
	}

	for i, segment := range r.Segments() {
		entries = append(entries, Entry{PathComponent(i), segment})
	}

	entries = appendStorage(entries, r.Query, QueryParam)
	entries = appendStorage(entries, v.cookies(), CookieName)
	entries = appendStorage(entries, r.Headers, HeaderName)
	entries = appendStorage(entries, r.Params, BodyParam)

	v.entries, v.listed = entries, true
	return entries
}

// All iterates over the entries in their order.
func (v *View) All() iter.Seq2[Attribute, any] {
	return func(yield func(Attribute, any) bool) {
		for _, entry := range v.Entries() {
			if !yield(entry.Attribute, entry.Value) {
				return
			}
		}
	}
}

type jsonEntry struct {
	Attribute string `json:"attribute"`
	Value     any    `json:"value"`
}

// MarshalJSON renders the view as an ordered list of attribute-value pairs.
func (v *View) MarshalJSON() ([]byte, error) {
	entries := v.Entries()
	out := make([]jsonEntry, len(entries))

	for i, entry := range entries {
		value := entry.Value
		if s, ok := value.(fmt.Stringer); ok {
			value = s.String()
		}

		out[i] = jsonEntry{Attribute: entry.Attribute.String(), Value: value}
	}

	return json.ConfigCompatibleWithStandardLibrary.Marshal(out)
}

// cookies are parsed lazily. Malformed cookies are treated as absent.
func (v *View) cookies() cookie.Jar {
	if !v.jarParsed {
		v.jarParsed = true
		if jar, err := v.request.Cookies(); err == nil {
			v.jar = jar
		}
	}

	return v.jar
}

func values(storage *kv.Storage, name string) (any, bool) {
	if storage == nil {
		return nil, false
	}

	vals := storage.Values(name)
	if len(vals) == 0 {
		return nil, false
	}

	return vals, true
}

func appendStorage(entries []Entry, storage *kv.Storage, attr func(string) Attribute) []Entry {
	if storage == nil {
		return entries
	}

	for _, key := range storage.Keys() {
		entries = append(entries, Entry{attr(key), storage.Values(key)})
	}

	return entries
}
