package http

import (
	"errors"
	"fmt"
	"time"

	"github.com/indigo-web/facet/http/cookie"
	"github.com/indigo-web/facet/http/headers"
	"github.com/indigo-web/facet/http/method"
	"github.com/indigo-web/facet/http/proto"
	"github.com/indigo-web/facet/http/transport"
	"github.com/indigo-web/facet/kv"
)

type (
	Headers = *kv.Storage
	Params  = *kv.Storage
)

// Request is a transport-agnostic view on an inbound request. It carries raw header values;
// typed accessors parse them on demand.
type Request struct {
	// Transport tells whether the request arrived over an encrypted connection.
	Transport transport.Transport
	Method    method.Method
	Protocol  proto.Protocol
	// Path is the decoded request path, without the query.
	Path Path
	// Query holds URI parameters in their original order.
	Query Params
	// Headers holds non-normalized header pairs, lookup is case-insensitive.
	Headers Headers
	// Params are named body or form parameters, if the transport collaborator provides them.
	Params   Params
	jar      cookie.Jar
	segments []string
	split    bool
}

// NewRequest returns a GET HTTP/1.1 request for the path with empty storages.
func NewRequest(path Path) *Request {
	return &Request{
		Method:   method.GET,
		Protocol: proto.HTTP11,
		Path:     path,
		Query:    kv.New(),
		Headers:  kv.New(),
		Params:   kv.New(),
	}
}

// Segments returns the path components. They are computed once.
func (r *Request) Segments() []string {
	if !r.split {
		r.segments, r.split = Segments(r.Path), true
	}

	return r.segments
}

// Cookies returns a cookie jar with parsed cookies key-value pairs, and an error
// if the syntax is malformed. The jar is parsed once and cached.
func (r *Request) Cookies() (cookie.Jar, error) {
	if r.jar != nil {
		return r.jar, nil
	}

	jar := cookie.NewJar()

	// in RFC 6265, 5.4 cookies are explicitly prohibited from being split into
	// list, yet in HTTP/2 it's allowed. Some user-agents may still send them as
	// a list even via HTTP/1.1
	for _, value := range r.Headers.Values(headers.Cookie) {
		if err := cookie.Parse(jar, value); err != nil {
			return nil, err
		}
	}

	r.jar = jar
	return jar, nil
}

// AcceptEncoding returns parsed Accept-Encoding preferences. found is false if the
// header is absent.
func (r *Request) AcceptEncoding() (prefs headers.Preferences, found bool, err error) {
	return r.preferences(headers.AcceptEncoding)
}

// AcceptCharset returns parsed Accept-Charset preferences. found is false if the
// header is absent.
func (r *Request) AcceptCharset() (prefs headers.Preferences, found bool, err error) {
	return r.preferences(headers.AcceptCharset)
}

func (r *Request) preferences(name string) (prefs headers.Preferences, found bool, err error) {
	values := r.Headers.Values(name)
	if len(values) == 0 {
		return nil, false, nil
	}

	for _, value := range values {
		parsed, err := headers.ParseAccept(value)
		if err != nil {
			return nil, true, fmt.Errorf("%s: %w", name, err)
		}

		prefs = append(prefs, parsed...)
	}

	return prefs, true, nil
}

// IfNoneMatch returns the entity tags of every If-None-Match header. A wildcard is
// returned as headers.AnyTag.
func (r *Request) IfNoneMatch() (tags []headers.EntityTag, err error) {
	for _, value := range r.Headers.Values(headers.IfNoneMatch) {
		parsed, err := headers.ParseEntityTags(value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", headers.IfNoneMatch, err)
		}

		tags = append(tags, parsed...)
	}

	return tags, nil
}

// IfModifiedSince returns the If-Modified-Since value. found is false if the header
// is absent.
func (r *Request) IfModifiedSince() (t time.Time, found bool, err error) {
	value, found := r.Headers.Get(headers.IfModifiedSince)
	if !found {
		return time.Time{}, false, nil
	}

	ts, err := headers.ParseTimestamp(value)
	if err != nil {
		return time.Time{}, true, fmt.Errorf("%s: %w", headers.IfModifiedSince, err)
	}

	return ts.Time(), true, nil
}

var ErrMultipleRanges = errors.New("multiple Range headers")

// Ranges returns the requested byte ranges in their original order. found is false if
// the request carries no Range header.
func (r *Request) Ranges() (ranges []headers.ByteRange, found bool, err error) {
	values := r.Headers.Values(headers.Range)
	switch len(values) {
	case 0:
		return nil, false, nil
	case 1:
	default:
		return nil, true, ErrMultipleRanges
	}

	ranges, err = headers.ParseRanges(values[0])
	if err != nil {
		return nil, true, fmt.Errorf("%s: %w", headers.Range, err)
	}

	return ranges, true, nil
}
