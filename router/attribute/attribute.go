package attribute

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/indigo-web/facet/http/headers"
)

var ErrBadAttribute = errors.New("malformed attribute")

// Kind discriminates attributes.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindTransport
	KindMethod
	KindProtocol
	KindPath
	KindQuery
	KindCookie
	KindHeader
	KindParam
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindMethod:
		return "method"
	case KindProtocol:
		return "protocol"
	case KindPath:
		return "path"
	case KindQuery:
		return "query"
	case KindCookie:
		return "cookie"
	case KindHeader:
		return "header"
	case KindParam:
		return "param"
	default:
		return "unknown"
	}
}

// Attribute is a key identifying a single facet of a request. Attributes are comparable
// and can be used as map keys: two attributes are the same if all their fields are equal.
// Name is meaningful for queries, cookies, headers and params, Index for path segments.
type Attribute struct {
	Kind  Kind
	Name  string
	Index int
}

var (
	Transport = Attribute{Kind: KindTransport}
	Method    = Attribute{Kind: KindMethod}
	Protocol  = Attribute{Kind: KindProtocol}
)

// PathComponent is the path segment at the index, counting from zero.
func PathComponent(index int) Attribute {
	return Attribute{Kind: KindPath, Index: index}
}

func QueryParam(name string) Attribute {
	return Attribute{Kind: KindQuery, Name: name}
}

func CookieName(name string) Attribute {
	return Attribute{Kind: KindCookie, Name: name}
}

// HeaderName canonicalizes the name, so header attributes are case-insensitive.
func HeaderName(name string) Attribute {
	return Attribute{Kind: KindHeader, Name: headers.Canonical(name)}
}

func BodyParam(name string) Attribute {
	return Attribute{Kind: KindParam, Name: name}
}

// Singular tells whether the attribute can have at most one value per request.
func (a Attribute) Singular() bool {
	switch a.Kind {
	case KindTransport, KindMethod, KindProtocol, KindPath:
		return true
	default:
		return false
	}
}

func (a Attribute) String() string {
	switch a.Kind {
	case KindTransport, KindMethod, KindProtocol:
		return a.Kind.String()
	case KindPath:
		return "path[" + strconv.Itoa(a.Index) + "]"
	case KindQuery, KindCookie, KindHeader, KindParam:
		return a.Kind.String() + ":" + a.Name
	default:
		return "unknown"
	}
}

// Parse is the inverse of String: it accepts "transport", "method", "protocol",
// "path[<index>]" and "<kind>:<name>" for queries, cookies, headers and params.
func Parse(str string) (Attribute, error) {
	switch str {
	case "transport":
		return Transport, nil
	case "method":
		return Method, nil
	case "protocol":
		return Protocol, nil
	}

	if index, found := strings.CutPrefix(str, "path["); found {
		index, found = strings.CutSuffix(index, "]")
		n, err := strconv.Atoi(index)
		if !found || err != nil || n < 0 {
			return Attribute{}, fmt.Errorf("%w: %q", ErrBadAttribute, str)
		}

		return PathComponent(n), nil
	}

	kind, name, found := strings.Cut(str, ":")
	if !found || len(name) == 0 {
		return Attribute{}, fmt.Errorf("%w: %q", ErrBadAttribute, str)
	}

	switch kind {
	case "query":
		return QueryParam(name), nil
	case "cookie":
		return CookieName(name), nil
	case "header":
		return HeaderName(name), nil
	case "param":
		return BodyParam(name), nil
	default:
		return Attribute{}, fmt.Errorf("%w: unknown kind %q", ErrBadAttribute, kind)
	}
}
