package headers

import (
	"errors"
	"fmt"
	"net/textproto"
	"strings"
)

const (
	Accept             = "Accept"
	AcceptCharset      = "Accept-Charset"
	AcceptEncoding     = "Accept-Encoding"
	AcceptLanguage     = "Accept-Language"
	AcceptRanges       = "Accept-Ranges"
	Age                = "Age"
	Allow              = "Allow"
	Authorization      = "Authorization"
	CacheControl       = "Cache-Control"
	Connection         = "Connection"
	ContentDisposition = "Content-Disposition"
	ContentEncoding    = "Content-Encoding"
	ContentLanguage    = "Content-Language"
	ContentLength      = "Content-Length"
	ContentLocation    = "Content-Location"
	ContentMD5         = "Content-MD5"
	ContentRange       = "Content-Range"
	ContentType        = "Content-Type"
	Cookie             = "Cookie"
	Date               = "Date"
	ETag               = "ETag"
	Expect             = "Expect"
	Expires            = "Expires"
	Host               = "Host"
	IfMatch            = "If-Match"
	IfModifiedSince    = "If-Modified-Since"
	IfNoneMatch        = "If-None-Match"
	IfRange            = "If-Range"
	IfUnmodifiedSince  = "If-Unmodified-Since"
	LastModified       = "Last-Modified"
	Location           = "Location"
	ProxyAuthenticate  = "Proxy-Authenticate"
	ProxyAuthorization = "Proxy-Authorization"
	Range              = "Range"
	Referer            = "Referer"
	RetryAfter         = "Retry-After"
	Server             = "Server"
	SetCookie          = "Set-Cookie"
	TE                 = "TE"
	TransferEncoding   = "Transfer-Encoding"
	Upgrade            = "Upgrade"
	UserAgent          = "User-Agent"
	Vary               = "Vary"
	WWWAuthenticate    = "WWW-Authenticate"
)

// Scope is a set of message kinds a header is allowed to appear in.
type Scope uint8

const (
	ScopeRequest Scope = 1 << iota
	ScopeResponse
	ScopeMultipart

	ScopeAny = ScopeRequest | ScopeResponse | ScopeMultipart
)

func (s Scope) Allows(other Scope) bool {
	return s&other != 0
}

func (s Scope) String() string {
	switch s {
	case ScopeRequest:
		return "request"
	case ScopeResponse:
		return "response"
	case ScopeMultipart:
		return "multipart body"
	default:
		return "message"
	}
}

// ErrScope is reported (in a form of panic by the pipeline) whenever a header appears in a
// message kind it isn't defined for.
var ErrScope = errors.New("header is out of its scope")

type info struct {
	name    string
	scope   Scope
	content bool
	parse   parser
}

var wellKnown = func(infos ...info) map[string]info {
	m := make(map[string]info, len(infos))
	for _, i := range infos {
		m[strings.ToLower(i.name)] = i
	}

	return m
}(
	info{Accept, ScopeRequest, false, parseText},
	info{AcceptCharset, ScopeRequest, false, parseText},
	info{AcceptEncoding, ScopeRequest, false, parseText},
	info{AcceptLanguage, ScopeRequest, false, parseText},
	info{AcceptRanges, ScopeResponse, false, parseText},
	info{Age, ScopeResponse, false, parseNumber},
	info{Allow, ScopeRequest | ScopeResponse, false, parseText},
	info{Authorization, ScopeRequest, false, parseText},
	info{CacheControl, ScopeRequest | ScopeResponse, false, parseText},
	info{Connection, ScopeRequest | ScopeResponse, false, parseText},
	info{ContentDisposition, ScopeResponse | ScopeMultipart, true, parseText},
	info{ContentEncoding, ScopeAny, true, parseCoding},
	info{ContentLanguage, ScopeAny, true, parseText},
	info{ContentLength, ScopeAny, true, parseNumber},
	info{ContentLocation, ScopeAny, true, parseText},
	info{ContentMD5, ScopeAny, true, parseText},
	info{ContentRange, ScopeResponse | ScopeMultipart, true, parseText},
	info{ContentType, ScopeAny, true, parseMediaType},
	info{Cookie, ScopeRequest, false, parseText},
	info{Date, ScopeRequest | ScopeResponse, false, parseDate},
	info{ETag, ScopeResponse, false, parseEntityTag},
	info{Expect, ScopeRequest, false, parseText},
	info{Expires, ScopeResponse, false, parseDate},
	info{Host, ScopeRequest, false, parseText},
	info{IfMatch, ScopeRequest, false, parseText},
	info{IfModifiedSince, ScopeRequest, false, parseDate},
	info{IfNoneMatch, ScopeRequest, false, parseText},
	info{IfRange, ScopeRequest, false, parseText},
	info{IfUnmodifiedSince, ScopeRequest, false, parseDate},
	info{LastModified, ScopeResponse, false, parseDate},
	info{Location, ScopeResponse, false, parseText},
	info{ProxyAuthenticate, ScopeResponse, false, parseText},
	info{ProxyAuthorization, ScopeRequest, false, parseText},
	info{Range, ScopeRequest, false, parseText},
	info{Referer, ScopeRequest, false, parseText},
	info{RetryAfter, ScopeResponse, false, parseText},
	info{Server, ScopeResponse, false, parseText},
	info{SetCookie, ScopeResponse, false, parseText},
	info{TE, ScopeRequest, false, parseText},
	info{TransferEncoding, ScopeRequest | ScopeResponse, false, parseText},
	info{Upgrade, ScopeRequest | ScopeResponse, false, parseText},
	info{UserAgent, ScopeRequest, false, parseText},
	info{Vary, ScopeResponse, false, parseText},
	info{WWWAuthenticate, ScopeResponse, false, parseText},
)

func lookup(name string) (info, bool) {
	i, found := wellKnown[strings.ToLower(name)]
	return i, found
}

// Canonical returns the conventional spelling of the header name. Well-known names
// keep their registered form (ETag, WWW-Authenticate), the rest is canonicalized
// in MIME manner.
func Canonical(name string) string {
	if i, found := lookup(name); found {
		return i.name
	}

	return textproto.CanonicalMIMEHeaderKey(name)
}

// ScopeOf returns the scope of the header. Unknown headers are allowed anywhere.
func ScopeOf(name string) Scope {
	if i, found := lookup(name); found {
		return i.scope
	}

	return ScopeAny
}

// IsContent tells whether the header describes the body framing or representation.
// Such headers are removed together with the body they describe.
func IsContent(name string) bool {
	i, found := lookup(name)
	return found && i.content
}

// CheckResponse validates that the header is allowed to appear in a response, taking
// both its name and its value into account. Wildcards are valid in requests only.
func CheckResponse(name string, value Value) error {
	return Check(ScopeResponse, name, value)
}

// Check validates the header against the message kind it is going to appear in.
func Check(scope Scope, name string, value Value) error {
	if !ScopeOf(name).Allows(scope) {
		return fmt.Errorf("%w: %s is not allowed in %s", ErrScope, Canonical(name), scope)
	}

	if scope != ScopeRequest {
		if w, ok := value.(interface{ IsWildcard() bool }); ok && w.IsWildcard() {
			return fmt.Errorf("%w: %s: %s wildcard is valid in requests only", ErrScope, Canonical(name), value)
		}
	}

	return nil
}
