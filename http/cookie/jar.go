// Package cookie parses the Cookie request header.
package cookie

import (
	"errors"
	"strings"

	"github.com/indigo-web/facet/internal/strutil"
	"github.com/indigo-web/facet/kv"
)

// Jar holds cookie pairs in the order the user-agent sent them.
type Jar = *kv.Storage

func NewJar() Jar {
	return kv.New()
}

var ErrBadCookie = errors.New("cookie has a malformed syntax")

// Parse adds every name=value pair of a Cookie header value to the jar. Pairs are
// separated by semicolons, surrounding whitespaces and value quotes are dropped.
// A pair without the equality sign or with an empty name is malformed. Set-Cookie
// values aren't supported.
func Parse(jar Jar, value string) error {
	for len(value) > 0 {
		var pair string
		if semi := strings.IndexByte(value, ';'); semi != -1 {
			pair, value = value[:semi], value[semi+1:]
		} else {
			pair, value = value, ""
		}

		if pair = strutil.TrimWS(pair); len(pair) == 0 {
			continue
		}

		name, val, found := strings.Cut(pair, "=")
		if name = strutil.TrimWS(name); !found || len(name) == 0 {
			return ErrBadCookie
		}

		jar.Add(name, strutil.Unquote(strutil.TrimWS(val)))
	}

	return nil
}
