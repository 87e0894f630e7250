package http

import (
	"strings"
)

type Path = string

// Segments splits the path into its components. The leading slash is dropped, so "/" has
// no segments at all, while "/a/" has two: "a" and an empty one.
func Segments(p Path) []string {
	p = strings.TrimPrefix(p, "/")
	if len(p) == 0 {
		return nil
	}

	return strings.Split(p, "/")
}

const hexDigits = "0123456789abcdef"

var shortEscapes = map[byte]byte{
	0x00: '0',
	'\a': 'a',
	'\b': 'b',
	'\t': 't',
	'\n': 'n',
	'\v': 'v',
	'\f': 'f',
	'\r': 'r',
}

// Escape makes the path safe to be written into logs: control characters get their
// C-style escapes when they have one, every other byte outside printable ASCII
// becomes \xHH. Paths consisting of printable ASCII only are returned as is.
func Escape(p Path) string {
	first := strings.IndexFunc(p, func(r rune) bool {
		return r < 0x20 || r > 0x7e
	})
	if first == -1 {
		return p
	}

	var b strings.Builder
	b.Grow(len(p) + len(p)/2)
	b.WriteString(p[:first])

	for i := first; i < len(p); i++ {
		c := p[i]
		switch short, ok := shortEscapes[c]; {
		case ok:
			b.WriteByte('\\')
			b.WriteByte(short)
		case c < 0x20 || c > 0x7e:
			b.WriteString(`\x`)
			b.WriteByte(hexDigits[c>>4])
			b.WriteByte(hexDigits[c&0xf])
		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}
