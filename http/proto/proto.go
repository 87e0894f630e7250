package proto

import "strings"

type Protocol uint8

const (
	Unknown Protocol = 0
	HTTP10  Protocol = 1 << iota
	HTTP11
	HTTP2

	HTTP1 = HTTP10 | HTTP11
)

func (p Protocol) String() string {
	lut := [...]string{HTTP10: "HTTP/1.0", HTTP11: "HTTP/1.1", HTTP2: "HTTP/2"}
	if int(p) >= len(lut) {
		return ""
	}

	return lut[p]
}

const httpScheme = "HTTP/"

var majorMinorVersionLUT = [10][10]Protocol{
	1: {0: HTTP10, 1: HTTP11},
	2: {0: HTTP2},
}

// FromString parses a protocol token as it appears in the request line, e.g. HTTP/1.1.
// HTTP/2 may be written either as HTTP/2 or HTTP/2.0.
func FromString(str string) Protocol {
	version, found := strings.CutPrefix(str, httpScheme)
	if !found {
		return Unknown
	}

	switch len(version) {
	case 1:
		return Parse(version[0]-'0', 0)
	case 3:
		if version[1] != '.' {
			return Unknown
		}

		return Parse(version[0]-'0', version[2]-'0')
	default:
		return Unknown
	}
}

func Parse(major, minor uint8) Protocol {
	if major > 9 || minor > 9 {
		return Unknown
	}

	return majorMinorVersionLUT[major][minor]
}
