package strutil

import (
	"iter"
	"strings"
)

func LStripWS(str string) string {
	for i, c := range str {
		switch c {
		case ' ', '\t':
		default:
			return str[i:]
		}
	}

	return ""
}

func RStripWS(str string) string {
	for i := len(str); i > 0; i-- {
		switch str[i-1] {
		case ' ', '\t':
		default:
			return str[:i]
		}
	}

	return ""
}

func CutHeader(header string) (value, params string) {
	sep := strings.IndexByte(header, ';')
	if sep == -1 {
		return header, ""
	}

	return header[:sep], LStripWS(header[sep+1:])
}

func Unquote(str string) string {
	if len(str) > 1 && str[0] == '"' && str[len(str)-1] == '"' {
		return str[1 : len(str)-1]
	}

	return str
}

// TrimWS strips optional whitespaces on both sides of the string.
func TrimWS(str string) string {
	return RStripWS(LStripWS(str))
}

// SplitList walks over comma-separated list elements, as they are defined for
// list-based header fields. Empty elements are skipped, surrounding whitespaces
// are stripped.
func SplitList(value string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for len(value) > 0 {
			var elem string

			if comma := strings.IndexByte(value, ','); comma != -1 {
				elem, value = value[:comma], value[comma+1:]
			} else {
				elem, value = value, ""
			}

			if elem = TrimWS(elem); len(elem) == 0 {
				continue
			}

			if !yield(elem) {
				return
			}
		}
	}
}
