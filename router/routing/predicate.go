package routing

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Predicate decides whether an attribute value is acceptable. It is never called for
// absent attributes: a routing with a predicate on an absent attribute doesn't match.
type Predicate func(value any) bool

// texts returns the textual forms of the value. Multi-valued attributes yield every
// value, enums yield their names.
func texts(value any) []string {
	switch v := value.(type) {
	case string:
		return []string{v}
	case []string:
		return v
	case fmt.Stringer:
		return []string{v.String()}
	default:
		return nil
	}
}

func anyText(match func(string) bool) Predicate {
	return func(value any) bool {
		return slices.ContainsFunc(texts(value), match)
	}
}

// Equals matches if any of the values equals the string.
func Equals(str string) Predicate {
	return anyText(func(s string) bool {
		return s == str
	})
}

// EqualsFold is the case-insensitive Equals.
func EqualsFold(str string) Predicate {
	return anyText(func(s string) bool {
		return strings.EqualFold(s, str)
	})
}

// OneOf matches if any of the values equals any of the strings.
func OneOf(strs ...string) Predicate {
	return anyText(func(s string) bool {
		return slices.Contains(strs, s)
	})
}

func Prefix(prefix string) Predicate {
	return anyText(func(s string) bool {
		return strings.HasPrefix(s, prefix)
	})
}

func Matches(re *regexp.Regexp) Predicate {
	return anyText(re.MatchString)
}

// Present matches any value, so the routing only requires the attribute to exist.
func Present() Predicate {
	return func(any) bool {
		return true
	}
}

func Not(p Predicate) Predicate {
	return func(value any) bool {
		return !p(value)
	}
}

func And(ps ...Predicate) Predicate {
	return func(value any) bool {
		for _, p := range ps {
			if !p(value) {
				return false
			}
		}

		return true
	}
}

func Or(ps ...Predicate) Predicate {
	return func(value any) bool {
		for _, p := range ps {
			if p(value) {
				return true
			}
		}

		return false
	}
}
