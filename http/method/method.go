package method

import "strings"

type Method uint8

const (
	Unknown Method = iota
	GET
	HEAD
	POST
	PUT
	DELETE
	CONNECT
	OPTIONS
	TRACE
	PATCH

	count
)

// List contains every known method in their integer order.
var List = []Method{GET, HEAD, POST, PUT, DELETE, CONNECT, OPTIONS, TRACE, PATCH}

var names = [count]string{
	Unknown: "UNKNOWN",
	GET:     "GET",
	HEAD:    "HEAD",
	POST:    "POST",
	PUT:     "PUT",
	DELETE:  "DELETE",
	CONNECT: "CONNECT",
	OPTIONS: "OPTIONS",
	TRACE:   "TRACE",
	PATCH:   "PATCH",
}

func (m Method) String() string {
	if m >= count {
		return names[Unknown]
	}

	return names[m]
}

// Cacheable reports whether the method retrieves a representation, so conditional
// requests apply to it.
func (m Method) Cacheable() bool {
	return m == GET || m == HEAD
}

// Parse is case-sensitive, as method tokens are. Unrecognized methods are Unknown.
func Parse(str string) Method {
	for _, m := range List {
		if names[m] == str {
			return m
		}
	}

	return Unknown
}

// Set is a set of methods. The zero value is empty.
type Set uint16

func NewSet(methods ...Method) (s Set) {
	for _, m := range methods {
		s = s.With(m)
	}

	return s
}

func (s Set) With(m Method) Set {
	if m == Unknown || m >= count {
		return s
	}

	return s | 1<<m
}

func (s Set) Has(m Method) bool {
	return m < count && s&(1<<m) != 0
}

func (s Set) Empty() bool {
	return s == 0
}

// Methods returns the members in their integer order.
func (s Set) Methods() []Method {
	var methods []Method
	for _, m := range List {
		if s.Has(m) {
			methods = append(methods, m)
		}
	}

	return methods
}

// String lists the members separated by comma, the way Allow header does.
func (s Set) String() string {
	var b strings.Builder
	for i, m := range s.Methods() {
		if i > 0 {
			b.WriteString(", ")
		}

		b.WriteString(m.String())
	}

	return b.String()
}
