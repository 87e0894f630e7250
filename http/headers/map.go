package headers

import (
	"iter"

	"github.com/indigo-web/utils/strcomp"
)

type Field struct {
	Name  string
	Value Value
}

// Map is an ordered collection of typed header fields. It is immutable: every modifying
// method returns a new Map and never touches the storage of the receiver, so Maps can
// be freely shared between entities. Names are compared case-insensitively.
type Map struct {
	fields []Field
}

func NewMap(fields ...Field) Map {
	m := Map{fields: make([]Field, 0, len(fields))}
	for _, f := range fields {
		m.fields = append(m.fields, Field{Name: Canonical(f.Name), Value: f.Value})
	}

	return m
}

// Get returns the first value of the header.
func (m Map) Get(name string) (Value, bool) {
	for _, f := range m.fields {
		if strcomp.EqualFold(f.Name, name) {
			return f.Value, true
		}
	}

	return nil, false
}

// Values returns all the values of the header in their order.
func (m Map) Values(name string) (values []Value) {
	for _, f := range m.fields {
		if strcomp.EqualFold(f.Name, name) {
			values = append(values, f.Value)
		}
	}

	return values
}

func (m Map) Has(name string) bool {
	_, found := m.Get(name)
	return found
}

// Len returns the number of fields, counting repeated names.
func (m Map) Len() int {
	return len(m.fields)
}

func (m Map) Empty() bool {
	return len(m.fields) == 0
}

// Fields returns a copy of the underlying fields.
func (m Map) Fields() []Field {
	return append([]Field(nil), m.fields...)
}

func (m Map) Pairs() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, f := range m.fields {
			if !yield(f.Name, f.Value) {
				return
			}
		}
	}
}

// Names returns unique header names in order of their first appearance.
func (m Map) Names() (names []string) {
	for _, f := range m.fields {
		if !containsFold(names, f.Name) {
			names = append(names, f.Name)
		}
	}

	return names
}

// With sets the header to a single value. The position of the first occurrence is kept.
func (m Map) With(name string, value Value) Map {
	out := Map{fields: make([]Field, 0, len(m.fields)+1)}
	replaced := false

	for _, f := range m.fields {
		if !strcomp.EqualFold(f.Name, name) {
			out.fields = append(out.fields, f)
			continue
		}

		if !replaced {
			out.fields = append(out.fields, Field{Name: f.Name, Value: value})
			replaced = true
		}
	}

	if !replaced {
		out.fields = append(out.fields, Field{Name: Canonical(name), Value: value})
	}

	return out
}

// Add appends a value, keeping already existing values of the header.
func (m Map) Add(name string, value Value) Map {
	fields := make([]Field, len(m.fields), len(m.fields)+1)
	copy(fields, m.fields)

	return Map{fields: append(fields, Field{Name: Canonical(name), Value: value})}
}

// Without removes all the values of the passed headers.
func (m Map) Without(names ...string) Map {
	return m.Filter(func(name string) bool {
		return !containsFold(names, name)
	})
}

// Filter keeps only fields whose names satisfy the predicate.
func (m Map) Filter(keep func(name string) bool) Map {
	out := Map{fields: make([]Field, 0, len(m.fields))}
	for _, f := range m.fields {
		if keep(f.Name) {
			out.fields = append(out.fields, f)
		}
	}

	return out
}

// WithoutContent removes all the content headers.
func (m Map) WithoutContent() Map {
	return m.Filter(func(name string) bool {
		return !IsContent(name)
	})
}

func (m Map) ContentLength() (int64, bool) {
	n, ok := get[Number](m, ContentLength)
	return int64(n), ok
}

func (m Map) ContentType() (MediaType, bool) {
	return get[MediaType](m, ContentType)
}

func (m Map) ContentEncoding() (Coding, bool) {
	return get[Coding](m, ContentEncoding)
}

func (m Map) ETag() (EntityTag, bool) {
	return get[EntityTag](m, ETag)
}

func (m Map) LastModified() (Timestamp, bool) {
	return get[Timestamp](m, LastModified)
}

// get returns the first value of the header if it is of the requested type.
func get[T Value](m Map, name string) (value T, ok bool) {
	raw, found := m.Get(name)
	if !found {
		return value, false
	}

	value, ok = raw.(T)
	return value, ok
}

func containsFold(collection []string, key string) bool {
	for _, element := range collection {
		if strcomp.EqualFold(element, key) {
			return true
		}
	}

	return false
}
