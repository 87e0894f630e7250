package table

import (
	"github.com/indigo-web/facet/router/attribute"
	"github.com/indigo-web/facet/router/routing"
)

// Table is an ordered collection of routings. The earliest registered routing that
// matches wins. Once built, a Table is read-only and safe for concurrent use.
type Table[T any] struct {
	routings []*routing.Routing[T]
}

func New[T any](routings ...*routing.Routing[T]) *Table[T] {
	return &Table[T]{routings: routings}
}

// Add appends a routing with the lowest priority so far. It must not be called
// concurrently with Match.
func (t *Table[T]) Add(r *routing.Routing[T]) *Table[T] {
	t.routings = append(t.routings, r)
	return t
}

// Match returns the target of the first matching routing.
func (t *Table[T]) Match(view *attribute.View) (target T, ok bool) {
	for _, r := range t.routings {
		if target, ok = r.Route(view); ok {
			return target, true
		}
	}

	return target, false
}

func (t *Table[T]) Len() int {
	return len(t.routings)
}

func (t *Table[T]) Routings() []*routing.Routing[T] {
	return t.routings
}
