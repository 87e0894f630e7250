package routing

import (
	"github.com/indigo-web/facet/router/attribute"
)

type check struct {
	attr attribute.Attribute
	pred Predicate
}

// Routing is an immutable set of predicates bound to a target. It is safe for
// concurrent use, as long as every goroutine routes its own View.
type Routing[T any] struct {
	target T
	checks []check
}

// Route returns the target if every predicate holds for the corresponding attribute of
// the request. A predicate on an attribute the request doesn't have fails.
func (r *Routing[T]) Route(view *attribute.View) (target T, ok bool) {
	for _, c := range r.checks {
		value, found := view.Get(c.attr)
		if !found || !c.pred(value) {
			return target, false
		}
	}

	return r.target, true
}

func (r *Routing[T]) Target() T {
	return r.target
}

// Attributes returns the attributes the routing checks, in order of registration.
func (r *Routing[T]) Attributes() []attribute.Attribute {
	attrs := make([]attribute.Attribute, len(r.checks))
	for i, c := range r.checks {
		attrs[i] = c.attr
	}

	return attrs
}
