package routing

import (
	"errors"
	"fmt"
	"slices"

	"github.com/indigo-web/facet/http/method"
	"github.com/indigo-web/facet/http/proto"
	"github.com/indigo-web/facet/http/transport"
	"github.com/indigo-web/facet/router/attribute"
)

var (
	ErrNoPredicates  = errors.New("routing has no predicates")
	ErrConflict      = errors.New("conflicting values for a single-value attribute")
	ErrDuplicate     = errors.New("attribute already has a predicate")
	ErrBadExpression = errors.New("bad expression")
)

// Builder accumulates predicates, at most one per attribute. Misconfigurations are
// collected and reported by Build, so a broken routing never reaches matching.
type Builder[T any] struct {
	target    T
	checks    []check
	transport *transport.Transport
	protocol  *proto.Protocol
	methods   method.Set
	errs      []error
}

// With starts a routing to the target.
func With[T any](target T) *Builder[T] {
	return &Builder[T]{target: target}
}

// Transport requires the request to arrive over the transport. Setting another
// transport afterward is a conflict.
func (b *Builder[T]) Transport(t transport.Transport) *Builder[T] {
	if b.transport != nil && *b.transport != t {
		return b.fail(fmt.Errorf("%w: transport %s and %s", ErrConflict, *b.transport, t))
	}

	b.transport = &t
	return b
}

// Protocol requires the protocol version. Setting another version afterward is a conflict.
func (b *Builder[T]) Protocol(p proto.Protocol) *Builder[T] {
	if b.protocol != nil && *b.protocol != p {
		return b.fail(fmt.Errorf("%w: protocol %s and %s", ErrConflict, *b.protocol, p))
	}

	b.protocol = &p
	return b
}

// Method is cumulative: the routing matches any of the methods passed over all calls.
func (b *Builder[T]) Method(methods ...method.Method) *Builder[T] {
	for _, m := range methods {
		b.methods = b.methods.With(m)
	}

	return b
}

// Path sets the predicate for the path segment at the index, counting from zero.
func (b *Builder[T]) Path(index int, p Predicate) *Builder[T] {
	if index < 0 {
		return b.fail(fmt.Errorf("negative path segment index: %d", index))
	}

	return b.Attribute(attribute.PathComponent(index), p)
}

func (b *Builder[T]) Header(name string, p Predicate) *Builder[T] {
	return b.Attribute(attribute.HeaderName(name), p)
}

func (b *Builder[T]) Cookie(name string, p Predicate) *Builder[T] {
	return b.Attribute(attribute.CookieName(name), p)
}

func (b *Builder[T]) Query(name string, p Predicate) *Builder[T] {
	return b.Attribute(attribute.QueryParam(name), p)
}

func (b *Builder[T]) Param(name string, p Predicate) *Builder[T] {
	return b.Attribute(attribute.BodyParam(name), p)
}

// Expr compiles a CEL expression and sets it as the predicate of the attribute.
func (b *Builder[T]) Expr(attr attribute.Attribute, expression string) *Builder[T] {
	p, err := Expr(expression)
	if err != nil {
		return b.fail(fmt.Errorf("%s: %w", attr, err))
	}

	return b.Attribute(attr, p)
}

// Attribute sets the predicate of an arbitrary attribute.
func (b *Builder[T]) Attribute(attr attribute.Attribute, p Predicate) *Builder[T] {
	if p == nil {
		return b.fail(fmt.Errorf("%s: nil predicate", attr))
	}

	if b.has(attr) {
		return b.fail(fmt.Errorf("%w: %s", ErrDuplicate, attr))
	}

	b.checks = append(b.checks, check{attr, p})
	return b
}

func (b *Builder[T]) has(attr attribute.Attribute) bool {
	return slices.ContainsFunc(b.checks, func(c check) bool {
		return c.attr == attr
	})
}

func (b *Builder[T]) fail(err error) *Builder[T] {
	b.errs = append(b.errs, err)
	return b
}

// Build compiles the routing. The builder may be reused afterward, further calls don't
// affect already built routings.
func (b *Builder[T]) Build() (*Routing[T], error) {
	var singletons []check

	if b.transport != nil {
		t := *b.transport
		singletons = append(singletons, check{attribute.Transport, func(value any) bool {
			return value == t
		}})
	}

	if b.protocol != nil {
		p := *b.protocol
		singletons = append(singletons, check{attribute.Protocol, func(value any) bool {
			return value == p
		}})
	}

	if !b.methods.Empty() {
		methods := b.methods
		singletons = append(singletons, check{attribute.Method, func(value any) bool {
			m, ok := value.(method.Method)
			return ok && methods.Has(m)
		}})
	}

	errs := slices.Clone(b.errs)
	for _, c := range singletons {
		if b.has(c.attr) {
			errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicate, c.attr))
		}
	}

	checks := append(singletons, b.checks...)
	if len(checks) == 0 {
		errs = append(errs, ErrNoPredicates)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return &Routing[T]{
		target: b.target,
		checks: checks,
	}, nil
}

// MustBuild is Build, panicking on error.
func (b *Builder[T]) MustBuild() *Routing[T] {
	r, err := b.Build()
	if err != nil {
		panic(err)
	}

	return r
}
