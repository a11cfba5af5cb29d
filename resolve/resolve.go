// Package resolve turns entity references into canonical entities.
//
// A reference is one of the closed owl.Ref variants (owl.Entity, owl.Name,
// owl.Producer), a plain string (treated as a name), or an owl.IRI naming an
// entity by its full identifier.
package resolve

import (
	"context"
	"errors"
	"fmt"

	"github.com/c360studio/semframe/ontology"
	"github.com/c360studio/semframe/owl"
	errs "github.com/c360studio/semstreams/pkg/errs"
)

// maxProducerDepth bounds chains of producers returning producers.
const maxProducerDepth = 32

// InvalidReferenceError reports a reference that cannot be resolved to an
// entity of the expected kind.
type InvalidReferenceError struct {
	Expected owl.Kind
	Value    any
	Reason   string
}

func (e *InvalidReferenceError) Error() string {
	msg := fmt.Sprintf("invalid %s reference %v (%T)", e.Expected, e.Value, e.Value)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// IsInvalidReference reports whether err is or wraps an InvalidReferenceError.
func IsInvalidReference(err error) bool {
	var ref *InvalidReferenceError
	return errors.As(err, &ref)
}

// Resolver resolves references against one ontology's naming policy.
type Resolver struct {
	ontology *ontology.Ontology
	factory  owl.Factory
}

// New returns a resolver for o using its manager's factory.
func New(o *ontology.Ontology) *Resolver {
	return &Resolver{ontology: o, factory: o.Manager().Factory()}
}

// Ontology returns the ontology names are resolved against.
func (r *Resolver) Ontology() *ontology.Ontology { return r.ontology }

// Resolve returns the canonical entity of kind for ref.
func (r *Resolver) Resolve(ctx context.Context, ref any, kind owl.Kind) (owl.Entity, error) {
	e, err := r.resolve(ctx, ref, kind, 0)
	if err != nil {
		return owl.Entity{}, errs.WrapInvalid(err, "Resolver", "Resolve", "resolve "+kind.String())
	}
	return e, nil
}

// ResolveAll resolves each ref in order.
func (r *Resolver) ResolveAll(ctx context.Context, refs []any, kind owl.Kind) ([]owl.Entity, error) {
	out := make([]owl.Entity, 0, len(refs))
	for _, ref := range refs {
		e, err := r.Resolve(ctx, ref, kind)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// ResolveExpression resolves a class-valued reference. Anonymous class
// expressions are checked and passed through; entities and names resolve to
// a class.
func (r *Resolver) ResolveExpression(ctx context.Context, ref any) (owl.ClassExpression, error) {
	if _, ok := ref.(owl.Entity); ok {
		return r.Resolve(ctx, ref, owl.KindClass)
	}
	if ce, ok := ref.(owl.ClassExpression); ok {
		if err := owl.ValidateClassExpression(ce); err != nil {
			return nil, errs.WrapInvalid(&InvalidReferenceError{Expected: owl.KindClass, Value: ref, Reason: err.Error()},
				"Resolver", "ResolveExpression", "check class expression")
		}
		return ce, nil
	}
	return r.Resolve(ctx, ref, owl.KindClass)
}

func (r *Resolver) resolve(ctx context.Context, ref any, kind owl.Kind, depth int) (owl.Entity, error) {
	switch v := ref.(type) {
	case owl.Entity:
		if v.Kind != kind {
			return owl.Entity{}, &InvalidReferenceError{Expected: kind, Value: v, Reason: "entity is a " + v.Kind.String()}
		}
		return v, nil

	case owl.Producer:
		if v == nil {
			return owl.Entity{}, &InvalidReferenceError{Expected: kind, Value: ref, Reason: "nil producer"}
		}
		if depth >= maxProducerDepth {
			return owl.Entity{}, &InvalidReferenceError{Expected: kind, Value: ref, Reason: "producer chain too deep"}
		}
		if err := ctx.Err(); err != nil {
			return owl.Entity{}, err
		}
		next, err := v()
		if err != nil {
			return owl.Entity{}, fmt.Errorf("producer: %w", err)
		}
		return r.resolve(ctx, next, kind, depth+1)

	case func() (owl.Ref, error):
		return r.resolve(ctx, owl.Producer(v), kind, depth)

	case owl.Name:
		return r.named(string(v), kind)

	case string:
		return r.named(v, kind)

	case owl.IRI:
		e, err := r.factory.Entity(kind, string(v))
		if err != nil {
			return owl.Entity{}, &InvalidReferenceError{Expected: kind, Value: v, Reason: err.Error()}
		}
		return e, nil

	default:
		return owl.Entity{}, &InvalidReferenceError{Expected: kind, Value: ref}
	}
}

func (r *Resolver) named(name string, kind owl.Kind) (owl.Entity, error) {
	if name == "" {
		return owl.Entity{}, &InvalidReferenceError{Expected: kind, Value: name, Reason: "empty name"}
	}
	e, err := r.factory.Entity(kind, r.ontology.IRIFor(name))
	if err != nil {
		return owl.Entity{}, &InvalidReferenceError{Expected: kind, Value: name, Reason: err.Error()}
	}
	return e, nil
}
