// Package probe introduces temporary entities or axioms into an ontology,
// runs a body against them, and removes them again on every exit path.
package probe

import (
	"context"
	"errors"
	"fmt"

	"github.com/c360studio/semframe/ontology"
	"github.com/c360studio/semframe/owl"
)

// Entities maps binding names to the entities built so far.
type Entities map[string]owl.Entity

// Axioms maps binding names to the axioms added so far.
type Axioms map[string]owl.Axiom

// EntityBinding names an entity and builds it. Build sees every earlier
// binding and is responsible for adding the entity's axioms.
type EntityBinding struct {
	Name  string
	Build func(ctx context.Context, bound Entities) (owl.Entity, error)
}

// AxiomBinding names an axiom and builds it. The axiom is added by
// WithAxioms, not by Build.
type AxiomBinding struct {
	Name  string
	Build func(ctx context.Context, bound Axioms) (owl.Axiom, error)
}

// WithEntities builds the bindings in order, runs body, and then removes
// every axiom mentioning each bound entity, in reverse binding order. Cleanup
// runs even when a binding or body fails or panics. Cleanup errors are
// joined after the body's error.
func WithEntities(ctx context.Context, o *ontology.Ontology, bindings []EntityBinding,
	body func(context.Context, Entities) error) (err error) {
	bound := make(Entities, len(bindings))
	var built []owl.Entity

	cleanupCtx := context.WithoutCancel(ctx)
	defer func() {
		var cleanupErrs []error
		for i := len(built) - 1; i >= 0; i-- {
			if _, rerr := o.RemoveEntity(cleanupCtx, built[i]); rerr != nil {
				cleanupErrs = append(cleanupErrs, fmt.Errorf("remove probe %s: %w", built[i], rerr))
			}
		}
		err = errors.Join(append([]error{err}, cleanupErrs...)...)
	}()

	for _, b := range bindings {
		e, berr := b.Build(ctx, bound)
		if !e.IsZero() {
			built = append(built, e)
		}
		if berr != nil {
			return fmt.Errorf("build probe %q: %w", b.Name, berr)
		}
		bound[b.Name] = e
	}
	return body(ctx, bound)
}

// WithAxioms adds each bound axiom in order, runs body, and then removes the
// added axioms in reverse order on every exit path. Axioms the ontology held
// before the probe are left in place.
func WithAxioms(ctx context.Context, o *ontology.Ontology, bindings []AxiomBinding,
	body func(context.Context, Axioms) error) (err error) {
	bound := make(Axioms, len(bindings))
	var added []owl.Axiom

	cleanupCtx := context.WithoutCancel(ctx)
	defer func() {
		var cleanupErrs []error
		for i := len(added) - 1; i >= 0; i-- {
			if _, rerr := o.Remove(cleanupCtx, added[i]); rerr != nil {
				cleanupErrs = append(cleanupErrs, fmt.Errorf("remove probe axiom %s: %w", added[i], rerr))
			}
		}
		err = errors.Join(append([]error{err}, cleanupErrs...)...)
	}()

	for _, b := range bindings {
		ax, berr := b.Build(ctx, bound)
		if berr != nil {
			return fmt.Errorf("build probe %q: %w", b.Name, berr)
		}
		existed, berr := o.Contains(ctx, ax)
		if berr != nil {
			return fmt.Errorf("add probe %q: %w", b.Name, berr)
		}
		if _, berr = o.Add(ctx, ax); berr != nil {
			return fmt.Errorf("add probe %q: %w", b.Name, berr)
		}
		if !existed {
			added = append(added, ax)
		}
		bound[b.Name] = ax
	}
	return body(ctx, bound)
}
