// Package collect records the entities created inside a scope so that the
// scope can relate them afterwards: pairwise disjointness, inverse pairing,
// and covering a superclass with the union of its subclasses.
//
// A collection window is carried by the context. With opens a fresh, empty
// window that shadows any outer one; the outer window never sees what was
// recorded inside.
package collect

import (
	"context"
	"fmt"
	"sync"

	"github.com/c360studio/semframe/frame"
	"github.com/c360studio/semframe/ontology"
	"github.com/c360studio/semframe/owl"
	errs "github.com/c360studio/semstreams/pkg/errs"
)

// InverseArityError reports an inverse scope that did not collect exactly
// two entities.
type InverseArityError struct {
	Collected []owl.Entity
}

func (e *InverseArityError) Error() string {
	return fmt.Sprintf("inverse scope needs exactly 2 properties, collected %d", len(e.Collected))
}

// InverseKindError reports an inverse scope that collected something other
// than an object property.
type InverseKindError struct {
	Entity owl.Entity
}

func (e *InverseKindError) Error() string {
	return fmt.Sprintf("inverse scope needs object properties, collected %s %s", e.Entity.Kind, e.Entity.IRI)
}

type window struct {
	mu       sync.Mutex
	entities []owl.Entity
}

type windowKey struct{}

// With runs body under a fresh collection window and returns what it
// collected, in creation order with duplicates kept.
func With(ctx context.Context, body func(context.Context) error) ([]owl.Entity, error) {
	w := &window{}
	err := body(context.WithValue(ctx, windowKey{}, w))
	return w.list(), err
}

// Active reports whether a collection window is open in ctx.
func Active(ctx context.Context) bool {
	_, ok := ctx.Value(windowKey{}).(*window)
	return ok
}

// Record appends e to the active window. It is a no-op outside a window.
func Record(ctx context.Context, e owl.Entity) {
	if w, ok := ctx.Value(windowKey{}).(*window); ok {
		w.mu.Lock()
		w.entities = append(w.entities, e)
		w.mu.Unlock()
	}
}

// Current returns a copy of the active window's list, or nil.
func Current(ctx context.Context) []owl.Entity {
	if w, ok := ctx.Value(windowKey{}).(*window); ok {
		return w.list()
	}
	return nil
}

func (w *window) list() []owl.Entity {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]owl.Entity(nil), w.entities...)
}

// Disjoint runs body and declares the distinct classes it created mutually
// disjoint. Fewer than two classes is a no-op.
func Disjoint(ctx context.Context, o *ontology.Ontology, body func(context.Context) error) ([]owl.Axiom, error) {
	collected, err := With(ctx, body)
	if err != nil {
		return nil, err
	}
	return disjointClasses(ctx, o, collected)
}

// DisjointProperties runs body and declares the distinct object properties
// it created mutually disjoint. Fewer than two is a no-op.
func DisjointProperties(ctx context.Context, o *ontology.Ontology, body func(context.Context) error) ([]owl.Axiom, error) {
	collected, err := With(ctx, body)
	if err != nil {
		return nil, err
	}
	props := distinctOfKind(collected, owl.KindObjectProperty)
	if len(props) < 2 {
		return nil, nil
	}
	return add(ctx, o, owl.NewDisjointObjectProperties(props...))
}

// Inverse runs body, which must create exactly two object properties, and
// declares them inverses of each other.
func Inverse(ctx context.Context, o *ontology.Ontology, body func(context.Context) error) ([]owl.Axiom, error) {
	collected, err := With(ctx, body)
	if err != nil {
		return nil, err
	}
	if len(collected) != 2 {
		return nil, errs.WrapInvalid(&InverseArityError{Collected: collected}, "collect", "Inverse", "pair properties")
	}
	for _, e := range collected {
		if e.Kind != owl.KindObjectProperty {
			return nil, errs.WrapInvalid(&InverseKindError{Entity: e}, "collect", "Inverse", "pair properties")
		}
	}
	return add(ctx, o, owl.NewInverseObjectProperties(collected[0], collected[1]))
}

// SubclassOptions selects what Subclasses asserts after its body runs.
type SubclassOptions struct {
	// Disjoint declares the collected subclasses mutually disjoint.
	Disjoint bool
	// Cover declares super equivalent to the union of the subclasses.
	Cover bool
}

// Subclasses runs body with the default frames set to subclass: super, so
// every class declared inside becomes a subclass of super. The defaults
// shadow any outer default frames for the extent of body.
func Subclasses(ctx context.Context, o *ontology.Ontology, super owl.Entity, opts SubclassOptions,
	body func(context.Context) error) ([]owl.Axiom, error) {
	scoped := frame.WithDefaults(ctx, frame.Frames{frame.TagSubclass: {super}})
	collected, err := With(scoped, body)
	if err != nil {
		return nil, err
	}

	var added []owl.Axiom
	if opts.Disjoint {
		axioms, err := disjointClasses(ctx, o, collected)
		if err != nil {
			return added, err
		}
		added = append(added, axioms...)
	}
	if opts.Cover {
		classes := distinctOfKind(collected, owl.KindClass)
		if len(classes) == 0 {
			return added, nil
		}
		var cover owl.ClassExpression = classes[0]
		if len(classes) > 1 {
			cover = owl.Union(classes...)
		}
		axioms, err := add(ctx, o, owl.NewEquivalentClasses(super, cover))
		if err != nil {
			return added, err
		}
		added = append(added, axioms...)
	}
	return added, nil
}

func disjointClasses(ctx context.Context, o *ontology.Ontology, collected []owl.Entity) ([]owl.Axiom, error) {
	classes := distinctOfKind(collected, owl.KindClass)
	if len(classes) < 2 {
		return nil, nil
	}
	terms := make([]owl.ClassExpression, len(classes))
	for i, c := range classes {
		terms[i] = c
	}
	return add(ctx, o, owl.NewDisjointClasses(terms...))
}

func add(ctx context.Context, o *ontology.Ontology, ax owl.Axiom) ([]owl.Axiom, error) {
	if _, err := o.Add(ctx, ax); err != nil {
		return nil, err
	}
	return []owl.Axiom{ax}, nil
}

func distinctOfKind(entities []owl.Entity, kind owl.Kind) []owl.Entity {
	seen := make(map[owl.Entity]bool, len(entities))
	var out []owl.Entity
	for _, e := range entities {
		if e.Kind != kind || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}
