// Package storage defines the ontology store semframe writes axioms into,
// with an in-memory implementation and a NATS KV snapshot journal.
package storage

import (
	"context"

	"github.com/c360studio/semframe/owl"
)

// Op is the direction of an axiom change.
type Op int

const (
	// OpAdd adds an axiom.
	OpAdd Op = iota + 1
	// OpRemove removes an axiom. Removing an absent axiom is a no-op.
	OpRemove
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Change is a single axiom change.
type Change struct {
	Op    Op
	Axiom owl.Axiom
}

// AddAxiom returns an add change.
func AddAxiom(ax owl.Axiom) Change { return Change{Op: OpAdd, Axiom: ax} }

// RemoveAxiom returns a remove change.
func RemoveAxiom(ax owl.Axiom) Change { return Change{Op: OpRemove, Axiom: ax} }

// RemoveHook is called after an ontology has been removed from the store.
type RemoveHook func(iri string)

// Store holds ontologies keyed by IRI. Structural queries include the
// imports closure of the queried ontology.
type Store interface {
	// CreateOntology creates an empty ontology, replacing any existing one
	// with the same IRI. Replacement fires the remove hooks for the old one.
	CreateOntology(ctx context.Context, iri string) error

	// RemoveOntology removes the ontology and fires the remove hooks.
	RemoveOntology(ctx context.Context, iri string) error

	// HasOntology reports whether an ontology with the IRI exists.
	HasOntology(iri string) bool

	// OnRemove registers a hook fired after an ontology is removed.
	OnRemove(hook RemoveHook)

	// Apply submits changes as one batch. Either all changes are applied or,
	// on a ChangeRejectedError, none are.
	Apply(ctx context.Context, iri string, changes ...Change) error

	// Contains reports whether the ontology itself holds the axiom.
	Contains(ctx context.Context, iri string, ax owl.Axiom) (bool, error)

	// Axioms lists the ontology's own axioms in insertion order.
	Axioms(ctx context.Context, iri string) ([]owl.Axiom, error)

	// ReferencingAxioms lists the ontology's own axioms mentioning the IRI.
	ReferencingAxioms(ctx context.Context, iri string, mentioned string) ([]owl.Axiom, error)

	// DirectSupers lists named direct superclasses or superproperties.
	DirectSupers(ctx context.Context, iri string, e owl.Entity) ([]owl.Entity, error)

	// DirectSubs lists named direct subclasses or subproperties.
	DirectSubs(ctx context.Context, iri string, e owl.Entity) ([]owl.Entity, error)

	// DisjointWith lists named entities declared disjoint with (or different
	// from) e.
	DisjointWith(ctx context.Context, iri string, e owl.Entity) ([]owl.Entity, error)

	// EquivalentTo lists named entities declared equivalent to (or the same
	// as) e.
	EquivalentTo(ctx context.Context, iri string, e owl.Entity) ([]owl.Entity, error)

	// AddImport makes imported part of the imports closure of iri.
	AddImport(ctx context.Context, iri, imported string) error

	// Imports lists the direct imports of iri.
	Imports(ctx context.Context, iri string) ([]string, error)
}
