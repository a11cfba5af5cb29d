// Package hierarchy answers subsumption questions from declared structure
// alone. It does not reason: closures follow only the direct super and sub
// relations the store reports for named entities.
//
// Cycles are tolerated. With A below B and B below A, Ancestors(A) is {A, B}.
package hierarchy

import (
	"context"
	"sort"

	"github.com/c360studio/semframe/ontology"
	"github.com/c360studio/semframe/owl"
)

type relation func(ctx context.Context, iri string, e owl.Entity) ([]owl.Entity, error)

// DirectSupers returns the named direct superclasses or superproperties of e.
func DirectSupers(ctx context.Context, o *ontology.Ontology, e owl.Entity) ([]owl.Entity, error) {
	out, err := o.Store().DirectSupers(ctx, o.IRI(), e)
	return sorted(out), err
}

// DirectSubs returns the named direct subclasses or subproperties of e.
func DirectSubs(ctx context.Context, o *ontology.Ontology, e owl.Entity) ([]owl.Entity, error) {
	out, err := o.Store().DirectSubs(ctx, o.IRI(), e)
	return sorted(out), err
}

// Ancestors returns every entity reachable from e through the direct super
// relation.
func Ancestors(ctx context.Context, o *ontology.Ontology, e owl.Entity) ([]owl.Entity, error) {
	return closure(ctx, o.IRI(), e, o.Store().DirectSupers)
}

// Descendants returns every entity reachable from e through the direct sub
// relation.
func Descendants(ctx context.Context, o *ontology.Ontology, e owl.Entity) ([]owl.Entity, error) {
	return closure(ctx, o.IRI(), e, o.Store().DirectSubs)
}

// IsAncestor reports whether candidate is in the ancestor closure of e.
func IsAncestor(ctx context.Context, o *ontology.Ontology, e, candidate owl.Entity) (bool, error) {
	ancestors, err := Ancestors(ctx, o, e)
	if err != nil {
		return false, err
	}
	return contains(ancestors, candidate), nil
}

// IsDescendant reports whether candidate is in the descendant closure of e.
func IsDescendant(ctx context.Context, o *ontology.Ontology, e, candidate owl.Entity) (bool, error) {
	descendants, err := Descendants(ctx, o, e)
	if err != nil {
		return false, err
	}
	return contains(descendants, candidate), nil
}

// IsDirectSuper reports whether candidate is a direct super of e.
func IsDirectSuper(ctx context.Context, o *ontology.Ontology, e, candidate owl.Entity) (bool, error) {
	supers, err := DirectSupers(ctx, o, e)
	if err != nil {
		return false, err
	}
	return contains(supers, candidate), nil
}

// Disjoint reports whether a and b are declared disjoint (for individuals,
// different). No closure is computed.
func Disjoint(ctx context.Context, o *ontology.Ontology, a, b owl.Entity) (bool, error) {
	others, err := o.Store().DisjointWith(ctx, o.IRI(), a)
	if err != nil {
		return false, err
	}
	return contains(others, b), nil
}

// Equivalent reports whether a and b are declared equivalent (for
// individuals, the same). No closure is computed.
func Equivalent(ctx context.Context, o *ontology.Ontology, a, b owl.Entity) (bool, error) {
	others, err := o.Store().EquivalentTo(ctx, o.IRI(), a)
	if err != nil {
		return false, err
	}
	return contains(others, b), nil
}

func closure(ctx context.Context, iri string, e owl.Entity, next relation) ([]owl.Entity, error) {
	frontier, err := next(ctx, iri, e)
	if err != nil {
		return nil, err
	}

	visited := make(map[owl.Entity]bool)
	var out []owl.Entity
	for len(frontier) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		member := frontier[0]
		frontier = frontier[1:]
		if visited[member] {
			continue
		}
		visited[member] = true
		out = append(out, member)

		more, err := next(ctx, iri, member)
		if err != nil {
			return nil, err
		}
		frontier = append(frontier, more...)
	}
	return sorted(out), nil
}

func contains(entities []owl.Entity, e owl.Entity) bool {
	for _, x := range entities {
		if x == e {
			return true
		}
	}
	return false
}

func sorted(entities []owl.Entity) []owl.Entity {
	sort.Slice(entities, func(i, j int) bool { return entities[i].IRI < entities[j].IRI })
	return entities
}
