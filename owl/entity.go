// Package owl provides the entity and axiom model that semframe compiles
// frames into.
//
// Entities are comparable values: two entities with the same Kind and IRI are
// the same entity. Axioms are opaque to the compiler; stores use Key for set
// identity and Mentions for entity-level removal.
package owl

import (
	"fmt"
	"strings"
)

// Kind is the closed set of entity kinds.
type Kind int

const (
	// KindClass is an OWL class.
	KindClass Kind = iota + 1
	// KindObjectProperty is an OWL object property.
	KindObjectProperty
	// KindAnnotationProperty is an OWL annotation property.
	KindAnnotationProperty
	// KindIndividual is a named individual.
	KindIndividual
)

// Kinds lists every entity kind in declaration order.
var Kinds = []Kind{KindClass, KindObjectProperty, KindAnnotationProperty, KindIndividual}

// String returns the OWL name of the kind.
func (k Kind) String() string {
	switch k {
	case KindClass:
		return "Class"
	case KindObjectProperty:
		return "ObjectProperty"
	case KindAnnotationProperty:
		return "AnnotationProperty"
	case KindIndividual:
		return "NamedIndividual"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Valid reports whether k is one of the four entity kinds.
func (k Kind) Valid() bool {
	return k >= KindClass && k <= KindIndividual
}

// ParseKind parses a kind from its OWL name or a short alias.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "class":
		return KindClass, nil
	case "objectproperty", "object-property", "property":
		return KindObjectProperty, nil
	case "annotationproperty", "annotation-property":
		return KindAnnotationProperty, nil
	case "namedindividual", "individual":
		return KindIndividual, nil
	default:
		return 0, fmt.Errorf("unknown entity kind: %s", s)
	}
}

// Entity is a named class, property or individual.
type Entity struct {
	Kind Kind
	IRI  string
}

// Class returns the class entity for iri.
func Class(iri string) Entity { return Entity{Kind: KindClass, IRI: iri} }

// ObjectProperty returns the object property entity for iri.
func ObjectProperty(iri string) Entity { return Entity{Kind: KindObjectProperty, IRI: iri} }

// AnnotationProperty returns the annotation property entity for iri.
func AnnotationProperty(iri string) Entity { return Entity{Kind: KindAnnotationProperty, IRI: iri} }

// Individual returns the named individual entity for iri.
func Individual(iri string) Entity { return Entity{Kind: KindIndividual, IRI: iri} }

// IsZero reports whether e is the zero entity.
func (e Entity) IsZero() bool {
	return e.Kind == 0 && e.IRI == ""
}

// String renders the entity as <iri>.
func (e Entity) String() string {
	return "<" + e.IRI + ">"
}

// Fragment returns the part of the IRI after the last '#' or '/'.
func (e Entity) Fragment() string {
	if i := strings.LastIndexAny(e.IRI, "#/"); i >= 0 && i < len(e.IRI)-1 {
		return e.IRI[i+1:]
	}
	return e.IRI
}

func (Entity) isRef() {}

func (e Entity) isTerm() {}

func (e Entity) signature(out []Entity) []Entity { return append(out, e) }

func (e Entity) mentions(iri string) bool { return e.IRI == iri }

// isClassExpression only holds for classes; non-class entities are rejected
// by the constructors that accept class expressions.
func (Entity) isClassExpression() {}

// Ref is a reference to an entity that still has to be resolved. It is a
// closed variant: Entity, Name or Producer.
type Ref interface {
	isRef()
}

// Name is a bare entity name, turned into an IRI by the owning ontology's
// naming policy.
type Name string

func (Name) isRef() {}

// Producer yields a reference lazily. It supports forward references to
// entities that are declared later.
type Producer func() (Ref, error)

func (Producer) isRef() {}
