package owl

import (
	"fmt"
	"strings"
)

// AxiomType identifies the kind of logical assertion an axiom makes.
type AxiomType string

// Axiom types, named after their OWL 2 functional-syntax constructors.
const (
	AxiomDeclaration                      AxiomType = "Declaration"
	AxiomSubClassOf                       AxiomType = "SubClassOf"
	AxiomEquivalentClasses                AxiomType = "EquivalentClasses"
	AxiomDisjointClasses                  AxiomType = "DisjointClasses"
	AxiomSubObjectPropertyOf              AxiomType = "SubObjectPropertyOf"
	AxiomEquivalentObjectProperties       AxiomType = "EquivalentObjectProperties"
	AxiomDisjointObjectProperties         AxiomType = "DisjointObjectProperties"
	AxiomObjectPropertyDomain             AxiomType = "ObjectPropertyDomain"
	AxiomObjectPropertyRange              AxiomType = "ObjectPropertyRange"
	AxiomInverseObjectProperties          AxiomType = "InverseObjectProperties"
	AxiomTransitiveObjectProperty         AxiomType = "TransitiveObjectProperty"
	AxiomFunctionalObjectProperty         AxiomType = "FunctionalObjectProperty"
	AxiomInverseFunctionalObjectProperty  AxiomType = "InverseFunctionalObjectProperty"
	AxiomSubAnnotationPropertyOf          AxiomType = "SubAnnotationPropertyOf"
	AxiomClassAssertion                   AxiomType = "ClassAssertion"
	AxiomObjectPropertyAssertion          AxiomType = "ObjectPropertyAssertion"
	AxiomNegativeObjectPropertyAssertion  AxiomType = "NegativeObjectPropertyAssertion"
	AxiomSameIndividual                   AxiomType = "SameIndividual"
	AxiomDifferentIndividuals             AxiomType = "DifferentIndividuals"
	AxiomAnnotationAssertion              AxiomType = "AnnotationAssertion"
)

// Axiom is a single logical assertion. Operands follow the order of the
// corresponding OWL 2 functional-syntax constructor.
type Axiom struct {
	Type     AxiomType
	Operands []Term
}

// Key returns the canonical rendering of the axiom. Two axioms with equal
// keys are the same axiom.
func (a Axiom) Key() string {
	var sb strings.Builder
	sb.WriteString(string(a.Type))
	sb.WriteByte('(')
	if a.Type == AxiomDeclaration && len(a.Operands) == 1 {
		if e, ok := a.Operands[0].(Entity); ok {
			sb.WriteString(e.Kind.String())
			sb.WriteByte('(')
			sb.WriteString(e.String())
			sb.WriteString("))")
			return sb.String()
		}
	}
	for i, op := range a.Operands {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(termString(op))
	}
	sb.WriteByte(')')
	return sb.String()
}

// String is the same as Key.
func (a Axiom) String() string { return a.Key() }

// Signature returns the distinct entities referenced by the axiom, in order
// of first appearance.
func (a Axiom) Signature() []Entity {
	var all []Entity
	for _, op := range a.Operands {
		if op != nil {
			all = op.signature(all)
		}
	}
	seen := make(map[Entity]bool, len(all))
	out := all[:0]
	for _, e := range all {
		if seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}

// Mentions reports whether iri occurs anywhere in the axiom, including as
// the subject of an annotation assertion.
func (a Axiom) Mentions(iri string) bool {
	for _, op := range a.Operands {
		if op != nil && op.mentions(iri) {
			return true
		}
	}
	return false
}

// Declared returns the entity declared by a declaration axiom.
func (a Axiom) Declared() (Entity, bool) {
	if a.Type != AxiomDeclaration || len(a.Operands) != 1 {
		return Entity{}, false
	}
	e, ok := a.Operands[0].(Entity)
	return e, ok
}

// NewDeclaration declares e.
func NewDeclaration(e Entity) Axiom {
	return Axiom{Type: AxiomDeclaration, Operands: []Term{e}}
}

// NewSubClassOf states that sub is a subclass of sup.
func NewSubClassOf(sub, sup ClassExpression) Axiom {
	return Axiom{Type: AxiomSubClassOf, Operands: []Term{sub, sup}}
}

// NewEquivalentClasses states that all classes are equivalent.
func NewEquivalentClasses(classes ...ClassExpression) Axiom {
	return Axiom{Type: AxiomEquivalentClasses, Operands: classTerms(classes)}
}

// NewDisjointClasses states that the classes are pairwise disjoint.
func NewDisjointClasses(classes ...ClassExpression) Axiom {
	return Axiom{Type: AxiomDisjointClasses, Operands: classTerms(classes)}
}

// NewSubObjectPropertyOf states that sub is a subproperty of sup.
func NewSubObjectPropertyOf(sub, sup Entity) Axiom {
	return Axiom{Type: AxiomSubObjectPropertyOf, Operands: []Term{sub, sup}}
}

// NewEquivalentObjectProperties states that all properties are equivalent.
func NewEquivalentObjectProperties(props ...Entity) Axiom {
	return Axiom{Type: AxiomEquivalentObjectProperties, Operands: entityTerms(props)}
}

// NewDisjointObjectProperties states that the properties are pairwise disjoint.
func NewDisjointObjectProperties(props ...Entity) Axiom {
	return Axiom{Type: AxiomDisjointObjectProperties, Operands: entityTerms(props)}
}

// NewObjectPropertyDomain sets the domain of p.
func NewObjectPropertyDomain(p Entity, domain ClassExpression) Axiom {
	return Axiom{Type: AxiomObjectPropertyDomain, Operands: []Term{p, domain}}
}

// NewObjectPropertyRange sets the range of p.
func NewObjectPropertyRange(p Entity, rng ClassExpression) Axiom {
	return Axiom{Type: AxiomObjectPropertyRange, Operands: []Term{p, rng}}
}

// NewInverseObjectProperties states that p and q are inverses.
func NewInverseObjectProperties(p, q Entity) Axiom {
	return Axiom{Type: AxiomInverseObjectProperties, Operands: []Term{p, q}}
}

// NewCharacteristic states a property characteristic of p.
func NewCharacteristic(c Characteristic, p Entity) (Axiom, error) {
	var t AxiomType
	switch c {
	case Transitive:
		t = AxiomTransitiveObjectProperty
	case Functional:
		t = AxiomFunctionalObjectProperty
	case InverseFunctional:
		t = AxiomInverseFunctionalObjectProperty
	default:
		return Axiom{}, fmt.Errorf("unknown characteristic: %s", c)
	}
	return Axiom{Type: t, Operands: []Term{p}}, nil
}

// NewSubAnnotationPropertyOf states that sub is a subproperty of sup.
func NewSubAnnotationPropertyOf(sub, sup Entity) Axiom {
	return Axiom{Type: AxiomSubAnnotationPropertyOf, Operands: []Term{sub, sup}}
}

// NewClassAssertion states that ind is an instance of class.
func NewClassAssertion(class ClassExpression, ind Entity) Axiom {
	return Axiom{Type: AxiomClassAssertion, Operands: []Term{class, ind}}
}

// NewObjectPropertyAssertion states that p relates subject to object.
func NewObjectPropertyAssertion(p, subject, object Entity) Axiom {
	return Axiom{Type: AxiomObjectPropertyAssertion, Operands: []Term{p, subject, object}}
}

// NewNegativeObjectPropertyAssertion states that p does not relate subject
// to object.
func NewNegativeObjectPropertyAssertion(p, subject, object Entity) Axiom {
	return Axiom{Type: AxiomNegativeObjectPropertyAssertion, Operands: []Term{p, subject, object}}
}

// NewSameIndividual states that the individuals are the same.
func NewSameIndividual(inds ...Entity) Axiom {
	return Axiom{Type: AxiomSameIndividual, Operands: entityTerms(inds)}
}

// NewDifferentIndividuals states that the individuals are pairwise different.
func NewDifferentIndividuals(inds ...Entity) Axiom {
	return Axiom{Type: AxiomDifferentIndividuals, Operands: entityTerms(inds)}
}

// NewAnnotationAssertion annotates subject with value through p.
func NewAnnotationAssertion(p Entity, subject IRI, value Literal) Axiom {
	return Axiom{Type: AxiomAnnotationAssertion, Operands: []Term{p, subject, value}}
}

func classTerms(classes []ClassExpression) []Term {
	out := make([]Term, len(classes))
	for i, c := range classes {
		out[i] = c
	}
	return out
}

func entityTerms(entities []Entity) []Term {
	out := make([]Term, len(entities))
	for i, e := range entities {
		out[i] = e
	}
	return out
}
