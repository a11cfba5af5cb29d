package owl

import (
	"strings"

	"github.com/c360studio/semstreams/message"
	"github.com/c360studio/semstreams/vocabulary"
)

// Standard namespaces used by the axiom vocabulary.
const (
	OWLNamespace  = "http://www.w3.org/2002/07/owl#"
	RDFSNamespace = "http://www.w3.org/2000/01/rdf-schema#"
	RDFNamespace  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
)

// TripleSource is the Source recorded on triples rendered from axioms.
const TripleSource = "semframe"

// Axiom predicates use the semstreams three-level dotted notation.
const (
	PredicateType               = "owl.entity.type"
	PredicateSubClassOf         = "owl.class.subclass_of"
	PredicateEquivalentClass    = "owl.class.equivalent"
	PredicateDisjointWith       = "owl.class.disjoint"
	PredicateSubPropertyOf      = "owl.property.subproperty_of"
	PredicateEquivalentProperty = "owl.property.equivalent"
	PredicateDisjointProperty   = "owl.property.disjoint"
	PredicateDomain             = "owl.property.domain"
	PredicateRange              = "owl.property.range"
	PredicateInverseOf          = "owl.property.inverse_of"
	PredicateCharacteristic     = "owl.property.characteristic"
	PredicateSubAnnotationOf    = "owl.annotation.subproperty_of"
	PredicateInstanceOf         = "owl.individual.type"
	PredicateFact               = "owl.individual.fact"
	PredicateNegativeFact       = "owl.individual.negative_fact"
	PredicateSameAs             = "owl.individual.same"
	PredicateDifferentFrom      = "owl.individual.different"
	PredicateAnnotation         = "owl.annotation.value"
)

var axiomPredicates = map[AxiomType]string{
	AxiomDeclaration:                     PredicateType,
	AxiomSubClassOf:                      PredicateSubClassOf,
	AxiomEquivalentClasses:               PredicateEquivalentClass,
	AxiomDisjointClasses:                 PredicateDisjointWith,
	AxiomSubObjectPropertyOf:             PredicateSubPropertyOf,
	AxiomEquivalentObjectProperties:      PredicateEquivalentProperty,
	AxiomDisjointObjectProperties:        PredicateDisjointProperty,
	AxiomObjectPropertyDomain:            PredicateDomain,
	AxiomObjectPropertyRange:             PredicateRange,
	AxiomInverseObjectProperties:         PredicateInverseOf,
	AxiomTransitiveObjectProperty:        PredicateCharacteristic,
	AxiomFunctionalObjectProperty:        PredicateCharacteristic,
	AxiomInverseFunctionalObjectProperty: PredicateCharacteristic,
	AxiomSubAnnotationPropertyOf:         PredicateSubAnnotationOf,
	AxiomClassAssertion:                  PredicateInstanceOf,
	AxiomObjectPropertyAssertion:         PredicateFact,
	AxiomNegativeObjectPropertyAssertion: PredicateNegativeFact,
	AxiomSameIndividual:                  PredicateSameAs,
	AxiomDifferentIndividuals:            PredicateDifferentFrom,
	AxiomAnnotationAssertion:             PredicateAnnotation,
}

var characteristicNames = map[AxiomType]Characteristic{
	AxiomTransitiveObjectProperty:        Transitive,
	AxiomFunctionalObjectProperty:        Functional,
	AxiomInverseFunctionalObjectProperty: InverseFunctional,
}

func init() {
	registerAxiomPredicates()
}

func registerAxiomPredicates() {
	vocabulary.Register(PredicateType,
		vocabulary.WithDescription("Entity kind declared for an IRI"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(RDFNamespace+"type"))

	vocabulary.Register(PredicateSubClassOf,
		vocabulary.WithDescription("Named or anonymous superclass"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(RDFSNamespace+"subClassOf"))

	vocabulary.Register(PredicateEquivalentClass,
		vocabulary.WithDescription("Equivalent class expression"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(vocabulary.OwlEquivalentClass))

	vocabulary.Register(PredicateDisjointWith,
		vocabulary.WithDescription("Class sharing no instances with the subject"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(OWLNamespace+"disjointWith"))

	vocabulary.Register(PredicateSubPropertyOf,
		vocabulary.WithDescription("Object superproperty"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(RDFSNamespace+"subPropertyOf"))

	vocabulary.Register(PredicateEquivalentProperty,
		vocabulary.WithDescription("Equivalent object property"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(vocabulary.OwlEquivalentProperty))

	vocabulary.Register(PredicateDisjointProperty,
		vocabulary.WithDescription("Disjoint object property"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(OWLNamespace+"propertyDisjointWith"))

	vocabulary.Register(PredicateDomain,
		vocabulary.WithDescription("Property domain"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(RDFSNamespace+"domain"))

	vocabulary.Register(PredicateRange,
		vocabulary.WithDescription("Property range"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(RDFSNamespace+"range"))

	vocabulary.Register(PredicateInverseOf,
		vocabulary.WithDescription("Inverse object property"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(OWLNamespace+"inverseOf"))

	vocabulary.Register(PredicateCharacteristic,
		vocabulary.WithDescription("Property characteristic"),
		vocabulary.WithDataType("string"),
		vocabulary.WithRange("transitive, functional, inversefunctional"))

	vocabulary.Register(PredicateSubAnnotationOf,
		vocabulary.WithDescription("Annotation superproperty"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(RDFSNamespace+"subPropertyOf"))

	vocabulary.Register(PredicateInstanceOf,
		vocabulary.WithDescription("Class of an individual"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(RDFNamespace+"type"))

	vocabulary.Register(PredicateFact,
		vocabulary.WithDescription("Object property assertion, object is '<property> <individual>'"),
		vocabulary.WithDataType("string"))

	vocabulary.Register(PredicateNegativeFact,
		vocabulary.WithDescription("Negative object property assertion"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(OWLNamespace+"NegativePropertyAssertion"))

	vocabulary.Register(PredicateSameAs,
		vocabulary.WithDescription("Same individual"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(vocabulary.OwlSameAs))

	vocabulary.Register(PredicateDifferentFrom,
		vocabulary.WithDescription("Different individual"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(OWLNamespace+"differentFrom"))

	vocabulary.Register(PredicateAnnotation,
		vocabulary.WithDescription("Annotation value, object is '<property> literal'"),
		vocabulary.WithDataType("string"))
}

// KindIRI returns the OWL class IRI for an entity kind.
func KindIRI(k Kind) string {
	return OWLNamespace + k.String()
}

// Triples renders the axiom as semstreams triples. Symmetric n-ary axioms
// produce one triple per operand after the first.
func (a Axiom) Triples() []message.Triple {
	pred, ok := axiomPredicates[a.Type]
	if !ok || len(a.Operands) == 0 {
		return nil
	}

	triple := func(subject string, object any) message.Triple {
		return message.Triple{
			Subject:    subject,
			Predicate:  pred,
			Object:     object,
			Source:     TripleSource,
			Confidence: 1.0,
		}
	}

	switch a.Type {
	case AxiomDeclaration:
		e, ok := a.Declared()
		if !ok {
			return nil
		}
		return []message.Triple{triple(e.IRI, KindIRI(e.Kind))}
	case AxiomTransitiveObjectProperty, AxiomFunctionalObjectProperty, AxiomInverseFunctionalObjectProperty:
		return []message.Triple{triple(termIRI(a.Operands[0]), string(characteristicNames[a.Type]))}
	case AxiomClassAssertion:
		if len(a.Operands) != 2 {
			return nil
		}
		return []message.Triple{triple(termIRI(a.Operands[1]), termIRI(a.Operands[0]))}
	case AxiomObjectPropertyAssertion, AxiomNegativeObjectPropertyAssertion, AxiomAnnotationAssertion:
		if len(a.Operands) != 3 {
			return nil
		}
		object := a.Operands[0].String() + " " + a.Operands[2].String()
		return []message.Triple{triple(termIRI(a.Operands[1]), object)}
	}

	subject := termIRI(a.Operands[0])
	out := make([]message.Triple, 0, len(a.Operands)-1)
	for _, op := range a.Operands[1:] {
		out = append(out, triple(subject, termIRI(op)))
	}
	return out
}

// termIRI returns the bare IRI of named terms and the functional rendering of
// anything else.
func termIRI(t Term) string {
	switch v := t.(type) {
	case Entity:
		return v.IRI
	case IRI:
		return string(v)
	case Literal:
		return v.Value
	case nil:
		return ""
	default:
		return strings.TrimSpace(v.String())
	}
}
