package owl

import (
	"fmt"
	"net/url"
	"strings"
)

// Characteristic is an object property characteristic.
type Characteristic string

// The closed set of supported characteristics.
const (
	Transitive        Characteristic = "transitive"
	Functional        Characteristic = "functional"
	InverseFunctional Characteristic = "inversefunctional"
)

// ParseCharacteristic accepts the canonical names plus the hyphenated and
// camel-cased spellings.
func ParseCharacteristic(s string) (Characteristic, bool) {
	norm := strings.ToLower(strings.NewReplacer("-", "", "_", "").Replace(s))
	switch Characteristic(norm) {
	case Transitive, Functional, InverseFunctional:
		return Characteristic(norm), true
	}
	return "", false
}

// ValidateIRI checks that iri is an absolute IRI without whitespace.
func ValidateIRI(iri string) error {
	if iri == "" {
		return fmt.Errorf("empty IRI")
	}
	if strings.ContainsAny(iri, " \t\r\n<>\"") {
		return fmt.Errorf("IRI contains illegal characters: %q", iri)
	}
	u, err := url.Parse(iri)
	if err != nil {
		return fmt.Errorf("parse IRI %q: %w", iri, err)
	}
	if !u.IsAbs() {
		return fmt.Errorf("IRI is not absolute: %q", iri)
	}
	return nil
}

// Validate checks the operand shape of the axiom: arity, operand kinds and
// well-formed IRIs. Stores reject axioms that fail validation.
func (a Axiom) Validate() error {
	for i, op := range a.Operands {
		if op == nil {
			return fmt.Errorf("%s: operand %d is nil", a.Type, i)
		}
	}
	for _, e := range a.Signature() {
		if !e.Kind.Valid() {
			return fmt.Errorf("%s: entity %s has invalid kind", a.Type, e)
		}
		if err := ValidateIRI(e.IRI); err != nil {
			return fmt.Errorf("%s: %w", a.Type, err)
		}
	}

	ops := a.Operands
	switch a.Type {
	case AxiomDeclaration:
		return a.expect(len(ops) == 1 && isEntity(ops[0]), "one entity")
	case AxiomSubClassOf:
		return a.expect(len(ops) == 2 && allClasses(ops), "two class expressions")
	case AxiomEquivalentClasses, AxiomDisjointClasses:
		return a.expect(len(ops) >= 2 && allClasses(ops), "at least two class expressions")
	case AxiomSubObjectPropertyOf, AxiomInverseObjectProperties:
		return a.expect(len(ops) == 2 && allOfKind(ops, KindObjectProperty), "two object properties")
	case AxiomEquivalentObjectProperties, AxiomDisjointObjectProperties:
		return a.expect(len(ops) >= 2 && allOfKind(ops, KindObjectProperty), "at least two object properties")
	case AxiomObjectPropertyDomain, AxiomObjectPropertyRange:
		return a.expect(len(ops) == 2 && allOfKind(ops[:1], KindObjectProperty) && allClasses(ops[1:]),
			"an object property and a class expression")
	case AxiomTransitiveObjectProperty, AxiomFunctionalObjectProperty, AxiomInverseFunctionalObjectProperty:
		return a.expect(len(ops) == 1 && allOfKind(ops, KindObjectProperty), "one object property")
	case AxiomSubAnnotationPropertyOf:
		return a.expect(len(ops) == 2 && allOfKind(ops, KindAnnotationProperty), "two annotation properties")
	case AxiomClassAssertion:
		return a.expect(len(ops) == 2 && allClasses(ops[:1]) && allOfKind(ops[1:], KindIndividual),
			"a class expression and an individual")
	case AxiomObjectPropertyAssertion, AxiomNegativeObjectPropertyAssertion:
		return a.expect(len(ops) == 3 && allOfKind(ops[:1], KindObjectProperty) && allOfKind(ops[1:], KindIndividual),
			"an object property and two individuals")
	case AxiomSameIndividual, AxiomDifferentIndividuals:
		return a.expect(len(ops) >= 2 && allOfKind(ops, KindIndividual), "at least two individuals")
	case AxiomAnnotationAssertion:
		if len(ops) != 3 || !allOfKind(ops[:1], KindAnnotationProperty) {
			return a.expect(false, "an annotation property, a subject IRI and a literal")
		}
		subject, ok := ops[1].(IRI)
		if !ok {
			return a.expect(false, "an annotation property, a subject IRI and a literal")
		}
		if err := ValidateIRI(string(subject)); err != nil {
			return fmt.Errorf("%s: %w", a.Type, err)
		}
		_, ok = ops[2].(Literal)
		return a.expect(ok, "an annotation property, a subject IRI and a literal")
	default:
		return fmt.Errorf("unknown axiom type: %q", a.Type)
	}
}

func (a Axiom) expect(ok bool, shape string) error {
	if ok {
		return nil
	}
	return fmt.Errorf("%s expects %s, got %d operands", a.Type, shape, len(a.Operands))
}

func isEntity(t Term) bool {
	_, ok := t.(Entity)
	return ok
}

func allOfKind(ops []Term, kind Kind) bool {
	for _, op := range ops {
		e, ok := op.(Entity)
		if !ok || e.Kind != kind {
			return false
		}
	}
	return true
}

// allClasses accepts anonymous class expressions and named classes, but not
// properties or individuals passed where a class is expected.
func allClasses(ops []Term) bool {
	for _, op := range ops {
		ce, ok := op.(ClassExpression)
		if !ok || ValidateClassExpression(ce) != nil {
			return false
		}
	}
	return true
}

// ValidateClassExpression checks ce recursively. Named operands must be
// classes, restriction properties object properties, and no operand or
// filler may be missing.
func ValidateClassExpression(ce ClassExpression) error {
	switch v := ce.(type) {
	case nil:
		return fmt.Errorf("missing class expression")
	case Entity:
		if v.Kind != KindClass {
			return fmt.Errorf("%s is a %s, not a class", v.IRI, v.Kind)
		}
		return nil
	case ObjectUnionOf:
		return validateOperands("ObjectUnionOf", v.Operands)
	case ObjectIntersectionOf:
		return validateOperands("ObjectIntersectionOf", v.Operands)
	case ObjectComplementOf:
		if err := ValidateClassExpression(v.Operand); err != nil {
			return fmt.Errorf("ObjectComplementOf: %w", err)
		}
		return nil
	case ObjectSomeValuesFrom:
		return validateRestriction("ObjectSomeValuesFrom", v.Property, v.Filler)
	case ObjectAllValuesFrom:
		return validateRestriction("ObjectAllValuesFrom", v.Property, v.Filler)
	default:
		return fmt.Errorf("unsupported class expression %T", ce)
	}
}

func validateOperands(name string, ops []ClassExpression) error {
	if len(ops) == 0 {
		return fmt.Errorf("%s has no operands", name)
	}
	for i, op := range ops {
		if err := ValidateClassExpression(op); err != nil {
			return fmt.Errorf("%s operand %d: %w", name, i, err)
		}
	}
	return nil
}

func validateRestriction(name string, p Entity, filler ClassExpression) error {
	if p.Kind != KindObjectProperty {
		return fmt.Errorf("%s: %s is a %s, not an object property", name, p.IRI, p.Kind)
	}
	if err := ValidateClassExpression(filler); err != nil {
		return fmt.Errorf("%s filler: %w", name, err)
	}
	return nil
}
