package owl

import (
	"strconv"
	"strings"
)

// Term is anything that can appear as an axiom operand.
type Term interface {
	String() string
	isTerm()
	signature(out []Entity) []Entity
	mentions(iri string) bool
}

// ClassExpression is a named class or an anonymous class built from other
// expressions.
type ClassExpression interface {
	Term
	isClassExpression()
}

// IRI is an annotation subject. It names an entity without fixing its kind.
type IRI string

func (i IRI) String() string { return "<" + string(i) + ">" }

func (IRI) isTerm() {}

func (IRI) signature(out []Entity) []Entity { return out }

func (i IRI) mentions(iri string) bool { return string(i) == iri }

// Literal is an annotation value.
type Literal struct {
	Value    string
	Lang     string
	Datatype string
}

// PlainLiteral returns an untyped literal, optionally language tagged.
func PlainLiteral(value, lang string) Literal {
	return Literal{Value: value, Lang: lang}
}

func (l Literal) String() string {
	s := strconv.Quote(l.Value)
	switch {
	case l.Lang != "":
		return s + "@" + l.Lang
	case l.Datatype != "":
		return s + "^^<" + l.Datatype + ">"
	default:
		return s
	}
}

func (Literal) isTerm() {}

func (Literal) signature(out []Entity) []Entity { return out }

func (Literal) mentions(string) bool { return false }

// ObjectUnionOf is the union of its operands.
type ObjectUnionOf struct {
	Operands []ClassExpression
}

// ObjectIntersectionOf is the intersection of its operands.
type ObjectIntersectionOf struct {
	Operands []ClassExpression
}

// ObjectComplementOf is everything not in Operand.
type ObjectComplementOf struct {
	Operand ClassExpression
}

// ObjectSomeValuesFrom is an existential restriction.
type ObjectSomeValuesFrom struct {
	Property Entity
	Filler   ClassExpression
}

// ObjectAllValuesFrom is a universal restriction.
type ObjectAllValuesFrom struct {
	Property Entity
	Filler   ClassExpression
}

// Union builds an ObjectUnionOf from named classes.
func Union(classes ...Entity) ObjectUnionOf {
	ops := make([]ClassExpression, len(classes))
	for i, c := range classes {
		ops[i] = c
	}
	return ObjectUnionOf{Operands: ops}
}

func (u ObjectUnionOf) String() string        { return nary("ObjectUnionOf", u.Operands) }
func (i ObjectIntersectionOf) String() string { return nary("ObjectIntersectionOf", i.Operands) }
func (c ObjectComplementOf) String() string {
	return "ObjectComplementOf(" + termString(c.Operand) + ")"
}
func (s ObjectSomeValuesFrom) String() string {
	return "ObjectSomeValuesFrom(" + s.Property.String() + " " + termString(s.Filler) + ")"
}
func (a ObjectAllValuesFrom) String() string {
	return "ObjectAllValuesFrom(" + a.Property.String() + " " + termString(a.Filler) + ")"
}

func (ObjectUnionOf) isTerm()        {}
func (ObjectIntersectionOf) isTerm() {}
func (ObjectComplementOf) isTerm()   {}
func (ObjectSomeValuesFrom) isTerm() {}
func (ObjectAllValuesFrom) isTerm()  {}

func (ObjectUnionOf) isClassExpression()        {}
func (ObjectIntersectionOf) isClassExpression() {}
func (ObjectComplementOf) isClassExpression()   {}
func (ObjectSomeValuesFrom) isClassExpression() {}
func (ObjectAllValuesFrom) isClassExpression()  {}

func (u ObjectUnionOf) signature(out []Entity) []Entity {
	return signatureOf(out, u.Operands)
}

func (i ObjectIntersectionOf) signature(out []Entity) []Entity {
	return signatureOf(out, i.Operands)
}

func (c ObjectComplementOf) signature(out []Entity) []Entity {
	if c.Operand == nil {
		return out
	}
	return c.Operand.signature(out)
}

func (s ObjectSomeValuesFrom) signature(out []Entity) []Entity {
	out = append(out, s.Property)
	if s.Filler == nil {
		return out
	}
	return s.Filler.signature(out)
}

func (a ObjectAllValuesFrom) signature(out []Entity) []Entity {
	out = append(out, a.Property)
	if a.Filler == nil {
		return out
	}
	return a.Filler.signature(out)
}

func (u ObjectUnionOf) mentions(iri string) bool        { return anyMentions(iri, u.Operands) }
func (i ObjectIntersectionOf) mentions(iri string) bool { return anyMentions(iri, i.Operands) }
func (c ObjectComplementOf) mentions(iri string) bool {
	return c.Operand != nil && c.Operand.mentions(iri)
}
func (s ObjectSomeValuesFrom) mentions(iri string) bool {
	return s.Property.IRI == iri || (s.Filler != nil && s.Filler.mentions(iri))
}
func (a ObjectAllValuesFrom) mentions(iri string) bool {
	return a.Property.IRI == iri || (a.Filler != nil && a.Filler.mentions(iri))
}

func nary(name string, ops []ClassExpression) string {
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteByte('(')
	for i, op := range ops {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(termString(op))
	}
	sb.WriteByte(')')
	return sb.String()
}

func termString(t Term) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

func signatureOf(out []Entity, ops []ClassExpression) []Entity {
	for _, op := range ops {
		if op != nil {
			out = op.signature(out)
		}
	}
	return out
}

func anyMentions(iri string, ops []ClassExpression) bool {
	for _, op := range ops {
		if op != nil && op.mentions(iri) {
			return true
		}
	}
	return false
}
