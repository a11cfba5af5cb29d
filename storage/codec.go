package storage

import (
	"encoding/json"
	"fmt"

	"github.com/c360studio/semframe/owl"
)

// Term tags used in encoded axioms.
const (
	termEntity       = "entity"
	termIRI          = "iri"
	termLiteral      = "literal"
	termUnion        = "union"
	termIntersection = "intersection"
	termComplement   = "complement"
	termSome         = "some"
	termAll          = "all"
)

type axiomRecord struct {
	Type     owl.AxiomType `json:"type"`
	Operands []termRecord  `json:"operands"`
}

type termRecord struct {
	T        string       `json:"t"`
	Kind     string       `json:"kind,omitempty"`
	IRI      string       `json:"iri,omitempty"`
	Value    string       `json:"value,omitempty"`
	Lang     string       `json:"lang,omitempty"`
	Datatype string       `json:"datatype,omitempty"`
	Property *termRecord  `json:"property,omitempty"`
	Operands []termRecord `json:"operands,omitempty"`
}

// EncodeAxiom serializes an axiom to JSON.
func EncodeAxiom(ax owl.Axiom) ([]byte, error) {
	rec, err := encodeAxiom(ax)
	if err != nil {
		return nil, err
	}
	return json.Marshal(rec)
}

// DecodeAxiom parses an axiom produced by EncodeAxiom.
func DecodeAxiom(data []byte) (owl.Axiom, error) {
	var rec axiomRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return owl.Axiom{}, fmt.Errorf("unmarshal axiom: %w", err)
	}
	return decodeAxiom(rec)
}

func encodeAxiom(ax owl.Axiom) (axiomRecord, error) {
	rec := axiomRecord{Type: ax.Type, Operands: make([]termRecord, len(ax.Operands))}
	for i, op := range ax.Operands {
		t, err := encodeTerm(op)
		if err != nil {
			return axiomRecord{}, fmt.Errorf("encode %s operand %d: %w", ax.Type, i, err)
		}
		rec.Operands[i] = t
	}
	return rec, nil
}

func decodeAxiom(rec axiomRecord) (owl.Axiom, error) {
	ax := owl.Axiom{Type: rec.Type, Operands: make([]owl.Term, len(rec.Operands))}
	for i, op := range rec.Operands {
		t, err := decodeTerm(op)
		if err != nil {
			return owl.Axiom{}, fmt.Errorf("decode %s operand %d: %w", rec.Type, i, err)
		}
		ax.Operands[i] = t
	}
	return ax, nil
}

func encodeTerm(t owl.Term) (termRecord, error) {
	switch v := t.(type) {
	case owl.Entity:
		return termRecord{T: termEntity, Kind: v.Kind.String(), IRI: v.IRI}, nil
	case owl.IRI:
		return termRecord{T: termIRI, IRI: string(v)}, nil
	case owl.Literal:
		return termRecord{T: termLiteral, Value: v.Value, Lang: v.Lang, Datatype: v.Datatype}, nil
	case owl.ObjectUnionOf:
		ops, err := encodeExpressions(v.Operands)
		return termRecord{T: termUnion, Operands: ops}, err
	case owl.ObjectIntersectionOf:
		ops, err := encodeExpressions(v.Operands)
		return termRecord{T: termIntersection, Operands: ops}, err
	case owl.ObjectComplementOf:
		ops, err := encodeExpressions([]owl.ClassExpression{v.Operand})
		return termRecord{T: termComplement, Operands: ops}, err
	case owl.ObjectSomeValuesFrom:
		return encodeRestriction(termSome, v.Property, v.Filler)
	case owl.ObjectAllValuesFrom:
		return encodeRestriction(termAll, v.Property, v.Filler)
	default:
		return termRecord{}, fmt.Errorf("unsupported term %T", t)
	}
}

func encodeRestriction(tag string, p owl.Entity, filler owl.ClassExpression) (termRecord, error) {
	prop, err := encodeTerm(p)
	if err != nil {
		return termRecord{}, err
	}
	ops, err := encodeExpressions([]owl.ClassExpression{filler})
	if err != nil {
		return termRecord{}, err
	}
	return termRecord{T: tag, Property: &prop, Operands: ops}, nil
}

func encodeExpressions(exprs []owl.ClassExpression) ([]termRecord, error) {
	out := make([]termRecord, len(exprs))
	for i, e := range exprs {
		t, err := encodeTerm(e)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

func decodeTerm(rec termRecord) (owl.Term, error) {
	switch rec.T {
	case termEntity:
		kind, err := owl.ParseKind(rec.Kind)
		if err != nil {
			return nil, err
		}
		return owl.Entity{Kind: kind, IRI: rec.IRI}, nil
	case termIRI:
		return owl.IRI(rec.IRI), nil
	case termLiteral:
		return owl.Literal{Value: rec.Value, Lang: rec.Lang, Datatype: rec.Datatype}, nil
	case termUnion:
		ops, err := decodeExpressions(rec.Operands)
		return owl.ObjectUnionOf{Operands: ops}, err
	case termIntersection:
		ops, err := decodeExpressions(rec.Operands)
		return owl.ObjectIntersectionOf{Operands: ops}, err
	case termComplement:
		ops, err := decodeExpressions(rec.Operands)
		if err != nil {
			return nil, err
		}
		if len(ops) != 1 {
			return nil, fmt.Errorf("complement expects one operand, got %d", len(ops))
		}
		return owl.ObjectComplementOf{Operand: ops[0]}, nil
	case termSome, termAll:
		if rec.Property == nil {
			return nil, fmt.Errorf("%s restriction without property", rec.T)
		}
		p, err := decodeTerm(*rec.Property)
		if err != nil {
			return nil, err
		}
		prop, ok := p.(owl.Entity)
		if !ok {
			return nil, fmt.Errorf("%s restriction property is not an entity", rec.T)
		}
		ops, err := decodeExpressions(rec.Operands)
		if err != nil {
			return nil, err
		}
		if len(ops) != 1 {
			return nil, fmt.Errorf("%s restriction expects one filler, got %d", rec.T, len(ops))
		}
		if rec.T == termSome {
			return owl.ObjectSomeValuesFrom{Property: prop, Filler: ops[0]}, nil
		}
		return owl.ObjectAllValuesFrom{Property: prop, Filler: ops[0]}, nil
	default:
		return nil, fmt.Errorf("unknown term tag %q", rec.T)
	}
}

func decodeExpressions(recs []termRecord) ([]owl.ClassExpression, error) {
	out := make([]owl.ClassExpression, len(recs))
	for i, rec := range recs {
		t, err := decodeTerm(rec)
		if err != nil {
			return nil, err
		}
		ce, ok := t.(owl.ClassExpression)
		if !ok {
			return nil, fmt.Errorf("term %q is not a class expression", rec.T)
		}
		out[i] = ce
	}
	return out, nil
}
