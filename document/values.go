package document

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/c360studio/semframe/frame"
	"github.com/c360studio/semframe/owl"
	"github.com/c360studio/semframe/resolve"
)

// classTags hold class expressions.
var classTags = map[frame.Tag]bool{
	frame.TagSubclass: true,
	frame.TagDomain:   true,
	frame.TagRange:    true,
	frame.TagType:     true,
}

// Frames converts the entry into frames for an entity of kind. Nested lists
// are flattened and nulls dropped. Class expressions are resolved against r;
// plain names are left for the compiler.
func (e Entry) Frames(ctx context.Context, r *resolve.Resolver, kind owl.Kind) (frame.Frames, error) {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(frame.Frames, len(e))
	for _, key := range keys {
		tag := frame.ParseTag(key)
		values := frame.Normalize(asList(e[key]))
		converted := make([]any, 0, len(values))
		for _, v := range values {
			c, err := convert(ctx, r, kind, tag, v)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			converted = append(converted, c)
		}
		out[tag] = append(out[tag], converted...)
	}
	return out, nil
}

func convert(ctx context.Context, r *resolve.Resolver, kind owl.Kind, tag frame.Tag, v any) (any, error) {
	switch {
	case tag == frame.TagFact:
		return fact(v)
	case tag == frame.TagAnnotation:
		return annotation(v)
	case tag == frame.TagComment || tag == frame.TagLabel:
		return literal(v)
	case classTags[tag], kind == owl.KindClass && (tag == frame.TagEquivalent || tag == frame.TagDisjoint):
		return expression(ctx, r, v)
	default:
		return ref(v), nil
	}
}

func asList(v any) []any {
	if list, ok := v.([]any); ok {
		return list
	}
	return []any{v}
}

// ref turns "<http://...>" into a full IRI reference; other values pass
// through.
func ref(v any) any {
	s, ok := v.(string)
	if ok && strings.HasPrefix(s, "<") && strings.HasSuffix(s, ">") {
		return owl.IRI(strings.TrimSuffix(strings.TrimPrefix(s, "<"), ">"))
	}
	return v
}

// expression parses a class expression:
//
//	Name | <iri>
//	{some: {property: p, filler: X}} | {all: {property: p, filler: X}}
//	{union: [X, ...]} | {intersection: [X, ...]} | {complement: X}
func expression(ctx context.Context, r *resolve.Resolver, v any) (owl.ClassExpression, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return r.ResolveExpression(ctx, ref(v))
	}
	if len(m) != 1 {
		return nil, fmt.Errorf("class expression needs exactly one operator, got %d", len(m))
	}
	for op, arg := range m {
		switch op {
		case "some", "all":
			restriction, ok := arg.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%s: expected {property, filler}", op)
			}
			p, err := r.Resolve(ctx, ref(restriction["property"]), owl.KindObjectProperty)
			if err != nil {
				return nil, err
			}
			filler, err := expression(ctx, r, restriction["filler"])
			if err != nil {
				return nil, err
			}
			if op == "some" {
				return owl.ObjectSomeValuesFrom{Property: p, Filler: filler}, nil
			}
			return owl.ObjectAllValuesFrom{Property: p, Filler: filler}, nil

		case "union", "intersection":
			list, ok := arg.([]any)
			if !ok || len(list) < 2 {
				return nil, fmt.Errorf("%s: expected a list of at least two class expressions", op)
			}
			operands := make([]owl.ClassExpression, len(list))
			for i, item := range list {
				ce, err := expression(ctx, r, item)
				if err != nil {
					return nil, err
				}
				operands[i] = ce
			}
			if op == "union" {
				return owl.ObjectUnionOf{Operands: operands}, nil
			}
			return owl.ObjectIntersectionOf{Operands: operands}, nil

		case "complement":
			ce, err := expression(ctx, r, arg)
			if err != nil {
				return nil, err
			}
			return owl.ObjectComplementOf{Operand: ce}, nil

		default:
			return nil, fmt.Errorf("unknown class expression operator %q", op)
		}
	}
	return nil, fmt.Errorf("empty class expression")
}

func fact(v any) (frame.Fact, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return frame.Fact{}, fmt.Errorf("fact: expected {property, object}, got %T", v)
	}
	negative, _ := m["negative"].(bool)
	return frame.Fact{Property: ref(m["property"]), Object: ref(m["object"]), Negative: negative}, nil
}

func annotation(v any) (frame.Annotation, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return frame.Annotation{}, fmt.Errorf("annotation: expected {property, value}, got %T", v)
	}
	value, err := literal(m)
	if err != nil {
		return frame.Annotation{}, err
	}
	return frame.Annotation{Property: ref(m["property"]), Value: value}, nil
}

// literal accepts a scalar or {value, lang, datatype}.
func literal(v any) (owl.Literal, error) {
	m, ok := v.(map[string]any)
	if !ok {
		if v == nil {
			return owl.Literal{}, fmt.Errorf("literal: missing value")
		}
		return owl.Literal{Value: fmt.Sprint(v)}, nil
	}
	value, ok := m["value"]
	if !ok || value == nil {
		return owl.Literal{}, fmt.Errorf("literal: missing value")
	}
	lang, _ := m["lang"].(string)
	datatype, _ := m["datatype"].(string)
	return owl.Literal{Value: fmt.Sprint(value), Lang: lang, Datatype: datatype}, nil
}
