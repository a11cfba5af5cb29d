// Package frame compiles declarative entity descriptions into axioms.
//
// A description is a set of frames: tagged value lists such as
// subclass: [Food] or label: ["Pizza"]. Compilation merges the default
// frames active in the context, validates every tag against the entity
// kind's schema, and emits the declaration followed by one axiom per value
// in a fixed tag order. Compiling never touches the store; Apply does.
package frame

import (
	"context"
	"log/slog"

	"github.com/c360studio/semframe/ontology"
	"github.com/c360studio/semframe/owl"
	"github.com/c360studio/semframe/resolve"
	errs "github.com/c360studio/semstreams/pkg/errs"
)

// Compiler turns frames into axioms.
type Compiler struct {
	logger *slog.Logger
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// NewCompiler creates a Compiler.
func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile returns the ordered axioms describing entity in o: its
// declaration, then the axioms of the default frames active in ctx merged
// with explicit. An unknown tag fails before any value is resolved.
func (c *Compiler) Compile(ctx context.Context, o *ontology.Ontology, entity owl.Entity, explicit Frames) ([]owl.Axiom, error) {
	frames := Merge(Defaults(ctx), explicit)
	if err := Validate(entity.Kind, frames); err != nil {
		return nil, errs.WrapInvalid(err, "Compiler", "Compile", "validate frames")
	}

	r := resolve.New(o)
	axioms := []owl.Axiom{owl.NewDeclaration(entity)}
	for _, tag := range Order {
		values, ok := frames[tag]
		if !ok {
			continue
		}
		for _, v := range Normalize(values) {
			ax, err := c.axiom(ctx, r, entity, tag, v)
			if err != nil {
				return nil, errs.WrapInvalid(err, "Compiler", "Compile", "compile "+string(tag))
			}
			if ax != nil {
				axioms = append(axioms, *ax)
			}
		}
	}

	c.logger.Debug("Compiled entity",
		slog.String("entity", entity.IRI),
		slog.String("kind", entity.Kind.String()),
		slog.Int("axioms", len(axioms)))
	return axioms, nil
}

// Validate checks every tag in frames against the schema for kind. Tags are
// checked in sorted order so the reported tag is stable.
func Validate(kind owl.Kind, frames Frames) error {
	for _, tag := range frames.Tags() {
		if !Allowed(kind, tag) {
			return &UnknownFrameError{Tag: tag, Kind: kind}
		}
	}
	return nil
}

// Apply adds compiled axioms to o in order. A rejection stops the sequence
// and leaves the axioms already added in place.
func Apply(ctx context.Context, o *ontology.Ontology, axioms []owl.Axiom) ([]owl.Axiom, error) {
	return o.AddAll(ctx, axioms)
}

func (c *Compiler) axiom(ctx context.Context, r *resolve.Resolver, e owl.Entity, tag Tag, v any) (*owl.Axiom, error) {
	var ax owl.Axiom
	switch tag {
	case TagName:
		return nil, nil

	case TagSubclass:
		sup, err := r.ResolveExpression(ctx, v)
		if err != nil {
			return nil, err
		}
		ax = owl.NewSubClassOf(e, sup)

	case TagEquivalent, TagDisjoint:
		if e.Kind == owl.KindObjectProperty {
			p, err := r.Resolve(ctx, v, owl.KindObjectProperty)
			if err != nil {
				return nil, err
			}
			if tag == TagEquivalent {
				ax = owl.NewEquivalentObjectProperties(e, p)
			} else {
				ax = owl.NewDisjointObjectProperties(e, p)
			}
			break
		}
		ce, err := r.ResolveExpression(ctx, v)
		if err != nil {
			return nil, err
		}
		if tag == TagEquivalent {
			ax = owl.NewEquivalentClasses(e, ce)
		} else {
			ax = owl.NewDisjointClasses(e, ce)
		}

	case TagSuperproperty:
		sup, err := r.Resolve(ctx, v, e.Kind)
		if err != nil {
			return nil, err
		}
		if e.Kind == owl.KindAnnotationProperty {
			ax = owl.NewSubAnnotationPropertyOf(e, sup)
		} else {
			ax = owl.NewSubObjectPropertyOf(e, sup)
		}

	case TagDomain, TagRange:
		ce, err := r.ResolveExpression(ctx, v)
		if err != nil {
			return nil, err
		}
		if tag == TagDomain {
			ax = owl.NewObjectPropertyDomain(e, ce)
		} else {
			ax = owl.NewObjectPropertyRange(e, ce)
		}

	case TagInverse:
		q, err := r.Resolve(ctx, v, owl.KindObjectProperty)
		if err != nil {
			return nil, err
		}
		ax = owl.NewInverseObjectProperties(e, q)

	case TagCharacteristic:
		ch, err := characteristic(v)
		if err != nil {
			return nil, err
		}
		if ax, err = owl.NewCharacteristic(ch, e); err != nil {
			return nil, err
		}

	case TagType:
		ce, err := r.ResolveExpression(ctx, v)
		if err != nil {
			return nil, err
		}
		ax = owl.NewClassAssertion(ce, e)

	case TagFact:
		fact, ok := v.(Fact)
		if !ok {
			return nil, &InvalidValueError{Tag: tag, Value: v}
		}
		p, err := r.Resolve(ctx, fact.Property, owl.KindObjectProperty)
		if err != nil {
			return nil, err
		}
		obj, err := r.Resolve(ctx, fact.Object, owl.KindIndividual)
		if err != nil {
			return nil, err
		}
		if fact.Negative {
			ax = owl.NewNegativeObjectPropertyAssertion(p, e, obj)
		} else {
			ax = owl.NewObjectPropertyAssertion(p, e, obj)
		}

	case TagSame, TagDifferent:
		other, err := r.Resolve(ctx, v, owl.KindIndividual)
		if err != nil {
			return nil, err
		}
		if tag == TagSame {
			ax = owl.NewSameIndividual(e, other)
		} else {
			ax = owl.NewDifferentIndividuals(e, other)
		}

	case TagAnnotation:
		ann, ok := v.(Annotation)
		if !ok {
			return nil, &InvalidValueError{Tag: tag, Value: v}
		}
		p, err := r.Resolve(ctx, ann.Property, owl.KindAnnotationProperty)
		if err != nil {
			return nil, err
		}
		lit, err := literal(tag, ann.Value)
		if err != nil {
			return nil, err
		}
		ax = owl.NewAnnotationAssertion(p, owl.IRI(e.IRI), lit)

	case TagComment, TagLabel:
		lit, err := literal(tag, v)
		if err != nil {
			return nil, err
		}
		p := owl.RDFSLabel
		if tag == TagComment {
			p = owl.RDFSComment
		}
		ax = owl.NewAnnotationAssertion(p, owl.IRI(e.IRI), lit)

	default:
		return nil, &UnknownFrameError{Tag: tag, Kind: e.Kind}
	}
	return &ax, nil
}

func characteristic(v any) (owl.Characteristic, error) {
	switch c := v.(type) {
	case owl.Characteristic:
		if parsed, ok := owl.ParseCharacteristic(string(c)); ok {
			return parsed, nil
		}
	case string:
		if parsed, ok := owl.ParseCharacteristic(c); ok {
			return parsed, nil
		}
	}
	return "", &UnknownCharacteristicError{Value: v}
}

func literal(tag Tag, v any) (owl.Literal, error) {
	switch l := v.(type) {
	case owl.Literal:
		return l, nil
	case string:
		return owl.Literal{Value: l}, nil
	default:
		return owl.Literal{}, &InvalidValueError{Tag: tag, Value: v}
	}
}
