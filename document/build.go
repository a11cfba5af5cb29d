package document

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/c360studio/semframe/collect"
	"github.com/c360studio/semframe/declare"
	"github.com/c360studio/semframe/ontology"
	"github.com/c360studio/semframe/owl"
	"github.com/c360studio/semframe/resolve"
)

// Builder builds ontologies from documents.
type Builder struct {
	mgr      *ontology.Manager
	declarer *declare.Declarer
	logger   *slog.Logger

	defaultIRI    string
	defaultPolicy ontology.IRIPolicy
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) {
		b.logger = logger
	}
}

// WithDefaultOntology sets the IRI used by documents that name none.
func WithDefaultOntology(iri string) BuilderOption {
	return func(b *Builder) {
		b.defaultIRI = iri
	}
}

// WithDefaultPolicy sets the naming policy used by documents that name none.
func WithDefaultPolicy(p ontology.IRIPolicy) BuilderOption {
	return func(b *Builder) {
		b.defaultPolicy = p
	}
}

// NewBuilder creates a Builder over m.
func NewBuilder(m *ontology.Manager, opts ...BuilderOption) *Builder {
	b := &Builder{
		mgr:           m,
		logger:        slog.Default(),
		defaultPolicy: ontology.PolicyFragment,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.declarer = declare.New(m, declare.WithLogger(b.logger))
	return b
}

// BuildAll builds documents in order. A document may import any ontology
// built before it.
func (b *Builder) BuildAll(ctx context.Context, docs []*Document) ([]*ontology.Ontology, error) {
	out := make([]*ontology.Ontology, 0, len(docs))
	for _, doc := range docs {
		o, err := b.Build(ctx, doc)
		if err != nil {
			return out, err
		}
		out = append(out, o)
	}
	return out, nil
}

// Build creates the document's ontology, replacing any existing one, and
// declares its entities: annotation properties, object properties, classes,
// individuals, then groups.
func (b *Builder) Build(ctx context.Context, doc *Document) (*ontology.Ontology, error) {
	iri := doc.Ontology
	if iri == "" {
		iri = b.defaultIRI
	}
	if iri == "" {
		return nil, fmt.Errorf("%s: document names no ontology and no default is configured", doc.Path)
	}

	policy := b.defaultPolicy
	if doc.IRIPolicy != "" {
		p, err := ontology.ParseIRIPolicy(doc.IRIPolicy)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", doc.Path, err)
		}
		policy = p
	}
	opt, err := ontology.WithIRIPolicy(policy, iri)
	if err != nil {
		return nil, err
	}

	o, err := b.mgr.Create(ctx, iri, opt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", doc.Path, err)
	}
	if doc.Namespace != "" {
		b.mgr.Register(doc.Namespace, o)
	}
	for _, imp := range doc.Imports {
		imported, err := b.mgr.Get(imp)
		if err != nil {
			return nil, fmt.Errorf("%s: import: %w", doc.Path, err)
		}
		if err := b.mgr.Import(ctx, o, imported); err != nil {
			return nil, fmt.Errorf("%s: import %s: %w", doc.Path, imp, err)
		}
	}

	ctx = ontology.WithCurrent(ctx, o)
	r := resolve.New(o)
	sections := []struct {
		kind    owl.Kind
		entries []Entry
	}{
		{owl.KindAnnotationProperty, doc.AnnotationProperties},
		{owl.KindObjectProperty, doc.ObjectProperties},
		{owl.KindClass, doc.Classes},
		{owl.KindIndividual, doc.Individuals},
	}
	for _, s := range sections {
		if err := b.declareAll(ctx, r, s.kind, s.entries); err != nil {
			return nil, fmt.Errorf("%s: %w", doc.Path, err)
		}
	}
	for i, g := range doc.Groups {
		if err := b.group(ctx, r, o, g); err != nil {
			return nil, fmt.Errorf("%s: group %d: %w", doc.Path, i, err)
		}
	}

	b.logger.Info("Built ontology from document",
		slog.String("path", doc.Path),
		slog.String("ontology", iri))
	return o, nil
}

func (b *Builder) declareAll(ctx context.Context, r *resolve.Resolver, kind owl.Kind, entries []Entry) error {
	for _, entry := range entries {
		frames, err := entry.Frames(ctx, r, kind)
		if err != nil {
			return fmt.Errorf("%s %q: %w", kind, entry.Name(), err)
		}
		if _, err := b.declarer.Declare(ctx, nil, kind, nil, frames); err != nil {
			return fmt.Errorf("%s %q: %w", kind, entry.Name(), err)
		}
	}
	return nil
}

func (b *Builder) group(ctx context.Context, r *resolve.Resolver, o *ontology.Ontology, g Group) error {
	body := func(ctx context.Context) error {
		if err := b.declareAll(ctx, r, owl.KindObjectProperty, g.ObjectProperties); err != nil {
			return err
		}
		return b.declareAll(ctx, r, owl.KindClass, g.Classes)
	}

	var err error
	switch g.Kind {
	case GroupDisjoint:
		_, err = collect.Disjoint(ctx, o, body)
	case GroupDisjointProperties:
		_, err = collect.DisjointProperties(ctx, o, body)
	case GroupInverse:
		_, err = collect.Inverse(ctx, o, body)
	case GroupSubclasses:
		super, rerr := r.Resolve(ctx, ref(g.Super), owl.KindClass)
		if rerr != nil {
			return rerr
		}
		_, err = collect.Subclasses(ctx, o, super, collect.SubclassOptions{Disjoint: g.Disjoint, Cover: g.Cover}, body)
	default:
		err = g.Validate()
	}
	return err
}
