// Package declare is the declaration layer: it resolves a name, compiles
// its frames, adds the axioms, and records the entity in the active
// collection window.
package declare

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/c360studio/semframe/collect"
	"github.com/c360studio/semframe/frame"
	"github.com/c360studio/semframe/ontology"
	"github.com/c360studio/semframe/owl"
	"github.com/c360studio/semframe/resolve"
)

// builtinNamespaces hold entities that are never auto-declared.
var builtinNamespaces = []string{owl.OWLNamespace, owl.RDFSNamespace, owl.RDFNamespace}

// Declarer declares entities in the ontologies of one manager.
type Declarer struct {
	mgr      *ontology.Manager
	compiler *frame.Compiler
	logger   *slog.Logger
}

// Option configures a Declarer.
type Option func(*Declarer)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Declarer) {
		d.logger = logger
	}
}

// WithCompiler sets the frame compiler.
func WithCompiler(c *frame.Compiler) Option {
	return func(d *Declarer) {
		d.compiler = c
	}
}

// New creates a Declarer.
func New(m *ontology.Manager, opts ...Option) *Declarer {
	d := &Declarer{
		mgr:    m,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.compiler == nil {
		d.compiler = frame.NewCompiler(frame.WithLogger(d.logger))
	}
	return d
}

// Class declares a class. A nil o selects the current ontology.
func (d *Declarer) Class(ctx context.Context, o *ontology.Ontology, name any, frames frame.Frames) (owl.Entity, error) {
	return d.Declare(ctx, o, owl.KindClass, name, frames)
}

// ObjectProperty declares an object property.
func (d *Declarer) ObjectProperty(ctx context.Context, o *ontology.Ontology, name any, frames frame.Frames) (owl.Entity, error) {
	return d.Declare(ctx, o, owl.KindObjectProperty, name, frames)
}

// AnnotationProperty declares an annotation property.
func (d *Declarer) AnnotationProperty(ctx context.Context, o *ontology.Ontology, name any, frames frame.Frames) (owl.Entity, error) {
	return d.Declare(ctx, o, owl.KindAnnotationProperty, name, frames)
}

// Individual declares an individual.
func (d *Declarer) Individual(ctx context.Context, o *ontology.Ontology, name any, frames frame.Frames) (owl.Entity, error) {
	return d.Declare(ctx, o, owl.KindIndividual, name, frames)
}

// Declare resolves name to an entity of kind, adds its compiled axioms plus
// declarations for any named entity they reference, and records it in the
// active collection window. When name is nil the first name frame is used.
func (d *Declarer) Declare(ctx context.Context, o *ontology.Ontology, kind owl.Kind, name any, frames frame.Frames) (owl.Entity, error) {
	o, err := d.mgr.Resolve(ctx, o)
	if err != nil {
		return owl.Entity{}, err
	}
	if name == nil {
		if names := frame.Normalize(frames[frame.TagName]); len(names) > 0 {
			name = names[0]
		}
	}

	e, err := resolve.New(o).Resolve(ctx, name, kind)
	if err != nil {
		return owl.Entity{}, err
	}
	if _, err := d.add(ctx, o, e, frames); err != nil {
		return owl.Entity{}, err
	}
	collect.Record(ctx, e)

	d.logger.Debug("Declared entity",
		slog.String("ontology", o.IRI()),
		slog.String("kind", kind.String()),
		slog.String("entity", e.IRI))
	return e, nil
}

// Refine adds more frames to an existing entity. The default frames active
// in ctx apply as they do for Declare. Axioms already held for the entity
// are kept; refinement only adds.
func (d *Declarer) Refine(ctx context.Context, o *ontology.Ontology, e owl.Entity, frames frame.Frames) ([]owl.Axiom, error) {
	o, err := d.mgr.Resolve(ctx, o)
	if err != nil {
		return nil, err
	}
	if names := frame.Normalize(frames[frame.TagName]); len(names) > 0 {
		return nil, fmt.Errorf("refine %s: name frame cannot rename an entity", e)
	}
	return d.add(ctx, o, e, frames)
}

func (d *Declarer) add(ctx context.Context, o *ontology.Ontology, e owl.Entity, frames frame.Frames) ([]owl.Axiom, error) {
	axioms, err := d.compiler.Compile(ctx, o, e, frames)
	if err != nil {
		return nil, err
	}
	axioms = append(axioms, referencedDeclarations(e, axioms)...)
	return frame.Apply(ctx, o, axioms)
}

// referencedDeclarations declares every named entity the axioms mention,
// other than e and the built-in vocabularies. Stores hold axioms as a set,
// so redeclaring an entity that already has a declaration adds nothing.
func referencedDeclarations(e owl.Entity, axioms []owl.Axiom) []owl.Axiom {
	seen := map[owl.Entity]bool{e: true}
	var out []owl.Axiom
	for _, ax := range axioms {
		for _, ref := range ax.Signature() {
			if seen[ref] || builtin(ref.IRI) {
				continue
			}
			seen[ref] = true
			out = append(out, owl.NewDeclaration(ref))
		}
	}
	return out
}

func builtin(iri string) bool {
	for _, ns := range builtinNamespaces {
		if strings.HasPrefix(iri, ns) {
			return true
		}
	}
	return false
}
