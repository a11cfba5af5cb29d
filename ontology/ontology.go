package ontology

import (
	"context"
	"log/slog"
	"strings"

	"github.com/c360studio/semframe/owl"
	"github.com/c360studio/semframe/storage"
	errs "github.com/c360studio/semstreams/pkg/errs"
)

// Ontology is a handle to one ontology in a manager's store.
type Ontology struct {
	iri string
	mgr *Manager
}

// IRI returns the ontology IRI.
func (o *Ontology) IRI() string { return o.iri }

// Manager returns the owning manager.
func (o *Ontology) Manager() *Manager { return o.mgr }

// Store returns the underlying store.
func (o *Ontology) Store() storage.Store { return o.mgr.store }

// Options returns the ontology's options record, or nil once the ontology
// has been removed.
func (o *Ontology) Options() *Options { return o.mgr.optionsFor(o.iri) }

// IRIFor turns a bare name into an entity IRI using the naming policy.
func (o *Ontology) IRIFor(name string) string {
	if opts := o.Options(); opts != nil && opts.IRIGen != nil {
		return opts.IRIGen(name)
	}
	return strings.TrimRight(o.iri, "#") + "#" + name
}

// Add submits one axiom addition and returns the axiom.
func (o *Ontology) Add(ctx context.Context, ax owl.Axiom) (owl.Axiom, error) {
	if err := o.apply(ctx, "Add", storage.AddAxiom(ax)); err != nil {
		return owl.Axiom{}, err
	}
	o.mgr.metrics.added(1)
	return ax, nil
}

// AddAll submits each axiom as its own change, in order. A rejection stops
// the sequence and leaves earlier axioms in place.
func (o *Ontology) AddAll(ctx context.Context, axioms []owl.Axiom) ([]owl.Axiom, error) {
	added := make([]owl.Axiom, 0, len(axioms))
	for _, ax := range axioms {
		if _, err := o.Add(ctx, ax); err != nil {
			return added, err
		}
		added = append(added, ax)
	}
	return added, nil
}

// Remove submits one axiom removal and returns the axiom.
func (o *Ontology) Remove(ctx context.Context, ax owl.Axiom) (owl.Axiom, error) {
	if err := o.apply(ctx, "Remove", storage.RemoveAxiom(ax)); err != nil {
		return owl.Axiom{}, err
	}
	o.mgr.metrics.removed(1)
	return ax, nil
}

// RemoveEntity removes every axiom of the ontology that mentions e,
// including annotation assertions whose subject is e's IRI. The removals are
// submitted as one batch and returned.
func (o *Ontology) RemoveEntity(ctx context.Context, e owl.Entity) ([]owl.Axiom, error) {
	refs, err := o.mgr.store.ReferencingAxioms(ctx, o.iri, e.IRI)
	if err != nil {
		return nil, errs.Wrap(err, "Ontology", "RemoveEntity", "find referencing axioms")
	}
	if len(refs) == 0 {
		return nil, nil
	}

	changes := make([]storage.Change, len(refs))
	for i, ax := range refs {
		changes[i] = storage.RemoveAxiom(ax)
	}
	if err := o.apply(ctx, "RemoveEntity", changes...); err != nil {
		return nil, err
	}
	o.mgr.metrics.removed(len(refs))
	o.mgr.logger.Debug("Removed entity",
		slog.String("ontology", o.iri),
		slog.String("entity", e.IRI),
		slog.Int("axioms", len(refs)))
	return refs, nil
}

// Contains reports whether the ontology itself holds ax.
func (o *Ontology) Contains(ctx context.Context, ax owl.Axiom) (bool, error) {
	return o.mgr.store.Contains(ctx, o.iri, ax)
}

// Axioms lists the ontology's own axioms in insertion order.
func (o *Ontology) Axioms(ctx context.Context) ([]owl.Axiom, error) {
	return o.mgr.store.Axioms(ctx, o.iri)
}

func (o *Ontology) apply(ctx context.Context, method string, changes ...storage.Change) error {
	err := o.mgr.store.Apply(ctx, o.iri, changes...)
	if err == nil {
		if len(changes) == 1 {
			o.mgr.logger.Debug("Applied axiom change",
				slog.String("ontology", o.iri),
				slog.String("op", changes[0].Op.String()),
				slog.String("axiom", changes[0].Axiom.Key()))
		}
		return nil
	}
	if storage.IsChangeRejected(err) {
		o.mgr.metrics.rejected()
		o.mgr.logger.Warn("Axiom change rejected",
			slog.String("ontology", o.iri),
			slog.String("method", method),
			slog.String("error", err.Error()))
		return errs.WrapInvalid(err, "Ontology", method, "apply change")
	}
	return errs.Wrap(err, "Ontology", method, "apply change")
}
