// Package ontology manages ontology handles, their per-ontology options, and
// the context-scoped current ontology. An Ontology is the only path by which
// semframe writes axioms into a store.
package ontology

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/c360studio/semframe/owl"
	"github.com/c360studio/semframe/storage"
)

// Manager owns the options records and namespace defaults for the ontologies
// held in one store.
type Manager struct {
	store   storage.Store
	factory owl.Factory
	logger  *slog.Logger
	metrics *Metrics

	mu         sync.RWMutex
	options    map[string]*Options
	namespaces map[string]string
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithMetrics enables axiom counters.
func WithMetrics(metrics *Metrics) ManagerOption {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// WithFactory sets the entity factory. Defaults to owl.NewDataFactory().
func WithFactory(f owl.Factory) ManagerOption {
	return func(m *Manager) {
		m.factory = f
	}
}

// NewManager creates a manager over store. Options records are dropped
// whenever the store removes or replaces an ontology.
func NewManager(store storage.Store, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:      store,
		factory:    owl.NewDataFactory(),
		logger:     slog.Default(),
		options:    make(map[string]*Options),
		namespaces: make(map[string]string),
	}
	for _, opt := range opts {
		opt(m)
	}
	store.OnRemove(m.teardown)
	return m
}

// Store returns the underlying store.
func (m *Manager) Store() storage.Store { return m.store }

// Factory returns the entity factory.
func (m *Manager) Factory() owl.Factory { return m.factory }

// Create creates an empty ontology with a fresh options record. Any existing
// ontology with the same IRI is replaced and its options discarded.
func (m *Manager) Create(ctx context.Context, iri string, opts ...Option) (*Ontology, error) {
	if err := m.store.CreateOntology(ctx, iri); err != nil {
		return nil, err
	}

	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	m.mu.Lock()
	m.options[iri] = options
	n := len(m.options)
	m.mu.Unlock()

	m.metrics.setOntologies(n)
	m.logger.Debug("Created ontology", slog.String("iri", iri))
	return &Ontology{iri: iri, mgr: m}, nil
}

// Get returns a handle for an existing ontology.
func (m *Manager) Get(iri string) (*Ontology, error) {
	if !m.store.HasOntology(iri) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, iri)
	}
	return &Ontology{iri: iri, mgr: m}, nil
}

// Remove removes the ontology from the store.
func (m *Manager) Remove(ctx context.Context, iri string) error {
	return m.store.RemoveOntology(ctx, iri)
}

// Import adds imported to the imports closure of o.
func (m *Manager) Import(ctx context.Context, o, imported *Ontology) error {
	return m.store.AddImport(ctx, o.iri, imported.iri)
}

// Register makes o the default ontology for namespace.
func (m *Manager) Register(namespace string, o *Ontology) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.namespaces[namespace] = o.iri
}

// Default returns the ontology registered for namespace.
func (m *Manager) Default(namespace string) (*Ontology, bool) {
	m.mu.RLock()
	iri, ok := m.namespaces[namespace]
	m.mu.RUnlock()
	if !ok || !m.store.HasOntology(iri) {
		return nil, false
	}
	return &Ontology{iri: iri, mgr: m}, true
}

// Namespaces lists the namespaces with a registered default, sorted.
func (m *Manager) Namespaces() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.namespaces))
	for ns := range m.namespaces {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}

// Current returns the ontology bound in ctx or, failing that, the default
// registered for the namespace bound in ctx.
func (m *Manager) Current(ctx context.Context) (*Ontology, error) {
	if o, ok := CurrentOf(ctx); ok {
		return o, nil
	}
	ns := NamespaceOf(ctx)
	if ns != "" {
		if o, ok := m.Default(ns); ok {
			return o, nil
		}
	}
	return nil, &CurrentOntologyUnsetError{Namespace: ns}
}

// Resolve returns o when non-nil and the current ontology otherwise.
func (m *Manager) Resolve(ctx context.Context, o *Ontology) (*Ontology, error) {
	if o != nil {
		return o, nil
	}
	return m.Current(ctx)
}

func (m *Manager) optionsFor(iri string) *Options {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.options[iri]
}

func (m *Manager) teardown(iri string) {
	m.mu.Lock()
	delete(m.options, iri)
	for ns, target := range m.namespaces {
		if target == iri {
			delete(m.namespaces, ns)
		}
	}
	n := len(m.options)
	m.mu.Unlock()

	m.metrics.setOntologies(n)
	m.logger.Debug("Discarded ontology options", slog.String("iri", iri))
}
