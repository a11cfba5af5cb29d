package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/c360studio/semframe/owl"
)

// MemStore is an in-memory Store. It is safe for concurrent use, but
// multi-call sequences against one ontology must be serialized by the caller.
type MemStore struct {
	mu         sync.RWMutex
	ontologies map[string]*memOntology
	hooks      []RemoveHook
	logger     *slog.Logger
}

type memOntology struct {
	axioms  map[string]memAxiom
	seq     uint64
	imports []string
}

type memAxiom struct {
	axiom owl.Axiom
	seq   uint64
}

// MemStoreOption configures a MemStore.
type MemStoreOption func(*MemStore)

// WithMemStoreLogger sets the logger for the store.
func WithMemStoreLogger(logger *slog.Logger) MemStoreOption {
	return func(s *MemStore) {
		s.logger = logger
	}
}

// NewMemStore creates an empty in-memory store.
func NewMemStore(opts ...MemStoreOption) *MemStore {
	s := &MemStore{
		ontologies: make(map[string]*memOntology),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateOntology implements Store.
func (s *MemStore) CreateOntology(_ context.Context, iri string) error {
	if err := owl.ValidateIRI(iri); err != nil {
		return fmt.Errorf("create ontology: %w", err)
	}

	s.mu.Lock()
	_, replaced := s.ontologies[iri]
	s.ontologies[iri] = &memOntology{axioms: make(map[string]memAxiom)}
	hooks := append([]RemoveHook(nil), s.hooks...)
	s.mu.Unlock()

	if replaced {
		s.logger.Debug("Replaced ontology", slog.String("iri", iri))
		fire(hooks, iri)
	}
	return nil
}

// RemoveOntology implements Store.
func (s *MemStore) RemoveOntology(_ context.Context, iri string) error {
	s.mu.Lock()
	if _, ok := s.ontologies[iri]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("remove %s: %w", iri, ErrOntologyNotFound)
	}
	delete(s.ontologies, iri)
	for _, o := range s.ontologies {
		o.imports = without(o.imports, iri)
	}
	hooks := append([]RemoveHook(nil), s.hooks...)
	s.mu.Unlock()

	s.logger.Debug("Removed ontology", slog.String("iri", iri))
	fire(hooks, iri)
	return nil
}

// HasOntology implements Store.
func (s *MemStore) HasOntology(iri string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ontologies[iri]
	return ok
}

// OnRemove implements Store.
func (s *MemStore) OnRemove(hook RemoveHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, hook)
}

// Apply implements Store. Every change is validated before any is applied.
func (s *MemStore) Apply(ctx context.Context, iri string, changes ...Change) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.ontologies[iri]
	if !ok {
		return &ChangeRejectedError{Ontology: iri, Reason: ErrOntologyNotFound}
	}
	for _, c := range changes {
		switch c.Op {
		case OpAdd:
			if err := c.Axiom.Validate(); err != nil {
				return &ChangeRejectedError{Ontology: iri, Axiom: c.Axiom, Reason: err}
			}
		case OpRemove:
		default:
			return &ChangeRejectedError{Ontology: iri, Axiom: c.Axiom, Reason: fmt.Errorf("unknown change op %d", c.Op)}
		}
	}

	for _, c := range changes {
		key := c.Axiom.Key()
		switch c.Op {
		case OpAdd:
			if _, exists := o.axioms[key]; exists {
				continue
			}
			o.seq++
			o.axioms[key] = memAxiom{axiom: c.Axiom, seq: o.seq}
		case OpRemove:
			delete(o.axioms, key)
		}
	}
	return nil
}

// Contains implements Store.
func (s *MemStore) Contains(_ context.Context, iri string, ax owl.Axiom) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.ontologies[iri]
	if !ok {
		return false, fmt.Errorf("contains %s: %w", iri, ErrOntologyNotFound)
	}
	_, found := o.axioms[ax.Key()]
	return found, nil
}

// Axioms implements Store.
func (s *MemStore) Axioms(_ context.Context, iri string) ([]owl.Axiom, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.ontologies[iri]
	if !ok {
		return nil, fmt.Errorf("axioms %s: %w", iri, ErrOntologyNotFound)
	}
	return o.ordered(nil), nil
}

// ReferencingAxioms implements Store.
func (s *MemStore) ReferencingAxioms(_ context.Context, iri string, mentioned string) ([]owl.Axiom, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.ontologies[iri]
	if !ok {
		return nil, fmt.Errorf("referencing axioms %s: %w", iri, ErrOntologyNotFound)
	}
	return o.ordered(func(ax owl.Axiom) bool { return ax.Mentions(mentioned) }), nil
}

// DirectSupers implements Store.
func (s *MemStore) DirectSupers(_ context.Context, iri string, e owl.Entity) ([]owl.Entity, error) {
	t, ok := subsumptionType(e.Kind)
	if !ok {
		return nil, nil
	}
	return s.collect(iri, func(ax owl.Axiom, out *entitySet) {
		if ax.Type == t && len(ax.Operands) == 2 && sameEntity(ax.Operands[0], e) {
			out.addNamed(ax.Operands[1], e.Kind)
		}
	})
}

// DirectSubs implements Store.
func (s *MemStore) DirectSubs(_ context.Context, iri string, e owl.Entity) ([]owl.Entity, error) {
	t, ok := subsumptionType(e.Kind)
	if !ok {
		return nil, nil
	}
	return s.collect(iri, func(ax owl.Axiom, out *entitySet) {
		if ax.Type == t && len(ax.Operands) == 2 && sameEntity(ax.Operands[1], e) {
			out.addNamed(ax.Operands[0], e.Kind)
		}
	})
}

// DisjointWith implements Store.
func (s *MemStore) DisjointWith(_ context.Context, iri string, e owl.Entity) ([]owl.Entity, error) {
	var t owl.AxiomType
	switch e.Kind {
	case owl.KindClass:
		t = owl.AxiomDisjointClasses
	case owl.KindObjectProperty:
		t = owl.AxiomDisjointObjectProperties
	case owl.KindIndividual:
		t = owl.AxiomDifferentIndividuals
	default:
		return nil, nil
	}
	return s.collect(iri, groupMembers(t, e))
}

// EquivalentTo implements Store.
func (s *MemStore) EquivalentTo(_ context.Context, iri string, e owl.Entity) ([]owl.Entity, error) {
	var t owl.AxiomType
	switch e.Kind {
	case owl.KindClass:
		t = owl.AxiomEquivalentClasses
	case owl.KindObjectProperty:
		t = owl.AxiomEquivalentObjectProperties
	case owl.KindIndividual:
		t = owl.AxiomSameIndividual
	default:
		return nil, nil
	}
	return s.collect(iri, groupMembers(t, e))
}

// AddImport implements Store.
func (s *MemStore) AddImport(_ context.Context, iri, imported string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.ontologies[iri]
	if !ok {
		return fmt.Errorf("import into %s: %w", iri, ErrOntologyNotFound)
	}
	if _, ok := s.ontologies[imported]; !ok {
		return fmt.Errorf("import %s: %w", imported, ErrOntologyNotFound)
	}
	for _, existing := range o.imports {
		if existing == imported {
			return nil
		}
	}
	o.imports = append(o.imports, imported)
	return nil
}

// Imports implements Store.
func (s *MemStore) Imports(_ context.Context, iri string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.ontologies[iri]
	if !ok {
		return nil, fmt.Errorf("imports %s: %w", iri, ErrOntologyNotFound)
	}
	return append([]string(nil), o.imports...), nil
}

// collect visits every axiom in the imports closure of iri.
func (s *MemStore) collect(iri string, visit func(owl.Axiom, *entitySet)) ([]owl.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.ontologies[iri]; !ok {
		return nil, fmt.Errorf("query %s: %w", iri, ErrOntologyNotFound)
	}

	out := &entitySet{seen: make(map[owl.Entity]bool)}
	for _, o := range s.closure(iri) {
		for _, ax := range o.ordered(nil) {
			visit(ax, out)
		}
	}
	return out.items, nil
}

// closure returns the ontology and everything it imports, transitively.
// Import cycles are tolerated. Callers hold s.mu.
func (s *MemStore) closure(iri string) []*memOntology {
	var out []*memOntology
	visited := map[string]bool{}
	queue := []string{iri}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if visited[next] {
			continue
		}
		visited[next] = true
		o, ok := s.ontologies[next]
		if !ok {
			continue
		}
		out = append(out, o)
		queue = append(queue, o.imports...)
	}
	return out
}

func (o *memOntology) ordered(keep func(owl.Axiom) bool) []owl.Axiom {
	entries := make([]memAxiom, 0, len(o.axioms))
	for _, entry := range o.axioms {
		if keep == nil || keep(entry.axiom) {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	out := make([]owl.Axiom, len(entries))
	for i, entry := range entries {
		out[i] = entry.axiom
	}
	return out
}

type entitySet struct {
	seen  map[owl.Entity]bool
	items []owl.Entity
}

// addNamed adds t when it is a named entity of kind.
func (s *entitySet) addNamed(t owl.Term, kind owl.Kind) {
	e, ok := t.(owl.Entity)
	if !ok || e.Kind != kind || s.seen[e] {
		return
	}
	s.seen[e] = true
	s.items = append(s.items, e)
}

func groupMembers(t owl.AxiomType, e owl.Entity) func(owl.Axiom, *entitySet) {
	return func(ax owl.Axiom, out *entitySet) {
		if ax.Type != t || !hasOperand(ax, e) {
			return
		}
		for _, op := range ax.Operands {
			if !sameEntity(op, e) {
				out.addNamed(op, e.Kind)
			}
		}
	}
}

func hasOperand(ax owl.Axiom, e owl.Entity) bool {
	for _, op := range ax.Operands {
		if sameEntity(op, e) {
			return true
		}
	}
	return false
}

func sameEntity(t owl.Term, e owl.Entity) bool {
	x, ok := t.(owl.Entity)
	return ok && x == e
}

func subsumptionType(k owl.Kind) (owl.AxiomType, bool) {
	switch k {
	case owl.KindClass:
		return owl.AxiomSubClassOf, true
	case owl.KindObjectProperty:
		return owl.AxiomSubObjectPropertyOf, true
	case owl.KindAnnotationProperty:
		return owl.AxiomSubAnnotationPropertyOf, true
	default:
		return "", false
	}
}

func fire(hooks []RemoveHook, iri string) {
	for _, hook := range hooks {
		hook(iri)
	}
}

func without(list []string, item string) []string {
	out := list[:0]
	for _, s := range list {
		if s != item {
			out = append(out, s)
		}
	}
	return out
}
