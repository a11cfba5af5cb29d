package owl

import (
	"fmt"
	"sync"

	"github.com/c360studio/semstreams/vocabulary"
)

// Built-in annotation properties.
var (
	RDFSLabel   = AnnotationProperty(vocabulary.RdfsLabel)
	RDFSComment = AnnotationProperty(vocabulary.RdfsComment)
	RDFSSeeAlso = AnnotationProperty(vocabulary.RdfsSeeAlso)
)

// Factory produces canonical entities for an identifier.
type Factory interface {
	// Entity returns the canonical entity of kind for iri. Calling it again
	// with the same arguments returns an equal entity.
	Entity(kind Kind, iri string) (Entity, error)
}

// DataFactory is the default Factory. It validates identifiers and keeps a
// registry of every entity it has handed out.
type DataFactory struct {
	mu       sync.RWMutex
	entities map[Entity]struct{}
}

// NewDataFactory creates an empty DataFactory.
func NewDataFactory() *DataFactory {
	return &DataFactory{entities: make(map[Entity]struct{})}
}

// Entity implements Factory.
func (f *DataFactory) Entity(kind Kind, iri string) (Entity, error) {
	if !kind.Valid() {
		return Entity{}, fmt.Errorf("invalid entity kind: %d", int(kind))
	}
	if err := ValidateIRI(iri); err != nil {
		return Entity{}, err
	}
	e := Entity{Kind: kind, IRI: iri}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.entities[e] = struct{}{}
	return e, nil
}

// Known reports whether the factory has produced e.
func (f *DataFactory) Known(e Entity) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.entities[e]
	return ok
}

// Len returns the number of distinct entities produced.
func (f *DataFactory) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.entities)
}
