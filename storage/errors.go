package storage

import (
	"errors"
	"fmt"

	"github.com/c360studio/semframe/owl"
)

// Common storage errors.
var (
	// ErrOntologyNotFound is returned when no ontology has the requested IRI.
	ErrOntologyNotFound = errors.New("ontology not found")

	// ErrSnapshotNotFound is returned when the journal holds no snapshot for an IRI.
	ErrSnapshotNotFound = errors.New("snapshot not found")
)

// ChangeRejectedError is returned when the store refuses an axiom change.
// The store is left unchanged for the call that was rejected.
type ChangeRejectedError struct {
	Ontology string
	Axiom    owl.Axiom
	Reason   error
}

func (e *ChangeRejectedError) Error() string {
	if e.Axiom.Type == "" {
		return fmt.Sprintf("change rejected by ontology %s: %v", e.Ontology, e.Reason)
	}
	return fmt.Sprintf("change rejected by ontology %s: %s: %v", e.Ontology, e.Axiom.Key(), e.Reason)
}

func (e *ChangeRejectedError) Unwrap() error {
	return e.Reason
}

// IsChangeRejected reports whether err is or wraps a ChangeRejectedError.
func IsChangeRejected(err error) bool {
	var rejected *ChangeRejectedError
	return errors.As(err, &rejected)
}
