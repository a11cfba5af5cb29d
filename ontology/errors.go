package ontology

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the manager has no ontology for an IRI.
var ErrNotFound = errors.New("ontology not found")

// CurrentOntologyUnsetError is returned when an operation needs an implicit
// ontology but none is bound in the context and none is registered for the
// caller's namespace.
type CurrentOntologyUnsetError struct {
	Namespace string
}

func (e *CurrentOntologyUnsetError) Error() string {
	if e.Namespace == "" {
		return "no current ontology bound and no namespace set"
	}
	return fmt.Sprintf("no current ontology bound and none registered for namespace %q", e.Namespace)
}

// IsCurrentOntologyUnset reports whether err is or wraps a
// CurrentOntologyUnsetError.
func IsCurrentOntologyUnset(err error) bool {
	var unset *CurrentOntologyUnsetError
	return errors.As(err, &unset)
}
