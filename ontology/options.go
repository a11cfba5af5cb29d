package ontology

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Options is the mutable per-ontology settings record. It is dropped when its
// ontology is removed from the store.
type Options struct {
	// IRIGen turns a bare entity name into an IRI. When nil the ontology IRI
	// and the name are joined with '#'.
	IRIGen func(name string) string
}

// Option configures an ontology at creation time.
type Option func(*Options)

// WithIRIGen sets the naming policy.
func WithIRIGen(gen func(name string) string) Option {
	return func(o *Options) {
		o.IRIGen = gen
	}
}

// IRIPolicy names a built-in naming policy.
type IRIPolicy string

const (
	// PolicyFragment produces base#name.
	PolicyFragment IRIPolicy = "fragment"
	// PolicySlash produces base/name.
	PolicySlash IRIPolicy = "slash"
	// PolicyUUID produces base#_<uuid>, a name-based UUID so the same name
	// always yields the same IRI.
	PolicyUUID IRIPolicy = "uuid"
)

// ParseIRIPolicy validates a policy name. Empty selects PolicyFragment.
func ParseIRIPolicy(s string) (IRIPolicy, error) {
	switch p := IRIPolicy(strings.ToLower(s)); p {
	case "":
		return PolicyFragment, nil
	case PolicyFragment, PolicySlash, PolicyUUID:
		return p, nil
	default:
		return "", fmt.Errorf("unknown IRI policy: %s", s)
	}
}

// IRIGenFor returns the generator implementing policy for an ontology IRI.
func IRIGenFor(policy IRIPolicy, base string) (func(string) string, error) {
	base = strings.TrimRight(base, "#/")
	switch policy {
	case PolicyFragment, "":
		return func(name string) string { return base + "#" + name }, nil
	case PolicySlash:
		return func(name string) string { return base + "/" + name }, nil
	case PolicyUUID:
		return func(name string) string {
			return base + "#_" + uuid.NewSHA1(uuid.NameSpaceURL, []byte(base+"#"+name)).String()
		}, nil
	default:
		return nil, fmt.Errorf("unknown IRI policy: %s", policy)
	}
}

// WithIRIPolicy sets the naming policy from a policy name.
func WithIRIPolicy(policy IRIPolicy, base string) (Option, error) {
	gen, err := IRIGenFor(policy, base)
	if err != nil {
		return nil, err
	}
	return WithIRIGen(gen), nil
}
