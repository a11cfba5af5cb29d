package ontology

import "context"

type ctxKey int

const (
	currentKey ctxKey = iota
	namespaceKey
)

// WithCurrent returns a context in which o is the current ontology. The
// previous binding is restored simply by using the parent context again.
func WithCurrent(ctx context.Context, o *Ontology) context.Context {
	return context.WithValue(ctx, currentKey, o)
}

// CurrentOf returns the ontology bound in ctx, if any.
func CurrentOf(ctx context.Context) (*Ontology, bool) {
	o, ok := ctx.Value(currentKey).(*Ontology)
	return o, ok && o != nil
}

// Using runs fn with o bound as the current ontology.
func Using(ctx context.Context, o *Ontology, fn func(context.Context) error) error {
	return fn(WithCurrent(ctx, o))
}

// WithNamespace returns a context that resolves the implicit ontology through
// the default registered for namespace.
func WithNamespace(ctx context.Context, namespace string) context.Context {
	return context.WithValue(ctx, namespaceKey, namespace)
}

// NamespaceOf returns the namespace bound in ctx.
func NamespaceOf(ctx context.Context) string {
	ns, _ := ctx.Value(namespaceKey).(string)
	return ns
}
