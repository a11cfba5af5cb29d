package resolve

import (
	"context"
	"errors"
	"testing"

	"github.com/c360studio/semframe/ontology"
	"github.com/c360studio/semframe/owl"
	"github.com/c360studio/semframe/storage"
	errs "github.com/c360studio/semstreams/pkg/errs"
	"github.com/c360studio/semstreams/vocabulary/bfo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pizzaIRI = "http://example.org/pizza"

func newResolver(t *testing.T, opts ...ontology.Option) *Resolver {
	t.Helper()
	m := ontology.NewManager(storage.NewMemStore())
	o, err := m.Create(context.Background(), pizzaIRI, opts...)
	require.NoError(t, err)
	return New(o)
}

func TestResolve_Idempotent(t *testing.T) {
	ctx := context.Background()
	r := newResolver(t)

	for _, kind := range owl.Kinds {
		t.Run(kind.String(), func(t *testing.T) {
			e, err := r.Resolve(ctx, "Thing", kind)
			require.NoError(t, err)
			assert.Equal(t, kind, e.Kind)
			assert.Equal(t, pizzaIRI+"#Thing", e.IRI)

			again, err := r.Resolve(ctx, e, kind)
			require.NoError(t, err)
			assert.Equal(t, e, again)

			byName, err := r.Resolve(ctx, owl.Name("Thing"), kind)
			require.NoError(t, err)
			assert.Equal(t, e, byName)
		})
	}
}

func TestResolve_Producer(t *testing.T) {
	ctx := context.Background()
	r := newResolver(t)

	var later owl.Entity
	forward := owl.Producer(func() (owl.Ref, error) { return later, nil })
	later = owl.Class(pizzaIRI + "#Later")

	e, err := r.Resolve(ctx, forward, owl.KindClass)
	require.NoError(t, err)
	assert.Equal(t, later, e)

	nested := owl.Producer(func() (owl.Ref, error) {
		return owl.Producer(func() (owl.Ref, error) { return owl.Name("Deep"), nil }), nil
	})
	e, err = r.Resolve(ctx, nested, owl.KindIndividual)
	require.NoError(t, err)
	assert.Equal(t, owl.Individual(pizzaIRI+"#Deep"), e)

	boom := errors.New("boom")
	_, err = r.Resolve(ctx, owl.Producer(func() (owl.Ref, error) { return nil, boom }), owl.KindClass)
	assert.ErrorIs(t, err, boom)

	var loop owl.Producer
	loop = func() (owl.Ref, error) { return loop, nil }
	_, err = r.Resolve(ctx, loop, owl.KindClass)
	assert.True(t, IsInvalidReference(err))
}

func TestResolve_Invalid(t *testing.T) {
	ctx := context.Background()
	r := newResolver(t)

	for _, tc := range []struct {
		name string
		ref  any
		kind owl.Kind
	}{
		{"wrong kind", owl.ObjectProperty(pizzaIRI + "#hasTopping"), owl.KindClass},
		{"number", 42, owl.KindClass},
		{"nil", nil, owl.KindIndividual},
		{"empty name", "", owl.KindClass},
		{"relative iri", owl.IRI("Pizza"), owl.KindClass},
		{"nil producer result", owl.Producer(func() (owl.Ref, error) { return nil, nil }), owl.KindClass},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := r.Resolve(ctx, tc.ref, tc.kind)
			require.Error(t, err)

			var invalid *InvalidReferenceError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tc.kind, invalid.Expected)
			assert.True(t, errs.IsInvalid(err))
		})
	}
}

func TestResolve_NamingPolicy(t *testing.T) {
	ctx := context.Background()
	opt, err := ontology.WithIRIPolicy(ontology.PolicySlash, pizzaIRI)
	require.NoError(t, err)
	r := newResolver(t, opt)

	e, err := r.Resolve(ctx, "Margherita", owl.KindIndividual)
	require.NoError(t, err)
	assert.Equal(t, pizzaIRI+"/Margherita", e.IRI)

	full, err := r.Resolve(ctx, owl.IRI(bfo.Process), owl.KindClass)
	require.NoError(t, err)
	assert.Equal(t, bfo.Process, full.IRI, "full IRIs bypass the naming policy")
}

func TestResolveExpression(t *testing.T) {
	ctx := context.Background()
	r := newResolver(t)

	union := owl.Union(owl.Class(pizzaIRI+"#A"), owl.Class(pizzaIRI+"#B"))
	ce, err := r.ResolveExpression(ctx, union)
	require.NoError(t, err)
	assert.Equal(t, union.String(), ce.String())

	ce, err = r.ResolveExpression(ctx, "Pizza")
	require.NoError(t, err)
	assert.Equal(t, owl.Class(pizzaIRI+"#Pizza"), ce)

	hasTopping := owl.ObjectProperty(pizzaIRI + "#hasTopping")
	for name, ref := range map[string]any{
		"individual":          owl.Individual(pizzaIRI + "#x"),
		"object property":     hasTopping,
		"individual in union": owl.ObjectUnionOf{Operands: []owl.ClassExpression{owl.Class(pizzaIRI + "#A"), owl.Individual(pizzaIRI + "#x")}},
		"class as property":   owl.ObjectSomeValuesFrom{Property: owl.Class(pizzaIRI + "#A"), Filler: owl.Class(pizzaIRI + "#B")},
		"missing filler":      owl.ObjectAllValuesFrom{Property: hasTopping},
		"empty intersection":  owl.ObjectIntersectionOf{},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := r.ResolveExpression(ctx, ref)
			assert.True(t, IsInvalidReference(err), "got %v", err)
		})
	}
}

func TestResolveAll(t *testing.T) {
	r := newResolver(t)
	got, err := r.ResolveAll(context.Background(), []any{"A", owl.Name("B")}, owl.KindClass)
	require.NoError(t, err)
	assert.Equal(t, []owl.Entity{owl.Class(pizzaIRI + "#A"), owl.Class(pizzaIRI + "#B")}, got)
}
