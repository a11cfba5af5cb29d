package storage

import (
	"context"
	"testing"

	"github.com/c360studio/semframe/owl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	ontoIRI = "http://example.org/pizza"
	ns      = ontoIRI + "#"
)

var (
	pizza   = owl.Class(ns + "Pizza")
	food    = owl.Class(ns + "Food")
	topping = owl.Class(ns + "Topping")
)

func newStore(t *testing.T) *MemStore {
	t.Helper()
	s := NewMemStore()
	require.NoError(t, s.CreateOntology(context.Background(), ontoIRI))
	return s
}

func TestMemStore_Apply(t *testing.T) {
	ctx := context.Background()

	t.Run("adds are idempotent and ordered", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Apply(ctx, ontoIRI,
			AddAxiom(owl.NewDeclaration(pizza)),
			AddAxiom(owl.NewSubClassOf(pizza, food)),
			AddAxiom(owl.NewDeclaration(pizza)),
		))

		axioms, err := s.Axioms(ctx, ontoIRI)
		require.NoError(t, err)
		require.Len(t, axioms, 2)
		assert.Equal(t, owl.AxiomDeclaration, axioms[0].Type)
		assert.Equal(t, owl.AxiomSubClassOf, axioms[1].Type)
	})

	t.Run("rejected batch leaves store unchanged", func(t *testing.T) {
		s := newStore(t)
		err := s.Apply(ctx, ontoIRI,
			AddAxiom(owl.NewDeclaration(pizza)),
			AddAxiom(owl.NewDisjointClasses(pizza)),
		)
		require.Error(t, err)
		assert.True(t, IsChangeRejected(err))

		axioms, err := s.Axioms(ctx, ontoIRI)
		require.NoError(t, err)
		assert.Empty(t, axioms)
	})

	t.Run("unknown ontology is rejected", func(t *testing.T) {
		s := NewMemStore()
		err := s.Apply(ctx, "http://example.org/missing", AddAxiom(owl.NewDeclaration(pizza)))
		var rejected *ChangeRejectedError
		require.ErrorAs(t, err, &rejected)
		assert.ErrorIs(t, err, ErrOntologyNotFound)
	})

	t.Run("removing absent axiom is a no-op", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Apply(ctx, ontoIRI, RemoveAxiom(owl.NewDeclaration(pizza))))
	})
}

func TestMemStore_ReferencingAxioms(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.Apply(ctx, ontoIRI,
		AddAxiom(owl.NewDeclaration(pizza)),
		AddAxiom(owl.NewDeclaration(food)),
		AddAxiom(owl.NewSubClassOf(pizza, food)),
		AddAxiom(owl.NewAnnotationAssertion(owl.RDFSLabel, owl.IRI(pizza.IRI), owl.PlainLiteral("Pizza", "en"))),
	))

	refs, err := s.ReferencingAxioms(ctx, ontoIRI, pizza.IRI)
	require.NoError(t, err)
	assert.Len(t, refs, 3)

	refs, err = s.ReferencingAxioms(ctx, ontoIRI, food.IRI)
	require.NoError(t, err)
	assert.Len(t, refs, 2)
}

func TestMemStore_StructuralQueries(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.Apply(ctx, ontoIRI,
		AddAxiom(owl.NewSubClassOf(pizza, food)),
		AddAxiom(owl.NewSubClassOf(topping, food)),
		AddAxiom(owl.NewSubClassOf(pizza, owl.Union(topping, food))),
		AddAxiom(owl.NewDisjointClasses(pizza, topping)),
		AddAxiom(owl.NewEquivalentClasses(food, owl.Class(ns+"Comestible"))),
	))

	supers, err := s.DirectSupers(ctx, ontoIRI, pizza)
	require.NoError(t, err)
	assert.Equal(t, []owl.Entity{food}, supers, "anonymous superclasses are skipped")

	subs, err := s.DirectSubs(ctx, ontoIRI, food)
	require.NoError(t, err)
	assert.ElementsMatch(t, []owl.Entity{pizza, topping}, subs)

	disjoint, err := s.DisjointWith(ctx, ontoIRI, topping)
	require.NoError(t, err)
	assert.Equal(t, []owl.Entity{pizza}, disjoint)

	equiv, err := s.EquivalentTo(ctx, ontoIRI, food)
	require.NoError(t, err)
	assert.Equal(t, []owl.Entity{owl.Class(ns + "Comestible")}, equiv)

	none, err := s.DirectSupers(ctx, ontoIRI, owl.Individual(ns+"margherita"))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemStore_Imports(t *testing.T) {
	ctx := context.Background()
	const upper = "http://example.org/upper"
	thing := owl.Class(upper + "#Thing")

	s := newStore(t)
	require.NoError(t, s.CreateOntology(ctx, upper))
	require.NoError(t, s.Apply(ctx, upper, AddAxiom(owl.NewSubClassOf(food, thing))))
	require.NoError(t, s.AddImport(ctx, ontoIRI, upper))
	require.NoError(t, s.AddImport(ctx, upper, ontoIRI), "import cycles are tolerated")

	supers, err := s.DirectSupers(ctx, ontoIRI, food)
	require.NoError(t, err)
	assert.Equal(t, []owl.Entity{thing}, supers)

	own, err := s.Axioms(ctx, ontoIRI)
	require.NoError(t, err)
	assert.Empty(t, own, "Axioms does not include imports")

	require.NoError(t, s.RemoveOntology(ctx, upper))
	imports, err := s.Imports(ctx, ontoIRI)
	require.NoError(t, err)
	assert.Empty(t, imports)
}

func TestMemStore_RemoveHooks(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	var removed []string
	s.OnRemove(func(iri string) { removed = append(removed, iri) })

	require.NoError(t, s.CreateOntology(ctx, ontoIRI))
	assert.Equal(t, []string{ontoIRI}, removed, "replacement fires the hook")

	require.NoError(t, s.RemoveOntology(ctx, ontoIRI))
	assert.Equal(t, []string{ontoIRI, ontoIRI}, removed)
	assert.False(t, s.HasOntology(ontoIRI))

	err := s.RemoveOntology(ctx, ontoIRI)
	assert.ErrorIs(t, err, ErrOntologyNotFound)
}

func TestMemStore_CancelledContext(t *testing.T) {
	s := newStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.Apply(ctx, ontoIRI, AddAxiom(owl.NewDeclaration(pizza)))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCodec(t *testing.T) {
	hasTopping := owl.ObjectProperty(ns + "hasTopping")
	axioms := []owl.Axiom{
		owl.NewDeclaration(hasTopping),
		owl.NewSubClassOf(pizza, owl.ObjectSomeValuesFrom{Property: hasTopping, Filler: topping}),
		owl.NewEquivalentClasses(food, owl.ObjectIntersectionOf{Operands: []owl.ClassExpression{
			pizza, owl.ObjectComplementOf{Operand: topping},
		}}),
		owl.NewSubClassOf(pizza, owl.ObjectAllValuesFrom{Property: hasTopping, Filler: owl.Union(topping)}),
		owl.NewAnnotationAssertion(owl.RDFSComment, owl.IRI(pizza.IRI), owl.Literal{Value: "1", Datatype: "http://www.w3.org/2001/XMLSchema#int"}),
	}

	for _, ax := range axioms {
		t.Run(string(ax.Type), func(t *testing.T) {
			data, err := EncodeAxiom(ax)
			require.NoError(t, err)
			got, err := DecodeAxiom(data)
			require.NoError(t, err)
			assert.Equal(t, ax.Key(), got.Key())
		})
	}

	_, err := DecodeAxiom([]byte(`{"type":"SubClassOf","operands":[{"t":"bogus"}]}`))
	assert.Error(t, err)
}

func TestSnapshotKey(t *testing.T) {
	k1 := SnapshotKey(ontoIRI)
	assert.Equal(t, k1, SnapshotKey(ontoIRI))
	assert.NotEqual(t, k1, SnapshotKey("http://example.org/other"))
	assert.NotContains(t, k1, ":")
}
