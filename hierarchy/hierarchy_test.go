package hierarchy

import (
	"context"
	"testing"

	"github.com/c360studio/semframe/ontology"
	"github.com/c360studio/semframe/owl"
	"github.com/c360studio/semframe/storage"
	"github.com/c360studio/semstreams/vocabulary/bfo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	pizzaIRI = "http://example.org/pizza"
	ns       = pizzaIRI + "#"
)

var (
	classA = owl.Class(ns + "A")
	classB = owl.Class(ns + "B")
	classC = owl.Class(ns + "C")
	classD = owl.Class(ns + "D")
)

func newOntology(t *testing.T, axioms ...owl.Axiom) *ontology.Ontology {
	t.Helper()
	o, err := ontology.NewManager(storage.NewMemStore()).Create(context.Background(), pizzaIRI)
	require.NoError(t, err)
	_, err = o.AddAll(context.Background(), axioms)
	require.NoError(t, err)
	return o
}

func TestClosure_Chain(t *testing.T) {
	ctx := context.Background()
	o := newOntology(t,
		owl.NewSubClassOf(classA, classB),
		owl.NewSubClassOf(classB, classC),
		owl.NewSubClassOf(classD, classB),
	)

	ancestors, err := Ancestors(ctx, o, classA)
	require.NoError(t, err)
	assert.Equal(t, []owl.Entity{classB, classC}, ancestors)

	ok, err := IsAncestor(ctx, o, classA, classC)
	require.NoError(t, err)
	assert.True(t, ok)

	direct, err := IsDirectSuper(ctx, o, classA, classC)
	require.NoError(t, err)
	assert.False(t, direct, "C is only an indirect super")

	descendants, err := Descendants(ctx, o, classC)
	require.NoError(t, err)
	assert.Equal(t, []owl.Entity{classA, classB, classD}, descendants)

	ok, err = IsDescendant(ctx, o, classC, classD)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = IsAncestor(ctx, o, classC, classA)
	require.NoError(t, err)
	assert.False(t, ok)

	subs, err := DirectSubs(ctx, o, classB)
	require.NoError(t, err)
	assert.Equal(t, []owl.Entity{classA, classD}, subs)
}

func TestClosure_Cycle(t *testing.T) {
	ctx := context.Background()
	o := newOntology(t,
		owl.NewSubClassOf(classA, classB),
		owl.NewSubClassOf(classB, classA),
	)

	ancestors, err := Ancestors(ctx, o, classA)
	require.NoError(t, err)
	assert.Equal(t, []owl.Entity{classA, classB}, ancestors)

	descendants, err := Descendants(ctx, o, classB)
	require.NoError(t, err)
	assert.Equal(t, []owl.Entity{classA, classB}, descendants)
}

func TestClosure_Properties(t *testing.T) {
	ctx := context.Background()
	hasPart := owl.ObjectProperty(bfo.HasPart)
	hasTopping := owl.ObjectProperty(ns + "hasTopping")
	hasCheese := owl.ObjectProperty(ns + "hasCheese")
	o := newOntology(t,
		owl.NewSubObjectPropertyOf(hasTopping, hasPart),
		owl.NewSubObjectPropertyOf(hasCheese, hasTopping),
	)

	ok, err := IsAncestor(ctx, o, hasCheese, hasPart)
	require.NoError(t, err)
	assert.True(t, ok)

	none, err := Ancestors(ctx, o, owl.Individual(ns+"margherita"))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestClosure_AnonymousSupersIgnored(t *testing.T) {
	ctx := context.Background()
	hasTopping := owl.ObjectProperty(ns + "hasTopping")
	o := newOntology(t,
		owl.NewSubClassOf(classA, owl.ObjectSomeValuesFrom{Property: hasTopping, Filler: classB}),
	)

	ancestors, err := Ancestors(ctx, o, classA)
	require.NoError(t, err)
	assert.Empty(t, ancestors)
}

func TestDisjointEquivalent(t *testing.T) {
	ctx := context.Background()
	x := owl.Individual(ns + "x")
	y := owl.Individual(ns + "y")
	o := newOntology(t,
		owl.NewSubClassOf(classA, classB),
		owl.NewDisjointClasses(classB, classC),
		owl.NewEquivalentClasses(classC, classD),
		owl.NewDifferentIndividuals(x, y),
	)

	ok, err := Disjoint(ctx, o, classC, classB)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Disjoint(ctx, o, classA, classC)
	require.NoError(t, err)
	assert.False(t, ok, "disjointness is not inherited")

	ok, err = Equivalent(ctx, o, classD, classC)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Disjoint(ctx, o, x, y)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestClosure_Imports(t *testing.T) {
	ctx := context.Background()
	m := ontology.NewManager(storage.NewMemStore())

	upper, err := m.Create(ctx, "http://example.org/upper")
	require.NoError(t, err)
	process := owl.Class(bfo.Process)
	_, err = upper.Add(ctx, owl.NewSubClassOf(classB, process))
	require.NoError(t, err)

	o, err := m.Create(ctx, pizzaIRI)
	require.NoError(t, err)
	_, err = o.Add(ctx, owl.NewSubClassOf(classA, classB))
	require.NoError(t, err)
	require.NoError(t, m.Import(ctx, o, upper))

	ok, err := IsAncestor(ctx, o, classA, process)
	require.NoError(t, err)
	assert.True(t, ok)
}
