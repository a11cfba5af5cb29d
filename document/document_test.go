package document

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/c360studio/semframe/collect"
	"github.com/c360studio/semframe/hierarchy"
	"github.com/c360studio/semframe/ontology"
	"github.com/c360studio/semframe/owl"
	"github.com/c360studio/semframe/storage"
	"github.com/c360studio/semstreams/vocabulary/bfo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pizzaIRI = "http://example.org/pizza"

const pizzaDoc = `
ontology: http://example.org/pizza
namespace: pizza
imports: [http://example.org/upper]
object_properties:
  - name: hasTopping
    domain: Pizza
    range: Topping
    characteristic: [inverse-functional]
classes:
  - name: Pizza
    subclass:
      - Food
      - some: {property: hasTopping, filler: Topping}
    label: {value: Pizza, lang: en}
    comment: null
  - name: Food
    subclass: "<` + bfo.IndependentContinuant + `>"
individuals:
  - name: Margherita
    type: Pizza
    fact:
      - {property: hasTopping, object: Mozzarella}
    annotation:
      - {property: "<http://www.w3.org/2000/01/rdf-schema#seeAlso>", value: "https://example.org/margherita"}
groups:
  - kind: subclasses
    super: Topping
    disjoint: true
    cover: true
    classes:
      - name: Cheese
      - name: Meat
  - kind: inverse
    object_properties:
      - name: partOf
      - name: hasPart
`

const upperDoc = `
ontology: http://example.org/upper
classes:
  - name: Thing
`

func writeDocs(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a-upper.yaml"), []byte(upperDoc), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "pizza.yaml"), []byte(pizzaDoc), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))
	return dir
}

func TestGlob(t *testing.T) {
	dir := writeDocs(t)

	paths, err := Glob([]string{filepath.Join(dir, "**", "*.yaml"), filepath.Join(dir, "a-upper.yaml")})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a-upper.yaml"),
		filepath.Join(dir, "nested", "pizza.yaml"),
	}, paths)

	_, err = Glob([]string{filepath.Join(dir, "missing.yaml")})
	assert.Error(t, err)
}

func TestBuildAll(t *testing.T) {
	ctx := context.Background()
	dir := writeDocs(t)

	docs, err := LoadAll([]string{filepath.Join(dir, "**", "*.yaml")})
	require.NoError(t, err)
	require.Len(t, docs, 2)

	m := ontology.NewManager(storage.NewMemStore())
	built, err := NewBuilder(m).BuildAll(ctx, docs)
	require.NoError(t, err)
	require.Len(t, built, 2)
	o := built[1]
	assert.Equal(t, pizzaIRI, o.IRI())

	ns := pizzaIRI + "#"
	pizza := owl.Class(ns + "Pizza")
	cheese := owl.Class(ns + "Cheese")
	topping := owl.Class(ns + "Topping")

	ok, err := hierarchy.IsAncestor(ctx, o, pizza, owl.Class(bfo.IndependentContinuant))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = hierarchy.IsDirectSuper(ctx, o, cheese, topping)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = hierarchy.Disjoint(ctx, o, cheese, owl.Class(ns+"Meat"))
	require.NoError(t, err)
	assert.True(t, ok)

	for _, ax := range []owl.Axiom{
		owl.NewAnnotationAssertion(owl.RDFSLabel, owl.IRI(pizza.IRI), owl.PlainLiteral("Pizza", "en")),
		owl.NewSubClassOf(pizza, owl.ObjectSomeValuesFrom{Property: owl.ObjectProperty(ns + "hasTopping"), Filler: topping}),
		owl.NewObjectPropertyAssertion(owl.ObjectProperty(ns+"hasTopping"), owl.Individual(ns+"Margherita"), owl.Individual(ns+"Mozzarella")),
		owl.NewAnnotationAssertion(owl.RDFSSeeAlso, owl.IRI(ns+"Margherita"), owl.Literal{Value: "https://example.org/margherita"}),
		owl.NewInverseObjectProperties(owl.ObjectProperty(ns+"partOf"), owl.ObjectProperty(ns+"hasPart")),
		owl.NewEquivalentClasses(topping, owl.Union(cheese, owl.Class(ns+"Meat"))),
	} {
		ok, err := o.Contains(ctx, ax)
		require.NoError(t, err)
		assert.True(t, ok, ax.Key())
	}

	def, ok := m.Default("pizza")
	require.True(t, ok)
	assert.Equal(t, pizzaIRI, def.IRI())
}

func TestBuild_Errors(t *testing.T) {
	ctx := context.Background()

	for name, src := range map[string]string{
		"no ontology":     "classes: [{name: A}]",
		"unknown frame":   "ontology: http://example.org/x\nclasses: [{name: A, bogus: B}]",
		"missing import":  "ontology: http://example.org/x\nimports: [http://example.org/none]",
		"bad policy":      "ontology: http://example.org/x\niri_policy: hash",
		"inverse arity":   "ontology: http://example.org/x\ngroups: [{kind: inverse, object_properties: [{name: p}]}]",
		"bad expression":  "ontology: http://example.org/x\nclasses: [{name: A, subclass: {exists: B}}]",
		"bad fact":        "ontology: http://example.org/x\nindividuals: [{name: a, fact: [p]}]",
		"class in domain": "ontology: http://example.org/x\nclasses: [{name: A, domain: B}]",
	} {
		t.Run(name, func(t *testing.T) {
			doc, err := Parse([]byte(src))
			require.NoError(t, err)
			_, err = NewBuilder(ontology.NewManager(storage.NewMemStore())).Build(ctx, doc)
			assert.Error(t, err)
		})
	}

	doc, err := Parse([]byte("ontology: http://example.org/x\ngroups: [{kind: inverse, object_properties: [{name: p}]}]"))
	require.NoError(t, err)
	_, err = NewBuilder(ontology.NewManager(storage.NewMemStore())).Build(ctx, doc)
	var arity *collect.InverseArityError
	assert.ErrorAs(t, err, &arity)
}

func TestParse_InvalidGroups(t *testing.T) {
	for _, src := range []string{
		"groups: [{kind: sideways}]",
		"groups: [{kind: subclasses, classes: [{name: A}]}]",
		"groups: [{kind: inverse, classes: [{name: A}]}]",
	} {
		_, err := Parse([]byte(src))
		assert.Error(t, err, src)
	}
}

func TestBuild_DefaultOntologyAndPolicy(t *testing.T) {
	ctx := context.Background()
	doc, err := Parse([]byte("classes: [{name: A, subclass: B}]"))
	require.NoError(t, err)

	o, err := NewBuilder(ontology.NewManager(storage.NewMemStore()),
		WithDefaultOntology("http://example.org/default"),
		WithDefaultPolicy(ontology.PolicySlash),
	).Build(ctx, doc)
	require.NoError(t, err)

	ok, err := o.Contains(ctx, owl.NewSubClassOf(owl.Class("http://example.org/default/A"), owl.Class("http://example.org/default/B")))
	require.NoError(t, err)
	assert.True(t, ok)
}
