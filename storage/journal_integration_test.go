//go:build integration

package storage

import (
	"context"
	"testing"

	"github.com/c360studio/semframe/owl"
	"github.com/c360studio/semstreams/natsclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournal_SaveAndLoad(t *testing.T) {
	tc := natsclient.NewTestClient(t, natsclient.WithJetStream(), natsclient.WithKV())
	ctx := context.Background()

	journal, err := NewJournal(ctx, tc.Client, WithBucket("SEMFRAME_TEST"))
	require.NoError(t, err)

	src := newStore(t)
	hasTopping := owl.ObjectProperty(ns + "hasTopping")
	require.NoError(t, src.Apply(ctx, ontoIRI,
		AddAxiom(owl.NewDeclaration(pizza)),
		AddAxiom(owl.NewDeclaration(hasTopping)),
		AddAxiom(owl.NewSubClassOf(pizza, owl.ObjectSomeValuesFrom{Property: hasTopping, Filler: topping})),
		AddAxiom(owl.NewAnnotationAssertion(owl.RDFSLabel, owl.IRI(pizza.IRI), owl.PlainLiteral("Pizza", "en"))),
	))

	rev, err := journal.Save(ctx, src, ontoIRI)
	require.NoError(t, err)
	assert.NotZero(t, rev)

	dst := NewMemStore()
	require.NoError(t, journal.Load(ctx, dst, ontoIRI))

	want, err := src.Axioms(ctx, ontoIRI)
	require.NoError(t, err)
	got, err := dst.Axioms(ctx, ontoIRI)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Key(), got[i].Key())
	}
}

func TestJournal_Missing(t *testing.T) {
	tc := natsclient.NewTestClient(t, natsclient.WithJetStream(), natsclient.WithKV())
	ctx := context.Background()

	journal, err := NewJournal(ctx, tc.Client)
	require.NoError(t, err)

	_, err = journal.Get(ctx, "http://example.org/never-saved")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	src := newStore(t)
	_, err = journal.Save(ctx, src, ontoIRI)
	require.NoError(t, err)
	require.NoError(t, journal.Delete(ctx, ontoIRI))

	_, err = journal.Get(ctx, ontoIRI)
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}
