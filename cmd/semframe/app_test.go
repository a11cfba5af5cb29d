package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/c360studio/semframe/config"
	"github.com/c360studio/semframe/owl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const animalsDoc = `
ontology: http://example.org/animals
classes:
  - name: Animal
  - name: Mammal
    subclass: Animal
  - name: Dog
    subclass: Mammal
    label: Dog
`

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestApp(t *testing.T, modify func(*config.Config)) *App {
	t.Helper()
	cfg := config.DefaultConfig()
	if modify != nil {
		modify(cfg)
	}
	app, err := NewApp(cfg, nil)
	require.NoError(t, err)
	return app
}

func TestApp_CompileKeys(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "animals.yaml", animalsDoc)
	ctx := context.Background()

	app := newTestApp(t, nil)
	built, err := app.Compile(ctx, []string{filepath.Join(dir, "*.yaml")})
	require.NoError(t, err)
	require.Len(t, built, 1)

	var out bytes.Buffer
	require.NoError(t, app.Render(ctx, &out, built, FormatKey))

	text := out.String()
	assert.True(t, strings.HasPrefix(text, "# <http://example.org/animals>\n"))
	dog := owl.Class("http://example.org/animals#Dog")
	mammal := owl.Class("http://example.org/animals#Mammal")
	assert.Contains(t, text, owl.NewSubClassOf(dog, mammal).Key())
	assert.Contains(t, text, owl.NewDeclaration(dog).Key())
}

func TestApp_CompileIsFresh(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "animals.yaml", animalsDoc)
	ctx := context.Background()

	app := newTestApp(t, nil)
	_, err := app.Compile(ctx, []string{path})
	require.NoError(t, err)

	writeDoc(t, dir, "animals.yaml", "ontology: http://example.org/animals\nclasses: [{name: Cat}]\n")
	built, err := app.Compile(ctx, []string{path})
	require.NoError(t, err)

	axioms, err := built[0].Axioms(ctx)
	require.NoError(t, err)
	assert.Len(t, axioms, 1)
}

func TestApp_RenderRDF(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "animals.yaml", animalsDoc)
	ctx := context.Background()

	app := newTestApp(t, nil)
	built, err := app.Compile(ctx, []string{filepath.Join(dir, "animals.yaml")})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, app.Render(ctx, &out, built, FormatNTriples))
	assert.Contains(t, out.String(), "http://example.org/animals#Dog")

	err = app.Render(ctx, &out, built, "rdfxml")
	assert.Error(t, err)
}

func TestApp_Hierarchy(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "animals.yaml", animalsDoc)
	ctx := context.Background()

	app := newTestApp(t, nil)
	built, err := app.Compile(ctx, []string{path})
	require.NoError(t, err)

	ancestors, err := app.Hierarchy(ctx, built, "Dog", false)
	require.NoError(t, err)
	assert.Equal(t, []owl.Entity{
		owl.Class("http://example.org/animals#Animal"),
		owl.Class("http://example.org/animals#Mammal"),
	}, ancestors)

	descendants, err := app.Hierarchy(ctx, built, "<http://example.org/animals#Animal>", true)
	require.NoError(t, err)
	assert.Equal(t, []owl.Entity{
		owl.Class("http://example.org/animals#Dog"),
		owl.Class("http://example.org/animals#Mammal"),
	}, descendants)

	_, err = app.Hierarchy(ctx, built, "", false)
	assert.Error(t, err)
}

func TestApp_ConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "plain.yaml", "classes: [{name: A, subclass: B}]\n")
	ctx := context.Background()

	app := newTestApp(t, func(cfg *config.Config) {
		cfg.Ontology.IRI = "http://example.org/plain"
		cfg.Ontology.Namespace = "plain"
		cfg.Ontology.IRIPolicy = "slash"
		cfg.Documents.Root = dir
		cfg.Documents.Globs = []string{"*.yaml"}
		cfg.Metrics.Enabled = true
	})
	built, err := app.Compile(ctx, nil)
	require.NoError(t, err)
	require.Len(t, built, 1)

	ok, err := built[0].Contains(ctx, owl.NewSubClassOf(
		owl.Class("http://example.org/plain/A"),
		owl.Class("http://example.org/plain/B")))
	require.NoError(t, err)
	assert.True(t, ok)

	def, ok := app.Manager().Default("plain")
	require.True(t, ok)
	assert.Equal(t, "http://example.org/plain", def.IRI())
	assert.NotNil(t, app.registry)
}

func TestApp_CompileErrors(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	app := newTestApp(t, nil)

	_, err := app.Compile(ctx, []string{filepath.Join(dir, "*.yaml")})
	assert.Error(t, err, "no documents")

	path := writeDoc(t, dir, "bad.yaml", "ontology: http://example.org/bad\nclasses: [{name: A, bogus: B}]\n")
	_, err = app.Compile(ctx, []string{path})
	assert.Error(t, err)
}

func TestApp_SnapshotDisabled(t *testing.T) {
	app := newTestApp(t, nil)
	assert.NoError(t, app.Snapshot(context.Background(), nil))
}
