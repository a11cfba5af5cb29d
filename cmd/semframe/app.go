package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/c360studio/semframe/config"
	"github.com/c360studio/semframe/document"
	"github.com/c360studio/semframe/hierarchy"
	"github.com/c360studio/semframe/ontology"
	"github.com/c360studio/semframe/owl"
	"github.com/c360studio/semframe/resolve"
	"github.com/c360studio/semframe/storage"
	"github.com/c360studio/semstreams/message"
	"github.com/c360studio/semstreams/metric"
	"github.com/c360studio/semstreams/natsclient"
	ssexport "github.com/c360studio/semstreams/vocabulary/export"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Output formats accepted by compile and watch.
const (
	FormatKey      = "key"
	FormatTurtle   = "turtle"
	FormatNTriples = "ntriples"
	FormatJSONLD   = "jsonld"
)

// App wires configuration, the ontology manager and the optional journal.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	registry *metric.MetricsRegistry
	metrics  *ontology.Metrics

	store *storage.MemStore
	mgr   *ontology.Manager

	openJournal func(ctx context.Context) (journal, func(), error)
}

// journal is the part of storage.Journal the CLI uses.
type journal interface {
	Save(ctx context.Context, store storage.Store, iri string) (uint64, error)
	Get(ctx context.Context, iri string) (*storage.Snapshot, error)
	Load(ctx context.Context, store storage.Store, iri string) error
	Delete(ctx context.Context, iri string) error
}

// NewApp creates a new application instance.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	app := &App{cfg: cfg, logger: logger}
	app.openJournal = app.openNATSJournal

	if cfg.Metrics.Enabled {
		app.registry = metric.NewMetricsRegistry()
		m, err := ontology.NewMetrics(app.registry)
		if err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
		app.metrics = m
	}

	app.reset()
	return app, nil
}

// Manager returns the manager holding the most recent compilation.
func (a *App) Manager() *ontology.Manager { return a.mgr }

// reset replaces the store and manager so every compilation starts empty.
// Metrics carry over.
func (a *App) reset() {
	a.store = storage.NewMemStore(storage.WithMemStoreLogger(a.logger))
	opts := []ontology.ManagerOption{ontology.WithLogger(a.logger)}
	if a.metrics != nil {
		opts = append(opts, ontology.WithMetrics(a.metrics))
	}
	a.mgr = ontology.NewManager(a.store, opts...)
}

// patterns returns the globs to compile: args if given, else the configured
// document globs.
func (a *App) patterns(args []string) []string {
	if len(args) > 0 {
		return args
	}
	return a.cfg.DocumentPatterns()
}

// Compile builds the documents matched by globs into fresh ontologies, in
// path order.
func (a *App) Compile(ctx context.Context, globs []string) ([]*ontology.Ontology, error) {
	a.reset()

	docs, err := document.LoadAll(a.patterns(globs))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no documents match %v", a.patterns(globs))
	}

	builder := document.NewBuilder(a.mgr,
		document.WithLogger(a.logger),
		document.WithDefaultOntology(a.cfg.Ontology.IRI),
		document.WithDefaultPolicy(a.cfg.Policy()),
	)
	built, err := builder.BuildAll(ctx, docs)
	if err != nil {
		return nil, err
	}

	if ns := a.cfg.Ontology.Namespace; ns != "" {
		a.mgr.Register(ns, built[len(built)-1])
	}

	a.logger.Info("Compiled documents",
		slog.Int("documents", len(docs)),
		slog.Int("ontologies", len(built)))
	return built, nil
}

// Render writes the axioms of the built ontologies in the given format.
func (a *App) Render(ctx context.Context, w io.Writer, built []*ontology.Ontology, format string) error {
	switch strings.ToLower(format) {
	case "", FormatKey:
		return renderKeys(ctx, w, built)
	case FormatTurtle:
		return renderRDF(ctx, w, built, ssexport.Turtle)
	case FormatNTriples:
		return renderRDF(ctx, w, built, ssexport.NTriples)
	case FormatJSONLD:
		return renderRDF(ctx, w, built, ssexport.JSONLD)
	default:
		return fmt.Errorf("unsupported format: %s (valid: key, turtle, ntriples, jsonld)", format)
	}
}

func renderKeys(ctx context.Context, w io.Writer, built []*ontology.Ontology) error {
	for _, o := range built {
		axioms, err := o.Axioms(ctx)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "# <%s>\n", o.IRI()); err != nil {
			return err
		}
		for _, ax := range axioms {
			if _, err := fmt.Fprintln(w, ax.Key()); err != nil {
				return err
			}
		}
	}
	return nil
}

// renderRDF serializes every built ontology as one graph, based at the last
// ontology's IRI.
func renderRDF(ctx context.Context, w io.Writer, built []*ontology.Ontology, format ssexport.Format) error {
	if len(built) == 0 {
		return nil
	}
	var triples []message.Triple
	for _, o := range built {
		axioms, err := o.Axioms(ctx)
		if err != nil {
			return err
		}
		for _, ax := range axioms {
			triples = append(triples, ax.Triples()...)
		}
	}

	out, err := ssexport.SerializeToString(triples, format,
		ssexport.WithBaseIRI(built[len(built)-1].IRI()))
	if err != nil {
		return fmt.Errorf("serialize rdf: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

// Hierarchy resolves class in the last built ontology and returns its
// ancestors, or its descendants when descendants is set. The class is a
// local name or a full IRI in angle brackets.
func (a *App) Hierarchy(ctx context.Context, built []*ontology.Ontology, class string, descendants bool) ([]owl.Entity, error) {
	if len(built) == 0 {
		return nil, fmt.Errorf("no ontology to query")
	}
	o := built[len(built)-1]

	var ref any = class
	if strings.HasPrefix(class, "<") && strings.HasSuffix(class, ">") {
		ref = owl.IRI(strings.TrimSuffix(strings.TrimPrefix(class, "<"), ">"))
	}
	e, err := resolve.New(o).Resolve(ctx, ref, owl.KindClass)
	if err != nil {
		return nil, err
	}

	if descendants {
		return hierarchy.Descendants(ctx, o, e)
	}
	return hierarchy.Ancestors(ctx, o, e)
}

// Snapshot saves every built ontology to the journal. It does nothing when
// no NATS URL is configured.
func (a *App) Snapshot(ctx context.Context, built []*ontology.Ontology) error {
	if a.cfg.NATS.URL == "" {
		return nil
	}
	return a.withJournal(ctx, func(ctx context.Context, j journal) error {
		for _, o := range built {
			rev, err := j.Save(ctx, a.store, o.IRI())
			if err != nil {
				return fmt.Errorf("snapshot %s: %w", o.IRI(), err)
			}
			a.logger.Info("Saved ontology snapshot",
				slog.String("ontology", o.IRI()),
				slog.Uint64("revision", rev))
		}
		return nil
	})
}

// Restore loads the ontology saved under iri into a fresh store, loading its
// imports first. The requested ontology is last in the returned list.
func (a *App) Restore(ctx context.Context, iri string) ([]*ontology.Ontology, error) {
	if err := a.requireJournal(); err != nil {
		return nil, err
	}
	a.reset()

	var restored []*ontology.Ontology
	err := a.withJournal(ctx, func(ctx context.Context, j journal) error {
		return a.restore(ctx, j, iri, make(map[string]bool), &restored)
	})
	if err != nil {
		return nil, err
	}
	return restored, nil
}

func (a *App) restore(ctx context.Context, j journal, iri string, visited map[string]bool, out *[]*ontology.Ontology) error {
	if visited[iri] {
		return nil
	}
	visited[iri] = true

	snap, err := j.Get(ctx, iri)
	if err != nil {
		return err
	}
	for _, imported := range snap.Imports {
		if err := a.restore(ctx, j, imported, visited, out); err != nil {
			return fmt.Errorf("import %s: %w", imported, err)
		}
	}
	if err := j.Load(ctx, a.store, iri); err != nil {
		return err
	}

	o, err := a.mgr.Get(iri)
	if err != nil {
		return err
	}
	*out = append(*out, o)
	a.logger.Info("Restored ontology", slog.String("ontology", iri))
	return nil
}

// Forget deletes the snapshot saved under iri.
func (a *App) Forget(ctx context.Context, iri string) error {
	if err := a.requireJournal(); err != nil {
		return err
	}
	return a.withJournal(ctx, func(ctx context.Context, j journal) error {
		return j.Delete(ctx, iri)
	})
}

func (a *App) requireJournal() error {
	if a.cfg.NATS.URL == "" {
		return fmt.Errorf("the journal needs a NATS URL (--nats, NATS_URL or nats.url)")
	}
	return nil
}

// withJournal opens the journal for the configured timeout and runs fn.
func (a *App) withJournal(ctx context.Context, fn func(context.Context, journal) error) error {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.NATS.Timeout)
	defer cancel()

	j, closeJournal, err := a.openJournal(ctx)
	if err != nil {
		return err
	}
	defer closeJournal()
	return fn(ctx, j)
}

func (a *App) openNATSJournal(ctx context.Context) (journal, func(), error) {
	nc, err := connectToNATS(ctx, a.cfg.NATS.URL, a.logger)
	if err != nil {
		return nil, nil, err
	}
	closeClient := func() { _ = nc.Close(context.Background()) }

	j, err := storage.NewJournal(ctx, nc,
		storage.WithBucket(a.cfg.NATS.Bucket),
		storage.WithJournalLogger(a.logger))
	if err != nil {
		closeClient()
		return nil, nil, err
	}
	return j, closeClient, nil
}

// Watch compiles once, then recompiles and re-renders whenever a matching
// document changes. Build errors are logged and watching continues.
func (a *App) Watch(ctx context.Context, w io.Writer, globs []string, format string) error {
	if a.registry != nil {
		stop := a.serveMetrics()
		defer stop()
	}

	rebuild := func() {
		built, err := a.Compile(ctx, globs)
		if err == nil {
			err = a.Render(ctx, w, built, format)
		}
		if err == nil {
			err = a.Snapshot(ctx, built)
		}
		if err != nil {
			a.logger.Error("Compilation failed", slog.String("error", err.Error()))
		}
	}
	rebuild()

	watcher, err := document.NewWatcher(document.WatcherConfig{
		Patterns: a.patterns(globs),
		Debounce: a.cfg.Documents.Debounce,
		Logger:   a.logger,
	})
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Stop()

	if err := watcher.Start(ctx); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}

	for batch := range watcher.Changes() {
		a.logger.Info("Documents changed", slog.Any("paths", batch))
		rebuild()
	}
	return nil
}

// serveMetrics exposes the registry on the configured address until the
// returned stop function is called.
func (a *App) serveMetrics() func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.registry.PrometheusRegistry(), promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              a.cfg.Metrics.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("Metrics server failed", slog.String("error", err.Error()))
		}
	}()
	a.logger.Info("Serving metrics", slog.String("addr", srv.Addr))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func connectToNATS(ctx context.Context, url string, logger *slog.Logger) (*natsclient.Client, error) {
	logger.Info("Connecting to NATS", slog.String("url", url))

	client, err := natsclient.NewClient(url,
		natsclient.WithName(appName),
		natsclient.WithMaxReconnects(-1),
		natsclient.WithReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("create NATS client: %w", err)
	}

	if err := client.Connect(ctx); err != nil {
		return nil, wrapNATSError(err, url)
	}
	if err := client.WaitForConnection(ctx); err != nil {
		return nil, wrapNATSError(err, url)
	}
	return client, nil
}

// wrapNATSError provides guidance when the NATS connection fails.
func wrapNATSError(err error, url string) error {
	errStr := err.Error()
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no servers available") ||
		strings.Contains(errStr, "timeout") {
		return fmt.Errorf(`NATS connection failed: %w

NATS is not running at %s.

Start one with:
  docker run -p 4222:4222 nats -js

or drop --nats to compile without the journal.`, err, url)
	}
	return fmt.Errorf("NATS connection failed: %w", err)
}
