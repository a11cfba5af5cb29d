package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/c360studio/semstreams/natsclient"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"
)

// BucketOntologies is the default KV bucket for ontology snapshots.
const BucketOntologies = "SEMFRAME_ONTOLOGIES"

// Snapshot is the persisted form of one ontology.
type Snapshot struct {
	IRI     string        `json:"iri"`
	Imports []string      `json:"imports,omitempty"`
	Axioms  []axiomRecord `json:"axioms"`
	SavedAt time.Time     `json:"saved_at"`
}

// Journal persists ontology snapshots in a NATS KV bucket.
type Journal struct {
	kv     *natsclient.KVStore
	bucket string
	logger *slog.Logger
}

// JournalOption configures a Journal.
type JournalOption func(*Journal)

// WithBucket overrides the KV bucket name.
func WithBucket(name string) JournalOption {
	return func(j *Journal) {
		j.bucket = name
	}
}

// WithJournalLogger sets the logger for the journal.
func WithJournalLogger(logger *slog.Logger) JournalOption {
	return func(j *Journal) {
		j.logger = logger
	}
}

// NewJournal creates a Journal, creating the KV bucket if it doesn't exist.
func NewJournal(ctx context.Context, nc *natsclient.Client, opts ...JournalOption) (*Journal, error) {
	j := &Journal{
		bucket: BucketOntologies,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(j)
	}

	bucket, err := nc.CreateKeyValueBucket(ctx, jetstream.KeyValueConfig{
		Bucket:      j.bucket,
		Description: "Semframe ontology snapshots",
		History:     5, // Keep last 5 revisions
	})
	if err != nil {
		return nil, fmt.Errorf("create %s bucket: %w", j.bucket, err)
	}
	j.kv = nc.NewKVStore(bucket)
	return j, nil
}

// SnapshotKey returns the KV key for an ontology IRI. IRIs contain characters
// NATS keys do not allow, so the key is a name-based UUID of the IRI.
func SnapshotKey(iri string) string {
	return "ontology." + uuid.NewSHA1(uuid.NameSpaceURL, []byte(iri)).String()
}

// Save writes a snapshot of the ontology's own axioms and imports.
func (j *Journal) Save(ctx context.Context, store Store, iri string) (uint64, error) {
	axioms, err := store.Axioms(ctx, iri)
	if err != nil {
		return 0, fmt.Errorf("read axioms: %w", err)
	}
	imports, err := store.Imports(ctx, iri)
	if err != nil {
		return 0, fmt.Errorf("read imports: %w", err)
	}

	snap := Snapshot{
		IRI:     iri,
		Imports: imports,
		Axioms:  make([]axiomRecord, 0, len(axioms)),
		SavedAt: time.Now(),
	}
	for _, ax := range axioms {
		rec, err := encodeAxiom(ax)
		if err != nil {
			return 0, err
		}
		snap.Axioms = append(snap.Axioms, rec)
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return 0, fmt.Errorf("marshal snapshot: %w", err)
	}

	rev, err := j.kv.Put(ctx, SnapshotKey(iri), data)
	if err != nil {
		return 0, fmt.Errorf("store snapshot: %w", err)
	}

	j.logger.Debug("Saved ontology snapshot",
		slog.String("iri", iri),
		slog.Int("axioms", len(snap.Axioms)),
		slog.Uint64("revision", rev))
	return rev, nil
}

// Get reads the latest snapshot for an IRI.
func (j *Journal) Get(ctx context.Context, iri string) (*Snapshot, error) {
	entry, err := j.kv.Get(ctx, SnapshotKey(iri))
	if err != nil {
		if errors.Is(err, natsclient.ErrKVKeyNotFound) {
			return nil, fmt.Errorf("%s: %w", iri, ErrSnapshotNotFound)
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(entry.Value, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// Load recreates the ontology in store from its latest snapshot. Imports
// that are missing from store are skipped with a warning.
func (j *Journal) Load(ctx context.Context, store Store, iri string) error {
	snap, err := j.Get(ctx, iri)
	if err != nil {
		return err
	}

	changes := make([]Change, 0, len(snap.Axioms))
	for _, rec := range snap.Axioms {
		ax, err := decodeAxiom(rec)
		if err != nil {
			return err
		}
		changes = append(changes, AddAxiom(ax))
	}

	if err := store.CreateOntology(ctx, iri); err != nil {
		return err
	}
	if err := store.Apply(ctx, iri, changes...); err != nil {
		return err
	}
	for _, imported := range snap.Imports {
		if err := store.AddImport(ctx, iri, imported); err != nil {
			j.logger.Warn("Skipping import from snapshot",
				slog.String("iri", iri),
				slog.String("import", imported),
				slog.String("error", err.Error()))
		}
	}

	j.logger.Debug("Loaded ontology snapshot", slog.String("iri", iri), slog.Int("axioms", len(changes)))
	return nil
}

// Delete removes the snapshot for an IRI.
func (j *Journal) Delete(ctx context.Context, iri string) error {
	if err := j.kv.Delete(ctx, SnapshotKey(iri)); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}
