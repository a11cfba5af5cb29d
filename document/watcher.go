package document

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// WatcherConfig configures the document watcher
type WatcherConfig struct {
	// Patterns are the document globs to watch
	Patterns []string

	// Debounce is how long to wait for more changes before emitting a batch
	Debounce time.Duration

	// Logger for logging events
	Logger *slog.Logger
}

// Watcher watches the directories under document globs and emits batches of
// changed document paths.
type Watcher struct {
	config  WatcherConfig
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op

	changes chan []string
}

// NewWatcher creates a new document watcher
func NewWatcher(config WatcherConfig) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if config.Debounce <= 0 {
		config.Debounce = 100 * time.Millisecond
	}

	return &Watcher{
		config:  config,
		watcher: fsw,
		logger:  logger,
		pending: make(map[string]fsnotify.Op),
		changes: make(chan []string, 16),
	}, nil
}

// Changes returns the channel of changed path batches. It is closed when the
// watcher stops.
func (w *Watcher) Changes() <-chan []string {
	return w.changes
}

// Start adds watches for every pattern root and begins processing events.
func (w *Watcher) Start(ctx context.Context) error {
	for _, root := range w.roots() {
		if err := w.addWatchesRecursive(root); err != nil {
			return err
		}
	}

	go w.processEvents(ctx)

	w.logger.Info("Document watcher started",
		slog.Any("patterns", w.config.Patterns),
		slog.Duration("debounce", w.config.Debounce))
	return nil
}

// Stop closes the underlying watcher.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

// roots returns the static directory prefix of each pattern.
func (w *Watcher) roots() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range w.config.Patterns {
		base, _ := doublestar.SplitPattern(filepath.ToSlash(p))
		base = filepath.FromSlash(base)
		if info, err := os.Stat(base); err == nil && !info.IsDir() {
			base = filepath.Dir(base)
		}
		if !seen[base] {
			seen[base] = true
			out = append(out, base)
		}
	}
	sort.Strings(out)
	return out
}

func (w *Watcher) addWatchesRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("Failed to watch directory",
				slog.String("path", path),
				slog.String("error", err.Error()))
		}
		return nil
	})
}

// matches reports whether path is covered by one of the patterns.
func (w *Watcher) matches(path string) bool {
	for _, p := range w.config.Patterns {
		if ok, _ := doublestar.PathMatch(p, path); ok {
			return true
		}
	}
	return false
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.changes)

	ticker := time.NewTicker(w.config.Debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", slog.String("error", err.Error()))

		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	path := event.Name

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := w.addWatchesRecursive(path); err != nil {
				w.logger.Warn("Failed to watch new directory",
					slog.String("path", path),
					slog.String("error", err.Error()))
			}
			return
		}
	}
	if !w.matches(path) {
		return
	}

	w.pendingMu.Lock()
	w.pending[path] = event.Op
	w.pendingMu.Unlock()

	w.logger.Debug("Document change detected",
		slog.String("path", path),
		slog.String("op", event.Op.String()))
}

// flushPending emits the accumulated paths as one sorted batch.
func (w *Watcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	batch := make([]string, 0, len(w.pending))
	for path := range w.pending {
		batch = append(batch, path)
	}
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	sort.Strings(batch)
	select {
	case w.changes <- batch:
	case <-ctx.Done():
	}
}
