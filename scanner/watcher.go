package scanner

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatcherConfig configures the file watcher.
type WatcherConfig struct {
	// Root is the directory tree to watch.
	Root string

	// Extensions restricts which file changes are reported (leading
	// dot). Empty means all files.
	Extensions []string

	// DebounceDelay is how long to wait for more changes before
	// emitting a batch.
	DebounceDelay time.Duration

	// Logger for watch events.
	Logger *slog.Logger
}

// Watcher watches a tree for source changes and emits debounced batches of
// root-relative paths. Consumers re-scan on every batch; the watcher does
// not try to classify changes itself.
type Watcher struct {
	config  WatcherConfig
	watcher *fsnotify.Watcher
	logger  *slog.Logger
	exts    map[string]bool

	pending map[string]bool

	events chan []string
	done   chan struct{}
}

// NewWatcher creates a new file watcher.
func NewWatcher(config WatcherConfig) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if config.DebounceDelay == 0 {
		config.DebounceDelay = 500 * time.Millisecond
	}

	exts := make(map[string]bool, len(config.Extensions))
	for _, e := range config.Extensions {
		exts[strings.ToLower(e)] = true
	}

	return &Watcher{
		config:  config,
		watcher: fsw,
		logger:  logger,
		exts:    exts,
		pending: make(map[string]bool),
		events:  make(chan []string, 16),
		done:    make(chan struct{}),
	}, nil
}

// Events returns the channel of debounced change batches.
func (w *Watcher) Events() <-chan []string {
	return w.events
}

// Start begins watching the tree for changes.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addWatchesRecursive(w.config.Root); err != nil {
		return err
	}

	go w.processEvents(ctx)

	w.logger.Info("file watcher started",
		"root", w.config.Root,
		"debounce", w.config.DebounceDelay)

	return nil
}

// Stop stops the watcher. The events channel is closed by the event loop,
// never here, so a flush in flight can not send on a closed channel.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.watcher.Close()
}

// addWatchesRecursive adds watches to all directories under root.
func (w *Watcher) addWatchesRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}

		base := filepath.Base(path)
		if path != root && (strings.HasPrefix(base, ".") || defaultSkipDirs[base]) {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("failed to watch directory",
				"path", path,
				"error", err)
		}
		return nil
	})
}

// processEvents handles fsnotify events with debouncing. It owns the events
// channel and closes it on the way out.
func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)

	ticker := time.NewTicker(w.config.DebounceDelay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.done:
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
			w.logger.Error("watcher error", "error", err)

		case <-ticker.C:
			w.flushPending()
		}
	}
}

// handleFSEvent records a single fsnotify event into the pending batch.
func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	path := event.Name

	// Newly created directories need their own watches.
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			w.handleNewDirectory(path)
			return
		}
	}

	ext := strings.ToLower(filepath.Ext(path))
	if len(w.exts) > 0 && !w.exts[ext] {
		return
	}

	rel, err := filepath.Rel(w.config.Root, path)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)

	w.pending[rel] = true

	w.logger.Debug("file change detected",
		"path", rel,
		"op", event.Op.String())
}

// handleNewDirectory adds a watch to a newly created directory.
func (w *Watcher) handleNewDirectory(path string) {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || defaultSkipDirs[base] {
		return
	}

	if err := w.watcher.Add(path); err != nil {
		w.logger.Warn("failed to watch new directory",
			"path", path,
			"error", err)
	}
}

// flushPending emits the accumulated batch.
func (w *Watcher) flushPending() {
	if len(w.pending) == 0 {
		return
	}

	batch := make([]string, 0, len(w.pending))
	for path := range w.pending {
		batch = append(batch, path)
	}
	sort.Strings(batch)
	w.pending = make(map[string]bool)

	select {
	case w.events <- batch:
	default:
		w.logger.Warn("event channel full, dropping batch", "size", len(batch))
	}
}
