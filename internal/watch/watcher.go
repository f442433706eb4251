// Package watch triggers corpus reindexing when guide files change on
// disk. Events are debounced: editors fire bursts of writes per save,
// and a reindex already diffs by content hash, so one callback per
// burst is enough.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Config configures the corpus watcher.
type Config struct {
	// Root is the corpus directory to watch, recursively.
	Root string
	// Debounce is how long to wait after the last event before firing.
	Debounce time.Duration
	// Logger for watch events. Nil means no logging.
	Logger *zap.Logger
}

// Watcher watches the corpus directory and fires a callback when any
// Markdown file changes.
type Watcher struct {
	cfg     Config
	watcher *fsnotify.Watcher
	logger  *zap.Logger

	mu    sync.Mutex
	dirty bool
}

// New creates a watcher for the corpus root.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 500 * time.Millisecond
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{cfg: cfg, watcher: fsw, logger: logger}, nil
}

// Start begins watching and invokes onChange (on the watcher goroutine)
// after each debounced burst of Markdown changes. It returns once the
// watches are registered; processing continues until ctx is done or
// Close is called.
func (w *Watcher) Start(ctx context.Context, onChange func(ctx context.Context)) error {
	if err := w.addWatchesRecursive(w.cfg.Root); err != nil {
		return err
	}

	go w.processEvents(ctx, onChange)

	w.logger.Info("corpus watcher started",
		zap.String("root", w.cfg.Root),
		zap.Duration("debounce", w.cfg.Debounce))
	return nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// addWatchesRecursive registers every directory under root, skipping
// hidden directories (including the .guidewright index dir).
func (w *Watcher) addWatchesRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(filepath.Base(path), ".") {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("failed to watch directory",
				zap.String("path", path), zap.Error(err))
		}
		return nil
	})
}

func (w *Watcher) processEvents(ctx context.Context, onChange func(ctx context.Context)) {
	ticker := time.NewTicker(w.cfg.Debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", zap.Error(err))

		case <-ticker.C:
			w.mu.Lock()
			fire := w.dirty
			w.dirty = false
			w.mu.Unlock()
			if fire {
				onChange(ctx)
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	// New subdirectories need their own watch.
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !strings.HasPrefix(filepath.Base(event.Name), ".") {
				if err := w.watcher.Add(event.Name); err != nil {
					w.logger.Warn("failed to watch new directory",
						zap.String("path", event.Name), zap.Error(err))
				}
			}
			return
		}
	}

	if !strings.EqualFold(filepath.Ext(event.Name), ".md") {
		return
	}

	w.mu.Lock()
	w.dirty = true
	w.mu.Unlock()

	w.logger.Debug("guide change detected",
		zap.String("path", event.Name),
		zap.String("op", event.Op.String()))
}
