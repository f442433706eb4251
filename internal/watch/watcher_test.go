package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/minewright/guidewright/internal/watch"
)

// startWatcher wires a watcher to a signal channel for assertions.
func startWatcher(t *testing.T, root string) <-chan struct{} {
	t.Helper()
	w, err := watch.New(watch.Config{Root: root, Debounce: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { w.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	changed := make(chan struct{}, 10)
	if err := w.Start(ctx, func(context.Context) {
		changed <- struct{}{}
	}); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	return changed
}

func waitForChange(t *testing.T, changed <-chan struct{}) {
	t.Helper()
	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change callback")
	}
}

func TestWatcher_FiresOnGuideWrite(t *testing.T) {
	root := t.TempDir()
	changed := startWatcher(t, root)

	path := filepath.Join(root, "BEE_HOWTO.md")
	if err := os.WriteFile(path, []byte("# Bees\n"), 0o644); err != nil {
		t.Fatalf("write guide: %v", err)
	}

	waitForChange(t, changed)
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	root := t.TempDir()
	changed := startWatcher(t, root)

	// A burst of writes within the debounce window.
	path := filepath.Join(root, "BEE_HOWTO.md")
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte("# Bees\n"), 0o644); err != nil {
			t.Fatalf("write guide: %v", err)
		}
	}

	waitForChange(t, changed)

	// The burst must not keep firing once the window has drained.
	time.Sleep(200 * time.Millisecond)
	drained := len(changed)
	time.Sleep(200 * time.Millisecond)
	if len(changed) != drained {
		t.Error("callback fired again with no new filesystem activity")
	}
}

func TestWatcher_IgnoresNonMarkdown(t *testing.T) {
	root := t.TempDir()
	changed := startWatcher(t, root)

	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("scratch"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	select {
	case <-changed:
		t.Error("callback fired for a non-Markdown file")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_WatchesNewSubdirectories(t *testing.T) {
	root := t.TempDir()
	changed := startWatcher(t, root)

	sub := filepath.Join(root, "howto")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	// Give the watcher a moment to register the new directory.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(sub, "DROWNED_FARM.md"), []byte("# Drowned\n"), 0o644); err != nil {
		t.Fatalf("write guide: %v", err)
	}

	waitForChange(t, changed)
}
