package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sculpt/internal/adapters/watcher"
	"go.trai.ch/sculpt/internal/core/ports"
	"go.trai.ch/sculpt/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func nextEvent(t *testing.T, events <-chan ports.WatchEvent, path string) ports.WatchEvent {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				t.Fatal("event stream closed")
			}
			if ev.Path == path {
				return ev
			}
		case <-deadline:
			t.Fatalf("no event for %s", path)
		}
	}
}

func startWatcher(t *testing.T, root string, ignore []string, skip ...string) <-chan ports.WatchEvent {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Error(gomock.Any()).AnyTimes()

	w := watcher.NewWatcher(logger, ignore, skip...)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx, root))
	t.Cleanup(func() {
		cancel()
		_ = w.Stop()
	})

	events := make(chan ports.WatchEvent, 100)
	go func() {
		defer close(events)
		for ev := range w.Events() {
			events <- ev
		}
	}()
	return events
}

func TestWatcher_ReportsWrites(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "index.ts")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o600))

	events := startWatcher(t, root, nil)

	require.NoError(t, os.WriteFile(path, []byte("b"), 0o600))
	ev := nextEvent(t, events, path)
	assert.Contains(t, []ports.WatchOp{ports.OpWrite, ports.OpCreate}, ev.Operation)
}

func TestWatcher_WatchesNewDirectories(t *testing.T) {
	root := t.TempDir()
	events := startWatcher(t, root, nil)

	dir := filepath.Join(root, "packages")
	require.NoError(t, os.Mkdir(dir, 0o750))
	nextEvent(t, events, dir)

	// Give the watcher a moment to register the new directory.
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(dir, "package.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))
	nextEvent(t, events, path)
}

func TestWatcher_SkipsIgnoredPaths(t *testing.T) {
	root := t.TempDir()
	cacheDir := filepath.Join(root, ".cache")
	require.NoError(t, os.Mkdir(cacheDir, 0o750))

	events := startWatcher(t, root, []string{"**/*.log"}, cacheDir)

	require.NoError(t, os.WriteFile(filepath.Join(root, "debug.log"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(cacheDir, "project.json"), []byte("x"), 0o600))
	marker := filepath.Join(root, "marker.ts")
	require.NoError(t, os.WriteFile(marker, []byte("x"), 0o600))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev := <-events:
			assert.NotEqual(t, filepath.Join(root, "debug.log"), ev.Path)
			assert.NotEqual(t, filepath.Join(cacheDir, "project.json"), ev.Path)
			if ev.Path == marker {
				return
			}
		case <-deadline:
			t.Fatal("marker event not received")
		}
	}
}

func TestWatcher_StopBeforeStart(t *testing.T) {
	ctrl := gomock.NewController(t)
	w := watcher.NewWatcher(mocks.NewMockLogger(ctrl), nil)
	assert.NoError(t, w.Stop())
}
