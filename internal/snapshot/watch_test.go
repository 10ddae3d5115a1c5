package snapshot

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	writeFile(t, path, `{"name": "v1", "nodes": []}`)

	doc, err := Load(path)
	require.NoError(t, err)
	host := NewHost(doc)

	var reloads, failures atomic.Int32
	host.OnSelectionChange(func() { reloads.Add(1) })

	w, err := NewWatcher(path, host, nil)
	require.NoError(t, err)
	w.OnReloadError = func(error) { failures.Add(1) }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// unrelated files in the directory are ignored
	writeFile(t, filepath.Join(dir, "other.json"), "{}")

	writeFile(t, path, `{"name": "v2", "selection": ["1"], "nodes": [{"id": "1", "type": "FRAME", "name": "Root"}]}`)
	require.Eventually(t, func() bool { return host.Name() == "v2" }, 2*time.Second, 10*time.Millisecond)
	require.Positive(t, reloads.Load())

	writeFile(t, path, `{"name": `)
	require.Eventually(t, func() bool { return failures.Load() > 0 }, 2*time.Second, 10*time.Millisecond)
	require.Equal(t, "v2", host.Name(), "a broken file keeps the previous document")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestNewWatcher_MissingDir(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "missing", "doc.json"), NewHost(&Document{}), nil)
	require.Error(t, err)
}
