package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a snapshot into a Host whenever the file changes.
// Each successful reload fires the host's selection listeners.
type Watcher struct {
	path    string
	host    *Host
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	// OnReloadError receives load failures; the previous document stays active
	OnReloadError func(error)
}

// NewWatcher watches the directory of path so that editors replacing the
// file by rename are still observed
func NewWatcher(path string, host *Host, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{path: abs, host: host, watcher: fw, logger: logger}, nil
}

// Run processes file events until ctx is done
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("snapshot watcher error", "error", err)
		}
	}
}

func (w *Watcher) reload() {
	doc, err := Load(w.path)
	if err != nil {
		// half-written files are common while an editor saves
		w.logger.Debug("snapshot reload failed", "path", w.path, "error", err)
		if w.OnReloadError != nil {
			w.OnReloadError(err)
		}
		return
	}
	w.logger.Debug("snapshot reloaded", "path", w.path, "nodes", len(doc.Nodes))
	w.host.Replace(doc)
}
