package ingest

import (
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"github.com/esilv-labs/askcampus/internal/logger"
)

// Watcher observes the documents directory and flags the index as
// stale when a text file changes. It never rebuilds by itself; the
// session decides when a reload is safe.
type Watcher struct {
	watcher *fsnotify.Watcher
	stale   atomic.Bool
	done    chan struct{}
}

// NewWatcher starts watching the given directory and its immediate
// subdirectories.
func NewWatcher(root string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(root); err != nil {
		fsw.Close()
		return nil, err
	}

	// Watch one level of subdirectories; fsnotify is not recursive.
	if entries, err := filepath.Glob(filepath.Join(root, "*")); err == nil {
		for _, entry := range entries {
			// Add ignores non-directories with an error we don't need.
			_ = fsw.Add(entry)
		}
	}

	w := &Watcher{watcher: fsw, done: make(chan struct{})}
	go w.run()
	return w, nil
}

// Stale reports whether documents changed since the last Ack.
func (w *Watcher) Stale() bool {
	return w.stale.Load()
}

// Ack clears the stale flag after the caller reloaded the index.
func (w *Watcher) Ack() {
	w.stale.Store(false)
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !isTextFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				logger.Debug("Watcher: %s changed, index marked stale", event.Name)
				w.stale.Store(true)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

func isTextFile(path string) bool {
	return textExtensions[strings.ToLower(filepath.Ext(path))]
}
