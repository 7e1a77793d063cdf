// Package hostwatch watches a .sorex index file on disk and rebuilds the
// LoadedLayer/TierSearcher pair a long-lived `sorex serve` process holds, whenever the file is replaced — without ever exposing a
// half-written buffer to a concurrent reader.
package hostwatch

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gofrs/flock"
	"golang.org/x/sync/singleflight"

	"github.com/sorexsearch/sorex/pkg/sorex"
)

// Snapshot is one reloaded index, swapped in atomically.
type Snapshot struct {
	Layer    *sorex.LoadedLayer
	Searcher *sorex.TierSearcher
}

// Reloader holds the current Snapshot and rebuilds it from disk, guarding
// the rebuild with a file lock (so a reader never sees a buffer mid-write
// by the index builder) and a singleflight group (so a burst of fsnotify
// events collapses into one FromBytes call).
type Reloader struct {
	path  string
	group singleflight.Group

	mu  sync.RWMutex
	cur Snapshot
}

// NewReloader performs the initial load and returns a ready Reloader.
func NewReloader(path string) (*Reloader, error) {
	r := &Reloader{path: path}
	if _, err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Current returns the most recently loaded Snapshot.
func (r *Reloader) Current() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cur
}

// Reload re-reads path under a file lock and swaps in the new Snapshot.
// Concurrent Reload calls dedupe to a single underlying read via
// singleflight.
func (r *Reloader) Reload() (Snapshot, error) {
	v, err, _ := r.group.Do(r.path, func() (any, error) {
		lock := flock.New(r.path + ".lock")
		if err := lock.Lock(); err != nil {
			return nil, fmt.Errorf("lock index for reload: %w", err)
		}
		defer lock.Unlock()

		buf, err := os.ReadFile(r.path)
		if err != nil {
			return nil, fmt.Errorf("read index: %w", err)
		}
		layer, err := sorex.FromBytes(buf)
		if err != nil {
			return nil, fmt.Errorf("load index: %w", err)
		}
		searcher, err := sorex.FromLayer(layer)
		if err != nil {
			return nil, fmt.Errorf("build searcher: %w", err)
		}

		snap := Snapshot{Layer: layer, Searcher: searcher}
		r.mu.Lock()
		r.cur = snap
		r.mu.Unlock()
		return snap, nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	return v.(Snapshot), nil
}

// Watcher debounces filesystem events for a Reloader's index path and
// triggers Reload once per settled burst of writes.
type Watcher struct {
	reloader *Reloader
	window   time.Duration
	logger   *slog.Logger
	onReload func(Snapshot, error)

	fsw *fsnotify.Watcher

	mu      sync.Mutex
	timer   *time.Timer
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
}

// NewWatcher creates a Watcher over reloader's path. onReload, if
// non-nil, is called (from an internal goroutine) after every debounced
// reload attempt, success or failure.
func NewWatcher(reloader *Reloader, window time.Duration, logger *slog.Logger, onReload func(Snapshot, error)) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		reloader: reloader,
		window:   window,
		logger:   logger,
		onReload: onReload,
		fsw:      fsw,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching the parent directory of the index path (watching
// the directory, not the file, survives editors/builders that replace the
// file via rename-on-save). Start is idempotent.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return nil
	}
	w.started = true
	w.mu.Unlock()

	if err := w.fsw.Add(parentDir(w.reloader.path)); err != nil {
		return err
	}
	go w.loop()
	return nil
}

func (w *Watcher) loop() {
	defer close(w.doneCh)
	for {
		select {
		case <-w.stopCh:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Name != w.reloader.path {
				continue
			}
			w.scheduleReload()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("index watch error", slog.String("error", err.Error()))
		}
	}
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.window, func() {
		snap, err := w.reloader.Reload()
		if err != nil {
			w.logger.Warn("index reload failed", slog.String("error", err.Error()))
		} else {
			w.logger.Info("index reloaded", slog.String("path", w.reloader.path))
		}
		if w.onReload != nil {
			w.onReload(snap, err)
		}
	})
}

// Stop halts the watch goroutine and releases the fsnotify handle.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	_ = w.fsw.Close()
}

func parentDir(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return "."
}
