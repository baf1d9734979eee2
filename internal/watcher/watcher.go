// Package watcher provides debounced file system watching. The SQLite store
// uses it to notice writes made by other taskflow processes.
package watcher

import (
	"context"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DebounceDelay is the quiet period after the last matching event before
// the callback fires. A SQLite commit touches the database and its WAL in
// quick succession; both land in one notification.
const DebounceDelay = 100 * time.Millisecond

const relevantOps = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

// Watcher watches one directory and reports batches of changed files.
type Watcher struct {
	fsw    *fsnotify.Watcher
	match  func(name string) bool
	delay  time.Duration
	notify func(changed []string)

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
}

// New creates a Watcher on dir. match receives the base name of each
// changed file; a nil match accepts everything. notify gets the sorted base
// names that changed since the previous call.
func New(dir string, match func(name string) bool, notify func(changed []string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	if match == nil {
		match = func(string) bool { return true }
	}
	return &Watcher{
		fsw:     fsw,
		match:   match,
		delay:   DebounceDelay,
		notify:  notify,
		pending: make(map[string]struct{}),
	}, nil
}

// Prefix returns a matcher for files whose base name starts with prefix,
// e.g. "taskflow.db" matches the database and its -wal and -shm files.
func Prefix(prefix string) func(string) bool {
	return func(name string) bool {
		return strings.HasPrefix(name, prefix)
	}
}

// Run consumes events until ctx is canceled or the watcher is closed.
// Watch errors go to errFn when it is non-nil.
func (w *Watcher) Run(ctx context.Context, errFn func(error)) {
	defer w.stopTimer()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&relevantOps == 0 {
				continue
			}
			if name := filepath.Base(ev.Name); w.match(name) {
				w.record(name)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if errFn != nil {
				errFn(err)
			}
		}
	}
}

// Close stops the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// record adds name to the pending batch and restarts the quiet period.
func (w *Watcher) record(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[name] = struct{}{}
	if w.timer == nil {
		w.timer = time.AfterFunc(w.delay, w.flush)
		return
	}
	w.timer.Reset(w.delay)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	changed := make([]string, 0, len(w.pending))
	for name := range w.pending {
		changed = append(changed, name)
	}
	clear(w.pending)
	w.mu.Unlock()

	if len(changed) == 0 {
		return
	}
	slices.Sort(changed)
	w.notify(changed)
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}
