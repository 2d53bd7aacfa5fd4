// Package watcher keeps the index in step with filesystem changes by
// debouncing change events into reconciliation runs.
package watcher

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"spyglass/internal/walker"
)

// State describes whether the watcher loop is running.
type State int

const (
	Idle State = iota
	Watching
)

const defaultDebounce = time.Second

// Config wires the watcher to the rest of the system.
type Config struct {
	// Extensions is the set of extensions the chunkers understand. Files
	// outside the set are still relevant when their extension maps to a
	// known category.
	Extensions map[string]bool
	// Reindex receives the coalesced set of changed paths.
	Reindex func(paths []string)
	// Remove receives each deleted or renamed-away path.
	Remove func(path string)
	// Debounce is the quiet period before a reconciliation run. Zero means
	// one second.
	Debounce time.Duration
}

// Watcher owns the fsnotify instance and the reconciliation goroutine.
type Watcher struct {
	cfg Config

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	tracked map[string]bool
	state   State
	done    chan struct{}
}

// New creates an idle Watcher. No OS resources are held until Start.
func New(cfg Config) *Watcher {
	if cfg.Debounce <= 0 {
		cfg.Debounce = defaultDebounce
	}
	return &Watcher{cfg: cfg, tracked: make(map[string]bool)}
}

// State reports whether the reconciliation loop is running.
func (w *Watcher) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Start registers paths for watching, creating the fsnotify watcher and the
// reconciliation goroutine on first use. Directories are watched recursively.
// Paths that fail to register are dropped from the tracked set; Start only
// fails when the watcher itself cannot be created.
func (w *Watcher) Start(paths []string) error {
	w.mu.Lock()
	if w.fsw == nil {
		fsw, err := fsnotify.NewWatcher()
		if err != nil {
			w.mu.Unlock()
			return fmt.Errorf("create watcher: %w", err)
		}
		w.fsw = fsw
		w.done = make(chan struct{})
		w.state = Watching
		go w.run(fsw.Events, fsw.Errors)
	}
	w.mu.Unlock()

	for _, path := range paths {
		w.watchRecursive(path)
	}
	return nil
}

// StopWatching removes one path from the watch set. The loop stays alive
// even when the set empties.
func (w *Watcher) StopWatching(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fsw == nil {
		return
	}
	if err := w.fsw.Remove(path); err != nil {
		log.Debug("remove watch", "path", path, "err", err)
	}
	delete(w.tracked, path)
}

// Close shuts down the watcher and waits for the loop to exit.
func (w *Watcher) Close() error {
	w.mu.Lock()
	fsw := w.fsw
	done := w.done
	w.fsw = nil
	w.tracked = make(map[string]bool)
	w.state = Idle
	w.mu.Unlock()

	if fsw == nil {
		return nil
	}
	err := fsw.Close()
	<-done
	return err
}

// watchRecursive registers path and, for directories, every non-ignored
// subdirectory.
func (w *Watcher) watchRecursive(root string) {
	info, err := os.Stat(root)
	if err != nil {
		log.Warn("cannot watch path", "path", root, "err", err)
		return
	}
	if !info.IsDir() {
		w.addWatch(root)
		return
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warn("skipping watch entry", "path", path, "err", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && walker.IgnoredDir(d.Name()) {
			return filepath.SkipDir
		}
		w.addWatch(path)
		return nil
	})
	if err != nil {
		log.Warn("watch walk aborted", "root", root, "err", err)
	}
}

func (w *Watcher) addWatch(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fsw == nil {
		return
	}
	if err := w.fsw.Add(path); err != nil {
		log.Warn("failed to watch path", "path", path, "err", err)
		delete(w.tracked, path)
		return
	}
	w.tracked[path] = true
}

// run is the reconciliation loop: it coalesces change events into a pending
// set and flushes the set to Reindex after a quiet period. The pending set
// is loop-local, so no locking is needed around it.
func (w *Watcher) run(events <-chan fsnotify.Event, errs <-chan error) {
	defer close(w.done)

	pending := make(map[string]bool)
	timer := time.NewTimer(w.cfg.Debounce)
	stopTimer(timer)
	defer timer.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			w.handleEvent(ev, pending, timer)

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			log.Warn("watcher error", "err", err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			clear(pending)
			log.Info("reconciling changed files", "count", len(paths))
			if w.cfg.Reindex != nil {
				w.cfg.Reindex(paths)
			}
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event, pending map[string]bool, timer *time.Timer) {
	if ev.Name == "" {
		return
	}

	if ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename) {
		delete(pending, ev.Name)
		if !w.relevantFile(ev.Name) {
			return
		}
		// Removal does not wait out the debounce window.
		if w.cfg.Remove != nil {
			go w.cfg.Remove(ev.Name)
		}
		return
	}

	if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) {
		return
	}

	info, err := os.Stat(ev.Name)
	if err != nil {
		log.Debug("stat failed for event", "path", ev.Name, "err", err)
		return
	}
	if info.IsDir() {
		if ev.Op.Has(fsnotify.Create) && !walker.IgnoredDir(filepath.Base(ev.Name)) {
			w.watchRecursive(ev.Name)
		}
		return
	}

	if !w.relevantFile(ev.Name) {
		return
	}
	if !pending[ev.Name] {
		pending[ev.Name] = true
		stopTimer(timer)
		timer.Reset(w.cfg.Debounce)
	}
}

// relevantFile filters out editor droppings and files nothing can make sense
// of.
func (w *Watcher) relevantFile(path string) bool {
	if !relevantName(path) {
		return false
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if w.cfg.Extensions != nil && !w.cfg.Extensions[ext] && walker.CategoryForExtension(ext) == "other" {
		return false
	}
	return true
}

func relevantName(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return false
	case strings.HasSuffix(base, "~"):
		return false
	case strings.HasPrefix(base, "#"):
		return false
	case strings.Contains(base, ".tmp"):
		return false
	}
	return true
}

// stopTimer stops a timer and drains its channel so a later Reset starts a
// clean window. Safe only from the goroutine that reads the channel.
func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}
