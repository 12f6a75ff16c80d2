package fs

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/snipcat/pkg/core"
)

const (
	debounceWindow    = 50 * time.Millisecond
	watchEventsBuffer = 100
)

// Watch observes the root for changes to catalog documents matching pattern
// (doublestar, relative to the root; "**/*" when empty).
// The returned channel is closed once ctx is done.
func (r *Repository) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern == "" {
		pattern = "**/*"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern: %q", pattern)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := r.recursiveAdd(watcher, r.Path); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	events := make(chan core.Event, watchEventsBuffer)
	w := &watchWorker{
		repo:      r,
		pattern:   pattern,
		events:    events,
		watcher:   watcher,
		debouncer: newDebouncer(debounceWindow),
	}

	r.setWatcherActive(true)
	lifecycle.Go(ctx, w.run, lifecycle.WithErrorHandler(func(err error) {
		w.reportError(fmt.Errorf("watcher failed: %w", err))
	}))

	return events, nil
}

type watchWorker struct {
	repo      *Repository
	pattern   string
	events    chan core.Event
	watcher   *fsnotify.Watcher
	debouncer *debouncer
}

// run is the main event loop of the watcher.
func (w *watchWorker) run(ctx context.Context) (err error) {
	defer close(w.events)
	defer w.repo.setWatcherActive(false)
	defer w.watcher.Close()
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("watcher panic: %v", recovered)
			logger := w.repo.config.Logger
			if logger != nil && logger.Enabled(ctx, slog.LevelDebug) {
				logger.Error("watcher panic", "error", err, "stack", string(debug.Stack()))
			}
		}
	}()

	err = w.loop(ctx)

	// Wait for in-flight timers before the events channel is closed.
	w.debouncer.stopAndWait(5 * time.Second)
	return err
}

func (w *watchWorker) loop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.handle(ctx, event)

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.reportError(wErr)
		}
	}
}

// handle filters, maps and debounces one filesystem event.
func (w *watchWorker) handle(ctx context.Context, event fsnotify.Event) {
	w.repo.debug("event received", "name", event.Name, "op", event.Op.String())

	// New directories must be watched too.
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.repo.recursiveAdd(w.watcher, event.Name); err != nil {
				w.reportError(err)
			}
			return
		}
	}

	relPath, err := filepath.Rel(w.repo.Path, event.Name)
	if err != nil {
		w.reportError(fmt.Errorf("failed to resolve ID for %s: %w", event.Name, err))
		return
	}
	relPath = filepath.ToSlash(relPath)

	if !w.repo.matches(relPath) {
		return
	}
	if ok, _ := doublestar.Match(w.pattern, relPath); !ok {
		return
	}

	eType := mapEventType(event)
	if eType == "" {
		return
	}

	e := core.Event{Type: eType, ID: pathToID(relPath), Timestamp: time.Now().Unix()}
	w.debouncer.add(e, func(e core.Event) {
		// The channel may already be closed if shutdown timed out.
		defer func() { _ = recover() }()
		select {
		case w.events <- e:
		case <-ctx.Done():
		}
	})
}

func (w *watchWorker) reportError(err error) {
	if w.repo.config.ErrorHandler != nil {
		w.repo.config.ErrorHandler(err)
		return
	}
	if w.repo.config.Logger != nil {
		w.repo.config.Logger.Error("watcher error", "error", err)
	}
}

func mapEventType(event fsnotify.Event) core.EventType {
	switch {
	case event.Has(fsnotify.Create):
		return core.EventCreate
	case event.Has(fsnotify.Write):
		return core.EventModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return core.EventDelete
	}
	return ""
}

// recursiveAdd watches dir and every subdirectory except .git and the system dir.
func (r *Repository) recursiveAdd(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != r.Path && (d.Name() == ".git" || d.Name() == r.config.SystemDir) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

func (r *Repository) setWatcherActive(active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watcherActive = active
}

// debouncer coalesces bursts of events for the same document; the last
// event of a burst wins.
type debouncer struct {
	window  time.Duration
	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
	wg      sync.WaitGroup
}

func newDebouncer(window time.Duration) *debouncer {
	return &debouncer{window: window, timers: make(map[string]*time.Timer)}
}

func (d *debouncer) add(e core.Event, fire func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	if t, ok := d.timers[e.ID]; ok && t.Stop() {
		d.wg.Done()
	}

	d.wg.Add(1)
	var t *time.Timer
	t = time.AfterFunc(d.window, func() {
		defer d.wg.Done()
		d.mu.Lock()
		if d.timers[e.ID] == t {
			delete(d.timers, e.ID)
		}
		d.mu.Unlock()
		fire(e)
	})
	d.timers[e.ID] = t
}

// stopAndWait rejects new events and waits for pending ones to fire.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
	}
}
