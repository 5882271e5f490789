package store

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/fsnotify/fsnotify"

	"github.com/Jabakyo/nextclass/pkg/core"
)

// watchWorker observes the data directory with fsnotify and publishes
// collection-level changes for files rewritten by external editors. Writes
// made through this store are announced with precise record ids on the write
// path itself, so the worker suppresses the filesystem echo of our own
// renames.
type watchWorker struct {
	*worker.BaseWorker
	store     *Store
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	cancel    context.CancelFunc
}

func newWatchWorker(s *Store) *watchWorker {
	return &watchWorker{
		BaseWorker: worker.NewBaseWorker("store-watcher"),
		store:      s,
	}
}

func (w *watchWorker) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("watcher already started (status: %s)", status)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Add(w.store.dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", w.store.dir, err)
	}

	w.watcher = watcher
	w.debouncer = newDebouncer(50 * time.Millisecond)
	w.store.setWatcherActive(true)

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

func (w *watchWorker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}
	return w.BaseWorker.Stop(ctx)
}

func (w *watchWorker) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
		}
	})
}

func (w *watchWorker) run(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			panicErr := fmt.Errorf("watcher panic: %v", recovered)
			if w.store.logger.Enabled(ctx, slog.LevelDebug) {
				w.store.logger.Error("watcher panic", "error", panicErr, "stack", string(debug.Stack()))
			} else {
				w.store.logger.Error("watcher panic", "error", panicErr)
			}
		}
	}()
	defer w.store.setWatcherActive(false)
	defer w.watcher.Close()

	err = w.loop(ctx)

	// Stop accepting new events and wait for in-flight debounce timers so no
	// publish races the shutdown.
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
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.processEvent(ctx, event)

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.store.logger.Error("fsnotify error", "error", wErr)
		}
	}
}

// processEvent filters, maps, and debounces one filesystem event.
func (w *watchWorker) processEvent(ctx context.Context, event fsnotify.Event) (processed bool) {
	w.store.logger.Debug("filesystem event", "name", event.Name, "op", event.Op.String())

	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, TempFilePrefix) {
		return false
	}
	collection, ok := strings.CutSuffix(base, ".json")
	if !ok || !w.store.isCollection(collection) {
		return false
	}
	if w.store.recentOwnWrite(collection) {
		// The precise per-record event was already published on the write
		// path; skip the rename echo.
		return false
	}

	var changeType core.ChangeType
	switch {
	case event.Has(fsnotify.Remove):
		changeType = core.ChangeDelete
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write), event.Has(fsnotify.Rename):
		changeType = core.ChangeModify
	default:
		return false
	}

	w.debouncer.add(core.Change{
		Type:       changeType,
		Collection: collection,
		Timestamp:  time.Now().Unix(),
	}, func(c core.Change) {
		select {
		case <-ctx.Done():
		default:
			w.store.publish(c)
		}
	})
	return true
}

// debouncer coalesces bursts of changes per key within a window, so a flurry
// of filesystem events for one collection lands as a single published change.
type debouncer struct {
	mu      sync.Mutex
	window  time.Duration
	pending map[string]core.Change
	timers  map[string]*time.Timer
	stopped bool
	wg      sync.WaitGroup
}

func newDebouncer(window time.Duration) *debouncer {
	return &debouncer{
		window:  window,
		pending: make(map[string]core.Change),
		timers:  make(map[string]*time.Timer),
	}
}

// add schedules fire for the change after the window elapses. Later changes
// with the same path replace the pending one instead of scheduling again.
func (d *debouncer) add(c core.Change, fire func(core.Change)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	key := c.Path()
	d.pending[key] = c
	if _, scheduled := d.timers[key]; scheduled {
		return
	}

	d.wg.Add(1)
	d.timers[key] = time.AfterFunc(d.window, func() {
		d.mu.Lock()
		latest := d.pending[key]
		delete(d.pending, key)
		delete(d.timers, key)
		d.mu.Unlock()

		fire(latest)
		d.wg.Done()
	})
}

// stopAndWait blocks new events and waits for in-flight timers, bounded by
// the timeout.
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
