// Package store is a concurrent, crash-consistent record store backed by
// one JSON document per collection.
//
// Every mutation goes through Collection.WithLock, which serializes writers
// per (collection, id) key and persists the full collection atomically via a
// temp-file-then-rename. Readers never take the write lock: because rename
// is the only operation that changes what a read observes, lock-free reads
// are safe by construction.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/Jabakyo/nextclass/pkg/core"
)

const defaultEventBuffer = 100

// Store is the root of the record store, bound to one data directory.
// Collections are opened against it with NewCollection.
type Store struct {
	dir         string
	logger      *slog.Logger
	locks       *lockTable
	lockTimeout time.Duration
	readRetries int
	retryBase   time.Duration
	metrics     *Metrics
	broker      *broker

	mu            sync.RWMutex
	collections   map[string]bool
	ownWrites     map[string]time.Time
	watcher       *watchWorker
	watcherCancel context.CancelFunc
	watcherActive bool
}

// ownWriteWindow is how long a filesystem event on a collection file is
// attributed to our own rename rather than an external editor.
const ownWriteWindow = 500 * time.Millisecond

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithLockTimeout bounds how long WithLock waits for a per-key lock when the
// caller's context carries no deadline of its own. Zero disables the bound.
func WithLockTimeout(d time.Duration) Option {
	return func(s *Store) { s.lockTimeout = d }
}

// WithReadRetries sets how many extra attempts the read path makes on a
// transient failure. The write path never retries.
func WithReadRetries(n int) Option {
	return func(s *Store) { s.readRetries = n }
}

// WithRetryBase sets the initial backoff delay between read attempts.
func WithRetryBase(d time.Duration) Option {
	return func(s *Store) { s.retryBase = d }
}

// WithMetrics attaches a prometheus-backed metrics collector.
func WithMetrics(m *Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithEventBuffer sets the per-subscriber change event buffer size.
func WithEventBuffer(size int) Option {
	return func(s *Store) { s.broker = newBroker(size) }
}

// Open binds a Store to the given data directory, creating it if needed.
func Open(dir string, opts ...Option) (*Store, error) {
	s := &Store{
		dir:         dir,
		locks:       newLockTable(),
		lockTimeout: 10 * time.Second,
		readRetries: defaultReadRetries,
		retryBase:   defaultRetryBase,
		broker:      newBroker(defaultEventBuffer),
		collections: make(map[string]bool),
		ownWrites:   make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: create data directory: %v", core.ErrIO, err)
	}
	return s, nil
}

// Dir returns the data directory the store is bound to.
func (s *Store) Dir() string { return s.dir }

// Watch returns a stream of record changes whose collection-relative path
// ("collection" or "collection/id") matches the doublestar pattern. An empty
// pattern matches everything. The stream is closed when ctx is done or the
// store is closed.
//
// Changes made through this store carry the precise record id; changes made
// by an external editor of the underlying files carry only the collection.
func (s *Store) Watch(ctx context.Context, pattern string) (<-chan core.Change, error) {
	if pattern != "" {
		// Validate eagerly so a bad pattern fails at subscribe time.
		if _, err := doublestar.Match(pattern, "probe"); err != nil {
			return nil, fmt.Errorf("invalid watch pattern %q: %w", pattern, err)
		}
	}
	if err := s.ensureWatcher(); err != nil {
		return nil, err
	}
	return s.broker.subscribe(ctx, pattern), nil
}

func (s *Store) ensureWatcher() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.watcher != nil {
		return nil
	}
	w := newWatchWorker(s)
	runCtx, cancel := context.WithCancel(context.Background())
	if err := w.Start(runCtx); err != nil {
		cancel()
		return err
	}
	s.watcher = w
	s.watcherCancel = cancel
	return nil
}

// Close stops the filesystem watcher and closes all watch subscriptions.
// The store remains usable for reads and writes afterwards.
func (s *Store) Close() error {
	s.mu.Lock()
	w := s.watcher
	cancel := s.watcherCancel
	s.watcher = nil
	s.watcherCancel = nil
	s.mu.Unlock()

	if w != nil {
		cancel()
		ctx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		if err := w.Stop(ctx); err != nil {
			return err
		}
	}
	s.broker.closeAll()
	return nil
}

// register records a collection name so the watcher can resolve file events.
func (s *Store) register(name string) {
	s.mu.Lock()
	s.collections[name] = true
	s.mu.Unlock()
}

func (s *Store) isCollection(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collections[name]
}

func (s *Store) collectionNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.collections))
	for name := range s.collections {
		names = append(names, name)
	}
	return names
}

func (s *Store) noteOwnWrite(name string) {
	s.mu.Lock()
	s.ownWrites[name] = time.Now()
	s.mu.Unlock()
}

func (s *Store) recentOwnWrite(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	at, ok := s.ownWrites[name]
	return ok && time.Since(at) < ownWriteWindow
}

func (s *Store) setWatcherActive(active bool) {
	s.mu.Lock()
	s.watcherActive = active
	s.mu.Unlock()
}

// publish fans a change out to all matching subscribers.
func (s *Store) publish(c core.Change) {
	s.broker.publish(s.logger, c)
}

// broker fans record changes out to watch subscribers. Slow subscribers drop
// events rather than stalling writers.
type broker struct {
	mu     sync.Mutex
	buffer int
	next   int
	subs   map[int]*subscriber
}

type subscriber struct {
	ch      chan core.Change
	pattern string
}

func newBroker(buffer int) *broker {
	if buffer <= 0 {
		buffer = defaultEventBuffer
	}
	return &broker{buffer: buffer, subs: make(map[int]*subscriber)}
}

func (b *broker) subscribe(ctx context.Context, pattern string) <-chan core.Change {
	sub := &subscriber{ch: make(chan core.Change, b.buffer), pattern: pattern}
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = sub
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.remove(id)
	}()
	return sub.ch
}

func (b *broker) remove(id int) {
	b.mu.Lock()
	sub, ok := b.subs[id]
	if ok {
		delete(b.subs, id)
	}
	b.mu.Unlock()
	if ok {
		close(sub.ch)
	}
}

func (b *broker) closeAll() {
	b.mu.Lock()
	subs := b.subs
	b.subs = make(map[int]*subscriber)
	b.mu.Unlock()
	for _, sub := range subs {
		close(sub.ch)
	}
}

func (b *broker) publish(logger *slog.Logger, c core.Change) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, sub := range b.subs {
		if sub.pattern != "" {
			ok, err := doublestar.Match(sub.pattern, c.Path())
			if err != nil || !ok {
				continue
			}
		}
		select {
		case sub.ch <- c:
		default:
			if logger != nil {
				logger.Debug("dropping change event for slow subscriber", "change", c.String())
			}
		}
	}
}
