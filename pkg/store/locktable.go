package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/Jabakyo/nextclass/pkg/core"
)

// lockTable hands out one exclusive lock per key. Record locks use
// "collection/id" keys so writers contending on unrelated records never
// serialize; the bare collection name keys the short flush lock that
// serializes apply-and-rename on the shared collection file. Entries are
// created lazily and garbage-collected as soon as no caller references them.
//
// Locks are channel-based rather than sync.Mutex so acquisition can honor a
// context deadline.
type lockTable struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	ch   chan struct{}
	refs int
}

func newLockTable() *lockTable {
	return &lockTable{entries: make(map[string]*lockEntry)}
}

// acquire blocks until the key lock is held or ctx is done. On success it
// returns the release function; the caller must invoke it exactly once.
func (t *lockTable) acquire(ctx context.Context, key string) (func(), error) {
	t.mu.Lock()
	e, ok := t.entries[key]
	if !ok {
		e = &lockEntry{ch: make(chan struct{}, 1)}
		t.entries[key] = e
	}
	e.refs++
	t.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
		return func() {
			<-e.ch
			t.unref(key, e)
		}, nil
	case <-ctx.Done():
		t.unref(key, e)
		return nil, fmt.Errorf("%w: key %s: %v", core.ErrLockTimeout, key, ctx.Err())
	}
}

// unref drops one reference and deletes the entry once uncontended. A holder
// always carries a reference, so an entry is never collected out from under
// an active lock.
func (t *lockTable) unref(key string, e *lockEntry) {
	t.mu.Lock()
	e.refs--
	if e.refs <= 0 {
		delete(t.entries, key)
	}
	t.mu.Unlock()
}

// size reports the number of live entries, for introspection.
func (t *lockTable) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
