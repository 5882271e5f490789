package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Jabakyo/nextclass/pkg/core"
)

// Collection is a typed, file-backed, key-indexed list of records. The
// persisted representation is one JSON array per collection; the collection
// name doubles as the file name ("users" -> users.json).
type Collection[T core.Keyed] struct {
	store *Store
	name  string
	path  string
}

// NewCollection opens the named collection against the store. The file is
// created lazily on first write; a missing file reads as an empty collection.
func NewCollection[T core.Keyed](s *Store, name string) *Collection[T] {
	s.register(name)
	return &Collection[T]{
		store: s,
		name:  name,
		path:  filepath.Join(s.dir, name+".json"),
	}
}

// Name returns the collection name.
func (c *Collection[T]) Name() string { return c.name }

// Get reads one record by id. It never blocks on writers beyond the duration
// of one file read; concurrent with an in-flight WithLock it observes either
// the pre- or post-image, never a torn document.
func (c *Collection[T]) Get(ctx context.Context, id string) (T, bool, error) {
	var zero T
	records, err := c.readAll(ctx)
	if err != nil {
		return zero, false, err
	}
	c.store.metrics.recordRead(c.name)
	for _, r := range records {
		if r.Key() == id {
			return r, true, nil
		}
	}
	return zero, false, nil
}

// List returns a full snapshot of the collection.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	records, err := c.readAll(ctx)
	if err != nil {
		return nil, err
	}
	c.store.metrics.recordRead(c.name)
	return records, nil
}

// WithLock is the only mutation entry point. It acquires the exclusive lock
// for (collection, id), loads the current record, invokes fn synchronously,
// and if fn asks for a write, persists the returned record atomically before
// releasing the lock.
//
// fn receives the freshly loaded current record (or found=false) and returns
// the next record and whether to write it; returning write=false is the
// idempotent no-op path. fn must not call back into WithLock for the same
// key.
//
// Locking is two-level: the per-id lock is held across fn, so callbacks for
// unrelated ids run in parallel; the flush of the shared collection document
// then takes a short per-collection lock, re-reads the file, and splices in
// only this record, so concurrent writers to sibling ids never erase each
// other's renames.
//
// If a lock cannot be acquired before the caller's deadline (or the store's
// configured lock timeout when the context has none), WithLock fails with
// core.ErrLockTimeout.
func (c *Collection[T]) WithLock(ctx context.Context, id string, fn func(current T, found bool) (next T, write bool, err error)) error {
	if id == "" {
		return fmt.Errorf("record id must not be empty")
	}

	if _, ok := ctx.Deadline(); !ok && c.store.lockTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.store.lockTimeout)
		defer cancel()
	}

	lockStart := time.Now()
	release, err := c.store.locks.acquire(ctx, c.name+"/"+id)
	if err != nil {
		return err
	}
	defer release()
	c.store.metrics.recordLockWait(c.name, time.Since(lockStart))

	records, err := c.readAll(ctx)
	if err != nil {
		return err
	}

	idx := -1
	var current T
	for i, r := range records {
		if r.Key() == id {
			idx = i
			current = r
			break
		}
	}

	next, write, err := fn(current, idx >= 0)
	if err != nil {
		return err
	}
	if !write {
		return nil
	}

	// The store never silently drops or duplicates an id on write.
	if next.Key() == "" {
		return fmt.Errorf("collection %s: record produced with empty id", c.name)
	}
	if next.Key() != id {
		return fmt.Errorf("collection %s: record id changed from %s to %s", c.name, id, next.Key())
	}

	// The collection file is shared with writers of sibling ids, so the
	// apply-and-rename step re-reads it under the collection flush lock and
	// splices in only this record. Persisting the pre-image snapshot here
	// would erase whatever a sibling writer renamed in since readAll.
	flushRelease, err := c.store.locks.acquire(ctx, c.name)
	if err != nil {
		return err
	}
	defer flushRelease()

	fresh, err := c.readAll(ctx)
	if err != nil {
		return err
	}

	changeType := core.ChangeCreate
	spliced := false
	for i, r := range fresh {
		if r.Key() == id {
			changeType = core.ChangeModify
			fresh[i] = next
			spliced = true
			break
		}
	}
	if !spliced {
		fresh = append(fresh, next)
	}

	if err := c.persist(fresh); err != nil {
		return err
	}

	c.store.publish(core.Change{
		Type:       changeType,
		Collection: c.name,
		ID:         id,
		Timestamp:  time.Now().Unix(),
	})
	return nil
}

// persist writes the full collection document atomically. The write path is
// never retried: a failed rename must surface, not be masked as success.
func (c *Collection[T]) persist(records []T) error {
	start := time.Now()
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal collection %s: %v", core.ErrIO, c.name, err)
	}
	if err := writeFileAtomic(c.path, data, 0644); err != nil {
		return fmt.Errorf("%w: persist collection %s: %v", core.ErrIO, c.name, err)
	}
	c.store.noteOwnWrite(c.name)
	c.store.metrics.recordWrite(c.name, time.Since(start))
	return nil
}

// readAll loads the collection snapshot. A missing file is an empty
// collection; a corrupt document fails closed with core.ErrIO after a
// bounded number of backoff retries (the file may be mid-save by an external
// editor, so one re-read often suffices).
func (c *Collection[T]) readAll(ctx context.Context) ([]T, error) {
	var lastErr error
	for attempt := 0; attempt <= c.store.readRetries; attempt++ {
		if attempt > 0 {
			c.store.metrics.recordReadRetry(c.name)
			if err := sleepCtx(ctx, backoffDelay(attempt-1, c.store.retryBase)); err != nil {
				break
			}
		}

		data, err := os.ReadFile(c.path)
		if os.IsNotExist(err) {
			return nil, nil
		}
		if err != nil {
			lastErr = err
			continue
		}

		var records []T
		if err := json.Unmarshal(data, &records); err != nil {
			lastErr = fmt.Errorf("corrupt document: %v", err)
			continue
		}
		return records, nil
	}
	return nil, fmt.Errorf("%w: read collection %s: %v", core.ErrIO, c.name, lastErr)
}
