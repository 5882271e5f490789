package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Jabakyo/nextclass/pkg/core"
)

func TestDebouncerCoalesces(t *testing.T) {
	d := newDebouncer(30 * time.Millisecond)

	var mu sync.Mutex
	var fired []core.Change
	fire := func(c core.Change) {
		mu.Lock()
		fired = append(fired, c)
		mu.Unlock()
	}

	// A burst of events on one collection lands as one publish carrying the
	// latest payload.
	d.add(core.Change{Type: core.ChangeModify, Collection: "users", Timestamp: 1}, fire)
	d.add(core.Change{Type: core.ChangeModify, Collection: "users", Timestamp: 2}, fire)
	d.add(core.Change{Type: core.ChangeDelete, Collection: "users", Timestamp: 3}, fire)

	d.stopAndWait(time.Second)

	mu.Lock()
	defer mu.Unlock()
	if len(fired) != 1 {
		t.Fatalf("fired %d times, want 1", len(fired))
	}
	if fired[0].Type != core.ChangeDelete || fired[0].Timestamp != 3 {
		t.Errorf("fired = %+v, want the latest change", fired[0])
	}
}

func TestDebouncerSeparateKeys(t *testing.T) {
	d := newDebouncer(20 * time.Millisecond)

	var mu sync.Mutex
	seen := make(map[string]int)
	fire := func(c core.Change) {
		mu.Lock()
		seen[c.Collection]++
		mu.Unlock()
	}

	d.add(core.Change{Type: core.ChangeModify, Collection: "users"}, fire)
	d.add(core.Change{Type: core.ChangeModify, Collection: "events"}, fire)
	d.stopAndWait(time.Second)

	mu.Lock()
	defer mu.Unlock()
	if seen["users"] != 1 || seen["events"] != 1 {
		t.Errorf("seen = %v", seen)
	}
}

func TestDebouncerStoppedDropsNewEvents(t *testing.T) {
	d := newDebouncer(10 * time.Millisecond)
	d.stopAndWait(time.Second)

	fired := false
	d.add(core.Change{Collection: "users"}, func(core.Change) { fired = true })
	time.Sleep(50 * time.Millisecond)
	if fired {
		t.Error("stopped debouncer fired")
	}
}

func TestWatchDetectsExternalEdit(t *testing.T) {
	s := testStore(t)
	NewCollection[note](s, "notes")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	changes, err := s.Watch(ctx, "")
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	// Simulate another process rewriting the collection file. The store has
	// not written recently, so the event must not be suppressed.
	path := filepath.Join(s.Dir(), "notes.json")
	if err := os.WriteFile(path, []byte(`[{"id":"ext","body":"external"}]`), 0644); err != nil {
		t.Fatalf("external write failed: %v", err)
	}

	select {
	case c := <-changes:
		if c.Collection != "notes" {
			t.Errorf("collection = %s", c.Collection)
		}
		// External edits cannot be pinned to a record.
		if c.ID != "" {
			t.Errorf("external change carried id %q", c.ID)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for external change")
	}
}

func TestWatchIgnoresForeignFiles(t *testing.T) {
	s := testStore(t)
	notes := NewCollection[note](s, "notes")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	changes, err := s.Watch(ctx, "")
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	// Files that are not collection documents produce no events.
	if err := os.WriteFile(filepath.Join(s.Dir(), "README.md"), []byte("x"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(s.Dir(), TempFilePrefix+"123"), []byte("x"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	// Follow with a real write so the test has a deterministic end marker.
	if err := notes.WithLock(ctx, "n1", func(note, bool) (note, bool, error) {
		return note{ID: "n1"}, true, nil
	}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	select {
	case c := <-changes:
		if c.Collection != "notes" || c.ID != "n1" {
			t.Errorf("unexpected change %+v before the marker write", c)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for marker change")
	}
}

func TestStoreCloseStopsWatcherAndSubscribers(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	NewCollection[note](s, "notes")

	changes, err := s.Watch(context.Background(), "")
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	select {
	case _, open := <-changes:
		if open {
			t.Error("subscription still open after Close")
		}
	case <-time.After(2 * time.Second):
		t.Error("subscription not closed after Close")
	}
}
