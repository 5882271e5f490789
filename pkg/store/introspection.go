package store

import (
	"sort"

	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Dir           string   `json:"dir"`
	Collections   []string `json:"collections"`
	ActiveLocks   int      `json:"active_locks"`
	WatcherActive bool     `json:"watcher_active"`
	LockTimeout   string   `json:"lock_timeout"`
	ReadRetries   int      `json:"read_retries"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	names := s.collectionNames()
	sort.Strings(names)

	s.mu.RLock()
	watcherActive := s.watcherActive
	s.mu.RUnlock()

	return StoreState{
		Dir:           s.dir,
		Collections:   names,
		ActiveLocks:   s.locks.size(),
		WatcherActive: watcherActive,
		LockTimeout:   s.lockTimeout.String(),
		ReadRetries:   s.readRetries,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
