// Package core holds the domain types shared by every layer: users, class
// entries, verification requests, events, and the errors and change
// notifications the store and coordinator exchange.
package core

import "fmt"

// Keyed is implemented by every record type persisted in a collection.
// The key is the record's stable, non-empty identifier within its collection.
type Keyed interface {
	Key() string
}

// ChangeType represents the type of change observed in a collection.
type ChangeType string

const (
	ChangeCreate ChangeType = "CREATE"
	ChangeModify ChangeType = "MODIFY"
	ChangeDelete ChangeType = "DELETE"
)

// Change represents an observed mutation of a collection. ID is empty when
// the change was detected externally (the whole collection file was rewritten
// by another process) and the affected record cannot be pinned down.
type Change struct {
	Type       ChangeType
	Collection string
	ID         string
	Timestamp  int64 // Unix timestamp
}

// String renders the change for log output and event streams.
func (c Change) String() string {
	if c.ID == "" {
		return fmt.Sprintf("%s %s", c.Type, c.Collection)
	}
	return fmt.Sprintf("%s %s/%s", c.Type, c.Collection, c.ID)
}

// Path is the collection-relative identifier used for watch pattern matching.
func (c Change) Path() string {
	if c.ID == "" {
		return c.Collection
	}
	return c.Collection + "/" + c.ID
}
