// Package schedule decides whether weekly meeting intervals collide.
//
// The detector is a pure function over domain values: no state, no I/O.
// It is importable by any caller that needs to pre-check a tentative
// schedule before committing it (e.g. a "would this clash" preview or a
// study-group suggestion comparing two arbitrary schedules).
package schedule

import (
	"fmt"

	"github.com/Jabakyo/nextclass/pkg/core"
)

// Conflicts reports whether the candidate entry overlaps any entry in
// existing. Two meetings overlap when their weekday sets intersect and
// their time ranges overlap as half-open intervals; touching intervals
// (one ends exactly when the other starts) are not conflicts.
func Conflicts(existing []core.ScheduleEntry, candidate core.ScheduleEntry) bool {
	for _, e := range existing {
		if EntriesOverlap(e, candidate) {
			return true
		}
	}
	return false
}

// FirstConflict returns the first existing entry the candidate collides
// with, for callers that want to tell the user which class is in the way.
func FirstConflict(existing []core.ScheduleEntry, candidate core.ScheduleEntry) (core.ScheduleEntry, bool) {
	for _, e := range existing {
		if EntriesOverlap(e, candidate) {
			return e, true
		}
	}
	return core.ScheduleEntry{}, false
}

// EntriesOverlap reports whether any meeting of a overlaps any meeting of b.
// The relation is symmetric.
func EntriesOverlap(a, b core.ScheduleEntry) bool {
	for _, ma := range a.Meetings {
		for _, mb := range b.Meetings {
			if MeetingsOverlap(ma, mb) {
				return true
			}
		}
	}
	return false
}

// MeetingsOverlap reports whether two meeting intervals share a weekday and
// overlapping times. Zero-length intervals never overlap anything; they are
// rejected as invalid input upstream (ValidateEntries).
func MeetingsOverlap(a, b core.MeetingInterval) bool {
	if !daysIntersect(a.Days, b.Days) {
		return false
	}
	// Half-open comparison: adjacency (a.End == b.Start) is allowed.
	return a.Start < b.End && b.Start < a.End
}

func daysIntersect(a, b []core.Weekday) bool {
	for _, da := range a {
		for _, db := range b {
			if da == db {
				return true
			}
		}
	}
	return false
}

// ValidateEntries checks every entry in a proposed schedule and verifies the
// entries do not conflict with each other. It is the upstream gate that
// rejects zero-length and malformed intervals before overlap detection runs.
func ValidateEntries(entries []core.ScheduleEntry) error {
	seen := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		if err := e.Validate(); err != nil {
			return err
		}
		if _, dup := seen[e.ID]; dup {
			return fmt.Errorf("duplicate schedule entry id %s", e.ID)
		}
		seen[e.ID] = struct{}{}
		if Conflicts(entries[:i], e) {
			return fmt.Errorf("%w: entry %s overlaps another entry", core.ErrScheduleConflict, e.ID)
		}
	}
	return nil
}
