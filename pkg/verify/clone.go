package verify

import (
	"reflect"

	"github.com/Jabakyo/nextclass/pkg/core"
)

// CloneEntries deep-copies a schedule entry set. Snapshots stored on user
// and request records must not alias the caller's slices.
func CloneEntries(entries []core.ScheduleEntry) []core.ScheduleEntry {
	if entries == nil {
		return nil
	}
	out := make([]core.ScheduleEntry, len(entries))
	for i, e := range entries {
		out[i] = e
		out[i].Meetings = make([]core.MeetingInterval, len(e.Meetings))
		for j, m := range e.Meetings {
			out[i].Meetings[j] = m
			out[i].Meetings[j].Days = append([]core.Weekday(nil), m.Days...)
		}
	}
	return out
}

// EntriesEqual reports whether two entry sets are identical, including order
// and meeting content. The coordinator uses it to treat a byte-identical
// rewrite as the idempotent no-op path instead of a class-list change.
func EntriesEqual(a, b []core.ScheduleEntry) bool {
	if len(a) != len(b) {
		return false
	}
	return reflect.DeepEqual(a, b)
}
