package core

import (
	"encoding/json"
	"fmt"
)

// Weekday identifies a day of the week in a recurring meeting pattern.
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// Weekdays lists all valid weekdays in calendar order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Valid reports whether the weekday is one of the known values.
func (d Weekday) Valid() bool {
	for _, w := range Weekdays {
		if d == w {
			return true
		}
	}
	return false
}

// ClockTime is a time of day expressed as minutes since midnight.
// It marshals to and from the "HH:MM" form used in the persisted JSON.
type ClockTime int

// ParseClock parses a "HH:MM" string into a ClockTime.
func ParseClock(s string) (ClockTime, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock time %q out of range", s)
	}
	return ClockTime(h*60 + m), nil
}

// String renders the time as "HH:MM".
func (t ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Valid reports whether the time falls within a single day.
func (t ClockTime) Valid() bool {
	return t >= 0 && t < 24*60
}

// MarshalJSON implements json.Marshaler.
func (t ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *ClockTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MeetingInterval is a weekly recurring time range tied to a set of weekdays.
// Intervals are same-day only: Start and End belong to the same day and
// Start must be strictly before End.
type MeetingInterval struct {
	Days  []Weekday `json:"days"`
	Start ClockTime `json:"start"`
	End   ClockTime `json:"end"`
}

// Validate checks the structural invariants of the interval.
func (m MeetingInterval) Validate() error {
	if len(m.Days) == 0 {
		return fmt.Errorf("meeting interval has no weekdays")
	}
	for _, d := range m.Days {
		if !d.Valid() {
			return fmt.Errorf("unknown weekday %q", d)
		}
	}
	if !m.Start.Valid() || !m.End.Valid() {
		return fmt.Errorf("meeting time out of range (%s - %s)", m.Start, m.End)
	}
	if m.Start >= m.End {
		return fmt.Errorf("meeting start %s is not before end %s", m.Start, m.End)
	}
	return nil
}

// ScheduleEntry is one class on a user's schedule. A class may meet several
// times a week, so it owns one or more MeetingIntervals.
type ScheduleEntry struct {
	ID         string            `json:"id"`
	Code       string            `json:"code"`
	Title      string            `json:"title"`
	Room       string            `json:"room,omitempty"`
	Instructor string            `json:"instructor,omitempty"`
	Meetings   []MeetingInterval `json:"meetings"`
}

// Validate checks the entry and all of its meeting intervals.
func (e ScheduleEntry) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("schedule entry has no ID")
	}
	if len(e.Meetings) == 0 {
		return fmt.Errorf("schedule entry %s has no meetings", e.ID)
	}
	for _, m := range e.Meetings {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("entry %s: %w", e.ID, err)
		}
	}
	return nil
}
