package core

import "time"

// CampusEvent is one entry in the events collection: a campus happening a
// user can publish alongside their schedule (club meeting, review session).
type CampusEvent struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	HostID      string    `json:"hostId"`
	StartsAt    time.Time `json:"startsAt"`
	EndsAt      time.Time `json:"endsAt"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Key implements Keyed.
func (e CampusEvent) Key() string { return e.ID }
