package core

import "time"

// VerificationStatus is the lifecycle state of a user's schedule-authenticity claim.
type VerificationStatus string

const (
	StatusNone     VerificationStatus = "none"
	StatusPending  VerificationStatus = "pending"
	StatusVerified VerificationStatus = "verified"
	StatusRejected VerificationStatus = "rejected"
)

// Valid reports whether the status is one of the known values.
func (s VerificationStatus) Valid() bool {
	switch s {
	case StatusNone, StatusPending, StatusVerified, StatusRejected:
		return true
	}
	return false
}

// User is one account record in the users collection.
//
// Invariant: VerificationStatus is StatusVerified only while Classes is
// byte-for-byte the set that was pending when the approval happened. Every
// class-list mutation runs through the verification transition that demotes
// the status back to StatusNone in the same atomic write.
type User struct {
	ID                      string             `json:"id"`
	Name                    string             `json:"name"`
	Email                   string             `json:"email"`
	Classes                 []ScheduleEntry    `json:"classes"`
	PreviousClasses         []ScheduleEntry    `json:"previousClasses,omitempty"`
	VerificationStatus      VerificationStatus `json:"verificationStatus"`
	VerificationSubmittedAt *time.Time         `json:"verificationSubmittedAt,omitempty"`
	VerifiedAt              *time.Time         `json:"verifiedAt,omitempty"`
	ClassesChangedAt        *time.Time         `json:"classesChangedAt,omitempty"`
	HasSharedSchedule       bool               `json:"hasSharedSchedule"`
	CreatedAt               time.Time          `json:"createdAt"`
}

// Key implements Keyed.
func (u User) Key() string { return u.ID }
