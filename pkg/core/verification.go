package core

import "time"

// RequestStatus is the review state of a VerificationRequest.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// VerificationRequest is an immutable-after-review snapshot of one submission
// for manual schedule verification. It is owned independently of the user
// record so historical requests survive later class-list changes.
//
// After ReviewedAt is set the record is never mutated except by corrective
// admin action.
type VerificationRequest struct {
	ID               string          `json:"id"`
	UserID           string          `json:"userId"`
	SubmittedClasses []ScheduleEntry `json:"submittedClasses"`
	PreviousClasses  []ScheduleEntry `json:"previousClasses,omitempty"`
	ScreenshotRef    string          `json:"screenshotRef"`
	Status           RequestStatus   `json:"status"`
	Reason           string          `json:"reason,omitempty"`
	SubmittedAt      time.Time       `json:"submittedAt"`
	ReviewedAt       *time.Time      `json:"reviewedAt,omitempty"`
}

// Key implements Keyed.
func (r VerificationRequest) Key() string { return r.ID }
