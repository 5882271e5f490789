// Package verify is the schedule-verification state machine.
//
// User statuses move along none -> pending -> {verified, rejected},
// rejected -> pending (resubmission) and verified -> none (automatic
// downgrade on any class-list change). No other edges exist.
//
// Every function here is a pure transform from current records to next
// records: no I/O, no clock reads, no randomness. The coordinator runs them
// inside the record store's per-key lock so each transition lands in the
// same atomic write as the record it gates.
package verify

import (
	"fmt"
	"time"

	"github.com/Jabakyo/nextclass/pkg/core"
	"github.com/Jabakyo/nextclass/pkg/schedule"
)

// Submit transitions a user into pending review. Valid only from none or
// rejected; submitting while pending or already verified is an invalid
// transition.
func Submit(u core.User, now time.Time) (core.User, error) {
	switch u.VerificationStatus {
	case core.StatusNone, core.StatusRejected:
	default:
		return u, fmt.Errorf("%w: cannot submit for review while %q", core.ErrInvalidTransition, u.VerificationStatus)
	}
	if len(u.Classes) == 0 {
		return u, fmt.Errorf("%w: cannot submit an empty schedule", core.ErrInvalidTransition)
	}
	u.VerificationStatus = core.StatusPending
	at := now
	u.VerificationSubmittedAt = &at
	return u, nil
}

// NewRequest builds the companion snapshot record for a submission. The
// user's current class list is captured as submittedClasses; when the user
// has a prior request, its submitted set is carried over as
// previousClasses. Each submission creates a new record so review history
// is preserved.
func NewRequest(id string, u core.User, prior *core.VerificationRequest, screenshotRef string, now time.Time) core.VerificationRequest {
	req := core.VerificationRequest{
		ID:               id,
		UserID:           u.ID,
		SubmittedClasses: CloneEntries(u.Classes),
		ScreenshotRef:    screenshotRef,
		Status:           core.RequestPending,
		SubmittedAt:      now,
	}
	if prior != nil {
		req.PreviousClasses = CloneEntries(prior.SubmittedClasses)
	}
	return req
}

// Review settles a pending request as approved or rejected. A request that
// has already been reviewed is immutable; re-reviewing it is an invalid
// transition.
func Review(req core.VerificationRequest, approve bool, reason string, now time.Time) (core.VerificationRequest, error) {
	if req.Status != core.RequestPending {
		return req, fmt.Errorf("%w: request %s already %s", core.ErrInvalidTransition, req.ID, req.Status)
	}
	if approve {
		req.Status = core.RequestApproved
	} else {
		req.Status = core.RequestRejected
		req.Reason = reason
	}
	at := now
	req.ReviewedAt = &at
	return req, nil
}

// ApplyApproval marks the user verified. Valid only while pending: if the
// user's status moved on since the request was filed (e.g. the class list
// changed and demoted them), the approval no longer applies.
func ApplyApproval(u core.User, now time.Time) (core.User, error) {
	if u.VerificationStatus != core.StatusPending {
		return u, fmt.Errorf("%w: cannot approve user in status %q", core.ErrInvalidTransition, u.VerificationStatus)
	}
	u.VerificationStatus = core.StatusVerified
	at := now
	u.VerifiedAt = &at
	return u, nil
}

// ApplyRejection marks the user rejected (not none), so the UI can tell
// "never tried" apart from "tried and failed". Valid only while pending.
func ApplyRejection(u core.User) (core.User, error) {
	if u.VerificationStatus != core.StatusPending {
		return u, fmt.Errorf("%w: cannot reject user in status %q", core.ErrInvalidTransition, u.VerificationStatus)
	}
	u.VerificationStatus = core.StatusRejected
	return u, nil
}

// ApplyClassChange replaces the user's class list with newEntries. It is the
// single chokepoint for every add, remove, and edit-in-place: the entries
// are validated and conflict-checked first, and if the prior status was
// verified it is demoted to none with the prior list snapshotted into
// previousClasses. A changed meeting time is indistinguishable from a
// changed class for verification-trust purposes.
func ApplyClassChange(u core.User, newEntries []core.ScheduleEntry, now time.Time) (core.User, error) {
	if err := schedule.ValidateEntries(newEntries); err != nil {
		return u, err
	}

	prior := u.Classes
	u.Classes = CloneEntries(newEntries)
	at := now
	u.ClassesChangedAt = &at

	if u.VerificationStatus == core.StatusVerified {
		u.VerificationStatus = core.StatusNone
		u.PreviousClasses = CloneEntries(prior)
		u.VerifiedAt = nil
	}
	return u, nil
}

// ApplySharing flips the one-way sharing latch. Sharing can only go from
// false to true, and only while the user is verified. Requesting false while
// currently shared fails; requesting false while not shared is a no-op.
func ApplySharing(u core.User, want bool) (core.User, error) {
	if !want {
		if u.HasSharedSchedule {
			return u, fmt.Errorf("%w: sharing cannot be switched off once enabled", core.ErrPreconditionFailed)
		}
		return u, nil
	}
	if u.VerificationStatus != core.StatusVerified {
		return u, fmt.Errorf("%w: sharing requires a verified schedule (status %q)", core.ErrPreconditionFailed, u.VerificationStatus)
	}
	u.HasSharedSchedule = true
	return u, nil
}
