package core

import "errors"

// Error kinds surfaced by the core. Callers match them with errors.Is; the
// core never swallows one of these to produce a default value.
var (
	// ErrNotFound indicates an unknown record id.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidTransition indicates a verification state machine edge that
	// is not allowed from the current state.
	ErrInvalidTransition = errors.New("invalid verification transition")

	// ErrScheduleConflict indicates an overlapping meeting interval.
	ErrScheduleConflict = errors.New("schedule conflict")

	// ErrPreconditionFailed indicates a sharing toggle that violates the
	// one-way latch or the verified-only precondition.
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrLockTimeout indicates the per-key lock could not be acquired
	// before the caller's deadline.
	ErrLockTimeout = errors.New("lock acquisition timed out")

	// ErrIO indicates an underlying read or write failure, including a
	// corrupt collection document. Reads that hit it are retryable.
	ErrIO = errors.New("storage failure")

	// ErrPartialFailure indicates a coordinated multi-collection operation
	// completed its source-of-truth write but failed the dependent write.
	// Callers must surface it for manual reconciliation.
	ErrPartialFailure = errors.New("coordinated operation partially applied")
)
