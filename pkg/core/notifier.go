package core

import (
	"context"
	"time"
)

// NotificationKind classifies a user-facing notification.
type NotificationKind string

const (
	NotifySubmitted NotificationKind = "verification_submitted"
	NotifyApproved  NotificationKind = "verification_approved"
	NotifyRejected  NotificationKind = "verification_rejected"
	NotifyDemoted   NotificationKind = "verification_demoted"
)

// Notification is handed to the external dispatcher after a state transition
// has been persisted. It is never dispatched for a transition that failed to
// persist.
type Notification struct {
	UserID  string
	Kind    NotificationKind
	Message string
	At      time.Time
}

// Notifier is the externally-owned notification dispatcher.
type Notifier interface {
	Dispatch(ctx context.Context, n Notification)
}

// NopNotifier discards all notifications. It is the default when no
// dispatcher is wired in.
type NopNotifier struct{}

// Dispatch implements Notifier.
func (NopNotifier) Dispatch(context.Context, Notification) {}
