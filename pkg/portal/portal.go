// Package portal is the orchestration layer the request handlers call into.
//
// A Coordinator sequences every mutation as "read current record, run the
// conflict detector and/or verification transitions, persist atomically"
// inside one per-key lock. Operations that span two collections order their
// writes so the source-of-truth write lands first; if the dependent write
// then fails the operation reports core.ErrPartialFailure for manual
// reconciliation rather than attempting a rollback.
package portal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Jabakyo/nextclass/pkg/core"
	"github.com/Jabakyo/nextclass/pkg/store"
)

// Collection names and their on-disk files (<name>.json).
const (
	CollectionUsers    = "users"
	CollectionEvents   = "events"
	CollectionRequests = "verification_requests"
)

// Coordinator owns the collection handles and the decision of when records
// are mutated. No other component writes to persisted storage.
type Coordinator struct {
	store    *store.Store
	users    *store.Collection[core.User]
	requests *store.Collection[core.VerificationRequest]
	events   *store.Collection[core.CampusEvent]
	notifier core.Notifier
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithNotifier wires the external notification dispatcher. Notifications are
// dispatched only after a transition has been persisted.
func WithNotifier(n core.Notifier) Option {
	return func(c *Coordinator) { c.notifier = n }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) { c.logger = logger }
}

// WithClock injects the time source, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// WithIDSource injects the id generator, for deterministic tests.
func WithIDSource(newID func() string) Option {
	return func(c *Coordinator) { c.newID = newID }
}

// New opens the three collections against the store and returns the
// Coordinator.
func New(s *store.Store, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:    s,
		users:    store.NewCollection[core.User](s, CollectionUsers),
		requests: store.NewCollection[core.VerificationRequest](s, CollectionRequests),
		events:   store.NewCollection[core.CampusEvent](s, CollectionEvents),
		notifier: core.NopNotifier{},
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Store returns the underlying record store, for watch subscriptions and
// shutdown.
func (c *Coordinator) Store() *store.Store { return c.store }

// Users returns the users collection handle for read-only consumers
// (profile views, search).
func (c *Coordinator) Users() *store.Collection[core.User] { return c.users }

// Requests returns the verification request collection handle.
func (c *Coordinator) Requests() *store.Collection[core.VerificationRequest] { return c.requests }

// RegisterUser creates a new user record. The identity layer supplies the
// already-authenticated id.
func (c *Coordinator) RegisterUser(ctx context.Context, u core.User) (core.User, error) {
	if u.ID == "" {
		return u, fmt.Errorf("user id must not be empty")
	}
	u.VerificationStatus = core.StatusNone
	u.CreatedAt = c.now()
	err := c.users.WithLock(ctx, u.ID, func(current core.User, found bool) (core.User, bool, error) {
		if found {
			return current, false, fmt.Errorf("%w: user %s already exists", core.ErrPreconditionFailed, u.ID)
		}
		return u, true, nil
	})
	if err != nil {
		return core.User{}, err
	}
	return u, nil
}

// GetUser reads one user record.
func (c *Coordinator) GetUser(ctx context.Context, id string) (core.User, error) {
	u, found, err := c.users.Get(ctx, id)
	if err != nil {
		return core.User{}, err
	}
	if !found {
		return core.User{}, fmt.Errorf("%w: user %s", core.ErrNotFound, id)
	}
	return u, nil
}

// ListUsers returns a snapshot of all user records.
func (c *Coordinator) ListUsers(ctx context.Context) ([]core.User, error) {
	return c.users.List(ctx)
}

// CreateEvent publishes a campus event. A missing id is assigned.
func (c *Coordinator) CreateEvent(ctx context.Context, ev core.CampusEvent) (core.CampusEvent, error) {
	if ev.ID == "" {
		ev.ID = c.newID()
	}
	if !ev.EndsAt.After(ev.StartsAt) {
		return core.CampusEvent{}, fmt.Errorf("event %s does not end after it starts", ev.ID)
	}
	ev.CreatedAt = c.now()
	err := c.events.WithLock(ctx, ev.ID, func(current core.CampusEvent, found bool) (core.CampusEvent, bool, error) {
		if found {
			return current, false, fmt.Errorf("%w: event %s already exists", core.ErrPreconditionFailed, ev.ID)
		}
		return ev, true, nil
	})
	if err != nil {
		return core.CampusEvent{}, err
	}
	return ev, nil
}

// GetEvent reads one campus event.
func (c *Coordinator) GetEvent(ctx context.Context, id string) (core.CampusEvent, error) {
	ev, found, err := c.events.Get(ctx, id)
	if err != nil {
		return core.CampusEvent{}, err
	}
	if !found {
		return core.CampusEvent{}, fmt.Errorf("%w: event %s", core.ErrNotFound, id)
	}
	return ev, nil
}

// ListEvents returns a snapshot of all campus events.
func (c *Coordinator) ListEvents(ctx context.Context) ([]core.CampusEvent, error) {
	return c.events.List(ctx)
}

func (c *Coordinator) dispatch(ctx context.Context, userID string, kind core.NotificationKind, message string) {
	c.notifier.Dispatch(ctx, core.Notification{
		UserID:  userID,
		Kind:    kind,
		Message: message,
		At:      c.now(),
	})
}
