package portal

import (
	"context"
	"fmt"

	"github.com/Jabakyo/nextclass/pkg/core"
	"github.com/Jabakyo/nextclass/pkg/schedule"
	"github.com/Jabakyo/nextclass/pkg/verify"
)

// AddClass appends a class to the user's schedule. The conflict check and
// the verified-status demotion happen in the same atomic write as the entry
// itself.
func (c *Coordinator) AddClass(ctx context.Context, userID string, entry core.ScheduleEntry) error {
	return c.mutateClasses(ctx, userID, func(current []core.ScheduleEntry) ([]core.ScheduleEntry, error) {
		for _, e := range current {
			if e.ID == entry.ID {
				return nil, fmt.Errorf("%w: class %s is already on the schedule", core.ErrPreconditionFailed, entry.ID)
			}
		}
		return append(verify.CloneEntries(current), entry), nil
	})
}

// RemoveClass drops a class from the user's schedule.
func (c *Coordinator) RemoveClass(ctx context.Context, userID, entryID string) error {
	return c.mutateClasses(ctx, userID, func(current []core.ScheduleEntry) ([]core.ScheduleEntry, error) {
		next := make([]core.ScheduleEntry, 0, len(current))
		removed := false
		for _, e := range current {
			if e.ID == entryID {
				removed = true
				continue
			}
			next = append(next, e)
		}
		if !removed {
			return nil, fmt.Errorf("%w: class %s", core.ErrNotFound, entryID)
		}
		return verify.CloneEntries(next), nil
	})
}

// UpdateClass replaces a class in place, keyed by entry id. An edit that
// changes any content (a room, a meeting time) counts as a class-list
// change and demotes a verified status like any other mutation.
func (c *Coordinator) UpdateClass(ctx context.Context, userID string, entry core.ScheduleEntry) error {
	return c.mutateClasses(ctx, userID, func(current []core.ScheduleEntry) ([]core.ScheduleEntry, error) {
		next := verify.CloneEntries(current)
		for i, e := range next {
			if e.ID == entry.ID {
				next[i] = entry
				return next, nil
			}
		}
		return nil, fmt.Errorf("%w: class %s", core.ErrNotFound, entry.ID)
	})
}

// ReplaceClasses swaps the user's whole class list for a new set.
func (c *Coordinator) ReplaceClasses(ctx context.Context, userID string, entries []core.ScheduleEntry) error {
	return c.mutateClasses(ctx, userID, func([]core.ScheduleEntry) ([]core.ScheduleEntry, error) {
		return entries, nil
	})
}

// WouldConflict previews whether adding candidate to the user's current
// schedule would clash, without committing anything.
func (c *Coordinator) WouldConflict(ctx context.Context, userID string, candidate core.ScheduleEntry) (bool, error) {
	u, err := c.GetUser(ctx, userID)
	if err != nil {
		return false, err
	}
	return schedule.Conflicts(u.Classes, candidate), nil
}

// mutateClasses is the single chokepoint for every class-list mutation. The
// build callback computes the next entry set from the freshly loaded current
// one inside the user's lock; verify.ApplyClassChange then runs the conflict
// check and the unconditional verified-to-none demotion in the same
// transaction. A build that returns an identical set is the idempotent no-op
// path: nothing is written and a verified status survives.
func (c *Coordinator) mutateClasses(ctx context.Context, userID string, build func(current []core.ScheduleEntry) ([]core.ScheduleEntry, error)) error {
	demoted := false
	err := c.users.WithLock(ctx, userID, func(u core.User, found bool) (core.User, bool, error) {
		if !found {
			return u, false, fmt.Errorf("%w: user %s", core.ErrNotFound, userID)
		}
		next, err := build(u.Classes)
		if err != nil {
			return u, false, err
		}
		if verify.EntriesEqual(u.Classes, next) {
			return u, false, nil
		}
		wasVerified := u.VerificationStatus == core.StatusVerified
		updated, err := verify.ApplyClassChange(u, next, c.now())
		if err != nil {
			return u, false, err
		}
		demoted = wasVerified
		return updated, true, nil
	})
	if err != nil {
		return err
	}
	if demoted {
		c.logger.Info("verified schedule changed, status demoted", "user", userID)
		c.dispatch(ctx, userID, core.NotifyDemoted, "Your schedule changed, so its verification was reset.")
	}
	return nil
}
