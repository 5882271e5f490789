package portal

import (
	"context"
	"fmt"

	"github.com/Jabakyo/nextclass/pkg/core"
	"github.com/Jabakyo/nextclass/pkg/verify"
)

// SubmitForReview files the user's current schedule for manual verification.
// The user's status moves to pending (the source-of-truth write) and a new
// VerificationRequest snapshot is created alongside it; each submission
// creates a new request record so review history is preserved. If the
// snapshot write fails after the status write landed, the operation reports
// core.ErrPartialFailure.
func (c *Coordinator) SubmitForReview(ctx context.Context, userID, screenshotRef string) (core.VerificationRequest, error) {
	var snapshot core.VerificationRequest
	err := c.users.WithLock(ctx, userID, func(u core.User, found bool) (core.User, bool, error) {
		if !found {
			return u, false, fmt.Errorf("%w: user %s", core.ErrNotFound, userID)
		}
		next, err := verify.Submit(u, c.now())
		if err != nil {
			return u, false, err
		}
		// Looked up under the user lock so a review racing this submission
		// cannot slip in a newer request after the snapshot is taken.
		prior, err := c.latestRequestFor(ctx, userID)
		if err != nil {
			return u, false, err
		}
		snapshot = verify.NewRequest(c.newID(), next, prior, screenshotRef, c.now())
		return next, true, nil
	})
	if err != nil {
		return core.VerificationRequest{}, err
	}

	err = c.requests.WithLock(ctx, snapshot.ID, func(current core.VerificationRequest, found bool) (core.VerificationRequest, bool, error) {
		if found {
			return current, false, fmt.Errorf("request id %s already in use", snapshot.ID)
		}
		return snapshot, true, nil
	})
	if err != nil {
		return core.VerificationRequest{}, fmt.Errorf("%w: user %s is pending but request snapshot failed: %v", core.ErrPartialFailure, userID, err)
	}

	c.dispatch(ctx, userID, core.NotifySubmitted, "Your schedule was submitted for verification.")
	return snapshot, nil
}

// Approve settles a pending request and marks its user verified. The
// request write is the source of truth and lands first; if the dependent
// user write fails the operation reports core.ErrPartialFailure for manual
// reconciliation (the approved request is individually valid on its own).
func (c *Coordinator) Approve(ctx context.Context, requestID string) error {
	userID, err := c.review(ctx, requestID, true, "")
	if err != nil {
		return err
	}

	err = c.users.WithLock(ctx, userID, func(u core.User, found bool) (core.User, bool, error) {
		if !found {
			return u, false, fmt.Errorf("%w: user %s", core.ErrNotFound, userID)
		}
		next, err := verify.ApplyApproval(u, c.now())
		if err != nil {
			return u, false, err
		}
		return next, true, nil
	})
	if err != nil {
		return fmt.Errorf("%w: request %s approved but user %s was not verified: %v", core.ErrPartialFailure, requestID, userID, err)
	}

	c.dispatch(ctx, userID, core.NotifyApproved, "Your schedule was verified.")
	return nil
}

// Reject settles a pending request as rejected with a reason and marks its
// user rejected (not none), so resubmission stays open.
func (c *Coordinator) Reject(ctx context.Context, requestID, reason string) error {
	userID, err := c.review(ctx, requestID, false, reason)
	if err != nil {
		return err
	}

	err = c.users.WithLock(ctx, userID, func(u core.User, found bool) (core.User, bool, error) {
		if !found {
			return u, false, fmt.Errorf("%w: user %s", core.ErrNotFound, userID)
		}
		next, err := verify.ApplyRejection(u)
		if err != nil {
			return u, false, err
		}
		return next, true, nil
	})
	if err != nil {
		return fmt.Errorf("%w: request %s rejected but user %s was not updated: %v", core.ErrPartialFailure, requestID, userID, err)
	}

	c.dispatch(ctx, userID, core.NotifyRejected, "Your schedule verification was rejected: "+reason)
	return nil
}

// review performs the source-of-truth write: the request transition.
func (c *Coordinator) review(ctx context.Context, requestID string, approve bool, reason string) (userID string, err error) {
	err = c.requests.WithLock(ctx, requestID, func(req core.VerificationRequest, found bool) (core.VerificationRequest, bool, error) {
		if !found {
			return req, false, fmt.Errorf("%w: request %s", core.ErrNotFound, requestID)
		}
		next, err := verify.Review(req, approve, reason, c.now())
		if err != nil {
			return req, false, err
		}
		userID = next.UserID
		return next, true, nil
	})
	return userID, err
}

// SetSharing flips the one-way sharing latch for a user.
func (c *Coordinator) SetSharing(ctx context.Context, userID string, want bool) error {
	return c.users.WithLock(ctx, userID, func(u core.User, found bool) (core.User, bool, error) {
		if !found {
			return u, false, fmt.Errorf("%w: user %s", core.ErrNotFound, userID)
		}
		next, err := verify.ApplySharing(u, want)
		if err != nil {
			return u, false, err
		}
		return next, next.HasSharedSchedule != u.HasSharedSchedule, nil
	})
}

// GetRequest reads one verification request.
func (c *Coordinator) GetRequest(ctx context.Context, id string) (core.VerificationRequest, error) {
	req, found, err := c.requests.Get(ctx, id)
	if err != nil {
		return core.VerificationRequest{}, err
	}
	if !found {
		return core.VerificationRequest{}, fmt.Errorf("%w: request %s", core.ErrNotFound, id)
	}
	return req, nil
}

// ListRequests returns all verification requests, optionally filtered by
// status ("" means all).
func (c *Coordinator) ListRequests(ctx context.Context, status core.RequestStatus) ([]core.VerificationRequest, error) {
	all, err := c.requests.List(ctx)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return all, nil
	}
	filtered := make([]core.VerificationRequest, 0, len(all))
	for _, req := range all {
		if req.Status == status {
			filtered = append(filtered, req)
		}
	}
	return filtered, nil
}

// latestRequestFor finds the user's most recent request, if any.
func (c *Coordinator) latestRequestFor(ctx context.Context, userID string) (*core.VerificationRequest, error) {
	all, err := c.requests.List(ctx)
	if err != nil {
		return nil, err
	}
	var latest *core.VerificationRequest
	for i := range all {
		req := all[i]
		if req.UserID != userID {
			continue
		}
		if latest == nil || req.SubmittedAt.After(latest.SubmittedAt) {
			latest = &req
		}
	}
	return latest, nil
}
