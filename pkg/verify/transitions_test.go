package verify

import (
	"errors"
	"testing"

	"github.com/Jabakyo/nextclass/internal/testfixtures"
	"github.com/Jabakyo/nextclass/pkg/core"
)

func fixtureEntries(ids ...string) []core.ScheduleEntry {
	entries := make([]core.ScheduleEntry, len(ids))
	start := core.ClockTime(9 * 60)
	for i, id := range ids {
		entries[i] = core.ScheduleEntry{
			ID:   id,
			Code: id,
			Meetings: []core.MeetingInterval{
				{Days: []core.Weekday{core.Monday}, Start: start, End: start + 50},
			},
		}
		start += 60
	}
	return entries
}

func TestSubmit(t *testing.T) {
	now := testfixtures.ReferenceTime()

	t.Run("from none", func(t *testing.T) {
		u := core.User{ID: "alice", VerificationStatus: core.StatusNone, Classes: fixtureEntries("a")}
		next, err := Submit(u, now)
		if err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
		if next.VerificationStatus != core.StatusPending {
			t.Errorf("status = %s, want pending", next.VerificationStatus)
		}
		if next.VerificationSubmittedAt == nil || !next.VerificationSubmittedAt.Equal(now) {
			t.Error("submission timestamp not stamped")
		}
	})

	t.Run("from rejected", func(t *testing.T) {
		u := core.User{ID: "alice", VerificationStatus: core.StatusRejected, Classes: fixtureEntries("a")}
		next, err := Submit(u, now)
		if err != nil {
			t.Fatalf("resubmission failed: %v", err)
		}
		if next.VerificationStatus != core.StatusPending {
			t.Errorf("status = %s, want pending", next.VerificationStatus)
		}
	})

	t.Run("from pending is invalid", func(t *testing.T) {
		u := core.User{ID: "alice", VerificationStatus: core.StatusPending, Classes: fixtureEntries("a")}
		_, err := Submit(u, now)
		if !errors.Is(err, core.ErrInvalidTransition) {
			t.Errorf("expected ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("from verified is invalid", func(t *testing.T) {
		u := core.User{ID: "alice", VerificationStatus: core.StatusVerified, Classes: fixtureEntries("a")}
		_, err := Submit(u, now)
		if !errors.Is(err, core.ErrInvalidTransition) {
			t.Errorf("expected ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("empty schedule is invalid", func(t *testing.T) {
		u := core.User{ID: "alice", VerificationStatus: core.StatusNone}
		_, err := Submit(u, now)
		if !errors.Is(err, core.ErrInvalidTransition) {
			t.Errorf("expected ErrInvalidTransition, got %v", err)
		}
	})
}

func TestNewRequest(t *testing.T) {
	now := testfixtures.ReferenceTime()
	u := core.User{ID: "alice", Classes: fixtureEntries("a", "b")}

	req := NewRequest("req-1", u, nil, "shot.png", now)
	if req.Status != core.RequestPending {
		t.Errorf("status = %s, want pending", req.Status)
	}
	if len(req.SubmittedClasses) != 2 {
		t.Fatalf("submitted classes = %d, want 2", len(req.SubmittedClasses))
	}
	if req.PreviousClasses != nil {
		t.Error("first submission must not carry previous classes")
	}

	// The snapshot must not alias the user's slice.
	req.SubmittedClasses[0].Meetings[0].Start = 0
	if u.Classes[0].Meetings[0].Start == 0 {
		t.Error("request snapshot aliases the user's class list")
	}

	// Resubmission carries the prior submitted set.
	u.Classes = fixtureEntries("a", "c")
	second := NewRequest("req-2", u, &req, "shot2.png", now)
	if len(second.PreviousClasses) != 2 {
		t.Errorf("previous classes = %d, want 2", len(second.PreviousClasses))
	}
}

func TestReview(t *testing.T) {
	now := testfixtures.ReferenceTime()
	pending := core.VerificationRequest{ID: "req-1", UserID: "alice", Status: core.RequestPending}

	approved, err := Review(pending, true, "", now)
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if approved.Status != core.RequestApproved || approved.ReviewedAt == nil {
		t.Errorf("approved = %+v", approved)
	}

	rejected, err := Review(pending, false, "screenshot unreadable", now)
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if rejected.Status != core.RequestRejected || rejected.Reason != "screenshot unreadable" {
		t.Errorf("rejected = %+v", rejected)
	}

	// Settled requests are immutable.
	if _, err := Review(approved, false, "", now); !errors.Is(err, core.ErrInvalidTransition) {
		t.Errorf("re-review of approved request: got %v", err)
	}
	if _, err := Review(rejected, true, "", now); !errors.Is(err, core.ErrInvalidTransition) {
		t.Errorf("re-review of rejected request: got %v", err)
	}
}

func TestApplyApproval(t *testing.T) {
	now := testfixtures.ReferenceTime()

	u := core.User{ID: "alice", VerificationStatus: core.StatusPending}
	next, err := ApplyApproval(u, now)
	if err != nil {
		t.Fatalf("ApplyApproval failed: %v", err)
	}
	if next.VerificationStatus != core.StatusVerified || next.VerifiedAt == nil {
		t.Errorf("next = %+v", next)
	}

	for _, status := range []core.VerificationStatus{core.StatusNone, core.StatusVerified, core.StatusRejected} {
		u.VerificationStatus = status
		if _, err := ApplyApproval(u, now); !errors.Is(err, core.ErrInvalidTransition) {
			t.Errorf("approval from %s: got %v", status, err)
		}
	}
}

func TestApplyRejection(t *testing.T) {
	u := core.User{ID: "alice", VerificationStatus: core.StatusPending}
	next, err := ApplyRejection(u)
	if err != nil {
		t.Fatalf("ApplyRejection failed: %v", err)
	}
	// Rejected, not none: the UI distinguishes "tried and failed".
	if next.VerificationStatus != core.StatusRejected {
		t.Errorf("status = %s, want rejected", next.VerificationStatus)
	}

	u.VerificationStatus = core.StatusNone
	if _, err := ApplyRejection(u); !errors.Is(err, core.ErrInvalidTransition) {
		t.Errorf("rejection from none: got %v", err)
	}
}

func TestApplyClassChange(t *testing.T) {
	now := testfixtures.ReferenceTime()

	t.Run("demotes verified", func(t *testing.T) {
		verifiedAt := now
		u := core.User{
			ID:                 "alice",
			VerificationStatus: core.StatusVerified,
			VerifiedAt:         &verifiedAt,
			Classes:            fixtureEntries("a"),
		}
		next, err := ApplyClassChange(u, fixtureEntries("a", "b"), now)
		if err != nil {
			t.Fatalf("ApplyClassChange failed: %v", err)
		}
		if next.VerificationStatus != core.StatusNone {
			t.Errorf("status = %s, want none", next.VerificationStatus)
		}
		if next.VerifiedAt != nil {
			t.Error("VerifiedAt should be cleared on demotion")
		}
		if len(next.PreviousClasses) != 1 || next.PreviousClasses[0].ID != "a" {
			t.Errorf("previous classes = %+v", next.PreviousClasses)
		}
		if len(next.Classes) != 2 {
			t.Errorf("classes = %d, want 2", len(next.Classes))
		}
	})

	t.Run("room edit demotes like any change", func(t *testing.T) {
		u := core.User{ID: "alice", VerificationStatus: core.StatusVerified, Classes: fixtureEntries("a")}
		edited := fixtureEntries("a")
		edited[0].Room = "SCI 210"
		next, err := ApplyClassChange(u, edited, now)
		if err != nil {
			t.Fatalf("ApplyClassChange failed: %v", err)
		}
		if next.VerificationStatus != core.StatusNone {
			t.Errorf("status = %s, want none", next.VerificationStatus)
		}
	})

	t.Run("non-verified statuses keep their status", func(t *testing.T) {
		for _, status := range []core.VerificationStatus{core.StatusNone, core.StatusPending, core.StatusRejected} {
			u := core.User{ID: "alice", VerificationStatus: status, Classes: fixtureEntries("a")}
			next, err := ApplyClassChange(u, fixtureEntries("b"), now)
			if err != nil {
				t.Fatalf("ApplyClassChange from %s failed: %v", status, err)
			}
			if next.VerificationStatus != status {
				t.Errorf("status changed from %s to %s", status, next.VerificationStatus)
			}
			if next.PreviousClasses != nil {
				t.Errorf("previous classes snapshotted from %s", status)
			}
		}
	})

	t.Run("rejects conflicting entries", func(t *testing.T) {
		u := core.User{ID: "alice", VerificationStatus: core.StatusVerified, Classes: fixtureEntries("a")}
		clash := fixtureEntries("a", "b")
		clash[1].Meetings[0] = clash[0].Meetings[0]
		_, err := ApplyClassChange(u, clash, now)
		if !errors.Is(err, core.ErrScheduleConflict) {
			t.Errorf("expected ErrScheduleConflict, got %v", err)
		}
		// The input user is returned unchanged on failure.
		if u.VerificationStatus != core.StatusVerified {
			t.Error("failed change must not demote")
		}
	})
}

func TestApplySharing(t *testing.T) {
	t.Run("requires verified", func(t *testing.T) {
		for _, status := range []core.VerificationStatus{core.StatusNone, core.StatusPending, core.StatusRejected} {
			u := core.User{ID: "alice", VerificationStatus: status}
			if _, err := ApplySharing(u, true); !errors.Is(err, core.ErrPreconditionFailed) {
				t.Errorf("sharing from %s: got %v", status, err)
			}
		}
	})

	t.Run("enables for verified", func(t *testing.T) {
		u := core.User{ID: "alice", VerificationStatus: core.StatusVerified}
		next, err := ApplySharing(u, true)
		if err != nil {
			t.Fatalf("ApplySharing failed: %v", err)
		}
		if !next.HasSharedSchedule {
			t.Error("sharing not enabled")
		}
	})

	t.Run("one-way latch", func(t *testing.T) {
		u := core.User{ID: "alice", VerificationStatus: core.StatusVerified, HasSharedSchedule: true}
		if _, err := ApplySharing(u, false); !errors.Is(err, core.ErrPreconditionFailed) {
			t.Errorf("disable of enabled sharing: got %v", err)
		}
	})

	t.Run("disable while not shared is a no-op", func(t *testing.T) {
		u := core.User{ID: "alice", VerificationStatus: core.StatusNone}
		next, err := ApplySharing(u, false)
		if err != nil {
			t.Fatalf("no-op disable failed: %v", err)
		}
		if next.HasSharedSchedule {
			t.Error("sharing enabled unexpectedly")
		}
	})
}

func TestCloneEntries(t *testing.T) {
	original := fixtureEntries("a")
	clone := CloneEntries(original)
	clone[0].Meetings[0].Days[0] = core.Friday
	clone[0].Meetings[0].Start = 0
	if original[0].Meetings[0].Days[0] != core.Monday || original[0].Meetings[0].Start == 0 {
		t.Error("clone aliases the original")
	}
	if CloneEntries(nil) != nil {
		t.Error("clone of nil should stay nil")
	}
}

func TestEntriesEqual(t *testing.T) {
	a := fixtureEntries("a", "b")
	if !EntriesEqual(a, CloneEntries(a)) {
		t.Error("identical sets reported unequal")
	}
	if EntriesEqual(a, fixtureEntries("a")) {
		t.Error("different lengths reported equal")
	}
	b := CloneEntries(a)
	b[1].Room = "SCI 210"
	if EntriesEqual(a, b) {
		t.Error("room edit reported equal")
	}
	// Order matters: reordering is a change.
	c := []core.ScheduleEntry{a[1], a[0]}
	if EntriesEqual(a, c) {
		t.Error("reordered sets reported equal")
	}
}
