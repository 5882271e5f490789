package nextclass_test

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/Jabakyo/nextclass"
	"github.com/Jabakyo/nextclass/pkg/core"
)

// Example_basic demonstrates registering a user, building a schedule, and
// running it through verification.
func Example_basic() {
	// Create a temporary directory for the example
	tmpDir, err := os.MkdirTemp("", "nextclass-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	portal, err := nextclass.New(tmpDir)
	if err != nil {
		log.Fatal(err)
	}
	defer portal.Store().Close()

	ctx := context.Background()

	// 1. Register a student
	if _, err := portal.RegisterUser(ctx, core.User{ID: "alice", Name: "Alice"}); err != nil {
		log.Fatal(err)
	}

	// 2. Add a class
	start, _ := core.ParseClock("09:00")
	end, _ := core.ParseClock("09:50")
	err = portal.AddClass(ctx, "alice", core.ScheduleEntry{
		ID:   "cs241",
		Code: "CS241",
		Meetings: []core.MeetingInterval{
			{Days: []core.Weekday{core.Monday, core.Wednesday}, Start: start, End: end},
		},
	})
	if err != nil {
		log.Fatal(err)
	}

	// 3. Submit and approve
	req, err := portal.SubmitForReview(ctx, "alice", "screenshots/alice.png")
	if err != nil {
		log.Fatal(err)
	}
	if err := portal.Approve(ctx, req.ID); err != nil {
		log.Fatal(err)
	}

	user, err := portal.GetUser(ctx, "alice")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Status: %s\n", user.VerificationStatus)
	// Output:
	// Status: verified
}

// ExampleCoordinator_WouldConflict demonstrates the non-committing conflict
// preview.
func ExampleCoordinator_WouldConflict() {
	tmpDir, err := os.MkdirTemp("", "nextclass-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	portal, err := nextclass.New(tmpDir)
	if err != nil {
		log.Fatal(err)
	}
	defer portal.Store().Close()

	ctx := context.Background()
	if _, err := portal.RegisterUser(ctx, core.User{ID: "bob"}); err != nil {
		log.Fatal(err)
	}

	ten, _ := core.ParseClock("10:00")
	eleven, _ := core.ParseClock("11:00")
	existing := core.ScheduleEntry{
		ID:       "math201",
		Meetings: []core.MeetingInterval{{Days: []core.Weekday{core.Monday}, Start: ten, End: eleven}},
	}
	if err := portal.AddClass(ctx, "bob", existing); err != nil {
		log.Fatal(err)
	}

	tenThirty, _ := core.ParseClock("10:30")
	noon, _ := core.ParseClock("12:00")
	candidate := core.ScheduleEntry{
		ID:       "hist105",
		Meetings: []core.MeetingInterval{{Days: []core.Weekday{core.Monday}, Start: tenThirty, End: noon}},
	}

	conflict, err := portal.WouldConflict(ctx, "bob", candidate)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Conflicts: %v\n", conflict)
	// Output:
	// Conflicts: true
}
