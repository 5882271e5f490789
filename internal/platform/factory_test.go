package platform

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Jabakyo/nextclass/internal/testfixtures"
	"github.com/Jabakyo/nextclass/pkg/core"
)

func TestNewWiresCoordinator(t *testing.T) {
	clock := testfixtures.NewClock(time.Time{})
	coordinator, err := New(t.TempDir(),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithClock(clock.NowFunc()),
		WithIDSource(testfixtures.NewIDGenerator("id").NextFunc()),
		WithLockTimeout(time.Second),
		WithReadRetries(1),
		WithMetrics(prometheus.NewRegistry()),
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer coordinator.Store().Close()

	ctx := context.Background()
	u, err := coordinator.RegisterUser(ctx, core.User{ID: "alice"})
	if err != nil {
		t.Fatalf("RegisterUser failed: %v", err)
	}
	if !u.CreatedAt.Equal(clock.Now()) {
		t.Errorf("clock not wired: created at %v", u.CreatedAt)
	}

	got, err := coordinator.GetUser(ctx, "alice")
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if got.ID != "alice" {
		t.Errorf("got %+v", got)
	}
}

func TestOpenStore(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenStore(dir, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err != nil {
		t.Fatalf("OpenStore failed: %v", err)
	}
	defer s.Close()

	// t.TempDir() already lives under the system temp dir, so dev safety
	// leaves it alone.
	if s.Dir() != dir {
		t.Errorf("dir = %q, want %q", s.Dir(), dir)
	}
}
