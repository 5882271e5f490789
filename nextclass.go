package nextclass

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Jabakyo/nextclass/internal/platform"
	"github.com/Jabakyo/nextclass/pkg/core"
	"github.com/Jabakyo/nextclass/pkg/portal"
	"github.com/Jabakyo/nextclass/pkg/store"
)

// --- Types ---

// Coordinator is a public alias for the orchestration layer.
type Coordinator = portal.Coordinator

// Store is a public alias for the record store root.
type Store = store.Store

// Collection is a public alias for a typed record collection.
type Collection[T core.Keyed] = store.Collection[T]

// --- Configuration ---

// Option defines a functional option for configuring the portal.
type Option = platform.Option

// WithLogger sets the logger for the store and coordinator.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithNotifier wires the external notification dispatcher.
func WithNotifier(n core.Notifier) Option {
	return platform.WithNotifier(n)
}

// WithClock injects the time source used for record timestamps.
func WithClock(now func() time.Time) Option {
	return platform.WithClock(now)
}

// WithIDSource injects the generator used for new record ids.
func WithIDSource(newID func() string) Option {
	return platform.WithIDSource(newID)
}

// WithLockTimeout bounds per-key lock acquisition when the caller's context
// carries no deadline.
func WithLockTimeout(d time.Duration) Option {
	return platform.WithLockTimeout(d)
}

// WithReadRetries sets how many extra attempts the read path makes on a
// transient failure.
func WithReadRetries(n int) Option {
	return platform.WithReadRetries(n)
}

// WithEventBuffer sets the per-subscriber change event buffer size.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithMetrics registers store metrics on the given prometheus registerer.
func WithMetrics(reg prometheus.Registerer) Option {
	return platform.WithMetrics(reg)
}

// WithForceTemp forces the data directory into a temporary location
// (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithDevSafety controls the sandbox safety mechanism for `go run`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// --- Factory ---

// New opens the record store at path and returns the Coordinator wired over
// it.
func New(path string, opts ...Option) (*portal.Coordinator, error) {
	return platform.New(path, opts...)
}

// Open initializes just the record store, for callers that shape their own
// orchestration.
func Open(path string, opts ...Option) (*store.Store, error) {
	return platform.OpenStore(path, opts...)
}

// NewCollection opens a typed collection against an existing store.
func NewCollection[T core.Keyed](s *store.Store, name string) *store.Collection[T] {
	return store.NewCollection[T](s, name)
}

// --- Safety & Utils ---

// ResolveDataPath determines the actual data directory based on safety rules.
func ResolveDataPath(userPath string, forceTemp bool) string {
	return platform.ResolveDataPath(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindPortalRoot recursively looks upwards for a portal root indicator.
func FindPortalRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
