package platform

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Jabakyo/nextclass/pkg/core"
)

// options holds the internal configuration for the portal factory.
type options struct {
	logger      *slog.Logger
	notifier    core.Notifier
	clock       func() time.Time
	idSource    func() string
	lockTimeout *time.Duration
	readRetries *int
	retryBase   *time.Duration
	eventBuffer int
	metricsReg  prometheus.Registerer
	forceTemp   bool
	devSafety   bool
}

// Option defines a functional option for configuring the portal.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		devSafety: true,
	}
}

// WithLogger sets the logger for the store and coordinator.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithNotifier wires the external notification dispatcher.
func WithNotifier(n core.Notifier) Option {
	return func(o *options) {
		o.notifier = n
	}
}

// WithClock injects the time source used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.clock = now
	}
}

// WithIDSource injects the generator used for new record ids.
func WithIDSource(newID func() string) Option {
	return func(o *options) {
		o.idSource = newID
	}
}

// WithLockTimeout bounds per-key lock acquisition when the caller's context
// carries no deadline.
func WithLockTimeout(d time.Duration) Option {
	return func(o *options) {
		o.lockTimeout = &d
	}
}

// WithReadRetries sets how many extra attempts the store's read path makes
// on a transient failure.
func WithReadRetries(n int) Option {
	return func(o *options) {
		o.readRetries = &n
	}
}

// WithRetryBase sets the initial backoff delay between read attempts.
func WithRetryBase(d time.Duration) Option {
	return func(o *options) {
		o.retryBase = &d
	}
}

// WithEventBuffer sets the per-subscriber change event buffer size.
// Zero means default (100).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.eventBuffer = size
	}
}

// WithMetrics registers store metrics on the given prometheus registerer.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.metricsReg = reg
	}
}

// WithForceTemp forces the data directory into a temporary location
// (useful for testing).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.forceTemp = force
	}
}

// WithDevSafety controls the sandbox mechanism when running via `go run`.
// By default (true), the data directory is rerouted to a temporary location
// to prevent accidental writes into a real data set.
//
// CAUTION: Only disable this if you are sure your code is safe.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.devSafety = enabled
	}
}
