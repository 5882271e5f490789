package platform

import (
	"github.com/Jabakyo/nextclass/pkg/portal"
	"github.com/Jabakyo/nextclass/pkg/store"
)

// New wires a record store and a Coordinator over the given data directory.
//
// Workflow:
//  1. Parse options and resolve the data path (dev safety may reroute it).
//  2. Open the store with the storage options.
//  3. Build the Coordinator with the orchestration options.
func New(path string, opts ...Option) (*portal.Coordinator, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	forceTemp := o.forceTemp
	if o.devSafety && IsDevRun() {
		forceTemp = true
	}
	path = ResolveDataPath(path, forceTemp)

	s, err := Open(path, o)
	if err != nil {
		return nil, err
	}

	portalOpts := []portal.Option{}
	if o.logger != nil {
		portalOpts = append(portalOpts, portal.WithLogger(o.logger))
	}
	if o.notifier != nil {
		portalOpts = append(portalOpts, portal.WithNotifier(o.notifier))
	}
	if o.clock != nil {
		portalOpts = append(portalOpts, portal.WithClock(o.clock))
	}
	if o.idSource != nil {
		portalOpts = append(portalOpts, portal.WithIDSource(o.idSource))
	}

	return portal.New(s, portalOpts...), nil
}

// Open initializes just the record store for callers that shape their own
// orchestration layer.
func Open(path string, o *options) (*store.Store, error) {
	storeOpts := []store.Option{}
	if o.logger != nil {
		storeOpts = append(storeOpts, store.WithLogger(o.logger))
	}
	if o.lockTimeout != nil {
		storeOpts = append(storeOpts, store.WithLockTimeout(*o.lockTimeout))
	}
	if o.readRetries != nil {
		storeOpts = append(storeOpts, store.WithReadRetries(*o.readRetries))
	}
	if o.retryBase != nil {
		storeOpts = append(storeOpts, store.WithRetryBase(*o.retryBase))
	}
	if o.eventBuffer > 0 {
		storeOpts = append(storeOpts, store.WithEventBuffer(o.eventBuffer))
	}
	if o.metricsReg != nil {
		storeOpts = append(storeOpts, store.WithMetrics(store.NewMetrics(o.metricsReg)))
	}
	return store.Open(path, storeOpts...)
}

// OpenStore is the exported variant of Open for the root facade.
func OpenStore(path string, opts ...Option) (*store.Store, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	forceTemp := o.forceTemp
	if o.devSafety && IsDevRun() {
		forceTemp = true
	}
	return Open(ResolveDataPath(path, forceTemp), o)
}
