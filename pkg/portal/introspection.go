package portal

import (
	"github.com/aretw0/introspection"

	"github.com/Jabakyo/nextclass/pkg/core"
)

// CoordinatorState exposes internal state for observability.
type CoordinatorState struct {
	Collections []string `json:"collections"`
	HasNotifier bool     `json:"has_notifier"`
}

// State implements introspection.Introspectable.
func (c *Coordinator) State() any {
	_, nop := c.notifier.(core.NopNotifier)
	return CoordinatorState{
		Collections: []string{CollectionUsers, CollectionEvents, CollectionRequests},
		HasNotifier: !nop,
	}
}

// ComponentType implements introspection.Component.
func (c *Coordinator) ComponentType() string {
	return "coordinator"
}

var _ introspection.Introspectable = (*Coordinator)(nil)
var _ introspection.Component = (*Coordinator)(nil)
