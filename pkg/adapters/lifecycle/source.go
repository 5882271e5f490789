package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/Jabakyo/nextclass/pkg/core"
)

type changeSource struct {
	changes <-chan core.Change
	out     chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that emits record store changes.
// It bridges the typed change channel (from store.Watch) to the generic
// lifecycle Event interface so applications can supervise the stream with
// the rest of their workers.
func NewSource(changes <-chan core.Change) lifecycle.Source {
	return &changeSource{
		changes: changes,
		out:     make(chan lifecycle.Event),
	}
}

func (s *changeSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *changeSource) Start(ctx context.Context) error {
	// core.Change implements lifecycle.Event (has String()); lifecycle.Go
	// keeps the bridge goroutine tracked and safe.
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case c, ok := <-s.changes:
				if !ok {
					return nil
				}
				select {
				case s.out <- c:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
