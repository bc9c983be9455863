package resource

import (
	"context"
	"sync"

	eventbus "github.com/MechanicalRabbit/RexDB/internal/eventbus"
	events "github.com/MechanicalRabbit/RexDB/internal/events"
)

// Registry owns every resource defined against it and drives registry-wide
// invalidation. Its lifetime is owned by whatever composes the application;
// there is no package-level registry.
type Registry struct {
	mu        sync.Mutex
	resources []invalidatable
	bus       *eventbus.Bus
}

type invalidatable interface {
	policy() Policy
	clear() []func()
}

type RegistryOption func(*Registry)

// WithBus attaches an event bus the registry and its resources publish
// fetch and invalidation events to.
func WithBus(b *eventbus.Bus) RegistryOption {
	return func(g *Registry) { g.bus = b }
}

// NewRegistry creates an empty registry. Without WithBus, events are
// dropped.
func NewRegistry(opts ...RegistryOption) *Registry {
	g := &Registry{}
	for _, f := range opts {
		f(g)
	}
	return g
}

// Bus returns the registry's event bus, which may be nil.
func (g *Registry) Bus() *eventbus.Bus { return g.bus }

func (g *Registry) add(r invalidatable) {
	g.mu.Lock()
	g.resources = append(g.resources, r)
	g.mu.Unlock()
}

// InvalidateAll clears the whole cache of every registered resource whose
// policy is not no-clear, then notifies each affected resource's listeners
// exactly once. All caches are cleared before any listener fires, so
// concurrent readers re-fetch together rather than one-by-one.
func (g *Registry) InvalidateAll(ctx context.Context) {
	g.mu.Lock()
	var listeners []func()
	affected := 0
	for _, res := range g.resources {
		if res.policy() == PolicyNoClear {
			continue
		}
		listeners = append(listeners, res.clear()...)
		affected++
	}
	g.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
	eventbus.Publish(ctx, g.bus, events.Invalidated{Resources: affected})
}
