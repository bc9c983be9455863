package resource

import (
	"context"
	"time"

	eventbus "github.com/MechanicalRabbit/RexDB/internal/eventbus"
	events "github.com/MechanicalRabbit/RexDB/internal/events"
	fetchid "github.com/MechanicalRabbit/RexDB/internal/fetchid"
)

// Mutation is structurally a resource whose fetch is never cached: Perform
// always executes, and a success invalidates every regular-policy cache in
// the registry before the result is returned to the caller.
type Mutation[V any] struct {
	name  string
	fetch func(ctx context.Context, params any) (V, error)
	reg   *Registry
}

// DefineMutation creates a mutation over an arbitrary fetch function.
// A nil Fetch is a programmer error and panics. Config.Policy is ignored:
// mutations hold no cache.
func DefineMutation[V any](reg *Registry, cfg Config[V]) *Mutation[V] {
	if cfg.Fetch == nil {
		panic("resource.DefineMutation: Config.Fetch is nil")
	}
	return &Mutation[V]{name: cfg.Name, fetch: cfg.Fetch, reg: reg}
}

// DefineQueryMutation creates a mutation whose fetch posts cfg.Query over
// the transport client.
func DefineQueryMutation[V any](reg *Registry, cfg QueryConfig[V]) *Mutation[V] {
	return &Mutation[V]{name: cfg.Name, fetch: cfg.fetch(), reg: reg}
}

// Perform runs the fetch. On success every regular-policy resource in the
// registry is invalidated before the value reaches the caller, so stale
// reads across the process re-fetch. A failing mutation invalidates
// nothing.
func (m *Mutation[V]) Perform(ctx context.Context, params any) (V, error) {
	var zero V
	key, err := Key(params)
	if err != nil {
		// The key only labels events here; a custom fetch may accept params
		// that never serialize, so an unkeyable value must not block it.
		key = "<unserializable>"
	}
	fctx, _ := fetchid.NewContext(ctx)
	start := time.Now()
	eventbus.Publish(fctx, m.reg.bus, events.FetchStart{Resource: m.name, Key: key})

	value, err := m.fetch(fctx, params)

	eventbus.Publish(fctx, m.reg.bus, events.FetchFinish{
		Resource: m.name,
		Key:      key,
		Err:      err,
		Duration: time.Since(start),
	})
	if err != nil {
		return zero, err
	}
	m.reg.InvalidateAll(ctx)
	return value, nil
}
