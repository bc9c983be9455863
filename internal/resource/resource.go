// Package resource wraps parameterized asynchronous fetch functions in
// per-parameter-key caches with a four-state lifecycle, registry-wide
// invalidation, and change notification.
//
// A read never blocks: it returns an explicit ready/pending/failed outcome,
// and a pending outcome carries the handle the caller awaits before
// retrying the read. The host rendering integration decides how to suspend
// and retry; this layer only guarantees that at most one fetch is ever in
// flight per (resource, key).
package resource

import (
	"context"
	"sync"
	"time"

	eventbus "github.com/MechanicalRabbit/RexDB/internal/eventbus"
	events "github.com/MechanicalRabbit/RexDB/internal/events"
	fetchid "github.com/MechanicalRabbit/RexDB/internal/fetchid"
)

// Policy controls how a resource behaves under registry-wide invalidation.
type Policy string

const (
	// PolicyRegular caches are cleared by InvalidateAll. The zero value of
	// Policy behaves as regular.
	PolicyRegular Policy = "regular"
	// PolicyNoClear caches survive InvalidateAll and keep serving stale
	// values for the life of the process.
	PolicyNoClear Policy = "no-clear"
)

// Status is the three-way result of a read.
type Status int

const (
	StatusPending Status = iota
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// Outcome is what a read observes for one cache key.
type Outcome[V any] struct {
	Status Status
	Value  V
	Err    error
	// Done is non-nil on a pending outcome and closes when the fetch
	// settles; the caller then retries the read.
	Done <-chan struct{}
}

// Config defines a resource over an arbitrary fetch function.
type Config[V any] struct {
	// Name labels the resource in events and traces.
	Name string
	// Fetch loads the value for one set of parameters. Its rejection is
	// cached verbatim per key; no retry happens anywhere in this layer.
	Fetch func(ctx context.Context, params any) (V, error)
	// Policy defaults to PolicyRegular.
	Policy Policy
}

// Resource is a cacheable, parameterized asynchronous data source. Exactly
// one instance exists per Define call; it lives until the process ends.
type Resource[V any] struct {
	name   string
	fetch  func(ctx context.Context, params any) (V, error)
	pol    Policy
	reg    *Registry
	mu     sync.Mutex
	cache  map[string]*entry[V]
	subs   map[int]func()
	subSeq int
}

// entry is the cache slot for one key: unsettled while the fetch is in
// flight, then holding the settled value or error forever (until the whole
// cache is invalidated).
type entry[V any] struct {
	done    chan struct{}
	settled bool
	value   V
	err     error
}

// Define creates a resource and registers it with reg for invalidation.
// A nil Fetch is a programmer error and panics.
func Define[V any](reg *Registry, cfg Config[V]) *Resource[V] {
	if cfg.Fetch == nil {
		panic("resource.Define: Config.Fetch is nil")
	}
	r := &Resource[V]{
		name:  cfg.Name,
		fetch: cfg.Fetch,
		pol:   cfg.Policy,
		reg:   reg,
		cache: make(map[string]*entry[V]),
		subs:  make(map[int]func()),
	}
	reg.add(r)
	return r
}

// Read computes the cache key for params and reports the key's state,
// starting a fetch when none was ever attempted. A second read arriving
// while a fetch is in flight observes the same Done handle; the fetch count
// does not increase.
func (r *Resource[V]) Read(ctx context.Context, params any) Outcome[V] {
	key, err := Key(params)
	if err != nil {
		return Outcome[V]{Status: StatusFailed, Err: err}
	}
	r.mu.Lock()
	e, ok := r.cache[key]
	if !ok {
		e = &entry[V]{done: make(chan struct{})}
		r.cache[key] = e
		r.mu.Unlock()
		go r.run(ctx, key, e, params)
		return Outcome[V]{Status: StatusPending, Done: e.done}
	}
	defer r.mu.Unlock()
	if !e.settled {
		return Outcome[V]{Status: StatusPending, Done: e.done}
	}
	if e.err != nil {
		return Outcome[V]{Status: StatusFailed, Err: e.err}
	}
	return Outcome[V]{Status: StatusReady, Value: e.value}
}

// Load reads, awaiting settlement as needed, until the key is ready or
// failed. ctx cancels only the wait, never the fetch itself.
func (r *Resource[V]) Load(ctx context.Context, params any) (V, error) {
	var zero V
	for {
		o := r.Read(ctx, params)
		switch o.Status {
		case StatusReady:
			return o.Value, nil
		case StatusFailed:
			return zero, o.Err
		}
		select {
		case <-o.Done:
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
}

// Subscribe registers a change listener, called once per registry-wide
// invalidation that clears this resource. The returned function removes the
// registration.
func (r *Resource[V]) Subscribe(fn func()) (cancel func()) {
	r.mu.Lock()
	id := r.subSeq
	r.subSeq++
	r.subs[id] = fn
	r.mu.Unlock()
	return func() {
		r.mu.Lock()
		delete(r.subs, id)
		r.mu.Unlock()
	}
}

// run executes the fetch out of band and settles the entry. Settlement is
// independent of whether any reader still waits: the result is recorded
// unless a newer flight owns the key by now.
func (r *Resource[V]) run(parent context.Context, key string, e *entry[V], params any) {
	ctx, _ := fetchid.NewContext(context.WithoutCancel(parent))
	start := time.Now()
	eventbus.Publish(ctx, r.reg.bus, events.FetchStart{Resource: r.name, Key: key})

	value, err := r.fetch(ctx, params)

	r.mu.Lock()
	e.value, e.err, e.settled = value, err, true
	if cur, ok := r.cache[key]; !ok || cur == e {
		r.cache[key] = e
	}
	r.mu.Unlock()
	close(e.done)

	eventbus.Publish(ctx, r.reg.bus, events.FetchFinish{
		Resource: r.name,
		Key:      key,
		Err:      err,
		Duration: time.Since(start),
	})
}

func (r *Resource[V]) policy() Policy { return r.pol }

// clear empties the cache and snapshots the current listeners for batched
// notification by the registry.
func (r *Resource[V]) clear() []func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[string]*entry[V])
	listeners := make([]func(), 0, len(r.subs))
	for _, fn := range r.subs {
		listeners = append(listeners, fn)
	}
	return listeners
}
