// Package eventbus is a small in-process event dispatcher. Unlike a logging
// hook it carries typed payloads: subscribers register a handler for one
// event type and receive only events of that type.
//
// A Bus is owned by whoever composes the application (the resource registry
// owns one); there is no package-level bus.
package eventbus

import (
	"context"
	"reflect"
	"sync"
)

// Handler processes events of type T.
type Handler[T any] func(context.Context, T)

// Bus dispatches events to handlers keyed by the event's dynamic type.
type Bus struct {
	mu       sync.RWMutex
	handlers map[reflect.Type][]*handler
}

type handler struct {
	fn func(context.Context, any)
}

// New creates an empty Bus.
func New() *Bus { return &Bus{handlers: make(map[reflect.Type][]*handler)} }

// Subscribe registers h for events of type T and returns a function that
// removes the registration. Subscribing to a nil bus is a no-op.
func Subscribe[T any](b *Bus, h Handler[T]) (unsubscribe func()) {
	if b == nil {
		return func() {}
	}
	t := reflect.TypeOf((*T)(nil)).Elem()
	entry := &handler{fn: func(ctx context.Context, v any) { h(ctx, v.(T)) }}

	b.mu.Lock()
	b.handlers[t] = append(b.handlers[t], entry)
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		hs := b.handlers[t]
		for i, e := range hs {
			if e == entry {
				hs = append(hs[:i], hs[i+1:]...)
				break
			}
		}
		if len(hs) == 0 {
			delete(b.handlers, t)
		} else {
			b.handlers[t] = hs
		}
	}
}

// Publish dispatches e to every handler registered for T. Handlers run
// synchronously on the publishing goroutine. Publishing to a nil bus is a
// no-op.
func Publish[T any](ctx context.Context, b *Bus, e T) {
	if b == nil {
		return
	}
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.mu.RLock()
	hs := append([]*handler(nil), b.handlers[t]...)
	b.mu.RUnlock()
	for _, h := range hs {
		h.fn(ctx, e)
	}
}
