package events

import "time"

// FetchStart is emitted when a resource starts a fetch for a cache key.
// Context carries the fetch ID.
type FetchStart struct {
	Resource string
	Key      string
}

// FetchFinish is emitted when the fetch settles, whether or not any reader
// is still waiting.
type FetchFinish struct {
	Resource string
	Key      string
	Err      error
	Duration time.Duration
}

// Invalidated is emitted after a registry-wide invalidation has cleared all
// affected caches and notified their listeners.
type Invalidated struct {
	Resources int
}
