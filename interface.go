package memoize

import (
	"context"
	"time"
)

// Func is the function signature that Memoizer wraps.
// The arguments are used to derive the cache key, so they must be encodable by argkey.Encode.
type Func[V any] func(ctx context.Context, args ...any) (V, error)

// Entry is a memoized result.
type Entry[V any] struct {
	// Value is the result returned by the wrapped function.
	Value V

	// Created is the time the entry was stored.
	// It is set once and never refreshed on recall.
	Created time.Time
}

// ForgetPolicy decides whether a memoized entry should be evicted.
// Memoizer evaluates it for every stored entry before each lookup.
// Implementations must not have side effects on the entry or the entries.
type ForgetPolicy[V any] interface {
	// Forget returns true if the entry stored under key should be evicted now.
	// entries is a read-only view of all entries as they were when the sweep started.
	Forget(key string, entry Entry[V], entries *Entries[V]) bool
}

// ForgetFunc is a function type that implements the ForgetPolicy interface.
type ForgetFunc[V any] func(key string, entry Entry[V], entries *Entries[V]) bool

// Forget calls the function.
func (f ForgetFunc[V]) Forget(key string, entry Entry[V], entries *Entries[V]) bool {
	return f(key, entry, entries)
}

// Metrics receives instrumentation events from a Memoizer.
// Implementations must be thread-safe.
type Metrics interface {
	// RecordHit is called when a call is served from the cache.
	RecordHit()

	// RecordMiss is called when a call has to invoke the wrapped function.
	RecordMiss()

	// RecordEvictions is called with the number of entries removed by a sweep or an invalidation.
	RecordEvictions(n int)

	// RecordFailure is called when the wrapped function fails.
	RecordFailure()

	// ObserveCallDuration is called with the duration of every wrapped function invocation.
	ObserveCallDuration(time.Duration)
}

// NopMetrics is a Metrics implementation that discards every event.
type NopMetrics struct{}

var _ Metrics = NopMetrics{}

func (NopMetrics) RecordHit()                        {}
func (NopMetrics) RecordMiss()                       {}
func (NopMetrics) RecordEvictions(int)               {}
func (NopMetrics) RecordFailure()                    {}
func (NopMetrics) ObserveCallDuration(time.Duration) {}
