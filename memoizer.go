package memoize

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/karupanerura/memoize/argkey"
	"github.com/karupanerura/memoize/internal/panicutil"
)

// Memoizer memoizes the results of a function by its arguments.
// Before every lookup it sweeps the memoized entries with its ForgetPolicy.
// Each Memoizer owns its entries; nothing is shared between memoizers.
type Memoizer[V any] struct {
	fn      Func[V]
	policy  ForgetPolicy[V]
	options options[V]
	group   *singleflight.Group

	mu      sync.Mutex
	entries map[string]*Entry[V]
}

// New creates a Memoizer for fn that evicts entries with policy.
func New[V any](fn Func[V], policy ForgetPolicy[V], opts ...Option[V]) *Memoizer[V] {
	options := defaultOptions[V]()
	for _, opt := range opts {
		opt.apply(&options)
	}
	if options.cloner == nil {
		options.cloner = DefaultValueCloner[V]()
	}

	m := &Memoizer[V]{
		fn:      fn,
		policy:  policy,
		options: options,
		entries: map[string]*Entry[V]{},
	}
	if options.singleFlight {
		m.group = &singleflight.Group{}
	}
	return m
}

// Call returns the memoized result for args, or calls the function and memoizes its result.
// If args cannot be encoded, it returns an *argkey.Error and the function is not called.
// If the function fails, it returns a *CallError and nothing is memoized.
// In single-flight mode Call stops waiting when ctx is done, but the shared call keeps running.
func (m *Memoizer[V]) Call(ctx context.Context, args ...any) (V, error) {
	key, err := argkey.Encode(args...)
	if err != nil {
		var zero V
		return zero, err
	}

	if value, ok := m.recall(ctx, key); ok {
		m.options.metrics.RecordHit()
		return value, nil
	}

	if m.group != nil {
		value, hit, err := m.loadShared(ctx, key, args)
		if hit {
			m.options.metrics.RecordHit()
		} else {
			m.options.metrics.RecordMiss()
		}
		return value, err
	}
	m.options.metrics.RecordMiss()
	return m.load(ctx, key, args)
}

// Len returns the number of memoized entries.
func (m *Memoizer[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Keys returns the keys of the memoized entries in ascending order.
func (m *Memoizer[V]) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return newEntries(m.entries).Keys()
}

// Invalidate evicts the entry for args and reports whether there was one.
func (m *Memoizer[V]) Invalidate(ctx context.Context, args ...any) (bool, error) {
	key, err := argkey.Encode(args...)
	if err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[key]; !ok {
		return false, nil
	}
	m.forgetLocked(ctx, key)
	m.options.metrics.RecordEvictions(1)
	return true, nil
}

// Purge evicts all entries.
func (m *Memoizer[V]) Purge(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.entries)
	for key := range m.entries {
		m.forgetLocked(ctx, key)
	}
	if n != 0 {
		m.options.metrics.RecordEvictions(n)
	}
}

// recall sweeps the entries and then looks up key.
func (m *Memoizer[V]) recall(ctx context.Context, key string) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweepLocked(ctx)
	if e, ok := m.entries[key]; ok {
		m.options.logger.DebugContext(ctx, "recall",
			slog.String("key", key),
			slog.Time("created", e.Created),
			slog.Int("count", len(m.entries)),
		)
		return m.options.cloner.CloneValue(e.Value), true
	}

	var zero V
	return zero, false
}

// sweepLocked evaluates the policy for every entry against the entries as they are
// before the sweep, then removes the ones it selected.
func (m *Memoizer[V]) sweepLocked(ctx context.Context) {
	if len(m.entries) == 0 {
		return
	}

	view := newEntries(m.entries)
	var forgotten []string
	for key, e := range m.entries {
		if m.policy.Forget(key, *e, view) {
			forgotten = append(forgotten, key)
		}
	}
	for _, key := range forgotten {
		m.forgetLocked(ctx, key)
	}
	if len(forgotten) != 0 {
		m.options.metrics.RecordEvictions(len(forgotten))
	}
}

func (m *Memoizer[V]) forgetLocked(ctx context.Context, key string) {
	e := m.entries[key]
	delete(m.entries, key)
	m.options.logger.DebugContext(ctx, "forget",
		slog.String("key", key),
		slog.Time("created", e.Created),
		slog.Int("count", len(m.entries)),
	)
}

// remember stores value under key, overwriting any entry stored meanwhile.
func (m *Memoizer[V]) remember(ctx context.Context, key string, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := &Entry[V]{
		Value:   m.options.cloner.CloneValue(value),
		Created: m.options.clock.Now(),
	}
	m.entries[key] = e
	m.options.logger.DebugContext(ctx, "remember",
		slog.String("key", key),
		slog.Time("created", e.Created),
		slog.Int("count", len(m.entries)),
	)
}

// peek looks up key without sweeping.
func (m *Memoizer[V]) peek(key string) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.entries[key]; ok {
		return m.options.cloner.CloneValue(e.Value), true
	}
	var zero V
	return zero, false
}

// load calls the function on the caller's goroutine and memoizes a successful result.
func (m *Memoizer[V]) load(ctx context.Context, key string, args []any) (V, error) {
	value, err := m.invoke(ctx, key, args, nil)
	if err != nil {
		var zero V
		return zero, err
	}
	m.remember(ctx, key, value)
	return value, nil
}

// flight is the result of a shared call.
type flight[V any] struct {
	value V

	// recalled is true if the value was memoized by an earlier flight.
	recalled bool
}

// loadShared is load for single-flight mode.
// Concurrent misses on the same key wait for one shared call.
// It reports whether the value was already memoized when the flight started.
func (m *Memoizer[V]) loadShared(ctx context.Context, key string, args []any) (V, bool, error) {
	ch := m.group.DoChan(key, func() (any, error) {
		// another flight may have finished between the sweep and now
		if value, ok := m.peek(key); ok {
			return flight[V]{value: value, recalled: true}, nil
		}

		value, err := m.invokeDetached(context.WithoutCancel(ctx), key, args)
		if err != nil {
			return nil, err
		}
		m.remember(ctx, key, value)
		return flight[V]{value: value}, nil
	})

	var zero V
	select {
	case r := <-ch:
		if r.Err != nil {
			return zero, false, r.Err
		}
		f, _ := r.Val.(flight[V])
		if r.Shared {
			f.value = m.options.cloner.CloneValue(f.value)
		}
		return f.value, f.recalled, nil
	case <-ctx.Done():
		return zero, false, ctx.Err()
	}
}

// invokeDetached runs invoke on its own goroutine so that runtime.Goexit in the
// function cannot terminate the shared flight without a result.
func (m *Memoizer[V]) invokeDetached(ctx context.Context, key string, args []any) (value V, err error) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		value, err = m.invoke(ctx, key, args, func() {
			err = m.fail(ctx, key, ErrGoexit)
		})
	}()
	<-done
	return
}

// invoke calls the function, converting a panic into a *CallError.
func (m *Memoizer[V]) invoke(ctx context.Context, key string, args []any, onGoexit func()) (V, error) {
	start := m.options.clock.Now()
	value, err := panicutil.Call(func() (V, error) {
		return m.fn(ctx, args...)
	}, onGoexit)
	m.options.metrics.ObserveCallDuration(m.options.clock.Now().Sub(start))
	if err != nil {
		var zero V
		return zero, m.fail(ctx, key, err)
	}
	return value, nil
}

func (m *Memoizer[V]) fail(ctx context.Context, key string, err error) error {
	m.options.metrics.RecordFailure()
	m.options.logger.WarnContext(ctx, "memoized call failed",
		slog.String("key", key),
		slog.Any("error", err),
	)
	return &CallError{Key: key, Err: err}
}
