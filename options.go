package memoize

import "log/slog"

// Option is the interface for the options of the Memoizer.
type Option[V any] interface {
	apply(*options[V])
}

type optionFunc[V any] func(*options[V])

func (f optionFunc[V]) apply(o *options[V]) {
	f(o)
}

// WithClock sets the clock used to stamp the creation time of entries.
// The default clock is SystemClock.
func WithClock[V any](clock Clock) Option[V] {
	return optionFunc[V](func(o *options[V]) {
		o.clock = clock
	})
}

// WithLogger sets the logger for diagnostic records.
// Recalls, remembers and forgets are logged at debug level, failures at warn level.
// By default nothing is logged.
func WithLogger[V any](logger *slog.Logger) Option[V] {
	return optionFunc[V](func(o *options[V]) {
		o.logger = logger
	})
}

// WithMetrics sets the metrics recorder.
// The default is NopMetrics.
func WithMetrics[V any](metrics Metrics) Option[V] {
	return optionFunc[V](func(o *options[V]) {
		o.metrics = metrics
	})
}

// WithValueCloner sets the value cloner.
// The default value cloner is DefaultValueCloner.
func WithValueCloner[V any](cloner ValueCloner[V]) Option[V] {
	return optionFunc[V](func(o *options[V]) {
		o.cloner = cloner
	})
}

// WithSingleFlight makes concurrent calls that miss on the same key share one invocation
// of the wrapped function. Without it every concurrent miss invokes the function and the
// result that resolves last is the one that stays memoized.
func WithSingleFlight[V any]() Option[V] {
	return optionFunc[V](func(o *options[V]) {
		o.singleFlight = true
	})
}

type options[V any] struct {
	clock        Clock
	logger       *slog.Logger
	metrics      Metrics
	cloner       ValueCloner[V]
	singleFlight bool
}

func defaultOptions[V any]() options[V] {
	return options[V]{
		clock:   SystemClock,
		logger:  slog.New(slog.DiscardHandler),
		metrics: NopMetrics{},
	}
}
