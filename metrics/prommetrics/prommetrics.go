package prommetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/karupanerura/memoize"
)

// Default histogram buckets for call durations (in seconds).
var defaultBuckets = []float64{
	.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10,
}

// Metrics holds the Prometheus collectors shared by all memoizers registered with it.
// Each memoizer is told apart by the "memoizer" label.
type Metrics struct {
	hitsTotal      *prometheus.CounterVec
	missesTotal    *prometheus.CounterVec
	evictionsTotal *prometheus.CounterVec
	failuresTotal  *prometheus.CounterVec
	callDuration   *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		hitsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "memoize_hits_total",
			Help: "Total number of calls served from the cache",
		}, []string{"memoizer"}),

		missesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "memoize_misses_total",
			Help: "Total number of calls that invoked the wrapped function",
		}, []string{"memoizer"}),

		evictionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "memoize_evictions_total",
			Help: "Total number of forgotten entries",
		}, []string{"memoizer"}),

		failuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "memoize_failures_total",
			Help: "Total number of failed calls of the wrapped function",
		}, []string{"memoizer"}),

		callDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "memoize_call_duration_seconds",
			Help:    "Wrapped function execution time in seconds",
			Buckets: defaultBuckets,
		}, []string{"memoizer"}),
	}

	reg.MustRegister(
		m.hitsTotal,
		m.missesTotal,
		m.evictionsTotal,
		m.failuresTotal,
		m.callDuration,
	)

	return m
}

// For returns the memoize.Metrics of the memoizer called name.
func (m *Metrics) For(name string) memoize.Metrics {
	return &memoizerMetrics{
		hits:      m.hitsTotal.WithLabelValues(name),
		misses:    m.missesTotal.WithLabelValues(name),
		evictions: m.evictionsTotal.WithLabelValues(name),
		failures:  m.failuresTotal.WithLabelValues(name),
		duration:  m.callDuration.WithLabelValues(name),
	}
}

// memoizerMetrics implements memoize.Metrics for one memoizer.
type memoizerMetrics struct {
	hits      prometheus.Counter
	misses    prometheus.Counter
	evictions prometheus.Counter
	failures  prometheus.Counter
	duration  prometheus.Observer
}

var _ memoize.Metrics = (*memoizerMetrics)(nil)

func (m *memoizerMetrics) RecordHit() {
	m.hits.Inc()
}

func (m *memoizerMetrics) RecordMiss() {
	m.misses.Inc()
}

func (m *memoizerMetrics) RecordEvictions(n int) {
	m.evictions.Add(float64(n))
}

func (m *memoizerMetrics) RecordFailure() {
	m.failures.Inc()
}

func (m *memoizerMetrics) ObserveCallDuration(d time.Duration) {
	m.duration.Observe(d.Seconds())
}
