// Package prommetrics provides a Prometheus implementation of memoize.Metrics.
//
//	reg := prometheus.NewRegistry()
//	metrics := prommetrics.New(reg)
//	m := memoize.New(fn, policy, memoize.WithMetrics[User](metrics.For("users")))
package prommetrics
