/*
Package observability turns dispatcher events into logs and Prometheus metrics.

Both are delivered as domain.Hooks, so they can be merged and passed to
intent.WithHooks:

	m := observability.NewMetrics()
	d := intent.New(intent.WithHooks(m.Hooks().Merge(observability.LogHooks(logger))))
	http.Handle("/metrics", m.Handler())
*/
package observability
