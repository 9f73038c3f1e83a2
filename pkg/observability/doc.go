/*
Package observability turns engine lifecycle hooks into logs and Prometheus metrics.

Both are plain domain.LifecycleHooks values, so they compose with
domain.MergeHooks and with any hook set of the application:

	metrics, err := observability.NewMetrics(prometheus.DefaultRegisterer)
	...
	app, err := hollywood.New(initial, roster, hollywood.WithLifecycleHooks(
		domain.MergeHooks(metrics.Hooks(), observability.LogHooks(logger)),
	))
*/
package observability
