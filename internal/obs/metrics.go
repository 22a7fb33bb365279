// Package obs exposes Prometheus counters and gauges for the scheduler
// itself — ticks run per world, runs in flight, run duration — distinct
// from the deterministic metric/tracker graph in internal/metrics, which
// is domain output, not operational telemetry. Collectors are
// package-level vars; Registry registers them into a fresh registry for
// whatever HTTP handler the embedding application wires up.
package obs

import "github.com/prometheus/client_golang/prometheus"

var (
	// TicksTotal counts ticks processed across every World this process
	// has run, labeled by run id so a fleet's per-run throughput is
	// visible without scraping per-instance endpoints.
	TicksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backtest_engine_ticks_total",
			Help: "Ticks processed by the scheduler loop",
		},
		[]string{"run_id"},
	)

	// RunsInFlight is a gauge of Worlds currently executing Run, mostly
	// useful when internal/fleet drives many concurrently.
	RunsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "backtest_engine_runs_in_flight",
			Help: "Worlds currently executing Run",
		},
	)

	// RunDurationSeconds observes wall-clock duration of a completed Run.
	RunDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backtest_engine_run_duration_seconds",
			Help:    "Wall-clock duration of one World.Run call",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"run_id"},
	)
)

// Registry bundles the collectors above behind a dedicated
// prometheus.Registry rather than the global DefaultRegisterer, so an
// embedding application can mount it wherever it wants (or not at all)
// without colliding with its own metric namespace.
func Registry() *prometheus.Registry {
	r := prometheus.NewRegistry()
	r.MustRegister(TicksTotal, RunsInFlight, RunDurationSeconds)
	return r
}
