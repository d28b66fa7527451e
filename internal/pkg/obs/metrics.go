package obs

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	sweepUnitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "timekeeper_sweep_units_total",
			Help: "Per-unit outcomes of the recovery sweeps.",
		},
		[]string{"job", "outcome"},
	)

	sweepRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "timekeeper_sweep_runs_total",
			Help: "Completed recovery sweep runs.",
		},
		[]string{"job"},
	)

	aggregationRunsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "timekeeper_aggregation_runs_total",
			Help: "Daily attendance aggregation executions.",
		},
	)
)

// Init registers the metrics in the default registry.
func Init() {
	prometheus.MustRegister(sweepUnitsTotal, sweepRunsTotal, aggregationRunsTotal)
}

// Handler exposes the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

func ObserveSweepUnit(job, outcome string) {
	sweepUnitsTotal.WithLabelValues(job, outcome).Inc()
}

func ObserveSweepRun(job string) {
	sweepRunsTotal.WithLabelValues(job).Inc()
}

func ObserveAggregation() {
	aggregationRunsTotal.Inc()
}
