package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// water-quality ETL run.
type Metrics struct {
	ObservationsFetched prometheus.Counter
	SitesFetched        prometheus.Counter
	RowsExcluded        *prometheus.CounterVec // labels: reason={unrecognized,unmapped}
	NonNumericValues    prometheus.Counter
	Substitutions       prometheus.Counter
	AggregatesProduced  prometheus.Counter
	WideRecordsProduced prometheus.Counter

	RunDuration    prometheus.Histogram
	LastRunSuccess prometheus.Gauge
}

// NewMetrics creates and registers all run metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.ObservationsFetched,
		m.SitesFetched,
		m.RowsExcluded,
		m.NonNumericValues,
		m.Substitutions,
		m.AggregatesProduced,
		m.WideRecordsProduced,
		m.RunDuration,
		m.LastRunSuccess,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ObservationsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wq_etl",
			Name:      "observations_fetched_total",
			Help:      "Total raw result rows fetched from the portal.",
		}),
		SitesFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wq_etl",
			Name:      "sites_fetched_total",
			Help:      "Total station metadata rows fetched from the portal.",
		}),
		RowsExcluded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wq_etl",
			Name:      "rows_excluded_total",
			Help:      "Rows dropped during normalization by reason.",
		}, []string{"reason"}),
		NonNumericValues: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wq_etl",
			Name:      "non_numeric_values_total",
			Help:      "Result values coerced to missing because they were not numeric.",
		}),
		Substitutions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wq_etl",
			Name:      "detection_limit_substitutions_total",
			Help:      "Missing values replaced with half the detection limit (opt-in).",
		}),
		AggregatesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wq_etl",
			Name:      "aggregates_produced_total",
			Help:      "Deduplicated (site, date, variable) aggregates produced.",
		}),
		WideRecordsProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wq_etl",
			Name:      "wide_records_produced_total",
			Help:      "Wide table rows produced by the pivot.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wq_etl",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete fetch-transform-export run.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		LastRunSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "wq_etl",
			Name:      "last_run_success",
			Help:      "1 when the most recent run completed, 0 when it failed.",
		}),
	}
}
