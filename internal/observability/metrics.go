package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, gauges, and histograms for the ETL
// run. Gauges reflect the most recent run; counters accumulate across runs
// when the process is reused (tests, long-lived schedulers).
type Metrics struct {
	RowsIngested *prometheus.CounterVec // labels: source={eccc,openmeteo}
	RowsDropped  *prometheus.CounterVec // labels: source={eccc,openmeteo}, reason={invalid,duplicate}

	MergedRows       prometheus.Gauge
	ForecastCoverage prometheus.Gauge

	FetchDuration *prometheus.HistogramVec // labels: source={eccc,openmeteo}
	RunDuration   prometheus.Histogram

	HookPublishes *prometheus.CounterVec // labels: hook, outcome={success,error}

	PipelineRunning prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RowsIngested,
		m.RowsDropped,
		m.MergedRows,
		m.ForecastCoverage,
		m.FetchDuration,
		m.RunDuration,
		m.HookPublishes,
		m.PipelineRunning,
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
		RowsIngested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_etl",
			Name:      "rows_ingested_total",
			Help:      "Raw records read from each source.",
		}, []string{"source"}),
		RowsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_etl",
			Name:      "rows_dropped_total",
			Help:      "Raw records dropped during normalization, by reason.",
		}, []string{"source", "reason"}),
		MergedRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather_etl",
			Name:      "merged_rows",
			Help:      "Rows in the flat table produced by the last run.",
		}),
		ForecastCoverage: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather_etl",
			Name:      "forecast_coverage_rows",
			Help:      "Rows in the last flat table with a non-null fc_tmax_c.",
		}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "weather_etl",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of source fetches.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"source"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weather_etl",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete normalize-merge-export run.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		HookPublishes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_etl",
			Name:      "hook_publishes_total",
			Help:      "Downstream hook publish attempts by hook and outcome.",
		}, []string{"hook", "outcome"}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather_etl",
			Name:      "pipeline_running",
			Help:      "1 while a run is in progress, 0 otherwise.",
		}),
	}
}
