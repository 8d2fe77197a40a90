// Package metrics registers the Prometheus collectors for the importer.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	ActiveImports       prometheus.Gauge
	RowsImported        prometheus.Counter
	RowsFailed          prometheus.Counter
	ChunksSubmitted     *prometheus.CounterVec
	ChunkSubmitDuration prometheus.Histogram
)

// Init registers all collectors. Call once from main before serving.
func Init() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	ActiveImports = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "import_runs_active",
			Help: "Number of import runs currently in progress.",
		},
	)

	RowsImported = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "import_rows_created_total",
			Help: "Total rows successfully turned into shortlink records.",
		},
	)

	RowsFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "import_rows_failed_total",
			Help: "Total rows that failed validation or submission.",
		},
	)

	ChunksSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "import_chunks_submitted_total",
			Help: "Total chunk submissions by outcome.",
		},
		[]string{"status"},
	)

	ChunkSubmitDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "import_chunk_submit_duration_seconds",
			Help:    "Duration of remote chunk submissions.",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)
}

// ImportStarted marks one import run as active.
func ImportStarted() {
	if ActiveImports != nil {
		ActiveImports.Inc()
	}
}

// ImportFinished marks one import run as done.
func ImportFinished() {
	if ActiveImports != nil {
		ActiveImports.Dec()
	}
}

// AddRowResults records the final row tallies of a run.
func AddRowResults(created, failed int) {
	if RowsImported != nil {
		RowsImported.Add(float64(created))
		RowsFailed.Add(float64(failed))
	}
}

// ObserveChunk records one chunk submission's duration and outcome.
func ObserveChunk(d time.Duration, success bool) {
	if ChunksSubmitted == nil {
		return // metrics not initialized, e.g. in unit tests
	}
	status := "success"
	if !success {
		status = "failure"
	}
	ChunksSubmitted.WithLabelValues(status).Inc()
	ChunkSubmitDuration.Observe(d.Seconds())
}

// Handler exposes the registry for the /metrics route.
func Handler() http.Handler {
	return promhttp.Handler()
}
