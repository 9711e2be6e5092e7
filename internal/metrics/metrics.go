// ================================
// internal/metrics/metrics.go - Self-monitoring for CONNECTOME-CORE
// ================================

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Request metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "connectome_core_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "connectome_core_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Pipeline metrics
	PipelineRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "connectome_core_pipeline_runs_total",
			Help: "Total number of graph pipeline runs",
		},
		[]string{"method", "status"}, // pearson/spearman/wavelet, ok/error
	)

	PipelineRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "connectome_core_pipeline_run_duration_seconds",
			Help:    "Graph pipeline run duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 2.0, 5.0, 10.0},
		},
		[]string{"method"},
	)

	DegenerateWindowsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "connectome_core_degenerate_windows_total",
			Help: "Total number of windows containing a zero-variance channel",
		},
	)

	FramesBuilt = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "connectome_core_frames_built",
			Help:    "Number of graph frames produced per pipeline run",
			Buckets: []float64{1, 10, 50, 100, 250, 500, 1000, 2500},
		},
		[]string{"method"},
	)

	// Streaming metrics
	ActiveWebSocketConnections = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "connectome_core_websocket_connections_active",
			Help: "Number of active WebSocket frame streams",
		},
		[]string{"stream_type"},
	)

	// Data source metrics
	WaveletSubjectsLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "connectome_core_wavelet_subjects_loaded",
			Help: "Number of subjects in the loaded wavelet phase dataset",
		},
	)

	SubjectFilesIndexed = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "connectome_core_subject_files_indexed",
			Help: "Number of subject files discovered in the data directory",
		},
	)
)
