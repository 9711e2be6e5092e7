// Package monitoring exposes the Prometheus scrape endpoint for
// CONNECTOME-CORE.
//
// Usage:
//
//	router := gin.New()
//	monitoring.SetupPrometheusMetrics(router, "/metrics")
//
// Counters and histograms themselves live in internal/metrics; the HTTP
// middleware records request metrics. This package only registers build info
// and mounts the scrape handler.
package monitoring

import (
	"runtime"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/brainviz/connectome-core/internal/version"
)

// SetupPrometheusMetrics registers build info on the default registry and
// mounts the scrape endpoint at metricsPath.
func SetupPrometheusMetrics(router gin.IRoutes, metricsPath string) {
	if metricsPath == "" {
		metricsPath = "/metrics"
	}

	// Ignore duplicate registration so tests can call this repeatedly.
	_ = prometheus.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "connectome_core_build_info",
		Help: "Build information for CONNECTOME-CORE",
		ConstLabels: prometheus.Labels{
			"version":    version.Version,
			"commit":     version.GitCommit,
			"go_version": runtime.Version(),
		},
	}, func() float64 { return 1 }))

	router.GET(metricsPath, gin.WrapH(promhttp.Handler()))
}
