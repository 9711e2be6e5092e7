package handlers

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/brainviz/connectome-core/internal/abide"
	"github.com/brainviz/connectome-core/internal/version"
	"github.com/brainviz/connectome-core/internal/wavelet"
	"github.com/brainviz/connectome-core/pkg/logger"
)

type HealthHandler struct {
	catalog *abide.Catalog
	dataset *wavelet.Dataset // nil when no phase store is configured
	logger  logger.Logger
}

func NewHealthHandler(catalog *abide.Catalog, dataset *wavelet.Dataset, logger logger.Logger) *HealthHandler {
	return &HealthHandler{
		catalog: catalog,
		dataset: dataset,
		logger:  logger,
	}
}

// GET /health - Quick health check
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "connectome-core",
		"version":   version.Version,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// GET /ready - Comprehensive readiness check
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	checks := make(map[string]interface{})
	overallHealthy := true

	if _, err := os.Stat(h.catalog.DataDir()); err != nil {
		checks["data_dir"] = map[string]interface{}{"status": "unhealthy", "error": err.Error()}
		overallHealthy = false
	} else {
		checks["data_dir"] = map[string]interface{}{"status": "healthy", "path": h.catalog.DataDir()}
	}

	// An empty catalog is reachable but useless; report degraded, not down.
	if n := h.catalog.Len(); n == 0 {
		checks["subject_catalog"] = map[string]interface{}{"status": "degraded", "error": "no subject files indexed"}
	} else {
		checks["subject_catalog"] = map[string]interface{}{"status": "healthy", "files": n}
	}

	// Wavelet phase data is optional; correlation methods work without it.
	if h.dataset == nil || h.dataset.Len() == 0 {
		checks["wavelet_dataset"] = map[string]interface{}{"status": "degraded", "error": "no wavelet phase data loaded"}
	} else {
		checks["wavelet_dataset"] = map[string]interface{}{"status": "healthy", "subjects": h.dataset.Len()}
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if !overallHealthy {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}
	c.JSON(httpStatus, gin.H{
		"status":    status,
		"service":   "connectome-core",
		"version":   version.Version,
		"checks":    checks,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
