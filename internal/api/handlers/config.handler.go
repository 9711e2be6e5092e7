package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brainviz/connectome-core/internal/config"
)

type ConfigHandler struct {
	cfg *config.Config
}

func NewConfigHandler(cfg *config.Config) *ConfigHandler {
	return &ConfigHandler{cfg: cfg}
}

// GET /api/v1/config - Sanitized view of the running configuration.
// Server-side paths beyond the data dir stay private; the data dir itself is
// already exposed by the subjects listing.
func (h *ConfigHandler) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"environment": h.cfg.Environment,
			"port":        h.cfg.Port,
			"log_level":   h.cfg.LogLevel,
			"data": gin.H{
				"dir":   h.cfg.Data.Dir,
				"watch": h.cfg.Data.Watch,
			},
			"wavelet": gin.H{
				"configured": h.cfg.Wavelet.DBPath != "",
			},
			"pipeline": gin.H{
				"workers": h.cfg.Pipeline.Workers,
			},
			"websocket": gin.H{
				"enabled":         h.cfg.WebSocket.Enabled,
				"max_connections": h.cfg.WebSocket.MaxConnections,
				"ping_interval":   h.cfg.WebSocket.PingInterval,
			},
			"monitoring": gin.H{
				"enabled":         h.cfg.Monitoring.Enabled,
				"metrics_path":    h.cfg.Monitoring.MetricsPath,
				"tracing_enabled": h.cfg.Monitoring.TracingEnabled,
			},
		},
	})
}
