package handlers

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/brainviz/connectome-core/internal/abide"
	"github.com/brainviz/connectome-core/internal/config"
	"github.com/brainviz/connectome-core/internal/metrics"
	"github.com/brainviz/connectome-core/internal/models"
	"github.com/brainviz/connectome-core/internal/pipeline"
	"github.com/brainviz/connectome-core/pkg/logger"
)

const (
	defaultStreamIntervalMS = 100
	minStreamIntervalMS     = 10
	maxStreamIntervalMS     = 10000
)

type StreamHandler struct {
	catalog *abide.Catalog
	runner  *pipeline.Runner
	cfg     config.WebSocketConfig
	log     logger.Logger

	active int64
}

func NewStreamHandler(catalog *abide.Catalog, runner *pipeline.Runner, cfg config.WebSocketConfig, log logger.Logger) *StreamHandler {
	return &StreamHandler{catalog: catalog, runner: runner, cfg: cfg, log: log}
}

type streamMsg struct {
	Type string      `json:"type"` // meta|frame|complete
	Data interface{} `json:"data,omitempty"`
}

// GET /api/v1/graph/stream (upgrades to WS)
// query params mirror POST /api/v1/graph, plus interval_ms
func (h *StreamHandler) StreamGraph(c *gin.Context) {
	// If this isn't a proper WebSocket upgrade, return a helpful error
	if !websocket.IsWebSocketUpgrade(c.Request) {
		c.JSON(http.StatusUpgradeRequired, gin.H{
			"status":  "error",
			"error":   "WebSocket upgrade required",
			"detail":  "Connect with a WebSocket client. Swagger 'Try it out' uses HTTP and will fail.",
			"example": "wscat -c 'ws://localhost:8080/api/v1/graph/stream?file_path=v1/NYU/dr_stage1_subject0050003.txt&method=pearson'",
		})
		return
	}

	req := models.GraphRequest{
		FilePath:        c.Query("file_path"),
		Method:          c.Query("method"),
		WindowSize:      parseIntDefault(c.Query("window_size"), 0),
		Step:            parseIntDefault(c.Query("step"), 0),
		FisherTransform: c.Query("fisher_transform") == "true",
		Threshold:       parseFloatDefault(c.Query("threshold"), 0),
	}
	if alg := c.Query("interpolation"); alg != "" {
		req.Interpolation = &models.InterpolationRequest{
			Algorithm: alg,
			Factor:    parseIntDefault(c.Query("factor"), 0),
		}
	}
	if alg := c.Query("smoothing"); alg != "" {
		req.Smoothing = &models.SmoothingRequest{
			Algorithm: alg,
			Window:    parseIntDefault(c.Query("window"), 0),
			Alpha:     parseFloatDefault(c.Query("alpha"), 0),
			Sigma:     parseFloatDefault(c.Query("sigma"), 0),
		}
	}

	interval := parseIntDefault(c.Query("interval_ms"), defaultStreamIntervalMS)
	if interval < minStreamIntervalMS {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": models.ErrStreamIntervalLow.Error()})
		return
	}
	if interval > maxStreamIntervalMS {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": models.ErrStreamIntervalHigh.Error()})
		return
	}

	if h.cfg.MaxConnections > 0 && atomic.LoadInt64(&h.active) >= int64(h.cfg.MaxConnections) {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"error":  fmt.Sprintf("stream connection limit reached (%d)", h.cfg.MaxConnections),
		})
		return
	}

	// Run the whole pipeline before the upgrade so failures surface as
	// ordinary HTTP errors instead of a dropped handshake.
	resp, status, err := runGraphRequest(c.Request.Context(), h.catalog, h.runner, h.log, &req)
	if err != nil {
		c.JSON(status, gin.H{"status": "error", "error": err.Error()})
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  h.cfg.ReadBufferSize,
		WriteBufferSize: h.cfg.WriteBufferSize,
		CheckOrigin:     func(*http.Request) bool { return true }, // TODO: tighten CORS in prod
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("ws upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	atomic.AddInt64(&h.active, 1)
	metrics.ActiveWebSocketConnections.WithLabelValues("graph").Inc()
	defer func() {
		atomic.AddInt64(&h.active, -1)
		metrics.ActiveWebSocketConnections.WithLabelValues("graph").Dec()
	}()

	if h.cfg.MaxMessageSize > 0 {
		conn.SetReadLimit(int64(h.cfg.MaxMessageSize))
	}

	// reader (no-op: just to detect close)
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	write := func(m streamMsg) error {
		conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		return conn.WriteJSON(m)
	}

	if err := write(streamMsg{Type: "meta", Data: gin.H{
		"meta":        resp.Meta,
		"symmetric":   resp.Symmetric,
		"interval_ms": interval,
	}}); err != nil {
		return
	}

	pingInterval := time.Duration(h.cfg.PingInterval) * time.Second
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	ping := time.NewTicker(pingInterval)
	defer ping.Stop()
	frameTick := time.NewTicker(time.Duration(interval) * time.Millisecond)
	defer frameTick.Stop()

	sent := 0
	for sent < len(resp.Frames) {
		select {
		case <-closed:
			return
		case <-c.Request.Context().Done():
			return
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-frameTick.C:
			if err := write(streamMsg{Type: "frame", Data: resp.Frames[sent]}); err != nil {
				return
			}
			sent++
		}
	}

	_ = write(streamMsg{Type: "complete", Data: gin.H{"frames_sent": sent}})
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "stream complete"))
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	var n int
	_, err := fmt.Sscan(s, &n)
	if err != nil {
		return def
	}
	return n
}

func parseFloatDefault(s string, def float64) float64 {
	if s == "" {
		return def
	}
	var f float64
	_, err := fmt.Sscan(s, &f)
	if err != nil {
		return def
	}
	return f
}
