package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/brainviz/connectome-core/internal/config"
	"github.com/brainviz/connectome-core/pkg/logger"
)

func TestCORS_IsOriginAllowed(t *testing.T) {
	allowed := []string{"https://a.example.com", "https://b.example.com"}
	if !isOriginAllowed("https://a.example.com", allowed) {
		t.Fatalf("expected origin allowed")
	}
	if isOriginAllowed("https://x.example.com", allowed) {
		t.Fatalf("unexpected origin allowed")
	}
	if !isOriginAllowed("https://anything.example", []string{"*"}) {
		t.Fatalf("wildcard should allow any origin")
	}
	if !isOriginAllowed("https://app.brainviz.io", []string{"*.brainviz.io"}) {
		t.Fatalf("wildcard subdomain should match")
	}
}

func TestCORS_PreflightShortCircuits(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware(config.CORSConfig{AllowedOrigins: []string{"*"}}))
	r.GET("/ping", func(c *gin.Context) { c.String(200, "pong") })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("OPTIONS", "/ping", nil)
	req.Header.Set("Origin", "https://viewer.example.com")
	r.ServeHTTP(w, req)
	if w.Code != 204 {
		t.Fatalf("preflight status = %d, want 204", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "https://viewer.example.com" {
		t.Fatalf("missing allow-origin header")
	}
}

func TestRequestID_IssuesAndEchoes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) { c.String(200, c.GetString("request_id")) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/ping", nil)
	r.ServeHTTP(w, req)
	if w.Code != 200 {
		t.Fatalf("unexpected status: %d", w.Code)
	}
	issued := w.Header().Get(RequestIDHeader)
	if issued == "" {
		t.Fatal("no request id issued")
	}
	if w.Body.String() != issued {
		t.Fatalf("context id %q != header id %q", w.Body.String(), issued)
	}
}

func TestRequestID_KeepsCallerID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) { c.String(200, "ok") })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set(RequestIDHeader, "caller-supplied-id")
	r.ServeHTTP(w, req)
	if got := w.Header().Get(RequestIDHeader); got != "caller-supplied-id" {
		t.Fatalf("request id rewritten to %q", got)
	}
}

func TestRequestLogger_PassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.Use(RequestLogger(logger.New("error")))
	r.GET("/ping", func(c *gin.Context) { c.String(200, "pong") })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/ping", nil)
	r.ServeHTTP(w, req)
	if w.Code != 200 || w.Body.String() != "pong" {
		t.Fatalf("unexpected: %d %q", w.Code, w.Body.String())
	}
}

func TestMetricsMiddleware_PassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(MetricsMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.String(200, "pong") })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/ping", nil)
	r.ServeHTTP(w, req)
	if w.Code != 200 {
		t.Fatalf("unexpected status: %d", w.Code)
	}
}
