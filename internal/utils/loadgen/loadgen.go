// Package loadgen drives synthetic pipeline load against a connectome-core
// server. Patterns describe weighted graph-request shapes; workers rotate
// through the catalog's subject files and record per-request latency.
package loadgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/brainviz/connectome-core/internal/models"
	"github.com/brainviz/connectome-core/pkg/logger"
)

// Pattern is one weighted request shape. FilePath in Request is ignored; the
// generator fills it from the configured file list per request.
type Pattern struct {
	Name    string
	Weight  int
	Request models.GraphRequest
}

// Config holds load-generation settings.
type Config struct {
	Duration time.Duration
	Workers  int
	Patterns []Pattern
	Files    []string
	// Delay is the per-worker pause between requests. Zero means no pause.
	Delay time.Duration
}

// Result holds the outcome of one load run.
type Result struct {
	TotalDuration time.Duration
	TotalRequests int64
	Succeeded     int64
	Failed        int64
	AvgLatency    time.Duration
	P95Latency    time.Duration
	P99Latency    time.Duration
	RPS           float64
	ByPattern     map[string]int64
	Errors        []error
}

// Executor runs one graph request. Implementations decide the transport.
type Executor interface {
	Execute(ctx context.Context, req models.GraphRequest) error
}

// Generator runs weighted graph requests through an Executor.
type Generator struct {
	config   *Config
	logger   logger.Logger
	executor Executor
}

// New validates the configuration and returns a generator. The executor is
// attached separately via SetExecutor.
func New(config *Config, log logger.Logger) (*Generator, error) {
	if config.Workers <= 0 {
		return nil, fmt.Errorf("workers must be positive, got %d", config.Workers)
	}
	if len(config.Patterns) == 0 {
		return nil, fmt.Errorf("no request patterns configured")
	}
	if len(config.Files) == 0 {
		return nil, fmt.Errorf("no subject files configured")
	}
	return &Generator{config: config, logger: log}, nil
}

// SetExecutor sets the transport used for requests.
func (g *Generator) SetExecutor(e Executor) {
	g.executor = e
}

type sample struct {
	pattern string
	latency time.Duration
}

// Run executes the load run until the configured duration elapses or the
// context is cancelled, then aggregates latencies and errors.
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	if g.executor == nil {
		return nil, fmt.Errorf("executor not set")
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	startTime := time.Now()
	errChan := make(chan error, g.config.Workers)
	sampleChan := make(chan sample, 10000)

	var wg sync.WaitGroup
	for i := 0; i < g.config.Workers; i++ {
		wg.Add(1)
		go g.worker(runCtx, &wg, errChan, sampleChan)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-time.After(g.config.Duration):
		g.logger.Info("load run duration completed")
		cancel()
	case <-ctx.Done():
		g.logger.Info("load run cancelled")
		cancel()
	}
	<-done

	close(errChan)
	close(sampleChan)

	result := &Result{ByPattern: make(map[string]int64)}
	for err := range errChan {
		result.Errors = append(result.Errors, err)
		result.Failed++
	}

	var latencies []time.Duration
	for s := range sampleChan {
		latencies = append(latencies, s.latency)
		result.ByPattern[s.pattern]++
		result.Succeeded++
	}

	result.TotalRequests = result.Succeeded + result.Failed
	result.TotalDuration = time.Since(startTime)
	if len(latencies) > 0 {
		result.AvgLatency = average(latencies)
		result.P95Latency = percentile(latencies, 95)
		result.P99Latency = percentile(latencies, 99)
	}
	if result.TotalDuration > 0 {
		result.RPS = float64(result.TotalRequests) / result.TotalDuration.Seconds()
	}

	g.logger.Info("load run completed",
		"total_requests", result.TotalRequests,
		"succeeded", result.Succeeded,
		"failed", result.Failed,
		"avg_latency", result.AvgLatency,
		"rps", result.RPS)

	return result, nil
}

func (g *Generator) worker(ctx context.Context, wg *sync.WaitGroup, errChan chan<- error, sampleChan chan<- sample) {
	defer wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		pattern := g.selectPattern()
		req := pattern.Request
		req.FilePath = g.config.Files[rand.Intn(len(g.config.Files))]

		start := time.Now()
		err := g.executor.Execute(ctx, req)
		latency := time.Since(start)

		if err != nil {
			select {
			case errChan <- fmt.Errorf("%s: %w", pattern.Name, err):
			case <-ctx.Done():
				return
			}
		} else {
			select {
			case sampleChan <- sample{pattern: pattern.Name, latency: latency}:
			case <-ctx.Done():
				return
			}
		}

		if g.config.Delay > 0 {
			select {
			case <-time.After(g.config.Delay):
			case <-ctx.Done():
				return
			}
		}
	}
}

// selectPattern picks a pattern proportionally to its weight.
func (g *Generator) selectPattern() Pattern {
	totalWeight := 0
	for _, p := range g.config.Patterns {
		totalWeight += p.Weight
	}
	if totalWeight <= 0 {
		return g.config.Patterns[0]
	}

	r := rand.Intn(totalWeight)
	cumulative := 0
	for _, p := range g.config.Patterns {
		cumulative += p.Weight
		if r < cumulative {
			return p
		}
	}
	return g.config.Patterns[0]
}

func average(latencies []time.Duration) time.Duration {
	if len(latencies) == 0 {
		return 0
	}
	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}
	return sum / time.Duration(len(latencies))
}

func percentile(latencies []time.Duration, p float64) time.Duration {
	if len(latencies) == 0 {
		return 0
	}
	sorted := make([]time.Duration, len(latencies))
	copy(sorted, latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	index := int(float64(len(sorted)-1) * p / 100.0)
	return sorted[index]
}

// HTTPExecutor posts graph requests to a running server.
type HTTPExecutor struct {
	BaseURL string
	Client  *http.Client
}

// Execute sends one POST /api/v1/graph and drains the response. Non-200
// statuses are returned as errors carrying a body snippet.
func (e *HTTPExecutor) Execute(ctx context.Context, req models.GraphRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.BaseURL+"/api/v1/graph", bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	client := e.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	_, err = io.Copy(io.Discard, resp.Body)
	return err
}
