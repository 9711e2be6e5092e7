// Command loadtest drives synthetic graph requests against a running
// connectome-core server. It discovers subject files from the catalog
// endpoint, replays a weighted mix of pipeline shapes, and reports latency
// percentiles and throughput.
//
// Usage:
//
//	go run ./dev -url http://localhost:8080 -duration 1m -workers 10
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/brainviz/connectome-core/internal/models"
	"github.com/brainviz/connectome-core/internal/utils/loadgen"
	"github.com/brainviz/connectome-core/pkg/logger"
)

// Default request mix based on realistic viewer usage: mostly windowed
// Pearson, some Spearman, occasional post-processing variants.
func defaultPatterns(waveletAvailable bool) []loadgen.Pattern {
	patterns := []loadgen.Pattern{
		{Name: "pearson_w22", Weight: 30, Request: models.GraphRequest{Method: "pearson", WindowSize: 22, Step: 1}},
		{Name: "spearman_w22", Weight: 20, Request: models.GraphRequest{Method: "spearman", WindowSize: 22, Step: 1}},
		{Name: "pearson_fisher", Weight: 15, Request: models.GraphRequest{Method: "pearson", WindowSize: 22, Step: 1, FisherTransform: true}},
		{Name: "pearson_full_series", Weight: 10, Request: models.GraphRequest{Method: "pearson"}},
		{Name: "pearson_thresholded", Weight: 10, Request: models.GraphRequest{Method: "pearson", WindowSize: 22, Step: 2, Threshold: 0.3}},
		{Name: "pearson_interpolated", Weight: 10, Request: models.GraphRequest{
			Method: "pearson", WindowSize: 22, Step: 1,
			Interpolation: &models.InterpolationRequest{Algorithm: "linear", Factor: 2},
		}},
		{Name: "pearson_smoothed", Weight: 5, Request: models.GraphRequest{
			Method: "pearson", WindowSize: 22, Step: 1,
			Smoothing: &models.SmoothingRequest{Algorithm: "moving_average", Window: 3},
		}},
	}
	if waveletAvailable {
		patterns = append(patterns, loadgen.Pattern{
			Name: "wavelet_w22", Weight: 5,
			Request: models.GraphRequest{Method: "wavelet", WindowSize: 22, Step: 1},
		})
	}
	return patterns
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the server under test")
	duration := flag.Duration("duration", time.Minute, "Test duration")
	workers := flag.Int("workers", 10, "Number of concurrent workers")
	delay := flag.Duration("delay", 10*time.Millisecond, "Per-worker pause between requests")
	timeout := flag.Duration("timeout", 30*time.Second, "Per-request timeout")
	outputFile := flag.String("output", "loadtest-results.json", "Output file for results")

	flag.Parse()

	logger := logger.New("info")
	client := &http.Client{Timeout: *timeout}

	files, err := discoverFiles(client, *baseURL)
	if err != nil {
		log.Fatalf("discover subject files: %v", err)
	}
	if len(files) == 0 {
		log.Fatalf("catalog at %s lists no subject files; seed data first (see cmd/datagen)", *baseURL)
	}

	waveletAvailable := waveletConfigured(client, *baseURL)
	patterns := defaultPatterns(waveletAvailable)

	gen, err := loadgen.New(&loadgen.Config{
		Duration: *duration,
		Workers:  *workers,
		Patterns: patterns,
		Files:    files,
		Delay:    *delay,
	}, logger)
	if err != nil {
		log.Fatalf("create load generator: %v", err)
	}
	gen.SetExecutor(&loadgen.HTTPExecutor{BaseURL: *baseURL, Client: client})

	fmt.Printf("Starting load run against %s: %d files, %d workers, %v...\n",
		*baseURL, len(files), *workers, *duration)

	result, err := gen.Run(context.Background())
	if err != nil {
		log.Fatalf("load run failed: %v", err)
	}

	fmt.Printf("\nLoad Run Results:\n")
	fmt.Printf("================\n")
	fmt.Printf("Duration: %v\n", result.TotalDuration)
	fmt.Printf("Total Requests: %d\n", result.TotalRequests)
	fmt.Printf("Succeeded: %d\n", result.Succeeded)
	fmt.Printf("Failed: %d\n", result.Failed)
	fmt.Printf("Average Latency: %v\n", result.AvgLatency)
	fmt.Printf("95th Percentile: %v\n", result.P95Latency)
	fmt.Printf("99th Percentile: %v\n", result.P99Latency)
	fmt.Printf("RPS: %.2f\n", result.RPS)
	fmt.Printf("\nBy pattern:\n")
	for name, n := range result.ByPattern {
		fmt.Printf("  %-22s %d\n", name, n)
	}

	if len(result.Errors) > 0 {
		fmt.Printf("\nErrors: %d\n", len(result.Errors))
		for i, err := range result.Errors {
			if i >= 5 {
				fmt.Printf("... and %d more errors\n", len(result.Errors)-5)
				break
			}
			fmt.Printf("  - %v\n", err)
		}
	}

	if err := saveResults(result, *outputFile); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
	} else {
		fmt.Printf("\nResults saved to %s\n", *outputFile)
	}
}

// discoverFiles lists catalog-relative subject paths from the running server.
func discoverFiles(client *http.Client, baseURL string) ([]string, error) {
	resp, err := client.Get(baseURL + "/api/v1/subjects")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d from /api/v1/subjects", resp.StatusCode)
	}

	var body struct {
		Files []struct {
			Path string `json:"path"`
		} `json:"files"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	files := make([]string, 0, len(body.Files))
	for _, f := range body.Files {
		files = append(files, f.Path)
	}
	return files, nil
}

// waveletConfigured checks the config endpoint so the wavelet pattern is only
// replayed when the server actually has a phase dataset.
func waveletConfigured(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/api/v1/config")
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false
	}

	var body struct {
		Data struct {
			Wavelet struct {
				Configured bool `json:"configured"`
			} `json:"wavelet"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false
	}
	return body.Data.Wavelet.Configured
}

func saveResults(result *loadgen.Result, filename string) error {
	out := struct {
		Duration      string           `json:"duration"`
		TotalRequests int64            `json:"total_requests"`
		Succeeded     int64            `json:"succeeded"`
		Failed        int64            `json:"failed"`
		AvgLatency    string           `json:"avg_latency"`
		P95Latency    string           `json:"p95_latency"`
		P99Latency    string           `json:"p99_latency"`
		RPS           float64          `json:"rps"`
		ByPattern     map[string]int64 `json:"by_pattern"`
		Errors        int              `json:"errors"`
	}{
		Duration:      result.TotalDuration.String(),
		TotalRequests: result.TotalRequests,
		Succeeded:     result.Succeeded,
		Failed:        result.Failed,
		AvgLatency:    result.AvgLatency.String(),
		P95Latency:    result.P95Latency.String(),
		P99Latency:    result.P99Latency.String(),
		RPS:           result.RPS,
		ByPattern:     result.ByPattern,
		Errors:        len(result.Errors),
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0o644)
}
