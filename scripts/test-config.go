// test-config.go - Simple test script to validate connectome configuration loading
//
// Usage: go run scripts/test-config.go configs/config.yaml

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/viper"

	"github.com/brainviz/connectome-core/internal/config"
)

const (
	// MinArgsRequired represents the minimum number of command line arguments required
	MinArgsRequired = 2
	// ExitCodeError represents the exit code for errors
	ExitCodeError = 1
)

func main() {
	if len(os.Args) < MinArgsRequired {
		fmt.Println("Usage: go run test-config.go <config-file>")
		fmt.Println("Example: go run test-config.go configs/config.yaml")
		os.Exit(ExitCodeError)
	}

	configFile := os.Args[1]
	fmt.Printf("Testing configuration file: %s\n", configFile)

	viper.SetConfigFile(configFile)
	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}

	var cfg config.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		log.Fatalf("Failed to unmarshal config: %v", err)
	}

	fmt.Println("\n=== Server ===")
	fmt.Printf("Environment: %s\n", cfg.Environment)
	fmt.Printf("Port: %d\n", cfg.Port)
	fmt.Printf("Log Level: %s\n", cfg.LogLevel)

	fmt.Println("\n=== Data ===")
	fmt.Printf("Directory: %s\n", cfg.Data.Dir)
	fmt.Printf("Phenotypics: %s\n", orNone(cfg.Data.PhenotypicsPath))
	fmt.Printf("Watch: %t\n", cfg.Data.Watch)
	checkPath("data directory", cfg.Data.Dir)
	if cfg.Data.PhenotypicsPath != "" {
		checkPath("phenotypics file", cfg.Data.PhenotypicsPath)
	}

	fmt.Println("\n=== Wavelet ===")
	fmt.Printf("DB Path: %s\n", orNone(cfg.Wavelet.DBPath))
	if cfg.Wavelet.DBPath != "" {
		checkPath("wavelet store", cfg.Wavelet.DBPath)
	}

	fmt.Println("\n=== Pipeline ===")
	if cfg.Pipeline.Workers == 0 {
		fmt.Println("Workers: 0 (one per CPU)")
	} else {
		fmt.Printf("Workers: %d\n", cfg.Pipeline.Workers)
	}

	fmt.Println("\n=== WebSocket ===")
	fmt.Printf("Enabled: %t\n", cfg.WebSocket.Enabled)
	if cfg.WebSocket.Enabled {
		fmt.Printf("Max Connections: %d\n", cfg.WebSocket.MaxConnections)
		fmt.Printf("Ping Interval: %ds\n", cfg.WebSocket.PingInterval)
		fmt.Printf("Max Message Size: %d bytes\n", cfg.WebSocket.MaxMessageSize)
	}

	fmt.Println("\n=== Monitoring ===")
	fmt.Printf("Enabled: %t\n", cfg.Monitoring.Enabled)
	fmt.Printf("Metrics Path: %s\n", cfg.Monitoring.MetricsPath)
	fmt.Printf("Prometheus: %t\n", cfg.Monitoring.PrometheusEnabled)
	fmt.Printf("Tracing: %t\n", cfg.Monitoring.TracingEnabled)
	if cfg.Monitoring.TracingEnabled {
		fmt.Printf("OTLP Endpoint: %s\n", cfg.Monitoring.OTLPEndpoint)
		fmt.Printf("Sample Ratio: %.2f\n", cfg.Monitoring.SampleRatio)
	}

	fmt.Println("\n✅ Configuration loaded successfully!")
}

func orNone(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

// checkPath reports whether a configured path exists on this machine. Missing
// paths are warnings, not errors: the server starts without them.
func checkPath(what, path string) {
	if _, err := os.Stat(path); err != nil {
		fmt.Printf("  warning: %s %s not found\n", what, path)
	}
}
