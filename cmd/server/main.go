package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/brainviz/connectome-core/internal/abide"
	"github.com/brainviz/connectome-core/internal/api"
	"github.com/brainviz/connectome-core/internal/config"
	"github.com/brainviz/connectome-core/internal/metrics"
	"github.com/brainviz/connectome-core/internal/pipeline"
	"github.com/brainviz/connectome-core/internal/rsn"
	"github.com/brainviz/connectome-core/internal/tracing"
	"github.com/brainviz/connectome-core/internal/version"
	"github.com/brainviz/connectome-core/internal/wavelet"
	"github.com/brainviz/connectome-core/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)
	logger.Info("starting connectome-core",
		"version", version.Version,
		"environment", cfg.Environment)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		logger.Info("shutdown signal received")
		cancel()
	}()

	// OTLP trace export is opt-in
	if cfg.Monitoring.TracingEnabled {
		tp, err := tracing.NewTracerProvider(cfg.Monitoring)
		if err != nil {
			logger.Fatal("failed to initialize tracing", "error", err)
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Error("failed to shut down tracer provider", "error", err)
			}
		}()
		logger.Info("tracing initialized", "endpoint", cfg.Monitoring.OTLPEndpoint)
	}

	// Phenotypic labels are optional; the catalog works without them.
	var diagnosis map[int64]string
	if cfg.Data.PhenotypicsPath != "" {
		diagnosis, err = abide.LoadPhenotypics(cfg.Data.PhenotypicsPath)
		if err != nil {
			logger.Warn("failed to load phenotypics, diagnoses will be empty",
				"path", cfg.Data.PhenotypicsPath, "error", err)
		} else {
			logger.Info("phenotypics loaded", "subjects", len(diagnosis))
		}
	}

	// Index the subject files. A missing directory is not fatal: the server
	// starts, readiness reports it, and the watcher picks the data up when it
	// appears.
	catalog := abide.NewCatalog(cfg.Data.Dir, diagnosis, logger)
	if err := catalog.Scan(ctx); err != nil {
		logger.Error("failed to scan data directory; starting with an empty catalog",
			"dir", cfg.Data.Dir, "error", err)
	}

	// Load the precomputed wavelet phase store into memory once; requests
	// only ever read it.
	var dataset *wavelet.Dataset
	if path := cfg.Wavelet.DBPath; path != "" {
		if _, err := os.Stat(path); err != nil {
			logger.Warn("wavelet store not found; wavelet requests will be rejected", "path", path)
		} else {
			store, err := wavelet.Open(path)
			if err != nil {
				logger.Fatal("failed to open wavelet store", "path", path, "error", err)
			}
			dataset, err = store.LoadDataset()
			store.Close()
			if err != nil {
				logger.Fatal("failed to load wavelet dataset", "path", path, "error", err)
			}
			metrics.WaveletSubjectsLoaded.Set(float64(dataset.Len()))
			logger.Info("wavelet dataset loaded", "subjects", dataset.Len())
		}
	} else {
		logger.Warn("no wavelet store configured; wavelet requests will be rejected")
	}

	runner := pipeline.NewRunner(logger, dataset, rsn.Labels(), rsn.FullNames(), cfg.Pipeline.Workers)

	// Initialize API server
	apiServer := api.NewServer(cfg, logger, catalog, dataset, runner)

	// Rescan when subject files appear or change
	if cfg.Data.Watch {
		go func() {
			if err := catalog.Watch(ctx); err != nil && ctx.Err() == nil {
				logger.Error("subject catalog watcher stopped", "error", err)
			}
		}()
	}

	// Watch the config file; most settings need a restart, so just surface
	// the change in the logs.
	if path := configFilePath(); path != "" {
		watcher := config.NewConfigWatcher(path, logger)
		watcher.RegisterWatcher(func(next *config.Config) {
			logger.Warn("configuration file changed; restart to apply",
				"port", next.Port,
				"data_dir", next.Data.Dir,
				"workers", next.Pipeline.Workers)
		})
		go func() {
			if err := watcher.Start(ctx); err != nil && ctx.Err() == nil {
				logger.Error("configuration watcher stopped", "error", err)
			}
		}()
	}

	// Start server
	if err := apiServer.Start(ctx); err != nil {
		logger.Fatal("server failed to start", "error", err)
	}

	logger.Info("connectome-core shutdown complete")
}

// configFilePath returns the config file the loader would have picked up, or
// "" when running on defaults and env vars only.
func configFilePath() string {
	candidates := []string{
		"/etc/connectome/config.yaml",
		"configs/config.yaml",
		"config.yaml",
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
