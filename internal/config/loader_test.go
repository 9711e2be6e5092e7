package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	config, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", config.Environment)
	assert.Equal(t, 8080, config.Port)
	assert.Equal(t, "info", config.LogLevel)
	assert.Equal(t, "./data/ABIDE", config.Data.Dir)
	assert.True(t, config.Data.Watch)
	assert.Equal(t, "./data/wavelet.db", config.Wavelet.DBPath)
	assert.Equal(t, 0, config.Pipeline.Workers)
	assert.True(t, config.WebSocket.Enabled)
	assert.Equal(t, 1048576, config.WebSocket.MaxMessageSize)
	assert.True(t, config.Monitoring.PrometheusEnabled)
	assert.Equal(t, "/metrics", config.Monitoring.MetricsPath)
	assert.False(t, config.Monitoring.TracingEnabled)
}

func TestLoadFromFile(t *testing.T) {
	configContent := `
environment: test
port: 9999
log_level: debug

data:
  dir: /srv/abide
  watch: false

wavelet:
  db_path: /srv/wavelet.db

pipeline:
  workers: 8
`
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(configContent), 0o644))

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() {
		require.NoError(t, os.Chdir(cwd))
	}()

	config, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test", config.Environment)
	assert.Equal(t, 9999, config.Port)
	assert.Equal(t, "debug", config.LogLevel)
	assert.Equal(t, "/srv/abide", config.Data.Dir)
	assert.False(t, config.Data.Watch)
	assert.Equal(t, "/srv/wavelet.db", config.Wavelet.DBPath)
	assert.Equal(t, 8, config.Pipeline.Workers)
}

func TestLoadEnvOverrides(t *testing.T) {
	os.Setenv("PORT", "7777")
	os.Setenv("LOG_LEVEL", "warn")
	os.Setenv("ABIDE_DATA_DIR", "/data/override")
	os.Setenv("PIPELINE_WORKERS", "4")
	defer func() {
		os.Unsetenv("PORT")
		os.Unsetenv("LOG_LEVEL")
		os.Unsetenv("ABIDE_DATA_DIR")
		os.Unsetenv("PIPELINE_WORKERS")
	}()

	config, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7777, config.Port)
	assert.Equal(t, "warn", config.LogLevel)
	assert.Equal(t, "/data/override", config.Data.Dir)
	assert.Equal(t, 4, config.Pipeline.Workers)
}

func TestOTLPEndpointEnablesTracing(t *testing.T) {
	os.Setenv("OTLP_ENDPOINT", "collector:4317")
	defer os.Unsetenv("OTLP_ENDPOINT")

	config, err := Load()
	require.NoError(t, err)

	assert.True(t, config.Monitoring.TracingEnabled)
	assert.Equal(t, "collector:4317", config.Monitoring.OTLPEndpoint)
}

func TestValidateConfig(t *testing.T) {
	base := func() *Config {
		config, err := Load()
		require.NoError(t, err)
		return config
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port too low", func(c *Config) { c.Port = 0 }},
		{"port too high", func(c *Config) { c.Port = 70000 }},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }},
		{"bad environment", func(c *Config) { c.Environment = "qa" }},
		{"empty data dir", func(c *Config) { c.Data.Dir = "" }},
		{"negative workers", func(c *Config) { c.Pipeline.Workers = -1 }},
		{"tracing without endpoint", func(c *Config) {
			c.Monitoring.TracingEnabled = true
			c.Monitoring.OTLPEndpoint = ""
		}},
		{"bad sample ratio", func(c *Config) { c.Monitoring.SampleRatio = 1.5 }},
		{"zero ping interval", func(c *Config) { c.WebSocket.PingInterval = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := base()
			tt.mutate(config)
			assert.Error(t, validateConfig(config))
		})
	}
}

func BenchmarkConfigLoad(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Load(); err != nil {
			b.Fatal(err)
		}
	}
}
