package config

type Config struct {
	Environment string `mapstructure:"environment" yaml:"environment"`
	Port        int    `mapstructure:"port" yaml:"port"`
	LogLevel    string `mapstructure:"log_level" yaml:"log_level"`

	Data       DataConfig       `mapstructure:"data" yaml:"data"`
	Wavelet    WaveletConfig    `mapstructure:"wavelet" yaml:"wavelet"`
	Pipeline   PipelineConfig   `mapstructure:"pipeline" yaml:"pipeline"`
	CORS       CORSConfig       `mapstructure:"cors" yaml:"cors"`
	WebSocket  WebSocketConfig  `mapstructure:"websocket" yaml:"websocket"`
	Monitoring MonitoringConfig `mapstructure:"monitoring" yaml:"monitoring"`
}

// DataConfig locates the ABIDE dual-regression tree and the optional
// phenotypics file.
type DataConfig struct {
	Dir             string `mapstructure:"dir" yaml:"dir"`
	PhenotypicsPath string `mapstructure:"phenotypics_path" yaml:"phenotypics_path"`
	// Watch rescans the data directory when files change.
	Watch bool `mapstructure:"watch" yaml:"watch"`
}

// WaveletConfig locates the precomputed wavelet phase store.
type WaveletConfig struct {
	DBPath string `mapstructure:"db_path" yaml:"db_path"`
}

// PipelineConfig tunes per-request computation.
type PipelineConfig struct {
	// Workers caps window-level parallelism per request. Zero means one
	// worker per CPU.
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// CORSConfig handles Cross-Origin Resource Sharing
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods" yaml:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers" yaml:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers" yaml:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials" yaml:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age" yaml:"max_age"`
}

// WebSocketConfig handles frame streaming configuration
type WebSocketConfig struct {
	Enabled         bool `mapstructure:"enabled" yaml:"enabled"`
	MaxConnections  int  `mapstructure:"max_connections" yaml:"max_connections"`
	ReadBufferSize  int  `mapstructure:"read_buffer_size" yaml:"read_buffer_size"`
	WriteBufferSize int  `mapstructure:"write_buffer_size" yaml:"write_buffer_size"`
	PingInterval    int  `mapstructure:"ping_interval" yaml:"ping_interval"` // seconds
	MaxMessageSize  int  `mapstructure:"max_message_size" yaml:"max_message_size"`
}

// MonitoringConfig handles self-monitoring configuration
type MonitoringConfig struct {
	Enabled           bool    `mapstructure:"enabled" yaml:"enabled"`
	MetricsPath       string  `mapstructure:"metrics_path" yaml:"metrics_path"`
	PrometheusEnabled bool    `mapstructure:"prometheus_enabled" yaml:"prometheus_enabled"`
	TracingEnabled    bool    `mapstructure:"tracing_enabled" yaml:"tracing_enabled"`
	OTLPEndpoint      string  `mapstructure:"otlp_endpoint" yaml:"otlp_endpoint"`
	SampleRatio       float64 `mapstructure:"sample_ratio" yaml:"sample_ratio"`
}
