// Package config loads and validates console configuration via Viper.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config captures all console configuration knobs loaded via Viper.
type Config struct {
	Backend  BackendConfig  `mapstructure:"backend"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Products ProductsConfig `mapstructure:"products"`
	Progress ProgressConfig `mapstructure:"progress"`
	Status   StatusConfig   `mapstructure:"status"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
}

// BackendConfig locates the catalog backend.
type BackendConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// HTTPConfig configures the backend HTTP client.
type HTTPConfig struct {
	TimeoutSeconds    int     `mapstructure:"timeout_seconds"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// ProductsConfig controls the product table view.
type ProductsConfig struct {
	PageSize int `mapstructure:"page_size"`
}

// ProgressConfig tunes the progress event hub and channel behavior.
type ProgressConfig struct {
	BufferSize     int  `mapstructure:"buffer_size"`
	MaxBatchEvents int  `mapstructure:"max_batch_events"`
	MaxBatchWaitMs int  `mapstructure:"max_batch_wait_ms"`
	ResyncOnDrop   bool `mapstructure:"resync_on_drop"`
}

// StatusConfig enables the local status server when ListenAddr is set.
type StatusConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level"`
}

// TracingConfig enables OpenTelemetry spans around backend requests.
type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
	// LogSpans writes finished spans to the debug log. Without it spans only
	// propagate trace context to the backend.
	LogSpans bool `mapstructure:"log_spans"`
}

// Load builds a Config from an optional .env file, the environment and an
// optional config file at path.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("CATALOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend.base_url", "http://localhost:8000")
	v.SetDefault("http.timeout_seconds", 15)
	v.SetDefault("http.requests_per_second", 0)
	v.SetDefault("http.burst", 1)
	v.SetDefault("products.page_size", 10)
	v.SetDefault("progress.buffer_size", 256)
	v.SetDefault("progress.max_batch_events", 32)
	v.SetDefault("progress.max_batch_wait_ms", 250)
	v.SetDefault("progress.resync_on_drop", false)
	v.SetDefault("status.listen_addr", "")
	v.SetDefault("logging.development", true)
	v.SetDefault("logging.level", "")
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "catalogctl")
	v.SetDefault("tracing.log_spans", false)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("backend.base_url must be an absolute URL, got %q", c.Backend.BaseURL)
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.HTTP.RequestsPerSecond < 0 {
		return fmt.Errorf("http.requests_per_second must be >= 0")
	}
	if c.Products.PageSize < 1 || c.Products.PageSize > 100 {
		return fmt.Errorf("products.page_size must be between 1 and 100")
	}
	return nil
}

// RequestTimeout converts http.timeout_seconds into a duration.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// BatchWait converts progress.max_batch_wait_ms into a duration.
func (c Config) BatchWait() time.Duration {
	return time.Duration(c.Progress.MaxBatchWaitMs) * time.Millisecond
}
