package config

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/caarlos0/env/v10"
)

// ErrInvalidConfig is returned when parsed values are out of range.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all application configuration.
type Config struct {
	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// HTTP report server
	HTTPPort            string        `env:"HTTP_PORT"             envDefault:"8080"`
	HTTPReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"     envDefault:"30s"`
	HTTPWriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"    envDefault:"30s"`
	HTTPIdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT"     envDefault:"60s"`
	HTTPShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Per-IP rate limit on /api/v1 (requests per second, 0 disables)
	HTTPRateLimit float64 `env:"HTTP_RATE_LIMIT" envDefault:"50"`
	HTTPRateBurst int     `env:"HTTP_RATE_BURST" envDefault:"100"`

	// Redis snapshot store (optional - leave empty to disable)
	RedisURL    string        `env:"REDIS_URL"    envDefault:""`
	SnapshotTTL time.Duration `env:"SNAPSHOT_TTL" envDefault:"24h"`

	// Kafka freeze events (optional - leave empty to log events instead)
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC"   envDefault:"account_frozen"`

	// Prometheus text file written after a run (optional)
	MetricsFile string `env:"METRICS_FILE" envDefault:""`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	err := env.Parse(cfg)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks value ranges env.Parse cannot express.
func (c *Config) Validate() error {
	var errs []error

	if !slices.Contains([]string{"debug", "info", "warn", "error"}, c.LogLevel) {
		errs = append(errs, fmt.Errorf("LOG_LEVEL %q is not one of debug, info, warn, error", c.LogLevel))
	}
	if c.LogFormat != "json" && c.LogFormat != "console" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT %q is not json or console", c.LogFormat))
	}

	for name, d := range map[string]time.Duration{
		"HTTP_READ_TIMEOUT":     c.HTTPReadTimeout,
		"HTTP_WRITE_TIMEOUT":    c.HTTPWriteTimeout,
		"HTTP_IDLE_TIMEOUT":     c.HTTPIdleTimeout,
		"HTTP_SHUTDOWN_TIMEOUT": c.HTTPShutdownTimeout,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", name, d))
		}
	}

	if c.HTTPRateLimit < 0 {
		errs = append(errs, fmt.Errorf("HTTP_RATE_LIMIT must not be negative, got %v", c.HTTPRateLimit))
	}
	if c.HTTPRateLimit > 0 && c.HTTPRateBurst < 1 {
		errs = append(errs, fmt.Errorf("HTTP_RATE_BURST must be at least 1 when rate limiting, got %d", c.HTTPRateBurst))
	}
	if c.SnapshotTTL < 0 {
		errs = append(errs, fmt.Errorf("SNAPSHOT_TTL must not be negative, got %s", c.SnapshotTTL))
	}
	if len(c.KafkaBrokers) > 0 && c.KafkaTopic == "" {
		errs = append(errs, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}

	return nil
}
