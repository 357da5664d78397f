package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/iho/txledger/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("REDIS_URL", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.RedisURL != "" {
		t.Fatalf("expected redis to be disabled by default, got %q", cfg.RedisURL)
	}

	if len(cfg.KafkaBrokers) != 0 {
		t.Fatalf("expected no kafka brokers by default, got %v", cfg.KafkaBrokers)
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.LogLevel != "info" || cfg.LogFormat != "json" {
		t.Fatalf("unexpected log defaults: level=%s format=%s", cfg.LogLevel, cfg.LogFormat)
	}

	if cfg.HTTPRateLimit != 50 || cfg.HTTPRateBurst != 100 {
		t.Fatalf("unexpected rate limit defaults: %v/%d", cfg.HTTPRateLimit, cfg.HTTPRateBurst)
	}

	if cfg.SnapshotTTL != 24*time.Hour {
		t.Fatalf("expected default snapshot TTL 24h, got %s", cfg.SnapshotTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("SNAPSHOT_TTL", "45s")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("KAFKA_TOPIC", "frozen")
	t.Setenv("METRICS_FILE", "/tmp/txledger.prom")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.SnapshotTTL != 45*time.Second {
		t.Fatalf("expected snapshot TTL override, got %s", cfg.SnapshotTTL)
	}

	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "k2:9092" || cfg.KafkaTopic != "frozen" {
		t.Fatalf("expected kafka settings to be set, got brokers=%v topic=%s", cfg.KafkaBrokers, cfg.KafkaTopic)
	}

	if cfg.MetricsFile != "/tmp/txledger.prom" {
		t.Fatalf("expected metrics file override, got %s", cfg.MetricsFile)
	}
}

func TestLoadInvalidRateLimit(t *testing.T) {
	t.Setenv("HTTP_RATE_LIMIT", "fast")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for invalid rate limit")
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}

func TestLoadRejectsOutOfRangeValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown log level", "LOG_LEVEL", "verbose"},
		{"unknown log format", "LOG_FORMAT", "xml"},
		{"negative rate limit", "HTTP_RATE_LIMIT", "-1"},
		{"zero burst", "HTTP_RATE_BURST", "0"},
		{"zero shutdown timeout", "HTTP_SHUTDOWN_TIMEOUT", "0s"},
		{"negative snapshot ttl", "SNAPSHOT_TTL", "-1h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := config.Load()
			if !errors.Is(err, config.ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig for %s=%s, got %v", tt.key, tt.value, err)
			}
		})
	}
}

func TestValidateRequiresTopicWithBrokers(t *testing.T) {
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	cfg.KafkaBrokers = []string{"k1:9092"}
	cfg.KafkaTopic = ""

	if err := cfg.Validate(); !errors.Is(err, config.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestValidateAllowsDisabledRateLimit(t *testing.T) {
	t.Setenv("HTTP_RATE_LIMIT", "0")
	t.Setenv("HTTP_RATE_BURST", "0")

	if _, err := config.Load(); err != nil {
		t.Fatalf("expected disabled rate limit to be valid, got %v", err)
	}
}
