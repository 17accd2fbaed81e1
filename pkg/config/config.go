// Package config loads runtime configuration for the analysis engine.
// Environment variables are the primary source; an optional YAML file
// overlays them for settings that are awkward to express in env vars.
// Backend-specific settings (completion provider, cache, archive) stay
// with their package factories, which read their own variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds engine and CLI configuration.
type Config struct {
	// TargetStates limits a run to the named jurisdiction codes. Empty
	// means the whole dataset.
	TargetStates []string `yaml:"target_states"`

	// MaxConcurrency bounds the jurisdiction worker pool.
	MaxConcurrency int `yaml:"max_concurrency"`

	// CacheTTL bounds how long cached per-jurisdiction results stay valid.
	CacheTTL time.Duration `yaml:"cache_ttl"`

	// StoreDriver selects run persistence: "off", "sqlite", or "postgres".
	StoreDriver string `yaml:"store_driver"`

	// StoreDSN is the database location for the selected driver.
	StoreDSN string `yaml:"store_dsn"`

	// ProfileDir, when set, overlays jurisdiction profiles loaded from
	// YAML files in that directory onto the built-in dataset.
	ProfileDir string `yaml:"profile_dir"`

	// ReviewRulesFile, when set, replaces the built-in review rules with
	// CEL expressions read from that file, one per line.
	ReviewRulesFile string `yaml:"review_rules_file"`

	// LogLevel is DEBUG, INFO, WARN, or ERROR.
	LogLevel string `yaml:"log_level"`

	Observability ObservabilityConfig `yaml:"observability"`
}

// ObservabilityConfig controls the OTLP provider.
type ObservabilityConfig struct {
	Enabled      bool    `yaml:"enabled"`
	OTLPEndpoint string  `yaml:"otlp_endpoint"`
	Environment  string  `yaml:"environment"`
	SampleRate   float64 `yaml:"sample_rate"`
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		MaxConcurrency: 8,
		CacheTTL:       time.Hour,
		StoreDriver:    "off",
		LogLevel:       "INFO",
		Observability: ObservabilityConfig{
			Enabled:      false,
			OTLPEndpoint: "localhost:4317",
			Environment:  "development",
			SampleRate:   1.0,
		},
	}

	if v := os.Getenv("STATELINE_TARGET_STATES"); v != "" {
		cfg.TargetStates = splitCodes(v)
	}
	if v := os.Getenv("STATELINE_MAX_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxConcurrency = n
		}
	}
	if v := os.Getenv("STATELINE_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.CacheTTL = d
		}
	}
	if v := os.Getenv("STATELINE_STORE"); v != "" {
		cfg.StoreDriver = v
	}
	if v := os.Getenv("STATELINE_STORE_DSN"); v != "" {
		cfg.StoreDSN = v
	}
	if v := os.Getenv("STATELINE_PROFILE_DIR"); v != "" {
		cfg.ProfileDir = v
	}
	if v := os.Getenv("STATELINE_REVIEW_RULES"); v != "" {
		cfg.ReviewRulesFile = v
	}
	if v := os.Getenv("STATELINE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToUpper(v)
	}

	if v := os.Getenv("STATELINE_OTEL_ENABLED"); v == "true" || v == "1" {
		cfg.Observability.Enabled = true
	}
	if v := os.Getenv("STATELINE_OTEL_ENDPOINT"); v != "" {
		cfg.Observability.OTLPEndpoint = v
	}
	if v := os.Getenv("STATELINE_ENVIRONMENT"); v != "" {
		cfg.Observability.Environment = v
	}
	if v := os.Getenv("STATELINE_OTEL_SAMPLE_RATE"); v != "" {
		if rate, err := strconv.ParseFloat(v, 64); err == nil && rate >= 0 && rate <= 1 {
			cfg.Observability.SampleRate = rate
		}
	}

	return cfg
}

// LoadFile loads env configuration and overlays the YAML file at path.
// File values win over environment values for the fields they set.
func LoadFile(path string) (*Config, error) {
	cfg := Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	for i, code := range cfg.TargetStates {
		cfg.TargetStates[i] = strings.ToUpper(strings.TrimSpace(code))
	}

	return cfg, nil
}

// Validate rejects values the engine cannot run with.
func (c *Config) Validate() error {
	if c.MaxConcurrency < 1 {
		return fmt.Errorf("max_concurrency must be at least 1, got %d", c.MaxConcurrency)
	}
	switch c.StoreDriver {
	case "", "off", "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}
	if (c.StoreDriver == "sqlite" || c.StoreDriver == "postgres") && c.StoreDSN == "" {
		return fmt.Errorf("store driver %q requires a DSN", c.StoreDriver)
	}
	switch c.LogLevel {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return nil
}

// SlogLevel maps the configured level onto slog.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func splitCodes(v string) []string {
	parts := strings.Split(v, ",")
	codes := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			codes = append(codes, p)
		}
	}
	return codes
}
