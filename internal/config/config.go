// Package config provides configuration loading from environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/sethvargo/go-envconfig"
)

// Static errors for configuration validation.
var (
	// ErrAnthropicAPIKeyRequired is returned when ANTHROPIC_API_KEY is not set.
	ErrAnthropicAPIKeyRequired = errors.New("config: ANTHROPIC_API_KEY is required")
	// ErrWhisperURLRequired is returned when WHISPER_URL is not set.
	ErrWhisperURLRequired = errors.New("config: WHISPER_URL is required")
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	Port int `env:"PORT, default=5001" json:"port"`

	// Collaborator settings
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY, required" json:"-"` // Masked in JSON
	AnthropicModel  string `env:"ANTHROPIC_MODEL, default=claude-sonnet-4-20250514" json:"anthropic_model"`
	WhisperURL      string `env:"WHISPER_URL, required" json:"whisper_url"`

	// Analysis settings
	PauseThresholdSec    float64 `env:"PAUSE_THRESHOLD_SEC, default=3.0" json:"pause_threshold_sec"`
	ContextWindowSec     float64 `env:"CONTEXT_WINDOW_SEC, default=15.0" json:"context_window_sec"`
	MinContextChars      int     `env:"MIN_CONTEXT_CHARS, default=10" json:"min_context_chars"`
	MaxConcurrentPrompts int     `env:"MAX_CONCURRENT_PROMPTS, default=3" json:"max_concurrent_prompts"`

	// Storage settings
	TempDir string `env:"TEMP_DIR, default=/tmp/confidence-coach" json:"temp_dir"`

	// Optional S3 report export settings
	ReportBucket       string `env:"REPORT_BUCKET" json:"report_bucket,omitempty"`
	ReportRegion       string `env:"REPORT_REGION" json:"report_region,omitempty"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" json:"-"`     // Masked in JSON
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" json:"-"` // Masked in JSON

	// Logging settings
	LogFormat string `env:"LOG_FORMAT, default=text" json:"log_format"` // "json" or "text"
	LogLevel  string `env:"LOG_LEVEL, default=info" json:"log_level"`   // "debug", "info", "warn", "error"
}

// ReportsEnabled returns true if S3 report export is configured.
func (c *Config) ReportsEnabled() bool {
	return c.ReportBucket != "" && c.ReportRegion != ""
}

// Load reads configuration from environment variables using go-envconfig.
// It returns an error if required variables are not set.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := envconfig.Process(context.Background(), cfg); err != nil {
		// Map envconfig errors to our domain errors for required fields
		if strings.Contains(err.Error(), "ANTHROPIC_API_KEY") {
			return nil, ErrAnthropicAPIKeyRequired
		}
		if strings.Contains(err.Error(), "WHISPER_URL") {
			return nil, ErrWhisperURLRequired
		}
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration is present.
func (c *Config) Validate() error {
	if c.AnthropicAPIKey == "" {
		return ErrAnthropicAPIKeyRequired
	}
	if c.WhisperURL == "" {
		return ErrWhisperURLRequired
	}
	return nil
}

// NewLogger creates a structured logger based on the configuration.
// When LogFormat is "json", it outputs JSON logs suitable for production.
// Otherwise, it outputs human-readable text logs.
func (c *Config) NewLogger() *slog.Logger {
	level := parseLogLevel(c.LogLevel)

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}

	return slog.New(handler)
}

// String returns a string representation of the config with sensitive values masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Port: %d, WhisperURL: %s, AnthropicModel: %s, PauseThresholdSec: %g, ContextWindowSec: %g, MinContextChars: %d, MaxConcurrentPrompts: %d, TempDir: %s, ReportBucket: %s, ReportRegion: %s, LogFormat: %s, LogLevel: %s}",
		c.Port,
		c.WhisperURL,
		c.AnthropicModel,
		c.PauseThresholdSec,
		c.ContextWindowSec,
		c.MinContextChars,
		c.MaxConcurrentPrompts,
		c.TempDir,
		c.ReportBucket,
		c.ReportRegion,
		c.LogFormat,
		c.LogLevel,
	)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
