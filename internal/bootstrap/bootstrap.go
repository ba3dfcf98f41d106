// Package bootstrap provides dependency initialization for the Confidence Coach API.
package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/confidencecoach/coach-api/internal/anthropic"
	"github.com/confidencecoach/coach-api/internal/audio"
	"github.com/confidencecoach/coach-api/internal/config"
	"github.com/confidencecoach/coach-api/internal/session"
	"github.com/confidencecoach/coach-api/internal/storage"
	"github.com/confidencecoach/coach-api/internal/suggest"
	"github.com/confidencecoach/coach-api/internal/whisper"
)

// Dependencies holds all initialized dependencies for the HTTP server.
type Dependencies struct {
	SessionService *session.Service
	Store          storage.Storage
}

// NewDependencies creates and initializes all dependencies for the application.
func NewDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	store, err := initStorage(cfg, logger)
	if err != nil {
		return nil, err
	}

	transcriber, err := whisper.NewClient(cfg.WhisperURL)
	if err != nil {
		return nil, fmt.Errorf("create whisper client: %w", err)
	}

	claude, err := anthropic.NewClient(
		anthropic.WithAPIKey(cfg.AnthropicAPIKey),
		anthropic.WithModel(cfg.AnthropicModel),
	)
	if err != nil {
		return nil, fmt.Errorf("create anthropic client: %w", err)
	}

	suggester := suggest.NewClaudeSuggester(claude,
		suggest.WithMinContextChars(cfg.MinContextChars),
	)

	converter := audio.NewFFmpegConverter("")

	svc := session.NewService(
		converter,
		transcriber,
		suggester,
		store,
		logger,
		session.WithThreshold(cfg.PauseThresholdSec),
		session.WithWindow(cfg.ContextWindowSec),
		session.WithMaxConcurrentPrompts(cfg.MaxConcurrentPrompts),
		session.WithReportExport(cfg.ReportsEnabled()),
	)

	return &Dependencies{
		SessionService: svc,
		Store:          store,
	}, nil
}

// initStorage creates the appropriate storage backend based on configuration.
func initStorage(cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
	if cfg.ReportsEnabled() {
		s3Cfg := storage.S3Config{
			Bucket:          cfg.ReportBucket,
			Region:          cfg.ReportRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		}
		s3Store, err := storage.NewS3Storage(cfg.TempDir, s3Cfg)
		if err != nil {
			return nil, fmt.Errorf("create S3 storage: %w", err)
		}
		logger.Info("report export configured",
			slog.String("bucket", cfg.ReportBucket),
			slog.String("region", cfg.ReportRegion),
		)
		return s3Store, nil
	}

	localStore, err := storage.NewLocalStorage(cfg.TempDir)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}
	logger.Info("local storage configured",
		slog.String("temp_dir", cfg.TempDir),
	)
	return localStore, nil
}
