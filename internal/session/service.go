// Package session provides the analysis use case: it orchestrates audio
// conversion, transcription, pause detection, suggestion generation and
// metrics for one practice recording.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/confidencecoach/coach-api/internal/audio"
	"github.com/confidencecoach/coach-api/internal/storage"
	"github.com/confidencecoach/coach-api/internal/suggest"
	"github.com/confidencecoach/coach-api/internal/transcript"
	"github.com/confidencecoach/coach-api/internal/whisper"
)

// Analysis is the result of analyzing one recording. It exists only for the
// duration of the request; nothing in it is persisted.
type Analysis struct {
	// Transcript is the full transcript text.
	Transcript string `json:"transcript"`
	// Words is the word-level timeline.
	Words []transcript.Word `json:"words"`
	// Pauses are the detected freeze moments, each with a suggestion.
	Pauses []transcript.PauseEvent `json:"pauses"`
	// Duration is the spoken duration in seconds, rounded to 1 decimal.
	Duration float64 `json:"duration"`
	// Metrics summarizes the session.
	Metrics transcript.Metrics `json:"metrics"`
	// ReportURL is set when the session report was exported.
	ReportURL string `json:"report_url,omitempty"`
}

// Service orchestrates the analysis workflow.
type Service struct {
	converter   audio.Converter
	transcriber whisper.Transcriber
	suggester   suggest.Suggester
	store       storage.Storage
	logger      *slog.Logger

	threshold            float64
	window               float64
	maxConcurrentPrompts int
	exportReports        bool
}

// Option is a function that configures a Service.
type Option func(*Service)

// WithThreshold sets the minimum gap in seconds that counts as a pause.
func WithThreshold(seconds float64) Option {
	return func(s *Service) {
		if seconds > 0 {
			s.threshold = seconds
		}
	}
}

// WithWindow sets the trailing context window in seconds.
func WithWindow(seconds float64) Option {
	return func(s *Service) {
		if seconds > 0 {
			s.window = seconds
		}
	}
}

// WithMaxConcurrentPrompts limits parallel suggestion calls per request.
func WithMaxConcurrentPrompts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxConcurrentPrompts = n
		}
	}
}

// WithReportExport enables uploading the JSON session report after analysis.
func WithReportExport(enabled bool) Option {
	return func(s *Service) {
		s.exportReports = enabled
	}
}

// NewService creates a new analysis Service.
func NewService(
	converter audio.Converter,
	transcriber whisper.Transcriber,
	suggester suggest.Suggester,
	store storage.Storage,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		converter:            converter,
		transcriber:          transcriber,
		suggester:            suggester,
		store:                store,
		logger:               logger,
		threshold:            transcript.DefaultThreshold,
		window:               transcript.DefaultWindow,
		maxConcurrentPrompts: 3,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze runs the full pipeline on the recording at audioPath: convert to
// wav, transcribe, detect pauses, generate one suggestion per pause, and
// compute metrics. The converted wav is removed before returning; the
// caller owns cleanup of the original upload. Any collaborator failure
// aborts the whole analysis.
func (s *Service) Analyze(ctx context.Context, audioPath string) (*Analysis, error) {
	wavPath, err := s.converter.ToWav(ctx, audioPath)
	if err != nil {
		return nil, fmt.Errorf("convert audio: %w", err)
	}
	defer func() {
		if err := s.store.CleanupTemp(context.WithoutCancel(ctx), []string{wavPath}); err != nil {
			s.logger.Warn("failed to clean up converted audio",
				slog.String("path", wavPath),
				slog.String("error", err.Error()),
			)
		}
	}()

	transcription, err := s.transcriber.Transcribe(ctx, wavPath)
	if err != nil {
		return nil, fmt.Errorf("transcribe: %w", err)
	}

	pauses, err := transcript.DetectPauses(transcription.Words, s.threshold, s.window)
	if err != nil {
		return nil, fmt.Errorf("detect pauses: %w", err)
	}

	s.logger.Info("pauses detected",
		slog.Int("word_count", len(transcription.Words)),
		slog.Int("pause_count", len(pauses)),
	)

	if err := s.generateSuggestions(ctx, pauses); err != nil {
		return nil, fmt.Errorf("generate suggestions: %w", err)
	}

	analysis := &Analysis{
		Transcript: transcription.Text,
		Words:      transcription.Words,
		Pauses:     pauses,
		Duration:   math.Round(transcript.Duration(transcription.Words)*10) / 10,
		Metrics:    transcript.CalculateMetrics(transcription.Text, pauses, len(pauses)),
	}

	if s.exportReports {
		url, err := s.exportReport(ctx, analysis)
		if err != nil {
			// Report export is best-effort; the analysis is still valid.
			s.logger.Warn("failed to export session report",
				slog.String("error", err.Error()),
			)
		} else {
			analysis.ReportURL = url
		}
	}

	return analysis, nil
}

// QuickPrompt generates a suggestion from a raw context string, with no
// audio involved.
func (s *Service) QuickPrompt(ctx context.Context, speechContext string) (string, error) {
	return s.suggester.Suggest(ctx, speechContext)
}

// generateSuggestions fans out one suggestion call per pause, bounded by
// maxConcurrentPrompts. Each goroutine writes only its own pause, so the
// events stay in timeline order and every suggestion is attributed to the
// pause it was generated for. The first failure cancels the rest and fails
// the whole batch.
func (s *Service) generateSuggestions(ctx context.Context, pauses []transcript.PauseEvent) error {
	if len(pauses) == 0 {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := make(chan struct{}, s.maxConcurrentPrompts)
	errCh := make(chan error, len(pauses))
	var wg sync.WaitGroup

	for i := range pauses {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			}
			defer func() { <-sem }()

			suggestion, err := s.suggester.Suggest(ctx, pauses[i].ContextBefore)
			if err != nil {
				errCh <- err
				cancel()
				return
			}
			pauses[i].Suggestion = suggestion
		}(i)
	}

	wg.Wait()
	close(errCh)

	// Prefer a real failure over the cancellations it triggered.
	var firstErr error
	for err := range errCh {
		if firstErr == nil || errors.Is(firstErr, context.Canceled) {
			firstErr = err
		}
	}
	return firstErr
}

// exportReport uploads the JSON analysis result and returns its URL.
// The report never contains audio.
func (s *Service) exportReport(ctx context.Context, analysis *Analysis) (string, error) {
	body, err := json.Marshal(analysis)
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	key := fmt.Sprintf("reports/%s/%s.json", time.Now().UTC().Format("2006-01-02"), uuid.NewString())
	return s.store.UploadReport(ctx, key, bytes.NewReader(body))
}
