package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/confidencecoach/coach-api/internal/session"
	"github.com/confidencecoach/coach-api/internal/storage"
	"github.com/confidencecoach/coach-api/internal/transcript"
)

// maxUploadBytes caps the size of audio uploads (50 MB).
const maxUploadBytes = 50 << 20

// Handlers contains the HTTP handlers for the API.
type Handlers struct {
	service   *session.Service
	store     storage.Storage
	validator *validator.Validate
	logger    *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *session.Service, store storage.Storage, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		service:   service,
		store:     store,
		validator: validator.New(),
		logger:    logger,
	}
}

// Health handles GET /health requests.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy", Service: "confidence-coach-api"})
}

// Analyze handles POST /analyze requests. It accepts a multipart upload with
// an "audio" field, runs the full analysis pipeline, and returns the
// transcript, detected pauses with suggestions, and session metrics. The
// uploaded audio only ever touches the temp spool and is removed before the
// response is written.
func (h *Handlers) Analyze(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no audio file provided", "MISSING_AUDIO")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Warn("failed to read audio upload",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, "failed to read audio file", "INVALID_UPLOAD")
		return
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "audio file is empty", "EMPTY_AUDIO")
		return
	}

	path, err := h.store.SaveTemp(r.Context(), header.Filename, bytes.NewReader(data))
	if err != nil {
		h.logger.Error("failed to spool audio upload",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to store audio file", "STORAGE_FAILED")
		return
	}
	defer func() {
		if cleanupErr := h.store.CleanupTemp(context.WithoutCancel(r.Context()), []string{path}); cleanupErr != nil {
			h.logger.Warn("failed to clean up uploaded audio",
				slog.String("path", path),
				slog.String("error", cleanupErr.Error()),
			)
		}
	}()

	analysis, err := h.service.Analyze(r.Context(), path)
	if err != nil {
		if errors.Is(err, transcript.ErrMalformedTimeline) {
			writeError(w, http.StatusBadRequest, "transcription returned a malformed word timeline", "INVALID_TIMELINE")
			return
		}
		h.logger.Error("analysis failed",
			slog.String("filename", header.Filename),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadGateway, "analysis failed", "ANALYSIS_FAILED")
		return
	}

	h.logger.Info("analysis completed",
		slog.String("filename", header.Filename),
		slog.Int("word_count", analysis.Metrics.WordCount),
		slog.Int("pause_count", analysis.Metrics.PauseCount),
		slog.Int("fluency_score", analysis.Metrics.FluencyScore),
	)

	writeJSON(w, http.StatusOK, toAnalyzeResponse(analysis, time.Since(start)))
}

// QuickPrompt handles POST /quick-prompt requests. It generates a
// continuation prompt from submitted text without any audio processing.
func (h *Handlers) QuickPrompt(w http.ResponseWriter, r *http.Request) {
	var req QuickPromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode request body",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, "invalid JSON body", "INVALID_JSON")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		h.logger.Warn("request validation failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, "no context provided", "MISSING_CONTEXT")
		return
	}

	prompt, err := h.service.QuickPrompt(r.Context(), req.Context)
	if err != nil {
		h.logger.Error("quick prompt generation failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadGateway, "prompt generation failed", "PROMPT_FAILED")
		return
	}

	writeJSON(w, http.StatusOK, QuickPromptResponse{
		Success: true,
		Context: req.Context,
		Prompt:  prompt,
	})
}

// toAnalyzeResponse maps a session analysis onto the wire format. Nil slices
// are normalized to empty ones so clients always see JSON arrays.
func toAnalyzeResponse(analysis *session.Analysis, elapsed time.Duration) AnalyzeResponse {
	words := analysis.Words
	if words == nil {
		words = []transcript.Word{}
	}
	pauses := analysis.Pauses
	if pauses == nil {
		pauses = []transcript.PauseEvent{}
	}
	return AnalyzeResponse{
		Success:    true,
		Transcript: analysis.Transcript,
		Words:      words,
		Pauses:     pauses,
		Stats: Stats{
			Duration:   analysis.Duration,
			WordCount:  analysis.Metrics.WordCount,
			PauseCount: analysis.Metrics.PauseCount,
		},
		Metrics:               analysis.Metrics,
		ReportURL:             analysis.ReportURL,
		ProcessingTimeSeconds: math.Round(elapsed.Seconds()*100) / 100,
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
