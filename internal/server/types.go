// Package server provides the HTTP server for the Confidence Coach API.
// It includes handlers, middleware, routes, and DTOs separated from domain types.
package server

import "github.com/confidencecoach/coach-api/internal/transcript"

// AnalyzeResponse is the HTTP response for a completed analysis.
type AnalyzeResponse struct {
	// Success indicates the analysis completed.
	Success bool `json:"success"`
	// Transcript is the full transcript text.
	Transcript string `json:"transcript"`
	// Words is the word-level timeline.
	Words []transcript.Word `json:"words"`
	// Pauses are the detected freeze moments with their suggestions.
	Pauses []transcript.PauseEvent `json:"pauses"`
	// Stats is the summary shown alongside the transcript.
	Stats Stats `json:"stats"`
	// Metrics is the full session metrics record.
	Metrics transcript.Metrics `json:"metrics"`
	// ReportURL is set when the session report was exported.
	ReportURL string `json:"report_url,omitempty"`
	// ProcessingTimeSeconds is the server-side processing time.
	ProcessingTimeSeconds float64 `json:"processing_time_seconds"`
}

// Stats is the condensed session summary.
type Stats struct {
	// Duration is the spoken duration in seconds.
	Duration float64 `json:"duration"`
	// WordCount is the number of words in the transcript.
	WordCount int `json:"word_count"`
	// PauseCount is the number of detected pauses.
	PauseCount int `json:"pause_count"`
}

// QuickPromptRequest is the HTTP request body for text-only prompt generation.
type QuickPromptRequest struct {
	// Context is the recent speech the prompt should continue from.
	Context string `json:"context" validate:"required"`
}

// QuickPromptResponse is the HTTP response for text-only prompt generation.
type QuickPromptResponse struct {
	// Success indicates the prompt was generated.
	Success bool `json:"success"`
	// Context echoes the submitted context.
	Context string `json:"context"`
	// Prompt is the generated continuation prompt.
	Prompt string `json:"prompt"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	// Error is the human-readable error message.
	Error string `json:"error"`
	// Code is the error code for programmatic handling.
	Code string `json:"code"`
}

// HealthResponse is the HTTP response for the health check endpoint.
type HealthResponse struct {
	// Status is the health status of the service.
	Status string `json:"status"`
	// Service is the service name.
	Service string `json:"service"`
}
