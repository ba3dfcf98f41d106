// Package whisper provides an HTTP client for the external Whisper
// transcription service, which returns the full transcript text together
// with word-level timestamps.
package whisper

import (
	"context"

	"github.com/confidencecoach/coach-api/internal/transcript"
)

// Transcription is the result of transcribing one recording.
type Transcription struct {
	// Text is the full transcript.
	Text string `json:"text"`
	// Words is the word-level timeline.
	Words []transcript.Word `json:"words"`
}

// Transcriber defines the interface for the transcription collaborator.
type Transcriber interface {
	// Transcribe uploads the wav file at path and returns the transcription.
	Transcribe(ctx context.Context, path string) (*Transcription, error)
}
