// Package transcript implements the pause-analysis core: the word timeline
// model produced by the transcription service, pause detection over it,
// trailing-context extraction, and session fluency metrics.
package transcript

import "errors"

// ErrMalformedTimeline is returned when a word has end before start or the
// timeline's start values are not non-decreasing.
var ErrMalformedTimeline = errors.New("transcript: malformed word timeline")

// Word is a single transcribed word with its timing in seconds,
// as reported by the transcription service.
type Word struct {
	// Word is the transcribed text, verbatim from the transcriber.
	Word string `json:"word"`
	// Start is the word's start time in seconds from the beginning of the recording.
	Start float64 `json:"start"`
	// End is the word's end time in seconds.
	End float64 `json:"end"`
}

// Validate checks that the timeline is well formed: every word must have
// end >= start, and start values must be non-decreasing. Overlapping words
// (a word starting before the previous one ends) are a normal transcriber
// artifact and are allowed; they only produce negative gaps, which never
// qualify as pauses.
func Validate(words []Word) error {
	for i, w := range words {
		if w.End < w.Start {
			return ErrMalformedTimeline
		}
		if i > 0 && w.Start < words[i-1].Start {
			return ErrMalformedTimeline
		}
	}
	return nil
}

// Duration returns the end timestamp of the last word, or 0 for an empty
// timeline. This is the effective spoken duration of the recording.
func Duration(words []Word) float64 {
	if len(words) == 0 {
		return 0
	}
	return words[len(words)-1].End
}
