package transcript

import (
	"errors"
	"math"
	"strings"
)

// Defaults for pause detection and context extraction.
const (
	// DefaultThreshold is the minimum gap in seconds that counts as a pause.
	DefaultThreshold = 3.0
	// DefaultWindow is the trailing context window in seconds before a pause.
	DefaultWindow = 15.0
)

// ErrInvalidThreshold is returned when the pause threshold is not positive.
var ErrInvalidThreshold = errors.New("transcript: pause threshold must be positive")

// PauseEvent is a detected gap between two adjacent words that met the
// pause threshold. It is enriched with a suggestion after detection.
type PauseEvent struct {
	// PauseStart is the end time of the word before the gap, in seconds.
	PauseStart float64 `json:"pause_start"`
	// PauseEnd is the start time of the word after the gap, in seconds.
	PauseEnd float64 `json:"pause_end"`
	// Duration is the gap length in seconds.
	Duration float64 `json:"duration"`
	// WordBefore is the last word spoken before the pause.
	WordBefore string `json:"word_before"`
	// WordAfter is the first word spoken after the pause.
	WordAfter string `json:"word_after"`
	// ContextBefore is the transcript text from the trailing window before the pause.
	ContextBefore string `json:"context_before"`
	// Suggestion is the continuation prompt generated for this pause.
	Suggestion string `json:"ai_prompt,omitempty"`
}

// DetectPauses scans adjacent word pairs and returns a PauseEvent for every
// gap of at least threshold seconds, in timeline order. Each event carries
// the trailing context from the window seconds before the gap. The input
// timeline is not modified. An empty timeline yields no events.
//
// Timestamps and durations are rounded to 2 decimal places. The threshold
// comparison is inclusive: a gap exactly equal to the threshold qualifies.
func DetectPauses(words []Word, threshold, window float64) ([]PauseEvent, error) {
	if threshold <= 0 {
		return nil, ErrInvalidThreshold
	}
	if err := Validate(words); err != nil {
		return nil, err
	}

	var pauses []PauseEvent
	for i := 1; i < len(words); i++ {
		gap := words[i].Start - words[i-1].End
		if gap < threshold {
			continue
		}
		pauses = append(pauses, PauseEvent{
			PauseStart:    round2(words[i-1].End),
			PauseEnd:      round2(words[i].Start),
			Duration:      round2(gap),
			WordBefore:    words[i-1].Word,
			WordAfter:     words[i].Word,
			ContextBefore: ContextBefore(words, i, window),
		})
	}
	return pauses, nil
}

// ContextBefore returns the text of every word in words[:index] whose start
// falls within the window seconds before words[index].Start, joined by
// single spaces and in original order. The window is keyed on absolute time
// rather than word count, so silence-heavy stretches yield shorter or empty
// context. Index 0 has no preceding context and returns "".
func ContextBefore(words []Word, index int, window float64) string {
	if index <= 0 || index >= len(words) {
		return ""
	}

	cutoff := words[index].Start - window

	parts := make([]string, 0, index)
	for _, w := range words[:index] {
		if w.Start >= cutoff {
			parts = append(parts, strings.TrimSpace(w.Word))
		}
	}
	return strings.Join(parts, " ")
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
