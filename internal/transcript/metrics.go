package transcript

import (
	"math"
	"strings"
)

// Fluency penalty coefficients. These are tunable but must stay stable so
// scores remain comparable across sessions.
const (
	penaltyPerPauseSecond = 5.0
	penaltyPerPause       = 10.0
)

// Metrics summarizes a practice session.
type Metrics struct {
	// WordCount is the number of whitespace-delimited tokens in the transcript.
	WordCount int `json:"word_count"`
	// PauseCount is the number of detected pauses.
	PauseCount int `json:"pause_count"`
	// TotalPauseSeconds is the summed pause duration, rounded to 1 decimal.
	TotalPauseSeconds float64 `json:"total_pause_seconds"`
	// PromptsGenerated is how many suggestions were produced for this session.
	PromptsGenerated int `json:"prompts_generated"`
	// FluencyScore is a 0-100 score penalizing long and frequent pauses.
	FluencyScore int `json:"fluency_score"`
}

// CalculateMetrics derives session metrics from the transcript text and the
// detected pauses. It is a pure function: identical inputs always yield the
// same Metrics.
//
// The fluency score starts at 100 and loses 5 points per pause-second and
// 10 points per pause event, clamped to [0, 100]. An empty transcript
// scores 0 regardless of pauses.
func CalculateMetrics(transcript string, pauses []PauseEvent, promptsGenerated int) Metrics {
	wordCount := len(strings.Fields(transcript))

	var total float64
	for _, p := range pauses {
		total += p.Duration
	}

	score := 0
	if wordCount > 0 {
		score = int(math.Round(100 - total*penaltyPerPauseSecond - float64(len(pauses))*penaltyPerPause))
		if score < 0 {
			score = 0
		}
		if score > 100 {
			score = 100
		}
	}

	return Metrics{
		WordCount:         wordCount,
		PauseCount:        len(pauses),
		TotalPauseSeconds: round1(total),
		PromptsGenerated:  promptsGenerated,
		FluencyScore:      score,
	}
}
