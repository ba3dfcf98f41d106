package transcript

import (
	"strings"
	"testing"
)

func TestCalculateMetrics_PenaltyFormula(t *testing.T) {
	// 50 words, 4.0 pause seconds over 2 pauses:
	// 100 - 4*5 - 2*10 = 60.
	transcript := strings.Repeat("word ", 50)
	pauses := []PauseEvent{
		{Duration: 1.5},
		{Duration: 2.5},
	}

	m := CalculateMetrics(transcript, pauses, 2)

	if m.WordCount != 50 {
		t.Errorf("expected word_count 50, got %d", m.WordCount)
	}
	if m.PauseCount != 2 {
		t.Errorf("expected pause_count 2, got %d", m.PauseCount)
	}
	if m.TotalPauseSeconds != 4.0 {
		t.Errorf("expected total_pause_seconds 4.0, got %v", m.TotalPauseSeconds)
	}
	if m.PromptsGenerated != 2 {
		t.Errorf("expected prompts_generated 2, got %d", m.PromptsGenerated)
	}
	if m.FluencyScore != 60 {
		t.Errorf("expected fluency_score 60, got %d", m.FluencyScore)
	}
}

func TestCalculateMetrics_EmptyTranscript(t *testing.T) {
	m := CalculateMetrics("", nil, 0)

	if m.WordCount != 0 {
		t.Errorf("expected word_count 0, got %d", m.WordCount)
	}
	if m.PauseCount != 0 {
		t.Errorf("expected pause_count 0, got %d", m.PauseCount)
	}
	if m.TotalPauseSeconds != 0 {
		t.Errorf("expected total_pause_seconds 0, got %v", m.TotalPauseSeconds)
	}
	if m.FluencyScore != 0 {
		t.Errorf("expected fluency_score 0, got %d", m.FluencyScore)
	}
}

func TestCalculateMetrics_EmptyTranscriptWithPauses(t *testing.T) {
	// No words means score is 0 regardless of pauses.
	pauses := []PauseEvent{{Duration: 5.0}}

	m := CalculateMetrics("", pauses, 1)
	if m.FluencyScore != 0 {
		t.Errorf("expected fluency_score 0 for empty transcript, got %d", m.FluencyScore)
	}
	if m.PauseCount != 1 {
		t.Errorf("expected pause_count 1, got %d", m.PauseCount)
	}
}

func TestCalculateMetrics_ClampsAtZero(t *testing.T) {
	// Heavy pausing drives the score toward but never below zero.
	pauses := []PauseEvent{
		{Duration: 10.0},
		{Duration: 10.0},
		{Duration: 10.0},
	}

	m := CalculateMetrics("a few words here", pauses, 3)
	if m.FluencyScore != 0 {
		t.Errorf("expected fluency_score clamped to 0, got %d", m.FluencyScore)
	}
}

func TestCalculateMetrics_PerfectSession(t *testing.T) {
	m := CalculateMetrics("smooth talk with no pausing at all", nil, 0)
	if m.FluencyScore != 100 {
		t.Errorf("expected fluency_score 100, got %d", m.FluencyScore)
	}
}

func TestCalculateMetrics_RoundsTotalToOneDecimal(t *testing.T) {
	pauses := []PauseEvent{
		{Duration: 3.33},
		{Duration: 3.33},
	}

	m := CalculateMetrics("some words", pauses, 2)
	if m.TotalPauseSeconds != 6.7 {
		t.Errorf("expected total_pause_seconds 6.7, got %v", m.TotalPauseSeconds)
	}
}

func TestCalculateMetrics_Deterministic(t *testing.T) {
	pauses := []PauseEvent{{Duration: 3.2}, {Duration: 4.8}}

	a := CalculateMetrics("one two three", pauses, 2)
	b := CalculateMetrics("one two three", pauses, 2)
	if a != b {
		t.Error("expected identical metrics for identical inputs")
	}
}
