package suggest

import (
	"context"
	"fmt"
	"strings"

	"github.com/confidencecoach/coach-api/internal/anthropic"
)

// promptTemplate is the fixed instruction sent to Claude, parameterized only
// by the speaker's recent context. The constraints (specific, short,
// question-phrased, no filler encouragement) are imposed by instruction.
const promptTemplate = `You help TikTok creators who freeze while recording videos.

Given the last 15 seconds of what they said, generate ONE short prompt (under 15 words) to help them continue naturally.

Rules:
- Be specific to their topic, not generic
- Phrase as a question or gentle suggestion
- Conversational, friendly tone
- No motivational fluff like "you got this"
- No generic prompts like "tell us more"
- Reference something specific they mentioned

Creator was saying: "%s"

They froze. Give them a specific prompt to continue (just the prompt, nothing else):`

// ClaudeSuggester generates suggestions through the Claude Messages API.
type ClaudeSuggester struct {
	client          anthropic.Client
	minContextChars int
}

// SuggesterOption is a function that configures a ClaudeSuggester.
type SuggesterOption func(*ClaudeSuggester)

// WithMinContextChars sets the minimum trimmed context length that triggers
// a generation call instead of the default suggestion.
func WithMinContextChars(n int) SuggesterOption {
	return func(s *ClaudeSuggester) {
		if n > 0 {
			s.minContextChars = n
		}
	}
}

// NewClaudeSuggester creates a suggester backed by the given Claude client.
func NewClaudeSuggester(client anthropic.Client, opts ...SuggesterOption) *ClaudeSuggester {
	s := &ClaudeSuggester{
		client:          client,
		minContextChars: DefaultMinContextChars,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Suggest returns a continuation suggestion for the given speech context.
// Context shorter than the minimum short-circuits to DefaultSuggestion:
// a generation call on uninformative context only produces generic output.
func (s *ClaudeSuggester) Suggest(ctx context.Context, speechContext string) (string, error) {
	if len(strings.TrimSpace(speechContext)) < s.minContextChars {
		return DefaultSuggestion, nil
	}

	reply, err := s.client.Complete(ctx, fmt.Sprintf(promptTemplate, speechContext))
	if err != nil {
		return "", fmt.Errorf("suggest: generation call: %w", err)
	}

	return cleanReply(reply), nil
}

// cleanReply trims surrounding whitespace and one layer of enclosing quotes
// from the model's reply.
func cleanReply(reply string) string {
	cleaned := strings.TrimSpace(reply)
	if len(cleaned) >= 2 {
		first, last := cleaned[0], cleaned[len(cleaned)-1]
		if first == last && (first == '"' || first == '\'') {
			cleaned = cleaned[1 : len(cleaned)-1]
		}
	}
	return cleaned
}

// Verify interface implementation at compile time.
var _ Suggester = (*ClaudeSuggester)(nil)
