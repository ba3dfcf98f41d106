// Package suggest provides the continuation-suggestion port and its Claude
// adapter. A suggester turns the context preceding a pause into one short,
// topic-specific prompt the speaker can pick up from.
package suggest

import "context"

// DefaultSuggestion is returned without an external call when the context
// is too short to produce anything topic-specific.
const DefaultSuggestion = "What's the main point you want to make?"

// DefaultMinContextChars is the minimum trimmed context length that
// justifies a generation call.
const DefaultMinContextChars = 10

// Suggester defines the interface for generating continuation suggestions.
type Suggester interface {
	// Suggest returns a continuation suggestion for the given context.
	// Context that is empty or too short yields DefaultSuggestion without
	// an external call.
	Suggest(ctx context.Context, speechContext string) (string, error)
}
