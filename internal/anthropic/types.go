// Package anthropic provides an HTTP client for the Claude Messages API,
// used to generate continuation prompts.
package anthropic

// DefaultModel is the Claude model used when none is configured.
const DefaultModel = "claude-sonnet-4-20250514"

// messagesRequest represents the request body for the /v1/messages endpoint.
type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

// message is a single conversation turn.
type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// messagesResponse represents the response from the /v1/messages endpoint.
type messagesResponse struct {
	ID         string         `json:"id"`
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason,omitempty"`
	Error      *apiError      `json:"error,omitempty"`
}

// contentBlock is one block of the assistant's reply.
type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// apiError is the error object embedded in API error responses.
type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
