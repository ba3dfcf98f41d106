package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Static errors for transcription client operations.
var (
	// ErrBaseURLRequired is returned when the service URL is not provided.
	ErrBaseURLRequired = errors.New("whisper: base URL is required")
	// ErrRequestFailed is returned when the service rejects a request.
	ErrRequestFailed = errors.New("whisper: request failed")
)

// HTTPClient is the HTTP implementation of the Transcriber interface.
// It posts the audio as a multipart upload to the service's /transcribe
// endpoint and retries transient failures with exponential backoff.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	maxRetries uint64
}

// ClientOption is a function that configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(hc *HTTPClient) {
		hc.httpClient = c
	}
}

// WithMaxRetries sets the maximum number of retries for transient failures.
func WithMaxRetries(n uint64) ClientOption {
	return func(hc *HTTPClient) {
		hc.maxRetries = n
	}
}

// NewClient creates a new transcription service client.
func NewClient(baseURL string, opts ...ClientOption) (*HTTPClient, error) {
	if baseURL == "" {
		return nil, ErrBaseURLRequired
	}

	c := &HTTPClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		maxRetries: 2,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Transcribe uploads the wav file at path and returns the transcription.
func (c *HTTPClient) Transcribe(ctx context.Context, path string) (*Transcription, error) {
	var out *Transcription

	operation := func() error {
		result, err := c.doTranscribe(ctx, path)
		if err != nil {
			return err
		}
		out = result
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}

	return out, nil
}

// doTranscribe performs a single multipart upload to the service.
// Non-transient failures are wrapped as permanent so they are not retried.
func (c *HTTPClient) doTranscribe(ctx context.Context, path string) (*Transcription, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("whisper: create form file: %w", err))
	}

	f, err := os.Open(path) // #nosec G304 - path is provided by trusted caller
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("whisper: open audio: %w", err))
	}
	defer func() { _ = f.Close() }()

	if _, err := io.Copy(part, f); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("whisper: copy audio: %w", err))
	}
	if err := writer.Close(); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("whisper: close multipart writer: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transcribe", &body)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("whisper: create request: %w", err))
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Network errors are transient.
		return nil, fmt.Errorf("whisper: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		wrapped := fmt.Errorf("%w with status %d: %s", ErrRequestFailed, resp.StatusCode, string(respBody))
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return nil, wrapped
		}
		return nil, backoff.Permanent(wrapped)
	}

	var out Transcription
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("whisper: decode response: %w", err))
	}

	return &out, nil
}

// Verify interface implementation at compile time.
var _ Transcriber = (*HTTPClient)(nil)
