package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/confidencecoach/coach-api/internal/session"
	"github.com/confidencecoach/coach-api/internal/transcript"
	"github.com/confidencecoach/coach-api/internal/whisper"
)

// mockConverter implements audio.Converter for testing.
type mockConverter struct {
	mock.Mock
}

func (m *mockConverter) ToWav(ctx context.Context, inputPath string) (string, error) {
	args := m.Called(ctx, inputPath)
	return args.String(0), args.Error(1)
}

// mockTranscriber implements whisper.Transcriber for testing.
type mockTranscriber struct {
	mock.Mock
}

func (m *mockTranscriber) Transcribe(ctx context.Context, path string) (*whisper.Transcription, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*whisper.Transcription), args.Error(1)
}

// mockSuggester implements suggest.Suggester for testing.
type mockSuggester struct {
	mock.Mock
}

func (m *mockSuggester) Suggest(ctx context.Context, speechContext string) (string, error) {
	args := m.Called(ctx, speechContext)
	return args.String(0), args.Error(1)
}

// mockStorage implements storage.Storage for testing.
type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) SaveTemp(ctx context.Context, name string, data io.Reader) (string, error) {
	args := m.Called(ctx, name, data)
	return args.String(0), args.Error(1)
}

func (m *mockStorage) CleanupTemp(ctx context.Context, paths []string) error {
	args := m.Called(ctx, paths)
	return args.Error(0)
}

func (m *mockStorage) UploadReport(ctx context.Context, key string, data io.Reader) (string, error) {
	args := m.Called(ctx, key, data)
	return args.String(0), args.Error(1)
}

func newTestHandlers(t *testing.T) (*Handlers, *mockConverter, *mockTranscriber, *mockSuggester, *mockStorage) {
	t.Helper()
	converter := &mockConverter{}
	transcriber := &mockTranscriber{}
	suggester := &mockSuggester{}
	store := &mockStorage{}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	svc := session.NewService(converter, transcriber, suggester, store, logger)
	return NewHandlers(svc, store, logger), converter, transcriber, suggester, store
}

// audioRequest builds a multipart POST /analyze request with an audio field.
func audioRequest(t *testing.T, field, filename, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/analyze", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// pausedTranscription returns a transcription with one 3.5s pause.
func pausedTranscription() *whisper.Transcription {
	return &whisper.Transcription{
		Text: "so my routine first",
		Words: []transcript.Word{
			{Word: "so", Start: 0.0, End: 0.5},
			{Word: "my", Start: 0.6, End: 1.0},
			{Word: "routine", Start: 1.1, End: 1.5},
			{Word: "first", Start: 5.0, End: 5.4},
		},
	}
}

func TestHealth(t *testing.T) {
	handlers, _, _, _, _ := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handlers.Health(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "confidence-coach-api", resp.Service)
}

func TestAnalyze(t *testing.T) {
	handlers, converter, transcriber, suggester, store := newTestHandlers(t)

	store.On("SaveTemp", mock.Anything, "rec.webm", mock.Anything).Return("/spool/rec.webm", nil)
	converter.On("ToWav", mock.Anything, "/spool/rec.webm").Return("/spool/rec.wav", nil)
	transcriber.On("Transcribe", mock.Anything, "/spool/rec.wav").Return(pausedTranscription(), nil)
	suggester.On("Suggest", mock.Anything, "so my routine").Return("Try sharing one concrete detail!", nil)
	store.On("CleanupTemp", mock.Anything, []string{"/spool/rec.wav"}).Return(nil)
	store.On("CleanupTemp", mock.Anything, []string{"/spool/rec.webm"}).Return(nil)

	rec := httptest.NewRecorder()
	handlers.Analyze(rec, audioRequest(t, "audio", "rec.webm", "fake-audio"))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp AnalyzeResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "so my routine first", resp.Transcript)
	assert.Len(t, resp.Words, 4)
	require.Len(t, resp.Pauses, 1)
	assert.Equal(t, 3.5, resp.Pauses[0].Duration)
	assert.Equal(t, "Try sharing one concrete detail!", resp.Pauses[0].Suggestion)
	assert.Equal(t, 5.4, resp.Stats.Duration)
	assert.Equal(t, 4, resp.Stats.WordCount)
	assert.Equal(t, 1, resp.Stats.PauseCount)
	assert.Equal(t, 73, resp.Metrics.FluencyScore)
	assert.GreaterOrEqual(t, resp.ProcessingTimeSeconds, 0.0)

	store.AssertExpectations(t)
	converter.AssertExpectations(t)
	transcriber.AssertExpectations(t)
	suggester.AssertExpectations(t)
}

func TestAnalyze_MissingAudioField(t *testing.T) {
	handlers, _, _, _, _ := newTestHandlers(t)

	rec := httptest.NewRecorder()
	handlers.Analyze(rec, audioRequest(t, "file", "rec.webm", "fake-audio"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "MISSING_AUDIO", resp.Code)
}

func TestAnalyze_EmptyAudio(t *testing.T) {
	handlers, _, _, _, _ := newTestHandlers(t)

	rec := httptest.NewRecorder()
	handlers.Analyze(rec, audioRequest(t, "audio", "rec.webm", ""))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "EMPTY_AUDIO", resp.Code)
}

func TestAnalyze_MalformedTimeline(t *testing.T) {
	handlers, converter, transcriber, _, store := newTestHandlers(t)

	store.On("SaveTemp", mock.Anything, mock.Anything, mock.Anything).Return("/spool/rec.webm", nil)
	converter.On("ToWav", mock.Anything, mock.Anything).Return("/spool/rec.wav", nil)
	transcriber.On("Transcribe", mock.Anything, mock.Anything).Return(&whisper.Transcription{
		Text: "bad words",
		Words: []transcript.Word{
			{Word: "bad", Start: 2.0, End: 2.5},
			{Word: "words", Start: 1.0, End: 1.5},
		},
	}, nil)
	store.On("CleanupTemp", mock.Anything, mock.Anything).Return(nil)

	rec := httptest.NewRecorder()
	handlers.Analyze(rec, audioRequest(t, "audio", "rec.webm", "fake-audio"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "INVALID_TIMELINE", resp.Code)
}

func TestAnalyze_TranscriberFailure(t *testing.T) {
	handlers, converter, transcriber, _, store := newTestHandlers(t)

	store.On("SaveTemp", mock.Anything, mock.Anything, mock.Anything).Return("/spool/rec.webm", nil)
	converter.On("ToWav", mock.Anything, mock.Anything).Return("/spool/rec.wav", nil)
	transcriber.On("Transcribe", mock.Anything, mock.Anything).Return(nil, errors.New("service unavailable"))
	store.On("CleanupTemp", mock.Anything, mock.Anything).Return(nil)

	rec := httptest.NewRecorder()
	handlers.Analyze(rec, audioRequest(t, "audio", "rec.webm", "fake-audio"))

	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ANALYSIS_FAILED", resp.Code)
}

func TestAnalyze_SpoolFailure(t *testing.T) {
	handlers, _, _, _, store := newTestHandlers(t)

	store.On("SaveTemp", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("disk full"))

	rec := httptest.NewRecorder()
	handlers.Analyze(rec, audioRequest(t, "audio", "rec.webm", "fake-audio"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "STORAGE_FAILED", resp.Code)
}

func TestQuickPrompt(t *testing.T) {
	handlers, _, _, suggester, _ := newTestHandlers(t)

	suggester.On("Suggest", mock.Anything, "I was talking about my day").
		Return("And then what happened next?", nil)

	body := bytes.NewBufferString(`{"context": "I was talking about my day"}`)
	req := httptest.NewRequest(http.MethodPost, "/quick-prompt", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handlers.QuickPrompt(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp QuickPromptResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "I was talking about my day", resp.Context)
	assert.Equal(t, "And then what happened next?", resp.Prompt)
}

func TestQuickPrompt_InvalidJSON(t *testing.T) {
	handlers, _, _, _, _ := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodPost, "/quick-prompt", bytes.NewBufferString("not json"))
	rec := httptest.NewRecorder()
	handlers.QuickPrompt(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "INVALID_JSON", resp.Code)
}

func TestQuickPrompt_MissingContext(t *testing.T) {
	handlers, _, _, _, _ := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodPost, "/quick-prompt", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	handlers.QuickPrompt(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "MISSING_CONTEXT", resp.Code)
}

func TestQuickPrompt_SuggesterFailure(t *testing.T) {
	handlers, _, _, suggester, _ := newTestHandlers(t)

	suggester.On("Suggest", mock.Anything, mock.Anything).Return("", errors.New("api down"))

	body := bytes.NewBufferString(`{"context": "some long enough context"}`)
	req := httptest.NewRequest(http.MethodPost, "/quick-prompt", body)
	rec := httptest.NewRecorder()
	handlers.QuickPrompt(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "PROMPT_FAILED", resp.Code)
}

func TestRouter(t *testing.T) {
	handlers, _, _, _, _ := newTestHandlers(t)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	router := NewRouter(handlers, logger, DefaultConfig())

	t.Run("health route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("method not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/analyze", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("cors preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/analyze", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("request id is propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("X-Request-ID", "req-123")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
	})
}
