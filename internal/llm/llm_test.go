package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions(baseURL string) Options {
	return Options{
		APIKey:    "test-key",
		Model:     "test-model",
		BaseURL:   baseURL,
		MaxTokens: 256,
		Timeout:   5 * time.Second,
	}
}

func TestAnthropicComplete(t *testing.T) {
	var gotPath, gotKey, gotVersion string
	var gotReq anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"model": "test-model-1",
			"content": []map[string]any{
				{"type": "text", "text": "about "},
				{"type": "text", "text": "two hours"},
			},
			"usage": map[string]int{"input_tokens": 100, "output_tokens": 20},
		})
	}))
	defer srv.Close()

	client, err := NewAnthropic(testOptions(srv.URL))
	require.NoError(t, err)
	assert.Equal(t, "anthropic", client.Name())

	result, err := client.Complete(context.Background(), "estimate this")
	require.NoError(t, err)

	assert.Equal(t, "/v1/messages", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, anthropicVersion, gotVersion)
	assert.Equal(t, "test-model", gotReq.Model)
	assert.Equal(t, 256, gotReq.MaxTokens)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "user", gotReq.Messages[0].Role)
	assert.Equal(t, "estimate this", gotReq.Messages[0].Content)

	assert.Equal(t, "about two hours", result.Text)
	assert.Equal(t, "test-model-1", result.Model)
	assert.Equal(t, 100, result.InputTokens)
	assert.Equal(t, 20, result.OutputTokens)
}

func TestAnthropicCompleteAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"type": "invalid_request_error", "message": "prompt too long"},
		})
	}))
	defer srv.Close()

	client, err := NewAnthropic(testOptions(srv.URL))
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prompt too long")
	assert.Contains(t, err.Error(), "status 400")
}

func TestAnthropicRequiresKeyAndModel(t *testing.T) {
	_, err := NewAnthropic(Options{Model: "m"})
	require.Error(t, err)

	_, err = NewAnthropic(Options{APIKey: "k"})
	require.Error(t, err)
}

func TestOpenAIComplete(t *testing.T) {
	var gotPath, gotAuth string
	var gotReq openAIRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"model": "test-model-2",
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "roughly a day"}, "finish_reason": "stop"},
			},
			"usage": map[string]int{"prompt_tokens": 50, "completion_tokens": 10},
		})
	}))
	defer srv.Close()

	client, err := NewOpenAI(testOptions(srv.URL))
	require.NoError(t, err)
	assert.Equal(t, "openai", client.Name())

	result, err := client.Complete(context.Background(), "estimate this")
	require.NoError(t, err)

	assert.Equal(t, "/v1/chat/completions", gotPath)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "test-model", gotReq.Model)
	assert.Equal(t, 256, gotReq.MaxTokens)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "estimate this", gotReq.Messages[0].Content)

	assert.Equal(t, "roughly a day", result.Text)
	assert.Equal(t, "test-model-2", result.Model)
	assert.Equal(t, 50, result.InputTokens)
	assert.Equal(t, 10, result.OutputTokens)
}

func TestOpenAICompleteNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	client, err := NewOpenAI(testOptions(srv.URL))
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestCompleteRetriesOnServerError(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"model":   "test-model-1",
			"content": []map[string]any{{"type": "text", "text": "ok"}},
		})
	}))
	defer srv.Close()

	client, err := NewAnthropic(testOptions(srv.URL))
	require.NoError(t, err)

	result, err := client.Complete(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Text)
	assert.Equal(t, 2, calls)
}
