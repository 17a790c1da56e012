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

	"github.com/dhabedank/ad-agent/internal/core"
)

const chatCompletionBody = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1719792000,
  "model": "deepseek-r1-distill-llama-70b",
  "choices": [
    {"index": 0, "finish_reason": "stop", "logprobs": null,
     "message": {"role": "assistant", "content": "## Strategy guide"}}
  ],
  "usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
}`

type capturedRequest struct {
	Path          string
	Authorization string
	Body          map[string]any
}

func fakeServer(t *testing.T, status int, body string) (*httptest.Server, *[]capturedRequest) {
	t.Helper()
	var captured []capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		_ = json.NewDecoder(r.Body).Decode(&payload)
		captured = append(captured, capturedRequest{
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			Body:          payload,
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &captured
}

func chatAdapter(url string) *ChatCompletionsAdapter {
	return NewChatCompletionsAdapter(Config{Provider: ProviderGroq, BaseURL: url})
}

func request() core.CompletionRequest {
	return core.CompletionRequest{
		Prompt:      "analyze these ads",
		Credentials: "test-key",
		Model:       "llama-3.3-70b-versatile",
		Temperature: 0.6,
		Timeout:     5 * time.Second,
	}
}

func TestChatCompletionsSuccess(t *testing.T) {
	srv, captured := fakeServer(t, http.StatusOK, chatCompletionBody)

	text, err := chatAdapter(srv.URL).Complete(context.Background(), request())

	require.NoError(t, err)
	assert.Equal(t, "## Strategy guide", text)

	require.Len(t, *captured, 1, "exactly one attempt")
	got := (*captured)[0]
	assert.Equal(t, "/chat/completions", got.Path)
	assert.Equal(t, "Bearer test-key", got.Authorization)
	assert.Equal(t, "llama-3.3-70b-versatile", got.Body["model"])
	assert.Equal(t, 0.6, got.Body["temperature"])

	messages, ok := got.Body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	system := messages[0].(map[string]any)
	user := messages[1].(map[string]any)
	assert.Equal(t, "system", system["role"])
	assert.Equal(t, core.SystemInstruction, system["content"])
	assert.Equal(t, "user", user["role"])
	assert.Equal(t, "analyze these ads", user["content"])
}

func TestChatCompletionsDefaultModel(t *testing.T) {
	srv, captured := fakeServer(t, http.StatusOK, chatCompletionBody)
	req := request()
	req.Model = ""

	_, err := chatAdapter(srv.URL).Complete(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "deepseek-r1-distill-llama-70b", (*captured)[0].Body["model"])
}

func TestChatCompletionsHTTPErrorIsTransport(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusTooManyRequests, http.StatusInternalServerError} {
		srv, captured := fakeServer(t, status, `{"error":{"message":"nope","type":"invalid_request_error"}}`)

		_, err := chatAdapter(srv.URL).Complete(context.Background(), request())

		var terr *core.TransportError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, status, terr.StatusCode)
		assert.Len(t, *captured, 1, "no retries for status %d", status)
	}
}

func TestChatCompletionsMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no choices", `{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[]}`},
		{"missing choices", `{"id":"x","object":"chat.completion","created":1,"model":"m"}`},
		{"empty content", `{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":""}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := fakeServer(t, http.StatusOK, tt.body)

			_, err := chatAdapter(srv.URL).Complete(context.Background(), request())

			var merr *core.MalformedResponseError
			require.ErrorAs(t, err, &merr)
		})
	}
}

func TestChatCompletionsNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := chatAdapter(url).Complete(context.Background(), request())

	var terr *core.TransportError
	require.ErrorAs(t, err, &terr)
	assert.Zero(t, terr.StatusCode)
}

func TestChatCompletionsTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	req := request()
	req.Timeout = 50 * time.Millisecond

	_, err := chatAdapter(srv.URL).Complete(context.Background(), req)

	var terr *core.TransportError
	require.ErrorAs(t, err, &terr)
}

func TestAnthropicAdapter(t *testing.T) {
	body := `{"id":"msg_1","type":"message","role":"assistant","model":"claude-haiku-4-5-20251001",
"content":[{"type":"text","text":"Ad one"},{"type":"text","text":" and two"}],
"stop_reason":"end_turn","stop_sequence":null,"usage":{"input_tokens":3,"output_tokens":4}}`
	var apiKey, path string
	var payload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey = r.Header.Get("X-Api-Key")
		path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&payload)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	adapter := NewAnthropicAPIAdapter(Config{BaseURL: srv.URL})
	req := request()
	req.Model = ""

	text, err := adapter.Complete(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "Ad one and two", text)
	assert.Equal(t, "test-key", apiKey)
	assert.Equal(t, "/v1/messages", path)
	assert.Equal(t, "claude-sonnet-4-5-20250929", payload["model"])
	assert.Equal(t, "anthropic", adapter.Name())
}

func TestAnthropicAdapterHTTPError(t *testing.T) {
	srv, _ := fakeServer(t, http.StatusBadGateway, `{"type":"error","error":{"type":"api_error","message":"down"}}`)

	_, err := NewAnthropicAPIAdapter(Config{BaseURL: srv.URL}).Complete(context.Background(), request())

	var terr *core.TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, http.StatusBadGateway, terr.StatusCode)
}
