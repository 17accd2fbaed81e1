package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestOpenAIComplete(t *testing.T) {
	var gotAuth string
	var gotBody openaiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"model": "gpt-4o",
			"choices": []map[string]any{
				{"message": map[string]any{"content": `{"feature_results": []}`}},
			},
		})
	}))
	defer srv.Close()

	old := OpenAIAPIURL()
	SetOpenAIAPIURL(srv.URL)
	defer SetOpenAIAPIURL(old)

	c := NewOpenAI("sk-test", "gpt-4o")
	resp, err := c.Complete(context.Background(), &Request{
		SystemPrompt: "You are a compliance analyst.",
		UserPrompt:   "evaluate",
		MaxTokens:    512,
	})
	require.NoError(t, err)
	require.Equal(t, `{"feature_results": []}`, resp.Content)
	require.Equal(t, "openai:gpt-4o", resp.Model)

	require.Equal(t, "Bearer sk-test", gotAuth)
	require.Equal(t, "gpt-4o", gotBody.Model)
	require.Len(t, gotBody.Messages, 2)
	require.Equal(t, "system", gotBody.Messages[0].Role)
	require.Equal(t, 512, gotBody.MaxTokens)
}

func TestOpenAICompleteHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"type": "rate_limit_error", "message": "slow down"},
		})
	}))
	defer srv.Close()

	old := OpenAIAPIURL()
	SetOpenAIAPIURL(srv.URL)
	defer SetOpenAIAPIURL(old)

	c := NewOpenAI("sk-test", "gpt-4o")
	_, err := c.Complete(context.Background(), &Request{UserPrompt: "evaluate"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "rate_limit_error")
}

func TestOpenAICompleteEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	old := OpenAIAPIURL()
	SetOpenAIAPIURL(srv.URL)
	defer SetOpenAIAPIURL(old)

	c := NewOpenAI("sk-test", "gpt-4o")
	_, err := c.Complete(context.Background(), &Request{UserPrompt: "evaluate"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "empty choices")
}

func TestAnthropicComplete(t *testing.T) {
	var gotVersion, gotKey string
	var gotBody anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotVersion = r.Header.Get("anthropic-version")
		gotKey = r.Header.Get("x-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":    "msg_01",
			"model": "claude-sonnet-4-5",
			"content": []map[string]any{
				{"type": "text", "text": "part one "},
				{"type": "text", "text": "part two"},
			},
		})
	}))
	defer srv.Close()

	old := AnthropicAPIURL()
	SetAnthropicAPIURL(srv.URL)
	defer SetAnthropicAPIURL(old)

	c := NewAnthropic("key-test", "claude-sonnet-4-5")
	resp, err := c.Complete(context.Background(), &Request{
		SystemPrompt: "analyst",
		UserPrompt:   "evaluate",
	})
	require.NoError(t, err)
	require.Equal(t, "part one part two", resp.Content)
	require.Equal(t, "anthropic:claude-sonnet-4-5", resp.Model)

	require.Equal(t, anthropicVersion, gotVersion)
	require.Equal(t, "key-test", gotKey)
	require.Equal(t, "analyst", gotBody.System)
	require.Equal(t, defaultMaxTokens, gotBody.MaxTokens)
}

func TestAnthropicCompleteAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"type": "invalid_request_error", "message": "bad prompt"},
		})
	}))
	defer srv.Close()

	old := AnthropicAPIURL()
	SetAnthropicAPIURL(srv.URL)
	defer SetAnthropicAPIURL(old)

	c := NewAnthropic("key-test", "claude-sonnet-4-5")
	_, err := c.Complete(context.Background(), &Request{UserPrompt: "evaluate"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid_request_error")
}

func TestAnthropicCompleteNoTextContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": "msg_01", "model": "claude-sonnet-4-5", "content": []any{},
		})
	}))
	defer srv.Close()

	old := AnthropicAPIURL()
	SetAnthropicAPIURL(srv.URL)
	defer SetAnthropicAPIURL(old)

	c := NewAnthropic("key-test", "claude-sonnet-4-5")
	_, err := c.Complete(context.Background(), &Request{UserPrompt: "evaluate"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "no text content")
}

type countingClient struct {
	calls int
}

func (c *countingClient) Complete(_ context.Context, _ *Request) (*Response, error) {
	c.calls++
	return &Response{Content: "ok"}, nil
}

func TestRateLimitedClient(t *testing.T) {
	inner := &countingClient{}
	c := NewRateLimited(inner, rate.Every(10*time.Millisecond), 1)

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := c.Complete(context.Background(), &Request{UserPrompt: "x"})
		require.NoError(t, err)
	}

	require.Equal(t, 3, inner.calls)
	// Burst of 1 forces the second and third calls to wait one interval each.
	require.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestRateLimitedClientCancelled(t *testing.T) {
	inner := &countingClient{}
	c := NewRateLimited(inner, rate.Every(time.Hour), 1)

	_, err := c.Complete(context.Background(), &Request{UserPrompt: "x"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Complete(ctx, &Request{UserPrompt: "x"})
	require.Error(t, err)
	require.Equal(t, 1, inner.calls)
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", truncate("short", 10))
	require.Equal(t, "abc...", truncate("abcdefgh", 3))
}

type blockingClient struct{}

func (blockingClient) Complete(ctx context.Context, _ *Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestTimeoutClient(t *testing.T) {
	c := NewWithTimeout(blockingClient{}, 10*time.Millisecond)

	start := time.Now()
	_, err := c.Complete(context.Background(), &Request{UserPrompt: "hi"})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), time.Second)
}
