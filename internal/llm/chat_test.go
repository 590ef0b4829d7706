package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Model          string           `json:"model"`
	Messages       []map[string]any `json:"messages"`
	ResponseFormat map[string]any   `json:"response_format"`
}

func newTestClient(t *testing.T, reply string, status int, captured *capturedRequest) *openai.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}
		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"nope","type":"invalid_request_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1,
			"model":   "gpt-test",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": reply},
			}},
		})
	}))
	t.Cleanup(srv.Close)

	client := openai.NewClient(option.WithAPIKey("sk-test"), option.WithBaseURL(srv.URL+"/"), option.WithMaxRetries(0))
	return &client
}

func TestGenerate_ReturnsTrimmedContent(t *testing.T) {
	var captured capturedRequest
	client := NewChatClient(newTestClient(t, "  hello there \n", http.StatusOK, &captured), "gpt-test")

	out, err := client.Generate(context.Background(), []Message{
		System("be brief"),
		User("hi"),
	})
	require.NoError(t, err)
	assert.Equal(t, "hello there", out)

	assert.Equal(t, "gpt-test", captured.Model)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0]["role"])
	assert.Equal(t, "user", captured.Messages[1]["role"])
	assert.Nil(t, captured.ResponseFormat)
}

func TestGenerate_JSONResponse(t *testing.T) {
	var captured capturedRequest
	client := NewChatClient(newTestClient(t, `{"ok":true}`, http.StatusOK, &captured), "gpt-test")

	_, err := client.Generate(context.Background(), []Message{User("classify")}, JSONResponse())
	require.NoError(t, err)
	assert.Equal(t, "json_object", captured.ResponseFormat["type"])
}

func TestGenerate_EmptyReply(t *testing.T) {
	client := NewChatClient(newTestClient(t, "   ", http.StatusOK, nil), "gpt-test")

	_, err := client.Generate(context.Background(), []Message{User("hi")})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestGenerate_APIError(t *testing.T) {
	client := NewChatClient(newTestClient(t, "", http.StatusBadRequest, nil), "gpt-test")

	_, err := client.Generate(context.Background(), []Message{User("hi")})
	assert.Error(t, err)
}

func TestTruncateContent(t *testing.T) {
	c := NewChatClient(nil, "gpt-test", WithMaxTokens(10))

	long := strings.Repeat("a", 100)
	assert.Len(t, c.truncateContent(long), 40)

	short := "short"
	assert.Equal(t, short, c.truncateContent(short))
}

func TestTruncateContent_RuneBoundary(t *testing.T) {
	c := NewChatClient(nil, "gpt-test", WithMaxTokens(1))

	// "aaa" + "é" (2 bytes): a 4-byte cut would split the é.
	out := c.truncateContent("aaaé and more")
	assert.Equal(t, "aaa", out)
}
