package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSummary(t *testing.T) {
	content := "The document covers pagination.\nIt has two parts.\n\n- widows are fixed\n* orphans are fixed\n"

	summary, points := extractSummary(content)
	assert.Equal(t, "The document covers pagination. It has two parts.", summary)
	assert.Equal(t, []string{"widows are fixed", "orphans are fixed"}, points)
}

func TestNewOpenAIClientRequiresKey(t *testing.T) {
	_, err := NewOpenAIClient("", openai.ChatModelGPT4oMini)
	assert.Error(t, err)
}

func TestOpenAIClientSummarize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 0,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": "Short summary.\n- point one"},
			}},
		})
	}))
	defer srv.Close()

	client, err := NewOpenAIClient("test-key", "", option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	require.NoError(t, err)

	summary, points, err := client.Summarize(context.Background(), "page text")
	require.NoError(t, err)
	assert.Equal(t, "Short summary.", summary)
	assert.Equal(t, []string{"point one"}, points)
}
