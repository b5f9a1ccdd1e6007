package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katakuxiko/rag-assistant/internal/config"
)

func TestIsChatModel(t *testing.T) {
	tests := []struct {
		model string
		want  bool
	}{
		{"gpt-3.5-turbo", true},
		{"gpt-4", true},
		{"GPT-4o", true},
		{"gpt-3.5-turbo-instruct", true},
		{"text-davinci-003", false},
		{"babbage-002", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isChatModel(tt.model), "model: %s", tt.model)
	}
}

func TestOpenAIMissingKeyFailsFast(t *testing.T) {
	c := newOpenAIClient(config.OpenAIConfig{Model: "gpt-3.5-turbo"}, logrus.New())
	_, err := c.Generate(context.Background(), "p")
	require.Error(t, err)

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, KindConfig, perr.Kind)
}

func newTestOpenAIClient(baseURL, model string) *openaiClient {
	c := newOpenAIClient(config.OpenAIConfig{
		APIKey:      "test-key",
		BaseURL:     baseURL,
		Model:       model,
		MaxTokens:   64,
		Temperature: 0.7,
	}, logrus.New())
	c.retry = fastRetry(1)
	return c
}

func TestOpenAIChatModelUsesChatEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "chat answer"}},
			},
		})
	}))
	defer srv.Close()

	out, err := newTestOpenAIClient(srv.URL+"/v1", "gpt-3.5-turbo").Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "chat answer", out)
}

func TestOpenAILegacyModelUsesCompletionEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/completions", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"text": "completion answer"}},
		})
	}))
	defer srv.Close()

	out, err := newTestOpenAIClient(srv.URL+"/v1", "text-davinci-003").Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "completion answer", out)
}
