package provider

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/katakuxiko/rag-assistant/internal/config"
)

const (
	defaultAnthropicEndpoint = "https://api.anthropic.com/v1/complete"
	anthropicVersion         = "2023-06-01"
)

// anthropicClient talks to the Anthropic text-completion API. The prompt is
// wrapped in the Human:/Assistant: turn delimiters the API requires.
type anthropicClient struct {
	cfg      config.AnthropicConfig
	endpoint string
	hc       *http.Client
	log      *logrus.Logger
	retry    retryPolicy
}

func newAnthropicClient(cfg config.AnthropicConfig, log *logrus.Logger) *anthropicClient {
	return &anthropicClient{
		cfg:      cfg,
		endpoint: defaultAnthropicEndpoint,
		hc:       &http.Client{Timeout: 60 * time.Second},
		log:      log,
		retry:    defaultRetryPolicy(),
	}
}

type anthropicRequest struct {
	Model             string  `json:"model"`
	Prompt            string  `json:"prompt"`
	MaxTokensToSample int     `json:"max_tokens_to_sample"`
	Temperature       float64 `json:"temperature,omitempty"`
}

type anthropicResponse struct {
	Completion string `json:"completion"`
}

func (c *anthropicClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", &Error{
			Kind:     KindConfig,
			Provider: Anthropic,
			Message:  "api_key is not configured; add an anthropic section to the config or set ANTHROPIC_API_KEY",
		}
	}
	payload := anthropicRequest{
		Model:             c.cfg.Model,
		Prompt:            "\n\nHuman: " + prompt + "\n\nAssistant:",
		MaxTokensToSample: c.cfg.MaxTokens,
		Temperature:       c.cfg.Temperature,
	}
	headers := map[string]string{
		"x-api-key":         c.cfg.APIKey,
		"anthropic-version": anthropicVersion,
	}
	c.log.WithFields(logrus.Fields{
		"provider":   Anthropic,
		"model":      c.cfg.Model,
		"max_tokens": c.cfg.MaxTokens,
	}).Debug("sending completion request")
	return withRetry(ctx, c.log, c.retry, Anthropic, func(ctx context.Context) (string, error) {
		var out anthropicResponse
		if err := postJSON(ctx, c.hc, Anthropic, c.endpoint, headers, payload, &out); err != nil {
			return "", err
		}
		return strings.TrimSpace(out.Completion), nil
	})
}
