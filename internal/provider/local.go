package provider

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/katakuxiko/rag-assistant/internal/config"
)

// localClient posts an OpenAI-completions-shaped body to a locally hosted
// inference endpoint (vLLM, LM Studio, llama.cpp server and the like).
type localClient struct {
	cfg   config.LocalConfig
	hc    *http.Client
	log   *logrus.Logger
	retry retryPolicy
}

func newLocalClient(cfg config.LocalConfig, log *logrus.Logger) *localClient {
	return &localClient{
		cfg:   cfg,
		hc:    &http.Client{Timeout: 120 * time.Second},
		log:   log,
		retry: defaultRetryPolicy(),
	}
}

type localRequest struct {
	Model       string  `json:"model,omitempty"`
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature,omitempty"`
}

type localResponse struct {
	Choices []struct {
		Text string `json:"text"`
	} `json:"choices"`
}

func (c *localClient) Generate(ctx context.Context, prompt string) (string, error) {
	payload := localRequest{
		Model:       c.cfg.Model,
		Prompt:      prompt,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	}
	c.log.WithFields(logrus.Fields{
		"provider":   Local,
		"endpoint":   c.cfg.Endpoint,
		"max_tokens": c.cfg.MaxTokens,
	}).Debug("sending completion request")
	return withRetry(ctx, c.log, c.retry, Local, func(ctx context.Context) (string, error) {
		var out localResponse
		if err := postJSON(ctx, c.hc, Local, c.cfg.Endpoint, nil, payload, &out); err != nil {
			return "", err
		}
		if len(out.Choices) == 0 {
			return "", &Error{Kind: KindPermanent, Provider: Local, Message: "no choices in response"}
		}
		return out.Choices[0].Text, nil
	})
}
