package provider

import (
	"context"
	"errors"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"github.com/katakuxiko/rag-assistant/internal/config"
)

const systemInstruction = "You are a helpful assistant for question answering and code generation over retrieved documents."

// openaiClient talks to the OpenAI API or any OpenAI-compatible endpoint
// (base_url override). Chat-capable models get a system+user exchange,
// everything else a legacy text completion.
type openaiClient struct {
	cfg   config.OpenAIConfig
	api   *openai.Client
	log   *logrus.Logger
	retry retryPolicy
}

func newOpenAIClient(cfg config.OpenAIConfig, log *logrus.Logger) *openaiClient {
	oaiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oaiCfg.BaseURL = cfg.BaseURL
	}
	return &openaiClient{
		cfg:   cfg,
		api:   openai.NewClientWithConfig(oaiCfg),
		log:   log,
		retry: defaultRetryPolicy(),
	}
}

func (c *openaiClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", &Error{Kind: KindConfig, Provider: OpenAI, Message: "api_key is not configured"}
	}
	c.log.WithFields(logrus.Fields{
		"provider":   OpenAI,
		"model":      c.cfg.Model,
		"max_tokens": c.cfg.MaxTokens,
		"chat":       isChatModel(c.cfg.Model),
	}).Debug("sending completion request")
	return withRetry(ctx, c.log, c.retry, OpenAI, func(ctx context.Context) (string, error) {
		if isChatModel(c.cfg.Model) {
			return c.chat(ctx, prompt)
		}
		return c.complete(ctx, prompt)
	})
}

// isChatModel is a name heuristic: turbo-class and gpt-4-class models take
// the chat endpoint.
func isChatModel(model string) bool {
	m := strings.ToLower(model)
	return strings.Contains(m, "turbo") || strings.Contains(m, "gpt-4")
}

func (c *openaiClient) chat(ctx context.Context, prompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: float32(c.cfg.Temperature),
	})
	if err != nil {
		return "", classifyOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", &Error{Kind: KindPermanent, Provider: OpenAI, Message: "no choices in response"}
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *openaiClient) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.api.CreateCompletion(ctx, openai.CompletionRequest{
		Model:       c.cfg.Model,
		Prompt:      prompt,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: float32(c.cfg.Temperature),
	})
	if err != nil {
		return "", classifyOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", &Error{Kind: KindPermanent, Provider: OpenAI, Message: "no choices in response"}
	}
	return resp.Choices[0].Text, nil
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return statusError(OpenAI, apiErr.HTTPStatusCode, apiErr.Message)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindPermanent, Provider: OpenAI, Message: "request cancelled", Err: err}
	}
	return &Error{Kind: KindTransient, Provider: OpenAI, Message: "request failed", Err: err}
}
