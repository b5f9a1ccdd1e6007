// Package provider implements clients for the supported LLM backends behind
// a single Generate interface. Failures are reported as *Error values whose
// Kind tells the orchestrator whether the call was misconfigured, permanently
// rejected, or transiently unavailable.
package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/katakuxiko/rag-assistant/internal/config"
)

// Name identifies a backend kind.
type Name string

const (
	OpenAI    Name = "openai"
	Anthropic Name = "anthropic"
	Local     Name = "local"
)

// ParseName resolves a configured provider string, case-insensitively.
// Unrecognized values return (OpenAI, false) so the caller can warn and
// proceed with the default.
func ParseName(s string) (Name, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "openai":
		return OpenAI, true
	case "anthropic":
		return Anthropic, true
	case "local":
		return Local, true
	}
	return OpenAI, false
}

// Client generates text from a prompt. Implementations retry transient
// failures internally; any returned error is terminal for the call.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// New builds the adapter for the given backend from its config section.
func New(name Name, cfg *config.Config, log *logrus.Logger) Client {
	if log == nil {
		log = logrus.StandardLogger()
	}
	switch name {
	case Anthropic:
		return newAnthropicClient(cfg.Anthropic, log)
	case Local:
		return newLocalClient(cfg.Local, log)
	default:
		return newOpenAIClient(cfg.OpenAI, log)
	}
}

// Kind classifies adapter failures.
type Kind int

const (
	// KindConfig means required per-provider configuration is missing.
	KindConfig Kind = iota
	// KindTransient covers network failures, rate limits and 5xx responses.
	KindTransient
	// KindPermanent covers rejections that retrying cannot fix.
	KindPermanent
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindTransient:
		return "transient"
	default:
		return "permanent"
	}
}

// Error is the failure type returned by every adapter.
type Error struct {
	Kind     Kind
	Provider Name
	Status   int
	Message  string
	Err      error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Provider, e.Message)
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// statusError classifies a non-200 response: 429 and 5xx are worth retrying,
// everything else is a permanent rejection.
func statusError(name Name, status int, body string) *Error {
	kind := KindPermanent
	if status == http.StatusTooManyRequests || status >= 500 {
		kind = KindTransient
	}
	msg := fmt.Sprintf("request failed with status %d", status)
	if body != "" {
		msg = msg + ": " + body
	}
	return &Error{Kind: kind, Provider: name, Status: status, Message: msg}
}
