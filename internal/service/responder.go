package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/katakuxiko/rag-assistant/internal/config"
	"github.com/katakuxiko/rag-assistant/internal/prompt"
	"github.com/katakuxiko/rag-assistant/internal/provider"
)

// ClientFactory builds the adapter for a resolved backend. Injectable so
// tests can substitute stub clients.
type ClientFactory func(name provider.Name, cfg *config.Config, log *logrus.Logger) provider.Client

// Responder resolves the configured backend and turns adapter failures into
// degraded fallback strings. Callers always get some text back; only startup
// misconfiguration is allowed to fail loudly, and that happens in config.Load.
type Responder struct {
	cfg     *config.Config
	log     *logrus.Logger
	factory ClientFactory
}

func NewResponder(cfg *config.Config, log *logrus.Logger) *Responder {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Responder{cfg: cfg, log: log, factory: provider.New}
}

// GenerateResponse sends the prompt to the configured backend and returns the
// generated text, or a fallback string describing the failure. It never
// returns an error.
func (r *Responder) GenerateResponse(ctx context.Context, p string) string {
	name, ok := provider.ParseName(r.cfg.LLM.Provider)
	if !ok {
		r.log.WithField("provider", r.cfg.LLM.Provider).Warn("unrecognized llm provider, falling back to openai")
	}
	r.log.WithFields(logrus.Fields{
		"provider":   name,
		"prompt_len": len(p),
	}).Debug("dispatching generation request")

	text, err := r.factory(name, r.cfg, r.log).Generate(ctx, p)
	if err != nil {
		return r.fallback(name, err)
	}
	return strings.TrimSpace(text)
}

// GenerateCode builds the code-generation prompt, dispatches it, and
// normalizes the response so it always ends with a closing code fence.
func (r *Responder) GenerateCode(ctx context.Context, query, language string, contexts []string) string {
	p := prompt.BuildCode(query, language, contexts, r.cfg.Retrieval.MaxContextLength)
	return prompt.EnsureClosingFence(r.GenerateResponse(ctx, p))
}

func (r *Responder) fallback(name provider.Name, err error) string {
	r.log.WithField("provider", name).WithError(err).Error("generation failed")

	var perr *provider.Error
	if errors.As(err, &perr) {
		switch perr.Kind {
		case provider.KindConfig:
			return fmt.Sprintf("Sorry, the %s backend is not configured: %s.", name, perr.Message)
		case provider.KindTransient:
			return fmt.Sprintf("Sorry, the %s backend is currently unavailable, please try again later (error: %s).", name, perr.Message)
		default:
			return fmt.Sprintf("Sorry, the %s backend rejected the request: %s.", name, perr.Message)
		}
	}
	return "Sorry, an unexpected error occurred while generating a response: " + err.Error()
}
