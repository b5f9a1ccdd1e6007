package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/katakuxiko/rag-assistant/internal/config"
	"github.com/katakuxiko/rag-assistant/internal/model"
	"github.com/katakuxiko/rag-assistant/internal/prompt"
)

// Retriever supplies ranked context chunks for a query. Implemented by the
// external retrieval stack (vector store + reranker); this module only
// consumes its output order.
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]model.Chunk, error)
}

// Assistant wires retrieval, prompt building and generation into the
// question-answering pipeline.
type Assistant struct {
	retriever Retriever
	responder *Responder
	cfg       *config.Config
	log       *logrus.Logger
}

// NewAssistant builds the pipeline. retriever may be nil, in which case
// questions are answered without context.
func NewAssistant(retriever Retriever, responder *Responder, cfg *config.Config, log *logrus.Logger) *Assistant {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Assistant{retriever: retriever, responder: responder, cfg: cfg, log: log}
}

// Ask answers a question grounded on retrieved context. A retrieval failure
// degrades to an uncontexted answer instead of failing the request.
func (a *Assistant) Ask(ctx context.Context, query string) model.AskResult {
	chunks := a.retrieve(ctx, query)
	p := prompt.Build(query, chunkTexts(chunks), a.cfg.Retrieval.MaxContextLength)
	return model.AskResult{
		Answer:  a.responder.GenerateResponse(ctx, p),
		Context: chunks,
	}
}

// Code generates code for the request, grounded on retrieved context.
func (a *Assistant) Code(ctx context.Context, query, language string) model.AskResult {
	chunks := a.retrieve(ctx, query)
	return model.AskResult{
		Answer:  a.responder.GenerateCode(ctx, query, language, chunkTexts(chunks)),
		Context: chunks,
	}
}

func (a *Assistant) retrieve(ctx context.Context, query string) []model.Chunk {
	if a.retriever == nil {
		return nil
	}
	chunks, err := a.retriever.Retrieve(ctx, query, a.cfg.Retrieval.TopK)
	if err != nil {
		a.log.WithError(err).Warn("retrieval failed, answering without context")
		return nil
	}
	return chunks
}

func chunkTexts(chunks []model.Chunk) []string {
	texts := make([]string, 0, len(chunks))
	for _, ch := range chunks {
		texts = append(texts, ch.Text)
	}
	return texts
}
