package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katakuxiko/rag-assistant/internal/config"
	"github.com/katakuxiko/rag-assistant/internal/model"
	"github.com/katakuxiko/rag-assistant/internal/provider"
)

type stubRetriever struct {
	chunks []model.Chunk
	err    error
	topK   int
}

func (s *stubRetriever) Retrieve(_ context.Context, _ string, topK int) ([]model.Chunk, error) {
	s.topK = topK
	return s.chunks, s.err
}

func newTestAssistant(ret Retriever, client provider.Client) *Assistant {
	cfg := testConfig("openai")
	r := NewResponder(cfg, logrus.New())
	r.factory = func(provider.Name, *config.Config, *logrus.Logger) provider.Client {
		return client
	}
	return NewAssistant(ret, r, cfg, logrus.New())
}

func TestAskGroundsPromptOnRetrievedChunks(t *testing.T) {
	ret := &stubRetriever{chunks: []model.Chunk{
		{ID: "c1", Text: "BST def..."},
		{ID: "c2", Text: "BST example..."},
	}}
	var seen string
	client := &stubClient{generate: func(_ context.Context, p string) (string, error) {
		seen = p
		return "a tree", nil
	}}

	res := newTestAssistant(ret, client).Ask(context.Background(), "What is a binary search tree?")
	assert.Equal(t, "a tree", res.Answer)
	assert.Equal(t, ret.chunks, res.Context)
	assert.Equal(t, 5, ret.topK)

	// retrieval-rank order survives into the prompt
	require.Contains(t, seen, "BST def...")
	require.Contains(t, seen, "BST example...")
	assert.Less(t, strings.Index(seen, "BST def..."), strings.Index(seen, "BST example..."))
	assert.Contains(t, seen, "What is a binary search tree?")
}

func TestAskDegradesWhenRetrievalFails(t *testing.T) {
	ret := &stubRetriever{err: errors.New("vector store down")}
	client := &stubClient{generate: func(context.Context, string) (string, error) {
		return "uncontexted answer", nil
	}}

	res := newTestAssistant(ret, client).Ask(context.Background(), "why?")
	assert.Equal(t, "uncontexted answer", res.Answer)
	assert.Empty(t, res.Context)
}

func TestAskWithoutRetriever(t *testing.T) {
	client := &stubClient{generate: func(context.Context, string) (string, error) {
		return "ok", nil
	}}
	res := newTestAssistant(nil, client).Ask(context.Background(), "why?")
	assert.Equal(t, "ok", res.Answer)
	assert.Empty(t, res.Context)
}

func TestCodeEndsWithFence(t *testing.T) {
	client := &stubClient{generate: func(context.Context, string) (string, error) {
		return "```c\nint main(void) { return 0; }", nil
	}}
	res := newTestAssistant(nil, client).Code(context.Background(), "write a program", "c")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(res.Answer), "```"))
}
