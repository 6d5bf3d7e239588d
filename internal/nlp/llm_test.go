package nlp

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/lexdiff/internal/cache"
	"github.com/ppiankov/lexdiff/internal/llm"
)

type stubProvider struct {
	reply string
	err   error
	req   llm.CompletionRequest
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	p.req = req
	if p.err != nil {
		return nil, p.err
	}
	return &llm.CompletionResponse{Text: p.reply}, nil
}

func (p *stubProvider) IsAvailable(ctx context.Context) bool { return true }

func TestLLMAnalyzer_Merge(t *testing.T) {
	provider := &stubProvider{reply: "```json\n" +
		`{"root_verb":"Pays","verbs":["pay"],"entities":[{"text":"Acme Corp","label":"org"}],"object":"the fees"}` +
		"\n```"}
	a := NewLLMAnalyzer(provider, WithModel("small"))

	got, err := a.Parse(context.Background(), "Acme Corp shall pay the fees.")
	require.NoError(t, err)

	assert.True(t, provider.req.JSON)
	assert.Equal(t, "small", provider.req.Model)
	assert.Contains(t, provider.req.Prompt, "Acme Corp shall pay the fees.")

	assert.Equal(t, "pay", got.RootVerb)
	assert.Equal(t, []string{"pay"}, got.VerbTokens)
	assert.Equal(t, []Entity{{Text: "Acme Corp", Label: "ORG", Index: 0}}, got.NamedEntities)
	assert.Equal(t, "the fees", got.Objects["pay"])
	assert.NotEmpty(t, got.Tokens)
}

func TestLLMAnalyzer_FallsBack(t *testing.T) {
	text := "The Customer shall pay the invoice."
	want, err := NewLexical().Parse(context.Background(), text)
	require.NoError(t, err)

	for name, provider := range map[string]*stubProvider{
		"provider error": {err: errors.New("boom")},
		"no json":        {reply: "I cannot help with that."},
		"bad json":       {reply: `{"root_verb": }`},
	} {
		t.Run(name, func(t *testing.T) {
			got, err := NewLLMAnalyzer(provider).Parse(context.Background(), text)
			var fallback *FallbackError
			require.ErrorAs(t, err, &fallback)
			assert.Equal(t, "stub", fallback.Provider)
			assert.Equal(t, want, got)
		})
	}
}

type countingAnalyzer struct {
	calls int32
	err   error
}

func (c *countingAnalyzer) Parse(ctx context.Context, text string) (*Analysis, error) {
	atomic.AddInt32(&c.calls, 1)
	if c.err != nil {
		return nil, c.err
	}
	return NewLexical().Parse(ctx, text)
}

func TestCached(t *testing.T) {
	inner := &countingAnalyzer{}
	c := NewCached(inner, cache.NewMemoryCache(time.Hour, time.Minute), "lexical", 0)

	first, err := c.Parse(context.Background(), "The Customer shall pay the invoice.")
	require.NoError(t, err)
	second, err := c.Parse(context.Background(), "The Customer shall pay the invoice.")
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&inner.calls))
	assert.Equal(t, first, second)

	_, err = c.Parse(context.Background(), "The Supplier shall deliver the goods.")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&inner.calls))
}

func TestCached_DoesNotCacheErrors(t *testing.T) {
	inner := &countingAnalyzer{err: errors.New("down")}
	c := NewCached(inner, cache.NewMemoryCache(time.Hour, time.Minute), "x", 0)

	_, err := c.Parse(context.Background(), "text")
	require.Error(t, err)
	_, err = c.Parse(context.Background(), "text")
	require.Error(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&inner.calls))
}

func TestCached_DoesNotStoreFallbacks(t *testing.T) {
	provider := &stubProvider{err: errors.New("rate limited")}
	c := NewCached(NewLLMAnalyzer(provider), cache.NewMemoryCache(time.Hour, time.Minute), "stub", 0)
	text := "The Customer shall pay the invoice."

	got, err := c.Parse(context.Background(), text)
	var fallback *FallbackError
	require.ErrorAs(t, err, &fallback)
	require.NotNil(t, got)
	assert.Equal(t, "pay", got.RootVerb)

	provider.err = nil
	provider.reply = `{"root_verb":"pay","object":"the invoice"}`
	got, err = c.Parse(context.Background(), text)
	require.NoError(t, err)
	assert.Equal(t, "the invoice", got.Objects["pay"])
}
