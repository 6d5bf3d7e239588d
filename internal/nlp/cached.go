package nlp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ppiankov/lexdiff/internal/cache"
)

// Cached memoises analyses by clause text. Both documents of a comparison
// usually share many clauses, and batch runs share them across pairs.
type Cached struct {
	inner     Analyzer
	store     cache.Cache
	namespace string
	ttl       time.Duration
}

// NewCached wraps inner. namespace separates analyzers that would answer
// differently for the same text, e.g. "lexical" and "openai/gpt-4o-mini".
func NewCached(inner Analyzer, store cache.Cache, namespace string, ttl time.Duration) *Cached {
	return &Cached{inner: inner, store: store, namespace: namespace, ttl: ttl}
}

// Parse implements Analyzer. Failed analyses, fallbacks included, are
// passed through without being stored.
func (c *Cached) Parse(ctx context.Context, text string) (*Analysis, error) {
	key := cache.Key("analysis", c.namespace, text)
	if data, ok := c.store.Get(key); ok {
		var a Analysis
		if err := json.Unmarshal(data, &a); err == nil {
			return &a, nil
		}
	}

	a, err := c.inner.Parse(ctx, text)
	if err != nil {
		return a, err
	}

	if data, err := json.Marshal(a); err == nil {
		_ = c.store.Set(key, data, c.ttl)
	}
	return a, nil
}
