package embed

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ppiankov/lexdiff/internal/cache"
)

// Cached keeps vectors in an in-process LRU and, optionally, in a
// persistent cache.Cache shared between runs.
type Cached struct {
	inner Embedder
	lru   *lru.Cache[string, []float64]
	store cache.Cache
	ttl   time.Duration
	mu    sync.Mutex
}

// NewCached wraps inner with an LRU of size entries. store may be nil.
func NewCached(inner Embedder, size int, store cache.Cache, ttl time.Duration) (*Cached, error) {
	if size <= 0 {
		return nil, fmt.Errorf("embedder %q: cache size must be greater than zero", inner.Name())
	}
	l, err := lru.New[string, []float64](size)
	if err != nil {
		return nil, fmt.Errorf("embedder %q: init cache: %w", inner.Name(), err)
	}
	return &Cached{inner: inner, lru: l, store: store, ttl: ttl}, nil
}

// Name implements Embedder
func (c *Cached) Name() string {
	return c.inner.Name()
}

// Threshold forwards the wrapped embedder's calibration
func (c *Cached) Threshold() float64 { return ThresholdOf(c.inner) }

// Embed implements Embedder
func (c *Cached) Embed(ctx context.Context, text string) ([]float64, error) {
	return first(c.EmbedBatch(ctx, []string{text}))
}

// EmbedBatch implements Embedder. Only texts missing from both layers reach
// the wrapped embedder, each of them once.
func (c *Cached) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	results := make([][]float64, len(texts))
	missingIdx := make(map[string][]int)
	var missing []string

	for i, text := range texts {
		if v, ok := c.lookup(text); ok {
			results[i] = v
			continue
		}
		if _, seen := missingIdx[text]; !seen {
			missing = append(missing, text)
		}
		missingIdx[text] = append(missingIdx[text], i)
	}
	if len(missing) == 0 {
		return results, nil
	}

	embedded, err := c.inner.EmbedBatch(ctx, missing)
	if err != nil {
		return nil, err
	}
	if err := checkBatch(embedded, len(missing), 0); err != nil {
		return nil, err
	}

	for i, text := range missing {
		for _, idx := range missingIdx[text] {
			results[idx] = cloneVector(embedded[i])
		}
		c.save(text, embedded[i])
	}
	return results, nil
}

func (c *Cached) key(text string) string {
	return cache.Key("embedding", c.inner.Name(), text)
}

func (c *Cached) lookup(text string) ([]float64, bool) {
	key := c.key(text)

	c.mu.Lock()
	v, ok := c.lru.Get(key)
	c.mu.Unlock()
	if ok {
		return cloneVector(v), true
	}

	if c.store == nil {
		return nil, false
	}
	data, ok := c.store.Get(key)
	if !ok {
		return nil, false
	}
	if err := json.Unmarshal(data, &v); err != nil || len(v) == 0 {
		return nil, false
	}

	c.mu.Lock()
	c.lru.Add(key, v)
	c.mu.Unlock()
	return cloneVector(v), true
}

func (c *Cached) save(text string, v []float64) {
	if len(v) == 0 {
		return
	}
	key := c.key(text)

	c.mu.Lock()
	c.lru.Add(key, cloneVector(v))
	c.mu.Unlock()

	if c.store != nil {
		if data, err := json.Marshal(v); err == nil {
			_ = c.store.Set(key, data, c.ttl)
		}
	}
}

func cloneVector(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
