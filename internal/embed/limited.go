package embed

import (
	"context"

	"github.com/ppiankov/lexdiff/internal/worker"
)

// Limited rate-limits calls to a remote embedder. Every batch counts as
// one request.
type Limited struct {
	inner   Embedder
	limiter *worker.Limiter
}

// NewLimited wraps inner with limiter, keyed by the embedder's name
func NewLimited(inner Embedder, limiter *worker.Limiter) *Limited {
	return &Limited{inner: inner, limiter: limiter}
}

// Name implements Embedder
func (l *Limited) Name() string {
	return l.inner.Name()
}

// Threshold forwards the wrapped embedder's calibration
func (l *Limited) Threshold() float64 { return ThresholdOf(l.inner) }

// Embed implements Embedder
func (l *Limited) Embed(ctx context.Context, text string) ([]float64, error) {
	if err := l.limiter.Wait(ctx, l.inner.Name()); err != nil {
		return nil, err
	}
	return l.inner.Embed(ctx, text)
}

// EmbedBatch implements Embedder
func (l *Limited) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if err := l.limiter.Wait(ctx, l.inner.Name()); err != nil {
		return nil, err
	}
	return l.inner.EmbedBatch(ctx, texts)
}
