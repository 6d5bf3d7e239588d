// Package embed turns clause text into vectors for similarity matching.
package embed

import (
	"context"
	"errors"
	"fmt"
	"math"
)

var (
	// ErrDimension is returned when a provider answers with vectors of an
	// unexpected length.
	ErrDimension = errors.New("embedding dimension mismatch")

	// ErrCount is returned when a batch answer does not hold one vector per text.
	ErrCount = errors.New("embedding count mismatch")
)

// Embedder maps text to a vector. Vectors from one Embedder are comparable
// with Cosine.
type Embedder interface {
	// Name identifies the provider and model; it keys caches and rate limits.
	Name() string
	Embed(ctx context.Context, text string) ([]float64, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// Calibrated is implemented by embedders whose similarity scale needs its
// own pairing threshold.
type Calibrated interface {
	Threshold() float64
}

// ThresholdOf returns the pairing threshold e is calibrated for, or 0 when
// it has none.
func ThresholdOf(e Embedder) float64 {
	if c, ok := e.(Calibrated); ok {
		return c.Threshold()
	}
	return 0
}

// Cosine returns the cosine similarity of a and b. Vectors of different
// length or with zero norm have similarity 0.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// checkBatch validates a provider answer for n texts. dim 0 accepts any
// consistent length.
func checkBatch(vectors [][]float64, n, dim int) error {
	if len(vectors) != n {
		return fmt.Errorf("%w: received %d embeddings for %d texts", ErrCount, len(vectors), n)
	}
	for i, v := range vectors {
		if v == nil {
			return fmt.Errorf("%w: no embedding for text %d", ErrCount, i)
		}
		want := dim
		if want == 0 {
			want = len(vectors[0])
		}
		if len(v) != want {
			return fmt.Errorf("%w: got %d, want %d", ErrDimension, len(v), want)
		}
	}
	return nil
}

func first(vectors [][]float64, err error) ([]float64, error) {
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("%w: empty answer", ErrCount)
	}
	return vectors[0], nil
}
