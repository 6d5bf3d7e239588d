package embed

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"regexp"
	"strings"
)

const (
	// DefaultHashingDim is the vector size of the offline embedder
	DefaultHashingDim = 256
	// HashingThreshold pairs reworded clauses of a dozen words. Edits that
	// keep the obligation score 0.78 to 0.95 while unrelated clauses stay
	// under 0.7.
	HashingThreshold = 0.75
)

const trigramWeight = 0.5

var hashTokenRe = regexp.MustCompile(`[\p{L}\p{N}]+`)

// Hashing is a deterministic offline embedder. Words and their character
// trigrams are hashed into a fixed number of buckets and the counts are
// L2-normalised, so texts sharing most of their words score close to 1.
type Hashing struct {
	dim int
}

// NewHashing creates a hashing embedder with dim buckets
func NewHashing(dim int) *Hashing {
	if dim <= 0 {
		dim = DefaultHashingDim
	}
	return &Hashing{dim: dim}
}

// Name implements Embedder
func (h *Hashing) Name() string {
	return fmt.Sprintf("hashing/%d", h.dim)
}

// Threshold implements Calibrated
func (h *Hashing) Threshold() float64 { return HashingThreshold }

// Embed implements Embedder
func (h *Hashing) Embed(ctx context.Context, text string) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return h.vector(text), nil
}

// EmbedBatch implements Embedder
func (h *Hashing) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([][]float64, len(texts))
	for i, t := range texts {
		out[i] = h.vector(t)
	}
	return out, nil
}

func (h *Hashing) vector(text string) []float64 {
	v := make([]float64, h.dim)
	for _, tok := range hashTokenRe.FindAllString(strings.ToLower(text), -1) {
		v[h.bucket("w:"+tok)]++
		padded := []rune("^" + tok + "$")
		for i := 0; i+3 <= len(padded); i++ {
			v[h.bucket("c:"+string(padded[i:i+3]))] += trigramWeight
		}
	}

	var norm float64
	for _, x := range v {
		norm += x * x
	}
	if norm == 0 {
		return v
	}
	norm = math.Sqrt(norm)
	for i := range v {
		v[i] /= norm
	}
	return v
}

func (h *Hashing) bucket(feature string) int {
	f := fnv.New32a()
	_, _ = f.Write([]byte(feature))
	return int(f.Sum32() % uint32(h.dim))
}
