package compare

import (
	"context"
	"fmt"

	"github.com/ppiankov/lexdiff/internal/embed"
	"github.com/ppiankov/lexdiff/internal/logger"
	"github.com/ppiankov/lexdiff/internal/model"
	"github.com/ppiankov/lexdiff/internal/worker"
)

// Pair is a clause of the left document matched to one of the right
type Pair struct {
	From       *model.CLO
	To         *model.CLO
	Similarity float64
}

// Matching is the outcome of aligning two clause lists
type Matching struct {
	Structural []Pair       // same intent, different section
	Matched    []Pair       // same intent and section, then similar text
	Added      []*model.CLO // right-only clauses in document order
	Removed    []*model.CLO // left-only clauses in document order
}

// Matcher aligns the clauses of two documents: first by intent hash, then
// by embedding similarity of the remaining text.
type Matcher struct {
	embedder  embed.Embedder
	threshold float64
	workers   int
	batchSize int
	log       logger.Logger
}

// NewMatcher creates a matcher. Pairs below threshold are never matched by
// similarity.
func NewMatcher(embedder embed.Embedder, threshold float64, workers, batchSize int, log logger.Logger) *Matcher {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Matcher{
		embedder:  embedder,
		threshold: threshold,
		workers:   workers,
		batchSize: batchSize,
		log:       logger.OrNop(log),
	}
}

// Dedup keeps the first clause of each intent hash
func Dedup(clos []*model.CLO) []*model.CLO {
	seen := make(map[string]bool, len(clos))
	out := make([]*model.CLO, 0, len(clos))
	for _, c := range clos {
		if seen[c.IntentHash] {
			continue
		}
		seen[c.IntentHash] = true
		out = append(out, c)
	}
	return out
}

// Match aligns two deduplicated clause lists
func (m *Matcher) Match(ctx context.Context, left, right []*model.CLO) (*Matching, error) {
	result := &Matching{}

	rightByHash := make(map[string]*model.CLO, len(right))
	for _, c := range right {
		rightByHash[c.IntentHash] = c
	}
	leftHashes := make(map[string]bool, len(left))

	var unmatchedLeft []*model.CLO
	for _, c1 := range left {
		leftHashes[c1.IntentHash] = true
		c2, ok := rightByHash[c1.IntentHash]
		if !ok {
			unmatchedLeft = append(unmatchedLeft, c1)
			continue
		}
		pair := Pair{From: c1, To: c2, Similarity: 1}
		if c1.SectionID != c2.SectionID {
			result.Structural = append(result.Structural, pair)
		} else {
			result.Matched = append(result.Matched, pair)
		}
	}

	var unmatchedRight []*model.CLO
	for _, c2 := range right {
		if !leftHashes[c2.IntentHash] {
			unmatchedRight = append(unmatchedRight, c2)
		}
	}

	if len(unmatchedLeft) == 0 || len(unmatchedRight) == 0 {
		result.Removed = unmatchedLeft
		result.Added = unmatchedRight
		return result, nil
	}

	texts := make([]string, 0, len(unmatchedLeft)+len(unmatchedRight))
	for _, c := range unmatchedLeft {
		texts = append(texts, c.OriginalText)
	}
	for _, c := range unmatchedRight {
		texts = append(texts, c.OriginalText)
	}
	vectors, err := m.embedAll(ctx, texts)
	if err != nil {
		return nil, err
	}
	leftVecs, rightVecs := vectors[:len(unmatchedLeft)], vectors[len(unmatchedLeft):]

	consumed := make([]bool, len(unmatchedRight))
	for i, c1 := range unmatchedLeft {
		best, bestScore := -1, 0.0
		if leftVecs[i] != nil {
			for j := range unmatchedRight {
				if consumed[j] || rightVecs[j] == nil {
					continue
				}
				score := embed.Cosine(leftVecs[i], rightVecs[j])
				if score >= m.threshold && (best < 0 || score > bestScore) {
					best, bestScore = j, score
				}
			}
		}
		if best < 0 {
			result.Removed = append(result.Removed, c1)
			continue
		}
		consumed[best] = true
		result.Matched = append(result.Matched, Pair{From: c1, To: unmatchedRight[best], Similarity: bestScore})
	}

	for j, c2 := range unmatchedRight {
		if !consumed[j] {
			result.Added = append(result.Added, c2)
		}
	}
	return result, nil
}

// embedAll embeds texts in batches on the worker pool. A text whose
// embedding failed gets a nil vector.
func (m *Matcher) embedAll(ctx context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, len(texts))

	pool := worker.NewPool(ctx, m.workers)
	pool.Start()
	for start := 0; start < len(texts); start += m.batchSize {
		end := min(start+m.batchSize, len(texts))
		job := &embedJob{embedder: m.embedder, start: start, texts: texts[start:end]}
		if err := pool.Submit(job); err != nil {
			pool.Shutdown()
			return nil, fmt.Errorf("submit embedding batch: %w", err)
		}
	}

	for _, r := range pool.Wait() {
		res, ok := r.(*embedResult)
		if !ok {
			continue
		}
		copy(vectors[res.start:], res.vectors)
		if res.err != nil {
			m.log.Warn("embedding failed, clauses left unmatched by similarity", "batch_start", res.start, "error", res.err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return vectors, nil
}

type embedJob struct {
	embedder embed.Embedder
	start    int
	texts    []string
}

type embedResult struct {
	start   int
	vectors [][]float64
	err     error
}

func (r *embedResult) GetError() error {
	return r.err
}

// Execute embeds the batch, retrying text by text when the batch call fails
func (j *embedJob) Execute(ctx context.Context) worker.Result {
	vectors, err := j.embedder.EmbedBatch(ctx, j.texts)
	if err == nil && len(vectors) == len(j.texts) {
		return &embedResult{start: j.start, vectors: vectors}
	}
	if ctx.Err() != nil {
		return &embedResult{start: j.start, vectors: make([][]float64, len(j.texts)), err: ctx.Err()}
	}

	res := &embedResult{start: j.start, vectors: make([][]float64, len(j.texts))}
	for i, text := range j.texts {
		v, err := j.embedder.Embed(ctx, text)
		if err != nil {
			res.err = err
			continue
		}
		res.vectors[i] = v
	}
	return res
}
