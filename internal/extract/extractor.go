package extract

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/lexdiff/internal/logger"
	"github.com/ppiankov/lexdiff/internal/model"
)

// Extractor runs the walker and builder over a whole document
type Extractor struct {
	walker  *Walker
	builder *Builder
	workers int
	log     logger.Logger
}

// NewExtractor creates an extractor building up to workers clauses at once
func NewExtractor(walker *Walker, builder *Builder, workers int, log logger.Logger) *Extractor {
	if workers <= 0 {
		workers = 1
	}
	return &Extractor{walker: walker, builder: builder, workers: workers, log: logger.OrNop(log)}
}

type buildOutcome struct {
	clo            *model.CLO
	analyzerFailed bool
	err            error
}

// Extract returns the CLOs of tree in document order together with
// extraction statistics. Only context errors abort extraction.
func (e *Extractor) Extract(ctx context.Context, tree model.Tree) ([]*model.CLO, model.DocumentStats, error) {
	candidates, skipped := e.walker.Walk(tree)
	stats := model.DocumentStats{Candidates: len(candidates), SkippedDeep: skipped}
	if skipped > 0 {
		e.log.Warn("subtrees beyond depth limit skipped", "count", skipped)
	}

	outcomes := make([]buildOutcome, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, c := range candidates {
		g.Go(func() error {
			clo, failed, err := e.builder.build(gctx, c)
			if err != nil && !IsRejection(err) {
				return err
			}
			outcomes[i] = buildOutcome{clo: clo, analyzerFailed: failed, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, stats, err
	}

	clos := make([]*model.CLO, 0, len(candidates))
	for _, o := range outcomes {
		if o.analyzerFailed {
			stats.AnalyzerErrs++
		}
		var rej *RejectionError
		switch {
		case errors.As(o.err, &rej) && rej.Stage == StageFilter:
			stats.Filtered++
		case o.err != nil:
			stats.Invalid++
		default:
			clos = append(clos, o.clo)
		}
	}
	stats.Clauses = len(clos)
	return clos, stats, nil
}
