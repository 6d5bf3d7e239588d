// Package pipeline wires configuration into the comparison engine: it
// builds the analyzer and embedder, loads documents from disk or over HTTP
// and renders reports.
package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/ppiankov/lexdiff/internal/compare"
	"github.com/ppiankov/lexdiff/internal/embed"
	"github.com/ppiankov/lexdiff/internal/extract"
	"github.com/ppiankov/lexdiff/internal/logger"
	"github.com/ppiankov/lexdiff/internal/model"
	"github.com/ppiankov/lexdiff/internal/rules"
)

// Pipeline compares and inspects document files
type Pipeline struct {
	comparator *compare.Comparator
	extractor  *extract.Extractor
	renderer   *Renderer
	fetcher    *Fetcher
	config     *model.Config
	log        logger.Logger
}

// Inspection lists the clauses read from a single document
type Inspection struct {
	Path    string              `json:"path"`
	Stats   model.DocumentStats `json:"stats"`
	Clauses []*model.CLO        `json:"clauses"`
}

// NewPipeline creates a pipeline with the given configuration
func NewPipeline(cfg *model.Config, log logger.Logger) (*Pipeline, error) {
	log = logger.OrNop(log)

	analyzer, err := NewAnalyzer(cfg.Analyzer, cfg.LLM, log)
	if err != nil {
		return nil, err
	}
	embedder, err := embed.New(cfg.Embedder, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("embedder: %w", err)
	}
	log.Debug("pipeline ready", "analyzer", cfg.Analyzer.Provider, "embedder", embedder.Name())

	ruleset := rules.Default()
	comparator := compare.New(compare.Options{
		Analyzer:         analyzer,
		Embedder:         embedder,
		Rules:            ruleset,
		Logger:           log,
		Threshold:        cfg.Compare.SimilarityThreshold,
		MaxDocumentChars: cfg.Compare.MaxDocumentChars,
		MaxDepth:         cfg.Compare.MaxDepth,
		MinLeafLen:       cfg.Compare.MinLeafLen,
		IgnoreKeys:       cfg.Compare.IgnoreKeys,
		Workers:          cfg.Compare.Workers,
		BatchSize:        cfg.Compare.BatchSize,
	})

	walker := extract.NewWalker(cfg.Compare.MinLeafLen, cfg.Compare.MaxDepth, cfg.Compare.IgnoreKeys)
	extractor := extract.NewExtractor(walker, extract.NewBuilder(analyzer, ruleset, log), cfg.Compare.Workers, log)

	fetcher := NewFetcher(cfg.Fetch.Timeout, cfg.Fetch.UserAgent, cfg.Fetch.MaxBytes,
		cfg.LLM.HTTPProxy, cfg.LLM.HTTPSProxy, cfg.LLM.NoProxy)
	if cfg.Fetch.RespectRobots {
		fetcher.RespectRobots()
	}

	return &Pipeline{
		comparator: comparator,
		extractor:  extractor,
		renderer:   NewRenderer(cfg.Output.IncludeFooter, cfg.Output.NoColor),
		fetcher:    fetcher,
		config:     cfg,
		log:        log,
	}, nil
}

// CompareFiles compares two JSON or YAML documents. Either may be a local
// path or an http(s) URL.
func (p *Pipeline) CompareFiles(ctx context.Context, left, right string) (*model.Report, error) {
	leftData, err := p.fetcher.Load(ctx, left)
	if err != nil {
		return nil, err
	}
	rightData, err := p.fetcher.Load(ctx, right)
	if err != nil {
		return nil, err
	}

	p.log.Info("comparing documents", "left", left, "right", right)
	report, err := p.comparator.CompareBytes(ctx, leftData, rightData)
	if err != nil {
		return nil, fmt.Errorf("compare %s and %s: %w", left, right, err)
	}
	return report, nil
}

// Inspect extracts the clauses of one document
func (p *Pipeline) Inspect(ctx context.Context, path string) (*Inspection, error) {
	data, err := p.fetcher.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	tree, err := model.ParseTree(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	clos, stats, err := p.extractor.Extract(ctx, tree)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", path, err)
	}
	stats.Unique = len(compare.Dedup(clos))

	return &Inspection{Path: path, Stats: stats, Clauses: clos}, nil
}

// Renderer returns the pipeline's renderer
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}

// RenderReport writes the report to the requested files and prints the
// summary to stdout.
func (p *Pipeline) RenderReport(report *model.Report, jsonPath string, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	p.renderer.RenderSummary(os.Stdout, report)
	return nil
}
