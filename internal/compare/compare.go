// Package compare finds the legally material differences between two
// documents: it extracts canonical legal objects from both trees, aligns
// them and classifies every aligned pair.
package compare

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/ppiankov/lexdiff/internal/embed"
	"github.com/ppiankov/lexdiff/internal/extract"
	"github.com/ppiankov/lexdiff/internal/logger"
	"github.com/ppiankov/lexdiff/internal/model"
	"github.com/ppiankov/lexdiff/internal/nlp"
	"github.com/ppiankov/lexdiff/internal/rules"
)

const (
	// DefaultThreshold is the cosine similarity two texts need to be paired
	// when neither the options nor the embedder set one
	DefaultThreshold = 0.88
	// DefaultMaxDocumentChars triggers section-wise comparison
	DefaultMaxDocumentChars = 200000
	// DefaultBatchSize is the number of texts per embedding call
	DefaultBatchSize = 32
)

// ErrUnparseable is returned when neither document yields a clause because
// every analysis failed.
var ErrUnparseable = errors.New("no clauses could be analyzed in either document")

// reportNamespace scopes report IDs
var reportNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/ppiankov/lexdiff/report"))

// Options configures a Comparator. Zero values take the defaults.
type Options struct {
	Analyzer nlp.Analyzer
	Embedder embed.Embedder
	Rules    *rules.Ruleset
	Logger   logger.Logger

	Threshold        float64 // 0 uses the embedder's calibration
	MaxDocumentChars int
	MaxDepth         int
	MinLeafLen       int
	IgnoreKeys       []string // nil uses model.DefaultIgnoreKeys
	Workers          int
	BatchSize        int
}

// Comparator compares document trees. It holds no per-call state and is
// safe for concurrent use.
type Comparator struct {
	extractor        *extract.Extractor
	matcher          *Matcher
	threshold        float64
	maxDocumentChars int
	log              logger.Logger
}

// New creates a comparator from opts
func New(opts Options) *Comparator {
	log := logger.OrNop(opts.Logger)

	if opts.Embedder == nil {
		opts.Embedder = embed.NewHashing(embed.DefaultHashingDim)
	}
	if opts.Threshold <= 0 {
		opts.Threshold = embed.ThresholdOf(opts.Embedder)
	}
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}
	if opts.MaxDocumentChars <= 0 {
		opts.MaxDocumentChars = DefaultMaxDocumentChars
	}
	if opts.IgnoreKeys == nil {
		opts.IgnoreKeys = model.DefaultIgnoreKeys
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}

	walker := extract.NewWalker(opts.MinLeafLen, opts.MaxDepth, opts.IgnoreKeys)
	builder := extract.NewBuilder(opts.Analyzer, opts.Rules, log)

	return &Comparator{
		extractor:        extract.NewExtractor(walker, builder, opts.Workers, log),
		matcher:          NewMatcher(opts.Embedder, opts.Threshold, opts.Workers, opts.BatchSize, log),
		threshold:        opts.Threshold,
		maxDocumentChars: opts.MaxDocumentChars,
		log:              log,
	}
}

// CompareBytes parses two JSON or YAML documents and compares them. Empty
// input is treated as an empty document.
func (c *Comparator) CompareBytes(ctx context.Context, left, right []byte) (*model.Report, error) {
	doc1, err := parseDocument(left)
	if err != nil {
		return nil, fmt.Errorf("parse left document: %w", err)
	}
	doc2, err := parseDocument(right)
	if err != nil {
		return nil, fmt.Errorf("parse right document: %w", err)
	}
	return c.Compare(ctx, doc1, doc2)
}

func parseDocument(data []byte) (model.Tree, error) {
	tree, err := model.ParseTree(data)
	if errors.Is(err, model.ErrEmptyDocument) {
		return model.Tree{}, nil
	}
	return tree, err
}

// Compare reports the material changes from doc1 to doc2
func (c *Comparator) Compare(ctx context.Context, doc1, doc2 model.Tree) (*model.Report, error) {
	var (
		changes   []model.LegalChange
		stats     [2]model.DocumentStats
		sectioned = c.sectioned(doc1, doc2)
	)

	if sectioned {
		keys := sectionKeys(doc1, doc2)
		c.log.Info("large documents, comparing section by section", "sections", len(keys))
		for _, key := range keys {
			part, partStats, err := c.compareTrees(ctx, section(doc1, key), section(doc2, key))
			if err != nil {
				return nil, fmt.Errorf("section %s: %w", key, err)
			}
			changes = append(changes, part...)
			stats[0].Add(partStats[0])
			stats[1].Add(partStats[1])
		}
	} else {
		var err error
		changes, stats, err = c.compareTrees(ctx, doc1, doc2)
		if err != nil {
			return nil, err
		}
	}

	if unparseable(doc1, doc2, stats) {
		return nil, fmt.Errorf("compare documents: %w", ErrUnparseable)
	}

	id, err := reportID(doc1, doc2, c.threshold)
	if err != nil {
		return nil, err
	}

	return &model.Report{
		Meta: model.ReportMeta{
			ID:        id,
			Documents: stats,
			Sectioned: sectioned,
			Threshold: c.threshold,
		},
		Summary: Summarize(changes),
		Changes: changes,
	}, nil
}

func (c *Comparator) compareTrees(ctx context.Context, doc1, doc2 model.Tree) ([]model.LegalChange, [2]model.DocumentStats, error) {
	var stats [2]model.DocumentStats

	clos1, s1, err := c.extractor.Extract(ctx, doc1)
	if err != nil {
		return nil, stats, fmt.Errorf("extract left document: %w", err)
	}
	clos2, s2, err := c.extractor.Extract(ctx, doc2)
	if err != nil {
		return nil, stats, fmt.Errorf("extract right document: %w", err)
	}

	clos1, clos2 = Dedup(clos1), Dedup(clos2)
	s1.Unique, s2.Unique = len(clos1), len(clos2)
	stats[0], stats[1] = s1, s2

	m, err := c.matcher.Match(ctx, clos1, clos2)
	if err != nil {
		return nil, stats, fmt.Errorf("match clauses: %w", err)
	}
	c.log.Debug("clauses matched",
		"structural", len(m.Structural), "matched", len(m.Matched),
		"added", len(m.Added), "removed", len(m.Removed))

	return Changes(m), stats, nil
}

func (c *Comparator) sectioned(doc1, doc2 model.Tree) bool {
	return doc1.Kind == model.KindMap && doc2.Kind == model.KindMap &&
		doc1.TextSize()+doc2.TextSize() > c.maxDocumentChars
}

// sectionKeys returns the top-level keys of doc1 followed by those only
// present in doc2.
func sectionKeys(doc1, doc2 model.Tree) []string {
	keys := doc1.Keys()
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		seen[k] = true
	}
	for _, k := range doc2.Keys() {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	return keys
}

// section wraps one top-level entry so clause paths keep their prefix
func section(doc model.Tree, key string) model.Tree {
	v, ok := doc.Get(key)
	if !ok {
		return model.Map()
	}
	return model.Map(model.F(key, v))
}

// unparseable reports whether both non-empty documents produced nothing
// because every analyzer call failed.
func unparseable(doc1, doc2 model.Tree, stats [2]model.DocumentStats) bool {
	if doc1.IsEmpty() || doc2.IsEmpty() {
		return false
	}
	for _, s := range stats {
		if s.Clauses > 0 || s.Candidates == 0 || s.AnalyzerErrs < s.Candidates {
			return false
		}
	}
	return true
}

// reportID derives a stable identifier from both documents and the
// threshold, so reruns over the same input share an ID.
func reportID(doc1, doc2 model.Tree, threshold float64) (string, error) {
	left, err := doc1.MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("encode left document: %w", err)
	}
	right, err := doc2.MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("encode right document: %w", err)
	}
	name := make([]byte, 0, len(left)+len(right)+32)
	name = append(name, left...)
	name = append(name, 0)
	name = append(name, right...)
	name = append(name, 0)
	name = strconv.AppendFloat(name, threshold, 'g', -1, 64)
	return uuid.NewSHA1(reportNamespace, name).String(), nil
}
