package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/lexdiff/internal/model"
)

// Comparer compares two document files
type Comparer interface {
	CompareFiles(ctx context.Context, left, right string) (*model.Report, error)
}

// Pair names two documents to compare
type Pair struct {
	Name  string
	Left  string
	Right string
}

// PairResult is the outcome of comparing one pair
type PairResult struct {
	Pair     Pair
	Report   *model.Report
	Error    error
	Duration time.Duration
}

// GetError returns the error from the comparison
func (r *PairResult) GetError() error {
	return r.Error
}

// BatchProcessor compares many pairs with bounded concurrency
type BatchProcessor struct {
	comparer    Comparer
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(comparer Comparer, concurrency int) *BatchProcessor {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &BatchProcessor{
		comparer:    comparer,
		concurrency: concurrency,
	}
}

// ProcessPairs compares every pair. Results are returned in input order; a
// failing pair records its error and does not stop the others.
func (b *BatchProcessor) ProcessPairs(ctx context.Context, pairs []Pair) []*PairResult {
	results := make([]*PairResult, len(pairs))
	if len(pairs) == 0 {
		return results
	}

	var g errgroup.Group
	g.SetLimit(b.concurrency)

	for i, pair := range pairs {
		g.Go(func() error {
			start := time.Now()
			res := &PairResult{Pair: pair}
			if err := ctx.Err(); err != nil {
				res.Error = err
			} else {
				res.Report, res.Error = b.comparer.CompareFiles(ctx, pair.Left, pair.Right)
			}
			res.Duration = time.Since(start)
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// ProcessFile reads a manifest and processes its pairs
func (b *BatchProcessor) ProcessFile(ctx context.Context, manifestPath string) ([]*PairResult, error) {
	pairs, err := ReadManifest(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	return b.ProcessPairs(ctx, pairs), nil
}

// ReadManifest reads one "left,right[,name]" pair per line. Blank lines and
// lines starting with # are skipped, relative paths are resolved against the
// manifest's directory (URLs are kept as given) and duplicate pairs are dropped.
func ReadManifest(manifestPath string) ([]Pair, error) {
	file, err := os.Open(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	base := filepath.Dir(manifestPath)
	var pairs []Pair
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, ",")
		if len(fields) < 2 || len(fields) > 3 {
			return nil, fmt.Errorf("line %d: expected left,right[,name], got %q", lineNo, line)
		}
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		if fields[0] == "" || fields[1] == "" {
			return nil, fmt.Errorf("line %d: empty document path", lineNo)
		}

		pair := Pair{
			Left:  resolve(base, fields[0]),
			Right: resolve(base, fields[1]),
		}
		if len(fields) == 3 && fields[2] != "" {
			pair.Name = fields[2]
		} else {
			pair.Name = filepath.Base(pair.Left) + " vs " + filepath.Base(pair.Right)
		}

		key := pair.Left + "\x00" + pair.Right
		if seen[key] {
			continue
		}
		seen[key] = true
		pairs = append(pairs, pair)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return pairs, nil
}

func resolve(base, path string) string {
	if filepath.IsAbs(path) || strings.Contains(path, "://") {
		return path
	}
	return filepath.Join(base, path)
}
