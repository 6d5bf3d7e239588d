// Package extract turns document trees into canonical legal objects: the
// walker finds clause candidates, the filter drops non-clauses, the builder
// reads each clause into a CLO and the validator rejects extraction noise.
package extract

import (
	"strconv"
	"unicode/utf8"

	"github.com/ppiankov/lexdiff/internal/model"
)

const (
	// DefaultMinLeafLen is the length a string leaf must exceed to be a candidate
	DefaultMinLeafLen = 20
	// DefaultMaxDepth bounds how deep the walker descends
	DefaultMaxDepth = 64
)

// Candidate is a string leaf that may hold a clause
type Candidate struct {
	Path string
	Text string
}

// Walker collects clause candidates from a tree in document order
type Walker struct {
	minLeafLen int
	maxDepth   int
	ignore     map[string]bool
}

// NewWalker creates a walker. Non-positive limits take the defaults; subtrees
// under any of ignoreKeys are never visited.
func NewWalker(minLeafLen, maxDepth int, ignoreKeys []string) *Walker {
	if minLeafLen <= 0 {
		minLeafLen = DefaultMinLeafLen
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	ignore := make(map[string]bool, len(ignoreKeys))
	for _, k := range ignoreKeys {
		ignore[k] = true
	}
	return &Walker{minLeafLen: minLeafLen, maxDepth: maxDepth, ignore: ignore}
}

// Walk returns the candidates of tree and the number of subtrees skipped
// because they nest deeper than the walker's limit. Paths join map keys
// with "." and list indexes as "[i]".
func (w *Walker) Walk(tree model.Tree) ([]Candidate, int) {
	var (
		out     []Candidate
		skipped int
	)

	var visit func(t model.Tree, path string, depth int)
	visit = func(t model.Tree, path string, depth int) {
		if t.Kind != model.KindMap && t.Kind != model.KindList {
			return
		}
		if depth > w.maxDepth {
			skipped++
			return
		}

		leaf := func(v model.Tree, p string) {
			if v.Kind == model.KindString {
				if utf8.RuneCountInString(v.Str) > w.minLeafLen {
					out = append(out, Candidate{Path: p, Text: v.Str})
				}
				return
			}
			visit(v, p, depth+1)
		}

		if t.Kind == model.KindMap {
			for _, f := range t.Fields {
				if w.ignore[f.Key] {
					continue
				}
				p := f.Key
				if path != "" {
					p = path + "." + f.Key
				}
				leaf(f.Value, p)
			}
			return
		}
		for i, item := range t.Items {
			leaf(item, path+"["+strconv.Itoa(i)+"]")
		}
	}

	visit(tree, "", 0)
	return out, skipped
}
