package extract

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/lexdiff/internal/nlp"
	"github.com/ppiankov/lexdiff/internal/rules"
)

// minClauseLen is the shortest trimmed text accepted as a clause
const minClauseLen = 30

// Filter decides whether a candidate reads as a legal clause
type Filter struct {
	analyzer nlp.Analyzer
}

// NewFilter creates a filter. A nil analyzer uses the lexical one.
func NewFilter(analyzer nlp.Analyzer) *Filter {
	if analyzer == nil {
		analyzer = nlp.NewLexical()
	}
	return &Filter{analyzer: analyzer}
}

// Screening is the filter's reading of one candidate
type Screening struct {
	// Analysis may be a degraded fallback when AnalyzerErr is set, or nil
	Analysis    *nlp.Analysis
	AnalyzerErr error
	// Reason is why the text is not a clause, "" when it is one
	Reason string
}

// Screen analyses text and decides whether it reads as a legal clause: it
// must carry a legal modal, be long enough, not open like a heading and have
// at least one verb. A failed analysis without a fallback skips the verb
// check. Only a done ctx returns an error.
func (f *Filter) Screen(ctx context.Context, text string) (Screening, error) {
	a, err := f.analyzer.Parse(ctx, text)
	if err != nil && ctx.Err() != nil {
		return Screening{}, ctx.Err()
	}
	return Screening{Analysis: a, AnalyzerErr: err, Reason: rejectReason(text, a)}, nil
}

// rejectReason returns why text is not a clause, or "". a may be nil.
func rejectReason(text string, a *nlp.Analysis) string {
	switch {
	case !rules.HasModal(text):
		return "no legal modal"
	case utf8.RuneCountInString(strings.TrimSpace(text)) < minClauseLen:
		return "too short"
	case rules.IsNoisy(text):
		return "reads as heading or caption"
	case a != nil && len(a.VerbTokens) == 0:
		return "no verb"
	default:
		return ""
	}
}
