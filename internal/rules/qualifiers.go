package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ppiankov/lexdiff/internal/model"
)

// DefaultWeakening are qualifiers that dilute an obligation
var DefaultWeakening = []string{
	"reasonable", "commercially reasonable", "reasonably", "appropriate",
	"adequate", "sufficient", "best efforts", "reasonable efforts",
	"commercially reasonable efforts", "practicable", "feasible",
	"where practicable", "where feasible", "to the extent",
	"as appropriate", "as needed", "as necessary", "good faith",
}

// DefaultStrengthening are qualifiers that harden an obligation
var DefaultStrengthening = []string{
	"all", "any", "each", "every", "complete", "full", "entire",
	"comprehensive", "absolute", "strict", "maximum", "immediate",
	"without limitation", "in all cases", "under all circumstances",
}

type qualifier struct {
	phrase string
	re     *regexp.Regexp
}

// Ruleset holds the configurable qualifier vocabularies
type Ruleset struct {
	weakening     []qualifier
	strengthening []qualifier
}

// NewRuleset compiles qualifier vocabularies. Nil slices fall back to the
// defaults.
func NewRuleset(weakening, strengthening []string) *Ruleset {
	if weakening == nil {
		weakening = DefaultWeakening
	}
	if strengthening == nil {
		strengthening = DefaultStrengthening
	}
	return &Ruleset{
		weakening:     compileQualifiers(weakening),
		strengthening: compileQualifiers(strengthening),
	}
}

// Default returns a ruleset with the built-in vocabularies
func Default() *Ruleset {
	return defaultRuleset
}

var defaultRuleset = NewRuleset(nil, nil)

func compileQualifiers(phrases []string) []qualifier {
	out := make([]qualifier, 0, len(phrases))
	for _, p := range phrases {
		p = collapse(fold(p))
		if p == "" {
			continue
		}
		out = append(out, qualifier{phrase: p, re: phraseRegexp([]string{p})})
	}
	return out
}

// Qualifiers reports every weakening and strengthening phrase present in
// text, in vocabulary order.
func (r *Ruleset) Qualifiers(text string) model.Qualifiers {
	folded := fold(text)
	return model.Qualifiers{
		Weakening:     matchQualifiers(folded, r.weakening),
		Strengthening: matchQualifiers(folded, r.strengthening),
	}
}

func matchQualifiers(text string, qs []qualifier) []string {
	found := []string{}
	for _, q := range qs {
		if q.re.MatchString(text) {
			found = append(found, q.phrase)
		}
	}
	return found
}

// QualifierShift describes how the qualifiers of a clause moved between two
// versions.
type QualifierShift struct {
	AddedWeakening       []string
	RemovedWeakening     []string
	AddedStrengthening   []string
	RemovedStrengthening []string
}

// Weakened reports whether the obligation was diluted
func (s QualifierShift) Weakened() bool {
	return len(s.AddedWeakening) > 0 || len(s.RemovedStrengthening) > 0
}

// Strengthened reports whether the obligation was hardened
func (s QualifierShift) Strengthened() bool {
	return len(s.AddedStrengthening) > 0 || len(s.RemovedWeakening) > 0
}

// Changed reports whether any qualifier moved
func (s QualifierShift) Changed() bool {
	return s.Weakened() || s.Strengthened()
}

// Describe renders the shift. Weakening takes precedence when both happened.
func (s QualifierShift) Describe() string {
	var details []string
	switch {
	case s.Weakened():
		if len(s.AddedWeakening) > 0 {
			details = append(details, fmt.Sprintf("Added weakening: %s", strings.Join(s.AddedWeakening, ", ")))
		}
		if len(s.RemovedStrengthening) > 0 {
			details = append(details, fmt.Sprintf("Removed strengthening: %s", strings.Join(s.RemovedStrengthening, ", ")))
		}
	case s.Strengthened():
		if len(s.AddedStrengthening) > 0 {
			details = append(details, fmt.Sprintf("Added strengthening: %s", strings.Join(s.AddedStrengthening, ", ")))
		}
		if len(s.RemovedWeakening) > 0 {
			details = append(details, fmt.Sprintf("Removed weakening: %s", strings.Join(s.RemovedWeakening, ", ")))
		}
	}
	return strings.Join(details, " | ")
}

// CompareQualifiers computes the qualifier shift from one version to the next
func CompareQualifiers(from, to model.Qualifiers) QualifierShift {
	return QualifierShift{
		AddedWeakening:       missingFrom(to.Weakening, from.Weakening),
		RemovedWeakening:     missingFrom(from.Weakening, to.Weakening),
		AddedStrengthening:   missingFrom(to.Strengthening, from.Strengthening),
		RemovedStrengthening: missingFrom(from.Strengthening, to.Strengthening),
	}
}

// missingFrom returns the items of a that are absent from b, in a's order
func missingFrom(a, b []string) []string {
	present := make(map[string]bool, len(b))
	for _, s := range b {
		present[s] = true
	}
	var out []string
	for _, s := range a {
		if !present[s] {
			out = append(out, s)
		}
	}
	return out
}
