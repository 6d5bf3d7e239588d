// Package rules holds the lexicons and heuristics that turn clause text into
// the normalized fields of a canonical legal object.
package rules

import (
	"regexp"
	"sort"
	"strings"
)

// NoiseIndicators mark headings, captions and other non-clause text
var NoiseIndicators = []string{
	"page", "section", "article", "clause", "table", "figure",
	"appendix", "schedule", "exhibit", "annex", "whereas",
	"definitions", "interpretation", "heading", "title",
}

// InvalidActions are verbs too generic to describe an obligation
var InvalidActions = map[string]bool{
	"PERFORM": true, "DO": true, "EXECUTE": true, "ACT": true,
	"CONDUCT": true, "CARRY": true, "MAKE": true, "TAKE": true,
	"HAVE": true, "BE": true, "GET": true, "GO": true,
}

// PlaceholderObjects are objects that only restate the kind of clause
var PlaceholderObjects = map[string]bool{
	"OBLIGATION": true, "DUTY": true, "RESPONSIBILITY": true, "REQUIREMENT": true,
	"RIGHT": true, "PERMISSION": true, "THING": true, "MATTER": true,
	"ITEM": true, "PART": true, "SECTION": true, "CLAUSE": true, "PROVISION": true,
}

// ConditionStopwords are dropped before conditions and exceptions are compared
var ConditionStopwords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "from": true, "as": true, "is": true, "was": true,
	"are": true, "were": true, "be": true, "been": true, "being": true,
	"have": true, "has": true, "had": true, "do": true, "does": true, "did": true,
	"will": true, "would": true, "should": true, "could": true, "may": true,
	"might": true, "must": true, "can": true, "shall": true,
}

// IsInvalidAction reports whether a normalized action is non-informative
func IsInvalidAction(action string) bool {
	return InvalidActions[strings.ToUpper(strings.TrimSpace(action))]
}

// IsPlaceholderObject reports whether an object is a placeholder
func IsPlaceholderObject(object string) bool {
	return PlaceholderObjects[strings.ToUpper(strings.TrimSpace(object))]
}

// noiseHeadLen is how many characters of a text IsNoisy looks at
const noiseHeadLen = 50

// IsNoisy reports whether the opening of a text looks like a heading or caption
func IsNoisy(text string) bool {
	head := []rune(fold(text))
	if len(head) > noiseHeadLen {
		head = head[:noiseHeadLen]
	}
	return noiseRe.MatchString(string(head))
}

var noiseRe = phraseRegexp(NoiseIndicators)

// fold lowercases text and unifies typographic apostrophes
func fold(text string) string {
	return strings.ToLower(strings.ReplaceAll(text, "’", "'"))
}

// phraseRegexp compiles a case-insensitive alternation of phrases bounded by
// non-letters. Longer phrases are tried first so the longest phrase wins at
// a given position. Group 1 holds the phrase.
func phraseRegexp(phrases []string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}_])(` + phraseAlternation(phrases) + `)(?:[^\p{L}\p{N}_]|$)`)
}

func phraseAlternation(phrases []string) string {
	sorted := append([]string(nil), phrases...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})

	alts := make([]string, len(sorted))
	for i, p := range sorted {
		alts[i] = strings.ReplaceAll(regexp.QuoteMeta(p), " ", `\s+`)
	}
	return strings.Join(alts, "|")
}

// collapse squeezes runs of whitespace to single spaces
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
