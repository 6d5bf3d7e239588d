package compare

import (
	"unicode/utf8"

	"github.com/ppiankov/lexdiff/internal/model"
	"github.com/ppiankov/lexdiff/internal/rules"
)

const (
	genericPartyFactor  = 0.4
	invalidActionFactor = 0.4
	shortObjectFactor   = 0.3
	placeholderFactor   = 0.3
	shortTextFactor     = 0.7

	shortObjectLen = 5
	shortTextLen   = 20

	reviewAtOrBelow         = 0.75
	criticalReviewAtOrBelow = 0.85

	singletonConfidence     = 0.8
	weakSingletonConfidence = 0.3
	singletonReviewBelow    = 0.5
)

// Confidence discounts a matched pair for every sign of weak extraction on
// either side.
func Confidence(from, to *model.CLO) float64 {
	confidence := 1.0
	if either(from, to, func(c *model.CLO) bool { return c.Party == model.GenericParty }) {
		confidence *= genericPartyFactor
	}
	if either(from, to, func(c *model.CLO) bool { return rules.IsInvalidAction(c.Action) }) {
		confidence *= invalidActionFactor
	}
	if either(from, to, func(c *model.CLO) bool { return utf8.RuneCountInString(c.Object) < shortObjectLen }) {
		confidence *= shortObjectFactor
	}
	if either(from, to, func(c *model.CLO) bool { return rules.IsPlaceholderObject(c.Object) }) {
		confidence *= placeholderFactor
	}
	if either(from, to, func(c *model.CLO) bool { return utf8.RuneCountInString(c.OriginalText) < shortTextLen }) {
		confidence *= shortTextFactor
	}
	return confidence
}

func either(a, b *model.CLO, pred func(*model.CLO) bool) bool {
	return pred(a) || pred(b)
}

// RequiresReview reports whether a matched-pair change needs a human
func RequiresReview(impact model.ImpactLevel, confidence float64) bool {
	return (impact.Material() && confidence <= reviewAtOrBelow) ||
		(impact == model.ImpactCritical && confidence <= criticalReviewAtOrBelow)
}

// SingletonConfidence scores an added or removed clause
func SingletonConfidence(c *model.CLO) float64 {
	if c.Party == model.GenericParty && rules.IsInvalidAction(c.Action) {
		return weakSingletonConfidence
	}
	return singletonConfidence
}

// SingletonRequiresReview reports whether an added or removed clause needs a
// human
func SingletonRequiresReview(confidence float64) bool {
	return confidence < singletonReviewBelow
}
