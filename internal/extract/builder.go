package extract

import (
	"context"
	"strings"

	"github.com/ppiankov/lexdiff/internal/logger"
	"github.com/ppiankov/lexdiff/internal/model"
	"github.com/ppiankov/lexdiff/internal/nlp"
	"github.com/ppiankov/lexdiff/internal/rules"
)

const (
	defaultAction = "PERFORM"

	// entityWindow is how many tokens before a modal may name the party
	entityWindow = 5
	// modalVerbWindow is how many tokens after a modal may hold its verb
	modalVerbWindow = 4
)

// Builder reads one clause into a CLO
type Builder struct {
	filter *Filter
	rules  *rules.Ruleset
	log    logger.Logger
}

// NewBuilder creates a builder. A nil analyzer uses the lexical one and a
// nil ruleset the default qualifier vocabulary.
func NewBuilder(analyzer nlp.Analyzer, ruleset *rules.Ruleset, log logger.Logger) *Builder {
	if ruleset == nil {
		ruleset = rules.Default()
	}
	return &Builder{filter: NewFilter(analyzer), rules: ruleset, log: logger.OrNop(log)}
}

// Build returns the CLO for a candidate. Candidates that are not clauses or
// whose reading is uninformative yield a *RejectionError.
func (b *Builder) Build(ctx context.Context, c Candidate) (*model.CLO, error) {
	clo, _, err := b.build(ctx, c)
	return clo, err
}

// build also reports whether the analyzer failed for this candidate. A
// fallback analysis returned with the failure is still used.
func (b *Builder) build(ctx context.Context, c Candidate) (*model.CLO, bool, error) {
	s, err := b.filter.Screen(ctx, c.Text)
	if err != nil {
		return nil, false, err
	}
	analyzerFailed := s.AnalyzerErr != nil
	if analyzerFailed {
		b.log.Warn("analyzer failed, using lexical defaults", "clause", c.Path, "error", s.AnalyzerErr)
	}
	a := s.Analysis

	if s.Reason != "" {
		b.log.Debug("candidate filtered", "clause", c.Path, "reason", s.Reason)
		return nil, analyzerFailed, &RejectionError{Stage: StageFilter, Path: c.Path, Reason: s.Reason}
	}

	verb := actionVerb(c.Text, a)
	conditions := rules.Conditions(c.Text)
	exceptions := rules.Exceptions(c.Text)

	clo := model.NewCLO(model.CLOFields{
		ClauseUID:            c.Path,
		Party:                party(c.Text, a),
		Action:               rules.NormalizeAction(verb),
		Object:               object(c.Text, verb, a),
		Modality:             rules.Modality(c.Text),
		Conditions:           conditions,
		NormalizedConditions: rules.NormalizeConditions(conditions),
		Exceptions:           exceptions,
		NormalizedExceptions: rules.NormalizeExceptions(exceptions),
		Qualifiers:           b.rules.Qualifiers(c.Text),
		Timebound:            rules.ExtractTimebound(c.Text),
		Law:                  rules.LawReference(c.Text),
		OriginalText:         c.Text,
	})

	if err := ValidateCLO(clo); err != nil {
		b.log.Debug("clause rejected", "clause", c.Path, "error", err)
		return nil, analyzerFailed, err
	}
	return clo, analyzerFailed, nil
}

// party tries the role vocabulary, then a named entity shortly before a
// modal, then possessive constructs.
func party(text string, a *nlp.Analysis) string {
	if role, ok := rules.Party(text); ok {
		return role
	}
	if a != nil {
		for i, t := range a.Tokens {
			if t.POS != nlp.POSModal {
				continue
			}
			if e, ok := a.EntityBefore(i, entityWindow); ok {
				return rules.CanonicalParty(e.Text)
			}
		}
	}
	if p, ok := rules.PossessiveParty(text); ok {
		return p
	}
	return model.GenericParty
}

// actionVerb returns the raw main verb: the analyzer's root verb, a verb
// shortly after a modal, the word after shall/must/will/may, or the first
// vocabulary verb.
func actionVerb(text string, a *nlp.Analysis) string {
	if a != nil {
		if a.RootVerb != "" {
			return a.RootVerb
		}
		for i, t := range a.Tokens {
			if t.POS != nlp.POSModal {
				continue
			}
			if v, ok := a.VerbAfter(i, modalVerbWindow); ok {
				return v
			}
		}
	}
	if v, ok := rules.VerbAfterModal(text); ok {
		return v
	}
	if v, ok := rules.ScanAction(text); ok {
		return v
	}
	return defaultAction
}

// object returns what the action applies to: the analyzer's object, the noun
// phrase after the verb, or the words after the verb once deadlines and
// carve-outs are cut. Intransitive obligations ("shall pay within 30 days")
// take the verb itself as their object.
func object(text, verb string, a *nlp.Analysis) string {
	if a != nil {
		if obj := a.Objects[strings.ToLower(verb)]; obj != "" {
			return rules.NormalizeObject(obj)
		}
	}
	if obj := rules.ObjectPhrase(text, verb); obj != "" {
		return rules.NormalizeObject(obj)
	}
	if obj := rules.ObjectWindow(text, verb); obj != "" {
		return rules.NormalizeObject(obj)
	}
	return rules.Lemma(rules.NormalizeObject(verb))
}
