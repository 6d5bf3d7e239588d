package compare

import (
	"fmt"
	"strings"

	"github.com/ppiankov/lexdiff/internal/model"
	"github.com/ppiankov/lexdiff/internal/rules"
)

// Verdict is the semantic gate's reading of a matched pair
type Verdict struct {
	Type        model.ChangeType
	Impact      model.ImpactLevel
	Description string
}

// Reportable reports whether the verdict belongs in a report
func (v Verdict) Reportable() bool {
	return v.Type.Reportable()
}

// Classify decides whether two matched clauses differ in legal effect. Checks
// run from the most to the least severe and the first difference wins.
func Classify(from, to *model.CLO) Verdict {
	t := changeType(from, to)
	return Verdict{
		Type:        t,
		Impact:      Impact(t, from, to),
		Description: Describe(t, from, to),
	}
}

func changeType(from, to *model.CLO) model.ChangeType {
	if from.IntentHash == to.IntentHash && from.OriginalText != to.OriginalText {
		return model.ChangeLanguageEquivalent
	}

	switch {
	case from.Party != to.Party:
		return model.ChangeParty
	case from.Modality != to.Modality:
		return model.ChangeObligation
	case exceptionsChanged(from, to):
		return model.ChangeException
	case rules.CompareQualifiers(from.Qualifiers, to.Qualifiers).Changed():
		return model.ChangeRisk
	case from.Action != to.Action || from.Object != to.Object:
		return model.ChangeScope
	case !equalStrings(from.NormalizedConditions, to.NormalizedConditions):
		return model.ChangeCondition
	case from.Timebound != to.Timebound:
		return model.ChangeTiming
	default:
		return model.ChangeNoImpact
	}
}

func exceptionsChanged(from, to *model.CLO) bool {
	if equalStrings(from.NormalizedExceptions, to.NormalizedExceptions) {
		return false
	}
	added, removed := rules.ExceptionDiff(from.Exceptions, to.Exceptions)
	return len(added) > 0 || len(removed) > 0
}

// Impact grades a change. from or to may be nil for added and removed
// clauses.
func Impact(t model.ChangeType, from, to *model.CLO) model.ImpactLevel {
	switch t {
	case model.ChangeNoImpact, model.ChangeLanguageEquivalent:
		return model.ImpactNone
	case model.ChangeStructural:
		return model.ImpactLow
	case model.ChangeParty:
		return model.ImpactCritical
	case model.ChangeObligation:
		if to != nil && to.Modality == model.ModalityObligation {
			return model.ImpactHigh
		}
		return model.ImpactMedium
	case model.ChangeException:
		// dropping a carve-out broadens the obligation
		if from != nil && to != nil {
			if _, removed := rules.ExceptionDiff(from.Exceptions, to.Exceptions); len(removed) > 0 {
				return model.ImpactCritical
			}
		}
		return model.ImpactHigh
	case model.ChangeRisk, model.ChangeCondition, model.ChangeTiming:
		return model.ImpactHigh
	case model.ChangeScope:
		return model.ImpactMedium
	case model.ChangeNewClause, model.ChangeRemovedClause:
		return model.ImpactHigh
	default:
		return model.ImpactLow
	}
}

// Describe renders the one-line description of a change
func Describe(t model.ChangeType, from, to *model.CLO) string {
	switch t {
	case model.ChangeParty:
		return fmt.Sprintf("Party changed from %s to %s", from.Party, to.Party)
	case model.ChangeObligation:
		return fmt.Sprintf("Modality changed: %s → %s", from.Modality, to.Modality)
	case model.ChangeException:
		added, removed := rules.ExceptionDiff(from.Exceptions, to.Exceptions)
		return fmt.Sprintf("Exceptions changed: +%d added, %d removed", len(added), len(removed))
	case model.ChangeRisk:
		return "Obligation strength changed: " + rules.CompareQualifiers(from.Qualifiers, to.Qualifiers).Describe()
	case model.ChangeScope:
		switch {
		case from.Action != to.Action:
			return fmt.Sprintf("Action changed: %s → %s", from.Action, to.Action)
		case from.Object != to.Object:
			return fmt.Sprintf("Scope changed: %s → %s", from.Object, to.Object)
		default:
			return "Scope modified"
		}
	case model.ChangeTiming:
		return fmt.Sprintf("Timing changed: %s → %s", orNone(from.Timebound), orNone(to.Timebound))
	case model.ChangeCondition:
		return "Conditions modified"
	case model.ChangeStructural:
		return fmt.Sprintf("Clause moved from section %s to %s", from.SectionID, to.SectionID)
	case model.ChangeNewClause:
		return fmt.Sprintf("New %s: %s %s", strings.ToLower(string(to.Modality)), to.Action, to.Object)
	case model.ChangeRemovedClause:
		return fmt.Sprintf("Removed %s: %s %s", strings.ToLower(string(from.Modality)), from.Action, from.Object)
	case model.ChangeLanguageEquivalent:
		return "Translation - no legal change"
	case model.ChangeNoImpact:
		return "No legal change"
	default:
		return "Legal change detected"
	}
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
