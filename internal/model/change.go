package model

// ChangeType classifies a detected difference between two clauses
type ChangeType string

const (
	ChangeNoImpact           ChangeType = "NO_IMPACT_CHANGE"
	ChangeStructural         ChangeType = "STRUCTURAL_CHANGE"
	ChangeObligation         ChangeType = "OBLIGATION_CHANGE"
	ChangeScope              ChangeType = "SCOPE_CHANGE"
	ChangeParty              ChangeType = "PARTY_CHANGE"
	ChangeCondition          ChangeType = "CONDITION_CHANGE"
	ChangeTiming             ChangeType = "TIMING_CHANGE"
	ChangeRisk               ChangeType = "RISK_CHANGE"
	ChangeException          ChangeType = "EXCEPTION_CHANGE"
	ChangeNewClause          ChangeType = "NEW_CLAUSE"
	ChangeRemovedClause      ChangeType = "REMOVED_CLAUSE"
	ChangeLanguageEquivalent ChangeType = "LANGUAGE_EQUIVALENT"
)

// AllChangeTypes lists every change type in declaration order
var AllChangeTypes = []ChangeType{
	ChangeNoImpact,
	ChangeStructural,
	ChangeObligation,
	ChangeScope,
	ChangeParty,
	ChangeCondition,
	ChangeTiming,
	ChangeRisk,
	ChangeException,
	ChangeNewClause,
	ChangeRemovedClause,
	ChangeLanguageEquivalent,
}

// Valid reports whether t is a known change type
func (t ChangeType) Valid() bool {
	for _, known := range AllChangeTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Reportable reports whether changes of this type belong in a report
func (t ChangeType) Reportable() bool {
	return t != ChangeNoImpact && t != ChangeLanguageEquivalent
}

// ImpactLevel grades the legal significance of a change
type ImpactLevel string

const (
	ImpactNone     ImpactLevel = "NONE"
	ImpactLow      ImpactLevel = "LOW"
	ImpactMedium   ImpactLevel = "MEDIUM"
	ImpactHigh     ImpactLevel = "HIGH"
	ImpactCritical ImpactLevel = "CRITICAL"
)

// Rank orders impact levels from NONE (0) to CRITICAL (4)
func (l ImpactLevel) Rank() int {
	switch l {
	case ImpactLow:
		return 1
	case ImpactMedium:
		return 2
	case ImpactHigh:
		return 3
	case ImpactCritical:
		return 4
	default:
		return 0
	}
}

// Material reports whether the level counts as a material change
func (l ImpactLevel) Material() bool {
	return l == ImpactHigh || l == ImpactCritical
}

// LegalChange is one entry of a comparison report
type LegalChange struct {
	Type                ChangeType   `json:"type"`
	Path                string       `json:"path"`
	From                *CLOSnapshot `json:"from_value"`
	To                  *CLOSnapshot `json:"to_value"`
	Description         string       `json:"description"`
	Impact              ImpactLevel  `json:"impact"`
	Confidence          float64      `json:"confidence"`
	RequiresHumanReview bool         `json:"requires_human_review"`
}

// CLOSnapshot is the report-facing view of a CLO
type CLOSnapshot struct {
	ClauseUID  string     `json:"clause_uid"`
	Party      string     `json:"party"`
	Action     string     `json:"action"`
	Object     string     `json:"object"`
	Modality   Modality   `json:"modality"`
	Conditions []string   `json:"conditions"`
	Timebound  string     `json:"timebound,omitempty"`
	Exceptions []string   `json:"exceptions"`
	Qualifiers Qualifiers `json:"qualifiers"`
	Law        string     `json:"law,omitempty"`
}

// Snapshot captures the reportable fields of a CLO; nil stays nil
func Snapshot(c *CLO) *CLOSnapshot {
	if c == nil {
		return nil
	}
	return &CLOSnapshot{
		ClauseUID:  c.ClauseUID,
		Party:      c.Party,
		Action:     c.Action,
		Object:     c.Object,
		Modality:   c.Modality,
		Conditions: cloneStrings(c.Conditions),
		Timebound:  c.Timebound,
		Exceptions: cloneStrings(c.Exceptions),
		Qualifiers: Qualifiers{
			Weakening:     cloneStrings(c.Qualifiers.Weakening),
			Strengthening: cloneStrings(c.Qualifiers.Strengthening),
		},
		Law: c.Law,
	}
}
