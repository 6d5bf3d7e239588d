package compare

import "github.com/ppiankov/lexdiff/internal/model"

// Changes turns a matching into report entries: structural moves first,
// then changed pairs, new clauses and removed clauses. Translations and
// immaterial differences are dropped.
func Changes(m *Matching) []model.LegalChange {
	changes := make([]model.LegalChange, 0, len(m.Structural)+len(m.Added)+len(m.Removed))

	for _, p := range m.Structural {
		changes = append(changes, model.LegalChange{
			Type:        model.ChangeStructural,
			Path:        p.From.ClauseUID,
			From:        model.Snapshot(p.From),
			To:          model.Snapshot(p.To),
			Description: Describe(model.ChangeStructural, p.From, p.To),
			Impact:      model.ImpactLow,
			Confidence:  1.0,
		})
	}

	for _, p := range m.Matched {
		v := Classify(p.From, p.To)
		if !v.Reportable() {
			continue
		}
		confidence := Confidence(p.From, p.To)
		changes = append(changes, model.LegalChange{
			Type:                v.Type,
			Path:                p.From.ClauseUID,
			From:                model.Snapshot(p.From),
			To:                  model.Snapshot(p.To),
			Description:         v.Description,
			Impact:              v.Impact,
			Confidence:          confidence,
			RequiresHumanReview: RequiresReview(v.Impact, confidence),
		})
	}

	for _, c := range m.Added {
		confidence := SingletonConfidence(c)
		changes = append(changes, model.LegalChange{
			Type:                model.ChangeNewClause,
			Path:                c.ClauseUID,
			To:                  model.Snapshot(c),
			Description:         Describe(model.ChangeNewClause, nil, c),
			Impact:              Impact(model.ChangeNewClause, nil, c),
			Confidence:          confidence,
			RequiresHumanReview: SingletonRequiresReview(confidence),
		})
	}

	for _, c := range m.Removed {
		confidence := SingletonConfidence(c)
		changes = append(changes, model.LegalChange{
			Type:                model.ChangeRemovedClause,
			Path:                c.ClauseUID,
			From:                model.Snapshot(c),
			Description:         Describe(model.ChangeRemovedClause, c, nil),
			Impact:              Impact(model.ChangeRemovedClause, c, nil),
			Confidence:          confidence,
			RequiresHumanReview: SingletonRequiresReview(confidence),
		})
	}

	return changes
}

// Summarize counts changes by type and impact
func Summarize(changes []model.LegalChange) model.Summary {
	s := model.Summary{
		TotalChanges: len(changes),
		ByType:       map[string]int{},
		ByImpact:     map[string]int{},
	}
	for _, c := range changes {
		s.ByType[string(c.Type)]++
		s.ByImpact[string(c.Impact)]++
		if c.RequiresHumanReview {
			s.RequiresHumanReview++
		}
		if c.Impact.Material() {
			s.MaterialChanges++
		}
	}
	return s
}
