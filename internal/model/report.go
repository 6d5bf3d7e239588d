package model

// Report is the outcome of comparing two documents
type Report struct {
	Meta    ReportMeta    `json:"meta"`
	Summary Summary       `json:"summary"`
	Changes []LegalChange `json:"changes"`
}

// Summary aggregates the change list
type Summary struct {
	TotalChanges        int            `json:"total_changes"`
	ByType              map[string]int `json:"by_type"`
	ByImpact            map[string]int `json:"by_impact"`
	RequiresHumanReview int            `json:"requires_human_review"`
	MaterialChanges     int            `json:"material_changes"`
}

// ReportMeta describes how a report was produced
type ReportMeta struct {
	ID        string           `json:"id,omitempty"`        // Name-based UUID over both documents
	Documents [2]DocumentStats `json:"documents"`           // Extraction statistics, left then right
	Sectioned bool             `json:"sectioned,omitempty"` // Section-wise fallback was used
	Threshold float64          `json:"similarity_threshold"`
}

// DocumentStats counts what happened while extracting clauses from one document
type DocumentStats struct {
	Candidates   int `json:"candidates"`                // String leaves considered
	Clauses      int `json:"clauses"`                   // CLOs built after filtering and validation
	Unique       int `json:"unique"`                    // CLOs left after intent deduplication
	Filtered     int `json:"filtered"`                  // Candidates rejected as non-legal text
	Invalid      int `json:"invalid"`                   // CLOs rejected as extraction noise
	SkippedDeep  int `json:"skipped_deep,omitempty"`    // Subtrees beyond the depth guard
	AnalyzerErrs int `json:"analyzer_errors,omitempty"` // Clauses extracted without the analyzer
}

// Add accumulates counts from another stats value
func (s *DocumentStats) Add(o DocumentStats) {
	s.Candidates += o.Candidates
	s.Clauses += o.Clauses
	s.Unique += o.Unique
	s.Filtered += o.Filtered
	s.Invalid += o.Invalid
	s.SkippedDeep += o.SkippedDeep
	s.AnalyzerErrs += o.AnalyzerErrs
}
