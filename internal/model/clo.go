package model

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"sort"
	"strings"
)

// Modality classifies what a clause does to its party
type Modality string

const (
	ModalityObligation  Modality = "OBLIGATION"
	ModalityPermission  Modality = "PERMISSION"
	ModalityProhibition Modality = "PROHIBITION"
	ModalityRight       Modality = "RIGHT"
	ModalityCondition   Modality = "CONDITION"
)

// Valid reports whether m is one of the closed modality values
func (m Modality) Valid() bool {
	switch m {
	case ModalityObligation, ModalityPermission, ModalityProhibition, ModalityRight, ModalityCondition:
		return true
	default:
		return false
	}
}

// GenericParty is the fallback party when no actor could be identified
const GenericParty = "PARTY"

// Qualifiers holds the weakening and strengthening markers found in a clause
type Qualifiers struct {
	Weakening     []string `json:"weakening"`
	Strengthening []string `json:"strengthening"`
}

// CLO is a canonical legal object: the normalized reading of one clause.
// Values are built by NewCLO and must not be modified afterwards.
type CLO struct {
	ClauseUID            string     `json:"clause_uid"`
	Party                string     `json:"party"`
	Action               string     `json:"action"`
	Object               string     `json:"object"`
	Modality             Modality   `json:"modality"`
	Conditions           []string   `json:"conditions"`
	NormalizedConditions []string   `json:"normalized_conditions"`
	Exceptions           []string   `json:"exceptions"`
	NormalizedExceptions []string   `json:"normalized_exceptions"`
	Qualifiers           Qualifiers `json:"qualifiers"`
	Timebound            string     `json:"timebound,omitempty"`
	Law                  string     `json:"law,omitempty"`
	OriginalText         string     `json:"original_text"`
	IntentHash           string     `json:"intent_hash"`
	SectionID            string     `json:"section_id"`
}

// CLOFields are the extracted parts a CLO is assembled from
type CLOFields struct {
	ClauseUID            string
	Party                string
	Action               string
	Object               string
	Modality             Modality
	Conditions           []string
	NormalizedConditions []string
	Exceptions           []string
	NormalizedExceptions []string
	Qualifiers           Qualifiers
	Timebound            string
	Law                  string
	OriginalText         string
}

// NewCLO assembles a CLO, copying every slice and deriving the intent hash
// and section id.
func NewCLO(f CLOFields) *CLO {
	modality := f.Modality
	if modality == "" {
		modality = ModalityObligation
	}

	clo := &CLO{
		ClauseUID:            f.ClauseUID,
		Party:                f.Party,
		Action:               f.Action,
		Object:               f.Object,
		Modality:             modality,
		Conditions:           cloneStrings(f.Conditions),
		NormalizedConditions: cloneStrings(f.NormalizedConditions),
		Exceptions:           cloneStrings(f.Exceptions),
		NormalizedExceptions: cloneStrings(f.NormalizedExceptions),
		Qualifiers: Qualifiers{
			Weakening:     cloneStrings(f.Qualifiers.Weakening),
			Strengthening: cloneStrings(f.Qualifiers.Strengthening),
		},
		Timebound:    f.Timebound,
		Law:          f.Law,
		OriginalText: f.OriginalText,
	}
	clo.IntentHash = IntentHash(clo)
	clo.SectionID = SectionID(f.ClauseUID)
	return clo
}

// IntentHash fingerprints the normalized fields of a CLO. Clause position,
// wording and qualifiers do not take part, so two clauses with the same hash
// express the same intent.
func IntentHash(c *CLO) string {
	components := []string{
		strings.ToLower(c.Party),
		strings.ToLower(c.Action),
		strings.ToLower(c.Object),
		string(c.Modality),
		strings.Join(sortedCopy(c.NormalizedConditions), "|"),
		strings.Join(sortedCopy(c.NormalizedExceptions), "|"),
		c.Timebound,
	}
	sum := sha256.Sum256([]byte(strings.Join(components, "|")))
	return hex.EncodeToString(sum[:])[:16]
}

var listIndexSuffix = regexp.MustCompile(`\[\d+\]`)

// SectionID returns the leading segment of a clause path
func SectionID(clauseUID string) string {
	first, _, _ := strings.Cut(clauseUID, ".")
	first = listIndexSuffix.ReplaceAllString(first, "")
	return first
}

func cloneStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func sortedCopy(in []string) []string {
	out := cloneStrings(in)
	sort.Strings(out)
	return out
}
