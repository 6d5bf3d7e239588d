package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ppiankov/lexdiff/internal/model"
)

func TestQualifiers(t *testing.T) {
	q := Default().Qualifiers("The Supplier shall use commercially reasonable efforts to restore all services.")
	assert.Equal(t, []string{"reasonable", "commercially reasonable", "reasonable efforts", "commercially reasonable efforts"}, q.Weakening)
	assert.Equal(t, []string{"all"}, q.Strengthening)
}

func TestQualifiersWordBoundaries(t *testing.T) {
	q := Default().Qualifiers("The Company shall notify the Customer of changes.")
	assert.Empty(t, q.Weakening)
	assert.Empty(t, q.Strengthening)
}

func TestCustomRuleset(t *testing.T) {
	r := NewRuleset([]string{"if possible"}, []string{"forthwith"})
	q := r.Qualifiers("The Buyer shall pay forthwith, if possible.")
	assert.Equal(t, []string{"if possible"}, q.Weakening)
	assert.Equal(t, []string{"forthwith"}, q.Strengthening)
}

func TestCompareQualifiers(t *testing.T) {
	from := model.Qualifiers{Weakening: []string{}, Strengthening: []string{"all"}}
	to := model.Qualifiers{Weakening: []string{"reasonable"}, Strengthening: []string{}}

	shift := CompareQualifiers(from, to)
	assert.True(t, shift.Weakened())
	assert.True(t, shift.Changed())
	assert.Equal(t, "Added weakening: reasonable | Removed strengthening: all", shift.Describe())

	shift = CompareQualifiers(to, from)
	assert.False(t, shift.Weakened())
	assert.True(t, shift.Strengthened())
	assert.Equal(t, "Added strengthening: all | Removed weakening: reasonable", shift.Describe())

	assert.False(t, CompareQualifiers(from, from).Changed())
}
