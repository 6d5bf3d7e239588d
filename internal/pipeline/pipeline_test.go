package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/lexdiff/internal/llm"
	"github.com/ppiankov/lexdiff/internal/logger"
	"github.com/ppiankov/lexdiff/internal/model"
)

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	cfg := model.DefaultConfig()
	cfg.Output.NoColor = true
	p, err := NewPipeline(cfg, logger.Nop())
	require.NoError(t, err)
	return p
}

func TestPipeline_CompareFiles(t *testing.T) {
	dir := t.TempDir()
	left := writeDoc(t, dir, "v1.json", `{"payment": "The Customer shall pay the invoice within 30 days."}`)
	right := writeDoc(t, dir, "v2.yaml", "payment: The Customer shall pay the invoice within 60 days.\n")

	report, err := newTestPipeline(t).CompareFiles(context.Background(), left, right)
	require.NoError(t, err)
	require.Len(t, report.Changes, 1)
	assert.Equal(t, model.ChangeTiming, report.Changes[0].Type)
	assert.Equal(t, 1, report.Meta.Documents[0].Clauses)
}

func TestPipeline_CompareFilesMissing(t *testing.T) {
	dir := t.TempDir()
	right := writeDoc(t, dir, "v2.json", `{}`)

	_, err := newTestPipeline(t).CompareFiles(context.Background(), filepath.Join(dir, "nope.json"), right)
	assert.Error(t, err)
}

func TestPipeline_Inspect(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "doc.json", `{
  "title": "Master Services Agreement",
  "payment": "The Customer shall pay the invoice within 30 days.",
  "payment_copy": "The Customer shall pay the invoice within 30 days.",
  "metadata": {"note": "The Customer shall pay the invoice within 90 days."}
}`)

	in, err := newTestPipeline(t).Inspect(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, in.Path)
	assert.Equal(t, 3, in.Stats.Candidates)
	assert.Equal(t, 2, in.Stats.Clauses)
	assert.Equal(t, 1, in.Stats.Unique)
	require.Len(t, in.Clauses, 2)
	assert.Equal(t, "CUSTOMER", in.Clauses[0].Party)

	var out bytes.Buffer
	newTestPipeline(t).Renderer().RenderInspection(&out, in)
	assert.Contains(t, out.String(), "2 clause(s), 1 unique")
	assert.Contains(t, out.String(), in.Clauses[0].IntentHash)
}

func TestPipeline_RenderReport(t *testing.T) {
	dir := t.TempDir()
	left := writeDoc(t, dir, "v1.json", `{"payment": "The Customer shall pay the invoice within 30 days."}`)
	right := writeDoc(t, dir, "v2.json", `{"payment": "The Customer shall pay the invoice within 60 days."}`)

	p := newTestPipeline(t)
	report, err := p.CompareFiles(context.Background(), left, right)
	require.NoError(t, err)

	jsonPath := filepath.Join(dir, "report.json")
	mdPath := filepath.Join(dir, "report.md")
	require.NoError(t, p.RenderReport(report, jsonPath, mdPath, false))

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var decoded model.Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, report.Meta.ID, decoded.Meta.ID)
	require.Len(t, decoded.Changes, 1)
	assert.Equal(t, model.ChangeTiming, decoded.Changes[0].Type)

	md, err := os.ReadFile(mdPath)
	require.NoError(t, err)
	assert.Contains(t, string(md), "### 1. TIMING_CHANGE (HIGH)")
	assert.Contains(t, string(md), "Timing changed: within 30 days → within 60 days")
}

func TestRenderer_Markdown(t *testing.T) {
	report := &model.Report{
		Meta:    model.ReportMeta{ID: "abc", Threshold: 0.88, Sectioned: true},
		Summary: model.Summary{ByType: map[string]int{}, ByImpact: map[string]int{}},
	}

	md := NewRenderer(true, true).Markdown(report)
	assert.True(t, strings.HasPrefix(md, "# Legal Change Report"))
	assert.Contains(t, md, "`abc`")
	assert.Contains(t, md, "compared section by section")
	assert.Contains(t, md, "No material changes detected.")
	assert.Contains(t, md, "Generated by lexdiff")

	assert.NotContains(t, NewRenderer(false, true).Markdown(report), "Generated by lexdiff")
}

func TestRenderer_Summary(t *testing.T) {
	report := &model.Report{
		Summary: model.Summary{TotalChanges: 1, MaterialChanges: 1, RequiresHumanReview: 1},
		Changes: []model.LegalChange{{
			Type:                model.ChangeParty,
			Impact:              model.ImpactCritical,
			Path:                "payment",
			Description:         "Party changed: CUSTOMER → VENDOR",
			RequiresHumanReview: true,
		}},
	}

	var out bytes.Buffer
	NewRenderer(false, true).RenderSummary(&out, report)
	got := out.String()
	assert.Contains(t, got, "1 change(s): 1 material, 1 for review")
	assert.Contains(t, got, "CRITICAL")
	assert.Contains(t, got, "Party changed: CUSTOMER → VENDOR [review]")
	assert.NotContains(t, got, "\x1b[")
}

func TestNewAnalyzer(t *testing.T) {
	cfg := model.DefaultConfig()

	a, err := NewAnalyzer(cfg.Analyzer, cfg.LLM, logger.Nop())
	require.NoError(t, err)
	analysis, err := a.Parse(context.Background(), "The Customer shall pay the invoice within 30 days.")
	require.NoError(t, err)
	assert.NotNil(t, analysis)

	cfg.Analyzer.Provider = "telepathy"
	_, err = NewAnalyzer(cfg.Analyzer, cfg.LLM, logger.Nop())
	require.Error(t, err)
	assert.True(t, errors.Is(err, llm.ErrUnknownProvider))
}
