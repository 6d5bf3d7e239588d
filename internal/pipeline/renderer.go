package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/ppiankov/lexdiff/internal/model"
)

var impactOrder = []model.ImpactLevel{
	model.ImpactCritical,
	model.ImpactHigh,
	model.ImpactMedium,
	model.ImpactLow,
	model.ImpactNone,
}

// Renderer writes reports as JSON, Markdown and terminal summaries
type Renderer struct {
	includeFooter bool
	colors        map[model.ImpactLevel]*color.Color
	bold          *color.Color
}

// NewRenderer creates a renderer. noColor disables terminal colours
// regardless of the output device.
func NewRenderer(includeFooter, noColor bool) *Renderer {
	r := &Renderer{
		includeFooter: includeFooter,
		colors: map[model.ImpactLevel]*color.Color{
			model.ImpactCritical: color.New(color.FgRed, color.Bold),
			model.ImpactHigh:     color.New(color.FgRed),
			model.ImpactMedium:   color.New(color.FgYellow),
			model.ImpactLow:      color.New(color.FgCyan),
			model.ImpactNone:     color.New(color.FgWhite),
		},
		bold: color.New(color.Bold),
	}
	if noColor {
		for _, c := range r.colors {
			c.DisableColor()
		}
		r.bold.DisableColor()
	}
	return r
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(v any, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// RenderMarkdown writes the report as a Markdown document
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	if err := os.WriteFile(path, []byte(r.Markdown(report)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Markdown renders the report as Markdown
func (r *Renderer) Markdown(report *model.Report) string {
	var b strings.Builder

	b.WriteString("# Legal Change Report\n\n")
	if report.Meta.ID != "" {
		fmt.Fprintf(&b, "**Report ID:** `%s`  \n", report.Meta.ID)
	}
	fmt.Fprintf(&b, "**Similarity threshold:** %.2f", report.Meta.Threshold)
	if report.Meta.Sectioned {
		b.WriteString("  \n**Mode:** compared section by section")
	}
	b.WriteString("\n\n")

	s := report.Summary
	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Total changes | %d |\n", s.TotalChanges)
	fmt.Fprintf(&b, "| Material changes | %d |\n", s.MaterialChanges)
	fmt.Fprintf(&b, "| Requires human review | %d |\n", s.RequiresHumanReview)
	b.WriteString("\n")

	if s.TotalChanges > 0 {
		b.WriteString("| Impact | Count |\n|---|---|\n")
		for _, level := range impactOrder {
			if n := s.ByImpact[string(level)]; n > 0 {
				fmt.Fprintf(&b, "| %s | %d |\n", level, n)
			}
		}
		b.WriteString("\n| Change type | Count |\n|---|---|\n")
		for _, t := range model.AllChangeTypes {
			if n := s.ByType[string(t)]; n > 0 {
				fmt.Fprintf(&b, "| %s | %d |\n", t, n)
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("## Documents\n\n")
	b.WriteString("| | Candidates | Clauses | Unique | Filtered | Invalid |\n|---|---|---|---|---|---|\n")
	for i, name := range []string{"Left", "Right"} {
		d := report.Meta.Documents[i]
		fmt.Fprintf(&b, "| %s | %d | %d | %d | %d | %d |\n", name, d.Candidates, d.Clauses, d.Unique, d.Filtered, d.Invalid)
	}
	b.WriteString("\n")

	b.WriteString("## Changes\n\n")
	if len(report.Changes) == 0 {
		b.WriteString("No material changes detected.\n\n")
	}
	for i, c := range report.Changes {
		fmt.Fprintf(&b, "### %d. %s (%s)\n\n", i+1, c.Type, c.Impact)
		fmt.Fprintf(&b, "- **Path:** `%s`\n", c.Path)
		fmt.Fprintf(&b, "- **Description:** %s\n", c.Description)
		fmt.Fprintf(&b, "- **Confidence:** %.2f\n", c.Confidence)
		if c.RequiresHumanReview {
			b.WriteString("- **Requires human review:** yes\n")
		}
		if c.From != nil {
			fmt.Fprintf(&b, "- **Before:** %s\n", snapshotLine(c.From))
		}
		if c.To != nil {
			fmt.Fprintf(&b, "- **After:** %s\n", snapshotLine(c.To))
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		b.WriteString("---\n\n")
		b.WriteString("*Generated by lexdiff. Findings flag differences in legal effect for review; they are not legal advice.*\n")
	}
	return b.String()
}

func snapshotLine(s *model.CLOSnapshot) string {
	line := fmt.Sprintf("%s %s %s `%s`", s.Party, strings.ToLower(string(s.Modality)), s.Action, s.Object)
	if s.Timebound != "" {
		line += ", " + s.Timebound
	}
	if len(s.Conditions) > 0 {
		line += ", if " + strings.Join(s.Conditions, "; ")
	}
	if len(s.Exceptions) > 0 {
		line += ", except " + strings.Join(s.Exceptions, "; ")
	}
	return line
}

// RenderSummary prints a short coloured summary of the report
func (r *Renderer) RenderSummary(w io.Writer, report *model.Report) {
	s := report.Summary
	r.bold.Fprintf(w, "%d change(s)", s.TotalChanges)
	fmt.Fprintf(w, ": %d material, %d for review\n", s.MaterialChanges, s.RequiresHumanReview)

	for _, c := range report.Changes {
		review := ""
		if c.RequiresHumanReview {
			review = " [review]"
		}
		r.colorFor(c.Impact).Fprintf(w, "  %-8s", c.Impact)
		fmt.Fprintf(w, " %-19s %s  %s%s\n", c.Type, c.Path, c.Description, review)
	}
}

// RenderInspection prints the clauses found in one document
func (r *Renderer) RenderInspection(w io.Writer, in *Inspection) {
	r.bold.Fprintf(w, "%s", in.Path)
	fmt.Fprintf(w, ": %d candidate(s), %d clause(s), %d unique, %d filtered, %d invalid\n",
		in.Stats.Candidates, in.Stats.Clauses, in.Stats.Unique, in.Stats.Filtered, in.Stats.Invalid)

	for _, c := range in.Clauses {
		fmt.Fprintf(w, "  %s  %s\n", c.IntentHash, c.ClauseUID)
		fmt.Fprintf(w, "      %s %s %s %q", c.Party, c.Modality, c.Action, c.Object)
		if c.Timebound != "" {
			fmt.Fprintf(w, " [%s]", c.Timebound)
		}
		if c.Law != "" {
			fmt.Fprintf(w, " (%s)", c.Law)
		}
		fmt.Fprintln(w)
	}
}

func (r *Renderer) colorFor(level model.ImpactLevel) *color.Color {
	if c, ok := r.colors[level]; ok {
		return c
	}
	return r.colors[model.ImpactNone]
}
