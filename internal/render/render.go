// Package render produces Markdown output for reports, questionnaire
// definitions, and assessment history.
package render

import (
	"fmt"
	"strings"

	"github.com/dshills/vibediag/internal/analysis"
	"github.com/dshills/vibediag/internal/catalog"
	"github.com/dshills/vibediag/internal/report"
	"github.com/dshills/vibediag/internal/store"
)

// Disclaimer closes every report that carries an interpretation.
const Disclaimer = "This is not a diagnosis. If you are struggling, please reach out to a qualified professional."

// Markdown renders a report as Markdown.
func Markdown(r *report.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", r.Input.QuestionnaireName)
	fmt.Fprintf(&b, "**Score:** %d / %d\n", r.Result.Total, r.Result.MaxTotal)
	fmt.Fprintf(&b, "**Result:** %s [%s]\n", r.Result.Label, r.Result.Severity)
	if r.Meta.Date != "" {
		fmt.Fprintf(&b, "**Date:** %s\n", r.Meta.Date)
	}
	b.WriteString("\n")

	b.WriteString("## Answers\n\n")
	for _, it := range r.Items {
		marker := ""
		if it.Reversed {
			marker = " (reverse scored)"
		}
		fmt.Fprintf(&b, "%d. %s: **%s** (%d)%s\n", it.Index+1, it.Question, it.Answer, it.Value, marker)
	}
	b.WriteString("\n")

	renderAnalysis(&b, r.Analysis)

	if r.Meta.RecordID != "" {
		fmt.Fprintf(&b, "_Saved as %s_\n", r.Meta.RecordID)
	}
	return b.String()
}

func renderAnalysis(b *strings.Builder, o analysis.Outcome) {
	b.WriteString("## Analysis\n\n")
	switch o.Status {
	case analysis.StatusStructured:
		in := o.Insight
		fmt.Fprintf(b, "**Risk level:** %s\n\n", in.RiskLevel)
		fmt.Fprintf(b, "%s\n\n", in.Assessment)
		fmt.Fprintf(b, "**Recommendation:** %s\n\n", in.Recommendation)
		fmt.Fprintf(b, "_%s_\n\n", Disclaimer)
	case analysis.StatusFreeform:
		fmt.Fprintf(b, "%s\n\n", strings.TrimSpace(o.Narrative))
		fmt.Fprintf(b, "_%s_\n\n", Disclaimer)
	default:
		fmt.Fprintf(b, "Analysis unavailable: %s\n\n", o.Reason)
	}
}

// Definition renders a questionnaire with its options and result bands.
func Definition(d *catalog.Definition) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s (%s)\n\n", d.Name, d.ID)
	if d.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", d.Description)
	}

	b.WriteString("## Options\n\n")
	for _, o := range d.Options {
		fmt.Fprintf(&b, "- %d = %s\n", o.Value, o.Label)
	}
	b.WriteString("\n")

	b.WriteString("## Questions\n\n")
	for i, q := range d.Questions {
		marker := ""
		if d.IsReversed(i) {
			marker = " _(reverse scored)_"
		}
		fmt.Fprintf(&b, "%d. %s%s\n", i+1, q, marker)
	}
	b.WriteString("\n")

	b.WriteString("## Results\n\n")
	b.WriteString("| Score | Result | Severity |\n")
	b.WriteString("|-------|--------|----------|\n")
	for _, band := range d.Bands {
		fmt.Fprintf(&b, "| %d-%d | %s | %s |\n", band.Min, band.Max, band.Label, band.Severity)
	}
	return b.String()
}

// List renders a one-line summary per questionnaire.
func List(defs []*catalog.Definition) string {
	var b strings.Builder
	for _, d := range defs {
		fmt.Fprintf(&b, "%-8s %-32s %d questions, max %d\n", d.ID, d.Name, len(d.Questions), d.MaxTotal())
	}
	return b.String()
}

// History renders stored assessments grouped by day.
func History(records []store.Record) string {
	if len(records) == 0 {
		return "No assessments recorded.\n"
	}
	var b strings.Builder
	b.WriteString("# Assessment History\n\n")
	day := ""
	for _, r := range records {
		if r.Date != day {
			if day != "" {
				b.WriteString("\n")
			}
			day = r.Date
			fmt.Fprintf(&b, "## %s\n\n", day)
		}
		fmt.Fprintf(&b, "- **%s**: %d / %d, %s", r.QuestionnaireName, r.Total, r.MaxTotal, r.Label)
		if r.RiskLevel != "" {
			fmt.Fprintf(&b, " (risk %s)", r.RiskLevel)
		}
		b.WriteString("\n")
	}
	return b.String()
}
