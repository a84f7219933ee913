package render

import (
	"strings"
	"testing"

	"github.com/dshills/vibediag/internal/analysis"
	"github.com/dshills/vibediag/internal/catalog"
	"github.com/dshills/vibediag/internal/insight"
	"github.com/dshills/vibediag/internal/report"
	"github.com/dshills/vibediag/internal/scoring"
	"github.com/dshills/vibediag/internal/store"
)

func sampleReport() *report.Report {
	return &report.Report{
		Tool:    "vibediag",
		Version: "1.0",
		Input: report.Input{
			QuestionnaireID:   "pss7",
			QuestionnaireName: "PSS-7 Stress Scale",
		},
		Result: report.Result{
			Total: 2, MaxTotal: 21, Label: "Low Stress", Severity: catalog.SeverityMinimal,
		},
		Items: []scoring.Item{
			{Index: 0, Question: "Felt upset", Answer: "Sometimes", Value: 1},
			{Index: 3, Question: "Felt confident", Answer: "Very often", Value: 3, Reversed: true},
		},
		Analysis: analysis.Outcome{
			Status: analysis.StatusStructured,
			Insight: &insight.Insight{
				Assessment:     "Stress looks well managed.",
				Recommendation: "Keep your routine.",
				RiskLevel:      insight.RiskLow,
			},
		},
		Meta: report.Meta{Date: "2026-03-01", RecordID: "abc-123"},
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleReport())

	checks := []string{
		"# PSS-7 Stress Scale",
		"**Score:** 2 / 21",
		"**Result:** Low Stress [MINIMAL]",
		"**Date:** 2026-03-01",
		"## Answers",
		"1. Felt upset: **Sometimes** (1)",
		"4. Felt confident: **Very often** (3) (reverse scored)",
		"**Risk level:** LOW",
		"Stress looks well managed.",
		"**Recommendation:** Keep your routine.",
		Disclaimer,
		"_Saved as abc-123_",
	}
	for _, c := range checks {
		if !strings.Contains(md, c) {
			t.Errorf("markdown missing %q", c)
		}
	}
}

func TestMarkdownUnavailable(t *testing.T) {
	r := sampleReport()
	r.Analysis = analysis.Unavailable("no model configured", nil)
	r.Meta = report.Meta{}

	md := Markdown(r)
	if !strings.Contains(md, "Analysis unavailable: no model configured") {
		t.Errorf("expected unavailable notice, got:\n%s", md)
	}
	if !strings.Contains(md, "**Score:** 2 / 21") {
		t.Error("score must be shown without analysis")
	}
	if strings.Contains(md, Disclaimer) {
		t.Error("disclaimer should only accompany an interpretation")
	}
	if strings.Contains(md, "Saved as") || strings.Contains(md, "**Date:**") {
		t.Error("unsaved report should not show record metadata")
	}
}

func TestMarkdownFreeform(t *testing.T) {
	r := sampleReport()
	r.Analysis = analysis.Outcome{Status: analysis.StatusFreeform, Narrative: "  You are doing fine overall.\n"}

	md := Markdown(r)
	if !strings.Contains(md, "You are doing fine overall.\n\n") {
		t.Errorf("expected narrative, got:\n%s", md)
	}
	if strings.Contains(md, "**Risk level:**") {
		t.Error("freeform analysis has no risk level")
	}
}

func builtin(t *testing.T, id string) *catalog.Definition {
	t.Helper()
	c, err := catalog.Builtin()
	if err != nil {
		t.Fatal(err)
	}
	d, err := c.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestDefinition(t *testing.T) {
	md := Definition(builtin(t, "pss7"))

	checks := []string{
		"(pss7)",
		"## Options",
		"- 0 = Never",
		"- 3 = Very often",
		"## Questions",
		"4. ",
		"_(reverse scored)_",
		"| Score | Result | Severity |",
		"Low Stress | MINIMAL |",
		"High Stress | SEVERE |",
	}
	for _, c := range checks {
		if !strings.Contains(md, c) {
			t.Errorf("definition missing %q", c)
		}
	}
	if n := strings.Count(md, "reverse scored"); n != 2 {
		t.Errorf("expected 2 reverse-scored questions, got %d", n)
	}
}

func TestList(t *testing.T) {
	out := List([]*catalog.Definition{builtin(t, "gad7"), builtin(t, "phq9")})
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "gad7") || !strings.Contains(lines[0], "7 questions, max 21") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.Contains(lines[1], "7 questions, max 21") {
		t.Errorf("line 1 = %q", lines[1])
	}
}

func TestHistory(t *testing.T) {
	records := []store.Record{
		{Date: "2026-03-01", QuestionnaireName: "GAD-7", Total: 3, MaxTotal: 21, Label: "Minimal Anxiety", RiskLevel: "LOW"},
		{Date: "2026-03-01", QuestionnaireName: "PHQ-9", Total: 12, MaxTotal: 27, Label: "Moderate Depression"},
		{Date: "2026-03-02", QuestionnaireName: "GAD-7", Total: 8, MaxTotal: 21, Label: "Mild Anxiety"},
	}
	md := History(records)

	if strings.Count(md, "## 2026-03-01") != 1 || strings.Count(md, "## 2026-03-02") != 1 {
		t.Errorf("expected one heading per day, got:\n%s", md)
	}
	if !strings.Contains(md, "- **GAD-7**: 3 / 21, Minimal Anxiety (risk LOW)") {
		t.Errorf("missing first record, got:\n%s", md)
	}
	if !strings.Contains(md, "- **PHQ-9**: 12 / 27, Moderate Depression\n") {
		t.Errorf("missing second record, got:\n%s", md)
	}
}

func TestHistoryEmpty(t *testing.T) {
	if got := History(nil); got != "No assessments recorded.\n" {
		t.Errorf("History(nil) = %q", got)
	}
}

func TestTerminal(t *testing.T) {
	out, err := Terminal(Markdown(sampleReport()), "notty", 60)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"PSS-7 Stress Scale", "Low Stress", "Keep your routine."} {
		if !strings.Contains(out, want) {
			t.Errorf("terminal output missing %q", want)
		}
	}
}

func TestTerminalUnknownStyle(t *testing.T) {
	if _, err := Terminal("# x", "no-such-style.json", 0); err == nil {
		t.Error("expected error for unknown style")
	}
}
