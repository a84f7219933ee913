// Package report defines the output object for a scored questionnaire.
package report

import (
	"github.com/dshills/vibediag/internal/analysis"
	"github.com/dshills/vibediag/internal/catalog"
	"github.com/dshills/vibediag/internal/scoring"
	"github.com/dshills/vibediag/internal/store"
)

// Tool is the name written to every report.
const Tool = "vibediag"

// Report is the top-level output object.
type Report struct {
	Tool     string           `json:"tool"`
	Version  string           `json:"version"`
	Input    Input            `json:"input"`
	Result   Result           `json:"result"`
	Items    []scoring.Item   `json:"items"`
	Analysis analysis.Outcome `json:"analysis"`
	Meta     Meta             `json:"meta"`
}

// Input describes what was scored.
type Input struct {
	QuestionnaireID   string `json:"questionnaire_id"`
	QuestionnaireName string `json:"questionnaire_name"`
	AnswersFile       string `json:"answers_file,omitempty"`
	AnswersHash       string `json:"answers_hash,omitempty"`
	ProfileFile       string `json:"profile_file,omitempty"`
	ProfileHash       string `json:"profile_hash,omitempty"`
	CatalogVersion    string `json:"catalog_version"`
}

// Result is the deterministic score.
type Result struct {
	Total    int              `json:"total"`
	MaxTotal int              `json:"max_total"`
	Label    string           `json:"label"`
	Severity catalog.Severity `json:"severity"`
	Color    string           `json:"color,omitempty"`
}

// Meta records how the report was produced.
type Meta struct {
	Model       string  `json:"model,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
	User        string  `json:"user,omitempty"`
	Date        string  `json:"date,omitempty"`
	RecordID    string  `json:"record_id,omitempty"`
}

// New builds a report from a computed score and its payload.
func New(version string, def *catalog.Definition, res scoring.Result, payload scoring.Payload, catalogVersion string) *Report {
	return &Report{
		Tool:    Tool,
		Version: version,
		Input: Input{
			QuestionnaireID:   def.ID,
			QuestionnaireName: def.Name,
			CatalogVersion:    catalogVersion,
		},
		Result: Result{
			Total:    res.Total,
			MaxTotal: res.MaxTotal,
			Label:    res.Band.Label,
			Severity: res.Band.Severity,
			Color:    res.Band.Color,
		},
		Items:    payload.Items,
		Analysis: analysis.Unavailable("analysis not requested", nil),
	}
}

// Record converts the report into a store record for user.
func (r *Report) Record(user string) *store.Record {
	rec := &store.Record{
		User:              user,
		QuestionnaireID:   r.Input.QuestionnaireID,
		QuestionnaireName: r.Input.QuestionnaireName,
		Total:             r.Result.Total,
		MaxTotal:          r.Result.MaxTotal,
		Label:             r.Result.Label,
		Severity:          string(r.Result.Severity),
		AnalysisStatus:    string(r.Analysis.Status),
		Narrative:         r.Analysis.Narrative,
		CatalogVersion:    r.Input.CatalogVersion,
	}
	if in := r.Analysis.Insight; in != nil {
		rec.Assessment = in.Assessment
		rec.Recommendation = in.Recommendation
		rec.RiskLevel = string(in.RiskLevel)
	}
	return rec
}
