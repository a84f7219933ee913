// Package analysis asks a model to interpret a scored questionnaire.
// Failures degrade the outcome and never affect the computed score.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/vibediag/internal/catalog"
	"github.com/dshills/vibediag/internal/insight"
	"github.com/dshills/vibediag/internal/llm"
	"github.com/dshills/vibediag/internal/logging"
	"github.com/dshills/vibediag/internal/profile"
	"github.com/dshills/vibediag/internal/prompt"
	"github.com/dshills/vibediag/internal/schema"
	"github.com/dshills/vibediag/internal/scoring"
)

// Status reports how far analysis got.
type Status string

const (
	// StatusUnavailable means no interpretation was obtained.
	StatusUnavailable Status = "unavailable"
	// StatusStructured means the model returned a valid insight.
	StatusStructured Status = "structured"
	// StatusFreeform means the model answered but the answer could not be
	// parsed, so the raw text is kept as a narrative.
	StatusFreeform Status = "freeform"
)

// DefaultTimeout bounds a single analysis including the repair round-trip.
const DefaultTimeout = 60 * time.Second

// Request is the input to Analyze.
type Request struct {
	Payload scoring.Payload
	Profile *profile.Profile
	Note    string
}

// Outcome is the result of Analyze. It is always usable.
type Outcome struct {
	Status    Status           `json:"status"`
	Insight   *insight.Insight `json:"insight,omitempty"`
	Narrative string           `json:"narrative,omitempty"`
	Reason    string           `json:"reason,omitempty"`
	Provider  string           `json:"provider,omitempty"`
	Repaired  bool             `json:"repaired,omitempty"`

	// Err holds the underlying failure for unavailable and freeform outcomes.
	Err error `json:"-"`
	// Prompt is the prompt that was sent, for debugging.
	Prompt string `json:"-"`
}

// Unavailable builds an outcome for analysis that was not attempted or failed.
func Unavailable(reason string, err error) Outcome {
	return Outcome{Status: StatusUnavailable, Reason: reason, Err: err}
}

// Analyzer calls a provider and validates its response.
type Analyzer struct {
	Provider llm.Provider
	Settings llm.Settings
	Timeout  time.Duration
	Logger   *zap.Logger
}

// Analyze interprets req. It never returns an error: provider failures
// yield StatusUnavailable and unparseable output yields StatusFreeform.
func (a *Analyzer) Analyze(ctx context.Context, req Request) Outcome {
	log := logging.OrNop(a.Logger).With(zap.String("questionnaire", req.Payload.QuestionnaireID))

	if a.Provider == nil {
		log.Debug("analysis skipped: no provider")
		return Unavailable("no model provider configured", llm.ErrNoProvider)
	}

	timeout := a.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	settings := a.Settings
	settings.JSON = true

	text := prompt.Build(prompt.BuildOpts{
		Payload: req.Payload,
		Profile: req.Profile,
		Note:    req.Note,
	})

	log.Debug("calling model", zap.String("provider", a.Provider.Name()), zap.Int("prompt_bytes", len(text)))
	start := time.Now()
	raw, err := a.Provider.Generate(ctx, text, settings)
	if err != nil {
		out := a.failed(ctx, err, timeout)
		out.Prompt = text
		log.Warn("analysis unavailable", zap.String("provider", a.Provider.Name()), zap.Error(err))
		return out
	}
	log.Debug("received model response", zap.Int("bytes", len(raw)), zap.Duration("elapsed", time.Since(start)))

	in, perr := Parse(raw, req.Payload.Severity)
	if perr == nil {
		return Outcome{Status: StatusStructured, Insight: in, Provider: a.Provider.Name(), Prompt: text}
	}

	var pe *ParseError
	if !errors.As(perr, &pe) {
		pe = &ParseError{Raw: raw, Cause: perr}
	}
	log.Debug("response failed validation, attempting repair", zap.Error(perr))

	repairText := prompt.BuildRepair(raw, pe.repairErrors())
	repaired, err := a.Provider.Generate(ctx, repairText, settings)
	if err != nil {
		log.Warn("repair call failed", zap.Error(err))
		return freeform(raw, perr, a.Provider.Name(), text)
	}
	in, rerr := Parse(repaired, req.Payload.Severity)
	if rerr != nil {
		log.Warn("response still invalid after repair, keeping narrative", zap.Error(rerr))
		return freeform(raw, rerr, a.Provider.Name(), text)
	}
	return Outcome{Status: StatusStructured, Insight: in, Provider: a.Provider.Name(), Repaired: true, Prompt: text}
}

func (a *Analyzer) failed(ctx context.Context, err error, timeout time.Duration) Outcome {
	reason := err.Error()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		reason = fmt.Sprintf("model did not respond within %s", timeout)
	}
	out := Unavailable(reason, err)
	out.Provider = a.Provider.Name()
	return out
}

func freeform(raw string, err error, provider, text string) Outcome {
	return Outcome{
		Status:    StatusFreeform,
		Narrative: strings.TrimSpace(raw),
		Reason:    "response could not be parsed",
		Provider:  provider,
		Err:       err,
		Prompt:    text,
	}
}

// ParseError describes a model response that is not a valid insight.
type ParseError struct {
	Raw        string
	Cause      error
	Violations []schema.ValidationError
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("analysis: response is not valid JSON: %v", e.Cause)
	}
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Error()
	}
	return "analysis: response failed validation: " + strings.Join(msgs, "; ")
}

func (e *ParseError) Unwrap() error { return e.Cause }

func (e *ParseError) repairErrors() []schema.ValidationError {
	if len(e.Violations) > 0 {
		return e.Violations
	}
	return []schema.ValidationError{{Path: "$", Message: fmt.Sprintf("not a valid JSON object: %v", e.Cause)}}
}

// Parse decodes and validates a model response. severity is the computed
// result severity used for the consistency check; empty skips it.
func Parse(raw string, severity catalog.Severity) (*insight.Insight, error) {
	text := llm.ExtractJSON(raw)
	if text == "" {
		return nil, &ParseError{Raw: raw, Cause: errors.New("empty response")}
	}
	var in insight.Insight
	if err := json.Unmarshal([]byte(text), &in); err != nil {
		return nil, &ParseError{Raw: raw, Cause: err}
	}
	in.Assessment = strings.TrimSpace(in.Assessment)
	in.Recommendation = strings.TrimSpace(in.Recommendation)
	in.RiskLevel = in.RiskLevel.Normalize()
	if errs := schema.Validate(&in, severity); len(errs) > 0 {
		return nil, &ParseError{Raw: raw, Violations: errs}
	}
	return &in, nil
}
