// Package prompt builds the model prompt for interpreting a scored questionnaire.
package prompt

import (
	"fmt"
	"strings"

	"github.com/dshills/vibediag/internal/catalog"
	"github.com/dshills/vibediag/internal/profile"
	"github.com/dshills/vibediag/internal/schema"
	"github.com/dshills/vibediag/internal/scoring"
)

// BuildOpts configures prompt construction.
type BuildOpts struct {
	Payload scoring.Payload
	Profile *profile.Profile
	Note    string
}

// Build assembles the full interpretation prompt.
func Build(opts BuildOpts) string {
	var b strings.Builder

	// 1. System preamble
	fmt.Fprintf(&b, `You are a supportive wellness assistant. The user completed the %s self-assessment. Interpret the result and give practical guidance.

You MUST output ONLY valid JSON matching the schema below. No markdown, no prose outside JSON.

`, opts.Payload.QuestionnaireName)

	// 2. Schema definition
	b.WriteString(schemaDefinition)
	b.WriteString("\n\n")

	// 3. Rules
	b.WriteString(`## Rules

1. The total score and result category below are computed and final. Do NOT recompute or contradict them.
2. "assessment" is at most two sentences about what the answers indicate.
3. "recommendation" is one or two concrete, actionable suggestions.
4. This is a screening aid, not a diagnosis. Never name a medical condition as a diagnosis.
5. Reference specific answers where useful.
`)
	if opts.Payload.Severity == catalog.SeveritySevere {
		b.WriteString("6. The result is in the most severe band: recommend speaking with a qualified professional and set risk_level to HIGH unless the answers clearly indicate otherwise.\n")
	}
	b.WriteString("\n")

	// 4. Answers
	b.WriteString("## Answers\n\n")
	for _, line := range opts.Payload.Lines() {
		b.WriteString(line)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "MAXIMUM SCORE: %d\n\n", opts.Payload.MaxTotal)

	// 5. Profile
	if opts.Profile != nil {
		if text := profile.FormatForPrompt(opts.Profile); text != "" {
			b.WriteString("## User Profile\n\n")
			b.WriteString(text)
			b.WriteString("\n")
		}
	}

	// 6. Note
	if note := strings.TrimSpace(opts.Note); note != "" {
		fmt.Fprintf(&b, "<note>\n%s\n</note>\n\n", note)
	}

	b.WriteString("Return the JSON object now.\n")
	return b.String()
}

// BuildRepair constructs a follow-up prompt to fix schema validation errors.
func BuildRepair(originalOutput string, errors []schema.ValidationError) string {
	var b strings.Builder
	b.WriteString("The JSON output you returned has validation errors. Fix ONLY the errors listed below and return the corrected JSON.\n\n")
	b.WriteString("## Validation Errors\n\n")
	for _, e := range errors {
		fmt.Fprintf(&b, "- %s: %s\n", e.Path, e.Message)
	}
	b.WriteString("\n## Original Output\n\n```json\n")
	b.WriteString(originalOutput)
	b.WriteString("\n```\n\n")
	b.WriteString(schemaDefinition)
	b.WriteString("\n\nReturn ONLY the corrected JSON. No prose.\n")
	return b.String()
}

const schemaDefinition = `## Output JSON Schema

{
  "assessment": string,
  "recommendation": string,
  "risk_level": "LOW" | "MEDIUM" | "HIGH"
}`
