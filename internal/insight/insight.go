// Package insight defines the structured interpretation returned by the model.
package insight

import "strings"

// RiskLevel is the model's coarse wellbeing risk estimate.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// Normalize upper-cases the value and maps the word forms the model
// tends to produce ("Low", "moderate") onto the enum.
func (r RiskLevel) Normalize() RiskLevel {
	switch strings.ToUpper(strings.TrimSpace(string(r))) {
	case "LOW":
		return RiskLow
	case "MEDIUM", "MODERATE":
		return RiskMedium
	case "HIGH", "SEVERE":
		return RiskHigh
	}
	return r
}

// Insight is the interpretation of one scored questionnaire.
type Insight struct {
	Assessment     string    `json:"assessment"`
	Recommendation string    `json:"recommendation"`
	RiskLevel      RiskLevel `json:"risk_level"`
}
