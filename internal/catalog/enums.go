package catalog

import "strings"

// Severity classifies a scoring band for display and prompt context.
type Severity string

const (
	SeverityMinimal  Severity = "MINIMAL"
	SeverityMild     Severity = "MILD"
	SeverityModerate Severity = "MODERATE"
	SeveritySevere   Severity = "SEVERE"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityMinimal, SeverityMild, SeverityModerate, SeveritySevere:
		return true
	}
	return false
}

// Order returns a sort key (higher = more severe), -1 if invalid.
func (s Severity) Order() int {
	switch s {
	case SeverityMinimal:
		return 0
	case SeverityMild:
		return 1
	case SeverityModerate:
		return 2
	case SeveritySevere:
		return 3
	default:
		return -1
	}
}

// AtLeast reports whether s is as severe as threshold.
func (s Severity) AtLeast(threshold Severity) bool {
	return s.Valid() && threshold.Valid() && s.Order() >= threshold.Order()
}

// ParseSeverity accepts any casing of a severity name.
func ParseSeverity(s string) (Severity, bool) {
	sev := Severity(strings.ToUpper(strings.TrimSpace(s)))
	return sev, sev.Valid()
}
