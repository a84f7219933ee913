// Package schema validates model output against the insight schema.
package schema

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dshills/vibediag/internal/catalog"
	"github.com/dshills/vibediag/internal/insight"
)

// MaxFieldLength bounds the free-text fields of an insight.
const MaxFieldLength = 1200

// ValidationError describes a single schema violation.
type ValidationError struct {
	Path    string
	Message string
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks an Insight for structural validity.
// severity is the deterministic result severity (empty to skip the consistency check).
func Validate(in *insight.Insight, severity catalog.Severity) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(in.Assessment) == "" {
		errs = append(errs, ValidationError{"assessment", "required"})
	} else if n := utf8.RuneCountInString(in.Assessment); n > MaxFieldLength {
		errs = append(errs, ValidationError{"assessment", fmt.Sprintf("too long: %d characters (max %d)", n, MaxFieldLength)})
	}
	if strings.TrimSpace(in.Recommendation) == "" {
		errs = append(errs, ValidationError{"recommendation", "required"})
	} else if n := utf8.RuneCountInString(in.Recommendation); n > MaxFieldLength {
		errs = append(errs, ValidationError{"recommendation", fmt.Sprintf("too long: %d characters (max %d)", n, MaxFieldLength)})
	}
	if !in.RiskLevel.Valid() {
		errs = append(errs, ValidationError{"risk_level", fmt.Sprintf("invalid: %q", in.RiskLevel)})
		return errs
	}

	// The model must not contradict the computed band.
	switch {
	case severity == catalog.SeveritySevere && in.RiskLevel == insight.RiskLow:
		errs = append(errs, ValidationError{"risk_level", "LOW contradicts a SEVERE result"})
	case severity == catalog.SeverityMinimal && in.RiskLevel == insight.RiskHigh:
		errs = append(errs, ValidationError{"risk_level", "HIGH contradicts a MINIMAL result"})
	}
	return errs
}
