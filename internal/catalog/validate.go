package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError describes a single authoring defect in a definition.
type ValidationError struct {
	Path    string
	Message string
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// InvalidDefinitionError is returned when a catalog file fails validation.
type InvalidDefinitionError struct {
	File       string
	ID         string
	Violations []ValidationError
}

func (e *InvalidDefinitionError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Error()
	}
	return fmt.Sprintf("%s: invalid questionnaire %q: %s", e.File, e.ID, strings.Join(msgs, "; "))
}

// Validate checks a definition for structural validity. The scoring bands
// must partition [0, MaxTotal] exactly.
func Validate(d *Definition) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(d.ID) == "" {
		errs = append(errs, ValidationError{"id", "required"})
	} else if d.ID != strings.ToLower(d.ID) {
		errs = append(errs, ValidationError{"id", fmt.Sprintf("must be lowercase: %q", d.ID)})
	}
	if strings.TrimSpace(d.Name) == "" {
		errs = append(errs, ValidationError{"name", "required"})
	}
	if len(d.Questions) == 0 {
		errs = append(errs, ValidationError{"questions", "at least one question required"})
	}
	for i, q := range d.Questions {
		if strings.TrimSpace(q) == "" {
			errs = append(errs, ValidationError{fmt.Sprintf("questions[%d]", i), "required"})
		}
	}

	errs = append(errs, validateOptions(d.Options)...)

	seenRev := make(map[int]bool)
	for i, r := range d.ReverseIndices {
		prefix := fmt.Sprintf("reverse_indices[%d]", i)
		switch {
		case r < 0 || r >= len(d.Questions):
			errs = append(errs, ValidationError{prefix, fmt.Sprintf("index %d out of range [0, %d)", r, len(d.Questions))})
		case seenRev[r]:
			errs = append(errs, ValidationError{prefix, fmt.Sprintf("duplicate index %d", r)})
		}
		seenRev[r] = true
	}

	errs = append(errs, validateBands(d)...)
	return errs
}

func validateOptions(opts []Option) []ValidationError {
	var errs []ValidationError
	if len(opts) < 2 {
		return append(errs, ValidationError{"options", "at least two options required"})
	}
	seen := make(map[int]bool)
	hasZero := false
	for i, o := range opts {
		prefix := fmt.Sprintf("options[%d]", i)
		if strings.TrimSpace(o.Label) == "" {
			errs = append(errs, ValidationError{prefix + ".label", "required"})
		}
		if o.Value < 0 {
			errs = append(errs, ValidationError{prefix + ".value", fmt.Sprintf("must be >= 0, got %d", o.Value)})
		}
		if seen[o.Value] {
			errs = append(errs, ValidationError{prefix + ".value", fmt.Sprintf("duplicate value %d", o.Value)})
		}
		seen[o.Value] = true
		if o.Value == 0 {
			hasZero = true
		}
	}
	if !hasZero {
		errs = append(errs, ValidationError{"options", "lowest option value must be 0"})
	}
	return errs
}

func validateBands(d *Definition) []ValidationError {
	var errs []ValidationError
	if len(d.Bands) == 0 {
		return append(errs, ValidationError{"bands", "at least one band required"})
	}

	for i, b := range d.Bands {
		prefix := fmt.Sprintf("bands[%d]", i)
		if strings.TrimSpace(b.Label) == "" {
			errs = append(errs, ValidationError{prefix + ".label", "required"})
		}
		if !b.Severity.Valid() {
			errs = append(errs, ValidationError{prefix + ".severity", fmt.Sprintf("invalid: %q", b.Severity)})
		}
		if b.Min < 0 {
			errs = append(errs, ValidationError{prefix + ".min", fmt.Sprintf("must be >= 0, got %d", b.Min)})
		}
		if b.Min > b.Max {
			errs = append(errs, ValidationError{prefix, fmt.Sprintf("min %d > max %d", b.Min, b.Max)})
		}
	}
	if len(errs) > 0 || len(d.Questions) == 0 {
		return errs
	}

	bands := make([]Band, len(d.Bands))
	copy(bands, d.Bands)
	sort.SliceStable(bands, func(i, j int) bool { return bands[i].Min < bands[j].Min })

	maxTotal := d.MaxTotal()
	next := 0
	for _, b := range bands {
		switch {
		case b.Min > next:
			errs = append(errs, ValidationError{"bands", fmt.Sprintf("gap: totals %d-%d match no band", next, b.Min-1)})
		case b.Min < next:
			errs = append(errs, ValidationError{"bands", fmt.Sprintf("overlap: %q starts at %d, already covered up to %d", b.Label, b.Min, next-1)})
		}
		if b.Max+1 > next {
			next = b.Max + 1
		}
	}
	if next <= maxTotal {
		errs = append(errs, ValidationError{"bands", fmt.Sprintf("gap: totals %d-%d match no band", next, maxTotal)})
	}
	if next > maxTotal+1 {
		errs = append(errs, ValidationError{"bands", fmt.Sprintf("bands extend to %d beyond max total %d", next-1, maxTotal)})
	}
	return errs
}
