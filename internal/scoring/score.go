// Package scoring computes deterministic totals and result bands for
// questionnaire answers.
package scoring

import (
	"fmt"

	"github.com/dshills/vibediag/internal/catalog"
)

// Unanswered marks a question that has no selected option yet.
const Unanswered = -1

// AnswerSet holds the selected option value per question index.
type AnswerSet []int

// NewAnswerSet returns a fresh, fully unanswered set for def.
func NewAnswerSet(def *catalog.Definition) AnswerSet {
	a := make(AnswerSet, len(def.Questions))
	for i := range a {
		a[i] = Unanswered
	}
	return a
}

// Set records the answer for question i.
func (a AnswerSet) Set(i, value int) error {
	if i < 0 || i >= len(a) {
		return fmt.Errorf("scoring.Set: question index %d out of range [0, %d)", i, len(a))
	}
	a[i] = value
	return nil
}

// Missing returns the indices that are still unanswered.
func (a AnswerSet) Missing() []int {
	var missing []int
	for i, v := range a {
		if v == Unanswered {
			missing = append(missing, i)
		}
	}
	return missing
}

// Result is a computed score. It is never mutated after computation.
type Result struct {
	QuestionnaireID string       `json:"questionnaire_id"`
	Total           int          `json:"total"`
	MaxTotal        int          `json:"max_total"`
	Band            catalog.Band `json:"band"`
}

// ValidateComplete reports whether every question has a valid option value.
func ValidateComplete(def *catalog.Definition, answers AnswerSet) bool {
	return check(def, answers) == nil
}

func check(def *catalog.Definition, answers AnswerSet) error {
	if len(answers) != len(def.Questions) {
		return &IncompleteAnswersError{
			QuestionnaireID: def.ID,
			Expected:        len(def.Questions),
			Got:             len(answers),
		}
	}
	if missing := answers.Missing(); len(missing) > 0 {
		return &IncompleteAnswersError{
			QuestionnaireID: def.ID,
			Expected:        len(def.Questions),
			Got:             len(answers),
			Missing:         missing,
		}
	}
	for i, v := range answers {
		if !def.HasOption(v) {
			return &InvalidAnswerError{QuestionnaireID: def.ID, Index: i, Value: v}
		}
	}
	return nil
}

// ComputeTotal sums the answer contributions. Reverse-scored questions
// contribute MaxOptionValue - v.
func ComputeTotal(def *catalog.Definition, answers AnswerSet) (int, error) {
	if err := check(def, answers); err != nil {
		return 0, err
	}
	maxValue := def.MaxOptionValue()
	total := 0
	for i, v := range answers {
		if def.IsReversed(i) {
			total += maxValue - v
		} else {
			total += v
		}
	}
	return total, nil
}

// Classify returns the first band containing total.
func Classify(def *catalog.Definition, total int) (catalog.Band, error) {
	for _, b := range def.Bands {
		if b.Contains(total) {
			return b, nil
		}
	}
	return catalog.Band{}, &ScoringBandGapError{QuestionnaireID: def.ID, Total: total}
}

// Score computes the total and classifies it.
func Score(def *catalog.Definition, answers AnswerSet) (Result, error) {
	total, err := ComputeTotal(def, answers)
	if err != nil {
		return Result{}, err
	}
	band, err := Classify(def, total)
	if err != nil {
		return Result{}, err
	}
	return Result{
		QuestionnaireID: def.ID,
		Total:           total,
		MaxTotal:        def.MaxTotal(),
		Band:            band,
	}, nil
}
