package scoring

import (
	"fmt"
	"strings"
)

// IncompleteAnswersError means scoring was attempted before every question
// was answered. The user can recover by answering the remaining questions.
type IncompleteAnswersError struct {
	QuestionnaireID string
	Expected        int
	Got             int
	Missing         []int
}

func (e *IncompleteAnswersError) Error() string {
	if e.Got != e.Expected {
		return fmt.Sprintf("%s: expected %d answers, got %d", e.QuestionnaireID, e.Expected, e.Got)
	}
	nums := make([]string, len(e.Missing))
	for i, m := range e.Missing {
		nums[i] = fmt.Sprintf("%d", m+1)
	}
	return fmt.Sprintf("%s: please answer all questions (unanswered: %s)", e.QuestionnaireID, strings.Join(nums, ", "))
}

// InvalidAnswerError means an answer value is not one of the definition's
// option values. It indicates an integration defect, not a user mistake.
type InvalidAnswerError struct {
	QuestionnaireID string
	Index           int
	Value           int
}

func (e *InvalidAnswerError) Error() string {
	return fmt.Sprintf("%s: question %d has value %d which is not a valid option", e.QuestionnaireID, e.Index+1, e.Value)
}

// ScoringBandGapError means a computed total matched no band, which is a
// catalog authoring defect.
type ScoringBandGapError struct {
	QuestionnaireID string
	Total           int
}

func (e *ScoringBandGapError) Error() string {
	return fmt.Sprintf("%s: total %d matches no scoring band", e.QuestionnaireID, e.Total)
}
