package scoring

import (
	"fmt"

	"github.com/dshills/vibediag/internal/catalog"
)

// Payload pairs each question with its selected option label, together
// with the total and result band. It is the context handed to the model.
type Payload struct {
	QuestionnaireID   string           `json:"questionnaire_id"`
	QuestionnaireName string           `json:"questionnaire_name"`
	Items             []Item           `json:"items"`
	Total             int              `json:"total"`
	MaxTotal          int              `json:"max_total"`
	Label             string           `json:"label"`
	Severity          catalog.Severity `json:"severity"`
}

// Item is one answered question.
type Item struct {
	Index    int    `json:"index"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Value    int    `json:"value"`
	Reversed bool   `json:"reversed,omitempty"`
}

// Summarize shapes answers and the computed result into a Payload.
func Summarize(def *catalog.Definition, answers AnswerSet, total int, band catalog.Band) (Payload, error) {
	if err := check(def, answers); err != nil {
		return Payload{}, err
	}
	items := make([]Item, len(def.Questions))
	for i, q := range def.Questions {
		label, _ := def.OptionLabel(answers[i])
		items[i] = Item{
			Index:    i,
			Question: q,
			Answer:   label,
			Value:    answers[i],
			Reversed: def.IsReversed(i),
		}
	}
	return Payload{
		QuestionnaireID:   def.ID,
		QuestionnaireName: def.Name,
		Items:             items,
		Total:             total,
		MaxTotal:          def.MaxTotal(),
		Label:             band.Label,
		Severity:          band.Severity,
	}, nil
}

// Lines renders the payload as one line per answer followed by the score context.
func (p Payload) Lines() []string {
	lines := make([]string, 0, len(p.Items)+2)
	for _, it := range p.Items {
		lines = append(lines, fmt.Sprintf("Q: %s | A: %s (%d)", it.Question, it.Answer, it.Value))
	}
	lines = append(lines,
		fmt.Sprintf("TOTAL SCORE: %d", p.Total),
		fmt.Sprintf("RESULT CATEGORY: %s", p.Label),
	)
	return lines
}
