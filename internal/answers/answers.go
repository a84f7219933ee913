// Package answers reads questionnaire answers from the command line or a file.
package answers

import (
	"crypto/sha256"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dshills/vibediag/internal/catalog"
	"github.com/dshills/vibediag/internal/scoring"
)

// File holds a loaded answers file with its content and metadata.
type File struct {
	FilePath        string
	QuestionnaireID string
	Tokens          []string
	Note            string
	Hash            string
}

type fileDoc struct {
	Questionnaire string      `yaml:"questionnaire"`
	Answers       []yaml.Node `yaml:"answers"`
	Note          string      `yaml:"note"`
}

// LoadFile reads a YAML or JSON answers file and computes its SHA-256 hash.
// Answers stay as raw tokens until resolved against a definition with Resolve.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("answers.LoadFile: %w", err)
	}
	var doc fileDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("answers.LoadFile %s: %w", path, err)
	}
	tokens := make([]string, len(doc.Answers))
	for i, n := range doc.Answers {
		if n.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("answers.LoadFile %s: answer %d is not a scalar", path, i+1)
		}
		if n.Tag == "!!null" {
			continue
		}
		tokens[i] = n.Value
	}
	h := sha256.Sum256(data)
	return &File{
		FilePath:        path,
		QuestionnaireID: strings.TrimSpace(doc.Questionnaire),
		Tokens:          tokens,
		Note:            doc.Note,
		Hash:            fmt.Sprintf("sha256:%x", h),
	}, nil
}

// Parse splits a comma-separated answer list and resolves it against def.
func Parse(def *catalog.Definition, s string) (scoring.AnswerSet, error) {
	if strings.TrimSpace(s) == "" {
		return scoring.NewAnswerSet(def), nil
	}
	return Resolve(def, strings.Split(s, ","))
}

// Resolve maps tokens to option values. A token may be an option value,
// an option label (case-insensitive), or "-", "?" or empty for unanswered.
// Missing trailing tokens are left unanswered.
func Resolve(def *catalog.Definition, tokens []string) (scoring.AnswerSet, error) {
	if len(tokens) > len(def.Questions) {
		return nil, fmt.Errorf("%s has %d questions, got %d answers", def.ID, len(def.Questions), len(tokens))
	}
	set := scoring.NewAnswerSet(def)
	for i, tok := range tokens {
		v, err := resolveToken(def, strings.TrimSpace(tok))
		if err != nil {
			return nil, fmt.Errorf("answer %d: %w", i+1, err)
		}
		set[i] = v
	}
	return set, nil
}

func resolveToken(def *catalog.Definition, tok string) (int, error) {
	switch tok {
	case "", "-", "?":
		return scoring.Unanswered, nil
	}
	if n, err := strconv.Atoi(tok); err == nil {
		if !def.HasOption(n) {
			return 0, fmt.Errorf("value %d is not an option (%s)", n, optionList(def))
		}
		return n, nil
	}
	for _, o := range def.Options {
		if strings.EqualFold(o.Label, tok) {
			return o.Value, nil
		}
	}
	return 0, fmt.Errorf("unknown option %q (%s)", tok, optionList(def))
}

func optionList(def *catalog.Definition) string {
	parts := make([]string, len(def.Options))
	for i, o := range def.Options {
		parts[i] = fmt.Sprintf("%d=%s", o.Value, o.Label)
	}
	return strings.Join(parts, ", ")
}
