package answers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/vibediag/internal/catalog"
	"github.com/dshills/vibediag/internal/scoring"
)

func gad7(t *testing.T) *catalog.Definition {
	t.Helper()
	c, err := catalog.Builtin()
	if err != nil {
		t.Fatal(err)
	}
	d, err := c.Get("gad7")
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParse(t *testing.T) {
	d := gad7(t)
	u := scoring.Unanswered
	tests := []struct {
		name  string
		input string
		want  scoring.AnswerSet
	}{
		{"numbers", "0,1,2,3,0,1,2", scoring.AnswerSet{0, 1, 2, 3, 0, 1, 2}},
		{"spaces", " 1, 1 ,1,1,1,1,1 ", scoring.AnswerSet{1, 1, 1, 1, 1, 1, 1}},
		{"labels", "not at all,Several days,NEARLY EVERY DAY,0,0,0,0", scoring.AnswerSet{0, 1, 3, 0, 0, 0, 0}},
		{"unanswered markers", "1,-,?,,1,1,1", scoring.AnswerSet{1, u, u, u, 1, 1, 1}},
		{"short list", "2,2", scoring.AnswerSet{2, 2, u, u, u, u, u}},
		{"empty", "", scoring.AnswerSet{u, u, u, u, u, u, u}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(d, tt.input)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("answer %d = %d, want %d", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	d := gad7(t)
	tests := []struct {
		name   string
		input  string
		substr string
	}{
		{"out of domain", "0,0,4,0,0,0,0", "answer 3"},
		{"negative", "0,-2,0,0,0,0,0", "not an option"},
		{"unknown label", "sometimes,0,0,0,0,0,0", "unknown option"},
		{"too many", "0,0,0,0,0,0,0,0", "got 8 answers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(d, tt.input)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.substr) {
				t.Errorf("error %q should contain %q", err, tt.substr)
			}
		})
	}
}

func TestLoadFileYAML(t *testing.T) {
	path := writeTempFile(t, "answers.yaml", `questionnaire: gad7
note: rough week at work
answers: [1, Several days, null, 1, 1, 1, 1]
`)
	f, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if f.QuestionnaireID != "gad7" {
		t.Errorf("QuestionnaireID = %q", f.QuestionnaireID)
	}
	if f.Note != "rough week at work" {
		t.Errorf("Note = %q", f.Note)
	}
	if !strings.HasPrefix(f.Hash, "sha256:") {
		t.Errorf("expected sha256 prefix, got %s", f.Hash)
	}

	set, err := Resolve(gad7(t), f.Tokens)
	if err != nil {
		t.Fatal(err)
	}
	if set[1] != 1 || set[2] != scoring.Unanswered {
		t.Errorf("resolved = %v", set)
	}
}

func TestLoadFileJSON(t *testing.T) {
	path := writeTempFile(t, "answers.json", `{"questionnaire": "pss7", "answers": [0, 0, 0, 3, 3, 0, 0]}`)
	f, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if f.QuestionnaireID != "pss7" || len(f.Tokens) != 7 {
		t.Errorf("got %+v", f)
	}
}

func TestLoadFileNested(t *testing.T) {
	path := writeTempFile(t, "bad.yaml", "answers: [[1, 2]]\n")
	if _, err := LoadFile(path); err == nil {
		t.Error("expected error for nested answer")
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile("/nonexistent/answers.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}
