package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/vibediag/internal/store"
)

func saveAssessment(t *testing.T, g *globalFlags, db, id, answers string) {
	t.Helper()
	f := baseFlags()
	f.answers = answers
	f.save = true
	f.user = "sam@example.com"
	f.db = db
	var stdout, stderr bytes.Buffer
	if err := runScore(context.Background(), g, id, f, &stdout, &stderr); err != nil {
		t.Fatalf("save %s: %v", id, err)
	}
}

func historyJSON(t *testing.T, g *globalFlags, f *historyFlags) []store.Record {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := runHistory(context.Background(), g, f, &stdout, &stderr)
	assertExitCode(t, err, 0)
	var records []store.Record
	if err := json.Unmarshal(stdout.Bytes(), &records); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout.String())
	}
	return records
}

func TestRunHistoryLatest(t *testing.T) {
	g := testGlobals(t)
	db := filepath.Join(t.TempDir(), "vibediag.db")
	saveAssessment(t, g, db, "gad7", "1,1,1,1,1,1,1")
	saveAssessment(t, g, db, "gad7", "3,3,3,3,3,3,3")

	records := historyJSON(t, g, &historyFlags{user: "sam@example.com", latest: "gad7", db: db, format: "json"})
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Label != "Severe Anxiety" {
		t.Errorf("latest label = %q, want Severe Anxiety", records[0].Label)
	}

	records = historyJSON(t, g, &historyFlags{user: "sam@example.com", latest: "pss7", db: db, format: "json"})
	if len(records) != 0 {
		t.Errorf("expected no pss7 records, got %d", len(records))
	}
}

func TestRunHistoryLatestMarkdownEmpty(t *testing.T) {
	var stdout, stderr bytes.Buffer
	f := &historyFlags{user: "sam@example.com", latest: "phq9", db: filepath.Join(t.TempDir(), "h.db"), format: "md"}
	err := runHistory(context.Background(), testGlobals(t), f, &stdout, &stderr)
	assertExitCode(t, err, 0)
	if stdout.String() != "No assessments recorded.\n" {
		t.Errorf("output = %q", stdout.String())
	}
}

func TestRunHistoryLatestErrors(t *testing.T) {
	db := filepath.Join(t.TempDir(), "h.db")
	tests := []struct {
		name string
		f    *historyFlags
	}{
		{"unknown questionnaire", &historyFlags{user: "sam@example.com", latest: "nope", db: db, format: "md"}},
		{"with date", &historyFlags{user: "sam@example.com", latest: "gad7", date: "2026-03-01", db: db, format: "md"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			err := runHistory(context.Background(), testGlobals(t), tt.f, &stdout, &stderr)
			assertExitCode(t, err, exitInput)
		})
	}
}

func TestRunHistoryUserMustBeEmail(t *testing.T) {
	var stdout, stderr bytes.Buffer
	f := &historyFlags{user: "sam", db: filepath.Join(t.TempDir(), "h.db"), format: "md"}
	err := runHistory(context.Background(), testGlobals(t), f, &stdout, &stderr)
	assertExitCode(t, err, exitInput)
	if !strings.Contains(err.Error(), "must be a valid email address") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestRunHistoryVerboseLogsStorePath(t *testing.T) {
	g := testGlobals(t)
	g.verbose = true
	db := filepath.Join(t.TempDir(), "h.db")
	var stdout, stderr bytes.Buffer
	err := runHistory(context.Background(), g, &historyFlags{user: "sam@example.com", db: db, format: "md"}, &stdout, &stderr)
	assertExitCode(t, err, 0)
	if !strings.Contains(stderr.String(), "opened store") || !strings.Contains(stderr.String(), db) {
		t.Errorf("expected store path in debug log, got:\n%s", stderr.String())
	}
}
