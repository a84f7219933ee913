// Package store persists completed assessments in a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// DateLayout is the day key format. Days are computed in UTC.
const DateLayout = "2006-01-02"

// ErrNotFound is returned when no record matches.
var ErrNotFound = errors.New("store: record not found")

// Record is one completed assessment.
type Record struct {
	ID                string    `json:"id"`
	User              string    `json:"user"`
	Date              string    `json:"date"`
	QuestionnaireID   string    `json:"questionnaire_id"`
	QuestionnaireName string    `json:"questionnaire_name"`
	Total             int       `json:"total"`
	MaxTotal          int       `json:"max_total"`
	Label             string    `json:"label"`
	Severity          string    `json:"severity"`
	AnalysisStatus    string    `json:"analysis_status"`
	Assessment        string    `json:"assessment,omitempty"`
	Recommendation    string    `json:"recommendation,omitempty"`
	RiskLevel         string    `json:"risk_level,omitempty"`
	Narrative         string    `json:"narrative,omitempty"`
	CatalogVersion    string    `json:"catalog_version"`
	CreatedAt         time.Time `json:"created_at"`
}

// DateOf returns the UTC day key for t.
func DateOf(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// Store is the assessment log.
type Store struct {
	db     *sql.DB
	dbPath string
	now    func() time.Time
}

// Open creates or opens the database at path.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("store.Open: create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("store.Open: %w", err)
	}
	// A single connection keeps :memory: databases shared and writes serialized.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, dbPath: path, now: time.Now}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store.Open: initialize schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) initSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS assessments (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		user TEXT NOT NULL,
		day TEXT NOT NULL,
		questionnaire_id TEXT NOT NULL,
		questionnaire_name TEXT NOT NULL,
		total INTEGER NOT NULL,
		max_total INTEGER NOT NULL,
		label TEXT NOT NULL,
		severity TEXT NOT NULL,
		analysis_status TEXT NOT NULL,
		assessment TEXT,
		recommendation TEXT,
		risk_level TEXT,
		narrative TEXT,
		catalog_version TEXT,
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_assessments_user_day ON assessments(user, day);
	CREATE INDEX IF NOT EXISTS idx_assessments_user_questionnaire ON assessments(user, questionnaire_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save appends r to the log, assigning ID, CreatedAt and Date when unset.
// Several records may share a user and date; they are kept in creation order.
func (s *Store) Save(ctx context.Context, r *Record) error {
	r.User = strings.TrimSpace(r.User)
	if r.User == "" {
		return fmt.Errorf("store.Save: user is required")
	}
	if r.QuestionnaireID == "" {
		return fmt.Errorf("store.Save: questionnaire id is required")
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}
	r.CreatedAt = r.CreatedAt.UTC()
	if r.Date == "" {
		r.Date = DateOf(r.CreatedAt)
	}
	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		return fmt.Errorf("store.Save: date %q is not YYYY-MM-DD", r.Date)
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO assessments (id, user, day, questionnaire_id, questionnaire_name,
			total, max_total, label, severity, analysis_status, assessment,
			recommendation, risk_level, narrative, catalog_version, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.User, r.Date, r.QuestionnaireID, r.QuestionnaireName,
		r.Total, r.MaxTotal, r.Label, r.Severity, r.AnalysisStatus, r.Assessment,
		r.Recommendation, r.RiskLevel, r.Narrative, r.CatalogVersion, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("store.Save: %w", err)
	}
	return nil
}

const selectColumns = `
	SELECT id, user, day, questionnaire_id, questionnaire_name, total, max_total,
		label, severity, analysis_status, assessment, recommendation, risk_level,
		narrative, catalog_version, created_at
	FROM assessments`

// ListByDate returns the user's records for one day in creation order.
func (s *Store) ListByDate(ctx context.Context, user, date string) ([]Record, error) {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, fmt.Errorf("store.ListByDate: date %q is not YYYY-MM-DD", date)
	}
	rows, err := s.db.QueryContext(ctx, selectColumns+` WHERE user = ? AND day = ? ORDER BY seq`, user, date)
	if err != nil {
		return nil, fmt.Errorf("store.ListByDate: %w", err)
	}
	return scanRecords(rows)
}

// ListByUser returns the user's most recent records, newest first.
// limit <= 0 returns all records.
func (s *Store) ListByUser(ctx context.Context, user string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, selectColumns+` WHERE user = ? ORDER BY seq DESC LIMIT ?`, user, limit)
	if err != nil {
		return nil, fmt.Errorf("store.ListByUser: %w", err)
	}
	return scanRecords(rows)
}

// Latest returns the user's most recent record for a questionnaire.
func (s *Store) Latest(ctx context.Context, user, questionnaireID string) (*Record, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` WHERE user = ? AND questionnaire_id = ? ORDER BY seq DESC LIMIT 1`, user, questionnaireID)
	if err != nil {
		return nil, fmt.Errorf("store.Latest: %w", err)
	}
	recs, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, ErrNotFound
	}
	return &recs[0], nil
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var assessment, recommendation, risk, narrative, catalogVersion sql.NullString
		if err := rows.Scan(&r.ID, &r.User, &r.Date, &r.QuestionnaireID, &r.QuestionnaireName,
			&r.Total, &r.MaxTotal, &r.Label, &r.Severity, &r.AnalysisStatus, &assessment,
			&recommendation, &risk, &narrative, &catalogVersion, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scan record: %w", err)
		}
		r.Assessment = assessment.String
		r.Recommendation = recommendation.String
		r.RiskLevel = risk.String
		r.Narrative = narrative.String
		r.CatalogVersion = catalogVersion.String
		r.CreatedAt = r.CreatedAt.UTC()
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: read records: %w", err)
	}
	return out, nil
}
