package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	_ "github.com/mattn/go-sqlite3"

	"github.com/peekknuf/opendataqa/internal/quality"
)

// ErrNotFound is returned when no report has the requested id.
var ErrNotFound = errors.New("report not found")

const schema = `
CREATE TABLE IF NOT EXISTS reports (
	id TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	overall_score REAL NOT NULL,
	interpretation TEXT NOT NULL,
	total_rows INTEGER NOT NULL,
	total_columns INTEGER NOT NULL,
	report_json TEXT NOT NULL,
	created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports (created_at);
`

// Record is one stored report. Report is only populated by Get.
type Record struct {
	ID             string          `json:"id"`
	Filename       string          `json:"filename"`
	OverallScore   float64         `json:"overall_score"`
	Interpretation string          `json:"interpretation"`
	TotalRows      int             `json:"total_rows"`
	TotalColumns   int             `json:"total_columns"`
	CreatedAt      time.Time       `json:"created_at"`
	Report         json.RawMessage `json:"report,omitempty"`
}

// Store keeps the history of generated reports in SQLite.
type Store struct {
	db    *sql.DB
	clock clockwork.Clock
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for created_at timestamps.
func WithClock(clock clockwork.Clock) Option {
	return func(s *Store) {
		s.clock = clock
	}
}

// Open opens or creates the database at path and applies the schema.
func Open(path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows one writer; a single connection serializes scan workers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	s := &Store{db: db, clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores a report and returns its new id.
func (s *Store) Save(ctx context.Context, report *quality.Report) (string, error) {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx, `INSERT INTO reports
		(id, filename, overall_score, interpretation, total_rows, total_columns, report_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		report.Metadata.Filename,
		report.OverallQuality.Score,
		report.OverallQuality.Interpretation,
		report.Metadata.TotalRows,
		report.Metadata.TotalColumns,
		string(reportJSON),
		s.clock.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to save report: %w", err)
	}
	return id, nil
}

// List returns up to limit reports, newest first, without their bodies.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, filename, overall_score, interpretation, total_rows, total_columns, created_at
		FROM reports ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Filename, &r.OverallScore, &r.Interpretation, &r.TotalRows, &r.TotalColumns, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return records, nil
}

// Get returns a stored report with its full JSON body.
func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	var r Record
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT id, filename, overall_score, interpretation, total_rows, total_columns, created_at, report_json
		FROM reports WHERE id = ?`, id).
		Scan(&r.ID, &r.Filename, &r.OverallScore, &r.Interpretation, &r.TotalRows, &r.TotalColumns, &r.CreatedAt, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to get report: %w", err)
	}
	r.Report = json.RawMessage(body)
	return r, nil
}
