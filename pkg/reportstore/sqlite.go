package reportstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/stateline-hq/stateline/pkg/engine"
)

// SQLite stores reports in a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite creates the store and its schema.
func NewSQLite(db *sql.DB) (*SQLite, error) {
	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLite) migrate() error {
	query := `
    CREATE TABLE IF NOT EXISTS reports (
        run_id TEXT PRIMARY KEY,
        created_at DATETIME,
        dataset_fingerprint TEXT,
        overall_risk TEXT,
        total_states INTEGER NOT NULL DEFAULT 0,
        total_features INTEGER NOT NULL DEFAULT 0,
        partial INTEGER NOT NULL DEFAULT 0,
        payload JSON
    );`
	_, err := s.db.ExecContext(context.Background(), query)
	return err
}

// Save upserts a report keyed by its run ID.
func (s *SQLite) Save(ctx context.Context, report *engine.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("reportstore: failed to marshal report: %w", err)
	}
	meta := entryFromReport(report)

	query := `INSERT INTO reports (
        run_id, created_at, dataset_fingerprint, overall_risk, total_states, total_features, partial, payload
    ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    ON CONFLICT(run_id) DO UPDATE SET
        created_at = excluded.created_at,
        dataset_fingerprint = excluded.dataset_fingerprint,
        overall_risk = excluded.overall_risk,
        total_states = excluded.total_states,
        total_features = excluded.total_features,
        partial = excluded.partial,
        payload = excluded.payload`

	partial := 0
	if meta.Partial {
		partial = 1
	}
	createdAt := meta.CreatedAt.UTC().Format(time.RFC3339Nano)

	_, err = s.db.ExecContext(ctx, query,
		meta.RunID, createdAt, meta.DatasetFingerprint, meta.OverallRisk,
		meta.TotalStates, meta.TotalFeatures, partial, string(payload),
	)
	if err != nil {
		return fmt.Errorf("reportstore: failed to insert report: %w", err)
	}
	return nil
}

// Get loads the full report for one run.
func (s *SQLite) Get(ctx context.Context, runID string) (*engine.Report, error) {
	row := s.db.QueryRowContext(ctx, `SELECT payload FROM reports WHERE run_id = ?`, runID)

	var payload string
	if err := row.Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reportstore: failed to load report: %w", err)
	}

	var report engine.Report
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return nil, fmt.Errorf("reportstore: failed to decode report: %w", err)
	}
	return &report, nil
}

// List returns the most recent runs, newest first.
func (s *SQLite) List(ctx context.Context, limit int) ([]*RunEntry, error) {
	query := `
        SELECT run_id, created_at, dataset_fingerprint, overall_risk, total_states, total_features, partial
        FROM reports
        ORDER BY created_at DESC
        LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("reportstore: failed to list reports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []*RunEntry
	for rows.Next() {
		var e RunEntry
		var createdAt string
		var partial int
		if err := rows.Scan(&e.RunID, &createdAt, &e.DatasetFingerprint, &e.OverallRisk,
			&e.TotalStates, &e.TotalFeatures, &partial); err != nil {
			return nil, fmt.Errorf("reportstore: failed to scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		e.Partial = partial != 0
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// Delete removes one run's report.
func (s *SQLite) Delete(ctx context.Context, runID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reports WHERE run_id = ?`, runID)
	if err != nil {
		return fmt.Errorf("reportstore: failed to delete report: %w", err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	return time.Time{}
}
