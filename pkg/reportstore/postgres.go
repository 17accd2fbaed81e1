package reportstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/stateline-hq/stateline/pkg/engine"
)

// Postgres stores reports in PostgreSQL.
type Postgres struct {
	db *sql.DB
}

// NewPostgres creates a PostgreSQL-backed store. Call Init once to create
// the schema.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const schema = `
CREATE TABLE IF NOT EXISTS reports (
	run_id TEXT PRIMARY KEY,
	created_at TIMESTAMP NOT NULL,
	dataset_fingerprint TEXT,
	overall_risk TEXT,
	total_states INTEGER NOT NULL DEFAULT 0,
	total_features INTEGER NOT NULL DEFAULT 0,
	partial BOOLEAN NOT NULL DEFAULT FALSE,
	payload JSONB
);
CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports(created_at);
`

// Init creates the necessary database tables.
func (p *Postgres) Init(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, schema)
	return err
}

// Save upserts a report keyed by its run ID.
func (p *Postgres) Save(ctx context.Context, report *engine.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("reportstore: failed to marshal report: %w", err)
	}
	meta := entryFromReport(report)

	query := `
		INSERT INTO reports (run_id, created_at, dataset_fingerprint, overall_risk, total_states, total_features, partial, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (run_id) DO UPDATE SET
			created_at = EXCLUDED.created_at,
			dataset_fingerprint = EXCLUDED.dataset_fingerprint,
			overall_risk = EXCLUDED.overall_risk,
			total_states = EXCLUDED.total_states,
			total_features = EXCLUDED.total_features,
			partial = EXCLUDED.partial,
			payload = EXCLUDED.payload
	`
	_, err = p.db.ExecContext(ctx, query,
		meta.RunID, meta.CreatedAt.UTC(), meta.DatasetFingerprint, meta.OverallRisk,
		meta.TotalStates, meta.TotalFeatures, meta.Partial, payload,
	)
	if err != nil {
		return fmt.Errorf("reportstore: failed to persist report: %w", err)
	}
	return nil
}

// Get loads the full report for one run.
func (p *Postgres) Get(ctx context.Context, runID string) (*engine.Report, error) {
	row := p.db.QueryRowContext(ctx, `SELECT payload FROM reports WHERE run_id = $1`, runID)

	var payload []byte
	err := row.Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reportstore: failed to load report: %w", err)
	}

	var report engine.Report
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("reportstore: failed to decode report: %w", err)
	}
	return &report, nil
}

// List returns the most recent runs, newest first.
func (p *Postgres) List(ctx context.Context, limit int) ([]*RunEntry, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT run_id, created_at, dataset_fingerprint, overall_risk, total_states, total_features, partial
		FROM reports
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("reportstore: failed to list reports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []*RunEntry
	for rows.Next() {
		var e RunEntry
		if err := rows.Scan(&e.RunID, &e.CreatedAt, &e.DatasetFingerprint, &e.OverallRisk,
			&e.TotalStates, &e.TotalFeatures, &e.Partial); err != nil {
			return nil, fmt.Errorf("reportstore: failed to scan row: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// Delete removes one run's report.
func (p *Postgres) Delete(ctx context.Context, runID string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM reports WHERE run_id = $1`, runID)
	if err != nil {
		return fmt.Errorf("reportstore: failed to delete report: %w", err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
