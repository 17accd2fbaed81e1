// Package reportstore persists completed analysis reports so runs can be
// fetched, listed, and retired after the fact. Two backends exist: SQLite
// for single-binary deployments and PostgreSQL for shared ones.
package reportstore

import (
	"context"
	"errors"
	"time"

	"github.com/stateline-hq/stateline/pkg/engine"
)

// ErrNotFound is returned when no report exists for the requested run ID.
var ErrNotFound = errors.New("report not found")

// RunEntry is one row in the report listing, cheap enough to render without
// loading the full payload.
type RunEntry struct {
	RunID              string    `json:"run_id"`
	CreatedAt          time.Time `json:"created_at"`
	DatasetFingerprint string    `json:"dataset_fingerprint"`
	OverallRisk        string    `json:"overall_compliance_risk"`
	TotalStates        int       `json:"total_states"`
	TotalFeatures      int       `json:"total_features"`
	Partial            bool      `json:"partial"`
}

// Store is the persistence interface for analysis reports.
type Store interface {
	Save(ctx context.Context, report *engine.Report) error
	Get(ctx context.Context, runID string) (*engine.Report, error)
	List(ctx context.Context, limit int) ([]*RunEntry, error)
	Delete(ctx context.Context, runID string) error
}

func entryFromReport(r *engine.Report) *RunEntry {
	created := r.CompletedAt
	if created.IsZero() {
		created = r.StartedAt
	}

	overall := ""
	if r.Summary != nil {
		overall = string(r.Summary.OverallRisk)
	}

	return &RunEntry{
		RunID:              r.RunID,
		CreatedAt:          created,
		DatasetFingerprint: r.DatasetFingerprint,
		OverallRisk:        overall,
		TotalStates:        len(r.States),
		TotalFeatures:      len(r.Features),
		Partial:            r.Partial,
	}
}
