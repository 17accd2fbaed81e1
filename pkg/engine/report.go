// Package engine runs the full compliance analysis. It drives the tiered
// dispatcher across jurisdictions with a bounded worker pool, reconciles the
// verdicts into state-centric and feature-centric views, summarizes
// non-compliant jurisdictions, and computes rollup statistics for one run.
package engine

import (
	"time"

	"github.com/stateline-hq/stateline/pkg/classify"
	"github.com/stateline-hq/stateline/pkg/jurisdiction"
)

// StateResult aggregates one jurisdiction's verdicts across all features.
// RiskScore is the mean verdict score; RiskLevel is derived from it.
type StateResult struct {
	JurisdictionCode     string              `json:"jurisdiction_code"`
	JurisdictionName     string              `json:"jurisdiction_name"`
	RiskScore            float64             `json:"risk_score"`
	RiskLevel            classify.RiskLevel  `json:"risk_level"`
	TotalFeatures        int                 `json:"total_features"`
	NonCompliantFeatures int                 `json:"non_compliant_features"`
	ComplianceRate       float64             `json:"compliance_rate"`
	Verdicts             []*classify.Verdict `json:"verdicts"`
	FromCache            bool                `json:"from_cache,omitempty"`
}

func newStateResult(p *jurisdiction.Profile, verdicts []*classify.Verdict) *StateResult {
	res := &StateResult{
		JurisdictionCode: string(p.Code),
		JurisdictionName: p.Name,
		TotalFeatures:    len(verdicts),
		Verdicts:         verdicts,
	}

	if len(verdicts) == 0 {
		res.RiskLevel = classify.RiskLow
		return res
	}

	var sum float64
	for _, v := range verdicts {
		sum += v.RiskScore
		if !v.IsCompliant {
			res.NonCompliantFeatures++
		}
	}
	res.RiskScore = sum / float64(len(verdicts))
	res.RiskLevel = classify.LevelForScore(res.RiskScore)
	res.ComplianceRate = float64(res.TotalFeatures-res.NonCompliantFeatures) / float64(res.TotalFeatures)
	return res
}

// Report is the complete output of one analysis run. States either carry all
// their features' verdicts or are absent; a cancelled run keeps the entries
// completed before the cancellation and marks the report partial.
type Report struct {
	RunID                string                  `json:"run_id"`
	StartedAt            time.Time               `json:"started_at"`
	CompletedAt          time.Time               `json:"completed_at"`
	DatasetFingerprint   string                  `json:"dataset_fingerprint"`
	States               map[string]*StateResult `json:"states"`
	Features             []*FeatureResult        `json:"features"`
	Summary              *Summary                `json:"non_compliant_summary"`
	Stats                *Stats                  `json:"stats"`
	SkippedJurisdictions []string                `json:"skipped_jurisdictions,omitempty"`
	Partial              bool                    `json:"partial,omitempty"`
}
