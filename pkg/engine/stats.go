package engine

import (
	"github.com/stateline-hq/stateline/pkg/classify"
)

// HighRiskState names a jurisdiction whose aggregate landed at the high
// level, with the feature counts behind that call.
type HighRiskState struct {
	StateCode        string `json:"state_code"`
	StateName        string `json:"state_name"`
	HighRiskFeatures int    `json:"high_risk_features"`
	TotalFeatures    int    `json:"total_features"`
}

// Stats is the run-wide rollup across every jurisdiction that produced a
// result.
type Stats struct {
	TotalVerdicts    int                        `json:"total_verdicts"`
	TotalStates      int                        `json:"total_states"`
	TotalFeatures    int                        `json:"total_features"`
	ComplianceRate   float64                    `json:"compliance_rate"`
	RiskDistribution map[classify.RiskLevel]int `json:"risk_distribution"`
	HighRiskStates   []HighRiskState            `json:"high_risk_states"`
	AverageRiskScore float64                    `json:"average_risk_score"`
}

func computeStats(states map[string]*StateResult, featureCount int) *Stats {
	stats := &Stats{
		TotalStates:   len(states),
		TotalFeatures: featureCount,
		RiskDistribution: map[classify.RiskLevel]int{
			classify.RiskLow:  0,
			classify.RiskHigh: 0,
		},
		HighRiskStates: []HighRiskState{},
	}

	var compliant int
	var scoreSum float64

	for _, code := range sortedStateCodes(states) {
		sr := states[code]

		stats.TotalVerdicts += len(sr.Verdicts)
		highFeatures := 0
		for _, v := range sr.Verdicts {
			stats.RiskDistribution[v.RiskLevel]++
			scoreSum += v.RiskScore
			if v.IsCompliant {
				compliant++
			}
			if v.RiskLevel == classify.RiskHigh {
				highFeatures++
			}
		}

		if sr.RiskLevel == classify.RiskHigh {
			stats.HighRiskStates = append(stats.HighRiskStates, HighRiskState{
				StateCode:        code,
				StateName:        sr.JurisdictionName,
				HighRiskFeatures: highFeatures,
				TotalFeatures:    sr.TotalFeatures,
			})
		}
	}

	if stats.TotalVerdicts > 0 {
		stats.ComplianceRate = float64(compliant) / float64(stats.TotalVerdicts)
		stats.AverageRiskScore = scoreSum / float64(stats.TotalVerdicts)
	}

	return stats
}
