package engine

import (
	"sort"

	"github.com/stateline-hq/stateline/pkg/classify"
)

// RiskBand is the coarse overall posture reported in the summary header. It
// is a rollup band, not a verdict level, so "medium" exists here.
type RiskBand string

const (
	BandLow    RiskBand = "low"
	BandMedium RiskBand = "medium"
	BandHigh   RiskBand = "high"
)

// Canned header fields mirrored into every summary.
var (
	mostCommonViolations = []string{
		"Consent requirements",
		"Data security",
		"User rights",
	}
	summaryRecommendations = []string{
		"Implement state-specific consent mechanisms",
		"Add comprehensive data security measures",
		"Establish user rights portal for data access and deletion",
		"Monitor for regulation updates in all states",
	}
)

// SummaryEntry is one non-compliant jurisdiction's merged view across every
// feature that failed there. RiskScore is the worst observed score, never an
// average, and Reasoning follows the worst-scoring feature.
type SummaryEntry struct {
	JurisdictionName     string             `json:"jurisdiction_name"`
	RiskScore            float64            `json:"risk_score"`
	RiskLevel            classify.RiskLevel `json:"risk_level"`
	NonCompliantFeatures []string           `json:"non_compliant_features"`
	ViolatedRegulations  []string           `json:"violated_regulations"`
	RemediationActions   []string           `json:"remediation_actions"`
	Reasoning            string             `json:"reasoning"`
}

// Summary folds all feature-centric results into one entry per jurisdiction
// that any feature was non-compliant in. Jurisdictions with zero
// non-compliant features never appear.
type Summary struct {
	Jurisdictions        map[string]*SummaryEntry `json:"jurisdictions"`
	TotalNonCompliant    int                      `json:"total_non_compliant_states"`
	HighestRiskStates    []string                 `json:"highest_risk_states"`
	MostCommonViolations []string                 `json:"most_common_violations"`
	OverallRisk          RiskBand                 `json:"overall_compliance_risk"`
	Recommendations      []string                 `json:"recommendations"`
}

// highestRiskThreshold selects jurisdictions called out in the summary
// header and drives the overall band together with bandMediumThreshold.
const (
	highestRiskThreshold = 0.8
	bandMediumThreshold  = 0.5
)

// Summarize builds the non-compliant-jurisdiction summary from the
// feature-centric results.
func Summarize(features []*FeatureResult) *Summary {
	entries := make(map[string]*SummaryEntry)

	for _, fr := range features {
		for _, code := range fr.NonCompliantJurisdictions {
			score, ok := fr.JurisdictionScores[code]
			if !ok {
				continue
			}
			risk := clamp01(1 - score.ComplianceScore)

			entry, seen := entries[code]
			if !seen {
				entries[code] = &SummaryEntry{
					JurisdictionName:     score.JurisdictionName,
					RiskScore:            risk,
					RiskLevel:            classify.LevelForScore(risk),
					NonCompliantFeatures: []string{fr.FeatureName},
					ViolatedRegulations:  dedupeStrings(score.ViolatedRegulations, 0),
					RemediationActions:   dedupeStrings(score.RemediationActions, 0),
					Reasoning:            score.Reasoning,
				}
				continue
			}

			entry.NonCompliantFeatures = append(entry.NonCompliantFeatures, fr.FeatureName)
			if risk > entry.RiskScore {
				entry.RiskScore = risk
				entry.RiskLevel = classify.LevelForScore(risk)
				entry.Reasoning = score.Reasoning
			}
			entry.ViolatedRegulations = dedupeStrings(
				append(entry.ViolatedRegulations, score.ViolatedRegulations...), 0)
			entry.RemediationActions = dedupeStrings(
				append(entry.RemediationActions, score.RemediationActions...), 0)
		}
	}

	summary := &Summary{
		Jurisdictions:        entries,
		TotalNonCompliant:    len(entries),
		HighestRiskStates:    []string{},
		MostCommonViolations: mostCommonViolations,
		OverallRisk:          BandLow,
		Recommendations:      summaryRecommendations,
	}

	for code, entry := range entries {
		if entry.RiskScore >= highestRiskThreshold {
			summary.HighestRiskStates = append(summary.HighestRiskStates, code)
			summary.OverallRisk = BandHigh
		} else if entry.RiskScore >= bandMediumThreshold && summary.OverallRisk != BandHigh {
			summary.OverallRisk = BandMedium
		}
	}
	sort.Strings(summary.HighestRiskStates)

	return summary
}
