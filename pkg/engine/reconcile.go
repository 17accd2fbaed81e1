package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/stateline-hq/stateline/pkg/classify"
)

// maxFeatureRecommendations caps the merged recommendation list per feature,
// before the risk-level boilerplate is appended.
const maxFeatureRecommendations = 10

var (
	highRiskRecommendations = []string{
		"Conduct a compliance audit before launching this feature",
		"Engage legal review for the affected high-risk jurisdictions",
	}
	lowRiskRecommendations = []string{
		"Monitor regulatory updates in affected jurisdictions",
		"Maintain current compliance practices",
	}
)

// JurisdictionScore is one feature's standing in one jurisdiction, carried in
// the feature-centric view. ComplianceScore is 1 - risk_score, so the
// original verdict is recoverable from it.
type JurisdictionScore struct {
	JurisdictionName    string             `json:"jurisdiction_name"`
	ComplianceScore     float64            `json:"compliance_score"`
	RiskLevel           classify.RiskLevel `json:"risk_level"`
	IsCompliant         bool               `json:"is_compliant"`
	ViolatedRegulations []string           `json:"violated_regulations,omitempty"`
	RemediationActions  []string           `json:"remediation_actions,omitempty"`
	Reasoning           string             `json:"reasoning"`
	ConfidenceScore     float64            `json:"confidence_score"`
	Source              classify.Source    `json:"source"`
}

// FeatureResult is the feature-centric view of one feature's verdicts.
// RiskScore is the mean across this feature's own jurisdiction matches and
// RiskLevel derives from it, independently of any single jurisdiction.
type FeatureResult struct {
	FeatureID                 string                        `json:"feature_id"`
	FeatureName               string                        `json:"feature_name"`
	RiskScore                 float64                       `json:"risk_score"`
	RiskLevel                 classify.RiskLevel            `json:"risk_level"`
	NonCompliantJurisdictions []string                      `json:"non_compliant_jurisdictions"`
	JurisdictionScores        map[string]*JurisdictionScore `json:"jurisdiction_scores"`
	Recommendations           []string                      `json:"recommendations"`
}

// ToFeatureView pivots the state-centric map into one FeatureResult per
// input feature, in input order. A feature with no verdict in any
// jurisdiction still gets a result, treated as fully compliant at low risk.
func ToFeatureView(features []*classify.Feature, states map[string]*StateResult) []*FeatureResult {
	codes := sortedStateCodes(states)

	results := make([]*FeatureResult, 0, len(features))
	for _, f := range features {
		fr := &FeatureResult{
			FeatureID:                 f.ID,
			FeatureName:               f.Name,
			RiskLevel:                 classify.RiskLow,
			NonCompliantJurisdictions: []string{},
			JurisdictionScores:        make(map[string]*JurisdictionScore),
		}

		var sum float64
		var matches int
		var actions []string
		var violated []string
		for _, code := range codes {
			v := findVerdict(states[code], f.ID)
			if v == nil {
				continue
			}
			matches++
			sum += v.RiskScore
			fr.JurisdictionScores[code] = &JurisdictionScore{
				JurisdictionName:    v.JurisdictionName,
				ComplianceScore:     clamp01(1 - v.RiskScore),
				RiskLevel:           v.RiskLevel,
				IsCompliant:         v.IsCompliant,
				ViolatedRegulations: v.ViolatedRegulations,
				RemediationActions:  v.RemediationActions,
				Reasoning:           v.Reasoning,
				ConfidenceScore:     v.ConfidenceScore,
				Source:              v.Source,
			}
			if !v.IsCompliant {
				fr.NonCompliantJurisdictions = append(fr.NonCompliantJurisdictions, code)
			}
			actions = append(actions, v.RemediationActions...)
			violated = append(violated, v.ViolatedRegulations...)
		}

		if matches > 0 {
			fr.RiskScore = sum / float64(matches)
			fr.RiskLevel = classify.LevelForScore(fr.RiskScore)
		}
		fr.Recommendations = buildRecommendations(actions, violated, fr.RiskLevel)
		results = append(results, fr)
	}
	return results
}

// ToStateView rebuilds the state-centric map from feature-centric results.
// Verdict count and non-compliance membership survive the round trip; the
// risk score is recovered as 1 - compliance_score.
func ToStateView(features []*FeatureResult) map[string]*StateResult {
	grouped := make(map[string][]*classify.Verdict)
	names := make(map[string]string)

	for _, fr := range features {
		codes := make([]string, 0, len(fr.JurisdictionScores))
		for code := range fr.JurisdictionScores {
			codes = append(codes, code)
		}
		sort.Strings(codes)

		for _, code := range codes {
			score := fr.JurisdictionScores[code]
			names[code] = score.JurisdictionName
			grouped[code] = append(grouped[code], &classify.Verdict{
				JurisdictionCode:    code,
				JurisdictionName:    score.JurisdictionName,
				FeatureID:           fr.FeatureID,
				FeatureName:         fr.FeatureName,
				RiskScore:           clamp01(1 - score.ComplianceScore),
				RiskLevel:           score.RiskLevel,
				IsCompliant:         score.IsCompliant,
				ViolatedRegulations: score.ViolatedRegulations,
				RemediationActions:  score.RemediationActions,
				Reasoning:           score.Reasoning,
				ConfidenceScore:     score.ConfidenceScore,
				Source:              score.Source,
			})
		}
	}

	states := make(map[string]*StateResult, len(grouped))
	for code, verdicts := range grouped {
		res := &StateResult{
			JurisdictionCode: code,
			JurisdictionName: names[code],
			TotalFeatures:    len(verdicts),
			Verdicts:         verdicts,
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
		states[code] = res
	}
	return states
}

// buildRecommendations merges verdict actions with per-regulation entries,
// dedupes case-insensitively, caps the merged list, then appends the
// risk-level boilerplate.
func buildRecommendations(actions, violated []string, level classify.RiskLevel) []string {
	merged := make([]string, 0, len(actions)+len(violated))
	merged = append(merged, actions...)
	for _, reg := range dedupeStrings(violated, 0) {
		merged = append(merged, fmt.Sprintf("Ensure compliance with %s", reg))
	}
	recs := dedupeStrings(merged, maxFeatureRecommendations)

	boilerplate := lowRiskRecommendations
	if level == classify.RiskHigh {
		boilerplate = highRiskRecommendations
	}
	seen := make(map[string]bool, len(recs))
	for _, r := range recs {
		seen[strings.ToLower(r)] = true
	}
	for _, b := range boilerplate {
		if !seen[strings.ToLower(b)] {
			recs = append(recs, b)
		}
	}
	return recs
}

// dedupeStrings keeps first occurrences, comparing case-insensitively. A
// positive limit caps the result length.
func dedupeStrings(items []string, limit int) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		key := strings.ToLower(item)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func findVerdict(state *StateResult, featureID string) *classify.Verdict {
	for _, v := range state.Verdicts {
		if v.FeatureID == featureID {
			return v
		}
	}
	return nil
}

func sortedStateCodes(states map[string]*StateResult) []string {
	codes := make([]string, 0, len(states))
	for code := range states {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
