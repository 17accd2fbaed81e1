//go:build property
// +build property

// Package engine_test contains property-based tests for view reconciliation
// and the non-compliance summary.
package engine_test

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/stateline-hq/stateline/pkg/classify"
	"github.com/stateline-hq/stateline/pkg/engine"
)

var propStateCodes = []string{"CA", "IL", "NY", "TX", "WA"}

func propVerdict(code, featureID string, score float64, compliant bool) *classify.Verdict {
	return &classify.Verdict{
		JurisdictionCode: code,
		JurisdictionName: "State " + code,
		FeatureID:        featureID,
		FeatureName:      "Feature " + featureID,
		RiskScore:        score,
		RiskLevel:        classify.LevelForScore(score),
		IsCompliant:      compliant,
		Reasoning:        "generated",
		ConfidenceScore:  0.7,
		Source:           classify.SourceRules,
	}
}

func propStates(scoresA, scoresB []float64, bits []int) (map[string]*engine.StateResult, []*classify.Feature) {
	n := len(propStateCodes)
	if len(scoresA) < n {
		n = len(scoresA)
	}
	if len(scoresB) < n {
		n = len(scoresB)
	}

	states := make(map[string]*engine.StateResult, n)
	for i := 0; i < n; i++ {
		code := propStateCodes[i]
		compliantA := true
		compliantB := true
		if len(bits) > 0 {
			compliantA = bits[i%len(bits)]%2 == 0
			compliantB = bits[(i+1)%len(bits)]%2 == 0
		}
		verdicts := []*classify.Verdict{
			propVerdict(code, "f1", scoresA[i], compliantA),
			propVerdict(code, "f2", scoresB[i], compliantB),
		}

		sr := &engine.StateResult{
			JurisdictionCode: code,
			JurisdictionName: "State " + code,
			TotalFeatures:    len(verdicts),
			Verdicts:         verdicts,
		}
		var sum float64
		for _, v := range verdicts {
			sum += v.RiskScore
			if !v.IsCompliant {
				sr.NonCompliantFeatures++
			}
		}
		sr.RiskScore = sum / float64(len(verdicts))
		sr.RiskLevel = classify.LevelForScore(sr.RiskScore)
		sr.ComplianceRate = float64(sr.TotalFeatures-sr.NonCompliantFeatures) / float64(sr.TotalFeatures)
		states[code] = sr
	}

	features := []*classify.Feature{
		{ID: "f1", Name: "Feature f1"},
		{ID: "f2", Name: "Feature f2"},
	}
	return states, features
}

// TestRoundTripPreservation verifies pivoting to the feature view and back
// loses no verdicts.
// Property: ToStateView(ToFeatureView(states)) keeps counts and membership
func TestRoundTripPreservation(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("round trip keeps verdict counts and membership", prop.ForAll(
		func(scoresA, scoresB []float64, bits []int) bool {
			states, features := propStates(scoresA, scoresB, bits)
			if len(states) == 0 {
				return true
			}

			rebuilt := engine.ToStateView(engine.ToFeatureView(features, states))
			if len(rebuilt) != len(states) {
				return false
			}
			for code, want := range states {
				got, ok := rebuilt[code]
				if !ok {
					return false
				}
				if len(got.Verdicts) != len(want.Verdicts) {
					return false
				}
				if got.NonCompliantFeatures != want.NonCompliantFeatures {
					return false
				}
				if math.Abs(got.RiskScore-want.RiskScore) > 1e-9 {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(0, 1)),
		gen.SliceOf(gen.Float64Range(0, 1)),
		gen.SliceOf(gen.IntRange(0, 100)),
	))

	properties.TestingRun(t)
}

// TestFeatureViewMean verifies the feature-level score is the mean of that
// feature's own jurisdiction scores.
func TestFeatureViewMean(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("feature risk is the mean across jurisdictions", prop.ForAll(
		func(scoresA, scoresB []float64) bool {
			states, features := propStates(scoresA, scoresB, nil)
			if len(states) == 0 {
				return true
			}

			results := engine.ToFeatureView(features, states)
			for _, fr := range results {
				var sum float64
				for _, code := range propStateCodes[:len(states)] {
					sum += states[code].Verdicts[featureIndex(fr.FeatureID)].RiskScore
				}
				mean := sum / float64(len(states))
				if math.Abs(fr.RiskScore-mean) > 1e-9 {
					return false
				}
				if fr.RiskLevel != classify.LevelForScore(fr.RiskScore) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(0, 1)),
		gen.SliceOf(gen.Float64Range(0, 1)),
	))

	properties.TestingRun(t)
}

func featureIndex(id string) int {
	if id == "f1" {
		return 0
	}
	return 1
}

// TestSummaryTakesMaxRisk verifies the summary entry carries the worst score
// seen for that jurisdiction, never an average.
func TestSummaryTakesMaxRisk(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("summary entry risk equals the max contribution", prop.ForAll(
		func(scores []float64) bool {
			if len(scores) == 0 {
				return engine.Summarize(nil).TotalNonCompliant == 0
			}

			var features []*engine.FeatureResult
			maxRisk := 0.0
			for i, s := range scores {
				recovered := 1 - (1 - s)
				if recovered > maxRisk {
					maxRisk = recovered
				}
				features = append(features, &engine.FeatureResult{
					FeatureID:                 fmt.Sprintf("f%d", i),
					FeatureName:               fmt.Sprintf("Feature %d", i),
					NonCompliantJurisdictions: []string{"CA"},
					JurisdictionScores: map[string]*engine.JurisdictionScore{
						"CA": {
							JurisdictionName: "California",
							ComplianceScore:  1 - s,
							RiskLevel:        classify.LevelForScore(s),
							Reasoning:        fmt.Sprintf("reason %d", i),
						},
					},
				})
			}

			summary := engine.Summarize(features)
			entry := summary.Jurisdictions["CA"]
			if entry == nil {
				return false
			}
			if math.Abs(entry.RiskScore-maxRisk) > 1e-9 {
				return false
			}
			if entry.RiskLevel != classify.LevelForScore(entry.RiskScore) {
				return false
			}
			return len(entry.NonCompliantFeatures) == len(scores)
		},
		gen.SliceOf(gen.Float64Range(0, 1)),
	))

	properties.TestingRun(t)
}

// TestRecommendationBound verifies merged recommendations never exceed the
// cap plus the two-line boilerplate, with no case-insensitive duplicates.
func TestRecommendationBound(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("recommendations stay bounded and distinct", prop.ForAll(
		func(actionIdx, regIdx []int) bool {
			var actions, violated []string
			for _, i := range actionIdx {
				actions = append(actions, fmt.Sprintf("Action %d", i%30))
			}
			for _, i := range regIdx {
				violated = append(violated, fmt.Sprintf("Regulation %d", i%30))
			}

			verdict := propVerdict("CA", "f1", 0.9, false)
			verdict.RemediationActions = actions
			verdict.ViolatedRegulations = violated
			states := map[string]*engine.StateResult{
				"CA": {
					JurisdictionCode: "CA",
					JurisdictionName: "State CA",
					TotalFeatures:    1,
					Verdicts:         []*classify.Verdict{verdict},
				},
			}
			features := []*classify.Feature{{ID: "f1", Name: "Feature f1"}}

			fr := engine.ToFeatureView(features, states)[0]
			if len(fr.Recommendations) > 12 {
				return false
			}
			seen := make(map[string]bool)
			for _, r := range fr.Recommendations {
				key := strings.ToLower(r)
				if seen[key] {
					return false
				}
				seen[key] = true
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 100)),
		gen.SliceOf(gen.IntRange(0, 100)),
	))

	properties.TestingRun(t)
}
