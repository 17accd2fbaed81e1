//go:build property
// +build property

// Package classify_test contains property-based tests for the threshold law
// and the deterministic strategy.
package classify_test

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/stateline-hq/stateline/pkg/classify"
	"github.com/stateline-hq/stateline/pkg/jurisdiction"
)

var propTiers = []jurisdiction.Tier{
	jurisdiction.TierLow,
	jurisdiction.TierMedium,
	jurisdiction.TierHigh,
}

var propEnforcements = []jurisdiction.Enforcement{
	jurisdiction.EnforcementLenient,
	jurisdiction.EnforcementModerate,
	jurisdiction.EnforcementStrict,
}

var propDataTypes = []string{
	"biometric templates",
	"health records",
	"email address",
	"location history",
	"payment card",
	"server logs",
}

var propRequirements = []string{
	"Explicit consent for data collection",
	"Data deletion on request",
	"Consumer access to stored data",
	"Data portability on request",
	"Data minimization",
	"Purpose limitation for processing",
	"Breach notification",
}

func propProfile(tierIdx, enfIdx int, reqIdx []int) *jurisdiction.Profile {
	p := &jurisdiction.Profile{
		Code:         jurisdiction.CodeCA,
		Name:         "California",
		Regulations:  []string{"CCPA", "CPRA"},
		BaselineTier: propTiers[tierIdx%len(propTiers)],
		Enforcement:  propEnforcements[enfIdx%len(propEnforcements)],
	}
	for _, i := range reqIdx {
		p.KeyRequirements = append(p.KeyRequirements, propRequirements[i%len(propRequirements)])
	}
	return p
}

func propFeature(name, description string, typeIdx []int) *classify.Feature {
	f := &classify.Feature{ID: "f-prop", Name: name, Description: description}
	for _, i := range typeIdx {
		f.DataTypes = append(f.DataTypes, propDataTypes[i%len(propDataTypes)])
	}
	return f
}

// TestRiskLevelThresholdLaw verifies the two-level split is exact.
// Property: LevelForScore(s) == high iff s >= RiskThreshold
func TestRiskLevelThresholdLaw(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("levels split exactly at the threshold", prop.ForAll(
		func(score float64) bool {
			level := classify.LevelForScore(score)
			if score >= classify.RiskThreshold {
				return level == classify.RiskHigh
			}
			return level == classify.RiskLow
		},
		gen.Float64Range(0, 1),
	))

	properties.TestingRun(t)
}

// TestRuleEvaluationDeterminism verifies the deterministic strategy really is.
// Property: Evaluate(f, p) == Evaluate(f, p)
func TestRuleEvaluationDeterminism(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	matcher := classify.NewRuleMatcher()

	properties.Property("rule evaluation is deterministic", prop.ForAll(
		func(name, description string, typeIdx []int, tierIdx, enfIdx int, reqIdx []int) bool {
			f := propFeature(name, description, typeIdx)
			p := propProfile(tierIdx, enfIdx, reqIdx)

			v1 := matcher.Evaluate(f, p)
			v2 := matcher.Evaluate(f, p)
			return reflect.DeepEqual(v1, v2)
		},
		gen.AlphaString(),
		gen.AlphaString(),
		gen.SliceOf(gen.IntRange(0, 100)),
		gen.IntRange(0, 100),
		gen.IntRange(0, 100),
		gen.SliceOf(gen.IntRange(0, 100)),
	))

	properties.TestingRun(t)
}

// TestRuleVerdictBounds verifies scores stay clipped and levels track them.
func TestRuleVerdictBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	matcher := classify.NewRuleMatcher()

	properties.Property("scores stay in [0,1] and levels track them", prop.ForAll(
		func(name, description string, typeIdx []int, tierIdx, enfIdx int, reqIdx []int) bool {
			f := propFeature(name, description, typeIdx)
			p := propProfile(tierIdx, enfIdx, reqIdx)

			v := matcher.Evaluate(f, p)
			if v.RiskScore < 0 || v.RiskScore > 1 {
				return false
			}
			if v.RiskLevel != classify.LevelForScore(v.RiskScore) {
				return false
			}
			return v.Source == classify.SourceRules
		},
		gen.AlphaString(),
		gen.AlphaString(),
		gen.SliceOf(gen.IntRange(0, 100)),
		gen.IntRange(0, 100),
		gen.IntRange(0, 100),
		gen.SliceOf(gen.IntRange(0, 100)),
	))

	properties.TestingRun(t)
}

// TestRuleViolationConsistency verifies the compliance flag agrees with the
// violation list.
func TestRuleViolationConsistency(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	matcher := classify.NewRuleMatcher()

	properties.Property("non-compliance always names regulations and actions", prop.ForAll(
		func(name, description string, typeIdx []int, tierIdx, enfIdx int, reqIdx []int) bool {
			f := propFeature(name, description, typeIdx)
			p := propProfile(tierIdx, enfIdx, reqIdx)

			v := matcher.Evaluate(f, p)
			if v.IsCompliant {
				return len(v.ViolatedRegulations) == 0
			}
			return len(v.ViolatedRegulations) > 0 && len(v.RemediationActions) > 0
		},
		gen.AlphaString(),
		gen.AlphaString(),
		gen.SliceOf(gen.IntRange(0, 100)),
		gen.IntRange(0, 100),
		gen.IntRange(0, 100),
		gen.SliceOf(gen.IntRange(0, 100)),
	))

	properties.TestingRun(t)
}

// TestBatchOrderStability verifies EvaluateAll preserves input order.
func TestBatchOrderStability(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	matcher := classify.NewRuleMatcher()

	properties.Property("batch verdicts keep feature order", prop.ForAll(
		func(names []string, tierIdx, enfIdx int) bool {
			features := make([]*classify.Feature, len(names))
			for i, n := range names {
				features[i] = &classify.Feature{ID: n, Name: n}
			}
			p := propProfile(tierIdx, enfIdx, nil)

			verdicts := matcher.EvaluateAll(features, p)
			if len(verdicts) != len(features) {
				return false
			}
			for i, v := range verdicts {
				if v.FeatureID != features[i].ID {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.AlphaString()),
		gen.IntRange(0, 100),
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t)
}
