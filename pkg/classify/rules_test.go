package classify

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stateline-hq/stateline/pkg/jurisdiction"
)

func strictProfile() *jurisdiction.Profile {
	return &jurisdiction.Profile{
		Code:            jurisdiction.CodeIL,
		Name:            "Illinois",
		Regulations:     []string{"BIPA", "Illinois Biometric Information Privacy Act"},
		BaselineTier:    jurisdiction.TierHigh,
		Enforcement:     jurisdiction.EnforcementStrict,
		KeyRequirements: []string{"Written consent for biometric data collection"},
		Penalties:       []string{"$1,000-$5,000 per violation"},
		EffectiveDate:   "2008-10-03",
	}
}

func lenientProfile() *jurisdiction.Profile {
	return &jurisdiction.Profile{
		Code:            jurisdiction.CodeAL,
		Name:            "Alabama",
		Regulations:     []string{"Alabama Data Breach Notification Act"},
		BaselineTier:    jurisdiction.TierLow,
		Enforcement:     jurisdiction.EnforcementLenient,
		KeyRequirements: []string{"Breach notification"},
	}
}

func TestLevelForScore(t *testing.T) {
	cases := []struct {
		score float64
		want  RiskLevel
	}{
		{0, RiskLow},
		{0.3, RiskLow},
		{0.59, RiskLow},
		{0.6, RiskHigh},
		{0.61, RiskHigh},
		{1, RiskHigh},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, LevelForScore(tc.score), "score %v", tc.score)
	}
}

func TestRuleMatcherBiometricStrictJurisdiction(t *testing.T) {
	m := NewRuleMatcher()
	f := &Feature{
		ID:          "f1",
		Name:        "Face login",
		Description: "Authenticate users with facial recognition templates",
		DataTypes:   []string{"biometric"},
	}

	v := m.Evaluate(f, strictProfile())

	require.InDelta(t, 0.6, v.RiskScore, 1e-9)
	require.Equal(t, RiskHigh, v.RiskLevel)
	require.False(t, v.IsCompliant)
	require.Equal(t, []string{"BIPA", "Illinois Biometric Information Privacy Act"}, v.ViolatedRegulations)
	require.Contains(t, v.RemediationActions, "Implement consent mechanisms")
	require.Contains(t, v.RemediationActions, "Obtain explicit written consent for biometric data processing")
	require.Len(t, v.RemediationActions, 6)
	require.Contains(t, v.Reasoning, "strict enforcement jurisdiction")
	require.Contains(t, v.Reasoning, "no consent capability found")
	require.InDelta(t, 0.7, v.ConfidenceScore, 1e-9)
	require.Equal(t, SourceRules, v.Source)
	require.Equal(t, "IL", v.JurisdictionCode)
	require.Equal(t, "Illinois", v.JurisdictionName)
}

func TestRuleMatcherBenignFeature(t *testing.T) {
	m := NewRuleMatcher()
	f := &Feature{
		ID:          "f2",
		Name:        "Newsletter signup",
		Description: "Users can join a weekly product newsletter and unsubscribe at any time",
		DataTypes:   []string{"email"},
	}

	v := m.Evaluate(f, lenientProfile())

	require.InDelta(t, 0.3, v.RiskScore, 1e-9)
	require.Equal(t, RiskLow, v.RiskLevel)
	require.True(t, v.IsCompliant)
	require.Empty(t, v.ViolatedRegulations)
	require.Empty(t, v.RemediationActions)
	require.Contains(t, v.Reasoning, "no sensitive data categories detected")
}

func TestRuleMatcherScoreClippedAtOne(t *testing.T) {
	m := NewRuleMatcher()
	f := &Feature{
		ID:          "f3",
		Name:        "Everything tracker",
		Description: "Collects broadly",
		DataTypes:   []string{"biometric", "health", "financial", "location", "behavioral"},
	}

	v := m.Evaluate(f, strictProfile())

	require.Equal(t, 1.0, v.RiskScore)
	require.Equal(t, RiskHigh, v.RiskLevel)
}

func TestRuleMatcherHighRiskCanStillBeCompliant(t *testing.T) {
	m := NewRuleMatcher()
	f := &Feature{
		ID:          "f4",
		Name:        "Patient portal",
		Description: "Surfaces lab results to patients",
		DataTypes:   []string{"health", "medical"},
	}

	v := m.Evaluate(f, lenientProfile())

	// Two tags in the same category both raise the score, but the category
	// is only noted and remediated once.
	require.InDelta(t, 0.7, v.RiskScore, 1e-9)
	require.Equal(t, RiskHigh, v.RiskLevel)
	require.True(t, v.IsCompliant)
	require.Equal(t, []string{"Restrict health data processing to consented purposes"}, v.RemediationActions)
}

func TestRuleMatcherRequirementSatisfiedByToken(t *testing.T) {
	m := NewRuleMatcher()
	p := strictProfile()
	p.KeyRequirements = []string{"Consent for sensitive data", "Right to deletion"}
	f := &Feature{
		ID:          "f5",
		Name:        "Profile manager",
		Description: "Users opt-in to data sharing and can delete their account",
		DataTypes:   nil,
	}

	v := m.Evaluate(f, p)

	require.True(t, v.IsCompliant)
	require.Empty(t, v.ViolatedRegulations)
}

func TestRuleMatcherDuplicateCapabilityCheckedOnce(t *testing.T) {
	m := NewRuleMatcher()
	p := strictProfile()
	p.KeyRequirements = []string{"Consent for data collection", "Explicit consent for minors"}
	f := &Feature{
		ID:          "f6",
		Name:        "Telemetry",
		Description: "Collects device diagnostics",
	}

	v := m.Evaluate(f, p)

	require.False(t, v.IsCompliant)
	count := 0
	for _, a := range v.RemediationActions {
		if a == "Implement consent mechanisms" {
			count++
		}
	}
	require.Equal(t, 1, count)
}

func TestRuleMatcherCaseFolding(t *testing.T) {
	m := NewRuleMatcher()
	f := &Feature{
		ID:          "f7",
		Name:        "Enrollment",
		Description: "Requires CONSENT before capture",
		DataTypes:   []string{"Biometric"},
	}

	v := m.Evaluate(f, strictProfile())

	require.True(t, v.IsCompliant)
	require.InDelta(t, 0.6, v.RiskScore, 1e-9)
	require.Equal(t, RiskHigh, v.RiskLevel)
}

func TestRuleMatcherDeterministic(t *testing.T) {
	m := NewRuleMatcher()
	f := &Feature{
		ID:          "f8",
		Name:        "Ad targeting",
		Description: "Builds behavioral segments for advertisers",
		DataTypes:   []string{"behavioral", "location"},
	}

	v1 := m.Evaluate(f, strictProfile())
	v2 := m.Evaluate(f, strictProfile())

	require.Equal(t, v1, v2)
}

func TestRuleMatcherFallbackConfidence(t *testing.T) {
	m := NewRuleMatcher()
	features := []*Feature{
		{ID: "f9", Name: "A", Description: "a"},
		{ID: "f10", Name: "B", Description: "b"},
	}

	base := m.EvaluateAll(features, lenientProfile())
	fallback := m.EvaluateFallback(features, lenientProfile())

	require.Len(t, base, 2)
	require.Len(t, fallback, 2)
	for _, v := range base {
		require.InDelta(t, 0.7, v.ConfidenceScore, 1e-9)
	}
	for _, v := range fallback {
		require.InDelta(t, 0.8, v.ConfidenceScore, 1e-9)
	}
}
