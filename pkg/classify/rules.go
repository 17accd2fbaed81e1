package classify

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/stateline-hq/stateline/pkg/jurisdiction"
)

// Scoring weights for the deterministic strategy.
const (
	baselineRisk       = 0.3
	sensitiveTagWeight = 0.2
	strictWeight       = 0.1

	// The rule path reports higher confidence when it runs as the fallback
	// after a failed LLM attempt: that branch is exercised with more
	// scrutiny, and the asymmetry is a deliberate signal weight.
	baseConfidence     = 0.7
	fallbackConfidence = 0.8
)

// sensitiveCategory describes one sensitive data-type category, the tag
// substrings that select it, and its canned remediation.
type sensitiveCategory struct {
	Name        string
	Tags        []string
	Note        string
	Remediation string
}

var sensitiveCategories = []sensitiveCategory{
	{
		Name:        "personal identifiable information",
		Tags:        []string{"pii", "personal"},
		Note:        "personal identifiable information triggers consumer privacy rights obligations",
		Remediation: "Implement PII encryption at rest and in transit",
	},
	{
		Name:        "biometric",
		Tags:        []string{"biometric"},
		Note:        "biometric data is subject to heightened consent requirements",
		Remediation: "Obtain explicit written consent for biometric data processing",
	},
	{
		Name:        "health",
		Tags:        []string{"health", "medical"},
		Note:        "health data carries sector-specific protection obligations",
		Remediation: "Restrict health data processing to consented purposes",
	},
	{
		Name:        "financial",
		Tags:        []string{"financial", "payment"},
		Note:        "financial data requires elevated security safeguards",
		Remediation: "Implement PCI-DSS-aligned encryption for financial data",
	},
	{
		Name:        "location",
		Tags:        []string{"location", "geo"},
		Note:        "location data enables tracking and is treated as sensitive",
		Remediation: "Provide opt-out controls for location tracking",
	},
	{
		Name:        "behavioral",
		Tags:        []string{"behavioral", "behaviour"},
		Note:        "behavioral data implicates profiling and targeted advertising rules",
		Remediation: "Disclose behavioral profiling in the privacy notice",
	},
}

// requirementRule maps a required-practice capability to the tokens that
// satisfy it in feature text.
type requirementRule struct {
	Capability string
	Tokens     []string
}

var requirementRules = []requirementRule{
	{"consent", []string{"consent", "opt-in", "permission"}},
	{"deletion", []string{"delete", "remove", "erase"}},
	{"access", []string{"access", "view", "retrieve"}},
	{"portability", []string{"export", "download", "portability"}},
	{"minimization", []string{"minimal", "necessary", "limited"}},
	{"purpose limitation", []string{"purpose", "use"}},
}

// genericRemediations are appended to every non-compliant verdict.
var genericRemediations = []string{
	"Conduct a compliance gap analysis",
	"Update privacy policies and procedures",
	"Train staff on state privacy requirements",
	"Establish compliance monitoring and reporting procedures",
}

// RuleMatcher is the deterministic classification strategy. It is a pure
// function of its inputs and safe for concurrent use.
type RuleMatcher struct{}

// NewRuleMatcher creates the deterministic strategy.
func NewRuleMatcher() *RuleMatcher {
	return &RuleMatcher{}
}

// Evaluate produces a verdict for one feature against one jurisdiction.
func (m *RuleMatcher) Evaluate(f *Feature, p *jurisdiction.Profile) *Verdict {
	return m.evaluate(f, p, baseConfidence)
}

// EvaluateAll runs the deterministic strategy across all features.
func (m *RuleMatcher) EvaluateAll(features []*Feature, p *jurisdiction.Profile) []*Verdict {
	verdicts := make([]*Verdict, 0, len(features))
	for _, f := range features {
		verdicts = append(verdicts, m.evaluate(f, p, baseConfidence))
	}
	return verdicts
}

// EvaluateFallback mirrors EvaluateAll with elevated confidence, used when
// the rule path runs as the fallback after a failed LLM attempt.
func (m *RuleMatcher) EvaluateFallback(features []*Feature, p *jurisdiction.Profile) []*Verdict {
	verdicts := make([]*Verdict, 0, len(features))
	for _, f := range features {
		verdicts = append(verdicts, m.evaluate(f, p, fallbackConfidence))
	}
	return verdicts
}

func (m *RuleMatcher) evaluate(f *Feature, p *jurisdiction.Profile, confidence float64) *Verdict {
	score := baselineRisk
	compliant := true

	var notes []string
	var violated []string
	var actions []string
	seenActions := make(map[string]bool)
	seenViolations := make(map[string]bool)

	appendAction := func(action string) {
		if !seenActions[action] {
			seenActions[action] = true
			actions = append(actions, action)
		}
	}

	// Sensitive data-type tags: each matching tag raises the score, each
	// distinct category is noted once.
	notedCategories := make(map[string]bool)
	var matchedCategories []sensitiveCategory
	for _, tag := range f.DataTypes {
		folded := foldText(tag)
		for _, cat := range sensitiveCategories {
			if !tagMatches(folded, cat.Tags) {
				continue
			}
			score += sensitiveTagWeight
			if !notedCategories[cat.Name] {
				notedCategories[cat.Name] = true
				notes = append(notes, cat.Note)
				matchedCategories = append(matchedCategories, cat)
			}
			break
		}
	}

	// Required practices: each capability implied by the jurisdiction's
	// requirement text must be evidenced by at least one token in the
	// feature's name or description.
	text := foldText(f.Name + " " + f.Description)
	checkedCapabilities := make(map[string]bool)
	for _, requirement := range p.KeyRequirements {
		reqText := foldText(requirement)
		for _, rule := range requirementRules {
			if !strings.Contains(reqText, rule.Capability) || checkedCapabilities[rule.Capability] {
				continue
			}
			checkedCapabilities[rule.Capability] = true

			if containsAny(text, rule.Tokens) {
				continue
			}

			compliant = false
			for _, reg := range p.Regulations {
				if !seenViolations[reg] {
					seenViolations[reg] = true
					violated = append(violated, reg)
				}
			}
			appendAction(fmt.Sprintf("Implement %s mechanisms", rule.Capability))
			notes = append(notes, fmt.Sprintf("no %s capability found in the feature description", rule.Capability))
		}
	}

	if p.Enforcement == jurisdiction.EnforcementStrict {
		score += strictWeight
		notes = append(notes, "strict enforcement jurisdiction")
	}

	score = clamp01(score)

	for _, cat := range matchedCategories {
		appendAction(cat.Remediation)
	}
	if !compliant {
		for _, action := range genericRemediations {
			appendAction(action)
		}
	}

	reasoning := fmt.Sprintf("Rule evaluation for %s: %s.", p.Name, strings.Join(notes, "; "))
	if len(notes) == 0 {
		reasoning = fmt.Sprintf("Rule evaluation for %s: no sensitive data categories detected and all required practices addressed.", p.Name)
	}

	return &Verdict{
		JurisdictionCode:    string(p.Code),
		JurisdictionName:    p.Name,
		FeatureID:           f.ID,
		FeatureName:         f.Name,
		RiskScore:           score,
		RiskLevel:           LevelForScore(score),
		IsCompliant:         compliant,
		ViolatedRegulations: violated,
		RemediationActions:  actions,
		Reasoning:           reasoning,
		ConfidenceScore:     confidence,
		Source:              SourceRules,
	}
}

// foldText normalizes text for case-insensitive substring matching.
func foldText(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}

func tagMatches(foldedTag string, candidates []string) bool {
	for _, c := range candidates {
		if strings.Contains(foldedTag, c) {
			return true
		}
	}
	return false
}

func containsAny(foldedText string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(foldedText, tok) {
			return true
		}
	}
	return false
}
