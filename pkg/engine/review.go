package engine

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/cel-go/cel"
)

// DefaultReviewRules returns the built-in escalation rules applied when a
// Reviewer is constructed without any.
func DefaultReviewRules() []string {
	return []string{
		`feature.risk_level == "high"`,
		`size(feature.non_compliant_jurisdictions) >= 3`,
		`feature.violated_regulations.exists(r, r.contains("BIPA"))`,
	}
}

// ReviewFlag marks one feature result that matched an escalation rule.
type ReviewFlag struct {
	FeatureID   string `json:"feature_id"`
	FeatureName string `json:"feature_name"`
	Rule        string `json:"rule"`
}

// Reviewer evaluates CEL escalation rules against feature results so risky
// outcomes can be routed to a human. Compiled programs are cached per
// expression.
type Reviewer struct {
	env      *cel.Env
	prgCache map[string]cel.Program
	mu       sync.RWMutex
	rules    []string
}

// NewReviewer creates a Reviewer with the given rules, or the defaults when
// none are supplied. Rules see a "feature" map and a "stats" map.
func NewReviewer(rules ...string) (*Reviewer, error) {
	env, err := cel.NewEnv(
		cel.Variable("feature", cel.DynType),
		cel.Variable("stats", cel.DynType),
	)
	if err != nil {
		return nil, fmt.Errorf("create CEL environment: %w", err)
	}

	if len(rules) == 0 {
		rules = DefaultReviewRules()
	}

	return &Reviewer{
		env:      env,
		prgCache: make(map[string]cel.Program),
		rules:    rules,
	}, nil
}

// Review runs every rule against every feature result in the report and
// returns the flags raised, in report order. A rule that fails to compile or
// evaluate aborts the review.
func (r *Reviewer) Review(report *Report) ([]ReviewFlag, error) {
	stats := map[string]any{
		"average_risk_score": 0.0,
		"compliance_rate":    0.0,
	}
	if report.Stats != nil {
		stats["average_risk_score"] = report.Stats.AverageRiskScore
		stats["compliance_rate"] = report.Stats.ComplianceRate
	}

	var flags []ReviewFlag
	for _, fr := range report.Features {
		input := map[string]any{
			"feature": featureInput(fr),
			"stats":   stats,
		}
		for i, rule := range r.rules {
			matched, err := r.evaluateExpr(rule, input)
			if err != nil {
				return nil, fmt.Errorf("review rule %d: %w", i, err)
			}
			if matched {
				flags = append(flags, ReviewFlag{
					FeatureID:   fr.FeatureID,
					FeatureName: fr.FeatureName,
					Rule:        rule,
				})
			}
		}
	}
	return flags, nil
}

func featureInput(fr *FeatureResult) map[string]any {
	codes := make([]string, 0, len(fr.JurisdictionScores))
	for code := range fr.JurisdictionScores {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	var violated []string
	for _, code := range codes {
		violated = append(violated, fr.JurisdictionScores[code].ViolatedRegulations...)
	}

	return map[string]any{
		"feature_id":                  fr.FeatureID,
		"feature_name":                fr.FeatureName,
		"risk_score":                  fr.RiskScore,
		"risk_level":                  string(fr.RiskLevel),
		"non_compliant_jurisdictions": fr.NonCompliantJurisdictions,
		"violated_regulations":        dedupeStrings(violated, 0),
	}
}

func (r *Reviewer) evaluateExpr(expr string, input map[string]any) (bool, error) {
	r.mu.RLock()
	prg, hit := r.prgCache[expr]
	r.mu.RUnlock()

	if !hit {
		r.mu.Lock()
		// Double check
		if prg, hit = r.prgCache[expr]; !hit {
			ast, issues := r.env.Compile(expr)
			if issues != nil && issues.Err() != nil {
				r.mu.Unlock()
				return false, fmt.Errorf("compile: %w", issues.Err())
			}
			p, err := r.env.Program(ast,
				cel.InterruptCheckFrequency(100),
				cel.CostLimit(10000),
			)
			if err != nil {
				r.mu.Unlock()
				return false, fmt.Errorf("program: %w", err)
			}
			r.prgCache[expr] = p
			prg = p
		}
		r.mu.Unlock()
	}

	out, _, err := prg.Eval(input)
	if err != nil {
		return false, fmt.Errorf("eval: %w", err)
	}
	val, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("result not bool")
	}
	return val, nil
}
