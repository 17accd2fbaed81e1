// Package classify produces compliance verdicts for (feature, jurisdiction)
// pairs. Two interchangeable strategies are provided, a deterministic
// rule-based matcher and an LLM-batched matcher, plus the tiered dispatcher
// that selects between them per jurisdiction.
package classify

// RiskThreshold is the risk_score at and above which a verdict is high risk.
// The value is an advisory tuning constant carried over from the scoring
// model, not a legal threshold.
const RiskThreshold = 0.6

// RiskLevel is a verdict's binary risk classification. Exactly two values
// exist here; the three-tier jurisdiction baseline is a separate axis used
// only for strategy routing.
type RiskLevel string

const (
	RiskLow  RiskLevel = "low"
	RiskHigh RiskLevel = "high"
)

// LevelForScore derives the binary risk level from a risk score.
func LevelForScore(score float64) RiskLevel {
	if score >= RiskThreshold {
		return RiskHigh
	}
	return RiskLow
}

// Source identifies which strategy produced a verdict.
type Source string

const (
	SourceRules Source = "rules"
	SourceLLM   Source = "llm"
)

// Feature is one product feature under analysis. Features are produced
// upstream and never mutated here.
type Feature struct {
	ID                       string   `json:"id"`
	Name                     string   `json:"name"`
	Description              string   `json:"description"`
	Content                  string   `json:"content,omitempty"`
	DataTypes                []string `json:"data_types,omitempty"`
	TechnicalRequirements    []string `json:"technical_requirements,omitempty"`
	ComplianceConsiderations []string `json:"compliance_considerations,omitempty"`
}

// Verdict is the atomic compliance judgment for one (feature, jurisdiction)
// pair. RiskLevel is always derived from RiskScore via RiskThreshold.
type Verdict struct {
	JurisdictionCode    string    `json:"jurisdiction_code"`
	JurisdictionName    string    `json:"jurisdiction_name"`
	FeatureID           string    `json:"feature_id"`
	FeatureName         string    `json:"feature_name"`
	RiskScore           float64   `json:"risk_score"`
	RiskLevel           RiskLevel `json:"risk_level"`
	IsCompliant         bool      `json:"is_compliant"`
	ViolatedRegulations []string  `json:"violated_regulations,omitempty"`
	RemediationActions  []string  `json:"remediation_actions,omitempty"`
	Reasoning           string    `json:"reasoning"`
	ConfidenceScore     float64   `json:"confidence_score"`
	Source              Source    `json:"source"`
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
