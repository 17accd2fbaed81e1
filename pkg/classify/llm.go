package classify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/stateline-hq/stateline/pkg/jurisdiction"
	"github.com/stateline-hq/stateline/pkg/llm"
)

// Failure classes surfaced to the dispatcher. Any error from EvaluateBatch
// means the whole jurisdiction must fall back; these two distinguish the
// empty-payload and unparseable-payload cases in logs and tests.
var (
	ErrEmptyResponse     = errors.New("empty completion response")
	ErrMalformedResponse = errors.New("malformed completion response")
)

// Prompt construction limits. Descriptions and requirement lists are
// truncated so one call stays inside the model's context window even for
// large feature sets.
const (
	maxSummaryDescription  = 300
	maxSummaryRequirements = 5
)

// verdictBatchSchema validates the completion payload at the boundary.
// risk_level is deliberately untyped here: stray values are coerced from
// risk_score after validation rather than rejected.
const verdictBatchSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["feature_results"],
	"properties": {
		"feature_results": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["feature_id", "risk_score"],
				"properties": {
					"feature_id": {"type": "string"},
					"risk_score": {"type": "number", "minimum": 0, "maximum": 1},
					"risk_level": {"type": "string"},
					"is_compliant": {"type": "boolean"},
					"non_compliant_regulations": {"type": "array", "items": {"type": "string"}},
					"required_actions": {"type": "array", "items": {"type": "string"}},
					"reasoning": {"type": "string"},
					"confidence_score": {"type": "number", "minimum": 0, "maximum": 1}
				}
			}
		}
	}
}`

// LLMMatcher evaluates all features against one jurisdiction with a single
// completion call.
type LLMMatcher struct {
	client llm.Client
	schema *jsonschema.Schema
}

// NewLLMMatcher creates the LLM strategy around a completion client.
func NewLLMMatcher(client llm.Client) (*LLMMatcher, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	const schemaURL = "https://stateline.schemas.local/classify/verdict_batch.schema.json"
	if err := c.AddResource(schemaURL, strings.NewReader(verdictBatchSchema)); err != nil {
		return nil, fmt.Errorf("verdict schema load failed: %w", err)
	}
	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("verdict schema compile failed: %w", err)
	}
	return &LLMMatcher{client: client, schema: compiled}, nil
}

type featureSummary struct {
	FeatureID             string   `json:"feature_id"`
	FeatureName           string   `json:"feature_name"`
	FeatureDescription    string   `json:"feature_description"`
	DataTypes             []string `json:"data_types"`
	TechnicalRequirements []string `json:"technical_requirements"`
}

type llmFeatureResult struct {
	FeatureID               string   `json:"feature_id"`
	RiskScore               float64  `json:"risk_score"`
	RiskLevel               string   `json:"risk_level"`
	IsCompliant             *bool    `json:"is_compliant"`
	NonCompliantRegulations []string `json:"non_compliant_regulations"`
	RequiredActions         []string `json:"required_actions"`
	Reasoning               string   `json:"reasoning"`
	ConfidenceScore         *float64 `json:"confidence_score"`
}

type llmEnvelope struct {
	FeatureResults []llmFeatureResult `json:"feature_results"`
}

// EvaluateBatch classifies every feature against the jurisdiction in one
// completion call. Any returned error means no verdicts are usable and the
// caller must fall back; a short result list is not an error, only the
// returned prefix is converted and the caller fills the rest.
func (m *LLMMatcher) EvaluateBatch(ctx context.Context, features []*Feature, p *jurisdiction.Profile) ([]*Verdict, error) {
	if len(features) == 0 {
		return nil, nil
	}

	prompt, err := buildBatchPrompt(features, p)
	if err != nil {
		return nil, fmt.Errorf("build prompt for %s: %w", p.Code, err)
	}

	resp, err := m.client.Complete(ctx, &llm.Request{
		SystemPrompt: "You are a US state privacy compliance analyst. Respond with strict JSON only.",
		UserPrompt:   prompt,
	})
	if err != nil {
		return nil, fmt.Errorf("completion call for %s: %w", p.Code, err)
	}

	content := strings.TrimSpace(resp.Content)
	if content == "" {
		return nil, fmt.Errorf("jurisdiction %s: %w", p.Code, ErrEmptyResponse)
	}

	envelope, err := m.parsePayload(content)
	if err != nil {
		return nil, fmt.Errorf("jurisdiction %s: %w", p.Code, err)
	}
	if len(envelope.FeatureResults) == 0 {
		return nil, fmt.Errorf("jurisdiction %s: no feature results: %w", p.Code, ErrMalformedResponse)
	}

	return m.convert(envelope.FeatureResults, features, p), nil
}

// parsePayload tries strict parsing first, then a permissive pass that
// extracts the outermost balanced JSON object.
func (m *LLMMatcher) parsePayload(content string) (*llmEnvelope, error) {
	candidate := stripFences(content)

	envelope, strictErr := m.decodeAndValidate(candidate)
	if strictErr == nil {
		return envelope, nil
	}

	extracted, ok := extractBalancedObject(candidate)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, strictErr)
	}
	envelope, err := m.decodeAndValidate(extracted)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return envelope, nil
}

func (m *LLMMatcher) decodeAndValidate(payload string) (*llmEnvelope, error) {
	var value any
	if err := json.Unmarshal([]byte(payload), &value); err != nil {
		return nil, err
	}
	if err := m.schema.Validate(value); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var envelope llmEnvelope
	if err := json.Unmarshal([]byte(payload), &envelope); err != nil {
		return nil, err
	}
	return &envelope, nil
}

// convert maps raw results onto verdicts positionally. Results beyond the
// feature count are dropped; a shortfall leaves the tail features without
// verdicts for the caller to fill.
func (m *LLMMatcher) convert(results []llmFeatureResult, features []*Feature, p *jurisdiction.Profile) []*Verdict {
	verdicts := make([]*Verdict, 0, len(results))
	for i, r := range results {
		if i >= len(features) {
			slog.Warn("classifier: dropping surplus completion results",
				"jurisdiction", p.Code, "expected", len(features), "got", len(results))
			break
		}
		f := features[i]

		level := RiskLevel(r.RiskLevel)
		if level != RiskLow && level != RiskHigh {
			level = LevelForScore(r.RiskScore)
			slog.Warn("classifier: coerced risk_level from completion",
				"jurisdiction", p.Code, "feature", f.ID,
				"got", r.RiskLevel, "coerced", level)
		}

		compliant := true
		if r.IsCompliant != nil {
			compliant = *r.IsCompliant
		}
		confidence := 0.8
		if r.ConfidenceScore != nil {
			confidence = clamp01(*r.ConfidenceScore)
		}

		verdicts = append(verdicts, &Verdict{
			JurisdictionCode:    string(p.Code),
			JurisdictionName:    p.Name,
			FeatureID:           f.ID,
			FeatureName:         f.Name,
			RiskScore:           clamp01(r.RiskScore),
			RiskLevel:           level,
			IsCompliant:         compliant,
			ViolatedRegulations: uniqueRegulations(r.NonCompliantRegulations),
			RemediationActions:  r.RequiredActions,
			Reasoning:           r.Reasoning,
			ConfidenceScore:     confidence,
			Source:              SourceLLM,
		})
	}
	return verdicts
}

// uniqueRegulations drops repeated regulation names from a completion
// payload, keeping first-seen order. Violated regulations are a set.
func uniqueRegulations(regs []string) []string {
	if len(regs) == 0 {
		return regs
	}
	seen := make(map[string]bool, len(regs))
	out := make([]string, 0, len(regs))
	for _, reg := range regs {
		if seen[reg] {
			continue
		}
		seen[reg] = true
		out = append(out, reg)
	}
	return out
}

func buildBatchPrompt(features []*Feature, p *jurisdiction.Profile) (string, error) {
	summaries := make([]featureSummary, 0, len(features))
	for _, f := range features {
		reqs := f.TechnicalRequirements
		if len(reqs) > maxSummaryRequirements {
			reqs = reqs[:maxSummaryRequirements]
		}
		summaries = append(summaries, featureSummary{
			FeatureID:             f.ID,
			FeatureName:           f.Name,
			FeatureDescription:    truncateRunes(f.Description, maxSummaryDescription),
			DataTypes:             f.DataTypes,
			TechnicalRequirements: reqs,
		})
	}

	summaryJSON, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal feature summaries: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Perform a compliance analysis for %d features against %s (%s) privacy regulations.\n\n",
		len(features), p.Name, p.Code)
	fmt.Fprintf(&b, "STATE REGULATORY CONTEXT:\n")
	fmt.Fprintf(&b, "- State: %s (%s)\n", p.Name, p.Code)
	fmt.Fprintf(&b, "- Applicable Regulations: %s\n", strings.Join(p.Regulations, ", "))
	fmt.Fprintf(&b, "- Baseline Tier: %s\n", strings.ToUpper(string(p.BaselineTier)))
	fmt.Fprintf(&b, "- Enforcement Level: %s\n", strings.ToUpper(string(p.Enforcement)))
	fmt.Fprintf(&b, "- Key Requirements: %s\n", strings.Join(p.KeyRequirements, ", "))
	fmt.Fprintf(&b, "- Potential Penalties: %s\n", strings.Join(p.Penalties, ", "))
	fmt.Fprintf(&b, "- Effective Date: %s\n\n", p.EffectiveDate)
	fmt.Fprintf(&b, "FEATURES TO ANALYZE:\n%s\n\n", summaryJSON)
	b.WriteString(`For each feature, assess the sensitivity of the collected data types, map every key requirement against the feature, and decide whether it complies. risk_level must be "low" or "high" only; never use "medium" or "critical".

Respond with ONLY valid JSON in this exact shape:
{
  "feature_results": [
    {
      "feature_id": "feature_1",
      "risk_score": 0.3,
      "risk_level": "low",
      "is_compliant": true,
      "non_compliant_regulations": ["regulation name"],
      "required_actions": ["specific remediation step"],
      "reasoning": "explanation of the verdict",
      "confidence_score": 0.8
    }
  ]
}

Return one result per feature, in the same order as the input. Use only standard ASCII, double quotes, and lowercase true/false. No markdown fences, no text outside the JSON object.`)

	return b.String(), nil
}

// stripFences removes a leading ```json (or ```) fence and its closing fence.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}

// extractBalancedObject locates the outermost balanced {...} in s. Brace
// counting ignores string contents, which is good enough for the permissive
// recovery pass.
func extractBalancedObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

func truncateRunes(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen])
}
