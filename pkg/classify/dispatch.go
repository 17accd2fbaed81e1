package classify

import (
	"context"
	"log/slog"
	"strings"

	"github.com/stateline-hq/stateline/pkg/jurisdiction"
)

// complexSignals gates the re-validation pass for medium-tier jurisdictions.
// Features that never mention any of these are cheap enough that the rule
// verdict stands on its own.
var complexSignals = []string{
	"biometric", "health", "financial", "location", "behavioral", "tracking", "analytics",
}

// Outcome carries the verdicts for one jurisdiction plus how they were
// produced, so callers can account for strategy usage.
type Outcome struct {
	Verdicts     []*Verdict
	LLMAttempted bool
	LLMFailed    bool
	RuleVerdicts int
}

// Dispatcher routes each jurisdiction to a strategy based on its baseline
// tier. A nil matcher degrades every tier to rule evaluation.
type Dispatcher struct {
	rules *RuleMatcher
	llm   *LLMMatcher
}

func NewDispatcher(rules *RuleMatcher, llmMatcher *LLMMatcher) *Dispatcher {
	return &Dispatcher{rules: rules, llm: llmMatcher}
}

// Evaluate produces one verdict per feature for the jurisdiction. The only
// error it returns is context cancellation; strategy failures degrade to the
// rule matcher instead of failing the jurisdiction.
func (d *Dispatcher) Evaluate(ctx context.Context, features []*Feature, p *jurisdiction.Profile) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(features) == 0 {
		return &Outcome{}, nil
	}
	if d.llm == nil {
		return d.ruleOutcome(features, p), nil
	}

	switch p.BaselineTier {
	case jurisdiction.TierHigh:
		return d.evaluateHigh(ctx, features, p)
	case jurisdiction.TierMedium:
		return d.evaluateMedium(ctx, features, p)
	default:
		return d.ruleOutcome(features, p), nil
	}
}

func (d *Dispatcher) ruleOutcome(features []*Feature, p *jurisdiction.Profile) *Outcome {
	verdicts := d.rules.EvaluateAll(features, p)
	return &Outcome{Verdicts: verdicts, RuleVerdicts: len(verdicts)}
}

// evaluateHigh prefers the completion strategy and falls back to rule
// evaluation for the whole jurisdiction when the call fails. A short result
// list keeps the returned prefix and fills the tail from rules.
func (d *Dispatcher) evaluateHigh(ctx context.Context, features []*Feature, p *jurisdiction.Profile) (*Outcome, error) {
	out := &Outcome{LLMAttempted: true}

	verdicts, err := d.llm.EvaluateBatch(ctx, features, p)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		slog.Warn("classifier: completion strategy failed, using rule fallback",
			"jurisdiction", p.Code, "error", err)
		out.LLMFailed = true
		out.Verdicts = d.rules.EvaluateFallback(features, p)
		out.RuleVerdicts = len(out.Verdicts)
		return out, nil
	}

	if len(verdicts) < len(features) {
		slog.Warn("classifier: completion returned fewer results than features",
			"jurisdiction", p.Code, "expected", len(features), "got", len(verdicts))
		for _, f := range features[len(verdicts):] {
			verdicts = append(verdicts, d.rules.evaluate(f, p, fallbackConfidence))
			out.RuleVerdicts++
		}
	}
	out.Verdicts = verdicts
	return out, nil
}

// evaluateMedium starts from rule verdicts and re-validates with the
// completion strategy only when a feature mentions a complex data signal.
// Re-validation failure keeps the rule verdicts.
func (d *Dispatcher) evaluateMedium(ctx context.Context, features []*Feature, p *jurisdiction.Profile) (*Outcome, error) {
	out := d.ruleOutcome(features, p)
	if !anyComplex(features) {
		return out, nil
	}

	out.LLMAttempted = true
	verdicts, err := d.llm.EvaluateBatch(ctx, features, p)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		slog.Warn("classifier: re-validation failed, keeping rule verdicts",
			"jurisdiction", p.Code, "error", err)
		out.LLMFailed = true
		return out, nil
	}

	for i, v := range verdicts {
		if i >= len(out.Verdicts) {
			break
		}
		out.Verdicts[i] = v
		out.RuleVerdicts--
	}
	return out, nil
}

func anyComplex(features []*Feature) bool {
	for _, f := range features {
		text := foldText(f.Name + " " + f.Description + " " + strings.Join(f.DataTypes, " "))
		if containsAny(text, complexSignals) {
			return true
		}
	}
	return false
}
