// Package observability provides analysis-specific instrumentation helpers.
package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Semantic convention attributes for analysis spans and metrics.
var (
	// Run attributes
	AttrRunID        = attribute.Key("stateline.run.id")
	AttrFeatureCount = attribute.Key("stateline.run.features")
	AttrTargetCount  = attribute.Key("stateline.run.targets")
	AttrPartial      = attribute.Key("stateline.run.partial")

	// Jurisdiction attributes
	AttrJurisdiction = attribute.Key("stateline.jurisdiction.code")
	AttrTier         = attribute.Key("stateline.jurisdiction.tier")
	AttrStrategy     = attribute.Key("stateline.jurisdiction.strategy")
	AttrFromCache    = attribute.Key("stateline.jurisdiction.from_cache")

	// Verdict attributes
	AttrRiskLevel = attribute.Key("stateline.verdict.risk_level")
	AttrRiskScore = attribute.Key("stateline.verdict.risk_score")
	AttrCompliant = attribute.Key("stateline.verdict.compliant")

	// Completion-service attributes
	AttrLLMProvider = attribute.Key("stateline.llm.provider")
	AttrLLMModel    = attribute.Key("stateline.llm.model")
	AttrLLMFallback = attribute.Key("stateline.llm.fallback")
)

// RunOperation creates attributes for a full analysis run.
func RunOperation(runID string, features, targets int) []attribute.KeyValue {
	return []attribute.KeyValue{
		AttrRunID.String(runID),
		AttrFeatureCount.Int(features),
		AttrTargetCount.Int(targets),
	}
}

// JurisdictionOperation creates attributes for one jurisdiction's evaluation.
func JurisdictionOperation(code, tier string) []attribute.KeyValue {
	return []attribute.KeyValue{
		AttrJurisdiction.String(code),
		AttrTier.String(tier),
	}
}

// CompletionCall creates attributes for one external completion call.
func CompletionCall(provider, model, jurisdiction string) []attribute.KeyValue {
	return []attribute.KeyValue{
		AttrLLMProvider.String(provider),
		AttrLLMModel.String(model),
		AttrJurisdiction.String(jurisdiction),
	}
}

// SpanFromContext returns the current span for adding events.
func SpanFromContext(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}

// AddEvent adds an event to the current span if one exists.
func AddEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.AddEvent(name, trace.WithAttributes(attrs...))
	}
}
