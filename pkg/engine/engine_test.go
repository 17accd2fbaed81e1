package engine

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stateline-hq/stateline/pkg/cache"
	"github.com/stateline-hq/stateline/pkg/classify"
	"github.com/stateline-hq/stateline/pkg/jurisdiction"
	"github.com/stateline-hq/stateline/pkg/llm"
	"github.com/stateline-hq/stateline/pkg/observability"
)

func ilProfile() *jurisdiction.Profile {
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

func txProfile() *jurisdiction.Profile {
	return &jurisdiction.Profile{
		Code:            jurisdiction.CodeTX,
		Name:            "Texas",
		Regulations:     []string{"TDPSA"},
		BaselineTier:    jurisdiction.TierMedium,
		Enforcement:     jurisdiction.EnforcementModerate,
		KeyRequirements: []string{"Consumer data deletion on request"},
		EffectiveDate:   "2024-07-01",
	}
}

func alProfile() *jurisdiction.Profile {
	return &jurisdiction.Profile{
		Code:            jurisdiction.CodeAL,
		Name:            "Alabama",
		Regulations:     []string{"Alabama Data Breach Notification Act"},
		BaselineTier:    jurisdiction.TierLow,
		Enforcement:     jurisdiction.EnforcementLenient,
		KeyRequirements: []string{"Breach notification"},
		EffectiveDate:   "2018-06-01",
	}
}

func testStore(t *testing.T) *jurisdiction.Store {
	t.Helper()
	s := jurisdiction.NewStore()
	for _, p := range []*jurisdiction.Profile{ilProfile(), txProfile(), alProfile()} {
		require.NoError(t, s.Add(p))
	}
	return s
}

func analysisFeatures() []*classify.Feature {
	return []*classify.Feature{
		{
			ID:          "f1",
			Name:        "Face login",
			Description: "Authenticate users with facial recognition templates",
			DataTypes:   []string{"biometric"},
		},
		{
			ID:          "f2",
			Name:        "Newsletter signup",
			Description: "Collect email addresses with user permission and let users remove their subscription",
			DataTypes:   []string{"email"},
		},
	}
}

func rulesEngine(t *testing.T, config *Config) *Engine {
	t.Helper()
	return New(testStore(t), classify.NewDispatcher(classify.NewRuleMatcher(), nil), config)
}

// countingClient is a concurrency-safe completion stub for pool tests.
type countingClient struct {
	mu      sync.Mutex
	calls   int
	content string
}

func (c *countingClient) Complete(_ context.Context, _ *llm.Request) (*llm.Response, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return &llm.Response{Content: c.content, Model: "stub"}, nil
}

func (c *countingClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func TestNewClampsConcurrency(t *testing.T) {
	e := rulesEngine(t, &Config{MaxConcurrency: 0})
	require.Equal(t, 1, e.config.MaxConcurrency)

	e = rulesEngine(t, nil)
	require.Equal(t, DefaultConfig().MaxConcurrency, e.config.MaxConcurrency)
}

func TestAnalyzeAllJurisdictions(t *testing.T) {
	e := rulesEngine(t, nil)

	report, err := e.Analyze(context.Background(), analysisFeatures(), nil)
	require.NoError(t, err)
	require.NotEmpty(t, report.RunID)
	require.NotEmpty(t, report.DatasetFingerprint)
	require.False(t, report.Partial)
	require.Empty(t, report.SkippedJurisdictions)
	require.False(t, report.CompletedAt.Before(report.StartedAt))

	require.Len(t, report.States, 3)
	for _, code := range []string{"IL", "TX", "AL"} {
		sr, ok := report.States[code]
		require.True(t, ok, "missing state %s", code)
		require.Len(t, sr.Verdicts, 2)
		require.False(t, sr.FromCache)
	}

	il := report.States["IL"]
	require.Equal(t, 1, il.NonCompliantFeatures)
	require.InDelta(t, 0.5, il.RiskScore, 1e-9)
	require.InDelta(t, 0.5, il.ComplianceRate, 1e-9)

	require.Len(t, report.Features, 2)
	require.Equal(t, "f1", report.Features[0].FeatureID)
	require.Len(t, report.Features[0].JurisdictionScores, 3)
	require.Equal(t, []string{"IL", "TX"}, report.Features[0].NonCompliantJurisdictions)

	require.NotNil(t, report.Summary)
	require.Equal(t, 2, report.Summary.TotalNonCompliant)
	require.NotNil(t, report.Stats)
	require.Equal(t, 6, report.Stats.TotalVerdicts)
}

func TestAnalyzeTargets(t *testing.T) {
	e := rulesEngine(t, nil)

	report, err := e.Analyze(context.Background(), analysisFeatures(), []string{"IL"})
	require.NoError(t, err)
	require.Len(t, report.States, 1)
	require.Contains(t, report.States, "IL")
	require.Len(t, report.Features[0].JurisdictionScores, 1)
}

func TestAnalyzeSkipsUnknownCodes(t *testing.T) {
	e := rulesEngine(t, nil)

	report, err := e.Analyze(context.Background(), analysisFeatures(), []string{"IL", "ZZ"})
	require.NoError(t, err)
	require.Len(t, report.States, 1)
	require.Contains(t, report.States, "IL")
	require.Equal(t, []string{"ZZ"}, report.SkippedJurisdictions)
	require.False(t, report.Partial)
	require.Equal(t, int64(1), e.GetMetrics().SkippedJurisdictions)
}

func TestAnalyzeDeduplicatesTargets(t *testing.T) {
	e := rulesEngine(t, nil)

	report, err := e.Analyze(context.Background(), analysisFeatures(), []string{"il", "IL", "Il"})
	require.NoError(t, err)
	require.Len(t, report.States, 1)
	require.Len(t, report.States["IL"].Verdicts, 2)
	require.Equal(t, 2, report.Stats.TotalVerdicts)
}

func TestAnalyzeNoFeatures(t *testing.T) {
	e := rulesEngine(t, nil)

	report, err := e.Analyze(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Len(t, report.States, 3)
	for _, sr := range report.States {
		require.Empty(t, sr.Verdicts)
		require.Equal(t, classify.RiskLow, sr.RiskLevel)
	}
	require.Empty(t, report.Features)
	require.Zero(t, report.Stats.TotalVerdicts)
	require.Zero(t, report.Summary.TotalNonCompliant)
}

func TestAnalyzeCancelledContext(t *testing.T) {
	e := rulesEngine(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := e.Analyze(ctx, analysisFeatures(), nil)
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	require.True(t, report.Partial)
	require.Empty(t, report.States)
	require.Zero(t, report.Stats.TotalVerdicts)
}

func TestAnalyzeCachesSecondRun(t *testing.T) {
	store := testStore(t)
	dispatcher := classify.NewDispatcher(classify.NewRuleMatcher(), nil)
	e := New(store, dispatcher, &Config{Cache: cache.NewMemory()})

	first, err := e.Analyze(context.Background(), analysisFeatures(), nil)
	require.NoError(t, err)
	for _, sr := range first.States {
		require.False(t, sr.FromCache)
	}

	second, err := e.Analyze(context.Background(), analysisFeatures(), nil)
	require.NoError(t, err)
	require.Len(t, second.States, 3)
	for code, sr := range second.States {
		require.True(t, sr.FromCache, "state %s not served from cache", code)
		require.InDelta(t, first.States[code].RiskScore, sr.RiskScore, 1e-9)
		require.Len(t, sr.Verdicts, len(first.States[code].Verdicts))
	}

	m := e.GetMetrics()
	require.Equal(t, int64(3), m.CacheMisses)
	require.Equal(t, int64(3), m.CacheHits)
}

func TestAnalyzeCacheKeyedByFeatures(t *testing.T) {
	e := rulesEngine(t, &Config{Cache: cache.NewMemory()})

	_, err := e.Analyze(context.Background(), analysisFeatures(), []string{"AL"})
	require.NoError(t, err)

	changed := analysisFeatures()
	changed[0].Description = "Authenticate users with facial recognition and erase templates on request"
	report, err := e.Analyze(context.Background(), changed, []string{"AL"})
	require.NoError(t, err)
	require.False(t, report.States["AL"].FromCache)
	require.Equal(t, int64(2), e.GetMetrics().CacheMisses)
}

func TestAnalyzeMetrics(t *testing.T) {
	e := rulesEngine(t, nil)

	_, err := e.Analyze(context.Background(), analysisFeatures(), nil)
	require.NoError(t, err)

	m := e.GetMetrics()
	require.Equal(t, int64(1), m.TotalRuns)
	require.Equal(t, int64(6), m.TotalVerdicts)
	require.Equal(t, int64(6), m.RuleVerdicts)
	require.Zero(t, m.LLMCalls)
	require.Zero(t, m.LLMFailures)
	require.False(t, m.LastRunAt.IsZero())
}

func TestAnalyzeWithLLMClient(t *testing.T) {
	client := &countingClient{content: `{
		"feature_results": [
			{"feature_id": "f1", "risk_score": 0.82, "risk_level": "high", "is_compliant": false,
			 "non_compliant_regulations": ["BIPA"], "required_actions": ["Obtain written consent"],
			 "reasoning": "Biometric identifiers on strict-consent terms", "confidence_score": 0.9},
			{"feature_id": "f2", "risk_score": 0.2, "risk_level": "low", "is_compliant": true,
			 "reasoning": "No sensitive data", "confidence_score": 0.85}
		]
	}`}

	matcher, err := classify.NewLLMMatcher(client)
	require.NoError(t, err)
	dispatcher := classify.NewDispatcher(classify.NewRuleMatcher(), matcher)
	e := New(testStore(t), dispatcher, &Config{MaxConcurrency: 2})

	report, err := e.Analyze(context.Background(), analysisFeatures(), nil)
	require.NoError(t, err)
	require.Len(t, report.States, 3)

	// High tier goes straight to the completion strategy; the medium tier
	// re-validates because the first feature carries a biometric data type;
	// the low tier never calls out.
	require.Equal(t, 2, client.callCount())
	for _, v := range report.States["IL"].Verdicts {
		require.Equal(t, classify.SourceLLM, v.Source)
	}
	for _, v := range report.States["AL"].Verdicts {
		require.Equal(t, classify.SourceRules, v.Source)
	}

	m := e.GetMetrics()
	require.Equal(t, int64(2), m.LLMCalls)
	require.Zero(t, m.LLMFailures)
}

func TestAnalyzeRecordsTimelineAndSLO(t *testing.T) {
	timeline := observability.NewRunTimeline()
	tracker := observability.NewSLOTracker()
	for _, target := range observability.DefaultSLOTargets() {
		tracker.SetTarget(target)
	}

	e := rulesEngine(t, &Config{Timeline: timeline, SLO: tracker})

	report, err := e.Analyze(context.Background(), analysisFeatures(), []string{"IL", "AL", "ZZ"})
	require.NoError(t, err)

	entries := timeline.Query(observability.TimelineQuery{RunID: report.RunID})
	require.NotEmpty(t, entries)
	byType := make(map[observability.TimelineEntryType]int)
	for _, entry := range entries {
		byType[entry.EntryType]++
	}
	require.Equal(t, 1, byType[observability.EntryTypeRunStart])
	require.Equal(t, 1, byType[observability.EntryTypeRunFinish])
	require.Equal(t, 2, byType[observability.EntryTypeDispatch])
	require.Equal(t, 1, byType[observability.EntryTypeSkip])
	require.Zero(t, byType[observability.EntryTypeFallback])

	status, err := tracker.Status("analyze")
	require.NoError(t, err)
	require.Equal(t, 1, status.ObservationCount)
	require.True(t, status.InCompliance)

	status, err = tracker.Status("jurisdiction.evaluate")
	require.NoError(t, err)
	require.Equal(t, 2, status.ObservationCount)
}

func TestAnalyzeRecordsBatchCompletionSLO(t *testing.T) {
	tracker := observability.NewSLOTracker()
	for _, target := range observability.DefaultSLOTargets() {
		tracker.SetTarget(target)
	}

	client := &countingClient{content: `{
		"feature_results": [
			{"feature_id": "f1", "risk_score": 0.82, "risk_level": "high", "is_compliant": false,
			 "reasoning": "Biometric identifiers on strict-consent terms", "confidence_score": 0.9},
			{"feature_id": "f2", "risk_score": 0.2, "risk_level": "low", "is_compliant": true,
			 "reasoning": "No sensitive data", "confidence_score": 0.85}
		]
	}`}
	matcher, err := classify.NewLLMMatcher(client)
	require.NoError(t, err)
	dispatcher := classify.NewDispatcher(classify.NewRuleMatcher(), matcher)
	e := New(testStore(t), dispatcher, &Config{SLO: tracker})

	_, err = e.Analyze(context.Background(), analysisFeatures(), []string{"IL", "AL"})
	require.NoError(t, err)

	// Only the high-tier jurisdiction attempts a completion call.
	status, err := tracker.Status("llm.batch")
	require.NoError(t, err)
	require.Equal(t, 1, status.ObservationCount)
	require.InDelta(t, 1.0, status.CurrentSuccess, 1e-9)
}

func TestAnalyzeBatchCompletionSLOCountsFailures(t *testing.T) {
	tracker := observability.NewSLOTracker()
	for _, target := range observability.DefaultSLOTargets() {
		tracker.SetTarget(target)
	}

	client := &countingClient{content: "not a payload"}
	matcher, err := classify.NewLLMMatcher(client)
	require.NoError(t, err)
	dispatcher := classify.NewDispatcher(classify.NewRuleMatcher(), matcher)
	e := New(testStore(t), dispatcher, &Config{SLO: tracker})

	report, err := e.Analyze(context.Background(), analysisFeatures(), []string{"IL"})
	require.NoError(t, err)
	for _, v := range report.States["IL"].Verdicts {
		require.Equal(t, classify.SourceRules, v.Source)
	}

	// The run degrades to rule verdicts and succeeds, but the failed call
	// still burns llm.batch budget.
	status, err := tracker.Status("llm.batch")
	require.NoError(t, err)
	require.Equal(t, 1, status.ObservationCount)
	require.InDelta(t, 0.0, status.CurrentSuccess, 1e-9)
	require.False(t, status.InCompliance)
}
