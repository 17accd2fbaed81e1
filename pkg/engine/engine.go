package engine

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stateline-hq/stateline/pkg/cache"
	"github.com/stateline-hq/stateline/pkg/classify"
	"github.com/stateline-hq/stateline/pkg/jurisdiction"
	"github.com/stateline-hq/stateline/pkg/observability"
)

// Config tunes a single Engine instance.
type Config struct {
	// MaxConcurrency bounds how many jurisdictions are evaluated at once.
	MaxConcurrency int

	// CacheTTL bounds how long a cached per-jurisdiction result stays
	// valid. Ignored when Cache is nil.
	CacheTTL time.Duration

	// Cache, when set, short-circuits repeat evaluations of the same
	// feature set against an unchanged jurisdiction dataset.
	Cache cache.Cache

	// Observability, when set, records a span and RED metrics per run.
	Observability *observability.Provider

	// Timeline, when set, receives dispatch, fallback, cache, and skip
	// events so a run can be reconstructed afterwards.
	Timeline *observability.RunTimeline

	// SLO, when set, receives a latency/success observation per run and
	// per jurisdiction evaluation.
	SLO *observability.SLOTracker
}

// DefaultConfig returns the settings used when New receives a nil config.
func DefaultConfig() *Config {
	return &Config{
		MaxConcurrency: 8,
		CacheTTL:       time.Hour,
	}
}

// Metrics tracks engine activity across runs.
type Metrics struct {
	mu                   sync.RWMutex
	TotalRuns            int64         `json:"total_runs"`
	TotalVerdicts        int64         `json:"total_verdicts"`
	LLMCalls             int64         `json:"llm_calls"`
	LLMFailures          int64         `json:"llm_failures"`
	RuleVerdicts         int64         `json:"rule_verdicts"`
	CacheHits            int64         `json:"cache_hits"`
	CacheMisses          int64         `json:"cache_misses"`
	SkippedJurisdictions int64         `json:"skipped_jurisdictions"`
	LastRunAt            time.Time     `json:"last_run_at"`
	AvgRunDuration       time.Duration `json:"avg_run_duration"`
}

func (m *Metrics) recordRun(d time.Duration, verdicts, skipped int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalRuns++
	m.TotalVerdicts += int64(verdicts)
	m.SkippedJurisdictions += int64(skipped)
	m.LastRunAt = time.Now()
	if m.AvgRunDuration == 0 {
		m.AvgRunDuration = d
	} else {
		m.AvgRunDuration = (m.AvgRunDuration + d) / 2
	}
}

func (m *Metrics) recordOutcome(out *classify.Outcome) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if out.LLMAttempted {
		m.LLMCalls++
	}
	if out.LLMFailed {
		m.LLMFailures++
	}
	m.RuleVerdicts += int64(out.RuleVerdicts)
}

func (m *Metrics) recordCacheHit() {
	m.mu.Lock()
	m.CacheHits++
	m.mu.Unlock()
}

func (m *Metrics) recordCacheMiss() {
	m.mu.Lock()
	m.CacheMisses++
	m.mu.Unlock()
}

// Engine evaluates product features against the loaded jurisdiction dataset
// and assembles the bidirectional compliance report.
type Engine struct {
	store      *jurisdiction.Store
	dispatcher *classify.Dispatcher
	config     *Config
	metrics    *Metrics
}

// New creates an Engine. A nil config selects DefaultConfig.
func New(store *jurisdiction.Store, dispatcher *classify.Dispatcher, config *Config) *Engine {
	if config == nil {
		config = DefaultConfig()
	}
	cfg := *config
	if cfg.MaxConcurrency < 1 {
		cfg.MaxConcurrency = 1
	}

	return &Engine{
		store:      store,
		dispatcher: dispatcher,
		config:     &cfg,
		metrics:    &Metrics{},
	}
}

// GetMetrics returns a copy of the engine counters.
func (e *Engine) GetMetrics() *Metrics {
	e.metrics.mu.RLock()
	defer e.metrics.mu.RUnlock()

	return &Metrics{
		TotalRuns:            e.metrics.TotalRuns,
		TotalVerdicts:        e.metrics.TotalVerdicts,
		LLMCalls:             e.metrics.LLMCalls,
		LLMFailures:          e.metrics.LLMFailures,
		RuleVerdicts:         e.metrics.RuleVerdicts,
		CacheHits:            e.metrics.CacheHits,
		CacheMisses:          e.metrics.CacheMisses,
		SkippedJurisdictions: e.metrics.SkippedJurisdictions,
		LastRunAt:            e.metrics.LastRunAt,
		AvgRunDuration:       e.metrics.AvgRunDuration,
	}
}

// Analyze evaluates every feature against the requested jurisdictions and
// returns the assembled report. An empty targets slice selects the whole
// dataset. On cancellation the report carries whatever jurisdictions
// completed, Partial is set, and the context error is returned alongside.
func (e *Engine) Analyze(ctx context.Context, features []*classify.Feature, targets []string) (*Report, error) {
	start := time.Now()

	report := &Report{
		RunID:     uuid.NewString(),
		StartedAt: start.UTC(),
		States:    make(map[string]*StateResult),
	}

	var done func(error)
	if e.config.Observability != nil {
		ctx, done = e.config.Observability.TrackOperation(ctx, "engine.analyze",
			observability.RunOperation(report.RunID, len(features), len(targets))...)
	}
	e.recordEvent(observability.TimelineEntry{
		EntryType: observability.EntryTypeRunStart,
		RunID:     report.RunID,
		Summary:   "analysis run started",
		Details:   map[string]any{"features": len(features), "targets": len(targets)},
	})

	if fp, err := e.store.Fingerprint(); err != nil {
		slog.Warn("engine: dataset fingerprint failed", "error", err)
	} else {
		report.DatasetFingerprint = fp
	}

	profiles, skipped := e.resolveTargets(targets)
	report.SkippedJurisdictions = skipped
	for _, code := range skipped {
		e.recordEvent(observability.TimelineEntry{
			EntryType:    observability.EntryTypeSkip,
			RunID:        report.RunID,
			Jurisdiction: code,
			Summary:      "unknown jurisdiction code skipped",
		})
	}
	ordered := orderByTier(profiles)

	// Each goroutine writes only its own slot, so a cancelled run keeps
	// every jurisdiction that finished and drops the rest whole.
	results := make([]*StateResult, len(ordered))
	sem := make(chan struct{}, e.config.MaxConcurrency)
	var wg sync.WaitGroup

	for i, p := range ordered {
		wg.Add(1)
		go func(slot int, p *jurisdiction.Profile) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				return
			case sem <- struct{}{}:
			}
			defer func() { <-sem }()

			sr, err := e.evaluateJurisdiction(ctx, report.RunID, report.DatasetFingerprint, features, p)
			if err != nil {
				if ctx.Err() == nil {
					slog.Warn("engine: jurisdiction evaluation failed",
						"code", p.Code, "error", err)
				}
				return
			}
			results[slot] = sr
		}(i, p)
	}
	wg.Wait()

	for _, sr := range results {
		if sr != nil {
			report.States[sr.JurisdictionCode] = sr
		}
	}

	report.Features = ToFeatureView(features, report.States)
	report.Summary = Summarize(report.Features)
	report.Stats = computeStats(report.States, len(features))
	report.CompletedAt = time.Now().UTC()
	report.Partial = ctx.Err() != nil

	e.metrics.recordRun(time.Since(start), report.Stats.TotalVerdicts, len(skipped))

	err := ctx.Err()
	e.recordEvent(observability.TimelineEntry{
		EntryType: observability.EntryTypeRunFinish,
		RunID:     report.RunID,
		Summary:   "analysis run finished",
		Details:   map[string]any{"states": len(report.States), "partial": report.Partial},
	})
	if e.config.SLO != nil {
		e.config.SLO.Record(observability.SLOObservation{
			Operation: "analyze",
			Latency:   time.Since(start),
			Success:   err == nil,
		})
	}
	if done != nil {
		done(err)
	}
	return report, err
}

// recordEvent writes to the configured timeline, if any. Timeline failures
// never affect the run.
func (e *Engine) recordEvent(entry observability.TimelineEntry) {
	if e.config.Timeline == nil {
		return
	}
	if err := e.config.Timeline.Record(entry); err != nil {
		slog.Warn("engine: timeline record failed", "error", err)
	}
}

// resolveTargets maps requested codes to profiles, dropping duplicates and
// logging anything the dataset does not know.
func (e *Engine) resolveTargets(targets []string) ([]*jurisdiction.Profile, []string) {
	codes := targets
	if len(codes) == 0 {
		codes = e.store.Codes()
	}

	seen := make(map[string]struct{}, len(codes))
	profiles := make([]*jurisdiction.Profile, 0, len(codes))
	var skipped []string

	for _, code := range codes {
		p, ok := e.store.Get(code)
		if !ok {
			slog.Warn("engine: skipping unknown jurisdiction", "code", code)
			skipped = append(skipped, code)
			continue
		}
		if _, dup := seen[string(p.Code)]; dup {
			continue
		}
		seen[string(p.Code)] = struct{}{}
		profiles = append(profiles, p)
	}

	return profiles, skipped
}

// orderByTier sorts profiles high tier first, then medium, then low, by code
// within each tier. High-tier jurisdictions enter the worker pool first so
// the slow completion calls start as early as possible.
func orderByTier(profiles []*jurisdiction.Profile) []*jurisdiction.Profile {
	rank := map[jurisdiction.Tier]int{
		jurisdiction.TierHigh:   0,
		jurisdiction.TierMedium: 1,
		jurisdiction.TierLow:    2,
	}

	ordered := make([]*jurisdiction.Profile, len(profiles))
	copy(ordered, profiles)
	sort.SliceStable(ordered, func(i, j int) bool {
		ri, rj := rank[ordered[i].BaselineTier], rank[ordered[j].BaselineTier]
		if ri != rj {
			return ri < rj
		}
		return ordered[i].Code < ordered[j].Code
	})
	return ordered
}

func (e *Engine) evaluateJurisdiction(ctx context.Context, runID, fingerprint string, features []*classify.Feature, p *jurisdiction.Profile) (*StateResult, error) {
	evalStart := time.Now()
	var key string
	if e.config.Cache != nil {
		k, err := cache.Key("state-analysis", fingerprint, p.Code, features)
		if err != nil {
			slog.Warn("engine: cache key failed", "code", p.Code, "error", err)
		} else {
			key = k
		}
	}

	if key != "" {
		payload, ok, err := e.config.Cache.Get(ctx, key)
		if err != nil {
			slog.Warn("engine: cache read failed", "code", p.Code, "error", err)
		} else if ok {
			var sr StateResult
			if err := json.Unmarshal(payload, &sr); err == nil {
				sr.FromCache = true
				e.metrics.recordCacheHit()
				e.recordEvent(observability.TimelineEntry{
					EntryType:    observability.EntryTypeCacheHit,
					RunID:        runID,
					Jurisdiction: string(p.Code),
					Summary:      "served from cache",
				})
				return &sr, nil
			}
			slog.Warn("engine: discarding undecodable cache entry", "code", p.Code)
		}
		e.metrics.recordCacheMiss()
	}

	out, err := e.dispatcher.Evaluate(ctx, features, p)
	if e.config.SLO != nil {
		e.config.SLO.Record(observability.SLOObservation{
			Operation: "jurisdiction.evaluate",
			Latency:   time.Since(evalStart),
			Success:   err == nil,
		})
		// The batched completion call dominates the evaluation, so its
		// latency is approximated by the whole step. A failed call counts
		// against llm.batch even though the jurisdiction itself succeeds
		// on rule verdicts.
		if err == nil && out.LLMAttempted {
			e.config.SLO.Record(observability.SLOObservation{
				Operation: "llm.batch",
				Latency:   time.Since(evalStart),
				Success:   !out.LLMFailed,
			})
		}
	}
	if err != nil {
		return nil, err
	}
	e.metrics.recordOutcome(out)

	e.recordEvent(observability.TimelineEntry{
		EntryType:    observability.EntryTypeDispatch,
		RunID:        runID,
		Jurisdiction: string(p.Code),
		Summary:      "jurisdiction evaluated",
		Details: map[string]any{
			"tier":          string(p.BaselineTier),
			"llm_attempted": out.LLMAttempted,
			"rule_verdicts": out.RuleVerdicts,
		},
	})
	if out.LLMFailed {
		e.recordEvent(observability.TimelineEntry{
			EntryType:    observability.EntryTypeFallback,
			RunID:        runID,
			Jurisdiction: string(p.Code),
			Summary:      "completion strategy failed, rule verdicts used",
		})
	}

	sr := newStateResult(p, out.Verdicts)

	if key != "" {
		if payload, err := json.Marshal(sr); err == nil {
			if err := e.config.Cache.Set(ctx, key, payload, e.config.CacheTTL); err != nil {
				slog.Warn("engine: cache write failed", "code", p.Code, "error", err)
			}
		}
	}

	return sr, nil
}
