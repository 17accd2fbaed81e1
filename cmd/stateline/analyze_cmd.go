package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/stateline-hq/stateline/pkg/archive"
	"github.com/stateline-hq/stateline/pkg/cache"
	"github.com/stateline-hq/stateline/pkg/classify"
	"github.com/stateline-hq/stateline/pkg/config"
	"github.com/stateline-hq/stateline/pkg/engine"
	"github.com/stateline-hq/stateline/pkg/jurisdiction"
	"github.com/stateline-hq/stateline/pkg/llm"
	"github.com/stateline-hq/stateline/pkg/observability"
)

// analyzeOutput wraps the report with the review flags raised against it
// and, when collected, the run timeline and SLO view.
type analyzeOutput struct {
	*engine.Report
	ReviewFlags []engine.ReviewFlag           `json:"review_flags,omitempty"`
	Timeline    []observability.TimelineEntry `json:"timeline,omitempty"`
	SLOStatus   []*observability.SLOStatus    `json:"slo_status,omitempty"`
}

// runTelemetry bundles the optional instrumentation built for one run.
type runTelemetry struct {
	provider *observability.Provider
	timeline *observability.RunTimeline
	slo      *observability.SLOTracker
}

// runAnalyzeCmd implements `stateline analyze`.
//
// Reads a feature list from a JSON file, evaluates it against the target
// jurisdictions, and writes the report as JSON.
//
// Exit codes:
//
//	0 = analysis completed
//	1 = analysis completed partially (cancelled)
//	2 = runtime error
func runAnalyzeCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("analyze", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	var (
		featuresPath string
		statesCSV    string
		configPath   string
		concurrency  int
		outPath      string
		noReview     bool
		archiveRun   bool
		withTimeline bool
	)

	cmd.StringVar(&featuresPath, "features", "", "Path to features JSON file (REQUIRED)")
	cmd.StringVar(&statesCSV, "states", "", "Comma-separated jurisdiction codes (default all)")
	cmd.StringVar(&configPath, "config", "", "Path to YAML config file")
	cmd.IntVar(&concurrency, "concurrency", 0, "Jurisdiction worker pool size (overrides config)")
	cmd.StringVar(&outPath, "out", "", "Write report to file instead of stdout")
	cmd.BoolVar(&noReview, "no-review", false, "Skip review rule evaluation")
	cmd.BoolVar(&archiveRun, "archive", false, "Archive the report via STATELINE_ARCHIVE*")
	cmd.BoolVar(&withTimeline, "timeline", false, "Include the run timeline and SLO status in the output")

	if err := cmd.Parse(args); err != nil {
		return 2
	}

	if featuresPath == "" {
		_, _ = fmt.Fprintln(stderr, "Error: --features is required")
		return 2
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	if concurrency > 0 {
		cfg.MaxConcurrency = concurrency
	}
	if statesCSV != "" {
		cfg.TargetStates = splitCSV(statesCSV)
	}
	configureLogging(cfg, stderr)

	features, err := loadFeatures(featuresPath)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng, tel, err := buildEngine(ctx, cfg, withTimeline)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	if tel.provider != nil {
		defer func() { _ = tel.provider.Shutdown(context.Background()) }()
	}

	report, runErr := eng.Analyze(ctx, features, cfg.TargetStates)
	if runErr != nil && report == nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", runErr)
		return 2
	}

	out := &analyzeOutput{Report: report}
	if tel.timeline != nil {
		out.Timeline = tel.timeline.Query(observability.TimelineQuery{RunID: report.RunID})
		out.SLOStatus = sloStatuses(tel.slo)
	}
	if !noReview {
		flags, err := reviewReport(cfg, report)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 2
		}
		out.ReviewFlags = flags
	}

	payload, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: encode report: %v\n", err)
		return 2
	}

	if err := persistReport(ctx, cfg, report, payload, archiveRun, stderr); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if outPath != "" {
		if err := os.WriteFile(outPath, payload, 0o600); err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: write report: %v\n", err)
			return 2
		}
		_, _ = fmt.Fprintf(stdout, "Report %s written to %s\n", report.RunID, outPath)
	} else {
		_, _ = fmt.Fprintln(stdout, string(payload))
	}

	if report.Partial {
		_, _ = fmt.Fprintln(stderr, "Warning: run cancelled, report is partial")
		return 1
	}
	return 0
}

func loadConfig(path string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.LoadFile(path)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.Load()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func configureLogging(cfg *config.Config, stderr io.Writer) {
	handler := slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})
	slog.SetDefault(slog.New(handler))
}

func loadFeatures(path string) ([]*classify.Feature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read features %s: %w", path, err)
	}

	var features []*classify.Feature
	if err := json.Unmarshal(data, &features); err != nil {
		return nil, fmt.Errorf("parse features %s: %w", path, err)
	}
	if len(features) == 0 {
		return nil, fmt.Errorf("features file %s is empty", path)
	}
	for i, f := range features {
		if f.ID == "" {
			return nil, fmt.Errorf("feature %d has no id", i)
		}
	}
	return features, nil
}

// buildStore returns the jurisdiction dataset, with YAML overrides from the
// configured profile directory applied over the built-in table.
func buildStore(cfg *config.Config) (*jurisdiction.Store, error) {
	store := jurisdiction.NewStoreWithDefaults()
	if cfg.ProfileDir == "" {
		return store, nil
	}

	overrides, err := jurisdiction.LoadDir(cfg.ProfileDir)
	if err != nil {
		return nil, fmt.Errorf("load profile overrides: %w", err)
	}
	if err := store.ApplyOverrides(overrides); err != nil {
		return nil, fmt.Errorf("apply profile overrides: %w", err)
	}
	return store, nil
}

func buildEngine(ctx context.Context, cfg *config.Config, withTimeline bool) (*engine.Engine, *runTelemetry, error) {
	store, err := buildStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	client, err := llm.NewClientFromEnv()
	if err != nil {
		return nil, nil, fmt.Errorf("completion client: %w", err)
	}

	var matcher *classify.LLMMatcher
	if client != nil {
		matcher, err = classify.NewLLMMatcher(client)
		if err != nil {
			return nil, nil, fmt.Errorf("completion matcher: %w", err)
		}
	}
	dispatcher := classify.NewDispatcher(classify.NewRuleMatcher(), matcher)

	engCfg := &engine.Config{
		MaxConcurrency: cfg.MaxConcurrency,
		CacheTTL:       cfg.CacheTTL,
	}

	if engCfg.Cache, err = cache.NewFromEnv(); err != nil {
		return nil, nil, fmt.Errorf("cache: %w", err)
	}

	tel := &runTelemetry{}
	if cfg.Observability.Enabled {
		tel.provider, err = observability.New(ctx, &observability.Config{
			ServiceName:    "stateline",
			ServiceVersion: version,
			Environment:    cfg.Observability.Environment,
			OTLPEndpoint:   cfg.Observability.OTLPEndpoint,
			SampleRate:     cfg.Observability.SampleRate,
			Enabled:        true,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("observability: %w", err)
		}
		engCfg.Observability = tel.provider
	}

	if withTimeline || cfg.Observability.Enabled {
		tel.timeline = observability.NewRunTimeline()
		tel.slo = observability.NewSLOTracker()
		for _, target := range observability.DefaultSLOTargets() {
			tel.slo.SetTarget(target)
		}
		engCfg.Timeline = tel.timeline
		engCfg.SLO = tel.slo
	}

	return engine.New(store, dispatcher, engCfg), tel, nil
}

// sloStatuses reports the state of every default SLO after a run.
func sloStatuses(tracker *observability.SLOTracker) []*observability.SLOStatus {
	var statuses []*observability.SLOStatus
	for _, target := range observability.DefaultSLOTargets() {
		status, err := tracker.Status(target.Operation)
		if err != nil {
			continue
		}
		statuses = append(statuses, status)
	}
	return statuses
}

func reviewReport(cfg *config.Config, report *engine.Report) ([]engine.ReviewFlag, error) {
	rules, err := loadReviewRules(cfg.ReviewRulesFile)
	if err != nil {
		return nil, err
	}

	reviewer, err := engine.NewReviewer(rules...)
	if err != nil {
		return nil, fmt.Errorf("review rules: %w", err)
	}
	flags, err := reviewer.Review(report)
	if err != nil {
		return nil, fmt.Errorf("review: %w", err)
	}
	return flags, nil
}

// persistReport saves the run to the configured store and, when requested,
// the archive. Persistence failures are reported but the report itself has
// already been computed, so they surface as errors only after it is safe.
func persistReport(ctx context.Context, cfg *config.Config, report *engine.Report, payload []byte, archiveRun bool, stderr io.Writer) error {
	if cfg.StoreDriver != "" && cfg.StoreDriver != "off" {
		st, closeStore, err := openStore(ctx, cfg)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer closeStore()
		if err := st.Save(ctx, report); err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		_, _ = fmt.Fprintf(stderr, "Run %s saved to %s store\n", report.RunID, cfg.StoreDriver)
	}

	if archiveRun {
		arch, err := archive.NewFromEnv(ctx)
		if err != nil {
			return fmt.Errorf("archive: %w", err)
		}
		if arch == nil {
			return fmt.Errorf("archive requested but STATELINE_ARCHIVE is off")
		}
		digest, err := arch.Put(ctx, report.RunID, payload)
		if err != nil {
			return fmt.Errorf("archive report: %w", err)
		}
		_, _ = fmt.Fprintf(stderr, "Report archived (%s)\n", digest)
	}

	return nil
}
