package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"STATELINE_TARGET_STATES", "STATELINE_MAX_CONCURRENCY",
		"STATELINE_CACHE_TTL", "STATELINE_STORE", "STATELINE_STORE_DSN",
		"STATELINE_PROFILE_DIR", "STATELINE_REVIEW_RULES",
		"STATELINE_LOG_LEVEL", "STATELINE_LLM_PROVIDER",
		"STATELINE_CACHE", "STATELINE_ARCHIVE", "STATELINE_OTEL_ENABLED",
	} {
		t.Setenv(k, "")
	}
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Run(append([]string{"stateline"}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeFeaturesFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "features.json")
	payload := `[
		{
			"id": "f1",
			"name": "Face login",
			"description": "Authenticate users with facial recognition",
			"data_types": ["biometric"]
		},
		{
			"id": "f2",
			"name": "Newsletter",
			"description": "Weekly product email"
		}
	]`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o600))
	return path
}

func TestRunVersion(t *testing.T) {
	code, out, _ := runCLI(t, "version")
	require.Equal(t, 0, code)
	require.Equal(t, "stateline "+version+"\n", out)
}

func TestRunHelp(t *testing.T) {
	code, out, _ := runCLI(t, "help")
	require.Equal(t, 0, code)
	require.Contains(t, out, "stateline analyze")
	require.Contains(t, out, "STATELINE_LLM_PROVIDER")
}

func TestRunUnknownCommand(t *testing.T) {
	code, _, errOut := runCLI(t, "bogus")
	require.Equal(t, 2, code)
	require.Contains(t, errOut, "Unknown command: bogus")
}

func TestRunNoArgs(t *testing.T) {
	code, _, errOut := runCLI(t)
	require.Equal(t, 2, code)
	require.Contains(t, errOut, "Usage:")
}

func TestStatesList(t *testing.T) {
	clearEnv(t)
	code, out, _ := runCLI(t, "states", "list")
	require.Equal(t, 0, code)
	require.Contains(t, out, "Illinois")
	require.Contains(t, out, "Wyoming")
	require.Contains(t, out, "50 states")
}

func TestStatesListTierFilter(t *testing.T) {
	clearEnv(t)
	code, out, _ := runCLI(t, "states", "list", "-tier", "high")
	require.Equal(t, 0, code)
	require.Contains(t, out, "Illinois")
	require.Contains(t, out, "California")
	require.NotContains(t, out, "Wyoming")
}

func TestStatesListBadTier(t *testing.T) {
	clearEnv(t)
	code, _, errOut := runCLI(t, "states", "list", "-tier", "extreme")
	require.Equal(t, 2, code)
	require.Contains(t, errOut, "Unknown tier")
}

func TestStatesShow(t *testing.T) {
	clearEnv(t)
	code, out, _ := runCLI(t, "states", "show", "IL")
	require.Equal(t, 0, code)
	require.Contains(t, out, "Illinois (IL)")
	require.Contains(t, out, "BIPA")
}

func TestStatesShowUnknown(t *testing.T) {
	clearEnv(t)
	code, _, errOut := runCLI(t, "states", "show", "ZZ")
	require.Equal(t, 2, code)
	require.Contains(t, errOut, "Unknown state code")
}

func TestStatesExport(t *testing.T) {
	clearEnv(t)
	code, out, _ := runCLI(t, "states", "export")
	require.Equal(t, 0, code)

	var dataset map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(out), &dataset))
	require.Len(t, dataset, 50)
	require.Contains(t, dataset, "IL")
}

func TestAnalyzeRulesOnly(t *testing.T) {
	clearEnv(t)
	features := writeFeaturesFile(t)

	code, out, _ := runCLI(t, "analyze", "-features", features, "-states", "IL,TX,WY")
	require.Equal(t, 0, code)

	var report struct {
		RunID    string                     `json:"run_id"`
		States   map[string]json.RawMessage `json:"states"`
		Features []struct {
			FeatureID string `json:"feature_id"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.NotEmpty(t, report.RunID)
	require.Len(t, report.States, 3)
	require.Len(t, report.Features, 2)
}

func TestAnalyzeWritesOutFile(t *testing.T) {
	clearEnv(t)
	features := writeFeaturesFile(t)
	outPath := filepath.Join(t.TempDir(), "report.json")

	code, out, _ := runCLI(t, "analyze",
		"-features", features, "-states", "CA", "-out", outPath, "-no-review")
	require.Equal(t, 0, code)
	require.Contains(t, out, "written to "+outPath)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.Contains(t, string(data), `"run_id"`)
}

func TestAnalyzeMissingFeaturesFlag(t *testing.T) {
	clearEnv(t)
	code, _, errOut := runCLI(t, "analyze")
	require.Equal(t, 2, code)
	require.Contains(t, errOut, "--features is required")
}

func TestAnalyzeBadFeaturesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "features.json")
	require.NoError(t, os.WriteFile(path, []byte(`[]`), 0o600))

	code, _, errOut := runCLI(t, "analyze", "-features", path)
	require.Equal(t, 2, code)
	require.Contains(t, errOut, "empty")
}

func TestAnalyzeArchiveOffFails(t *testing.T) {
	clearEnv(t)
	features := writeFeaturesFile(t)

	code, _, errOut := runCLI(t, "analyze", "-features", features, "-states", "AL", "-archive")
	require.Equal(t, 2, code)
	require.Contains(t, errOut, "STATELINE_ARCHIVE is off")
}

func TestAnalyzeAndRunsRoundTrip(t *testing.T) {
	clearEnv(t)
	dsn := filepath.Join(t.TempDir(), "runs.db")
	t.Setenv("STATELINE_STORE", "sqlite")
	t.Setenv("STATELINE_STORE_DSN", dsn)

	features := writeFeaturesFile(t)
	code, out, errOut := runCLI(t, "analyze", "-features", features, "-states", "IL,AL")
	require.Equal(t, 0, code)
	require.Contains(t, errOut, "saved to sqlite store")

	var report struct {
		RunID string `json:"run_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))

	code, out, _ = runCLI(t, "runs", "list")
	require.Equal(t, 0, code)
	require.Contains(t, out, report.RunID)
	require.Contains(t, out, "1 runs")

	code, out, _ = runCLI(t, "runs", "show", report.RunID)
	require.Equal(t, 0, code)
	require.Contains(t, out, `"run_id": "`+report.RunID+`"`)

	code, out, _ = runCLI(t, "runs", "delete", report.RunID)
	require.Equal(t, 0, code)
	require.Contains(t, out, "deleted")

	code, _, errOut = runCLI(t, "runs", "show", report.RunID)
	require.Equal(t, 1, code)
	require.Contains(t, errOut, "not found")
}

func TestRunsRequiresStore(t *testing.T) {
	clearEnv(t)
	code, _, errOut := runCLI(t, "runs", "list")
	require.Equal(t, 2, code)
	require.Contains(t, errOut, "STATELINE_STORE")
}

func TestReviewRulesCheckDefaults(t *testing.T) {
	clearEnv(t)
	code, out, _ := runCLI(t, "review-rules", "check")
	require.Equal(t, 0, code)
	require.Contains(t, out, "3 rules OK")
}

func TestReviewRulesCheckFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "rules.cel")
	rules := strings.Join([]string{
		"# escalate hot features",
		`feature.risk_score >= 0.9`,
		"",
		`stats.compliance_rate < 0.5`,
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(rules), 0o600))

	code, out, _ := runCLI(t, "review-rules", "check", "-file", path)
	require.Equal(t, 0, code)
	require.Contains(t, out, "2 rules OK")
}

func TestReviewRulesCheckBadRule(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "rules.cel")
	require.NoError(t, os.WriteFile(path, []byte("feature.risk_score >=\n"), 0o600))

	code, _, errOut := runCLI(t, "review-rules", "check", "-file", path)
	require.Equal(t, 1, code)
	require.Contains(t, errOut, "Rule check failed")
}

func TestReviewRulesList(t *testing.T) {
	clearEnv(t)
	code, out, _ := runCLI(t, "review-rules", "list")
	require.Equal(t, 0, code)
	require.Contains(t, out, `feature.risk_level == "high"`)
}

func TestSplitCSV(t *testing.T) {
	require.Equal(t, []string{"IL", "TX"}, splitCSV("il, tx"))
	require.Equal(t, []string{"CA"}, splitCSV(",ca,,"))
	require.Empty(t, splitCSV(" , "))
}

func TestAnalyzeTimelineOutput(t *testing.T) {
	clearEnv(t)
	features := writeFeaturesFile(t)

	code, out, _ := runCLI(t, "analyze",
		"-features", features, "-states", "IL,AL", "-no-review", "-timeline")
	require.Equal(t, 0, code)

	var report struct {
		RunID    string `json:"run_id"`
		Timeline []struct {
			EntryType string `json:"entry_type"`
			RunID     string `json:"run_id"`
		} `json:"timeline"`
		SLOStatus []struct {
			SLOID            string `json:"slo_id"`
			Operation        string `json:"operation"`
			ObservationCount int    `json:"observation_count"`
		} `json:"slo_status"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))

	require.NotEmpty(t, report.Timeline)
	types := make(map[string]int)
	for _, e := range report.Timeline {
		require.Equal(t, report.RunID, e.RunID)
		types[e.EntryType]++
	}
	require.Equal(t, 1, types["RUN_START"])
	require.Equal(t, 1, types["RUN_FINISH"])
	require.Equal(t, 2, types["DISPATCH"])

	ops := make(map[string]int)
	for _, s := range report.SLOStatus {
		ops[s.Operation] = s.ObservationCount
	}
	require.Equal(t, 1, ops["analyze"])
	require.Equal(t, 2, ops["jurisdiction.evaluate"])
	require.Contains(t, ops, "llm.batch")
}

func TestAnalyzeWithoutTimelineFlag(t *testing.T) {
	clearEnv(t)
	features := writeFeaturesFile(t)

	code, out, _ := runCLI(t, "analyze", "-features", features, "-states", "AL", "-no-review")
	require.Equal(t, 0, code)
	require.NotContains(t, out, `"timeline"`)
	require.NotContains(t, out, `"slo_status"`)
}
