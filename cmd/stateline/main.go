// Command stateline evaluates product features against the privacy
// regulation profiles of the 50 US states and emits a bidirectional
// compliance risk report.
package main

import (
	"fmt"
	"io"
	"os"
)

const version = "1.0.0"

func main() {
	os.Exit(Run(os.Args, os.Stdout, os.Stderr))
}

// Run is the entrypoint for testing.
func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 2 {
		printUsage(stderr)
		return 2
	}

	switch args[1] {
	case "analyze":
		return runAnalyzeCmd(args[2:], stdout, stderr)
	case "states":
		return runStatesCmd(args[2:], stdout, stderr)
	case "runs":
		return runRunsCmd(args[2:], stdout, stderr)
	case "review-rules":
		return runReviewRulesCmd(args[2:], stdout, stderr)
	case "version", "--version":
		_, _ = fmt.Fprintln(stdout, "stateline "+version)
		return 0
	case "help", "--help", "-h":
		printUsage(stdout)
		return 0
	default:
		_, _ = fmt.Fprintf(stderr, "Unknown command: %s\n", args[1])
		printUsage(stderr)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "stateline — state privacy compliance analysis")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  stateline analyze -features <file> [flags]   Analyze features against state regulations")
	fmt.Fprintln(w, "  stateline states <list|show|export> [args]   Inspect the jurisdiction reference data")
	fmt.Fprintln(w, "  stateline runs <list|show|delete> [args]     Manage persisted analysis runs")
	fmt.Fprintln(w, "  stateline review-rules check [-file <path>] Validate review rule expressions")
	fmt.Fprintln(w, "  stateline version                            Print the version")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  STATELINE_LLM_PROVIDER    openai | anthropic | azure | off (default off)")
	fmt.Fprintln(w, "  STATELINE_CACHE           off | memory | redis (default off)")
	fmt.Fprintln(w, "  STATELINE_STORE           off | sqlite | postgres (default off)")
	fmt.Fprintln(w, "  STATELINE_ARCHIVE         off | fs | s3 | gcs (default off)")
	fmt.Fprintln(w, "")
}
