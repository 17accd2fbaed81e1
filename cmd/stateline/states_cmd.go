package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/stateline-hq/stateline/pkg/config"
	"github.com/stateline-hq/stateline/pkg/jurisdiction"
)

// runStatesCmd implements `stateline states`.
//
// Subcommands:
//
//	list              print code, name, tier, and enforcement per state
//	show <code>       print one profile in detail
//	export            write the full dataset as JSON to stdout
//
// Exit codes:
//
//	0 = success
//	2 = usage or runtime error
func runStatesCmd(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		_, _ = fmt.Fprintln(stderr, "Usage: stateline states <list|show|export>")
		return 2
	}

	cmd := flag.NewFlagSet("states", flag.ContinueOnError)
	cmd.SetOutput(stderr)
	var tierFilter string
	var regulation string
	cmd.StringVar(&tierFilter, "tier", "", "Filter list by baseline tier (low|medium|high)")
	cmd.StringVar(&regulation, "regulation", "", "Filter list by regulation name substring")
	if err := cmd.Parse(args[1:]); err != nil {
		return 2
	}

	store, err := buildStore(config.Load())
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	switch args[0] {
	case "list":
		return statesList(store, tierFilter, regulation, stdout, stderr)
	case "show":
		rest := cmd.Args()
		if len(rest) < 1 {
			_, _ = fmt.Fprintln(stderr, "Usage: stateline states show <code>")
			return 2
		}
		return statesShow(store, rest[0], stdout, stderr)
	case "export":
		if err := store.ExportJSON(stdout); err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 2
		}
		return 0
	default:
		_, _ = fmt.Fprintf(stderr, "Unknown states subcommand: %s\n", args[0])
		return 2
	}
}

func statesList(store *jurisdiction.Store, tierFilter, regulation string, stdout, stderr io.Writer) int {
	var profiles []*jurisdiction.Profile
	switch {
	case tierFilter != "":
		tier := jurisdiction.Tier(strings.ToLower(tierFilter))
		switch tier {
		case jurisdiction.TierLow, jurisdiction.TierMedium, jurisdiction.TierHigh:
		default:
			_, _ = fmt.Fprintf(stderr, "Unknown tier %q\n", tierFilter)
			return 2
		}
		profiles = store.ByTier(tier)
	case regulation != "":
		for _, code := range store.WithRegulation(regulation) {
			if p, ok := store.Get(code); ok {
				profiles = append(profiles, p)
			}
		}
	default:
		profiles = store.All()
	}

	_, _ = fmt.Fprintf(stdout, "%-4s %-22s %-8s %-10s %s\n", "CODE", "NAME", "TIER", "ENFORCE", "REGULATIONS")
	for _, p := range profiles {
		_, _ = fmt.Fprintf(stdout, "%-4s %-22s %-8s %-10s %s\n",
			p.Code, p.Name, p.BaselineTier, p.Enforcement, strings.Join(p.Regulations, "; "))
	}
	_, _ = fmt.Fprintf(stdout, "\n%d states\n", len(profiles))
	return 0
}

func statesShow(store *jurisdiction.Store, code string, stdout, stderr io.Writer) int {
	p, ok := store.Get(code)
	if !ok {
		_, _ = fmt.Fprintf(stderr, "Unknown state code %q\n", code)
		return 2
	}

	_, _ = fmt.Fprintf(stdout, "%s (%s)\n", p.Name, p.Code)
	_, _ = fmt.Fprintf(stdout, "  Tier:         %s\n", p.BaselineTier)
	_, _ = fmt.Fprintf(stdout, "  Enforcement:  %s\n", p.Enforcement)
	_, _ = fmt.Fprintf(stdout, "  Effective:    %s\n", p.EffectiveDate)
	_, _ = fmt.Fprintf(stdout, "  Regulations:  %s\n", strings.Join(p.Regulations, "; "))
	for _, r := range p.KeyRequirements {
		_, _ = fmt.Fprintf(stdout, "  Requirement:  %s\n", r)
	}
	for _, pen := range p.Penalties {
		_, _ = fmt.Fprintf(stdout, "  Penalty:      %s\n", pen)
	}
	if p.Notes != "" {
		_, _ = fmt.Fprintf(stdout, "  Notes:        %s\n", p.Notes)
	}
	return 0
}
