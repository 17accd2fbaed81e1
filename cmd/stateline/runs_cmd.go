package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/stateline-hq/stateline/pkg/config"
	"github.com/stateline-hq/stateline/pkg/reportstore"

	_ "github.com/lib/pq"         // postgres driver
	_ "modernc.org/sqlite"        // sqlite driver
)

// runRunsCmd implements `stateline runs`.
//
// Subcommands:
//
//	list [-limit n]   list persisted runs, newest first
//	show <run-id>     print one run's full report as JSON
//	delete <run-id>   remove a persisted run
//
// Requires STATELINE_STORE to be sqlite or postgres.
//
// Exit codes:
//
//	0 = success
//	1 = run not found
//	2 = usage or runtime error
func runRunsCmd(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		_, _ = fmt.Fprintln(stderr, "Usage: stateline runs <list|show|delete>")
		return 2
	}

	cmd := flag.NewFlagSet("runs", flag.ContinueOnError)
	cmd.SetOutput(stderr)
	var limit int
	cmd.IntVar(&limit, "limit", 20, "Maximum runs to list")
	if err := cmd.Parse(args[1:]); err != nil {
		return 2
	}

	cfg := config.Load()
	if cfg.StoreDriver == "" || cfg.StoreDriver == "off" {
		_, _ = fmt.Fprintln(stderr, "Error: STATELINE_STORE must be sqlite or postgres")
		return 2
	}
	if err := cfg.Validate(); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	ctx := context.Background()
	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	defer closeStore()

	switch args[0] {
	case "list":
		entries, err := st.List(ctx, limit)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 2
		}
		_, _ = fmt.Fprintf(stdout, "%-36s %-20s %-8s %-7s %-9s %s\n",
			"RUN", "CREATED", "RISK", "STATES", "FEATURES", "PARTIAL")
		for _, e := range entries {
			_, _ = fmt.Fprintf(stdout, "%-36s %-20s %-8s %-7d %-9d %v\n",
				e.RunID, e.CreatedAt.Format("2006-01-02 15:04:05"),
				e.OverallRisk, e.TotalStates, e.TotalFeatures, e.Partial)
		}
		_, _ = fmt.Fprintf(stdout, "\n%d runs\n", len(entries))
		return 0

	case "show":
		rest := cmd.Args()
		if len(rest) < 1 {
			_, _ = fmt.Fprintln(stderr, "Usage: stateline runs show <run-id>")
			return 2
		}
		report, err := st.Get(ctx, rest[0])
		if errors.Is(err, reportstore.ErrNotFound) {
			_, _ = fmt.Fprintf(stderr, "Run %s not found\n", rest[0])
			return 1
		}
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 2
		}
		payload, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 2
		}
		_, _ = fmt.Fprintln(stdout, string(payload))
		return 0

	case "delete":
		rest := cmd.Args()
		if len(rest) < 1 {
			_, _ = fmt.Fprintln(stderr, "Usage: stateline runs delete <run-id>")
			return 2
		}
		err := st.Delete(ctx, rest[0])
		if errors.Is(err, reportstore.ErrNotFound) {
			_, _ = fmt.Fprintf(stderr, "Run %s not found\n", rest[0])
			return 1
		}
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 2
		}
		_, _ = fmt.Fprintf(stdout, "Run %s deleted\n", rest[0])
		return 0

	default:
		_, _ = fmt.Fprintf(stderr, "Unknown runs subcommand: %s\n", args[0])
		return 2
	}
}

// openStore opens the configured report store. The returned closer shuts
// down the underlying connection.
func openStore(ctx context.Context, cfg *config.Config) (reportstore.Store, func(), error) {
	switch cfg.StoreDriver {
	case "sqlite":
		db, err := sql.Open("sqlite", cfg.StoreDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		st, err := reportstore.NewSQLite(db)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return st, func() { _ = db.Close() }, nil

	case "postgres":
		db, err := sql.Open("postgres", cfg.StoreDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		st := reportstore.NewPostgres(db)
		if err := st.Init(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return st, func() { _ = db.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
