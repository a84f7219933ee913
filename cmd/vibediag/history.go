package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/vibediag/internal/render"
	"github.com/dshills/vibediag/internal/store"
)

type historyFlags struct {
	user   string
	date   string
	latest string
	limit  int
	db     string
	format string
}

func newHistoryCmd(g *globalFlags) *cobra.Command {
	f := &historyFlags{}
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show saved assessments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd.Context(), g, f, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&f.user, "user", "", "User email (default from config)")
	flags.StringVar(&f.date, "date", "", "Only show this day (YYYY-MM-DD, UTC)")
	flags.StringVar(&f.latest, "latest", "", "Only show the most recent assessment of this questionnaire")
	flags.IntVar(&f.limit, "limit", 20, "Maximum number of assessments (0 for all)")
	flags.StringVar(&f.db, "db", "", "Database path (default from config)")
	flags.StringVar(&f.format, "format", "md", "Output format: json, md or text")
	return cmd
}

func runHistory(ctx context.Context, g *globalFlags, f *historyFlags, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := checkFormat(f.format); err != nil {
		return err
	}
	if f.date != "" {
		if _, err := time.Parse(store.DateLayout, f.date); err != nil {
			return exitError(exitInput, "invalid --date %q: want YYYY-MM-DD", f.date)
		}
	}
	if f.date != "" && f.latest != "" {
		return exitError(exitInput, "use either --date or --latest, not both")
	}
	e, err := loadEnv(g, stderr)
	if err != nil {
		return err
	}
	user, err := e.resolveUser(f.user, "no user: pass --user or set user in the config")
	if err != nil {
		return err
	}
	if f.latest != "" {
		cat, err := loadCatalog(e.cfg.CatalogDir)
		if err != nil {
			return err
		}
		if _, err := cat.Get(f.latest); err != nil {
			return exitError(exitInput, "%v", err)
		}
	}

	st, err := e.openStore(f.db)
	if err != nil {
		return err
	}
	defer st.Close()

	records, err := readHistory(ctx, st, user, f)
	if err != nil {
		return exitError(exitStorage, "failed to read history: %v", err)
	}

	if f.format == "json" {
		if records == nil {
			records = []store.Record{}
		}
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		fmt.Fprintln(stdout, string(data))
		return nil
	}
	out, err := markdownOutput(f.format, render.History(records))
	if err != nil {
		return err
	}
	fmt.Fprint(stdout, out)
	return nil
}

func readHistory(ctx context.Context, st *store.Store, user string, f *historyFlags) ([]store.Record, error) {
	switch {
	case f.latest != "":
		rec, err := st.Latest(ctx, user, f.latest)
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return []store.Record{*rec}, nil
	case f.date != "":
		return st.ListByDate(ctx, user, f.date)
	default:
		return st.ListByUser(ctx, user, f.limit)
	}
}
