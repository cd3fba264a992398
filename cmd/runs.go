package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/statement/renderer"
	"github.com/etnz/statement/store"
	"github.com/google/subcommands"
)

type runsCmd struct {
	db      string
	run     string
	records bool
}

func (*runsCmd) Name() string     { return "runs" }
func (*runsCmd) Synopsis() string { return "list the extraction runs saved with extract -db" }
func (*runsCmd) Usage() string {
	return `stx runs -db <file.sqlite> [-run <id> [-records]]

  Lists the saved runs, most recent first, or the holdings of one run.
  With -records, prints the records of the run as JSON lines instead.
`
}

func (c *runsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.db, "db", "", "SQLite database written by extract -db.")
	f.StringVar(&c.run, "run", "", "Show the holdings of this run.")
	f.BoolVar(&c.records, "records", false, "Print the records of the run as JSON lines.")
}

func (c *runsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.db == "" {
		fmt.Fprintln(os.Stderr, "Error: -db is required.")
		return subcommands.ExitUsageError
	}
	if c.records && c.run == "" {
		fmt.Fprintln(os.Stderr, "Error: -records requires -run.")
		return subcommands.ExitUsageError
	}
	if _, err := os.Stat(c.db); err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		return subcommands.ExitFailure
	}
	db, err := store.Open(c.db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		return subcommands.ExitFailure
	}
	defer db.Close()

	if c.records {
		if err := writeRecords(ctx, os.Stdout, db, c.run); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading database: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	var md string
	if c.run == "" {
		md, err = runsMarkdown(ctx, db)
	} else {
		md, err = holdingsMarkdown(ctx, db, c.run)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading database: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}

func runsMarkdown(ctx context.Context, db *store.DB) (string, error) {
	runs, err := db.Runs(ctx)
	if err != nil {
		return "", err
	}
	return renderer.RenderRuns(renderer.NewRunList(runs)), nil
}

func holdingsMarkdown(ctx context.Context, db *store.DB, run string) (string, error) {
	holdings, err := db.Holdings(ctx, run)
	if err != nil {
		return "", err
	}
	return renderer.RenderRunHoldings(renderer.NewRunHoldings(run, holdings)), nil
}

// writeRecords writes the saved records of run to w, one JSON object per line.
func writeRecords(ctx context.Context, w io.Writer, db *store.DB, run string) error {
	records, err := db.RecordsJSON(ctx, run)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no records for run %q", run)
	}
	for _, r := range records {
		if _, err := fmt.Fprintf(w, "%s\n", r); err != nil {
			return err
		}
	}
	return nil
}
