package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/etnz/statement"
	"github.com/etnz/statement/config"
	"github.com/etnz/statement/logger"
	"github.com/etnz/statement/sheet"
	"github.com/etnz/statement/store"
	"github.com/etnz/statement/xlsx"
	"github.com/google/subcommands"
)

type extractCmd struct {
	output    string
	db        string
	extractor string
}

func (*extractCmd) Name() string { return "extract" }
func (*extractCmd) Synopsis() string {
	return "extract the transactions of a statement into a spreadsheet"
}
func (*extractCmd) Usage() string {
	return `stx extract [-o <output>] [-db <file.sqlite>] [-extractor pdf|json|gemini] <input>

  Reads the tables of a brokerage statement, rebuilds its transactions and writes
  them followed by a portfolio summary with live price formulas.

  The output format follows the output extension: .xlsx, .csv or .jsonl.
  It defaults to <input>_extraction.<ext> next to the input.
`
}

func (c *extractCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output file. Defaults to <input>_extraction with the configured output extension.")
	f.StringVar(&c.db, "db", "", "Also save the run into this SQLite database.")
	f.StringVar(&c.extractor, "extractor", "", "Table extractor: pdf, json or gemini. Defaults from the input extension.")
}

func (c *extractCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: extract requires exactly one input file.")
		return subcommands.ExitUsageError
	}
	input := f.Arg(0)

	cfg, log, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}

	ctx = logger.WithContext(ctx, log)
	doc, err := openDocument(ctx, input, c.extractor, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %q: %v\n", input, err)
		return subcommands.ExitFailure
	}
	defer doc.Close()

	opts := cfg.Options(log)
	res, err := statement.Extract(doc, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error extracting %q: %v\n", input, err)
		return subcommands.ExitFailure
	}
	if res.Empty() {
		fmt.Println("no data found")
		return subcommands.ExitSuccess
	}
	p := statement.Aggregate(res.Records, opts)

	output := c.output
	if output == "" {
		output = defaultOutput(input, cfg.OutputExt)
	}
	if err := writeOutput(output, res, p, cfg, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", output, err)
		return subcommands.ExitFailure
	}

	if c.db != "" {
		if err := saveRun(ctx, c.db, input, res, p); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving run into %q: %v\n", c.db, err)
			return subcommands.ExitFailure
		}
	}

	fmt.Printf("Successfully wrote %d records and %d holdings to %s\n", len(res.Records), len(p.Holdings), output)
	return subcommands.ExitSuccess
}

// writeOutput writes the run to path in the format of its extension.
func writeOutput(path string, res *statement.Result, p *statement.Portfolio, cfg *config.Config, opts statement.Options) error {
	switch ext := filepath.Ext(path); ext {
	case ".xlsx":
		w, err := xlsx.New(cfg.SheetName)
		if err != nil {
			return err
		}
		defer w.Close()
		if _, err := statement.WriteSheet(w, res, p, cfg.Pricer(), opts); err != nil {
			return err
		}
		return w.SaveAs(path)

	case ".csv":
		m := sheet.NewMemory()
		if _, err := statement.WriteSheet(m, res, p, cfg.Pricer(), opts); err != nil {
			return err
		}
		return writeFile(path, func(f *os.File) error { return m.WriteCSV(f) })

	case ".jsonl":
		return writeFile(path, func(f *os.File) error {
			enc := json.NewEncoder(f)
			for _, r := range res.Records {
				if err := enc.Encode(r); err != nil {
					return err
				}
			}
			return nil
		})

	default:
		return fmt.Errorf("unsupported output format %q, want one of %v", ext, config.OutputExtensions)
	}
}

func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func saveRun(ctx context.Context, path, source string, res *statement.Result, p *statement.Portfolio) error {
	db, err := store.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.SaveRun(ctx, store.Run{
		Source:    source,
		CreatedAt: time.Now(),
		Result:    res,
		Portfolio: p,
	})
}
