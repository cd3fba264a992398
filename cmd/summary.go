package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/statement"
	"github.com/etnz/statement/logger"
	"github.com/etnz/statement/renderer"
	"github.com/google/subcommands"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	extractor string
	html      string
	json      bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the holdings of a statement" }
func (*summaryCmd) Usage() string {
	return `stx summary [-extractor pdf|json|gemini] [-html <file.html>] [-json] <input>

  Extracts the statement and displays the extraction counts and, per symbol,
  the total quantity and net amount. With -json, prints one holding per line
  as JSON.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.extractor, "extractor", "", "Table extractor: pdf, json or gemini. Defaults from the input extension.")
	f.StringVar(&c.html, "html", "", "Write the summary as HTML to this file instead of the terminal.")
	f.BoolVar(&c.json, "json", false, "Print the holdings as JSON lines.")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: summary requires exactly one input file.")
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
	if c.json {
		if err := writeHoldings(os.Stdout, p); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing holdings: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	md := renderer.RenderReport(renderer.NewReport(input, res, p))
	if c.html == "" {
		printMarkdown(md)
		return subcommands.ExitSuccess
	}

	html, err := renderer.ToHTML(md)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering HTML: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := os.WriteFile(c.html, []byte(html), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", c.html, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Successfully wrote summary to %s\n", c.html)
	return subcommands.ExitSuccess
}

// writeHoldings writes the holdings of p to w, one JSON object per line.
func writeHoldings(w io.Writer, p *statement.Portfolio) error {
	enc := json.NewEncoder(w)
	for _, h := range p.Holdings {
		if err := enc.Encode(h); err != nil {
			return err
		}
	}
	return nil
}
