package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/statement/logger"
	"github.com/etnz/statement/renderer"
	"github.com/google/subcommands"
)

type exploreCmd struct {
	extractor string
	raw       bool
}

func (*exploreCmd) Name() string { return "explore" }
func (*exploreCmd) Synopsis() string {
	return "show the raw tables of a statement and how rows are classified"
}
func (*exploreCmd) Usage() string {
	return `stx explore [-extractor pdf|json|gemini] [-raw] <input>

  Prints every page and table found in the input, each row with its kind
  (header, context, transaction or noise) and its number of filled cells.
`
}

func (c *exploreCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.extractor, "extractor", "", "Table extractor: pdf, json or gemini. Defaults from the input extension.")
	f.BoolVar(&c.raw, "raw", false, "Print raw markdown instead of rendering it.")
}

func (c *exploreCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: explore requires exactly one input file.")
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

	md := renderer.RenderTables(renderer.Explore(input, doc, cfg.Options(log).Classifier))
	if c.raw {
		fmt.Print(md)
	} else {
		printMarkdown(md)
	}
	return subcommands.ExitSuccess
}
