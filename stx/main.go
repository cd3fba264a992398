// Command stx turns brokerage statements into transaction sheets with a
// portfolio summary.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/etnz/statement/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

var (
	inputs    = predict.Files("*")
	extractor = predict.Set(cmd.Extractors)
)

// completion describes the command line for shell completion.
var completion = &complete.Command{
	Sub: map[string]*complete.Command{
		"extract": {
			Flags: map[string]complete.Predictor{
				"o":         predict.Files("*"),
				"db":        predict.Files("*.sqlite"),
				"extractor": extractor,
			},
			Args: inputs,
		},
		"explore": {
			Flags: map[string]complete.Predictor{"extractor": extractor, "raw": predict.Nothing},
			Args:  inputs,
		},
		"summary": {
			Flags: map[string]complete.Predictor{"extractor": extractor, "html": predict.Files("*.html"), "json": predict.Nothing},
			Args:  inputs,
		},
		"runs": {
			Flags: map[string]complete.Predictor{"db": predict.Files("*.sqlite"), "run": predict.Something, "records": predict.Nothing},
		},
		"help":     {},
		"commands": {},
		"flags":    {},
	},
	Flags: map[string]complete.Predictor{
		"config": predict.Files("*"),
		"v":      predict.Nothing,
	},
}

func main() {
	// answers shell completion requests and exits, if any.
	completion.Complete("stx")

	commander := subcommands.NewCommander(flag.CommandLine, "stx")
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()

	if name := flag.Arg(0); name != "" && !registered(commander, name) {
		if found, code := cmd.RunExtension(name, flag.Args()[1:]); found {
			os.Exit(code)
		}
	}
	os.Exit(int(commander.Execute(context.Background())))
}

func registered(c *subcommands.Commander, name string) (found bool) {
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		if cmd.Name() == name {
			found = true
		}
	})
	return found
}
