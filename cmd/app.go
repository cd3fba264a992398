// Package cmd implements the stx command line.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/statement"
	"github.com/etnz/statement/config"
	"github.com/etnz/statement/gemini"
	"github.com/etnz/statement/jsontable"
	"github.com/etnz/statement/logger"
	"github.com/etnz/statement/pdftable"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&extractCmd{}, "statements")
	c.Register(&exploreCmd{}, "statements")
	c.Register(&summaryCmd{}, "statements")
	c.Register(&runsCmd{}, "history")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "", "Path to a yaml, json or toml configuration file")

// Verbose enables debug logs.
var Verbose = flag.Bool("v", false, "Enable debug logs")

// Extractor kinds accepted by -extractor.
const (
	extractorPDF    = "pdf"
	extractorJSON   = "json"
	extractorGemini = "gemini"
)

// Extractors lists the accepted -extractor values.
var Extractors = []string{extractorPDF, extractorJSON, extractorGemini}

// loadConfig loads the configuration and builds the logger it describes.
func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	level := cfg.LogLevel
	if *Verbose {
		level = "debug"
	}
	return cfg, logger.New(logger.Config{Level: level, Pretty: cfg.LogPretty}), nil
}

// document is an opened input.
type document interface {
	statement.Extractor
	Close() error
}

type nopCloser struct{ statement.Extractor }

func (nopCloser) Close() error { return nil }

// extractorKind returns kind, or guesses it from the extension of path.
func extractorKind(path, kind string) (string, error) {
	if kind == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json":
			return extractorJSON, nil
		default:
			return extractorPDF, nil
		}
	}
	for _, k := range Extractors {
		if k == kind {
			return kind, nil
		}
	}
	return "", fmt.Errorf("unknown extractor %q, want one of %v", kind, Extractors)
}

// openDocument opens path with the extractor kind, guessed from the extension
// when empty.
func openDocument(ctx context.Context, path, kind string, cfg *config.Config) (document, error) {
	kind, err := extractorKind(path, kind)
	if err != nil {
		return nil, err
	}
	switch kind {
	case extractorJSON:
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		doc, err := jsontable.Decode(f, cfg.TablesPath)
		if err != nil {
			return nil, fmt.Errorf("cannot read %q: %w", path, err)
		}
		return nopCloser{doc}, nil

	case extractorGemini:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		client, err := gemini.NewClient(ctx)
		if err != nil {
			return nil, err
		}
		doc, err := gemini.Extract(ctx, client.Models, cfg.GeminiModel, data)
		if err != nil {
			return nil, fmt.Errorf("cannot extract tables from %q: %w", path, err)
		}
		return nopCloser{doc}, nil

	default:
		doc, err := pdftable.Open(path)
		if err != nil {
			return nil, err
		}
		doc.Gap = cfg.PDFGap
		return doc, nil
	}
}

// defaultOutput returns <input-basename>_extraction<ext> next to input.
func defaultOutput(input, ext string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + "_extraction" + ext
}

// printMarkdown renders md to the terminal, or prints it raw if rendering fails.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
