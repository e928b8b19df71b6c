package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pastpages/storytracker/internal/config"
	"github.com/pastpages/storytracker/internal/engine"
	"github.com/pastpages/storytracker/internal/export"
	"github.com/pastpages/storytracker/internal/store"
)

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <archive-file>",
		Short: "Render an archive and export its hyperlink data as CSV",
		Long: `Analyze loads an archive file (.html or .gz), renders it inside a
headless browser, extracts every hyperlink and image with position and
style metadata, and writes the result as CSV.

The row set is ragged: ten fixed columns per link, then seven columns
per image nested inside that link. The header is sized to the page's
longest row.

Examples:
  # Analyze an archive and print CSV to stdout
  storytracker analyze ./archives/http%3A%2F%2Fexample.com%2F@2014-07-06T16:31:57Z.gz

  # Write the CSV to a file
  storytracker analyze --output links.csv archive.html`,
		Args: cobra.ExactArgs(1),
		RunE: runAnalyzeCmd,
	}

	cmd.Flags().StringP("output", "o", "", "write CSV to this file instead of stdout")

	return cmd
}

func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	page, err := store.Open(args[0])
	if err != nil {
		return err
	}

	eng := engine.New(page,
		engine.WithLogger(slog.Default()),
		engine.WithBackends(backendsFor(cfg)...),
	)
	if err := eng.Analyze(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	return export.Write(out, page)
}

// backendsFor maps the config's browser setting onto rendering backends.
func backendsFor(cfg *config.Config) []engine.Backend {
	switch cfg.Browser {
	case config.BrowserRod:
		return []engine.Backend{engine.Rod}
	case config.BrowserChromedp:
		return []engine.Backend{engine.Chromedp}
	default:
		return []engine.Backend{engine.Rod, engine.Chromedp}
	}
}
