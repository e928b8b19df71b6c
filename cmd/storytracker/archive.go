package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/pastpages/storytracker/internal/archiver"
	"github.com/pastpages/storytracker/internal/store"
)

// NewArchiveCmd creates the archive command.
func NewArchiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive <url>",
		Short: "Capture a live page into an archive file",
		Long: `Archive fetches a URL once and writes the response to disk as an
archive file named by the page's URL and capture timestamp.

Examples:
  # Save a plain .html archive in the current directory
  storytracker archive http://www.example.com/

  # Save a gzip-compressed archive in a specific directory
  storytracker archive --gzip --output-dir ./archives http://www.example.com/`,
		Args: cobra.ExactArgs(1),
		RunE: runArchiveCmd,
	}

	cmd.Flags().BoolP("gzip", "z", false, "write a gzip-compressed .gz archive")
	cmd.Flags().StringP("output-dir", "d", "", "directory to write the archive to (default from config)")

	return cmd
}

func runArchiveCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	dir, _ := cmd.Flags().GetString("output-dir")
	if dir == "" {
		dir = cfg.OutputDir
	}
	useGzip, _ := cmd.Flags().GetBool("gzip")

	a := archiver.New(
		archiver.WithUserAgent(cfg.UserAgent),
		archiver.WithTimeout(cfg.Timeout()),
		archiver.WithLogger(slog.Default()),
	)
	page, err := a.Capture(args[0])
	if err != nil {
		return err
	}

	var path string
	if useGzip {
		path, err = store.WriteGzip(page, dir)
	} else {
		path, err = store.WriteHTML(page, dir)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
