package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var version = "1.0.0"

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the storytracker version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "storytracker v%s\n", version)
		},
	}
}
