package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "crossprep",
	Short: "Witness prep sessions with generated questions and outlines",
	Long: `crossprep runs a local web service for litigation prep sessions.

Upload case documents, generate practice questions for a testifying
witness or a deposition question set with document analysis, and export
the resulting outline. Usage is capped by a rolling demo quota.`,
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
