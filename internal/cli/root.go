// Package cli implements the privscan command-line front end: argument
// parsing and output formatting around the scan pipeline.
package cli

import (
	"github.com/spf13/cobra"
)

const version = "1.0.0"

// Execute builds the root command tree and runs the CLI.
func Execute() error {
	rootCmd := &cobra.Command{
		Use:           "privscan",
		Short:         "Privacy risk scanner for Solana accounts, transactions, and programs",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}
	rootCmd.SetVersionTemplate("privscan version {{.Version}}\n")

	rootCmd.AddCommand(
		newScanCmd(),
		newLabelsCmd(),
	)

	return rootCmd.Execute()
}
