package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taylorferran/solana-privacy-scanner-sub000/internal/labels"
)

func newLabelsCmd() *cobra.Command {
	var overlay string

	cmd := &cobra.Command{
		Use:   "labels <address>",
		Short: "Look up the curated label for an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := labels.NewStore()
			if overlay != "" {
				if err := store.LoadOverlay(overlay); err != nil {
					return err
				}
			}

			label, ok := store.Lookup(args[0])
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: no known label\n", args[0])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s)\n", args[0], label.Name, label.Type)
			if label.Description != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", label.Description)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&overlay, "labels", "", "Path to a YAML label overlay file")
	return cmd
}
