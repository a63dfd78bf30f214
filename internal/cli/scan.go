package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/taylorferran/solana-privacy-scanner-sub000/internal/labels"
	"github.com/taylorferran/solana-privacy-scanner-sub000/internal/scan"
	"github.com/taylorferran/solana-privacy-scanner-sub000/internal/solana"
	"github.com/taylorferran/solana-privacy-scanner-sub000/pkg/models"
)

type scanFlags struct {
	endpoint   string
	targetType string
	txLimit    int
	jsonOutput bool
	overlay    string
	timeout    time.Duration
}

func newScanCmd() *cobra.Command {
	flags := &scanFlags{}

	cmd := &cobra.Command{
		Use:   "scan <target>",
		Short: "Scan an address, transaction signature, or program for privacy risks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			targetType := models.TargetType(flags.targetType)
			switch targetType {
			case models.TargetAccount, models.TargetTransaction, models.TargetProgram:
			default:
				return fmt.Errorf("invalid --type %q: must be account, transaction, or program", flags.targetType)
			}

			store := labels.NewStore()
			if flags.overlay != "" {
				if err := store.LoadOverlay(flags.overlay); err != nil {
					return err
				}
			}

			rpcClient := solana.NewClient(solana.Config{Endpoint: flags.endpoint})
			scanner := scan.NewScanner(rpcClient, store, scan.WithTxLimit(flags.txLimit))

			ctx, cancel := context.WithTimeout(cmd.Context(), flags.timeout)
			defer cancel()

			report, err := scanner.Scan(ctx, args[0], targetType)
			if err != nil {
				return err
			}

			if flags.jsonOutput {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(report)
			}
			printReport(cmd, report)
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.endpoint, "endpoint", "", "Solana RPC endpoint (defaults to mainnet-beta)")
	cmd.Flags().StringVar(&flags.targetType, "type", string(models.TargetAccount), "Target type: account, transaction, or program")
	cmd.Flags().IntVar(&flags.txLimit, "tx-limit", 200, "Maximum transactions to fetch for account scans")
	cmd.Flags().BoolVar(&flags.jsonOutput, "json", false, "Emit the raw report JSON")
	cmd.Flags().StringVar(&flags.overlay, "labels", "", "Path to a YAML label overlay file")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 2*time.Minute, "Overall scan timeout")

	return cmd
}

func printReport(cmd *cobra.Command, report models.Report) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Privacy scan of %s (%s)\n", report.Target, report.TargetType)
	fmt.Fprintf(out, "Overall risk: %s  |  %d finding(s) across %d transactions\n\n",
		report.OverallRisk, report.Summary.TotalFindings, report.Summary.TransactionsAnalyzed)

	for _, f := range report.Findings {
		fmt.Fprintf(out, "[%s] %s (%s, confidence %.2f)\n", f.Severity, f.Name, f.ID, f.Confidence)
		fmt.Fprintf(out, "    %s\n", f.Reason)
		for _, ev := range f.Evidence {
			fmt.Fprintf(out, "      - %s\n", ev.Description)
		}
	}

	if len(report.Mitigations) > 0 {
		fmt.Fprintln(out, "\nRecommended mitigations:")
		for i, m := range report.Mitigations {
			fmt.Fprintf(out, "  %d. %s\n", i+1, m)
		}
	}

	if len(report.KnownEntities) > 0 {
		fmt.Fprintln(out, "\nKnown entities involved:")
		for _, ent := range report.KnownEntities {
			fmt.Fprintf(out, "  %s - %s (%s)\n", ent.Address, ent.Name, ent.Type)
		}
	}
}
