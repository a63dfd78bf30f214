package detect

import (
	"fmt"

	"github.com/taylorferran/solana-privacy-scanner-sub000/pkg/models"
)

// Fee Payer Reuse Analysis
//
// On Solana every transaction names a fee payer, and that account is the
// strongest linkage primitive on the chain: a wallet that fronts fees for
// many transactions ties all of them to one funding source, even when the
// instruction-level actors differ. Exchanges, bots, and relayers are
// routinely clustered this way.
//
// The detector groups transaction records by fee payer and classifies by
// concentration: the share of all fee-bearing transactions paid by the
// single busiest payer.
//
//   concentration > 0.5 or count >= 5  -> HIGH
//   concentration > 0.3 or count >= 3  -> MEDIUM
//   otherwise                          -> LOW
//
// Minimum data: 2 transaction records, and the top payer must appear at
// least twice (a payer seen once links nothing).

// DetectFeePayerReuse flags repeated use of a single fee payer across the
// target's transactions.
func DetectFeePayerReuse(ctx *models.Context) []models.Finding {
	if len(ctx.TransactionRecords) < 2 {
		return nil
	}

	payerCounts := make(map[string]int)
	total := 0
	for _, rec := range ctx.TransactionRecords {
		if rec.FeePayer == "" {
			continue
		}
		payerCounts[rec.FeePayer]++
		total++
	}
	if total < 2 {
		return nil
	}

	topPayer, topCount, _ := concentration(payerCounts)
	if topCount < 2 {
		return nil
	}

	conc := float64(topCount) / float64(total)
	severity := classifyConcentration(conc, topCount)

	evidence := []models.Evidence{
		{
			Description: fmt.Sprintf("Fee payer %s paid fees for %d of %d transactions (%s)",
				shortAddr(topPayer), topCount, total, pct(conc)),
			Severity:  severity,
			Reference: topPayer,
		},
	}
	if len(payerCounts) > 1 {
		evidence = append(evidence, models.Evidence{
			Description: fmt.Sprintf("%d distinct fee payers observed in total", len(payerCounts)),
			Severity:    models.SeverityLow,
		})
	}

	return []models.Finding{{
		ID:         "fee-payer-reuse",
		Name:       "Fee Payer Reuse",
		Severity:   severity,
		Confidence: feePayerConfidence(conc, total),
		Category:   models.CategoryLinkability,
		Reason: fmt.Sprintf("A single fee payer (%s) funded %d of %d transactions, a concentration of %s",
			shortAddr(topPayer), topCount, total, pct(conc)),
		Impact: "All transactions sharing a fee payer are trivially linkable to one funding " +
			"source, collapsing any separation between the wallets involved.",
		Mitigation: "Use a separate, freshly funded fee payer per activity domain, or route " +
			"fee payment through a relayer that does not reuse keys.",
		Evidence: evidence,
	}}
}

// feePayerConfidence grows with both concentration and sample size:
// the same ratio observed over 50 transactions is far stronger evidence
// than over 2.
func feePayerConfidence(conc float64, total int) float64 {
	confidence := conc
	if total >= 10 {
		confidence += 0.15
	} else if total >= 5 {
		confidence += 0.05
	}
	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}
