package detect

import (
	"fmt"

	"github.com/taylorferran/solana-privacy-scanner-sub000/pkg/models"
)

// Counterparty Concentration Analysis
//
// Repeatedly transacting with the same address builds a bilateral
// relationship graph that chain observers read directly: payroll, a
// favorite exchange deposit address, a personal second wallet. The
// counterparty of each transfer is whichever side is not the target;
// grouping is set-based, so ingestion order of the transfer list never
// changes the result.
//
// Severity follows the shared concentration cut points. Minimum data:
// 2 transfers with an identifiable counterparty.

// DetectCounterpartyReuse flags concentration of transfer volume on a
// single counterparty address.
func DetectCounterpartyReuse(ctx *models.Context) []models.Finding {
	if len(ctx.Transfers) < 2 {
		return nil
	}

	cpCounts := make(map[string]int)
	total := 0
	for _, tr := range ctx.Transfers {
		cp := counterpartyOf(ctx.Target, tr)
		if cp == "" {
			continue
		}
		cpCounts[cp]++
		total++
	}
	if total < 2 {
		return nil
	}

	topCP, topCount, _ := concentration(cpCounts)
	if topCount < 2 {
		return nil
	}

	conc := float64(topCount) / float64(total)
	severity := classifyConcentration(conc, topCount)

	evidence := []models.Evidence{{
		Description: fmt.Sprintf("%s was the counterparty in %d of %d transfers (%s)",
			shortAddr(topCP), topCount, total, pct(conc)),
		Severity:  severity,
		Reference: topCP,
	}}
	if label, ok := ctx.Labels[topCP]; ok {
		evidence = append(evidence, models.Evidence{
			Description: fmt.Sprintf("Dominant counterparty is publicly labeled: %s (%s)",
				label.Name, label.Type),
			Severity: models.SeverityMedium,
		})
	}

	return []models.Finding{{
		ID:         "counterparty-reuse",
		Name:       "Counterparty Concentration",
		Severity:   severity,
		Confidence: feePayerConfidence(conc, total),
		Category:   models.CategoryLinkability,
		Reason: fmt.Sprintf("%d of %d transfers (%s) involve the same counterparty %s",
			topCount, total, pct(conc), shortAddr(topCP)),
		Impact: "A dominant counterparty exposes the relationship between the two wallets " +
			"and lets observers infer the nature of the activity from the counterparty's identity.",
		Mitigation: "Spread activity across fresh deposit addresses where the counterparty " +
			"supports them, and avoid funneling unrelated flows through one relationship.",
		Evidence: evidence,
	}}
}

// counterpartyOf resolves the non-target side of a transfer. For
// single-transaction and program scans the target never appears in the
// transfer itself, so the recipient is taken as the counterparty.
func counterpartyOf(target string, tr models.Transfer) string {
	switch target {
	case tr.From:
		return tr.To
	case tr.To:
		return tr.From
	default:
		return tr.To
	}
}
