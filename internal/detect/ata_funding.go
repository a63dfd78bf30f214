package detect

import (
	"fmt"

	"github.com/taylorferran/solana-privacy-scanner-sub000/pkg/models"
)

// Associated Token Account Funding Analysis
//
// Creating an associated token account costs rent, and the owner recorded
// on the create event is the account that paid it. One owner funding many
// token accounts is the SPL equivalent of a change-address cluster: all of
// those accounts, and every token they ever hold, attribute back to the
// funding wallet.
//
// Cut points: >= 3 accounts funded by one owner -> MEDIUM; >= 5 accounts or
// concentration > 0.5 -> HIGH. Minimum data: 2 create events.

// DetectATAFunderReuse flags a single owner funding multiple token account
// creations.
func DetectATAFunderReuse(ctx *models.Context) []models.Finding {
	ownerCounts := make(map[string]int)
	total := 0
	for _, ev := range ctx.TokenAccountEvents {
		if ev.Type != models.TokenAccountCreate || ev.Owner == "" {
			continue
		}
		ownerCounts[ev.Owner]++
		total++
	}
	if total < 2 {
		return nil
	}

	topOwner, topCount, _ := concentration(ownerCounts)
	if topCount < 3 {
		return nil
	}

	conc := float64(topCount) / float64(total)
	severity := models.SeverityMedium
	if topCount >= 5 || conc > 0.5 {
		severity = models.SeverityHigh
	}

	return []models.Finding{{
		ID:         "ata-funder-reuse",
		Name:       "Token Account Funder Reuse",
		Severity:   severity,
		Confidence: 0.8,
		Category:   models.CategoryLinkability,
		Reason: fmt.Sprintf("One owner (%s) funded %d of %d token account creations (%s)",
			shortAddr(topOwner), topCount, total, pct(conc)),
		Impact: "Every token account funded by the same wallet is attributable to that " +
			"wallet, linking holdings across otherwise unrelated tokens.",
		Mitigation: "Fund token account creation from the wallet that will use the account, " +
			"not from a central treasury key.",
		Evidence: []models.Evidence{{
			Description: fmt.Sprintf("%s created %d token accounts", shortAddr(topOwner), topCount),
			Severity:    severity,
			Reference:   topOwner,
		}},
	}}
}
