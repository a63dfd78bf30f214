package detect

import (
	"fmt"

	"github.com/taylorferran/solana-privacy-scanner-sub000/pkg/models"
)

// Token Account Lifecycle Analysis
//
// Create/close pairs on token accounts leak in three distinct ways:
//
//   1. Rent-refund clustering: closing a token account refunds its rent
//      somewhere, and wallets that sweep refunds to one collection address
//      link every closed account to it. Three or more closes refunding the
//      same destination is a sweep pattern -> HIGH.
//
//   2. Burner accounts: accounts created and closed within an hour are a
//      single-use pattern; the short lifetime itself correlates the create
//      and close transactions. Two or more short-lived accounts -> MEDIUM.
//
//   3. Refund divergence: a close whose refund goes somewhere other than
//      the recorded owner links a second wallet to the first -> MEDIUM.
//
// Create and close events are paired per token account; events without a
// matching partner contribute only to the grouping they can support.
// Minimum data: at least one close event.

// DetectTokenAccountLifecycle correlates token account create/close events
// and their rent refunds.
func DetectTokenAccountLifecycle(ctx *models.Context) []models.Finding {
	created := make(map[string]models.TokenAccountEvent)
	var closes []models.TokenAccountEvent
	for _, ev := range ctx.TokenAccountEvents {
		switch ev.Type {
		case models.TokenAccountCreate:
			if _, dup := created[ev.TokenAccount]; !dup {
				created[ev.TokenAccount] = ev
			}
		case models.TokenAccountClose:
			closes = append(closes, ev)
		}
	}
	if len(closes) == 0 {
		return nil
	}

	var findings []models.Finding
	if f := detectRefundClustering(closes); f != nil {
		findings = append(findings, *f)
	}
	if f := detectBurnerAccounts(created, closes); f != nil {
		findings = append(findings, *f)
	}
	if f := detectRefundDivergence(closes); f != nil {
		findings = append(findings, *f)
	}
	return findings
}

func detectRefundClustering(closes []models.TokenAccountEvent) *models.Finding {
	destCounts := make(map[string]int)
	total := 0
	for _, ev := range closes {
		if ev.RentRefund == nil || ev.RentRefund.Destination == "" {
			continue
		}
		destCounts[ev.RentRefund.Destination]++
		total++
	}
	if total == 0 {
		return nil
	}

	topDest, topCount, _ := concentration(destCounts)
	if topCount < 3 {
		return nil
	}
	conc := float64(topCount) / float64(total)

	return &models.Finding{
		ID:         "rent-refund-clustering",
		Name:       "Rent Refund Clustering",
		Severity:   models.SeverityHigh,
		Confidence: 0.85,
		Category:   models.CategoryTraceability,
		Reason: fmt.Sprintf("%d of %d token account closures (%s) refunded rent to the same address %s",
			topCount, total, pct(conc), shortAddr(topDest)),
		Impact: "A common refund destination stitches every closed token account into one " +
			"cluster owned by the sweeping wallet.",
		Mitigation: "Let rent refunds return to the owning wallet instead of sweeping them " +
			"to a central collector.",
		Evidence: []models.Evidence{{
			Description: fmt.Sprintf("Refund destination %s collected %d closures",
				shortAddr(topDest), topCount),
			Severity:  models.SeverityHigh,
			Reference: topDest,
		}},
	}
}

func detectBurnerAccounts(created map[string]models.TokenAccountEvent, closes []models.TokenAccountEvent) *models.Finding {
	const burnerLifetime = int64(3600) // seconds

	shortLived := 0
	var example string
	for _, cl := range closes {
		cr, ok := created[cl.TokenAccount]
		if !ok || cr.BlockTime == nil || cl.BlockTime == nil {
			continue
		}
		lifetime := *cl.BlockTime - *cr.BlockTime
		if lifetime >= 0 && lifetime < burnerLifetime {
			shortLived++
			if example == "" {
				example = cl.TokenAccount
			}
		}
	}
	if shortLived < 2 {
		return nil
	}

	return &models.Finding{
		ID:         "token-account-burner",
		Name:       "Short-Lived Token Accounts",
		Severity:   models.SeverityMedium,
		Confidence: 0.7,
		Category:   models.CategoryTraceability,
		Reason:     fmt.Sprintf("%d token accounts were created and closed within one hour", shortLived),
		Impact: "Single-use token accounts tie their create and close transactions together " +
			"and signal scripted, trace-sensitive behavior that draws scrutiny.",
		Mitigation: "Reuse token accounts for their mint instead of cycling burner accounts, " +
			"or vary account lifetimes.",
		Evidence: []models.Evidence{{
			Description: fmt.Sprintf("Example short-lived account: %s", shortAddr(example)),
			Severity:    models.SeverityMedium,
			Reference:   example,
		}},
	}
}

func detectRefundDivergence(closes []models.TokenAccountEvent) *models.Finding {
	diverging := 0
	var example *models.TokenAccountEvent
	for i, ev := range closes {
		if ev.RentRefund == nil || ev.RentRefund.Destination == "" || ev.Owner == "" {
			continue
		}
		if ev.RentRefund.Destination != ev.Owner {
			diverging++
			if example == nil {
				example = &closes[i]
			}
		}
	}
	if diverging == 0 || example == nil {
		return nil
	}

	return &models.Finding{
		ID:         "rent-refund-divergence",
		Name:       "Rent Refund To Third Party",
		Severity:   models.SeverityMedium,
		Confidence: 0.75,
		Category:   models.CategoryLinkability,
		Reason: fmt.Sprintf("%d closure(s) sent rent to an address other than the account owner",
			diverging),
		Impact: "Refunding rent to a different wallet publishes a link between the owner and " +
			"that wallet in a single on-chain event.",
		Mitigation: "Close token accounts with the refund destination set to the owner.",
		Evidence: []models.Evidence{{
			Description: fmt.Sprintf("Account %s owned by %s refunded rent to %s",
				shortAddr(example.TokenAccount), shortAddr(example.Owner),
				shortAddr(example.RentRefund.Destination)),
			Severity:  models.SeverityMedium,
			Reference: example.RentRefund.Destination,
		}},
	}
}
