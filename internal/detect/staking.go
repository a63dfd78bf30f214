package detect

import (
	"fmt"

	"github.com/taylorferran/solana-privacy-scanner-sub000/pkg/models"
)

// Staking Concentration Analysis
//
// Delegating stake repeatedly to one validator publishes a durable
// preference: stake accounts are large, long-lived, and their vote-account
// linkage is first-class on-chain data. Concentrated delegation ties the
// target to a validator community and often to a geographic region.
//
// The delegated vote account is read from the stake instruction's account
// list: by convention the stake account comes first and the vote account
// second, so accounts[1] is preferred and accounts[0] is the fallback for
// sparsely decoded instructions.
//
//   concentration > 0.5          -> HIGH
//   >= 2 delegations to one vote -> MEDIUM
//
// Minimum data: 2 stake-category instructions.

// DetectStakeConcentration flags repeated delegation to a single validator.
func DetectStakeConcentration(ctx *models.Context) []models.Finding {
	voteCounts := make(map[string]int)
	total := 0
	for _, ins := range ctx.Instructions {
		if ins.Category != models.CategoryStake {
			continue
		}
		vote := ""
		if len(ins.Accounts) >= 2 {
			vote = ins.Accounts[1]
		} else if len(ins.Accounts) == 1 {
			vote = ins.Accounts[0]
		}
		if vote == "" {
			continue
		}
		voteCounts[vote]++
		total++
	}
	if total < 2 {
		return nil
	}

	topVote, topCount, _ := concentration(voteCounts)
	if topCount < 2 {
		return nil
	}

	conc := float64(topCount) / float64(total)
	severity := models.SeverityMedium
	if conc > 0.5 {
		severity = models.SeverityHigh
	}

	evidence := []models.Evidence{{
		Description: fmt.Sprintf("Validator %s received %d of %d delegations (%s)",
			shortAddr(topVote), topCount, total, pct(conc)),
		Severity:  severity,
		Reference: topVote,
	}}
	if label, ok := ctx.Labels[topVote]; ok {
		evidence = append(evidence, models.Evidence{
			Description: fmt.Sprintf("Dominant validator is publicly known: %s", label.Name),
			Severity:    models.SeverityMedium,
		})
	}

	return []models.Finding{{
		ID:         "stake-concentration",
		Name:       "Stake Delegation Concentration",
		Severity:   severity,
		Confidence: 0.8,
		Category:   models.CategoryBehavioral,
		Reason: fmt.Sprintf("%d of %d stake delegations (%s) target the same validator %s",
			topCount, total, pct(conc), shortAddr(topVote)),
		Impact: "Stake accounts are long-lived public commitments; concentrated delegation " +
			"reveals validator allegiance and anchors the target's identity over time.",
		Mitigation: "Split stake across several validators and use separate stake authorities " +
			"for unrelated funds.",
		Evidence: evidence,
	}}
}
