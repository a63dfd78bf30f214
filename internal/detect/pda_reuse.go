package detect

import (
	"fmt"

	"github.com/taylorferran/solana-privacy-scanner-sub000/pkg/models"
)

// Program-Derived Address Reuse Analysis
//
// Program interactions on Solana route state through program-derived
// accounts. A PDA that shows up across many of the target's instructions,
// especially under more than one program, is a durable linkage anchor:
// order books, escrows, and positions all carry the owner's identity from
// one interaction to the next.
//
// The detector counts how often each non-signer account is referenced by
// program-interaction instructions (the program ID itself and the target are
// excluded). Signals:
//
//   - one account referenced by >= 3 instructions under >= 2 distinct
//     programs, or
//   - concentration > 0.5 across >= 5 references
//
// HIGH when concentration > 0.5, otherwise MEDIUM. Minimum data: 3
// program-interaction instructions carrying account lists.

// DetectPDAReuse flags derived accounts that recur across the target's
// program interactions.
func DetectPDAReuse(ctx *models.Context) []models.Finding {
	refCounts := make(map[string]int)
	programsPer := make(map[string]map[string]bool)
	instrTotal := 0
	totalRefs := 0

	for _, ins := range ctx.Instructions {
		if ins.Category != models.CategoryProgramInteraction || len(ins.Accounts) == 0 {
			continue
		}
		instrTotal++
		for _, acct := range ins.Accounts {
			if acct == "" || acct == ctx.Target || acct == ins.ProgramID {
				continue
			}
			refCounts[acct]++
			totalRefs++
			if programsPer[acct] == nil {
				programsPer[acct] = make(map[string]bool)
			}
			programsPer[acct][ins.ProgramID] = true
		}
	}
	if instrTotal < 3 || totalRefs == 0 {
		return nil
	}

	topAcct, topCount, _ := concentration(refCounts)
	topConc := float64(topCount) / float64(totalRefs)

	// The dominant account qualifies on either rule; when it does not, a
	// less referenced account may still satisfy the cross-program rule, so
	// every account is checked. Ties break to the most referenced account,
	// then lexicographically.
	acct := ""
	if (len(programsPer[topAcct]) >= 2 && topCount >= 3) || (topConc > 0.5 && topCount >= 5) {
		acct = topAcct
	} else {
		for _, candidate := range sortedKeys(refCounts) {
			if refCounts[candidate] < 3 || len(programsPer[candidate]) < 2 {
				continue
			}
			if acct == "" || refCounts[candidate] > refCounts[acct] {
				acct = candidate
			}
		}
	}
	if acct == "" {
		return nil
	}

	count := refCounts[acct]
	conc := float64(count) / float64(totalRefs)
	crossProgram := len(programsPer[acct]) >= 2 && count >= 3

	severity := models.SeverityMedium
	if conc > 0.5 {
		severity = models.SeverityHigh
	}

	evidence := []models.Evidence{{
		Description: fmt.Sprintf("Derived account %s referenced by %d instructions (%s of all references)",
			shortAddr(acct), count, pct(conc)),
		Severity:  severity,
		Reference: acct,
	}}
	if crossProgram {
		evidence = append(evidence, models.Evidence{
			Description: fmt.Sprintf("Account %s is shared across %d distinct programs",
				shortAddr(acct), len(programsPer[acct])),
			Severity: models.SeverityMedium,
		})
	}

	return []models.Finding{{
		ID:         "pda-reuse",
		Name:       "Derived Account Reuse",
		Severity:   severity,
		Confidence: 0.75,
		Category:   models.CategoryLinkability,
		Reason: fmt.Sprintf("Derived account %s recurs across %d of the target's program interactions",
			shortAddr(acct), count),
		Impact: "Program-derived accounts are deterministic functions of their owner; reusing " +
			"one across interactions chains those interactions to the same identity.",
		Mitigation: "Where the protocol permits, create fresh position or state accounts per " +
			"activity instead of accumulating history in one derived account.",
		Evidence: evidence,
	}}
}
