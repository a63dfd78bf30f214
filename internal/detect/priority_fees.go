package detect

import (
	"fmt"
	"strconv"

	"github.com/taylorferran/solana-privacy-scanner-sub000/pkg/models"
)

// Priority Fee Fingerprinting
//
// Wallet software and bots set compute-budget priority fees from a config
// value, and most never change it. An account that submits 87% of its
// transactions with exactly 12,345 micro-lamports/CU is recognizable across
// wallet rotations the way a browser is recognizable by its header set.
//
// Only transactions that actually carry a priority fee participate; absent
// means the record is excluded, and an explicit 0 counts as a value (a
// consistent zero fee on a congested network is itself a tell, but a
// default, so only non-zero dominant values trigger).
//
//   dominant value share > 0.8 -> HIGH
//   dominant value share > 0.6 -> MEDIUM
//
// Minimum data: 5 fee-bearing records.

// DetectPriorityFeeFingerprint flags a dominant exact priority fee value.
func DetectPriorityFeeFingerprint(ctx *models.Context) []models.Finding {
	feeCounts := make(map[string]int)
	total := 0
	for _, rec := range ctx.TransactionRecords {
		if rec.PriorityFee == nil {
			continue
		}
		feeCounts[strconv.FormatUint(*rec.PriorityFee, 10)]++
		total++
	}
	if total < 5 {
		return nil
	}

	topFee, topCount, _ := concentration(feeCounts)
	share := float64(topCount) / float64(total)
	if share <= 0.6 || topFee == "0" {
		return nil
	}

	severity := models.SeverityMedium
	if share > 0.8 {
		severity = models.SeverityHigh
	}

	return []models.Finding{{
		ID:         "priority-fee-fingerprint",
		Name:       "Priority Fee Fingerprint",
		Severity:   severity,
		Confidence: share,
		Category:   models.CategoryBehavioral,
		Reason: fmt.Sprintf("%d of %d fee-bearing transactions (%s) use the exact priority fee %s micro-lamports/CU",
			topCount, total, pct(share), topFee),
		Impact: "A constant, non-default priority fee acts as a client fingerprint that " +
			"links transactions across wallets using the same software configuration.",
		Mitigation: "Use dynamic fee estimation or randomize the priority fee within a " +
			"reasonable band instead of a fixed constant.",
		Evidence: []models.Evidence{{
			Description: fmt.Sprintf("Priority fee %s repeated %d times out of %d", topFee, topCount, total),
			Severity:    severity,
		}},
	}}
}
