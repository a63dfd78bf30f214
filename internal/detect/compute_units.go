package detect

import (
	"fmt"
	"strconv"

	"github.com/taylorferran/solana-privacy-scanner-sub000/pkg/models"
)

// Compute Unit Fingerprinting
//
// Identical workloads consume identical compute. A wallet whose
// transactions keep landing on the same exact compute-unit figure is
// running the same code path every time, which profiles the software even
// when fees vary. Weaker than the priority-fee tell (many unrelated users
// share common instruction shapes), so severity is capped at MEDIUM.
//
// Minimum data: 5 records with a compute-unit figure; dominant exact value
// share > 0.6 triggers.

// DetectComputeUnitFingerprint flags a dominant exact compute-unit usage
// value across the target's transactions.
func DetectComputeUnitFingerprint(ctx *models.Context) []models.Finding {
	cuCounts := make(map[string]int)
	total := 0
	for _, rec := range ctx.TransactionRecords {
		if rec.ComputeUnitsUsed == nil {
			continue
		}
		cuCounts[strconv.FormatUint(*rec.ComputeUnitsUsed, 10)]++
		total++
	}
	if total < 5 {
		return nil
	}

	topCU, topCount, _ := concentration(cuCounts)
	share := float64(topCount) / float64(total)
	if share <= 0.6 {
		return nil
	}

	return []models.Finding{{
		ID:         "compute-unit-fingerprint",
		Name:       "Compute Unit Fingerprint",
		Severity:   models.SeverityMedium,
		Confidence: share * 0.8,
		Category:   models.CategoryBehavioral,
		Reason: fmt.Sprintf("%d of %d transactions (%s) consumed exactly %s compute units",
			topCount, total, pct(share), topCU),
		Impact: "Repeated exact compute usage profiles the client software and instruction " +
			"mix, narrowing the set of tools the operator could be using.",
		Mitigation: "Vary transaction composition, or batch differently sized operations so " +
			"compute usage does not collapse to a single signature value.",
		Evidence: []models.Evidence{{
			Description: fmt.Sprintf("Compute figure %s CU repeated %d times out of %d", topCU, topCount, total),
			Severity:    models.SeverityMedium,
		}},
	}}
}
