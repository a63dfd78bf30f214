package detect

import (
	"time"

	"github.com/taylorferran/solana-privacy-scanner-sub000/pkg/models"
)

// Report Building
//
// A pure function of (Context, Findings, timestamp). The timestamp is the
// only non-deterministic field and is injected by the caller; nothing here
// reads the clock, so identical inputs always yield structurally identical
// reports.
//
// knownEntities lists only labels whose address was actually referenced by
// a transfer or instruction in the Context; a label present in the lookup
// table but never touched by the activity is omitted.

// BuildReport assembles the versioned scan report.
func BuildReport(ctx *models.Context, findings []models.Finding, timestamp time.Time) models.Report {
	summary := models.Summary{
		TotalFindings: len(findings),
		BySeverity: map[models.Severity]int{
			models.SeverityLow:    0,
			models.SeverityMedium: 0,
			models.SeverityHigh:   0,
		},
		TransactionsAnalyzed: ctx.TransactionCount,
	}
	for _, f := range findings {
		summary.BySeverity[f.Severity]++
	}

	return models.Report{
		Version:       models.ReportVersion,
		Timestamp:     timestamp,
		TargetType:    ctx.TargetType,
		Target:        ctx.Target,
		OverallRisk:   AggregateRisk(findings),
		Findings:      findings,
		Summary:       summary,
		Mitigations:   CollectMitigations(findings),
		KnownEntities: referencedEntities(ctx),
	}
}

// referencedEntities filters the label map down to addresses the activity
// actually touched, in lexicographic address order.
func referencedEntities(ctx *models.Context) []models.KnownEntity {
	if len(ctx.Labels) == 0 {
		return []models.KnownEntity{}
	}

	referenced := make(map[string]bool)
	for _, tr := range ctx.Transfers {
		referenced[tr.From] = true
		referenced[tr.To] = true
	}
	for _, ins := range ctx.Instructions {
		referenced[ins.ProgramID] = true
		for _, acct := range ins.Accounts {
			referenced[acct] = true
		}
	}

	entities := make([]models.KnownEntity, 0)
	for _, addr := range sortedKeys(ctx.Labels) {
		if !referenced[addr] {
			continue
		}
		entities = append(entities, models.KnownEntity{
			Address: addr,
			Label:   ctx.Labels[addr],
		})
	}
	return entities
}
