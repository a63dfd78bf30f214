package detect

import (
	"github.com/taylorferran/solana-privacy-scanner-sub000/pkg/models"
)

// Aggregation
//
// Reduces the finding list to one overall verdict and a ranked remediation
// list. Overall risk is the maximum severity across findings (severity
// rank only, never finding count) with an explicit floor: zero findings
// means LOW, not "unknown". Mitigations are de-duplicated by exact string
// and ordered by the severity of the finding that contributed them,
// HIGH-sourced first, preserving finding order within a severity band.

// AggregateRisk computes the overall risk level for a finding list.
func AggregateRisk(findings []models.Finding) models.Severity {
	overall := models.SeverityLow
	for _, f := range findings {
		overall = models.MaxSeverity(overall, f.Severity)
	}
	return overall
}

// CollectMitigations returns the de-duplicated remediation list ordered by
// source finding severity.
func CollectMitigations(findings []models.Finding) []string {
	mitigations := make([]string, 0)
	seen := make(map[string]bool)

	for _, sev := range []models.Severity{models.SeverityHigh, models.SeverityMedium, models.SeverityLow} {
		for _, f := range findings {
			if f.Severity != sev || f.Mitigation == "" || seen[f.Mitigation] {
				continue
			}
			seen[f.Mitigation] = true
			mitigations = append(mitigations, f.Mitigation)
		}
	}
	return mitigations
}
