package models

// Severity is the triage level attached to a finding. Overall report risk
// uses the same scale. A conceptual fourth level (critical) is expressed by
// callers as HIGH with specific finding IDs treated as blocking.
type Severity string

const (
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

// Rank orders severities for comparison: HIGH > MEDIUM > LOW.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// MaxSeverity returns the higher-ranked of two severities.
func MaxSeverity(a, b Severity) Severity {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// Category groups findings for presentation. It never feeds severity math.
type Category string

const (
	CategoryLinkability     Category = "linkability"
	CategoryBehavioral      Category = "behavioral"
	CategoryInformationLeak Category = "information-leak"
	CategoryIdentityLinkage Category = "identity-linkage"
	CategoryTraceability    Category = "traceability"
)

// Evidence is one concrete observation backing a finding. Description quotes
// the literal values that triggered the detector so the finding is
// self-explanatory without re-querying the Context. Reference optionally
// points at an address or explorer URL for audit.
type Evidence struct {
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
	Reference   string   `json:"reference,omitempty"`
}

// Finding is one detector's output record describing a specific privacy
// risk instance. Findings are created once and never mutated; they flow
// unchanged into the Report.
type Finding struct {
	ID         string     `json:"id"`   // stable machine identifier, e.g. "fee-payer-reuse"
	Name       string     `json:"name"` // human label
	Severity   Severity   `json:"severity"`
	Confidence float64    `json:"confidence"` // 0.0 - 1.0
	Category   Category   `json:"category"`
	Reason     string     `json:"reason"`     // embeds the concrete counts/thresholds
	Impact     string     `json:"impact"`     // why this matters
	Mitigation string     `json:"mitigation"` // actionable remediation text
	Evidence   []Evidence `json:"evidence"`
}
