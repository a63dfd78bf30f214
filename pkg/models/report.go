package models

import "time"

// ReportVersion lets downstream consumers detect schema drift.
const ReportVersion = "1.0.0"

// Summary holds per-severity counts computed in a single pass over the
// finding list.
type Summary struct {
	TotalFindings        int              `json:"totalFindings"`
	BySeverity           map[Severity]int `json:"bySeverity"`
	TransactionsAnalyzed int              `json:"transactionsAnalyzed"`
}

// KnownEntity is a labeled address that actually appeared in the scanned
// activity. Labels present in the lookup table but never referenced by a
// transfer or instruction are omitted.
type KnownEntity struct {
	Address string `json:"address"`
	Label
}

// Report is the versioned scan output: a plain serializable record built
// once per scan and immutable thereafter. Timestamp is the only
// non-deterministic field and is supplied by the caller, outside the
// deterministic core.
type Report struct {
	Version       string        `json:"version"`
	Timestamp     time.Time     `json:"timestamp"`
	TargetType    TargetType    `json:"targetType"`
	Target        string        `json:"target"`
	OverallRisk   Severity      `json:"overallRisk"`
	Findings      []Finding     `json:"findings"`
	Summary       Summary       `json:"summary"`
	Mitigations   []string      `json:"mitigations"`
	KnownEntities []KnownEntity `json:"knownEntities"`
}
