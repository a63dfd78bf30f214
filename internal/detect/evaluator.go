package detect

import (
	"log"

	"github.com/taylorferran/solana-privacy-scanner-sub000/pkg/models"
)

// Evaluator
//
// Runs the full detector battery over one Context in a fixed canonical
// order and concatenates the findings. The order is part of the output
// contract: linkage detectors first, then behavioral, then exposure, so
// two runs over the same Context produce the same finding list and the
// same downstream mitigation ordering.
//
// Detector failures never abort the scan. A panicking detector, or one
// returning nil, is contained at this boundary: the diagnostic is logged
// and the remaining detectors still run. The worst outcome of any failure
// is a report with fewer findings, never an aborted scan.

// Evaluator holds an explicit ordered detector list constructed per
// instance. There is no process-wide registry; tests run subsets by
// constructing their own Evaluator.
type Evaluator struct {
	detectors []Detector
}

// builtinDetectors returns the canonical detector battery in its fixed
// documented order.
func builtinDetectors() []Detector {
	return []Detector{
		// Linkage family
		{Name: "fee-payer-reuse", Run: DetectFeePayerReuse},
		{Name: "signer-reuse", Run: DetectSignerReuse},
		{Name: "counterparty-reuse", Run: DetectCounterpartyReuse},
		{Name: "pda-reuse", Run: DetectPDAReuse},
		{Name: "ata-funder-reuse", Run: DetectATAFunderReuse},
		// Behavioral family
		{Name: "timing-patterns", Run: DetectTimingPatterns},
		{Name: "priority-fee-fingerprint", Run: DetectPriorityFeeFingerprint},
		{Name: "compute-unit-fingerprint", Run: DetectComputeUnitFingerprint},
		{Name: "stake-concentration", Run: DetectStakeConcentration},
		{Name: "timezone-inference", Run: DetectTimezonePattern},
		// Exposure family
		{Name: "memo-pii", Run: DetectMemoPII},
		{Name: "identity-programs", Run: DetectIdentityPrograms},
		{Name: "token-account-lifecycle", Run: DetectTokenAccountLifecycle},
	}
}

// NewEvaluator builds an Evaluator over the built-in battery plus any
// caller-supplied detectors, which run after the built-ins in the order
// given. Custom detectors obey the same contract and receive the same
// containment.
func NewEvaluator(extra ...Detector) *Evaluator {
	return &Evaluator{
		detectors: append(builtinDetectors(), extra...),
	}
}

// Evaluate runs every detector over the Context and concatenates their
// findings in canonical order.
func (e *Evaluator) Evaluate(ctx *models.Context) []models.Finding {
	findings := make([]models.Finding, 0)
	for _, d := range e.detectors {
		findings = append(findings, runContained(d, ctx)...)
	}
	return findings
}

// runContained invokes one detector with panic containment. The Context is
// read-only by contract, so a failing detector cannot have corrupted state
// visible to the others.
func runContained(d Detector, ctx *models.Context) (findings []models.Finding) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[detect] detector %q panicked, skipping: %v", d.Name, r)
			findings = nil
		}
	}()
	if d.Run == nil {
		log.Printf("[detect] detector %q has no run function, skipping", d.Name)
		return nil
	}
	return d.Run(ctx)
}
