package detect

import (
	"fmt"
	"sort"

	"github.com/taylorferran/solana-privacy-scanner-sub000/pkg/models"
)

// Detector Contract
//
// Every detector is a pure function over the normalized Context:
//
//   - Empty slice means "no signal", never "error".
//   - A detector below its minimum data requirement returns an empty slice;
//     under-powered statistics must not fabricate a signal.
//   - Missing optional fields exclude a record from the computation, they
//     are never coerced to zero.
//   - Output is deterministic: map iteration goes through sorted keys,
//     timestamps are sorted before any order-dependent statistic, and ties
//     break lexicographically. Re-running on identical input reproduces
//     byte-identical findings.
//
// Detectors never read the clock, random sources, or anything outside the
// Context, and never see another detector's output.

// Detector pairs a stable name with its analysis function. The name is used
// only for diagnostics when a detector is contained by the Evaluator.
type Detector struct {
	Name string
	Run  func(ctx *models.Context) []models.Finding
}

// concentration computes the dominant key of a count map: the key with the
// highest count (lexicographically smallest on ties), its count, and the
// total across all keys. Concentration = topCount/total is the fraction of
// events attributable to the single most frequent key.
func concentration(counts map[string]int) (topKey string, topCount, total int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
		total += counts[k]
	}
	sort.Strings(keys)
	for _, k := range keys {
		if counts[k] > topCount {
			topKey = k
			topCount = counts[k]
		}
	}
	return topKey, topCount, total
}

// classifyConcentration applies the shared linkage cut points:
// concentration > 0.5 or count >= 5 is HIGH, > 0.3 or >= 3 is MEDIUM,
// anything else LOW.
func classifyConcentration(conc float64, topCount int) models.Severity {
	switch {
	case conc > 0.5 || topCount >= 5:
		return models.SeverityHigh
	case conc > 0.3 || topCount >= 3:
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}

// shortAddr truncates an address for evidence text: first 4 and last 4
// characters. Short strings pass through untouched.
func shortAddr(a string) string {
	if len(a) <= 11 {
		return a
	}
	return a[:4] + "..." + a[len(a)-4:]
}

// sortedKeys returns the map's keys in lexicographic order so evidence
// emission never depends on Go's randomized map iteration.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// collectBlockTimes gathers every known transaction timestamp, sorted
// ascending. Transaction records are preferred; when they yield no
// timestamps at all, transfers and instructions are merged and
// de-duplicated by signature so a transaction contributing both a transfer
// and an instruction counts once.
func collectBlockTimes(ctx *models.Context) []int64 {
	var times []int64

	for _, rec := range ctx.TransactionRecords {
		if rec.BlockTime != nil {
			times = append(times, *rec.BlockTime)
		}
	}
	if len(times) == 0 {
		seen := make(map[string]bool)
		for _, tr := range ctx.Transfers {
			if tr.BlockTime != nil && !seen[tr.Signature] {
				seen[tr.Signature] = true
				times = append(times, *tr.BlockTime)
			}
		}
		for _, ins := range ctx.Instructions {
			if ins.BlockTime != nil && !seen[ins.Signature] {
				seen[ins.Signature] = true
				times = append(times, *ins.BlockTime)
			}
		}
	}

	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })
	return times
}

// pct renders a ratio as a fixed one-decimal percentage for reason strings.
func pct(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}
