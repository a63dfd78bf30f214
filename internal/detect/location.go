package detect

import (
	"fmt"
	"math"
	"time"

	"github.com/taylorferran/solana-privacy-scanner-sub000/pkg/models"
)

// Timezone Inference
//
// Humans sleep, and their wallets sleep with them. Bucketing transaction
// hour-of-day (UTC) into 24 bins and finding the quietest contiguous
// 8-hour window gives a sleep-cycle estimate: if that window is local
// 00:00-08:00, the UTC offset falls out directly.
//
// Guard rails against fabricating a signal from noise:
//
//   - at least 20 timestamped transactions spanning >= 3 distinct UTC days
//   - the quiet window's activity must be under 50% of what a uniform
//     distribution would place there, or no finding is emitted
//
// Ties on window totals break toward the earliest start hour so the result
// is deterministic. This is the same hour-distribution technique used for
// exchange attribution in chain forensics literature; applied to an
// individual wallet it narrows the operator to a handful of timezones.

const (
	locationMinTxs    = 20
	locationMinDays   = 3
	sleepWindowHours  = 8
	quietWindowFactor = 0.5
)

// DetectTimezonePattern infers a probable UTC offset from the target's
// hour-of-day activity distribution.
func DetectTimezonePattern(ctx *models.Context) []models.Finding {
	times := collectBlockTimes(ctx)
	if len(times) < locationMinTxs {
		return nil
	}

	var hourBins [24]int
	days := make(map[string]bool)
	for _, ts := range times {
		t := time.Unix(ts, 0).UTC()
		hourBins[t.Hour()]++
		days[t.Format("2006-01-02")] = true
	}
	if len(days) < locationMinDays {
		return nil
	}

	windowStart, windowTotal := quietestWindow(hourBins)

	// Expected activity in any 8-hour stretch under a uniform spread.
	uniformWindow := float64(len(times)) * float64(sleepWindowHours) / 24.0
	if float64(windowTotal) >= uniformWindow*quietWindowFactor {
		return nil
	}

	offset := offsetFromSleepWindow(windowStart)
	quietness := 1.0 - float64(windowTotal)/uniformWindow
	confidence := math.Min(0.85, 0.4+0.5*quietness)

	return []models.Finding{{
		ID:         "timezone-inference",
		Name:       "Timezone Inference",
		Severity:   models.SeverityMedium,
		Confidence: confidence,
		Category:   models.CategoryBehavioral,
		Reason: fmt.Sprintf("Activity is quietest during %02d:00-%02d:00 UTC (%d of %d transactions); assuming local sleep hours, the operator is likely at %s",
			windowStart, (windowStart+sleepWindowHours)%24, windowTotal, len(times), formatUTCOffset(offset)),
		Impact: "An inferred timezone narrows the operator's physical location to a " +
			"longitude band and can corroborate other identity leads.",
		Mitigation: "Schedule transactions via automation distributed across the day rather " +
			"than submitting them manually during waking hours.",
		Evidence: []models.Evidence{{
			Description: fmt.Sprintf("Quietest 8-hour window %02d:00-%02d:00 UTC holds %d transactions vs %.1f expected under uniform activity",
				windowStart, (windowStart+sleepWindowHours)%24, windowTotal, uniformWindow),
			Severity: models.SeverityMedium,
		}, {
			Description: fmt.Sprintf("Sample: %d transactions across %d distinct days", len(times), len(days)),
			Severity:    models.SeverityLow,
		}},
	}}
}

// quietestWindow scans all 24 wrapping 8-hour windows and returns the start
// hour and total of the least active one. Earlier start hours win ties.
func quietestWindow(bins [24]int) (start, total int) {
	best := -1
	for s := 0; s < 24; s++ {
		sum := 0
		for i := 0; i < sleepWindowHours; i++ {
			sum += bins[(s+i)%24]
		}
		if best == -1 || sum < best {
			best = sum
			start = s
		}
	}
	return start, best
}

// offsetFromSleepWindow maps a quiet-window start hour (UTC) to the UTC
// offset under which that window is local midnight to 08:00. Normalized to
// the [-12, +11] range.
func offsetFromSleepWindow(windowStartUTC int) int {
	offset := (24 - windowStartUTC) % 24
	if offset > 11 {
		offset -= 24
	}
	return offset
}

func formatUTCOffset(offset int) string {
	if offset >= 0 {
		return fmt.Sprintf("UTC+%d", offset)
	}
	return fmt.Sprintf("UTC%d", offset)
}
