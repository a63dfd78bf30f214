package detect

import (
	"fmt"
	"math"

	"github.com/taylorferran/solana-privacy-scanner-sub000/pkg/models"
)

// Temporal Pattern Analysis
//
// Two finding classes come out of the transaction timestamps:
//
//  1. Bursts: many transactions in a short window mark automated or
//     scripted activity and give observers a tight temporal anchor to
//     correlate with off-chain events.
//
//     Precedence rule: when the observed span is at least one hour, the
//     rate thresholds are authoritative (> 10 tx/h -> HIGH, > 5 tx/h ->
//     MEDIUM). When the span is under one hour with >= 3 transactions the
//     span rule fires at MEDIUM, and the extrapolated hourly rate is
//     deliberately ignored: projecting a 5-minute flurry to 72 tx/h would
//     overstate the evidence.
//
//  2. Regular intervals: consecutive gaps with a coefficient of variation
//     (stddev/mean) under 0.3 and a mean gap over 60 seconds indicate
//     scheduled automation. Severity escalates to HIGH when the mean gap
//     sits within 5% of exactly one hour or one day, the two canonical
//     cron cadences.
//
// Timestamps are sorted before any gap statistic, so upstream ingestion
// order can never change the result. Minimum data: 3 timestamped
// transactions for bursts, 4 for regularity.

const (
	burstRateHigh   = 10.0 // tx per hour
	burstRateMedium = 5.0
	regularityMaxCV = 0.3
	regularityMinGap = 60.0 // seconds
)

// DetectTimingPatterns flags transaction bursts and suspiciously regular
// submission intervals.
func DetectTimingPatterns(ctx *models.Context) []models.Finding {
	times := collectBlockTimes(ctx)

	var findings []models.Finding
	if f := detectBurst(times); f != nil {
		findings = append(findings, *f)
	}
	if f := detectRegularIntervals(times); f != nil {
		findings = append(findings, *f)
	}
	return findings
}

func detectBurst(times []int64) *models.Finding {
	if len(times) < 3 {
		return nil
	}

	spanSeconds := float64(times[len(times)-1] - times[0])
	if spanSeconds <= 0 {
		// All timestamps identical: everything landed in one slot window.
		spanSeconds = 1
	}
	elapsedHours := spanSeconds / 3600.0
	rate := float64(len(times)) / elapsedHours

	var severity models.Severity
	var reason string
	switch {
	case elapsedHours < 1.0:
		severity = models.SeverityMedium
		reason = fmt.Sprintf("%d transactions within %.0f minutes", len(times), spanSeconds/60)
	case rate > burstRateHigh:
		severity = models.SeverityHigh
		reason = fmt.Sprintf("Sustained rate of %.1f transactions/hour over %.1f hours", rate, elapsedHours)
	case rate > burstRateMedium:
		severity = models.SeverityMedium
		reason = fmt.Sprintf("Elevated rate of %.1f transactions/hour over %.1f hours", rate, elapsedHours)
	default:
		return nil
	}

	return &models.Finding{
		ID:         "timing-burst",
		Name:       "Transaction Burst",
		Severity:   severity,
		Confidence: 0.7,
		Category:   models.CategoryBehavioral,
		Reason:     reason,
		Impact: "Dense activity windows correlate with off-chain events (logins, script runs, " +
			"market moves) and narrow down when the operator is at the keyboard.",
		Mitigation: "Spread transactions over time or introduce randomized delays between " +
			"submissions.",
		Evidence: []models.Evidence{{
			Description: fmt.Sprintf("%d timestamped transactions spanning %.0f seconds (%.1f/hour)",
				len(times), spanSeconds, rate),
			Severity: severity,
		}},
	}
}

func detectRegularIntervals(times []int64) *models.Finding {
	if len(times) < 4 {
		return nil
	}

	gaps := make([]float64, 0, len(times)-1)
	for i := 1; i < len(times); i++ {
		gaps = append(gaps, float64(times[i]-times[i-1]))
	}

	mean, stddev := meanStddev(gaps)
	if mean <= regularityMinGap {
		return nil
	}
	cv := stddev / mean
	if cv >= regularityMaxCV {
		return nil
	}

	severity := models.SeverityMedium
	cadence := ""
	if withinPercent(mean, 3600, 5) {
		severity = models.SeverityHigh
		cadence = " (hourly cadence)"
	} else if withinPercent(mean, 86400, 5) {
		severity = models.SeverityHigh
		cadence = " (daily cadence)"
	}

	return &models.Finding{
		ID:         "regular-intervals",
		Name:       "Regular Transaction Intervals",
		Severity:   severity,
		Confidence: math.Min(0.95, 1.0-cv),
		Category:   models.CategoryBehavioral,
		Reason: fmt.Sprintf("%d consecutive gaps average %.0fs with coefficient of variation %.2f%s",
			len(gaps), mean, cv, cadence),
		Impact: "Clockwork intervals are an automation fingerprint; the schedule itself " +
			"identifies the software and survives wallet rotation.",
		Mitigation: "Add jitter to scheduled jobs so submission times do not form a " +
			"recognizable cadence.",
		Evidence: []models.Evidence{{
			Description: fmt.Sprintf("Mean gap %.0fs, stddev %.0fs across %d intervals",
				mean, stddev, len(gaps)),
			Severity: severity,
		}},
	}
}

// meanStddev computes the arithmetic mean and population standard deviation.
func meanStddev(xs []float64) (mean, stddev float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	var sumSq float64
	for _, x := range xs {
		d := x - mean
		sumSq += d * d
	}
	return mean, math.Sqrt(sumSq / float64(len(xs)))
}

func withinPercent(value, reference, percent float64) bool {
	return math.Abs(value-reference) <= reference*percent/100
}
