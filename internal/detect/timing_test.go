package detect

import (
	"strings"
	"testing"

	"github.com/taylorferran/solana-privacy-scanner-sub000/pkg/models"
)

func recordsAt(times ...int64) []models.TransactionRecord {
	recs := make([]models.TransactionRecord, len(times))
	for i, ts := range times {
		t := ts
		recs[i] = models.TransactionRecord{
			Signature: string(rune('a' + i)),
			FeePayer:  "payer",
			BlockTime: &t,
		}
	}
	return recs
}

func TestDetectBurst_SubHourSpanIsMedium(t *testing.T) {
	// 6 transactions 60 seconds apart: the 5-minute span extrapolates to
	// 72 tx/hour, but the span rule caps sub-hour windows at MEDIUM.
	base := int64(1_700_000_000)
	ctx := &models.Context{
		Target:             "target_wallet",
		TransactionRecords: recordsAt(base, base+60, base+120, base+180, base+240, base+300),
	}

	findings := DetectTimingPatterns(ctx)

	var burst *models.Finding
	for i := range findings {
		if findings[i].ID == "timing-burst" {
			burst = &findings[i]
		}
	}
	if burst == nil {
		t.Fatal("Expected a timing-burst finding")
	}
	if burst.Severity != models.SeverityMedium {
		t.Errorf("Expected MEDIUM for sub-hour span, got %s", burst.Severity)
	}
}

func TestDetectBurst_SustainedRateIsHigh(t *testing.T) {
	// 24 transactions over 2 hours = 12/hour > 10/hour.
	base := int64(1_700_000_000)
	var times []int64
	for i := 0; i < 24; i++ {
		times = append(times, base+int64(i)*313) // ~2h span
	}
	ctx := &models.Context{Target: "t", TransactionRecords: recordsAt(times...)}

	findings := DetectTimingPatterns(ctx)
	var burst *models.Finding
	for i := range findings {
		if findings[i].ID == "timing-burst" {
			burst = &findings[i]
		}
	}
	if burst == nil {
		t.Fatal("Expected a timing-burst finding")
	}
	if burst.Severity != models.SeverityHigh {
		t.Errorf("Expected HIGH at 12 tx/hour over 2 hours, got %s", burst.Severity)
	}
}

func TestDetectRegularIntervals_HourlyCadenceIsHigh(t *testing.T) {
	// Exactly hourly submissions: CV 0 < 0.3, mean gap 3600s.
	base := int64(1_700_000_000)
	var times []int64
	for i := 0; i < 8; i++ {
		times = append(times, base+int64(i)*3600)
	}
	ctx := &models.Context{Target: "t", TransactionRecords: recordsAt(times...)}

	findings := DetectTimingPatterns(ctx)
	var regular *models.Finding
	for i := range findings {
		if findings[i].ID == "regular-intervals" {
			regular = &findings[i]
		}
	}
	if regular == nil {
		t.Fatal("Expected a regular-intervals finding")
	}
	if regular.Severity != models.SeverityHigh {
		t.Errorf("Expected HIGH for hourly cadence, got %s", regular.Severity)
	}
	if !strings.Contains(regular.Reason, "hourly cadence") {
		t.Errorf("Expected the reason to name the hourly cadence, got %q", regular.Reason)
	}
}

func TestDetectRegularIntervals_IrregularGapsEmitNothing(t *testing.T) {
	base := int64(1_700_000_000)
	ctx := &models.Context{
		Target:             "t",
		TransactionRecords: recordsAt(base, base+100, base+5000, base+5200, base+90000),
	}

	for _, f := range DetectTimingPatterns(ctx) {
		if f.ID == "regular-intervals" {
			t.Errorf("Expected no regularity finding for irregular gaps, got %+v", f)
		}
	}
}

func TestDetectTimingPatterns_MonotonicEmptiness(t *testing.T) {
	tests := []struct {
		name string
		ctx  *models.Context
	}{
		{"no records", &models.Context{Target: "t"}},
		{"two timestamps", &models.Context{Target: "t", TransactionRecords: recordsAt(100, 200)}},
		{"records without timestamps", &models.Context{Target: "t", TransactionRecords: []models.TransactionRecord{
			{Signature: "a", FeePayer: "p"},
			{Signature: "b", FeePayer: "p"},
			{Signature: "c", FeePayer: "p"},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if findings := DetectTimingPatterns(tt.ctx); len(findings) != 0 {
				t.Errorf("Expected no findings, got %d", len(findings))
			}
		})
	}
}

func TestCollectBlockTimes_SortsAndDeduplicates(t *testing.T) {
	t1, t2, t3 := int64(300), int64(100), int64(200)
	ctx := &models.Context{
		Transfers: []models.Transfer{
			{Signature: "sig_a", BlockTime: &t1},
			{Signature: "sig_b", BlockTime: &t2},
			{Signature: "sig_a", BlockTime: &t1}, // same tx seen twice
		},
		Instructions: []models.Instruction{
			{Signature: "sig_c", BlockTime: &t3},
			{Signature: "sig_b", BlockTime: &t2},
		},
	}

	times := collectBlockTimes(ctx)
	want := []int64{100, 200, 300}
	if len(times) != len(want) {
		t.Fatalf("Expected %d timestamps, got %d", len(want), len(times))
	}
	for i := range want {
		if times[i] != want[i] {
			t.Errorf("Expected times[%d]=%d, got %d", i, want[i], times[i])
		}
	}
}

func TestCollectBlockTimes_FallsBackWhenRecordsLackTimestamps(t *testing.T) {
	// Records exist but carry no block times; the transfers still do, and
	// their timestamps must not be discarded.
	t1, t2 := int64(100), int64(200)
	ctx := &models.Context{
		TransactionRecords: []models.TransactionRecord{
			{Signature: "sig_a", FeePayer: "p"},
			{Signature: "sig_b", FeePayer: "p"},
		},
		Transfers: []models.Transfer{
			{Signature: "sig_a", BlockTime: &t1},
			{Signature: "sig_b", BlockTime: &t2},
		},
	}

	times := collectBlockTimes(ctx)
	if len(times) != 2 || times[0] != 100 || times[1] != 200 {
		t.Errorf("Expected [100 200] from the transfer fallback, got %v", times)
	}
}
