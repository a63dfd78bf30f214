package detect

import (
	"strings"
	"testing"

	"github.com/taylorferran/solana-privacy-scanner-sub000/pkg/models"
)

// businessHoursContext builds activity at 09:00-15:00 UTC across the given
// number of days, leaving 00:00-08:00 completely silent.
func businessHoursContext(days int) *models.Context {
	const dayStart = int64(1_700_006_400) // 2023-11-15 00:00:00 UTC
	var times []int64
	for d := 0; d < days; d++ {
		for hour := 9; hour <= 15; hour++ {
			times = append(times, dayStart+int64(d)*86400+int64(hour)*3600)
		}
	}
	return &models.Context{Target: "t", TransactionRecords: recordsAt(times...)}
}

func TestDetectTimezonePattern_InfersOffsetFromQuietWindow(t *testing.T) {
	// 4 days x 7 transactions, all between 09:00 and 15:00 UTC. The
	// 00:00-08:00 window is empty, so the inferred offset is UTC+0.
	ctx := businessHoursContext(4)

	findings := DetectTimezonePattern(ctx)
	if len(findings) != 1 {
		t.Fatalf("Expected 1 finding, got %d", len(findings))
	}
	f := findings[0]
	if f.Severity != models.SeverityMedium {
		t.Errorf("Expected MEDIUM, got %s", f.Severity)
	}
	if !strings.Contains(f.Reason, "UTC+0") {
		t.Errorf("Expected reason to infer UTC+0, got %q", f.Reason)
	}
}

func TestDetectTimezonePattern_MinimumRequirements(t *testing.T) {
	tests := []struct {
		name string
		ctx  *models.Context
	}{
		{"too few transactions", businessHoursContext(2)}, // 14 txs < 20
		{"no timestamps", &models.Context{Target: "t"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if findings := DetectTimezonePattern(tt.ctx); len(findings) != 0 {
				t.Errorf("Expected no findings, got %d", len(findings))
			}
		})
	}
}

func TestDetectTimezonePattern_UniformActivityEmitsNothing(t *testing.T) {
	// One transaction in every hour of the day across 3 days: no window is
	// meaningfully quieter than uniform, so no offset may be inferred.
	const dayStart = int64(1_700_006_400)
	var times []int64
	for d := 0; d < 3; d++ {
		for hour := 0; hour < 24; hour++ {
			times = append(times, dayStart+int64(d)*86400+int64(hour)*3600)
		}
	}
	ctx := &models.Context{Target: "t", TransactionRecords: recordsAt(times...)}

	if findings := DetectTimezonePattern(ctx); len(findings) != 0 {
		t.Errorf("Expected no findings for uniform activity, got %d", len(findings))
	}
}

func TestOffsetFromSleepWindow(t *testing.T) {
	tests := []struct {
		windowStart int
		want        int
	}{
		{0, 0},   // quiet at midnight UTC: operator on UTC
		{5, -5},  // quiet window starts 05:00 UTC: local midnight is UTC-5
		{20, 4},  // quiet window starts 20:00 UTC: local midnight is UTC+4
		{12, -12},
	}
	for _, tt := range tests {
		if got := offsetFromSleepWindow(tt.windowStart); got != tt.want {
			t.Errorf("offsetFromSleepWindow(%d) = %d, want %d", tt.windowStart, got, tt.want)
		}
	}
}

func TestQuietestWindow_WrapsAndBreaksTiesEarly(t *testing.T) {
	var bins [24]int
	for h := 9; h <= 15; h++ {
		bins[h] = 5
	}
	start, total := quietestWindow(bins)
	// Windows starting 16..0 are all zero; the earliest start hour wins.
	if total != 0 {
		t.Errorf("Expected an empty quietest window, got total %d", total)
	}
	if start != 0 {
		t.Errorf("Expected tie-break to the earliest start hour 0, got %d", start)
	}
}
