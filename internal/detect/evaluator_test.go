package detect

import (
	"reflect"
	"testing"

	"github.com/taylorferran/solana-privacy-scanner-sub000/pkg/models"
)

// richContext builds a Context that trips several detector families at
// once, for exercising the full battery.
func richContext() *models.Context {
	times := make([]int64, 0, 8)
	for i := int64(0); i < 8; i++ {
		times = append(times, 1_700_000_000+i*120)
	}

	ctx := &models.Context{
		Target:     "target_wallet",
		TargetType: models.TargetAccount,
	}
	for i, ts := range times {
		bt := ts
		sig := string(rune('a' + i))
		ctx.TransactionRecords = append(ctx.TransactionRecords, models.TransactionRecord{
			Signature: sig,
			BlockTime: &bt,
			FeePayer:  "shared_payer",
			Signers:   []string{"shared_payer", "target_wallet"},
		})
		ctx.Transfers = append(ctx.Transfers, models.Transfer{
			From: "target_wallet", To: "counterparty_1", Amount: 1000, Signature: sig, BlockTime: &bt,
		})
	}
	ctx.Instructions = []models.Instruction{
		{ProgramID: MemoProgramV2, Category: models.CategoryMemo, Signature: "m1", Data: "invoice 42 from bob@example.com"},
	}
	ctx.TransactionCount = len(times)
	return ctx
}

func TestEvaluateDeterminism(t *testing.T) {
	evaluator := NewEvaluator()
	ctx := richContext()

	first := evaluator.Evaluate(ctx)
	second := evaluator.Evaluate(ctx)

	if len(first) == 0 {
		t.Fatal("Expected the battery to produce findings for a rich context")
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("Two evaluations of the same context produced different findings")
	}
}

func TestEvaluateEmptyContext(t *testing.T) {
	evaluator := NewEvaluator()
	findings := evaluator.Evaluate(&models.Context{Target: "t", TargetType: models.TargetAccount})

	if len(findings) != 0 {
		t.Errorf("Expected no findings for an empty context, got %d", len(findings))
	}
	if findings == nil {
		t.Error("Evaluate should return an empty slice, not nil")
	}
	if risk := AggregateRisk(findings); risk != models.SeverityLow {
		t.Errorf("Expected LOW overall risk with no findings, got %s", risk)
	}
}

func TestEvaluateCustomDetector(t *testing.T) {
	custom := Detector{
		Name: "always-fires",
		Run: func(ctx *models.Context) []models.Finding {
			return []models.Finding{{
				ID:       "custom-check",
				Name:     "Custom Check",
				Severity: models.SeverityLow,
				Category: models.CategoryLinkability,
				Reason:   "test detector",
			}}
		},
	}

	findings := NewEvaluator(custom).Evaluate(&models.Context{Target: "t"})
	if len(findings) != 1 {
		t.Fatalf("Expected exactly the custom finding on an empty context, got %d", len(findings))
	}
	if findings[0].ID != "custom-check" {
		t.Errorf("Expected custom-check, got %s", findings[0].ID)
	}
}

func TestEvaluateContainsPanics(t *testing.T) {
	panicking := Detector{
		Name: "panics",
		Run: func(ctx *models.Context) []models.Finding {
			panic("detector bug")
		},
	}
	after := Detector{
		Name: "after-panic",
		Run: func(ctx *models.Context) []models.Finding {
			return []models.Finding{{ID: "survived", Severity: models.SeverityLow}}
		},
	}

	findings := NewEvaluator(panicking, after).Evaluate(&models.Context{Target: "t"})
	if len(findings) != 1 || findings[0].ID != "survived" {
		t.Errorf("Expected the detector after the panic to still run, got %v", findings)
	}
}

func TestEvaluateNilRunFunction(t *testing.T) {
	findings := NewEvaluator(Detector{Name: "broken"}).Evaluate(&models.Context{Target: "t"})
	if len(findings) != 0 {
		t.Errorf("Expected a detector without a run function to be skipped, got %d findings", len(findings))
	}
}
