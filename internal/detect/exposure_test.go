package detect

import (
	"testing"

	"github.com/taylorferran/solana-privacy-scanner-sub000/pkg/models"
)

func memoContext(memos ...string) *models.Context {
	ctx := &models.Context{Target: "t"}
	for i, text := range memos {
		ctx.Instructions = append(ctx.Instructions, models.Instruction{
			ProgramID: MemoProgramV2,
			Category:  models.CategoryMemo,
			Signature: string(rune('a' + i)),
			Data:      text,
		})
	}
	return ctx
}

func TestDetectMemoPII(t *testing.T) {
	tests := []struct {
		name         string
		memo         string
		wantID       string
		wantSeverity models.Severity
	}{
		{"email", "reach me at alice@example.org", "memo-pii-email", models.SeverityHigh},
		{"phone", "call +1 (555) 867-5309", "memo-pii-phone", models.SeverityHigh},
		{"url", "profile: https://linktr.ee/someone", "memo-pii-url", models.SeverityMedium},
		{"name", "Greetings from Alice Johnson", "memo-pii-name", models.SeverityMedium},
		{"descriptive", "monthly rent for the flat", "memo-pii-descriptive", models.SeverityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings := DetectMemoPII(memoContext(tt.memo))

			var hit *models.Finding
			for i := range findings {
				if findings[i].ID == tt.wantID {
					hit = &findings[i]
				}
			}
			if hit == nil {
				t.Fatalf("Expected a %s finding, got %v", tt.wantID, findings)
			}
			if hit.Severity != tt.wantSeverity {
				t.Errorf("Expected %s, got %s", tt.wantSeverity, hit.Severity)
			}
			if len(hit.Evidence) != 1 {
				t.Errorf("Expected 1 evidence entry, got %d", len(hit.Evidence))
			}
		})
	}
}

func TestDetectMemoPII_CleanMemoEmitsNothing(t *testing.T) {
	if findings := DetectMemoPII(memoContext("gm")); len(findings) != 0 {
		t.Errorf("Expected no findings for a clean memo, got %d", len(findings))
	}
}

func TestDetectMemoPII_NoMemos(t *testing.T) {
	ctx := &models.Context{
		Target: "t",
		Instructions: []models.Instruction{
			{ProgramID: "some_program", Category: models.CategoryProgramInteraction, Signature: "s1"},
		},
	}
	if findings := DetectMemoPII(ctx); len(findings) != 0 {
		t.Errorf("Expected no findings without memo instructions, got %d", len(findings))
	}
}

func TestDetectIdentityPrograms(t *testing.T) {
	ctx := &models.Context{
		Target: "t",
		Instructions: []models.Instruction{
			{ProgramID: "namesLPneVptA9Z5rqUDD9tMTWEJwofgaYwp8cawRkX", Category: models.CategoryProgramInteraction, Signature: "s1"},
			{ProgramID: "namesLPneVptA9Z5rqUDD9tMTWEJwofgaYwp8cawRkX", Category: models.CategoryProgramInteraction, Signature: "s2"},
			{ProgramID: "unrelated_program", Category: models.CategoryProgramInteraction, Signature: "s3"},
		},
	}

	findings := DetectIdentityPrograms(ctx)
	if len(findings) != 1 {
		t.Fatalf("Expected 1 finding, got %d", len(findings))
	}
	if findings[0].Severity != models.SeverityHigh {
		t.Errorf("Expected HIGH for a name registry, got %s", findings[0].Severity)
	}
	if findings[0].Category != models.CategoryIdentityLinkage {
		t.Errorf("Expected identity-linkage category, got %s", findings[0].Category)
	}
}

func TestDetectTokenAccountLifecycle_RefundClustering(t *testing.T) {
	refund := func(dest string) *models.RentRefund {
		return &models.RentRefund{Destination: dest, Lamports: 2039280}
	}
	ctx := &models.Context{
		Target: "t",
		TokenAccountEvents: []models.TokenAccountEvent{
			{Type: models.TokenAccountClose, TokenAccount: "ta1", Owner: "sweeper", Signature: "s1", RentRefund: refund("sweeper")},
			{Type: models.TokenAccountClose, TokenAccount: "ta2", Owner: "sweeper", Signature: "s2", RentRefund: refund("sweeper")},
			{Type: models.TokenAccountClose, TokenAccount: "ta3", Owner: "sweeper", Signature: "s3", RentRefund: refund("sweeper")},
		},
	}

	findings := DetectTokenAccountLifecycle(ctx)
	var cluster *models.Finding
	for i := range findings {
		if findings[i].ID == "rent-refund-clustering" {
			cluster = &findings[i]
		}
	}
	if cluster == nil {
		t.Fatalf("Expected rent-refund-clustering, got %v", findings)
	}
	if cluster.Severity != models.SeverityHigh {
		t.Errorf("Expected HIGH, got %s", cluster.Severity)
	}
}

func TestDetectTokenAccountLifecycle_BurnerAccounts(t *testing.T) {
	create, close1 := int64(1000), int64(1500)
	create2, close2 := int64(2000), int64(2600)
	ctx := &models.Context{
		Target: "t",
		TokenAccountEvents: []models.TokenAccountEvent{
			{Type: models.TokenAccountCreate, TokenAccount: "ta1", Owner: "o", Signature: "s1", BlockTime: &create},
			{Type: models.TokenAccountClose, TokenAccount: "ta1", Owner: "o", Signature: "s2", BlockTime: &close1},
			{Type: models.TokenAccountCreate, TokenAccount: "ta2", Owner: "o", Signature: "s3", BlockTime: &create2},
			{Type: models.TokenAccountClose, TokenAccount: "ta2", Owner: "o", Signature: "s4", BlockTime: &close2},
		},
	}

	findings := DetectTokenAccountLifecycle(ctx)
	found := false
	for _, f := range findings {
		if f.ID == "token-account-burner" {
			found = true
			if f.Severity != models.SeverityMedium {
				t.Errorf("Expected MEDIUM, got %s", f.Severity)
			}
		}
	}
	if !found {
		t.Errorf("Expected a token-account-burner finding, got %v", findings)
	}
}

func TestDetectTokenAccountLifecycle_RefundDivergence(t *testing.T) {
	ctx := &models.Context{
		Target: "t",
		TokenAccountEvents: []models.TokenAccountEvent{
			{Type: models.TokenAccountClose, TokenAccount: "ta1", Owner: "owner_A", Signature: "s1",
				RentRefund: &models.RentRefund{Destination: "collector_X", Lamports: 2039280}},
		},
	}

	findings := DetectTokenAccountLifecycle(ctx)
	found := false
	for _, f := range findings {
		if f.ID == "rent-refund-divergence" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected rent-refund-divergence, got %v", findings)
	}
}

func TestDetectTokenAccountLifecycle_NoCloses(t *testing.T) {
	ctx := &models.Context{
		Target: "t",
		TokenAccountEvents: []models.TokenAccountEvent{
			{Type: models.TokenAccountCreate, TokenAccount: "ta1", Owner: "o", Signature: "s1"},
		},
	}
	if findings := DetectTokenAccountLifecycle(ctx); len(findings) != 0 {
		t.Errorf("Expected no findings without close events, got %d", len(findings))
	}
}
