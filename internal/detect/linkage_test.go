package detect

import (
	"testing"

	"github.com/taylorferran/solana-privacy-scanner-sub000/pkg/models"
)

func tn(ts int64) *int64 { return &ts }

func TestDetectCounterpartyReuse_ConcentrationThreshold(t *testing.T) {
	// 5 transfers, 3 to the same counterparty: concentration 0.6 > 0.5
	// must yield exactly one HIGH finding.
	ctx := &models.Context{
		Target:     "target_wallet",
		TargetType: models.TargetAccount,
		Transfers: []models.Transfer{
			{From: "target_wallet", To: "counterparty_A", Amount: 100, Signature: "sig1"},
			{From: "target_wallet", To: "counterparty_A", Amount: 200, Signature: "sig2"},
			{From: "target_wallet", To: "counterparty_A", Amount: 300, Signature: "sig3"},
			{From: "target_wallet", To: "counterparty_B", Amount: 400, Signature: "sig4"},
			{From: "target_wallet", To: "counterparty_C", Amount: 500, Signature: "sig5"},
		},
	}

	findings := DetectCounterpartyReuse(ctx)
	if len(findings) != 1 {
		t.Fatalf("Expected exactly 1 finding, got %d", len(findings))
	}
	if findings[0].Severity != models.SeverityHigh {
		t.Errorf("Expected HIGH severity at concentration 0.6, got %s", findings[0].Severity)
	}
	if findings[0].ID != "counterparty-reuse" {
		t.Errorf("Expected id counterparty-reuse, got %s", findings[0].ID)
	}
}

func TestDetectCounterpartyReuse_BelowMinimum(t *testing.T) {
	ctx := &models.Context{
		Target:    "target_wallet",
		Transfers: []models.Transfer{{From: "target_wallet", To: "cp_A", Signature: "sig1"}},
	}
	if findings := DetectCounterpartyReuse(ctx); len(findings) != 0 {
		t.Errorf("Expected no findings below the 2-transfer minimum, got %d", len(findings))
	}
}

func TestDetectCounterpartyReuse_NoRepeats(t *testing.T) {
	ctx := &models.Context{
		Target: "target_wallet",
		Transfers: []models.Transfer{
			{From: "target_wallet", To: "cp_A", Signature: "sig1"},
			{From: "target_wallet", To: "cp_B", Signature: "sig2"},
			{From: "cp_C", To: "target_wallet", Signature: "sig3"},
		},
	}
	if findings := DetectCounterpartyReuse(ctx); len(findings) != 0 {
		t.Errorf("Expected no findings when no counterparty repeats, got %d", len(findings))
	}
}

func TestDetectFeePayerReuse(t *testing.T) {
	tests := []struct {
		name         string
		payers       []string
		wantFindings int
		wantSeverity models.Severity
	}{
		{
			name:         "all one payer is HIGH",
			payers:       []string{"payer_A", "payer_A", "payer_A"},
			wantFindings: 1,
			wantSeverity: models.SeverityHigh,
		},
		{
			name:         "five uses of one payer is HIGH by count",
			payers:       []string{"payer_A", "payer_A", "payer_A", "payer_A", "payer_A", "b", "c", "d", "e", "f", "g"},
			wantFindings: 1,
			wantSeverity: models.SeverityHigh,
		},
		{
			name:         "2 of 7 is LOW",
			payers:       []string{"payer_A", "payer_A", "b", "c", "d", "e", "f"},
			wantFindings: 1,
			wantSeverity: models.SeverityLow,
		},
		{
			name:         "no repeated payer emits nothing",
			payers:       []string{"payer_A", "payer_B", "payer_C"},
			wantFindings: 0,
		},
		{
			name:         "single record is below minimum",
			payers:       []string{"payer_A"},
			wantFindings: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := &models.Context{Target: "target_wallet"}
			for i, p := range tt.payers {
				ctx.TransactionRecords = append(ctx.TransactionRecords, models.TransactionRecord{
					Signature: string(rune('a' + i)),
					FeePayer:  p,
				})
			}

			findings := DetectFeePayerReuse(ctx)
			if len(findings) != tt.wantFindings {
				t.Fatalf("Expected %d findings, got %d", tt.wantFindings, len(findings))
			}
			if tt.wantFindings > 0 && findings[0].Severity != tt.wantSeverity {
				t.Errorf("Expected severity %s, got %s", tt.wantSeverity, findings[0].Severity)
			}
		})
	}
}

func TestDetectSignerReuse_SignerSet(t *testing.T) {
	// The same 2-key set on 3 transactions, listed in different orders:
	// sorted-set comparison must still match them.
	ctx := &models.Context{
		Target: "target_wallet",
		TransactionRecords: []models.TransactionRecord{
			{Signature: "s1", FeePayer: "key_A", Signers: []string{"key_A", "key_B"}},
			{Signature: "s2", FeePayer: "key_A", Signers: []string{"key_B", "key_A"}},
			{Signature: "s3", FeePayer: "key_A", Signers: []string{"key_A", "key_B"}},
		},
	}

	findings := DetectSignerReuse(ctx)

	var setFinding *models.Finding
	for i := range findings {
		if findings[i].ID == "signer-set-reuse" {
			setFinding = &findings[i]
		}
	}
	if setFinding == nil {
		t.Fatalf("Expected a signer-set-reuse finding, got %v", findings)
	}
	if setFinding.Severity != models.SeverityMedium {
		t.Errorf("Expected MEDIUM for 3 reuses, got %s", setFinding.Severity)
	}
}

func TestDetectPDAReuse_CrossProgram(t *testing.T) {
	ctx := &models.Context{
		Target: "target_wallet",
		Instructions: []models.Instruction{
			{ProgramID: "program_1", Category: models.CategoryProgramInteraction, Signature: "s1", Accounts: []string{"pda_X", "other_1"}},
			{ProgramID: "program_1", Category: models.CategoryProgramInteraction, Signature: "s2", Accounts: []string{"pda_X", "other_2"}},
			{ProgramID: "program_2", Category: models.CategoryProgramInteraction, Signature: "s3", Accounts: []string{"pda_X", "other_3"}},
		},
	}

	findings := DetectPDAReuse(ctx)
	if len(findings) != 1 {
		t.Fatalf("Expected 1 pda-reuse finding, got %d", len(findings))
	}
	// pda_X holds 3 of 6 references: concentration 0.5, not > 0.5, but the
	// cross-program rule fires at MEDIUM.
	if findings[0].Severity != models.SeverityMedium {
		t.Errorf("Expected MEDIUM, got %s", findings[0].Severity)
	}
}

func TestDetectPDAReuse_DominantAccountDoesNotMaskCrossProgram(t *testing.T) {
	// pda_X dominates with 4 single-program references (concentration 4/7
	// but below the 5-reference floor), while pda_Y holds 3 references
	// across two programs. The cross-program rule must still fire on pda_Y.
	ctx := &models.Context{
		Target: "target_wallet",
		Instructions: []models.Instruction{
			{ProgramID: "program_1", Category: models.CategoryProgramInteraction, Signature: "s1", Accounts: []string{"pda_X"}},
			{ProgramID: "program_1", Category: models.CategoryProgramInteraction, Signature: "s2", Accounts: []string{"pda_X"}},
			{ProgramID: "program_1", Category: models.CategoryProgramInteraction, Signature: "s3", Accounts: []string{"pda_X"}},
			{ProgramID: "program_1", Category: models.CategoryProgramInteraction, Signature: "s4", Accounts: []string{"pda_X"}},
			{ProgramID: "program_1", Category: models.CategoryProgramInteraction, Signature: "s5", Accounts: []string{"pda_Y"}},
			{ProgramID: "program_2", Category: models.CategoryProgramInteraction, Signature: "s6", Accounts: []string{"pda_Y"}},
			{ProgramID: "program_2", Category: models.CategoryProgramInteraction, Signature: "s7", Accounts: []string{"pda_Y"}},
		},
	}

	findings := DetectPDAReuse(ctx)
	if len(findings) != 1 {
		t.Fatalf("Expected 1 pda-reuse finding, got %d", len(findings))
	}
	if findings[0].Evidence[0].Reference != "pda_Y" {
		t.Errorf("Expected the cross-program account pda_Y, got %s", findings[0].Evidence[0].Reference)
	}
	// 3 of 7 references: concentration below 0.5, so MEDIUM.
	if findings[0].Severity != models.SeverityMedium {
		t.Errorf("Expected MEDIUM, got %s", findings[0].Severity)
	}
}

func TestDetectATAFunderReuse(t *testing.T) {
	ctx := &models.Context{
		Target: "target_wallet",
		TokenAccountEvents: []models.TokenAccountEvent{
			{Type: models.TokenAccountCreate, TokenAccount: "ta1", Owner: "funder_A", Signature: "s1"},
			{Type: models.TokenAccountCreate, TokenAccount: "ta2", Owner: "funder_A", Signature: "s2"},
			{Type: models.TokenAccountCreate, TokenAccount: "ta3", Owner: "funder_A", Signature: "s3"},
			{Type: models.TokenAccountCreate, TokenAccount: "ta4", Owner: "funder_B", Signature: "s4"},
		},
	}

	findings := DetectATAFunderReuse(ctx)
	if len(findings) != 1 {
		t.Fatalf("Expected 1 finding, got %d", len(findings))
	}
	// 3 of 4 creations: concentration 0.75 > 0.5 escalates to HIGH.
	if findings[0].Severity != models.SeverityHigh {
		t.Errorf("Expected HIGH, got %s", findings[0].Severity)
	}
}

func TestConcentrationTieBreak(t *testing.T) {
	// Equal counts must resolve to the lexicographically smallest key so
	// output never depends on map iteration order.
	counts := map[string]int{"bbb": 3, "aaa": 3, "ccc": 1}
	topKey, topCount, total := concentration(counts)
	if topKey != "aaa" || topCount != 3 || total != 7 {
		t.Errorf("Expected (aaa, 3, 7), got (%s, %d, %d)", topKey, topCount, total)
	}
}
