// Package normalize converts raw RPC transaction payloads into the
// models.Context consumed by the detector core. This is the boundary where
// messy chain data becomes the immutable normalized snapshot: absent
// timestamps stay absent, unparseable instructions degrade to generic
// program interactions, and failed transactions are skipped entirely.
package normalize

import (
	"encoding/json"
	"sort"

	"github.com/taylorferran/solana-privacy-scanner-sub000/internal/labels"
	"github.com/taylorferran/solana-privacy-scanner-sub000/internal/solana"
	"github.com/taylorferran/solana-privacy-scanner-sub000/pkg/models"
)

// Well-known program identifiers used during categorization.
const (
	systemProgram       = "11111111111111111111111111111111"
	tokenProgram        = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	ataProgram          = "ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL"
	stakeProgram        = "Stake11111111111111111111111111111111111111"
	memoProgramV2       = "MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr"
	memoProgramV1       = "Memo1UhkJRfHyvLMcVucJwxXeuD728EqVDDwQDxFMNo"
	computeBudget       = "ComputeBudget111111111111111111111111111111"
	baseFeePerSignature = 5000 // lamports
)

// parsedInfo is the union of the jsonParsed info fields we read. Unset
// fields stay zero and are ignored per instruction type.
type parsedInfo struct {
	Type string `json:"type"`
	Info struct {
		Source       string `json:"source"`
		Destination  string `json:"destination"`
		Lamports     uint64 `json:"lamports"`
		Amount       string `json:"amount"`
		Mint         string `json:"mint"`
		Account      string `json:"account"`
		Wallet       string `json:"wallet"`
		Owner        string `json:"owner"`
		StakeAccount string `json:"stakeAccount"`
		VoteAccount  string `json:"voteAccount"`
		TokenAmount  struct {
			Amount string `json:"amount"`
		} `json:"tokenAmount"`
	} `json:"info"`
}

// BuildContext assembles a Context for one target from its fetched
// transactions, attaching labels for every referenced address.
func BuildContext(target string, targetType models.TargetType, txs []*solana.TransactionResult, store *labels.Store) *models.Context {
	ctx := &models.Context{
		Target:           target,
		TargetType:       targetType,
		Transfers:        []models.Transfer{},
		Instructions:     []models.Instruction{},
		Labels:           map[string]models.Label{},
		TransactionCount: 0,
	}

	counterparties := make(map[string]bool)
	addresses := make(map[string]bool)
	addresses[target] = true

	for _, tx := range txs {
		if tx == nil || tx.Failed() {
			continue
		}
		ctx.TransactionCount++

		sig := ""
		if len(tx.Transaction.Signatures) > 0 {
			sig = tx.Transaction.Signatures[0]
		}

		ctx.TransactionRecords = append(ctx.TransactionRecords, buildRecord(tx, sig))
		expandTimeRange(&ctx.TimeRange, tx.BlockTime)

		for _, ins := range tx.Transaction.Message.Instructions {
			normalizeInstruction(ctx, ins, sig, tx.BlockTime, target, counterparties, addresses)
		}
	}

	ctx.Counterparties = sortedSet(counterparties)

	if store != nil {
		ctx.Labels = store.LookupMany(sortedSet(addresses))
	}
	return ctx
}

func buildRecord(tx *solana.TransactionResult, sig string) models.TransactionRecord {
	rec := models.TransactionRecord{
		Signature: sig,
		BlockTime: tx.BlockTime,
	}

	var signers []string
	for _, key := range tx.Transaction.Message.AccountKeys {
		if key.Signer {
			signers = append(signers, key.Pubkey)
		}
	}
	rec.Signers = signers
	if len(signers) > 0 {
		// The first signer account is the fee payer by protocol rule.
		rec.FeePayer = signers[0]
	}

	if tx.Meta != nil {
		rec.ComputeUnitsUsed = tx.Meta.ComputeUnitsConsumed

		// Anything above the base per-signature fee was paid for priority.
		base := uint64(baseFeePerSignature) * uint64(len(tx.Transaction.Signatures))
		if tx.Meta.Fee > base {
			priority := tx.Meta.Fee - base
			rec.PriorityFee = &priority
		}
	}
	return rec
}

func normalizeInstruction(ctx *models.Context, ins solana.ParsedInstruction, sig string, blockTime *int64,
	target string, counterparties, addresses map[string]bool) {

	if ins.ProgramID == computeBudget {
		// Fee configuration, already captured on the transaction record.
		return
	}

	var parsed parsedInfo
	if len(ins.Parsed) > 0 {
		// Memo programs encode Parsed as a bare string; everything else as
		// an object. A failed decode just downgrades the instruction.
		if err := json.Unmarshal(ins.Parsed, &parsed); err != nil {
			parsed = parsedInfo{}
		}
	}

	for _, acct := range ins.Accounts {
		addresses[acct] = true
	}
	addresses[ins.ProgramID] = true

	switch {
	case ins.ProgramID == systemProgram && parsed.Type == "transfer":
		appendTransfer(ctx, models.Transfer{
			From:      parsed.Info.Source,
			To:        parsed.Info.Destination,
			Amount:    parsed.Info.Lamports,
			Signature: sig,
			BlockTime: blockTime,
		}, target, counterparties, addresses)
		appendInstruction(ctx, ins, models.CategoryTransfer, sig, blockTime)

	case ins.ProgramID == tokenProgram && (parsed.Type == "transfer" || parsed.Type == "transferChecked"):
		amount := parseAmount(parsed)
		appendTransfer(ctx, models.Transfer{
			From:      parsed.Info.Source,
			To:        parsed.Info.Destination,
			Amount:    amount,
			Token:     parsed.Info.Mint,
			Signature: sig,
			BlockTime: blockTime,
		}, target, counterparties, addresses)
		appendInstruction(ctx, ins, models.CategoryTransfer, sig, blockTime)

	case ins.ProgramID == ataProgram && (parsed.Type == "create" || parsed.Type == "createIdempotent"):
		ctx.TokenAccountEvents = append(ctx.TokenAccountEvents, models.TokenAccountEvent{
			Type:         models.TokenAccountCreate,
			TokenAccount: parsed.Info.Account,
			Owner:        firstNonEmpty(parsed.Info.Wallet, parsed.Info.Source),
			Signature:    sig,
			BlockTime:    blockTime,
		})
		appendInstruction(ctx, ins, models.CategoryTokenAccount, sig, blockTime)

	case ins.ProgramID == tokenProgram && parsed.Type == "closeAccount":
		ev := models.TokenAccountEvent{
			Type:         models.TokenAccountClose,
			TokenAccount: parsed.Info.Account,
			Owner:        parsed.Info.Owner,
			Signature:    sig,
			BlockTime:    blockTime,
		}
		if parsed.Info.Destination != "" {
			ev.RentRefund = &models.RentRefund{Destination: parsed.Info.Destination}
		}
		ctx.TokenAccountEvents = append(ctx.TokenAccountEvents, ev)
		appendInstruction(ctx, ins, models.CategoryTokenAccount, sig, blockTime)

	case ins.ProgramID == stakeProgram && parsed.Type == "delegate":
		ctx.Instructions = append(ctx.Instructions, models.Instruction{
			ProgramID: ins.ProgramID,
			Category:  models.CategoryStake,
			Signature: sig,
			BlockTime: blockTime,
			Accounts:  []string{parsed.Info.StakeAccount, parsed.Info.VoteAccount},
		})

	case ins.ProgramID == memoProgramV2 || ins.ProgramID == memoProgramV1:
		ctx.Instructions = append(ctx.Instructions, models.Instruction{
			ProgramID: ins.ProgramID,
			Category:  models.CategoryMemo,
			Signature: sig,
			BlockTime: blockTime,
			Data:      memoText(ins),
		})

	default:
		appendInstruction(ctx, ins, models.CategoryProgramInteraction, sig, blockTime)
	}
}

func appendTransfer(ctx *models.Context, tr models.Transfer, target string, counterparties, addresses map[string]bool) {
	ctx.Transfers = append(ctx.Transfers, tr)
	addresses[tr.From] = true
	addresses[tr.To] = true
	if tr.From == target && tr.To != target && tr.To != "" {
		counterparties[tr.To] = true
	}
	if tr.To == target && tr.From != target && tr.From != "" {
		counterparties[tr.From] = true
	}
}

func appendInstruction(ctx *models.Context, ins solana.ParsedInstruction, cat models.InstructionCategory, sig string, blockTime *int64) {
	ctx.Instructions = append(ctx.Instructions, models.Instruction{
		ProgramID: ins.ProgramID,
		Category:  cat,
		Signature: sig,
		BlockTime: blockTime,
		Accounts:  append([]string(nil), ins.Accounts...),
		Data:      ins.Data,
	})
}

// memoText extracts the memo string: jsonParsed encodes it as a bare JSON
// string, raw encodings leave it in Data.
func memoText(ins solana.ParsedInstruction) string {
	var text string
	if len(ins.Parsed) > 0 && json.Unmarshal(ins.Parsed, &text) == nil {
		return text
	}
	return ins.Data
}

func parseAmount(parsed parsedInfo) uint64 {
	raw := firstNonEmpty(parsed.Info.Amount, parsed.Info.TokenAmount.Amount)
	var amount uint64
	for _, ch := range raw {
		if ch < '0' || ch > '9' {
			return 0
		}
		amount = amount*10 + uint64(ch-'0')
	}
	return amount
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func expandTimeRange(tr *models.TimeRange, blockTime *int64) {
	if blockTime == nil {
		return
	}
	if tr.Earliest == nil || *blockTime < *tr.Earliest {
		t := *blockTime
		tr.Earliest = &t
	}
	if tr.Latest == nil || *blockTime > *tr.Latest {
		t := *blockTime
		tr.Latest = &t
	}
}

func sortedSet(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		if k != "" {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
