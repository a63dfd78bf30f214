package models

// TargetType identifies what kind of on-chain object a scan examines.
type TargetType string

const (
	TargetAccount     TargetType = "account"
	TargetTransaction TargetType = "transaction"
	TargetProgram     TargetType = "program"
)

// Transfer is one observed value movement involving the target.
// BlockTime is a pointer because many RPC nodes prune timestamps for old
// slots; absent is semantically different from 0.
type Transfer struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Amount    uint64 `json:"amount"` // lamports, or raw token units when Token is set
	Token     string `json:"token,omitempty"`
	Signature string `json:"signature"`
	BlockTime *int64 `json:"blockTime,omitempty"`
}

// InstructionCategory is a coarse classification assigned by the normalizer.
type InstructionCategory string

const (
	CategoryTransfer           InstructionCategory = "transfer"
	CategoryStake              InstructionCategory = "stake"
	CategoryTokenAccount       InstructionCategory = "token-account"
	CategoryMemo               InstructionCategory = "memo"
	CategoryProgramInteraction InstructionCategory = "program-interaction"
)

// Instruction is one decoded instruction touching the target.
type Instruction struct {
	ProgramID string              `json:"programId"`
	Category  InstructionCategory `json:"category"`
	Signature string              `json:"signature"`
	BlockTime *int64              `json:"blockTime,omitempty"`
	Accounts  []string            `json:"accounts,omitempty"`
	Data      string              `json:"data,omitempty"`
}

// TransactionRecord carries per-transaction metadata richer than the
// transfer view: who paid fees, who signed, and execution fingerprints.
type TransactionRecord struct {
	Signature        string   `json:"signature"`
	BlockTime        *int64   `json:"blockTime,omitempty"`
	FeePayer         string   `json:"feePayer"`
	Signers          []string `json:"signers"`
	PriorityFee      *uint64  `json:"priorityFee,omitempty"`      // micro-lamports per CU
	ComputeUnitsUsed *uint64  `json:"computeUnitsUsed,omitempty"`
}

// TokenAccountEventType distinguishes lifecycle events on token accounts.
type TokenAccountEventType string

const (
	TokenAccountCreate TokenAccountEventType = "create"
	TokenAccountClose  TokenAccountEventType = "close"
)

// RentRefund records where rent-exempt lamports went when a token account
// was closed. Destination is the linkable part.
type RentRefund struct {
	Destination string `json:"destination"`
	Lamports    uint64 `json:"lamports"`
}

// TokenAccountEvent is one create or close event for an SPL token account.
type TokenAccountEvent struct {
	Type         TokenAccountEventType `json:"type"`
	TokenAccount string                `json:"tokenAccount"`
	Owner        string                `json:"owner"`
	Signature    string                `json:"signature"`
	BlockTime    *int64                `json:"blockTime,omitempty"`
	RentRefund   *RentRefund           `json:"rentRefund,omitempty"`
}

// Label is a curated descriptor for a publicly recognized address.
// Absence of a label means "unknown", never "safe".
type Label struct {
	Name        string `json:"name"`
	Type        string `json:"type"` // exchange/bridge/mixer/name-service/program/...
	Description string `json:"description,omitempty"`
}

// TimeRange bounds the observed activity. Either side may be unknown.
type TimeRange struct {
	Earliest *int64 `json:"earliest,omitempty"`
	Latest   *int64 `json:"latest,omitempty"`
}

// Context is the normalized, read-only snapshot of one target's activity
// that every detector receives. It is produced once by the normalizer and
// never mutated afterwards: detectors copy any strings they keep, and all
// slices and maps are treated as frozen.
//
// TransactionCount may exceed the length of any detail slice because the
// collector samples or truncates deep histories; detectors must therefore
// never divide by a slice length when they mean "all transactions".
type Context struct {
	Target             string              `json:"target"`
	TargetType         TargetType          `json:"targetType"`
	Transfers          []Transfer          `json:"transfers"`
	Instructions       []Instruction       `json:"instructions"`
	TransactionRecords []TransactionRecord `json:"transactionRecords,omitempty"`
	TokenAccountEvents []TokenAccountEvent `json:"tokenAccountEvents,omitempty"`
	Counterparties     []string            `json:"counterparties"`
	Labels             map[string]Label    `json:"labels"`
	TimeRange          TimeRange           `json:"timeRange"`
	TransactionCount   int                 `json:"transactionCount"`
}
