package solana

import "encoding/json"

// Raw RPC payload shapes, kept close to the wire format. The normalizer
// converts these into the models.Context the detector core consumes.

// SignatureInfo is one entry from getSignaturesForAddress.
type SignatureInfo struct {
	Signature string          `json:"signature"`
	Slot      uint64          `json:"slot"`
	BlockTime *int64          `json:"blockTime"`
	Err       json.RawMessage `json:"err"`
	Memo      string          `json:"memo"`
}

// TransactionResult is the getTransaction response body.
type TransactionResult struct {
	Slot        uint64             `json:"slot"`
	BlockTime   *int64             `json:"blockTime"`
	Meta        *TransactionMeta   `json:"meta"`
	Transaction TransactionPayload `json:"transaction"`
}

// TransactionMeta carries execution results and balance deltas.
type TransactionMeta struct {
	Err                  json.RawMessage `json:"err"`
	Fee                  uint64          `json:"fee"`
	PreBalances          []uint64        `json:"preBalances"`
	PostBalances         []uint64        `json:"postBalances"`
	ComputeUnitsConsumed *uint64         `json:"computeUnitsConsumed"`
	LogMessages          []string        `json:"logMessages"`
}

// TransactionPayload is the signed transaction body.
type TransactionPayload struct {
	Signatures []string `json:"signatures"`
	Message    Message  `json:"message"`
}

// Message holds the account list and instructions.
type Message struct {
	AccountKeys  []AccountKey        `json:"accountKeys"`
	Instructions []ParsedInstruction `json:"instructions"`
}

// AccountKey is one account reference with its privilege flags.
type AccountKey struct {
	Pubkey   string `json:"pubkey"`
	Signer   bool   `json:"signer"`
	Writable bool   `json:"writable"`
}

// ParsedInstruction is a jsonParsed-encoded instruction. Parsed is left
// raw: the normalizer inspects it per program.
type ParsedInstruction struct {
	Program   string          `json:"program"`
	ProgramID string          `json:"programId"`
	Parsed    json.RawMessage `json:"parsed"`
	Accounts  []string        `json:"accounts"`
	Data      string          `json:"data"`
}

// Failed reports whether the transaction errored on-chain.
func (r *TransactionResult) Failed() bool {
	return r.Meta != nil && len(r.Meta.Err) > 0 && string(r.Meta.Err) != "null"
}
