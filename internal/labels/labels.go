// Package labels provides the curated address-to-entity lookup used to
// annotate scan contexts. The built-in table covers publicly recognized
// Solana addresses (exchanges, bridges, mixers, name services, core
// programs); operators can overlay additional labels from YAML files.
//
// Absence of a label is a valid, common result and means "unknown", never
// "safe".
package labels

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/taylorferran/solana-privacy-scanner-sub000/pkg/models"
)

// builtin is the curated static table. Entries are intentionally few and
// high-confidence: a wrong label is worse than no label.
var builtin = map[string]models.Label{
	// Exchanges
	"5tzFkiKscXHK5ZXCGbXZxdw7gTjjD1mBwuoFbhUvuAi9": {
		Name: "Binance Hot Wallet", Type: "exchange",
		Description: "Primary Binance deposit/withdrawal wallet",
	},
	"2AQdpHJ2JpcEgPiATUXjQxA8QmafFegfQwSLWSprPicm": {
		Name: "Coinbase Hot Wallet", Type: "exchange",
	},
	"GJRs4FwHtemZ5ZE9x3FNvJ8TMwitKTh21yxdRPqn7npE": {
		Name: "Coinbase Cold Storage", Type: "exchange",
	},
	"H8sMJSCQxfKiFTCfDR3DUMLPwcRbM61LGFJ8N4dK3WjS": {
		Name: "Coinbase 2", Type: "exchange",
	},
	// Bridges
	"wormDTUJ6AWPNvk59vGQbDvGJmqbDTdgWgAqcLBCgUb": {
		Name: "Wormhole Bridge", Type: "bridge",
		Description: "Cross-chain token bridge",
	},
	// Name services and identity programs
	"namesLPneVptA9Z5rqUDD9tMTWEJwofgaYwp8cawRkX": {
		Name: "Solana Name Service", Type: "name-service",
		Description: "Bonfida .sol domain registry",
	},
	"TLDHkysf5pCnKsVA4gXpNvmy7psXLPEu4LAdDJthT9S": {
		Name: "AllDomains Name Service", Type: "name-service",
	},
	"metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s": {
		Name: "Metaplex Token Metadata", Type: "program",
	},
	// Core programs
	"MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr": {
		Name: "Memo Program v2", Type: "program",
	},
	"TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA": {
		Name: "SPL Token Program", Type: "program",
	},
	"ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL": {
		Name: "Associated Token Program", Type: "program",
	},
	"Stake11111111111111111111111111111111111111": {
		Name: "Stake Program", Type: "program",
	},
}

// Store resolves addresses to labels. The zero value is unusable; construct
// via NewStore.
type Store struct {
	entries map[string]models.Label
}

// NewStore returns a Store holding the built-in curated table.
func NewStore() *Store {
	entries := make(map[string]models.Label, len(builtin))
	for addr, label := range builtin {
		entries[addr] = label
	}
	return &Store{entries: entries}
}

// Lookup resolves one address. The second return is false when the address
// is unknown.
func (s *Store) Lookup(address string) (models.Label, bool) {
	label, ok := s.entries[address]
	return label, ok
}

// LookupMany resolves a batch of addresses. Addresses with no entry are
// omitted from the result, not nulled.
func (s *Store) LookupMany(addresses []string) map[string]models.Label {
	out := make(map[string]models.Label)
	for _, addr := range addresses {
		if label, ok := s.entries[addr]; ok {
			out[addr] = label
		}
	}
	return out
}

// Len reports the number of known labels.
func (s *Store) Len() int {
	return len(s.entries)
}

// overlayFile is the YAML shape for operator-supplied label files:
//
//	labels:
//	  <address>:
//	    name: My Exchange
//	    type: exchange
//	    description: optional
type overlayFile struct {
	Labels map[string]models.Label `yaml:"labels"`
}

// LoadOverlay merges labels from a YAML file into the store. Overlay
// entries win over built-ins for the same address.
func (s *Store) LoadOverlay(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read label overlay: %w", err)
	}

	var file overlayFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parse label overlay %s: %w", path, err)
	}

	for addr, label := range file.Labels {
		if addr == "" || label.Name == "" {
			continue
		}
		s.entries[addr] = label
	}
	return nil
}
