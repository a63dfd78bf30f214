package detect

import (
	"fmt"

	"github.com/taylorferran/solana-privacy-scanner-sub000/pkg/models"
)

// Identity Program Interaction Analysis
//
// Some programs exist specifically to bind wallets to identities: name
// services map addresses to human-readable (and usually human-owned)
// domains, and metadata/social programs attach profiles to keys. Touching
// one of these is a deliberate identity act, so the detector only needs to
// match the program ID against a fixed table.
//
// Name registries are HIGH: a .sol domain is typically registered under a
// real handle and resolves publicly forever. Metadata and social programs
// are MEDIUM.

// identityProgram describes one well-known identity-binding program.
type identityProgram struct {
	name     string
	severity models.Severity
	kind     string
}

// identityPrograms is the fixed well-known program table. Keys are program
// IDs; iteration goes through sortedKeys for deterministic output.
var identityPrograms = map[string]identityProgram{
	// Solana Name Service (Bonfida) registry
	"namesLPneVptA9Z5rqUDD9tMTWEJwofgaYwp8cawRkX": {
		name: "Solana Name Service", severity: models.SeverityHigh, kind: "name-registry",
	},
	// ANS (AllDomains) top-level domain program
	"TLDHkysf5pCnKsVA4gXpNvmy7psXLPEu4LAdDJthT9S": {
		name: "AllDomains Name Service", severity: models.SeverityHigh, kind: "name-registry",
	},
	// Metaplex Token Metadata
	"metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s": {
		name: "Metaplex Token Metadata", severity: models.SeverityMedium, kind: "metadata",
	},
	// Dialect (on-chain messaging)
	"CeXG3rqBvCkZverbHGNvfSJG9S2MQyHqRXYL8kjfkbVE": {
		name: "Dialect Messaging", severity: models.SeverityMedium, kind: "social",
	},
}

// DetectIdentityPrograms flags interactions with programs that bind wallets
// to public identities.
func DetectIdentityPrograms(ctx *models.Context) []models.Finding {
	hits := make(map[string][]string) // programID -> signatures
	for _, ins := range ctx.Instructions {
		if _, known := identityPrograms[ins.ProgramID]; known {
			hits[ins.ProgramID] = append(hits[ins.ProgramID], ins.Signature)
		}
	}
	if len(hits) == 0 {
		return nil
	}

	var findings []models.Finding
	for _, programID := range sortedKeys(hits) {
		prog := identityPrograms[programID]
		sigs := hits[programID]

		evidence := []models.Evidence{{
			Description: fmt.Sprintf("%d interaction(s) with %s (%s)", len(sigs), prog.name, prog.kind),
			Severity:    prog.severity,
			Reference:   programID,
		}}
		if len(sigs) > 0 {
			evidence = append(evidence, models.Evidence{
				Description: fmt.Sprintf("Example transaction: %s", sigs[0]),
				Severity:    models.SeverityLow,
				Reference:   sigs[0],
			})
		}

		findings = append(findings, models.Finding{
			ID:         "identity-program-" + prog.kind,
			Name:       "Identity Program Interaction",
			Severity:   prog.severity,
			Confidence: 0.85,
			Category:   models.CategoryIdentityLinkage,
			Reason: fmt.Sprintf("Target interacted %d time(s) with %s, a %s program",
				len(sigs), prog.name, prog.kind),
			Impact: "Identity-binding programs create public, durable links between the wallet " +
				"and a human-readable identity that search tools index.",
			Mitigation: "Keep identity-bound wallets (domains, profiles) strictly separate from " +
				"wallets used for private activity.",
			Evidence: evidence,
		})
	}
	return findings
}
