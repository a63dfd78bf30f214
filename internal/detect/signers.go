package detect

import (
	"fmt"
	"sort"
	"strings"

	"github.com/taylorferran/solana-privacy-scanner-sub000/pkg/models"
)

// Signer Analysis
//
// Two signals fall out of the signer lists attached to transaction records:
//
//  1. Individual signer reuse: one key co-signing a large share of the
//     target's transactions links every one of them to that keyholder. The
//     fee payer is excluded here because fee payer reuse is scored by its
//     own detector; double counting the same key would inflate severity.
//
//  2. Signer set reuse: the exact same multi-key set (sorted, treated as a
//     single comparison key) appearing on two or more transactions is a
//     multisig or operational-wallet fingerprint. A 3-of-5 council that
//     signs with the same quorum every time is as identifying as a single
//     key.
//
// Minimum data: 2 transaction records.

// DetectSignerReuse flags individual co-signer concentration and repeated
// identical signer sets.
func DetectSignerReuse(ctx *models.Context) []models.Finding {
	if len(ctx.TransactionRecords) < 2 {
		return nil
	}

	var findings []models.Finding

	if f := detectIndividualSignerReuse(ctx); f != nil {
		findings = append(findings, *f)
	}
	if f := detectSignerSetReuse(ctx); f != nil {
		findings = append(findings, *f)
	}
	return findings
}

func detectIndividualSignerReuse(ctx *models.Context) *models.Finding {
	signerCounts := make(map[string]int)
	total := 0
	for _, rec := range ctx.TransactionRecords {
		if len(rec.Signers) == 0 {
			continue
		}
		total++
		for _, s := range rec.Signers {
			if s == "" || s == rec.FeePayer {
				continue
			}
			signerCounts[s]++
		}
	}
	if total < 2 || len(signerCounts) == 0 {
		return nil
	}

	topSigner, topCount, _ := concentration(signerCounts)
	if topCount < 2 {
		return nil
	}

	// Concentration is relative to signer-bearing transactions, not to the
	// summed signer count, so multi-signer records do not dilute the ratio.
	conc := float64(topCount) / float64(total)
	severity := classifyConcentration(conc, topCount)

	return &models.Finding{
		ID:         "signer-reuse",
		Name:       "Co-Signer Reuse",
		Severity:   severity,
		Confidence: feePayerConfidence(conc, total),
		Category:   models.CategoryLinkability,
		Reason: fmt.Sprintf("Signer %s co-signed %d of %d transactions (%s) beyond its fee payer role",
			shortAddr(topSigner), topCount, total, pct(conc)),
		Impact: "A recurring co-signer ties transactions to one keyholder even when fee " +
			"payers and counterparties rotate.",
		Mitigation: "Rotate signing keys between unrelated activities and avoid co-signing " +
			"from a long-lived identity key.",
		Evidence: []models.Evidence{{
			Description: fmt.Sprintf("%s appears as signer on %d of %d transactions",
				shortAddr(topSigner), topCount, total),
			Severity:  severity,
			Reference: topSigner,
		}},
	}
}

func detectSignerSetReuse(ctx *models.Context) *models.Finding {
	setCounts := make(map[string]int)
	for _, rec := range ctx.TransactionRecords {
		if len(rec.Signers) < 2 {
			continue
		}
		set := append([]string(nil), rec.Signers...)
		sort.Strings(set)
		setCounts[strings.Join(set, ",")]++
	}
	if len(setCounts) == 0 {
		return nil
	}

	topSet, topCount, _ := concentration(setCounts)
	if topCount < 2 {
		return nil
	}

	severity := models.SeverityMedium
	if topCount >= 5 {
		severity = models.SeverityHigh
	}

	members := strings.Split(topSet, ",")
	shortMembers := make([]string, len(members))
	for i, m := range members {
		shortMembers[i] = shortAddr(m)
	}

	return &models.Finding{
		ID:         "signer-set-reuse",
		Name:       "Identical Signer Set Reuse",
		Severity:   severity,
		Confidence: 0.9,
		Category:   models.CategoryLinkability,
		Reason: fmt.Sprintf("The same %d-key signer set was reused across %d transactions",
			len(members), topCount),
		Impact: "A repeated multi-key quorum is a wallet fingerprint: every transaction it " +
			"signs belongs to the same operational entity.",
		Mitigation: "Vary the signing quorum where the program allows it, or isolate the " +
			"multisig to a single well-defined purpose.",
		Evidence: []models.Evidence{{
			Description: fmt.Sprintf("Signer set {%s} observed on %d transactions",
				strings.Join(shortMembers, ", "), topCount),
			Severity: severity,
		}},
	}
}
