package detect

import (
	"fmt"
	"regexp"

	"github.com/taylorferran/solana-privacy-scanner-sub000/pkg/models"
)

// Memo PII Scanning
//
// The memo program attaches free text to transactions, permanently and
// publicly. Users treat it like a payment note field and routinely embed
// emails, phone numbers, invoices, and full names, the most direct
// identity leak the chain offers.
//
// The memo text is matched against a fixed, ordered battery of patterns;
// at most one finding is emitted per pattern class, with evidence quoting
// the matching memos (truncated). Direct contact identifiers (email,
// phone) are HIGH; softer signals (URLs, name-shaped capitalization,
// descriptive payment language) are MEDIUM.
//
// Minimum data: at least one memo instruction with non-empty text.

// Memo program IDs, v2 and v1.
const (
	MemoProgramV2 = "MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr"
	MemoProgramV1 = "Memo1UhkJRfHyvLMcVucJwxXeuD728EqVDDwQDxFMNo"
)

// memoPattern is one PII pattern class. The slice order is the evaluation
// and emission order; it never changes between runs.
type memoPattern struct {
	id       string
	name     string
	severity models.Severity
	re       *regexp.Regexp
	impact   string
}

var memoPatterns = []memoPattern{
	{
		id:       "memo-pii-email",
		name:     "Email Address In Memo",
		severity: models.SeverityHigh,
		re:       regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`),
		impact:   "An email address in a memo ties the wallet to an off-chain identity directly.",
	},
	{
		id:       "memo-pii-phone",
		name:     "Phone Number In Memo",
		severity: models.SeverityHigh,
		re:       regexp.MustCompile(`\+?[0-9][0-9 ().\-]{7,}[0-9]`),
		impact:   "A phone number in a memo is a direct, searchable identity link.",
	},
	{
		id:       "memo-pii-url",
		name:     "URL In Memo",
		severity: models.SeverityMedium,
		re:       regexp.MustCompile(`(?:https?://|www\.)[^\s]+`),
		impact:   "URLs in memos connect the transaction to websites, profiles, or services.",
	},
	{
		id:       "memo-pii-name",
		name:     "Personal Name Pattern In Memo",
		severity: models.SeverityMedium,
		re:       regexp.MustCompile(`\b[A-Z][a-z]{2,}\s+[A-Z][a-z]{2,}\b`),
		impact:   "Capitalized name-shaped text in a memo suggests a real-world name was recorded on-chain.",
	},
	{
		id:       "memo-pii-descriptive",
		name:     "Descriptive Payment Memo",
		severity: models.SeverityMedium,
		re:       regexp.MustCompile(`(?i)\b(invoice|payment for|salary|rent|loan|refund|deposit for)\b`),
		impact:   "Descriptive memos reveal the purpose of a payment and the relationship between the parties.",
	},
}

// DetectMemoPII scans memo instruction text for personally identifying
// patterns.
func DetectMemoPII(ctx *models.Context) []models.Finding {
	var memos []models.Instruction
	for _, ins := range ctx.Instructions {
		if !isMemoInstruction(ins) || ins.Data == "" {
			continue
		}
		memos = append(memos, ins)
	}
	if len(memos) == 0 {
		return nil
	}

	var findings []models.Finding
	for _, pat := range memoPatterns {
		var evidence []models.Evidence
		for _, memo := range memos {
			match := pat.re.FindString(memo.Data)
			if match == "" {
				continue
			}
			evidence = append(evidence, models.Evidence{
				Description: fmt.Sprintf("Memo %q matched %s pattern (%q)",
					truncateMemo(memo.Data), pat.name, truncateMemo(match)),
				Severity:  pat.severity,
				Reference: memo.Signature,
			})
		}
		if len(evidence) == 0 {
			continue
		}
		findings = append(findings, models.Finding{
			ID:         pat.id,
			Name:       pat.name,
			Severity:   pat.severity,
			Confidence: memoConfidence(pat.severity),
			Category:   models.CategoryInformationLeak,
			Reason: fmt.Sprintf("%d memo(s) contain text matching the %s pattern",
				len(evidence), pat.name),
			Impact: pat.impact,
			Mitigation: "Never put identifying text in memos; they are public and permanent. " +
				"Move payment references off-chain.",
			Evidence: evidence,
		})
	}
	return findings
}

func isMemoInstruction(ins models.Instruction) bool {
	return ins.Category == models.CategoryMemo ||
		ins.ProgramID == MemoProgramV2 ||
		ins.ProgramID == MemoProgramV1
}

// memoConfidence: hard identifier patterns rarely false-positive; the
// softer classes (names, keywords) do.
func memoConfidence(sev models.Severity) float64 {
	if sev == models.SeverityHigh {
		return 0.9
	}
	return 0.6
}

func truncateMemo(s string) string {
	const max = 60
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
