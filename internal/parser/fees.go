package parser

import (
	"regexp"

	"github.com/dvloznov/statement-pipeline/internal/statement"
)

// feePatterns match fee/charge/tax/reward-reversal descriptions that must
// never appear in the transaction list. The model is told to drop them; this
// filter is the safety net that runs regardless.
var feePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)finance\s*charge`),
	regexp.MustCompile(`(?i)\b(i|c|s)?gst\b`),
	regexp.MustCompile(`(?i)late\s*(payment\s*)?fee`),
	regexp.MustCompile(`(?i)(annual|membership|joining|renewal)\s*fee`),
	regexp.MustCompile(`(?i)(processing|service)\s*(fee|charge)`),
	regexp.MustCompile(`(?i)\bcash\s*back\b|\bcashback\b`),
	regexp.MustCompile(`(?i)\breward(s)?\b`),
	regexp.MustCompile(`(?i)fuel\s*surcharge`),
	regexp.MustCompile(`(?i)interest\s*charge`),
}

// IsFeeOrCharge reports whether a description matches the exclusion
// patterns.
func IsFeeOrCharge(description string) bool {
	for _, p := range feePatterns {
		if p.MatchString(description) {
			return true
		}
	}
	return false
}

// ExcludeFees filters fee/charge entries out of a transaction list,
// preserving order.
func ExcludeFees(txs []statement.Transaction) []statement.Transaction {
	out := make([]statement.Transaction, 0, len(txs))
	for _, tx := range txs {
		if IsFeeOrCharge(tx.Description) {
			continue
		}
		out = append(out, tx)
	}
	return out
}
