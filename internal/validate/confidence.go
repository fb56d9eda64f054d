package validate

import (
	"github.com/dvloznov/statement-pipeline/internal/statement"
)

// Score weights. They sum to 100; the transaction block dominates because
// transaction quality is what downstream consumers actually act on.
const (
	scoreBankIdentified   = 10
	scoreCardPresent      = 10
	scoreLimitsPopulated  = 10
	scorePeriodConsistent = 15

	scoreTxCountNonEmpty  = 10
	scoreTxCountPlausible = 10
	scoreAvgAmountSane    = 20

	scoreTotalsPlausible = 15
)

// Average transaction bounds for the amount-sanity slice. Outside this band
// the extraction probably mangled the paise normalization.
const (
	minSaneAvgAmount = 10.0
	maxSaneAvgAmount = 200000.0
)

// Score computes the advisory 0-100 extraction trust score. It never gates
// acceptance; callers surface it as metadata.
func Score(s *statement.ParsedStatement) int {
	if s == nil {
		return 0
	}

	score := 0

	if s.Bank != "" {
		score += scoreBankIdentified
	}

	if s.Card.Last4 != "" {
		score += scoreCardPresent
	}
	if s.Card.CreditLimit != nil && s.Card.AvailableLimit != nil {
		score += scoreLimitsPopulated
	}

	if periodConsistent(s.Period) {
		score += scorePeriodConsistent
	}

	n := len(s.Transactions)
	if n >= 1 {
		score += scoreTxCountNonEmpty
	}
	if n >= sparseTxThreshold && n <= denseTxThreshold {
		score += scoreTxCountPlausible
	}
	if avg := averageAmount(s.Transactions); avg >= minSaneAvgAmount && avg <= maxSaneAvgAmount {
		score += scoreAvgAmountSane
	}

	if totalsPlausible(s.Summary) {
		score += scoreTotalsPlausible
	}

	return score
}

func periodConsistent(p statement.Period) bool {
	if p.Start.IsZero() || p.End.IsZero() || p.Due.IsZero() {
		return false
	}
	return !p.Start.After(p.End) && !p.End.After(p.Due)
}

func averageAmount(txs []statement.Transaction) float64 {
	if len(txs) == 0 {
		return 0
	}
	sum := 0.0
	for _, tx := range txs {
		sum += tx.Amount
	}
	return sum / float64(len(txs))
}

func totalsPlausible(sum statement.Summary) bool {
	if sum.TotalDues < 0 || sum.MinimumDue < 0 {
		return false
	}
	if sum.TotalDues > 0 && sum.MinimumDue > sum.TotalDues {
		return false
	}
	return sum.TotalDues > 0 || sum.PreviousBalance != 0
}
