// Package validate checks parsed statements against the output schema and
// the business rules, and computes the advisory confidence score.
package validate

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/statement-pipeline/internal/statement"
)

const (
	// sparseTxWarning / denseTxWarning bound the plausible transaction count
	// for one statement cycle.
	sparseTxThreshold = 2
	denseTxThreshold  = 500

	// totalsMismatchTolerance is how far the summed debits may drift from
	// the statement's declared purchase total before we warn.
	totalsMismatchTolerance = 0.10
)

// Validate runs schema checks (errors, block acceptance) and business checks
// (warnings, surfaced but non-fatal) over a parsed statement.
func Validate(s *statement.ParsedStatement) statement.ValidationReport {
	var report statement.ValidationReport

	addErr := func(format string, args ...interface{}) {
		report.Errors = append(report.Errors, fmt.Sprintf(format, args...))
	}
	addWarn := func(format string, args ...interface{}) {
		report.Warnings = append(report.Warnings, fmt.Sprintf(format, args...))
	}

	if s == nil {
		addErr("no statement content")
		return report
	}

	// Schema checks.
	if s.Bank == "" {
		addErr("bank code missing")
	}
	if s.Period.Start.IsZero() {
		addErr("statement period start missing")
	}
	if s.Period.End.IsZero() {
		addErr("statement period end missing")
	}
	if s.Period.Due.IsZero() {
		addErr("payment due date missing")
	}
	if len(s.Transactions) == 0 {
		addErr("statement has no transactions")
	}

	for i, tx := range s.Transactions {
		if tx.Date.IsZero() {
			addErr("transaction %d: missing or invalid date", i)
		}
		if tx.Description == "" {
			addErr("transaction %d: missing description", i)
		}
		if tx.Amount <= 0 {
			addErr("transaction %d: amount %.2f is not positive", i, tx.Amount)
		}
		if tx.Type != statement.TxDebit && tx.Type != statement.TxCredit {
			addErr("transaction %d: type %q is not Dr or Cr", i, tx.Type)
		}
		if !statement.ValidCategory(tx.Category) {
			addErr("transaction %d: unknown category %q", i, tx.Category)
		}
	}

	// Period ordering: start after end is a hard error, a due date before
	// the period end is merely unusual.
	if !s.Period.Start.IsZero() && !s.Period.End.IsZero() && s.Period.Start.After(s.Period.End) {
		addErr("statement period start %s is after end %s",
			s.Period.Start.Format("2006-01-02"), s.Period.End.Format("2006-01-02"))
	}
	if !s.Period.End.IsZero() && !s.Period.Due.IsZero() && s.Period.End.After(s.Period.Due) {
		addWarn("payment due date %s precedes period end %s",
			s.Period.Due.Format("2006-01-02"), s.Period.End.Format("2006-01-02"))
	}

	for i, tx := range s.Transactions {
		if tx.Date.IsZero() || s.Period.Start.IsZero() || s.Period.End.IsZero() {
			continue
		}
		if tx.Date.Before(s.Period.Start) || tx.Date.After(s.Period.End) {
			addWarn("transaction %d dated %s falls outside the statement period", i, tx.Date.Format("2006-01-02"))
		}
	}

	if n := len(s.Transactions); n > 0 && n < sparseTxThreshold {
		addWarn("unusually sparse: only %d transaction(s)", n)
	} else if n > denseTxThreshold {
		addWarn("unusually dense: %d transactions", n)
	}

	if s.Summary.PurchaseAmount != nil {
		checkTotals(s, addWarn)
	}

	report.Valid = len(report.Errors) == 0
	return report
}

// checkTotals compares the summed debit transactions against the declared
// purchase total. Decimal arithmetic keeps long statements from accumulating
// float drift into a spurious mismatch.
func checkTotals(s *statement.ParsedStatement, addWarn func(string, ...interface{})) {
	declared := decimal.NewFromFloat(*s.Summary.PurchaseAmount)
	if declared.IsZero() {
		return
	}

	sum := decimal.Zero
	for _, tx := range s.Transactions {
		if tx.Type == statement.TxDebit {
			sum = sum.Add(decimal.NewFromFloat(tx.Amount))
		}
	}

	diff := sum.Sub(declared).Abs()
	tolerance := declared.Abs().Mul(decimal.NewFromFloat(totalsMismatchTolerance))
	if diff.GreaterThan(tolerance) {
		addWarn("totals mismatch: debits sum to %s but statement declares purchases of %s",
			sum.StringFixed(2), declared.StringFixed(2))
	}
}
