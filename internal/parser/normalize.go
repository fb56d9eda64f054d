package parser

import (
	"math"

	"github.com/shopspring/decimal"
)

// Paise-detection thresholds. Some bank layouts print amounts in minor
// currency units; these cutoffs decide when a raw amount gets divided by
// 100. They are load-bearing business rules tuned against real statements;
// a legitimately large purchase above them WILL be mis-scaled, so do not
// adjust without domain confirmation.
const (
	paiseAlwaysThreshold    = 1_000_000
	paiseLikelyThreshold    = 50_000
	paiseNoDecimalThreshold = 10_000
)

// NormalizeAmount re-applies the paise rule to a model-reported amount. The
// model is instructed to apply it too, but is never trusted to have done so.
//
// JSON numbers arrive as float64, so "no decimal point" is decided as "the
// value is integral".
func NormalizeAmount(v float64) float64 {
	paise := false
	switch {
	case v > paiseAlwaysThreshold:
		paise = true
	case v > paiseLikelyThreshold:
		paise = true
	case v > paiseNoDecimalThreshold && v == math.Trunc(v):
		paise = true
	}
	if !paise {
		return v
	}
	scaled, _ := decimal.NewFromFloat(v).Div(decimal.NewFromInt(100)).Float64()
	return scaled
}
