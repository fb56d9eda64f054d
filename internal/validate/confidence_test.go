package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dvloznov/statement-pipeline/internal/statement"
)

func TestScoreFullStatement(t *testing.T) {
	assert.Equal(t, 100, Score(validStatement()))
}

func TestScoreNil(t *testing.T) {
	assert.Equal(t, 0, Score(nil))
}

func TestScoreDeductions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*statement.ParsedStatement)
		want   int
	}{
		{
			name:   "missing bank",
			mutate: func(s *statement.ParsedStatement) { s.Bank = "" },
			want:   90,
		},
		{
			name:   "missing card last4",
			mutate: func(s *statement.ParsedStatement) { s.Card.Last4 = "" },
			want:   90,
		},
		{
			name:   "missing limits",
			mutate: func(s *statement.ParsedStatement) { s.Card.CreditLimit = nil },
			want:   90,
		},
		{
			name: "inconsistent period",
			mutate: func(s *statement.ParsedStatement) {
				s.Period.Due = s.Period.End.AddDate(0, 0, -5)
			},
			want: 85,
		},
		{
			name: "sparse transactions",
			mutate: func(s *statement.ParsedStatement) {
				s.Transactions = s.Transactions[:1]
			},
			want: 90,
		},
		{
			name: "no transactions loses all three slices",
			mutate: func(s *statement.ParsedStatement) {
				s.Transactions = nil
			},
			want: 60,
		},
		{
			name: "implausible average amount",
			mutate: func(s *statement.ParsedStatement) {
				for i := range s.Transactions {
					s.Transactions[i].Amount = 900000
				}
			},
			want: 80,
		},
		{
			name: "minimum due exceeds total",
			mutate: func(s *statement.ParsedStatement) {
				s.Summary.MinimumDue = s.Summary.TotalDues * 2
			},
			want: 85,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validStatement()
			tt.mutate(s)
			assert.Equal(t, tt.want, Score(s))
		})
	}
}

func TestScoreNeverGatesAcceptance(t *testing.T) {
	// A statement may validate yet still score low.
	s := validStatement()
	s.Card = statement.CardDetails{}
	s.Transactions = s.Transactions[:1]
	s.Period.Due = time.Time{}

	report := Validate(s)
	assert.False(t, report.Valid) // missing due date is a schema error

	s.Period.Due = s.Period.End.AddDate(0, 0, 18)
	report = Validate(s)
	assert.True(t, report.Valid)
	assert.Less(t, Score(s), 100)
}
