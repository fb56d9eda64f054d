package password

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/statement-pipeline/internal/statement"
)

// fullHints satisfies every policy's required fields.
var fullHints = statement.IdentityHints{
	Name:       "Ramesh Kumar",
	DOB:        "15101985",
	CardLast4:  "4400",
	CardLast6:  "404400",
	CustomerID: "CRN123456",
}

func TestGenerate_HSBCScenario(t *testing.T) {
	cands, err := Generate("hsbc", statement.IdentityHints{
		DOB:       "15101985",
		CardLast6: "404400",
	})
	require.NoError(t, err)
	require.NotEmpty(t, cands)
	assert.LessOrEqual(t, len(cands), 10)

	positions := map[string]int{}
	for i, c := range cands {
		positions[c.Value] = i
	}

	card6, okCard6 := positions["404400"]
	dobFull, okDOB := positions["15101985"]
	combo, okCombo := positions["151085404400"]
	require.True(t, okCard6, "card6 candidate missing")
	require.True(t, okDOB, "full DOB candidate missing")
	require.True(t, okCombo, "ddmmyy+card6 candidate missing")

	assert.Less(t, card6, dobFull, "card6 should be tried before full DOB")
	assert.Less(t, dobFull, combo, "full DOB should be tried before ddmmyy+card6")
}

func TestGenerate_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		bank    statement.BankCode
		hints   statement.IdentityHints
		missing []string
	}{
		{
			name:    "hsbc without card6",
			bank:    "hsbc",
			hints:   statement.IdentityHints{DOB: "15101985"},
			missing: []string{"cardLast6"},
		},
		{
			name:    "hdfc without anything",
			bank:    "hdfc",
			hints:   statement.IdentityHints{},
			missing: []string{"name", "dob"},
		},
		{
			name:    "kotak without customer id",
			bank:    "kotak",
			hints:   statement.IdentityHints{DOB: "15101985"},
			missing: []string{"customerId"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cands, err := Generate(tt.bank, tt.hints)
			assert.Empty(t, cands)

			var missingErr *statement.MissingRequiredFieldsError
			require.True(t, errors.As(err, &missingErr))
			assert.Equal(t, tt.bank, missingErr.Bank)
			assert.Equal(t, tt.missing, missingErr.Missing)
		})
	}
}

func TestGenerate_CapAndDedupeAcrossAllPolicies(t *testing.T) {
	for _, bank := range SupportedBanks() {
		policy, ok := LookupPolicy(bank)
		require.True(t, ok)

		cands, err := Generate(bank, fullHints)
		require.NoError(t, err, "bank %s", bank)
		assert.LessOrEqual(t, len(cands), policy.MaxAttempts, "bank %s exceeds cap", bank)
		assert.GreaterOrEqual(t, policy.MaxAttempts, 4, "bank %s cap below observed range", bank)
		assert.LessOrEqual(t, policy.MaxAttempts, 10, "bank %s cap above observed range", bank)

		seen := map[string]bool{}
		for _, c := range cands {
			assert.False(t, seen[c.Value], "bank %s duplicates %q", bank, c.Value)
			seen[c.Value] = true
			assert.NotEmpty(t, c.Source)
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	first, err := Generate("hdfc", fullHints)
	require.NoError(t, err)
	second, err := Generate("hdfc", fullHints)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGenerate_UnknownBankUsesGenericFallback(t *testing.T) {
	cands, err := Generate("neobank", statement.IdentityHints{})
	require.NoError(t, err)
	require.NotEmpty(t, cands)
	assert.Equal(t, "000000", cands[0].Value)
	assert.Equal(t, "123456", cands[1].Value)

	// With hints present, DOB and card fallbacks join the list.
	withHints, err := Generate("neobank", fullHints)
	require.NoError(t, err)
	assert.Greater(t, len(withHints), len(cands))
}

func TestGenerate_SixDigitDOB(t *testing.T) {
	cands, err := Generate("rbl", statement.IdentityHints{DOB: "151085"})
	require.NoError(t, err)

	values := map[string]bool{}
	for _, c := range cands {
		values[c.Value] = true
	}
	// A DDMMYY input cannot yield a DDMMYYYY candidate, but the reduced
	// forms still apply.
	assert.True(t, values["151085"])
	assert.True(t, values["1510"])
	assert.False(t, values["15101985"])
}

func TestPromote(t *testing.T) {
	cands := []Candidate{
		{Value: "a", Source: "one"},
		{Value: "b", Source: "two"},
		{Value: "c", Source: "three"},
	}

	promoted := Promote(cands, "three")
	require.Len(t, promoted, 3)
	assert.Equal(t, "three", promoted[0].Source)
	assert.Equal(t, "one", promoted[1].Source)
	assert.Equal(t, "two", promoted[2].Source)

	// Unknown or empty sources leave the order untouched.
	assert.Equal(t, cands, Promote(cands, "missing"))
	assert.Equal(t, cands, Promote(cands, ""))
}

func TestBuilders(t *testing.T) {
	h := fullHints

	tests := []struct {
		builder Builder
		want    string
	}{
		{builderDOBFull, "15101985"},
		{builderDOBShort, "151085"},
		{builderDOBDayMonth, "1510"},
		{builderCard6, "404400"},
		{builderCard4, "4400"},
		{builderCard2, "00"},
		{builderNameUpperDDMM, "RAME1510"},
		{builderNameLowerDDMM, "rame1510"},
		{builderNameCard4, "RAME4400"},
		{builderDDMMCard4, "15104400"},
		{builderDDMMYYCard6, "151085404400"},
		{builderCustomerID, "CRN123456"},
		{builderCustomerIDDDMM, "CRN1234561510"},
	}

	for _, tt := range tests {
		t.Run(tt.builder.Source, func(t *testing.T) {
			got, ok := tt.builder.Build(h)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuilders_ShortName(t *testing.T) {
	_, ok := builderNameUpperDDMM.Build(statement.IdentityHints{Name: "Jo", DOB: "15101985"})
	assert.False(t, ok, "names under four letters cannot feed name4 rules")
}
