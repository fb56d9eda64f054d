package password

import (
	"github.com/dvloznov/statement-pipeline/internal/statement"
)

// FieldKind names an identity hint field a bank policy can require.
type FieldKind string

const (
	FieldName       FieldKind = "name"
	FieldDOB        FieldKind = "dob"
	FieldCard4      FieldKind = "cardLast4"
	FieldCard6      FieldKind = "cardLast6"
	FieldCustomerID FieldKind = "customerId"
)

// Policy is one bank's password derivation rules: which hint fields must be
// present, the attempt cap, and the candidate builders in most-likely-first
// order. Policies are static configuration; adding a bank is a table entry,
// not a code branch.
type Policy struct {
	RequiredFields []FieldKind
	MaxAttempts    int
	Builders       []Builder
}

// policies maps bank codes to their password policies. Attempt caps bound
// the wall-clock cost of the decrypt loop and must stay in the 4-10 range.
var policies = map[statement.BankCode]Policy{
	"hdfc": {
		RequiredFields: []FieldKind{FieldName, FieldDOB},
		MaxAttempts:    6,
		Builders: []Builder{
			builderNameUpperDDMM,
			builderNameLowerDDMM,
			builderDOBFull,
			builderDOBDayMonth,
			builderNameCard4,
			builderDOBShort,
		},
	},
	"icici": {
		RequiredFields: []FieldKind{FieldName, FieldDOB},
		MaxAttempts:    5,
		Builders: []Builder{
			builderNameLowerDDMM,
			builderNameUpperDDMM,
			builderDOBFull,
			builderDOBDayMonth,
			builderDDMMCard4,
		},
	},
	"sbi": {
		RequiredFields: []FieldKind{FieldDOB, FieldCard4},
		MaxAttempts:    6,
		Builders: []Builder{
			builderDDMMCard4,
			builderDOBFull,
			builderCard4,
			builderDOBShort,
			builderDOBDayMonth,
			builderCard2,
		},
	},
	"axis": {
		RequiredFields: []FieldKind{FieldName, FieldDOB},
		MaxAttempts:    5,
		Builders: []Builder{
			builderNameUpperDDMM,
			builderDOBFull,
			builderDOBDayMonth,
			builderNameLowerDDMM,
			builderDOBShort,
		},
	},
	"hsbc": {
		RequiredFields: []FieldKind{FieldDOB, FieldCard6},
		MaxAttempts:    10,
		Builders: []Builder{
			builderCard6,
			builderDOBFull,
			builderDDMMYYCard6,
			builderDOBShort,
			builderDOBDayMonth,
			builderCard4,
			builderCard2,
		},
	},
	"kotak": {
		RequiredFields: []FieldKind{FieldCustomerID, FieldDOB},
		MaxAttempts:    5,
		Builders: []Builder{
			builderCustomerID,
			builderCustomerIDDDMM,
			builderDOBFull,
			builderDOBDayMonth,
		},
	},
	"amex": {
		RequiredFields: []FieldKind{FieldCard4, FieldDOB},
		MaxAttempts:    5,
		Builders: []Builder{
			builderDDMMCard4,
			builderCard4,
			builderDOBFull,
			builderDOBShort,
		},
	},
	"citi": {
		RequiredFields: []FieldKind{FieldDOB, FieldCard4},
		MaxAttempts:    6,
		Builders: []Builder{
			builderDOBFull,
			builderDDMMCard4,
			builderDOBShort,
			builderCard4,
			builderDOBDayMonth,
		},
	},
	"rbl": {
		RequiredFields: []FieldKind{FieldDOB},
		MaxAttempts:    4,
		Builders: []Builder{
			builderDOBFull,
			builderDOBShort,
			builderDOBDayMonth,
			builderDDMMCard4,
		},
	},
	"yes": {
		RequiredFields: []FieldKind{FieldName, FieldDOB},
		MaxAttempts:    5,
		Builders: []Builder{
			builderNameUpperDDMM,
			builderDOBFull,
			builderNameCard4,
			builderDOBDayMonth,
			builderDOBShort,
		},
	},
	"indusind": {
		RequiredFields: []FieldKind{FieldDOB, FieldCard4},
		MaxAttempts:    5,
		Builders: []Builder{
			builderDOBFull,
			builderCard4,
			builderDDMMCard4,
			builderDOBShort,
		},
	},
	"sc": {
		RequiredFields: []FieldKind{FieldDOB, FieldCard6},
		MaxAttempts:    6,
		Builders: []Builder{
			builderDOBFull,
			builderCard6,
			builderDOBShort,
			builderDDMMYYCard6,
			builderCard4,
		},
	},
}

// LookupPolicy returns the policy for a bank code, or ok=false when the bank
// has no declared policy (generation then uses the generic fallback list).
func LookupPolicy(bank statement.BankCode) (Policy, bool) {
	p, ok := policies[bank]
	return p, ok
}

// SupportedBanks lists the bank codes with declared policies.
func SupportedBanks() []statement.BankCode {
	out := make([]statement.BankCode, 0, len(policies))
	for code := range policies {
		out = append(out, code)
	}
	return out
}

// MissingHints returns the policy's required fields absent from the hints,
// in policy order. Callers use it to reject a submission before any work
// happens.
func MissingHints(p Policy, h statement.IdentityHints) []string {
	return missingFields(p, h)
}

// missingFields returns the required fields absent from the hints.
func missingFields(p Policy, h statement.IdentityHints) []string {
	var missing []string
	for _, f := range p.RequiredFields {
		present := false
		switch f {
		case FieldName:
			present = h.Name != ""
		case FieldDOB:
			present = h.DOB != ""
		case FieldCard4:
			present = h.CardLast4 != ""
		case FieldCard6:
			present = h.CardLast6 != ""
		case FieldCustomerID:
			present = h.CustomerID != ""
		}
		if !present {
			missing = append(missing, string(f))
		}
	}
	return missing
}
