// Package statement defines the domain types shared across the statement
// processing pipeline: identity hints, the canonical parsed statement, and
// the typed failure taxonomy.
package statement

import (
	"time"
)

// BankCode identifies the issuing bank of a statement, e.g. "hdfc", "hsbc".
// Codes are lowercase and match the keys of the password policy table.
type BankCode string

// TxType is the direction of a transaction as printed on the statement.
type TxType string

const (
	TxDebit  TxType = "Dr"
	TxCredit TxType = "Cr"
)

// Category is one of the fixed transaction categories the model and the
// fallback mapper are allowed to assign.
type Category string

const (
	CategoryFoodDelivery Category = "FOOD_DELIVERY"
	CategoryDining       Category = "DINING"
	CategoryEcommerce    Category = "ECOMMERCE"
	CategoryGrocery      Category = "GROCERY"
	CategoryTravel       Category = "TRAVEL"
	CategoryUtilities    Category = "UTILITIES"
	CategoryFuel         Category = "FUEL"
	CategoryEducation    Category = "EDUCATION"
	CategoryRent         Category = "RENT"
	CategoryInsurance    Category = "INSURANCE"
	CategoryPharmacy     Category = "PHARMACY"
	CategoryElectronics  Category = "ELECTRONICS"
	CategoryOnline       Category = "ONLINE"
	CategoryOffline      Category = "OFFLINE"
)

// AllCategories returns every accepted category value, in a stable order
// suitable for prompt construction.
func AllCategories() []Category {
	return []Category{
		CategoryFoodDelivery,
		CategoryDining,
		CategoryEcommerce,
		CategoryGrocery,
		CategoryTravel,
		CategoryUtilities,
		CategoryFuel,
		CategoryEducation,
		CategoryRent,
		CategoryInsurance,
		CategoryPharmacy,
		CategoryElectronics,
		CategoryOnline,
		CategoryOffline,
	}
}

// ValidCategory reports whether c is one of the accepted category values.
func ValidCategory(c Category) bool {
	for _, known := range AllCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// IdentityHints carries the partial identity information used to derive
// password candidates. All fields are optional; bank policies declare which
// ones they require. Hints are inputs only and are never persisted.
type IdentityHints struct {
	// Name is the card holder's name as printed on the card.
	Name string

	// DOB is the date of birth as an 8-digit (DDMMYYYY) or 6-digit (DDMMYY)
	// numeric string.
	DOB string

	// CardLast4 and CardLast6 are the trailing digits of the card number.
	CardLast4 string
	CardLast6 string

	// CustomerID is the bank-issued customer/CRN identifier.
	CustomerID string
}

// Transaction is one normalized statement line item. Amount is always
// positive, in whole rupees with paise as the fractional part; Type carries
// the direction.
type Transaction struct {
	Date        time.Time
	Description string
	Amount      float64
	Type        TxType
	Category    Category
}

// Period is the statement's billing window plus the payment due date.
type Period struct {
	Start time.Time
	End   time.Time
	Due   time.Time
}

// Summary holds the statement-level totals block.
type Summary struct {
	TotalDues       float64
	MinimumDue      float64
	PreviousBalance float64

	// PaymentReceived and PurchaseAmount are absent from some bank layouts.
	PaymentReceived *float64
	PurchaseAmount  *float64
}

// CardDetails describes the card the statement belongs to.
type CardDetails struct {
	Network        string
	Last4          string
	CreditLimit    *float64
	AvailableLimit *float64
}

// OwnerDetails describes the statement's account holder.
type OwnerDetails struct {
	Name    string
	Address string
}

// ParsedStatement is the canonical pipeline output.
//
// Invariants enforced by the validator: len(Transactions) >= 1, every
// Transaction.Amount > 0, and Period.Start <= Period.End.
type ParsedStatement struct {
	Bank         BankCode
	Card         CardDetails
	Owner        OwnerDetails
	Period       Period
	Summary      Summary
	Transactions []Transaction
}

// ValidationReport is the validator's verdict. Errors block acceptance;
// Warnings are surfaced to the caller but never fatal.
type ValidationReport struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// Input is one encrypted statement handed to the pipeline by the host
// process (mail retrieval, upload handler, etc.).
type Input struct {
	EncryptedBytes []byte
	Bank           BankCode
	Filename       string
	Hints          IdentityHints
}

// Result is the successful pipeline outcome delivered downstream.
type Result struct {
	Statement *ParsedStatement

	// Confidence is the advisory 0-100 extraction trust score. It never
	// gates acceptance.
	Confidence int

	// Warnings are the validator's non-fatal findings.
	Warnings []string

	// Provider and Model identify the LLM that produced the accepted parse.
	Provider string
	Model    string

	// Cost is the total model spend accumulated for this statement.
	Cost float64

	// PasswordSource is the provenance tag of the candidate that decrypted
	// the PDF, e.g. "ddmmyy+card6". Used to seed the pattern store.
	PasswordSource string
}
