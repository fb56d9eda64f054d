// Package parser turns extracted statement text into a typed ParsedStatement
// via a language-model provider, with validation-driven escalation under a
// per-statement cost ceiling.
package parser

import (
	"context"

	"github.com/dvloznov/statement-pipeline/internal/statement"
)

// Tier selects the model strength for a call. Escalation is strictly
// stronger (and costlier) than primary; detection is the cheapest.
type Tier string

const (
	TierDetection  Tier = "detection"
	TierPrimary    Tier = "primary"
	TierEscalation Tier = "escalation"
)

// BankDetection is the result of the cheap bank identification call.
type BankDetection struct {
	// Bank is empty when the model could not identify the issuer.
	Bank statement.BankCode

	Cost float64
}

// ParseRequest is one structured-extraction call.
type ParseRequest struct {
	Text     string
	BankHint statement.BankCode
	Tier     Tier
}

// ParseResponse carries the model's untrusted output plus the usage
// accounting needed for the cost ceiling.
type ParseResponse struct {
	// Raw is the model's JSON output decoded into a generic map. It is
	// external input and must go through transform + validation before use.
	Raw map[string]interface{}

	Model        string
	Cost         float64
	TokensInput  int64
	TokensOutput int64
}

// Provider abstracts the LLM backend. Implementations must honour context
// cancellation and report per-call cost.
type Provider interface {
	Name() string

	// DetectBank identifies the issuing bank from a short text preview.
	DetectBank(ctx context.Context, preview string) (BankDetection, error)

	// ParseStatement runs the structured extraction call at the requested
	// tier.
	ParseStatement(ctx context.Context, req ParseRequest) (ParseResponse, error)
}
