package statement

import (
	"fmt"
	"strings"
)

// MissingRequiredFieldsError is returned when a bank policy requires identity
// fields that the hints do not carry. It names the exact missing fields so
// the caller can prompt for them. It is never downgraded to a brute-force
// fallback.
type MissingRequiredFieldsError struct {
	Bank    BankCode
	Missing []string
}

func (e *MissingRequiredFieldsError) Error() string {
	return fmt.Sprintf("bank %s requires identity fields: %s", e.Bank, strings.Join(e.Missing, ", "))
}

// PasswordNotFoundError is returned when every generated candidate failed to
// decrypt the PDF. Tried lists the provenance tags (not the values) of the
// candidates attempted.
type PasswordNotFoundError struct {
	Bank  BankCode
	Tried []string
}

func (e *PasswordNotFoundError) Error() string {
	return fmt.Sprintf("no password candidate decrypted the %s statement (tried %d: %s)",
		e.Bank, len(e.Tried), strings.Join(e.Tried, ", "))
}

// ScannedDocumentError is returned when the decrypted PDF has no usable text
// layer. Distinct from other extraction errors so callers can offer an OCR
// path later.
type ScannedDocumentError struct {
	PageCount int
	TextLen   int
}

func (e *ScannedDocumentError) Error() string {
	return fmt.Sprintf("document appears scanned or garbled (%d pages, %d usable chars)", e.PageCount, e.TextLen)
}

// ExtractionError is returned when the PDF text layer cannot be read at all.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("pdf text extraction failed: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// SchemaValidationError is returned when model output still fails validation
// after the escalation budget is exhausted.
type SchemaValidationError struct {
	Errors []string
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("model output failed validation: %s", strings.Join(e.Errors, "; "))
}

// CostCeilingError is returned when an escalation call would exceed the
// per-statement spend ceiling.
type CostCeilingError struct {
	Spent   float64
	Ceiling float64
}

func (e *CostCeilingError) Error() string {
	return fmt.Sprintf("cost ceiling reached: spent %.4f of %.4f", e.Spent, e.Ceiling)
}

// ToolUnavailableError is returned when the decryption tool or the model
// provider is unreachable or misconfigured. It indicates an environment
// problem and is never retried per-candidate.
type ToolUnavailableError struct {
	Tool string
	Err  error
}

func (e *ToolUnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Tool, e.Err)
}

func (e *ToolUnavailableError) Unwrap() error { return e.Err }
