package pipeline

import (
	"context"

	"github.com/dvloznov/statement-pipeline/internal/decrypt"
	"github.com/dvloznov/statement-pipeline/internal/extract"
	"github.com/dvloznov/statement-pipeline/internal/parser"
	"github.com/dvloznov/statement-pipeline/internal/statement"
)

// Decryptor tries one candidate password against the encrypted PDF.
// Implemented by decrypt.Decryptor; an interface here so tests can run the
// pipeline without the external tool.
type Decryptor interface {
	Attempt(ctx context.Context, pdfBytes []byte, password string) (decrypt.AttemptResult, error)
}

// TextExtractor reads the text layer of a decrypted PDF.
type TextExtractor interface {
	Extract(decrypted []byte) (extract.ExtractedText, error)
}

// StatementParser runs the LLM orchestration over extracted text.
// Implemented by parser.Orchestrator.
type StatementParser interface {
	Parse(ctx context.Context, text string, bankHint statement.BankCode) (*parser.Outcome, error)
}

// extractorFunc adapts the extract package's function to the interface.
type extractorFunc func(decrypted []byte) (extract.ExtractedText, error)

func (f extractorFunc) Extract(decrypted []byte) (extract.ExtractedText, error) {
	return f(decrypted)
}

// DefaultExtractor is the production TextExtractor.
func DefaultExtractor() TextExtractor {
	return extractorFunc(extract.Extract)
}
