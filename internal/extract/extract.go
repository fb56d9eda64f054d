// Package extract pulls the plain text layer out of a decrypted statement
// PDF and flags documents that are likely scanned images.
package extract

import (
	"bytes"
	"io"
	"unicode"

	"github.com/ledongthuc/pdf"

	"github.com/dvloznov/statement-pipeline/internal/statement"
)

const (
	// maxTextBytes caps extracted text; statements past this are truncated
	// rather than ballooning prompt size.
	maxTextBytes = 200 * 1024

	// minTextLen is the character count below which a document is treated
	// as scanned.
	minTextLen = 100

	// minAlnumDensity is the minimum ratio of alphanumeric characters to
	// total characters for text to count as a real text layer.
	minAlnumDensity = 0.30
)

// ExtractedText is the text layer of a decrypted PDF.
type ExtractedText struct {
	Text            string
	PageCount       int
	IsLikelyScanned bool
}

// Extract reads the text layer of the decrypted PDF bytes. It returns an
// ExtractionError when the PDF structure cannot be read at all. The caller
// must check IsLikelyScanned and refuse to send garbled text downstream.
func Extract(decrypted []byte) (ExtractedText, error) {
	var out ExtractedText

	reader, err := pdf.NewReader(bytes.NewReader(decrypted), int64(len(decrypted)))
	if err != nil {
		return out, &statement.ExtractionError{Err: err}
	}

	out.PageCount = reader.NumPage()
	if out.PageCount < 1 {
		out.PageCount = 1
	}

	plainText, err := reader.GetPlainText()
	if err != nil {
		return out, &statement.ExtractionError{Err: err}
	}

	textBytes, err := io.ReadAll(io.LimitReader(plainText, maxTextBytes))
	if err != nil {
		return out, &statement.ExtractionError{Err: err}
	}

	out.Text = string(textBytes)
	out.IsLikelyScanned = LikelyScanned(out.Text)
	return out, nil
}

// LikelyScanned reports whether the text is too short or too non-alphanumeric
// to be a real text layer. Short statements with heavy font-encoding garbage
// trip the density check; image-only pages trip the length check.
func LikelyScanned(text string) bool {
	if len(text) < minTextLen {
		return true
	}
	return alnumDensity(text) < minAlnumDensity
}

func alnumDensity(text string) float64 {
	total := 0
	alnum := 0
	for _, r := range text {
		total++
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			alnum++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(alnum) / float64(total)
}
