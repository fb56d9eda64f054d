package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/statement-pipeline/internal/jobs"
	"github.com/dvloznov/statement-pipeline/internal/statement"
)

func stagePDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "staged.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF encrypted"), 0o600))
	return path
}

func statementJob(pdfPath string) *jobs.ProcessStatementJob {
	return &jobs.ProcessStatementJob{
		JobID:      "job-1",
		PDFPath:    pdfPath,
		Bank:       "hdfc",
		Filename:   "statement.pdf",
		Hints:      fullHints(),
		MaxRetries: 2,
	}
}

func TestJobHandlerRemovesStagedPDFOnSuccess(t *testing.T) {
	dec := &fakeDecryptor{accept: "RAME1510"}
	p := NewProcessor(dec, &fakeExtractor{text: "x"}, &fakeParser{outcome: goodOutcome()}, nil)
	handler := NewJobHandler(p, zerolog.Nop())

	pdfPath := stagePDF(t)
	err := handler(context.Background(), statementJob(pdfPath))
	require.NoError(t, err)
	assert.NoFileExists(t, pdfPath)
}

func TestJobHandlerKeepsStagedPDFForRetry(t *testing.T) {
	par := &fakeParser{err: &statement.SchemaValidationError{Errors: []string{"bank code missing"}}}
	p := NewProcessor(&fakeDecryptor{accept: "RAME1510"}, &fakeExtractor{text: "x"}, par, nil)
	handler := NewJobHandler(p, zerolog.Nop())

	pdfPath := stagePDF(t)
	job := statementJob(pdfPath)

	// First attempt: the queue will retry, so the file must survive.
	err := handler(context.Background(), job)
	require.Error(t, err)
	assert.FileExists(t, pdfPath)
}

func TestJobHandlerRemovesStagedPDFOnFinalFailure(t *testing.T) {
	par := &fakeParser{err: &statement.SchemaValidationError{Errors: []string{"bank code missing"}}}
	p := NewProcessor(&fakeDecryptor{accept: "RAME1510"}, &fakeExtractor{text: "x"}, par, nil)
	handler := NewJobHandler(p, zerolog.Nop())

	pdfPath := stagePDF(t)
	job := statementJob(pdfPath)
	job.RetryCount = job.MaxRetries // last attempt

	err := handler(context.Background(), job)
	require.Error(t, err)
	assert.NoFileExists(t, pdfPath)
}

func TestJobHandlerMissingFile(t *testing.T) {
	p := NewProcessor(&fakeDecryptor{}, &fakeExtractor{text: "x"}, &fakeParser{outcome: goodOutcome()}, nil)
	handler := NewJobHandler(p, zerolog.Nop())

	job := statementJob(filepath.Join(t.TempDir(), "missing.pdf"))
	err := handler(context.Background(), job)
	assert.Error(t, err)
}
