package pipeline

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"github.com/dvloznov/statement-pipeline/internal/jobs"
	"github.com/dvloznov/statement-pipeline/internal/statement"
)

// NewJobHandler adapts a Processor into a jobs.Handler for queue hosts.
//
// The staged PDF referenced by the job is removed once the job reaches a
// terminal state: after a success, or after the failure that exhausts its
// retries. A failure that will be retried leaves the file in place for the
// next attempt.
func NewJobHandler(processor *Processor, log zerolog.Logger) jobs.Handler {
	return func(ctx context.Context, job *jobs.ProcessStatementJob) error {
		log.Info().
			Str("job_id", job.JobID).
			Str("bank", string(job.Bank)).
			Str("filename", job.Filename).
			Msg("Processing statement job")

		encrypted, err := os.ReadFile(job.PDFPath)
		if err != nil {
			removeIfTerminal(job)
			return err
		}

		result, err := processor.Process(ctx, statement.Input{
			EncryptedBytes: encrypted,
			Bank:           job.Bank,
			Filename:       job.Filename,
			Hints:          job.Hints,
		})
		if err != nil {
			log.Error().Err(err).Str("job_id", job.JobID).Msg("Statement processing failed")
			removeIfTerminal(job)
			return err
		}

		_ = os.Remove(job.PDFPath)

		log.Info().
			Str("job_id", job.JobID).
			Int("transactions", len(result.Statement.Transactions)).
			Int("confidence", result.Confidence).
			Float64("cost", result.Cost).
			Msg("Statement processed")
		return nil
	}
}

// removeIfTerminal removes the staged PDF when this failure was the job's
// last attempt. The queue increments RetryCount only while it is below
// MaxRetries, so equality here means no retry will follow.
func removeIfTerminal(job *jobs.ProcessStatementJob) {
	if job.RetryCount >= job.MaxRetries {
		_ = os.Remove(job.PDFPath)
	}
}
