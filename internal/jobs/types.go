// Package jobs defines the asynchronous statement-processing job model and
// the queue abstractions hosts plug a backend into.
package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/dvloznov/statement-pipeline/internal/statement"
)

// ErrJobNotFound is returned by Store implementations for unknown job IDs.
var ErrJobNotFound = errors.New("job not found")

// Status is the lifecycle state of a job.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusRetrying  Status = "retrying"
)

// ProcessStatementJob asks a worker to run one statement through the
// pipeline. The encrypted PDF is referenced by path, not embedded: queue
// payloads stay small and no statement bytes sit in the store.
type ProcessStatementJob struct {
	JobID string `json:"job_id"`

	// PDFPath is the local path of the encrypted statement PDF.
	PDFPath string `json:"pdf_path"`

	Bank     statement.BankCode `json:"bank,omitempty"`
	Filename string             `json:"filename"`

	// Hints carries the identity fields used for password derivation. Never
	// persisted beyond the job's lifetime.
	Hints statement.IdentityHints `json:"hints"`

	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty"`

	RetryCount int `json:"retry_count"`
	MaxRetries int `json:"max_retries"`
}

// Handler processes one job. A returned error marks the job failed and
// eligible for retry.
type Handler func(ctx context.Context, job *ProcessStatementJob) error

// Publisher enqueues statement jobs. Implementations may be in-memory or
// backed by a real broker.
type Publisher interface {
	Publish(ctx context.Context, job *ProcessStatementJob) error
	Close() error
}

// Consumer drains the queue with a worker pool.
type Consumer interface {
	// Start launches the workers; it returns immediately.
	Start(ctx context.Context, handler Handler) error

	// Stop waits for in-flight jobs to finish, bounded by ctx.
	Stop(ctx context.Context) error
}

// Store tracks job state for inspection and retry accounting.
type Store interface {
	SaveJob(ctx context.Context, job *ProcessStatementJob) error
	GetJob(ctx context.Context, jobID string) (*ProcessStatementJob, error)
	ListJobs(ctx context.Context, filter Filter) ([]*ProcessStatementJob, error)
}

// Filter narrows ListJobs results.
type Filter struct {
	Bank   statement.BankCode
	Status Status
	Limit  int
}
