// Package decrypt runs the external qpdf tool to strip password protection
// from statement PDFs, one candidate password at a time.
package decrypt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dvloznov/statement-pipeline/internal/statement"
)

// qpdf exits 3 when the output was produced despite warnings (damaged xref
// tables are common in bank PDFs); treat it as success.
const exitCodeWarnings = 3

// wrongPasswordMarker is the stderr substring qpdf emits for a bad password.
// Matching it distinguishes "try the next candidate" from tool failures.
const wrongPasswordMarker = "invalid password"

// AttemptResult reports one candidate trial. DecryptedBytes is populated
// only on success; the temp files behind it are already removed by the time
// Attempt returns.
type AttemptResult struct {
	Success        bool
	DecryptedBytes []byte
	Error          string
}

// Decryptor invokes qpdf with a bounded timeout per attempt. Safe for
// concurrent use; every attempt owns an isolated temp directory.
type Decryptor struct {
	toolPath string
	timeout  time.Duration
	tempDir  string
}

// Option configures a Decryptor.
type Option func(*Decryptor)

// WithTimeout overrides the per-attempt timeout.
func WithTimeout(d time.Duration) Option {
	return func(dec *Decryptor) { dec.timeout = d }
}

// WithTempDir overrides the parent directory for per-attempt scratch space.
func WithTempDir(dir string) Option {
	return func(dec *Decryptor) { dec.tempDir = dir }
}

// New creates a Decryptor for the given qpdf binary. The binary is resolved
// eagerly so a missing tool surfaces as ToolUnavailableError before any
// candidate is burned.
func New(toolPath string, opts ...Option) (*Decryptor, error) {
	resolved, err := exec.LookPath(toolPath)
	if err != nil {
		return nil, &statement.ToolUnavailableError{Tool: toolPath, Err: err}
	}

	d := &Decryptor{
		toolPath: resolved,
		timeout:  20 * time.Second,
		tempDir:  os.TempDir(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Attempt tries one candidate password against the PDF bytes.
//
// A wrong password or a timeout comes back as AttemptResult{Success: false}
// with a nil error: the caller moves to the next candidate. A non-nil error
// means the environment is broken (tool vanished, temp dir unwritable) and
// the whole statement should be aborted.
//
// Decrypted bytes never outlive this call on disk: the attempt's temp
// directory is removed on every path, including context cancellation.
func (d *Decryptor) Attempt(ctx context.Context, pdfBytes []byte, password string) (AttemptResult, error) {
	dir, err := os.MkdirTemp(d.tempDir, "stmt-"+uuid.NewString()[:8]+"-")
	if err != nil {
		return AttemptResult{}, fmt.Errorf("decrypt: create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	inPath := filepath.Join(dir, "in.pdf")
	outPath := filepath.Join(dir, "out.pdf")

	if err := os.WriteFile(inPath, pdfBytes, 0o600); err != nil {
		return AttemptResult{}, fmt.Errorf("decrypt: write input: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, d.toolPath,
		"--password="+password,
		"--decrypt",
		inPath,
		outPath,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	switch {
	case runErr == nil:
		// exit 0

	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		return AttemptResult{Error: "decryption timed out"}, nil

	case ctx.Err() != nil:
		// Caller cancelled; propagate after cleanup.
		return AttemptResult{}, ctx.Err()

	default:
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			// Could not even start the process.
			return AttemptResult{}, &statement.ToolUnavailableError{Tool: d.toolPath, Err: runErr}
		}
		if exitErr.ExitCode() != exitCodeWarnings {
			msg := strings.TrimSpace(stderr.String())
			if strings.Contains(strings.ToLower(msg), wrongPasswordMarker) {
				return AttemptResult{Error: "wrong password"}, nil
			}
			return AttemptResult{Error: fmt.Sprintf("qpdf exit %d: %s", exitErr.ExitCode(), msg)}, nil
		}
		// exit 3: success with warnings
	}

	decrypted, err := os.ReadFile(outPath)
	if err != nil {
		return AttemptResult{Error: fmt.Sprintf("read decrypted output: %v", err)}, nil
	}

	return AttemptResult{Success: true, DecryptedBytes: decrypted}, nil
}
