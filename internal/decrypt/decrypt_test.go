package decrypt

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/statement-pipeline/internal/statement"
)

// fakeQPDF writes a shell script that mimics the qpdf behaviors the
// decryptor depends on: exit 0 on the right password, exit 3 for
// success-with-warnings, the "invalid password" stderr marker otherwise,
// and a hang when asked to.
func fakeQPDF(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake qpdf script requires a POSIX shell")
	}

	script := `#!/bin/sh
password=""
in=""
out=""
for arg in "$@"; do
  case "$arg" in
    --password=*) password="${arg#--password=}" ;;
    --decrypt) ;;
    *) if [ -z "$in" ]; then in="$arg"; else out="$arg"; fi ;;
  esac
done
case "$password" in
  letmein)
    cp "$in" "$out"
    exit 0 ;;
  warnpw)
    cp "$in" "$out"
    echo "WARNING: damaged xref table, attempting to reconstruct" >&2
    exit 3 ;;
  hang)
    sleep 30 >/dev/null 2>&1 ;;
  *)
    echo "$in: invalid password" >&2
    exit 2 ;;
esac
`
	path := filepath.Join(t.TempDir(), "qpdf")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestNewMissingTool(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "no-such-qpdf"))
	var toolErr *statement.ToolUnavailableError
	require.ErrorAs(t, err, &toolErr)
}

func TestAttemptCorrectPassword(t *testing.T) {
	d, err := New(fakeQPDF(t))
	require.NoError(t, err)

	input := []byte("%PDF-1.7 encrypted payload")
	res, err := d.Attempt(context.Background(), input, "letmein")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, input, res.DecryptedBytes)
	assert.Empty(t, res.Error)
}

func TestAttemptWarningsExitIsSuccess(t *testing.T) {
	d, err := New(fakeQPDF(t))
	require.NoError(t, err)

	input := []byte("%PDF-1.7 with a damaged xref")
	res, err := d.Attempt(context.Background(), input, "warnpw")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, input, res.DecryptedBytes)
}

func TestAttemptWrongPassword(t *testing.T) {
	d, err := New(fakeQPDF(t))
	require.NoError(t, err)

	res, err := d.Attempt(context.Background(), []byte("%PDF"), "nope")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "wrong password", res.Error)
	assert.Nil(t, res.DecryptedBytes)
}

func TestAttemptTimeout(t *testing.T) {
	d, err := New(fakeQPDF(t), WithTimeout(200*time.Millisecond))
	require.NoError(t, err)

	start := time.Now()
	res, err := d.Attempt(context.Background(), []byte("%PDF"), "hang")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "decryption timed out", res.Error)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestAttemptContextCancelled(t *testing.T) {
	d, err := New(fakeQPDF(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	_, err = d.Attempt(ctx, []byte("%PDF"), "hang")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAttemptCleansUpTempFiles(t *testing.T) {
	scratch := t.TempDir()
	d, err := New(fakeQPDF(t), WithTempDir(scratch))
	require.NoError(t, err)

	_, err = d.Attempt(context.Background(), []byte("%PDF"), "letmein")
	require.NoError(t, err)
	_, err = d.Attempt(context.Background(), []byte("%PDF"), "nope")
	require.NoError(t, err)

	entries, err := os.ReadDir(scratch)
	require.NoError(t, err)
	assert.Empty(t, entries, "attempt temp dirs must not survive the call")
}
