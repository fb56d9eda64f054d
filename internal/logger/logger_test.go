package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	log := New()
	assert.NotEqual(t, zerolog.Disabled, log.GetLevel())
}

func TestNewWithWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf)

	log.Info().Str("bank", "hdfc").Msg("statement decrypted")

	output := buf.String()
	require.NotEmpty(t, output)
	assert.Contains(t, output, "statement decrypted")
	assert.Contains(t, output, `"bank":"hdfc"`)
}

func TestContextRoundTrip(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf)

	ctx := WithContext(context.Background(), log)
	retrieved := FromContext(ctx)
	retrieved.Info().Msg("from context")

	assert.Contains(t, buf.String(), "from context")
}

func TestFromContextDefault(t *testing.T) {
	// A bare context yields a usable default logger, never a panic.
	log := FromContext(context.Background())
	assert.NotEqual(t, zerolog.Disabled, log.GetLevel())
}

func TestWithComponent(t *testing.T) {
	buf := &bytes.Buffer{}
	log := WithComponent(NewWithWriter(buf), "decrypt")

	log.Info().Msg("candidate rejected")

	output := buf.String()
	assert.Contains(t, output, `"component":"decrypt"`)
	assert.Contains(t, output, "candidate rejected")
}
