//go:build unix

package cli

import (
	"bytes"
	"log/slog"
	"syscall"
	"testing"
	"time"

	"github.com/codmetric/codmetricbot/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignalContext_Interrupt(t *testing.T) {
	var logs bytes.Buffer
	ctx := NewSignalContext(t.Context(), logging.NewTo(&logs, slog.LevelInfo))
	defer ctx.Stop()

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGINT))
	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context was not cancelled by SIGINT")
	}

	assert.Equal(t, syscall.SIGINT, ctx.Signal())
	assert.Contains(t, logs.String(), "Received signal")

	var exit *ExitError
	require.ErrorAs(t, ctx.Result(nil), &exit)
	assert.Equal(t, 130, exit.Code)
	assert.Equal(t, "stopped by interrupt", exit.Error())
}
