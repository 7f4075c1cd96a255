package executor

import (
	"context"
	"testing"
	"time"

	"wopanel/pkg/core/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLog() *logger.Log {
	return logger.InitLogger("error", nil)
}

func TestCleanANSI(t *testing.T) {
	in := "\x1b[32mrunning\x1b[0m \x1b[1mbold\x1b[0m done"
	assert.Equal(t, "running bold done", CleanANSI(in))

	assert.Equal(t, "plain text", CleanANSI("plain text"))
}

func TestLocalExecutorRun(t *testing.T) {
	e := NewLocalExecutor(10*time.Second, testLog())

	result, err := e.Run(context.Background(), "echo", "hello")
	require.NoError(t, err)
	assert.True(t, result.Success())
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, "hello\n", result.Stdout)
	assert.NotEmpty(t, result.CommandID)
}

func TestLocalExecutorNonZeroExit(t *testing.T) {
	e := NewLocalExecutor(10*time.Second, testLog())

	result, err := e.Run(context.Background(), "sh", "-c", "echo oops >&2; exit 3")
	require.NoError(t, err)
	assert.False(t, result.Success())
	assert.Equal(t, CommandStatusFailed, result.Status)
	assert.Equal(t, 3, result.ExitCode)
	assert.Contains(t, result.Stderr, "oops")
}

func TestLocalExecutorMissingBinary(t *testing.T) {
	e := NewLocalExecutor(10*time.Second, testLog())

	_, err := e.Run(context.Background(), "/no/such/binary-wopanel")
	assert.Error(t, err)
}

func TestLocalExecutorTimeout(t *testing.T) {
	e := NewLocalExecutor(200*time.Millisecond, testLog())

	result, err := e.Run(context.Background(), "sleep", "5")
	require.NoError(t, err)
	assert.Equal(t, CommandStatusTimeout, result.Status)
	assert.False(t, result.Success())
}

func TestCombinedOutput(t *testing.T) {
	r := &CommandResult{Stdout: "out\n", Stderr: "err\n"}
	assert.Equal(t, "out\nerr", r.CombinedOutput())

	r = &CommandResult{Stderr: "only err"}
	assert.Equal(t, "only err", r.CombinedOutput())
}
