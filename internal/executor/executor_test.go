package executor

import (
	"context"
	"os"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStart(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses POSIX commands")
	}
	exec := NewOSCommandExecutor()

	t.Run("Launches", func(t *testing.T) {
		pid, err := exec.Start(context.Background(), []string{"sleep", "0"})
		require.NoError(t, err)
		assert.Positive(t, pid)
	})

	t.Run("EmptyCommand", func(t *testing.T) {
		_, err := exec.Start(context.Background(), nil)
		assert.Equal(t, os.ErrInvalid, err)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := exec.Start(ctx, []string{"sleep", "0"})
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("MissingBinary", func(t *testing.T) {
		_, err := exec.Start(context.Background(), []string{"definitely-not-a-cad-binary"})
		var ce *CommandError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "start", ce.Stage)
		assert.Equal(t, "definitely-not-a-cad-binary", ce.Cmd)
	})
}
