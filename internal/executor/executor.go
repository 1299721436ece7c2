package executor

import (
	"context"
	"os"
	"os/exec"
)

// OSCommandExecutor launches external programs using os/exec.
type OSCommandExecutor struct{}

// NewOSCommandExecutor creates a new OSCommandExecutor.
func NewOSCommandExecutor() *OSCommandExecutor {
	return &OSCommandExecutor{}
}

// Start launches a long-running program and returns without waiting for it.
// The child is released so it outlives this process.
func (f *OSCommandExecutor) Start(ctx context.Context, command []string) (int, error) {
	if len(command) == 0 {
		return 0, os.ErrInvalid
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	cmd := exec.Command(command[0], command[1:]...)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	if err := cmd.Start(); err != nil {
		return 0, &CommandError{Cmd: command[0], Cause: err, Stage: "start"}
	}
	pid := cmd.Process.Pid
	if err := cmd.Process.Release(); err != nil {
		return pid, &CommandError{Cmd: command[0], Cause: err, Stage: "release"}
	}
	return pid, nil
}
