package automation

import (
	"context"
	"log/slog"
)

// processStarter launches a program without waiting for it to exit.
type processStarter interface {
	Start(ctx context.Context, command []string) (int, error)
}

// Launcher starts the drafting application when no running instance accepts an attach.
type Launcher struct {
	starter processStarter
	command []string
	logger  *slog.Logger
}

// NewLauncher creates a Launcher for command. An empty command disables launching.
func NewLauncher(starter processStarter, command []string, logger *slog.Logger) *Launcher {
	if starter == nil {
		panic("starter is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Launcher{starter: starter, command: command, logger: logger}
}

// Enabled reports whether a launch command is configured.
func (l *Launcher) Enabled() bool {
	return len(l.command) > 0
}

// Launch starts the configured program.
func (l *Launcher) Launch(ctx context.Context) error {
	if !l.Enabled() {
		return ErrNoLaunchCommand
	}
	pid, err := l.starter.Start(ctx, l.command)
	if err != nil {
		return err
	}
	l.logger.Info("launched drafting application", "command", l.command[0], "pid", pid)
	return nil
}
