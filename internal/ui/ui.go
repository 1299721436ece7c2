// Package ui is the interactive terminal REPL for drawing commands.
package ui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/piexl/CAD-MCP/internal/ui/services"
)

// SpinnerFactory creates a new spinner
type SpinnerFactory func() spinner.Model

// UI runs the REPL program.
type UI struct {
	program *tea.Program
}

// NewUI creates the REPL. The program stops when ctx ends.
func NewUI(
	ctx context.Context,
	svc service,
	renderer services.MarkdownRenderer,
	spinnerFactory SpinnerFactory,
	opts ...tea.ProgramOption,
) *UI {
	model := newBubbleTeaModel(ctx, svc, renderer, spinnerFactory)
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	return &UI{program: tea.NewProgram(model, opts...)}
}

// Start runs the program until the user quits or the context ends.
func (u *UI) Start() error {
	_, err := u.program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
