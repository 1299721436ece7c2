package ui

import (
	"context"

	"github.com/piexl/CAD-MCP/internal/drawing"
	"github.com/piexl/CAD-MCP/internal/session"
)

// service is the part of dispatch.Service the REPL drives.
type service interface {
	InterpretAndDispatch(ctx context.Context, raw string) (string, error)
	Interpret(raw string) (*drawing.Operation, error)
	Connect(ctx context.Context) (string, error)
	Close(ctx context.Context) (string, error)
	Status() session.Status
}
