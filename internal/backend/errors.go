package backend

import (
	"errors"
	"fmt"

	"github.com/piexl/CAD-MCP/internal/drawing"
)

// Error is returned by backend calls. Fatal marks a lost connection; the session
// must reconnect before drawing again.
type Error struct {
	Op    string
	Cause error
	Fatal bool
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches the backend taxonomy sentinel.
func (e *Error) Is(target error) bool {
	return target == drawing.ErrBackend
}

// NewError wraps a recoverable failure, such as rejected geometry or a save I/O error.
func NewError(op string, cause error) *Error {
	return &Error{Op: op, Cause: cause}
}

// NewFatalError wraps a connection loss.
func NewFatalError(op string, cause error) *Error {
	return &Error{Op: op, Cause: cause, Fatal: true}
}

// IsFatal reports whether err carries a fatal backend error.
func IsFatal(err error) bool {
	var be *Error
	return errors.As(err, &be) && be.Fatal
}

// ErrUnsupportedFormat is returned when a save path has an extension no encoder handles.
var ErrUnsupportedFormat = errors.New("unsupported drawing format")
