package tool

import (
	"errors"
	"fmt"

	"github.com/piexl/CAD-MCP/internal/drawing"
)

// ErrDuplicateTool is returned when a tool name is registered twice.
var ErrDuplicateTool = errors.New("tool already registered")

// ArgumentError is returned when tool arguments cannot be decoded into the tool's input.
type ArgumentError struct {
	Tool  string
	Cause error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %v", e.Tool, e.Cause)
}

func (e *ArgumentError) Unwrap() error {
	return e.Cause
}

// UnknownToolError is returned when no tool has the requested name.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool: %s", e.Name)
}

// IsArgumentError reports whether err came from argument decoding.
func IsArgumentError(err error) bool {
	var ae *ArgumentError
	return errors.As(err, &ae)
}

// IsUnknownTool reports whether err names a tool that does not exist.
func IsUnknownTool(err error) bool {
	var ue *UnknownToolError
	return errors.As(err, &ue)
}

// ErrorKind names the category of a tool failure for callers: the drawing taxonomy
// kind, or InvalidArguments / UnknownTool for failures before the tool ran.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case IsArgumentError(err):
		return "InvalidArguments"
	case IsUnknownTool(err):
		return "UnknownTool"
	default:
		return drawing.Kind(err)
	}
}
