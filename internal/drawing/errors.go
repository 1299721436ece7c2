package drawing

import (
	"errors"
	"fmt"
)

// Taxonomy sentinels. Concrete error types in this and other packages match them with errors.Is.
var (
	ErrAmbiguousCommand = errors.New("ambiguous command")
	ErrUnsupportedShape = errors.New("unsupported shape")
	ErrMissingField     = errors.New("missing field")
	ErrNotConnected     = errors.New("not connected")
	ErrBackend          = errors.New("backend error")
)

// AmbiguousCommandError is returned when no action can be recognized in a command.
type AmbiguousCommandError struct {
	Command string
}

func (e *AmbiguousCommandError) Error() string {
	return fmt.Sprintf("could not recognize a drawing action in %q", e.Command)
}

func (e *AmbiguousCommandError) Unwrap() error {
	return ErrAmbiguousCommand
}

// UnsupportedShapeError is returned when an action implies drawing but no shape can be determined.
type UnsupportedShapeError struct {
	Action Action
	Shape  Shape
}

func (e *UnsupportedShapeError) Error() string {
	if e.Shape == ShapeNone {
		return fmt.Sprintf("%s needs a shape (line, circle, arc, rectangle, polyline, text, hatch, dimension)", e.Action)
	}
	return fmt.Sprintf("shape %s is not supported for %s", e.Shape, e.Action)
}

func (e *UnsupportedShapeError) Unwrap() error {
	return ErrUnsupportedShape
}

// MissingFieldError is returned when required geometry is absent after extraction.
type MissingFieldError struct {
	Action Action
	Shape  Shape
	Field  string
	// Detail optionally explains what was expected, e.g. "at least 2 vertices".
	Detail string
}

func (e *MissingFieldError) Error() string {
	label := string(e.Action)
	if e.Shape != ShapeNone {
		label += " " + string(e.Shape)
	}
	if e.Detail != "" {
		return fmt.Sprintf("%s requires %s: %s", label, e.Field, e.Detail)
	}
	return fmt.Sprintf("%s requires %s", label, e.Field)
}

func (e *MissingFieldError) Unwrap() error {
	return ErrMissingField
}

// Kind names the taxonomy category of err, or "Error" for anything outside it.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAmbiguousCommand):
		return "AmbiguousCommand"
	case errors.Is(err, ErrUnsupportedShape):
		return "UnsupportedShape"
	case errors.Is(err, ErrMissingField):
		return "MissingField"
	case errors.Is(err, ErrNotConnected):
		return "NotConnected"
	case errors.Is(err, ErrBackend):
		return "BackendError"
	default:
		return "Error"
	}
}

// IsParseError reports whether err came from the interpretation stage.
// These are terminal for the command: retrying the same text yields the same result.
func IsParseError(err error) bool {
	return errors.Is(err, ErrAmbiguousCommand) ||
		errors.Is(err, ErrUnsupportedShape) ||
		errors.Is(err, ErrMissingField)
}
