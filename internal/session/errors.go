package session

import (
	"errors"
	"fmt"

	"github.com/piexl/CAD-MCP/internal/drawing"
)

// ErrConnectInProgress is returned when Connect is called while another connect is running.
var ErrConnectInProgress = errors.New("connect already in progress")

// NotConnectedError is returned when an operation needs a READY session.
type NotConnectedError struct {
	State State
}

func (e *NotConnectedError) Error() string {
	return fmt.Sprintf("not connected: session is %s, connect first", e.State)
}

func (e *NotConnectedError) Is(target error) bool {
	return target == drawing.ErrNotConnected
}
