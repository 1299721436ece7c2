package automation

import (
	"errors"
	"fmt"
)

// ErrNotDialed is returned when a call is made before Dial.
var ErrNotDialed = errors.New("bridge connection is not open")

// ErrNoLaunchCommand is returned by Launch when no launch command is configured.
var ErrNoLaunchCommand = errors.New("no launch command configured")

// TransportError means the connection to the bridge failed. The connection is dropped.
type TransportError struct {
	Method string
	Cause  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("bridge %s: %v", e.Method, e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// RemoteError is a failure reported by the drafting application, such as rejected geometry.
type RemoteError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Method  string `json:"-"`
}

func (e *RemoteError) Error() string {
	if e.Method == "" {
		return fmt.Sprintf("application error %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s rejected by application (%d): %s", e.Method, e.Code, e.Message)
}

// IsTransport reports whether err is a connection-level failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
