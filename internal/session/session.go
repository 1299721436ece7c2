package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/piexl/CAD-MCP/internal/backend"
	"github.com/piexl/CAD-MCP/internal/drawing"
)

// State is the connection lifecycle state of a Session.
type State int

const (
	Disconnected State = iota
	Connecting
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "DISCONNECTED"
	case Connecting:
		return "CONNECTING"
	case Ready:
		return "READY"
	case Failed:
		return "ERROR"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Options configures a Session.
type Options struct {
	// DefaultLayer is the active layer after connect. Empty means the fallback layer "0".
	DefaultLayer string
	// DefaultPath is the save target when a save names no file.
	DefaultPath string
	Colors      drawing.ColorTable
}

// Status is a point-in-time view of a Session.
type Status struct {
	ID          string    `json:"id,omitempty"`
	Backend     string    `json:"backend"`
	State       string    `json:"state"`
	ActiveLayer string    `json:"active_layer"`
	DefaultPath string    `json:"default_path"`
	ConnectedAt time.Time `json:"connected_at,omitzero"`
	LastError   string    `json:"last_error,omitempty"`
}

// Session owns the one backend and the drawing context shared by every transport.
type Session struct {
	backend backend.Backend
	opts    Options
	logger  *slog.Logger

	mu          sync.Mutex
	id          string
	state       State
	activeLayer string
	connectedAt time.Time
	lastErr     error
}

// New creates a disconnected session over b.
func New(b backend.Backend, opts Options, logger *slog.Logger) *Session {
	if b == nil {
		panic("backend is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.DefaultLayer == "" {
		opts.DefaultLayer = drawing.FallbackLayer
	}
	if opts.Colors == nil {
		opts.Colors = drawing.DefaultColorTable()
	}
	return &Session{
		backend:     b,
		opts:        opts,
		logger:      logger.With("component", "session", "backend", b.Name()),
		activeLayer: opts.DefaultLayer,
	}
}

func (s *Session) Backend() backend.Backend { return s.backend }

func (s *Session) Colors() drawing.ColorTable { return s.opts.Colors }

func (s *Session) DefaultPath() string { return s.opts.DefaultPath }

// ID is regenerated on every connect from DISCONNECTED and empty before the first one.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) ActiveLayer() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeLayer
}

func (s *Session) SetActiveLayer(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeLayer = name
}

// Connect brings the session to READY. It is a no-op success when already READY
// and may be retried from ERROR.
func (s *Session) Connect(ctx context.Context) (string, error) {
	s.mu.Lock()
	switch s.state {
	case Ready:
		s.mu.Unlock()
		return fmt.Sprintf("Already connected (%s backend)", s.backend.Name()), nil
	case Connecting:
		s.mu.Unlock()
		return "", ErrConnectInProgress
	case Disconnected:
		s.id = uuid.NewString()
		s.activeLayer = s.opts.DefaultLayer
	}
	s.state = Connecting
	id := s.id
	s.mu.Unlock()

	s.logger.Info("connecting", "session_id", id)
	msg, err := s.backend.Connect(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if !backend.IsFatal(err) {
			err = backend.NewFatalError("connect", err)
		}
		s.state = Failed
		s.lastErr = err
		s.logger.Error("connect failed", "session_id", id, "error", err)
		return "", err
	}
	s.state = Ready
	s.lastErr = nil
	s.connectedAt = time.Now()
	s.logger.Info("session ready", "session_id", id)
	return msg, nil
}

// Require returns a NotConnectedError unless the session is READY.
func (s *Session) Require() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Ready {
		return &NotConnectedError{State: s.state}
	}
	return nil
}

// Fail moves a READY session to ERROR after an unrecoverable backend failure.
func (s *Session) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Ready {
		return
	}
	s.state = Failed
	s.lastErr = err
	s.logger.Warn("session failed", "session_id", s.id, "error", err)
}

// Close releases the backend and returns to DISCONNECTED from any state.
// The session is DISCONNECTED even when the backend reports a close failure.
func (s *Session) Close(ctx context.Context) (string, error) {
	s.mu.Lock()
	prev := s.state
	id := s.id
	s.state = Disconnected
	s.activeLayer = s.opts.DefaultLayer
	s.connectedAt = time.Time{}
	s.lastErr = nil
	s.mu.Unlock()

	if prev == Disconnected {
		return "No active session", nil
	}
	msg, err := s.backend.Close(ctx)
	if err != nil {
		s.logger.Warn("backend close failed", "session_id", id, "error", err)
		return "", err
	}
	s.logger.Info("session closed", "session_id", id)
	return msg, nil
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Status{
		ID:          s.id,
		Backend:     s.backend.Name(),
		State:       s.state.String(),
		ActiveLayer: s.activeLayer,
		DefaultPath: s.opts.DefaultPath,
		ConnectedAt: s.connectedAt,
	}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	return st
}
