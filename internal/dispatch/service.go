package dispatch

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/piexl/CAD-MCP/internal/command"
	"github.com/piexl/CAD-MCP/internal/drawing"
	"github.com/piexl/CAD-MCP/internal/session"
)

// Service is the entry point shared by every transport. It processes one request
// to completion before accepting the next.
type Service struct {
	mu          sync.Mutex
	interpreter *command.Interpreter
	validator   *drawing.Validator
	session     *session.Session
	dispatcher  *Dispatcher
	defaults    drawing.Defaults
	logger      *slog.Logger
}

// NewService wires the interpretation pipeline to the dispatcher.
// defaults.Layer is ignored: the session's active layer is used instead.
func NewService(
	interpreter *command.Interpreter,
	validator *drawing.Validator,
	sess *session.Session,
	dispatcher *Dispatcher,
	defaults drawing.Defaults,
	logger *slog.Logger,
) *Service {
	if interpreter == nil || validator == nil || sess == nil || dispatcher == nil {
		panic("interpreter, validator, session and dispatcher are required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		interpreter: interpreter,
		validator:   validator,
		session:     sess,
		dispatcher:  dispatcher,
		defaults:    defaults,
		logger:      logger.With("component", "service"),
	}
}

// InterpretAndDispatch turns a free-text instruction into an operation and runs it.
func (s *Service) InterpretAndDispatch(ctx context.Context, raw string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	intent, err := s.interpreter.Interpret(raw)
	if err != nil {
		s.logger.Info("command not understood", "command", raw, "kind", drawing.Kind(err), "error", err)
		return "", err
	}
	s.logger.Debug("command interpreted", "command", raw, "action", intent.Action, "shape", intent.Shape)
	return s.execute(ctx, intent)
}

// Interpret validates raw without dispatching it, returning the operation that would run.
func (s *Service) Interpret(raw string) (*drawing.Operation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	intent, err := s.interpreter.Interpret(raw)
	if err != nil {
		return nil, err
	}
	return s.validator.Build(intent, s.currentDefaults())
}

func (s *Service) DrawLine(ctx context.Context, in LineInput) (string, error) {
	return s.run(ctx, in.Intent())
}

func (s *Service) DrawCircle(ctx context.Context, in CircleInput) (string, error) {
	return s.run(ctx, in.Intent())
}

func (s *Service) DrawArc(ctx context.Context, in ArcInput) (string, error) {
	return s.run(ctx, in.Intent())
}

func (s *Service) DrawRectangle(ctx context.Context, in RectangleInput) (string, error) {
	return s.run(ctx, in.Intent())
}

func (s *Service) DrawPolyline(ctx context.Context, in PolylineInput) (string, error) {
	return s.run(ctx, in.Intent())
}

func (s *Service) DrawText(ctx context.Context, in TextInput) (string, error) {
	return s.run(ctx, in.Intent())
}

func (s *Service) DrawHatch(ctx context.Context, in HatchInput) (string, error) {
	return s.run(ctx, in.Intent())
}

func (s *Service) AddDimension(ctx context.Context, in DimensionInput) (string, error) {
	return s.run(ctx, in.Intent())
}

func (s *Service) CreateLayer(ctx context.Context, in LayerInput) (string, error) {
	return s.run(ctx, in.Intent())
}

func (s *Service) Save(ctx context.Context, in SaveInput) (string, error) {
	return s.run(ctx, in.Intent())
}

// Connect brings the session to READY.
func (s *Service) Connect(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Connect(ctx)
}

// Close disconnects the session.
func (s *Service) Close(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Close(ctx)
}

func (s *Service) Status() session.Status {
	return s.session.Status()
}

func (s *Service) run(ctx context.Context, in drawing.Intent) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.execute(ctx, in)
}

// execute validates fully before any backend call is made.
func (s *Service) execute(ctx context.Context, in drawing.Intent) (string, error) {
	op, err := s.validator.Build(in, s.currentDefaults())
	if err != nil {
		s.logger.Info("operation rejected", "action", in.Action, "shape", in.Shape, "kind", drawing.Kind(err), "error", err)
		return "", err
	}
	msg, err := s.dispatcher.Dispatch(ctx, op)
	if err != nil {
		return "", err
	}
	return withWarnings(msg, op.Warnings), nil
}

func (s *Service) currentDefaults() drawing.Defaults {
	d := s.defaults
	d.Layer = s.session.ActiveLayer()
	return d
}

func withWarnings(msg string, warnings []string) string {
	if len(warnings) == 0 {
		return msg
	}
	var b strings.Builder
	b.WriteString(msg)
	for _, w := range warnings {
		b.WriteString("\nwarning: ")
		b.WriteString(w)
	}
	return b.String()
}
