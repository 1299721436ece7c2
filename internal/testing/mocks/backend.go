package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/piexl/CAD-MCP/internal/backend"
)

// Call records one backend invocation.
type Call struct {
	Method string
	Params any
}

// MockBackend implements backend.Backend and records every call.
type MockBackend struct {
	Mu    sync.Mutex
	Calls []Call

	NameVal  string
	DelayVal time.Duration

	// ConnectFunc overrides Connect when set.
	ConnectFunc func(ctx context.Context) (string, error)
	// Errors maps a method name ("DrawLine", "Save", ...) to the error it returns.
	Errors map[string]error
}

// NewMockBackend creates a mock that succeeds on every call.
func NewMockBackend() *MockBackend {
	return &MockBackend{NameVal: "mock", Errors: map[string]error{}}
}

func (m *MockBackend) record(method string, params any) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	m.Calls = append(m.Calls, Call{Method: method, Params: params})
	return m.Errors[method]
}

// Methods returns the recorded method names in call order.
func (m *MockBackend) Methods() []string {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	out := make([]string, len(m.Calls))
	for i, c := range m.Calls {
		out[i] = c.Method
	}
	return out
}

// Last returns the most recent call, or the zero Call.
func (m *MockBackend) Last() Call {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if len(m.Calls) == 0 {
		return Call{}
	}
	return m.Calls[len(m.Calls)-1]
}

// Reset clears recorded calls.
func (m *MockBackend) Reset() {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	m.Calls = nil
}

func (m *MockBackend) Name() string                { return m.NameVal }
func (m *MockBackend) CommandDelay() time.Duration { return m.DelayVal }

func (m *MockBackend) Connect(ctx context.Context) (string, error) {
	if err := m.record("Connect", nil); err != nil {
		return "", err
	}
	if m.ConnectFunc != nil {
		return m.ConnectFunc(ctx)
	}
	return "connected", nil
}

func (m *MockBackend) DrawLine(ctx context.Context, p backend.LineParams) (string, error) {
	return m.result("DrawLine", p)
}

func (m *MockBackend) DrawCircle(ctx context.Context, p backend.CircleParams) (string, error) {
	return m.result("DrawCircle", p)
}

func (m *MockBackend) DrawArc(ctx context.Context, p backend.ArcParams) (string, error) {
	return m.result("DrawArc", p)
}

func (m *MockBackend) DrawRectangle(ctx context.Context, p backend.RectangleParams) (string, error) {
	return m.result("DrawRectangle", p)
}

func (m *MockBackend) DrawPolyline(ctx context.Context, p backend.PolylineParams) (string, error) {
	return m.result("DrawPolyline", p)
}

func (m *MockBackend) DrawText(ctx context.Context, p backend.TextParams) (string, error) {
	return m.result("DrawText", p)
}

func (m *MockBackend) DrawHatch(ctx context.Context, p backend.HatchParams) (string, error) {
	return m.result("DrawHatch", p)
}

func (m *MockBackend) AddDimension(ctx context.Context, p backend.DimensionParams) (string, error) {
	return m.result("AddDimension", p)
}

func (m *MockBackend) CreateLayer(ctx context.Context, p backend.LayerParams) (string, error) {
	return m.result("CreateLayer", p)
}

func (m *MockBackend) Save(ctx context.Context, p backend.SaveParams) (string, error) {
	return m.result("Save", p)
}

func (m *MockBackend) Close(ctx context.Context) (string, error) {
	return m.result("Close", nil)
}

func (m *MockBackend) result(method string, params any) (string, error) {
	if err := m.record(method, params); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s ok", method), nil
}
