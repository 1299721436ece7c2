package live

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/piexl/CAD-MCP/internal/automation"
	"github.com/piexl/CAD-MCP/internal/backend"
	"github.com/piexl/CAD-MCP/internal/drawing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	Method string
	Params any
}

// mockBridge records calls and answers them through callFunc.
type mockBridge struct {
	mu        sync.Mutex
	connected bool
	dialErr   error
	calls     []call
	closed    int
	callFunc  func(method string, params any) (json.RawMessage, error)
}

func (m *mockBridge) Dial(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dialErr != nil {
		return m.dialErr
	}
	m.connected = true
	return nil
}

func (m *mockBridge) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

func (m *mockBridge) Call(ctx context.Context, method string, params any, result any) error {
	m.mu.Lock()
	m.calls = append(m.calls, call{Method: method, Params: params})
	fn := m.callFunc
	m.mu.Unlock()

	if fn == nil {
		return nil
	}
	raw, err := fn(method, params)
	if err != nil {
		return err
	}
	if result != nil && raw != nil {
		return json.Unmarshal(raw, result)
	}
	return nil
}

func (m *mockBridge) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = false
	m.closed++
	return nil
}

func (m *mockBridge) methods() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	for i, c := range m.calls {
		out[i] = c.Method
	}
	return out
}

func (m *mockBridge) paramsOf(method string) any {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.calls {
		if c.Method == method {
			return c.Params
		}
	}
	return nil
}

type mockLauncher struct {
	enabled  bool
	launched int
	err      error
}

func (m *mockLauncher) Enabled() bool { return m.enabled }

func (m *mockLauncher) Launch(ctx context.Context) error {
	m.launched++
	return m.err
}

// readyBridge answers a healthy session with document Drawing1.dwg.
func readyBridge() *mockBridge {
	return &mockBridge{callFunc: func(method string, params any) (json.RawMessage, error) {
		switch method {
		case automation.MethodAttach:
			return json.RawMessage(`{"version":"24.1"}`), nil
		case automation.MethodDocumentName:
			return json.RawMessage(`{"name":"Drawing1.dwg"}`), nil
		case automation.MethodEnsureLayer:
			return json.RawMessage(`{"created":true}`), nil
		case automation.MethodAddLine, automation.MethodAddPolyline, automation.MethodAddArc:
			return json.RawMessage(`{"handle":"2A"}`), nil
		case automation.MethodAddHatch:
			return json.RawMessage(`{"handle":"2B"}`), nil
		}
		return nil, nil
	}}
}

func fastOptions() Options {
	return Options{CADType: "AutoCAD", StartupWait: time.Second, PollInterval: 5 * time.Millisecond}
}

func TestConnect_AttachesToRunningInstance(t *testing.T) {
	br := readyBridge()
	launcher := &mockLauncher{enabled: true}
	b := New(br, launcher, fastOptions(), nil)

	msg, err := b.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Connected to AutoCAD 24.1, active document Drawing1.dwg", msg)
	assert.Equal(t, []string{automation.MethodAttach, automation.MethodOpenDocument, automation.MethodDocumentName}, br.methods())
	assert.Equal(t, attachRequest{Application: "AutoCAD.Application"}, br.paramsOf(automation.MethodAttach))
	assert.Zero(t, launcher.launched)
}

func TestConnect_LaunchesAndPolls(t *testing.T) {
	br := readyBridge()
	attempts := 0
	base := br.callFunc
	br.callFunc = func(method string, params any) (json.RawMessage, error) {
		if method == automation.MethodAttach {
			attempts++
			if attempts < 3 {
				return nil, &automation.RemoteError{Code: 1, Message: "application not running"}
			}
		}
		return base(method, params)
	}
	launcher := &mockLauncher{enabled: true}
	b := New(br, launcher, fastOptions(), nil)

	_, err := b.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, launcher.launched)
	assert.Equal(t, 3, attempts)
}

func TestConnect_StartupTimeout(t *testing.T) {
	br := &mockBridge{callFunc: func(method string, params any) (json.RawMessage, error) {
		return nil, &automation.RemoteError{Code: 1, Message: "application not running"}
	}}
	opts := fastOptions()
	opts.StartupWait = 30 * time.Millisecond
	b := New(br, &mockLauncher{enabled: true}, opts, nil)

	_, err := b.Connect(context.Background())
	require.Error(t, err)
	assert.True(t, backend.IsFatal(err))
	assert.ErrorIs(t, err, drawing.ErrBackend)
	assert.Contains(t, err.Error(), "did not become ready")
}

func TestConnect_StartupTimeoutBeforeFirstPoll(t *testing.T) {
	br := &mockBridge{callFunc: func(method string, params any) (json.RawMessage, error) {
		return nil, &automation.RemoteError{Code: 1, Message: "application not running"}
	}}
	opts := fastOptions()
	opts.StartupWait = 10 * time.Millisecond
	opts.PollInterval = time.Hour
	b := New(br, &mockLauncher{enabled: true}, opts, nil)

	_, err := b.Connect(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AutoCAD did not become ready within 10ms")
	assert.NotContains(t, err.Error(), "%!")
}

func TestConnect_NoLauncher(t *testing.T) {
	br := &mockBridge{dialErr: &automation.TransportError{Method: "dial", Cause: errors.New("connection refused")}}
	b := New(br, nil, fastOptions(), nil)

	_, err := b.Connect(context.Background())
	require.Error(t, err)
	assert.True(t, backend.IsFatal(err))
}

func TestConnect_LaunchFailure(t *testing.T) {
	br := &mockBridge{dialErr: errors.New("connection refused")}
	b := New(br, &mockLauncher{enabled: true, err: errors.New("not found")}, fastOptions(), nil)

	_, err := b.Connect(context.Background())
	var be *backend.Error
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "launch", be.Op)
	assert.True(t, be.Fatal)
}

func TestConnect_NoDocument(t *testing.T) {
	br := &mockBridge{callFunc: func(method string, params any) (json.RawMessage, error) {
		if method == automation.MethodDocumentName {
			return json.RawMessage(`{"name":""}`), nil
		}
		return nil, nil
	}}
	b := New(br, nil, fastOptions(), nil)

	_, err := b.Connect(context.Background())
	assert.ErrorIs(t, err, errNoDocument)
	assert.True(t, backend.IsFatal(err))
}

func connected(t *testing.T, br *mockBridge) *Backend {
	t.Helper()
	b := New(br, nil, fastOptions(), nil)
	_, err := b.Connect(context.Background())
	require.NoError(t, err)
	br.mu.Lock()
	br.calls = nil
	br.mu.Unlock()
	return b
}

func TestDrawLine(t *testing.T) {
	br := readyBridge()
	b := connected(t, br)

	msg, err := b.DrawLine(context.Background(), backend.LineParams{
		Start: drawing.Point{X: 0, Y: 0},
		End:   drawing.Point{X: 100, Y: 100},
		Style: backend.Style{Color: 1, Layer: "walls"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Line drawn from (0, 0) to (100, 100) on layer walls (color 1), handle 2A", msg)
	assert.Equal(t, []string{automation.MethodEnsureLayer, automation.MethodAddLine, automation.MethodRegen}, br.methods())

	req, ok := br.paramsOf(automation.MethodAddLine).(lineRequest)
	require.True(t, ok)
	assert.Equal(t, drawing.Point{X: 100, Y: 100}, req.End)
	assert.Equal(t, "walls", req.Layer)

	encoded, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":{"x":0,"y":0},"end":{"x":100,"y":100},"color":1,"layer":"walls","lineweight":0}`, string(encoded))
}

func TestDrawArc_PassesDegrees(t *testing.T) {
	br := readyBridge()
	b := connected(t, br)

	_, err := b.DrawArc(context.Background(), backend.ArcParams{
		Center: drawing.Point{X: 50, Y: 50}, Radius: 25, StartAngle: 0, EndAngle: 90,
		Style: backend.Style{Color: 7, Layer: "0"},
	})
	require.NoError(t, err)
	req := br.paramsOf(automation.MethodAddArc).(arcRequest)
	assert.Equal(t, 90.0, req.EndAngle)
}

func TestDrawRectangle_IsClosedPolyline(t *testing.T) {
	br := readyBridge()
	b := connected(t, br)

	_, err := b.DrawRectangle(context.Background(), backend.RectangleParams{
		Corner1: drawing.Point{X: 0, Y: 0}, Corner2: drawing.Point{X: 10, Y: 5},
		Style: backend.Style{Layer: "0"},
	})
	require.NoError(t, err)
	req := br.paramsOf(automation.MethodAddPolyline).(polylineRequest)
	assert.True(t, req.Closed)
	assert.Equal(t, []drawing.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 5}, {X: 0, Y: 5}}, req.Points)
}

func TestDrawHatch_DrawsBoundaryThenHatch(t *testing.T) {
	br := readyBridge()
	b := connected(t, br)
	boundary := []drawing.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}

	msg, err := b.DrawHatch(context.Background(), backend.HatchParams{
		Boundary: boundary, Pattern: "ANSI31", Scale: 2,
		Style: backend.Style{Color: 3, Layer: "fill"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hatch ANSI31 (scale 2) filled over 3 boundary vertices on layer fill (color 3), handle 2B", msg)
	assert.Equal(t, []string{
		automation.MethodEnsureLayer, automation.MethodAddPolyline, automation.MethodAddHatch, automation.MethodRegen,
	}, br.methods())

	outline := br.paramsOf(automation.MethodAddPolyline).(polylineRequest)
	assert.True(t, outline.Closed)
	assert.Equal(t, boundary, outline.Points)
	assert.Equal(t, "fill", outline.Layer)

	req := br.paramsOf(automation.MethodAddHatch).(hatchRequest)
	assert.Equal(t, "2A", req.BoundaryHandle)
	encoded, err := json.Marshal(req)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"boundary_handle":"2A"`)

	t.Run("Boundary failure skips the hatch", func(t *testing.T) {
		br := readyBridge()
		b := connected(t, br)
		br.callFunc = func(method string, params any) (json.RawMessage, error) {
			if method == automation.MethodAddPolyline {
				return nil, &automation.RemoteError{Code: 3, Message: "self-intersecting boundary"}
			}
			return nil, nil
		}

		_, err := b.DrawHatch(context.Background(), backend.HatchParams{Boundary: boundary, Style: backend.Style{Layer: "0"}})
		require.Error(t, err)
		assert.False(t, backend.IsFatal(err))
		assert.NotContains(t, br.methods(), automation.MethodAddHatch)
	})
}

func TestDraw_ErrorClassification(t *testing.T) {
	t.Run("Application rejection is recoverable", func(t *testing.T) {
		br := readyBridge()
		b := connected(t, br)
		br.callFunc = func(method string, params any) (json.RawMessage, error) {
			if method == automation.MethodAddCircle {
				return nil, &automation.RemoteError{Code: 3, Message: "invalid radius"}
			}
			return nil, nil
		}

		_, err := b.DrawCircle(context.Background(), backend.CircleParams{Radius: 1, Style: backend.Style{Layer: "0"}})
		require.Error(t, err)
		assert.ErrorIs(t, err, drawing.ErrBackend)
		assert.False(t, backend.IsFatal(err))
		assert.NotContains(t, br.methods(), automation.MethodRegen)
	})

	t.Run("Transport failure is fatal", func(t *testing.T) {
		br := readyBridge()
		b := connected(t, br)
		br.callFunc = func(method string, params any) (json.RawMessage, error) {
			return nil, &automation.TransportError{Method: method, Cause: errors.New("broken pipe")}
		}

		_, err := b.DrawText(context.Background(), backend.TextParams{Text: "x", Style: backend.Style{Layer: "0"}})
		assert.True(t, backend.IsFatal(err))
	})

	t.Run("Not connected is fatal", func(t *testing.T) {
		b := New(&mockBridge{}, nil, fastOptions(), nil)
		_, err := b.DrawHatch(context.Background(), backend.HatchParams{})
		assert.True(t, backend.IsFatal(err))
		assert.ErrorIs(t, err, automation.ErrNotDialed)
	})
}

func TestCreateLayer(t *testing.T) {
	br := readyBridge()
	b := connected(t, br)

	msg, err := b.CreateLayer(context.Background(), backend.LayerParams{Name: "walls", Color: 1})
	require.NoError(t, err)
	assert.Equal(t, "Layer walls created and set active (color 1)", msg)
	assert.Equal(t, []string{automation.MethodEnsureLayer, automation.MethodSetActiveLayer}, br.methods())
}

func TestSaveAndClose(t *testing.T) {
	br := readyBridge()
	b := connected(t, br)

	msg, err := b.Save(context.Background(), backend.SaveParams{Path: "/tmp/out/plan.dwg"})
	require.NoError(t, err)
	assert.Equal(t, "Drawing saved to /tmp/out/plan.dwg", msg)
	assert.Equal(t, saveRequest{Path: "/tmp/out/plan.dwg"}, br.paramsOf(automation.MethodSaveAs))

	msg, err = b.Close(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Disconnected from AutoCAD", msg)
	assert.Contains(t, br.methods(), automation.MethodDetach)
	assert.Equal(t, 1, br.closed)
	assert.False(t, br.Connected())
}

func TestApplicationID(t *testing.T) {
	tests := map[string]string{
		"AutoCAD":  "AutoCAD.Application",
		"gstarcad": "GCAD.Application",
		"GCAD":     "GCAD.Application",
		" ZWCAD ":  "ZWCAD.Application",
		"unknown":  "AutoCAD.Application",
	}
	for in, want := range tests {
		assert.Equal(t, want, ApplicationID(in), in)
	}
}

func TestCommandDelay(t *testing.T) {
	opts := fastOptions()
	opts.CommandDelay = 250 * time.Millisecond
	b := New(&mockBridge{}, nil, opts, nil)
	assert.Equal(t, 250*time.Millisecond, b.CommandDelay())
	assert.Equal(t, Name, b.Name())
}
