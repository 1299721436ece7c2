package tool

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/piexl/CAD-MCP/internal/backend"
	"github.com/piexl/CAD-MCP/internal/command"
	"github.com/piexl/CAD-MCP/internal/dispatch"
	"github.com/piexl/CAD-MCP/internal/drawing"
	"github.com/piexl/CAD-MCP/internal/session"
	"github.com/piexl/CAD-MCP/internal/testing/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) (*Registry, *mocks.MockBackend) {
	t.Helper()
	b := mocks.NewMockBackend()
	sess := session.New(b, session.Options{}, nil)
	svc := dispatch.NewService(
		command.NewInterpreter(command.DefaultLexicon()),
		drawing.NewValidator(nil),
		sess,
		dispatch.NewDispatcher(sess, "output", mocks.NewMockFileSystem(), nil),
		drawing.Defaults{Color: 7, TextHeight: 2.5, Filename: "cad_drawing.dxf"},
		nil,
	)
	return NewRegistry(NewCADTools(svc)...), b
}

func TestRegistry_List(t *testing.T) {
	reg, _ := newTestRegistry(t)

	var names []string
	for _, tl := range reg.List() {
		names = append(names, tl.Name())
		assert.NotEmpty(t, tl.Description())
		assert.True(t, json.Valid(tl.Schema()), tl.Name())
	}
	assert.Equal(t, []string{
		"add_dimension", "cad_status", "close_cad", "connect_cad",
		"create_layer", "draw_arc", "draw_circle", "draw_hatch",
		"draw_line", "draw_polyline", "draw_rectangle", "draw_text",
		"process_command", "save_drawing",
	}, names)
}

func TestRegistry_Duplicate(t *testing.T) {
	a := NewAdapter("x", "", func(context.Context, NoInput) (string, error) { return "", nil })
	r := NewRegistry(a)
	assert.ErrorIs(t, r.Register(a), ErrDuplicateTool)
	assert.Panics(t, func() { NewRegistry(a, a) })
}

func TestRegistry_Unknown(t *testing.T) {
	reg, _ := newTestRegistry(t)
	_, err := reg.Execute(context.Background(), "draw_spline", nil)
	assert.True(t, IsUnknownTool(err))
	assert.EqualError(t, err, "unknown tool: draw_spline")
}

func TestGenerateSchema(t *testing.T) {
	var schema struct {
		Type                 string                    `json:"type"`
		Properties           map[string]map[string]any `json:"properties"`
		Required             []string                  `json:"required"`
		AdditionalProperties *bool                     `json:"additionalProperties"`
		Schema               string                    `json:"$schema"`
	}
	require.NoError(t, json.Unmarshal(GenerateSchema[dispatch.LineInput](), &schema))

	assert.Equal(t, "object", schema.Type)
	assert.Empty(t, schema.Schema)
	require.NotNil(t, schema.AdditionalProperties)
	assert.False(t, *schema.AdditionalProperties)
	assert.ElementsMatch(t, []string{"start_x", "start_y", "end_x", "end_y"}, schema.Required)
	for _, key := range []string{"start_x", "end_y", "color", "layer", "lineweight"} {
		assert.Contains(t, schema.Properties, key)
	}
	assert.Equal(t, "number", schema.Properties["start_x"]["type"])
}

func TestExecute(t *testing.T) {
	ctx := context.Background()

	t.Run("Requires connection", func(t *testing.T) {
		reg, b := newTestRegistry(t)
		_, err := reg.Execute(ctx, "draw_line", map[string]any{"start_x": 0.0, "start_y": 0.0, "end_x": 1.0, "end_y": 1.0})
		assert.ErrorIs(t, err, drawing.ErrNotConnected)
		assert.Empty(t, b.Methods())
	})

	t.Run("Decodes JSON numbers", func(t *testing.T) {
		reg, b := newTestRegistry(t)
		_, err := reg.Execute(ctx, "connect_cad", nil)
		require.NoError(t, err)

		var args map[string]any
		require.NoError(t, json.Unmarshal([]byte(`{"start_x":0,"start_y":0,"end_x":100,"end_y":50,"color":"red","lineweight":30}`), &args))
		msg, err := reg.Execute(ctx, "draw_line", args)
		require.NoError(t, err)
		assert.Equal(t, "DrawLine ok", msg)
		assert.Equal(t, backend.LineParams{
			Start: drawing.Point{X: 0, Y: 0},
			End:   drawing.Point{X: 100, Y: 50},
			Style: backend.Style{Color: 1, Layer: "0", Lineweight: 30},
		}, b.Last().Params)
	})

	t.Run("Accepts point objects and pairs", func(t *testing.T) {
		reg, b := newTestRegistry(t)
		_, err := reg.Execute(ctx, "connect_cad", nil)
		require.NoError(t, err)

		var args map[string]any
		require.NoError(t, json.Unmarshal([]byte(`{"points":[[0,0],{"x":10,"y":0},[10,10]],"closed":true}`), &args))
		_, err = reg.Execute(ctx, "draw_polyline", args)
		require.NoError(t, err)
		p := b.Last().Params.(backend.PolylineParams)
		assert.Equal(t, []drawing.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}, p.Points)
		assert.True(t, p.Closed)
	})

	t.Run("Rejects unknown arguments", func(t *testing.T) {
		reg, _ := newTestRegistry(t)
		_, err := reg.Execute(ctx, "draw_circle", map[string]any{"centre_x": 1.0})
		assert.True(t, IsArgumentError(err))
	})

	t.Run("Rejects wrong types", func(t *testing.T) {
		reg, _ := newTestRegistry(t)
		_, err := reg.Execute(ctx, "draw_text", map[string]any{"x": "left"})
		assert.True(t, IsArgumentError(err))
	})

	t.Run("Missing geometry is a taxonomy error", func(t *testing.T) {
		reg, _ := newTestRegistry(t)
		_, err := reg.Execute(ctx, "connect_cad", nil)
		require.NoError(t, err)
		_, err = reg.Execute(ctx, "draw_circle", map[string]any{"center_x": 1.0, "center_y": 1.0})
		assert.ErrorIs(t, err, drawing.ErrMissingField)
	})

	t.Run("Process command and status", func(t *testing.T) {
		reg, b := newTestRegistry(t)
		_, err := reg.Execute(ctx, "connect_cad", map[string]any{})
		require.NoError(t, err)

		_, err = reg.Execute(ctx, "process_command", map[string]any{"command": "画一个圆 圆心(5,5) 半径3"})
		require.NoError(t, err)
		assert.Equal(t, "DrawCircle", b.Last().Method)

		out, err := reg.Execute(ctx, "cad_status", nil)
		require.NoError(t, err)
		var st session.Status
		require.NoError(t, json.Unmarshal([]byte(out), &st))
		assert.Equal(t, "READY", st.State)
		assert.Equal(t, "mock", st.Backend)

		_, err = reg.Execute(ctx, "close_cad", nil)
		require.NoError(t, err)
		out, err = reg.Execute(ctx, "cad_status", nil)
		require.NoError(t, err)
		assert.Contains(t, out, `"state": "DISCONNECTED"`)
	})

	t.Run("Save and layer", func(t *testing.T) {
		reg, b := newTestRegistry(t)
		_, err := reg.Execute(ctx, "connect_cad", nil)
		require.NoError(t, err)

		_, err = reg.Execute(ctx, "create_layer", map[string]any{"name": "dims", "color": "cyan"})
		require.NoError(t, err)
		assert.Equal(t, backend.LayerParams{Name: "dims", Color: 4}, b.Last().Params)

		_, err = reg.Execute(ctx, "save_drawing", map[string]any{"filename": "a.dxf"})
		require.NoError(t, err)
		assert.Equal(t, backend.SaveParams{Path: "/work/output/a.dxf"}, b.Last().Params)
	})
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "", ErrorKind(nil))
	assert.Equal(t, "InvalidArguments", ErrorKind(&ArgumentError{Tool: "x"}))
	assert.Equal(t, "UnknownTool", ErrorKind(&UnknownToolError{Name: "x"}))
	assert.Equal(t, "MissingField", ErrorKind(&drawing.MissingFieldError{Action: drawing.ActionDraw, Field: "radius"}))
	assert.Equal(t, "BackendError", ErrorKind(backend.NewError("save", assert.AnError)))
}
