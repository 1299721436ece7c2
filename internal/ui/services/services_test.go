package services

import (
	"testing"

	"github.com/piexl/CAD-MCP/internal/drawing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlamourRenderer(t *testing.T) {
	r := NewGlamourRenderer("notty")

	out, err := RenderMarkdown("# Drawing commands\n\n- draw a line", 60, r)
	require.NoError(t, err)
	assert.Contains(t, out, "Drawing commands")
	assert.Contains(t, out, "draw a line")

	_, err = r.Render("again", 60)
	require.NoError(t, err)
	assert.Len(t, r.renderers, 1)
}

func TestDescribeOperation(t *testing.T) {
	op := &drawing.Operation{
		Action: drawing.ActionDraw,
		Shape:  drawing.ShapePolyline,
		Fields: map[string]any{
			drawing.FieldPoints: []drawing.Point{{X: 0, Y: 0}, {X: 10, Y: 5}},
			drawing.FieldClosed: false,
		},
		Color:     1,
		ColorName: "red",
		Layer:     "0",
		Defaulted: []string{drawing.FieldClosed, drawing.FieldLayer, drawing.FieldLineweight},
		Warnings:  []string{"unknown color purple, using default"},
	}

	out := DescribeOperation(op)
	assert.Contains(t, out, "**DRAW POLYLINE**")
	assert.Contains(t, out, "| points | (0, 0) (10, 5) |")
	assert.Contains(t, out, "| closed | false _(default)_ |")
	assert.Contains(t, out, "| color | red (1) |")
	assert.Contains(t, out, "| layer | 0 _(default)_ |")
	assert.Contains(t, out, "> warning: unknown color purple")
}

func TestDescribeOperation_Save(t *testing.T) {
	out := DescribeOperation(&drawing.Operation{
		Action: drawing.ActionSave,
		Fields: map[string]any{drawing.FieldFilename: "plan.dxf"},
	})
	assert.Contains(t, out, "**SAVE**")
	assert.Contains(t, out, "| filename | plan.dxf |")
	assert.NotContains(t, out, "| color |")
}
