package live

import (
	"github.com/piexl/CAD-MCP/internal/backend"
	"github.com/piexl/CAD-MCP/internal/drawing"
)

// Request and result payloads exchanged with the automation bridge.

type style struct {
	Color      int    `json:"color"`
	Layer      string `json:"layer"`
	Lineweight int    `json:"lineweight"`
}

func toStyle(s backend.Style) style {
	return style{Color: s.Color, Layer: s.Layer, Lineweight: s.Lineweight}
}

type attachRequest struct {
	Application string `json:"application"`
}

type attachResult struct {
	Version string `json:"version"`
}

type documentResult struct {
	Name string `json:"name"`
}

type entityResult struct {
	Handle string `json:"handle"`
}

type layerRequest struct {
	Name       string `json:"name"`
	Color      int    `json:"color,omitempty"`
	Lineweight int    `json:"lineweight,omitempty"`
}

type layerResult struct {
	Created bool `json:"created"`
}

type saveRequest struct {
	Path string `json:"path"`
}

type lineRequest struct {
	Start drawing.Point `json:"start"`
	End   drawing.Point `json:"end"`
	style
}

type circleRequest struct {
	Center drawing.Point `json:"center"`
	Radius float64       `json:"radius"`
	style
}

// arcRequest angles are degrees; the bridge converts to the application's units.
type arcRequest struct {
	Center     drawing.Point `json:"center"`
	Radius     float64       `json:"radius"`
	StartAngle float64       `json:"start_angle"`
	EndAngle   float64       `json:"end_angle"`
	style
}

type polylineRequest struct {
	Points []drawing.Point `json:"points"`
	Closed bool            `json:"closed"`
	style
}

type textRequest struct {
	Position drawing.Point `json:"position"`
	Text     string        `json:"text"`
	Height   float64       `json:"height"`
	Rotation float64       `json:"rotation"`
	style
}

type hatchRequest struct {
	BoundaryHandle string          `json:"boundary_handle"`
	Boundary       []drawing.Point `json:"boundary"`
	Pattern        string          `json:"pattern"`
	Scale          float64         `json:"scale"`
	style
}

type dimensionRequest struct {
	Point1       drawing.Point `json:"point1"`
	Point2       drawing.Point `json:"point2"`
	TextPosition drawing.Point `json:"text_position"`
	TextHeight   float64       `json:"text_height"`
	style
}
