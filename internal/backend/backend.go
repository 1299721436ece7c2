package backend

import (
	"context"
	"time"

	"github.com/piexl/CAD-MCP/internal/drawing"
)

// Style carries the attributes shared by every drawn entity.
type Style struct {
	Color      int
	Layer      string
	Lineweight int
}

type LineParams struct {
	Start, End drawing.Point
	Style
}

type CircleParams struct {
	Center drawing.Point
	Radius float64
	Style
}

// ArcParams angles are in degrees, counter-clockwise from the positive X axis.
type ArcParams struct {
	Center     drawing.Point
	Radius     float64
	StartAngle float64
	EndAngle   float64
	Style
}

type RectangleParams struct {
	Corner1, Corner2 drawing.Point
	Style
}

type PolylineParams struct {
	Points []drawing.Point
	Closed bool
	Style
}

type TextParams struct {
	Position drawing.Point
	Text     string
	Height   float64
	Rotation float64
	Style
}

type HatchParams struct {
	Boundary []drawing.Point
	Pattern  string
	Scale    float64
	Style
}

type DimensionParams struct {
	Point1, Point2 drawing.Point
	TextPosition   drawing.Point
	TextHeight     float64
	Style
}

type LayerParams struct {
	Name       string
	Color      int
	Lineweight int
}

// SaveParams.Path is already resolved against the output directory.
type SaveParams struct {
	Path string
}

// Backend is the capability set every drawing backend provides.
// Each call returns a human-readable confirmation.
type Backend interface {
	// Name identifies the variant ("live" or "offline").
	Name() string
	Connect(ctx context.Context) (string, error)
	DrawLine(ctx context.Context, p LineParams) (string, error)
	DrawCircle(ctx context.Context, p CircleParams) (string, error)
	DrawArc(ctx context.Context, p ArcParams) (string, error)
	DrawRectangle(ctx context.Context, p RectangleParams) (string, error)
	DrawPolyline(ctx context.Context, p PolylineParams) (string, error)
	DrawText(ctx context.Context, p TextParams) (string, error)
	DrawHatch(ctx context.Context, p HatchParams) (string, error)
	AddDimension(ctx context.Context, p DimensionParams) (string, error)
	CreateLayer(ctx context.Context, p LayerParams) (string, error)
	Save(ctx context.Context, p SaveParams) (string, error)
	Close(ctx context.Context) (string, error)
	// CommandDelay is the pause the caller inserts after each primitive call.
	CommandDelay() time.Duration
}
