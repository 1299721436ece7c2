package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/piexl/CAD-MCP/internal/backend"
	"github.com/piexl/CAD-MCP/internal/drawing"
	"github.com/piexl/CAD-MCP/internal/session"
)

// pathResolver makes save paths absolute.
type pathResolver interface {
	Abs(path string) (string, error)
}

// Dispatcher routes validated operations to the session's backend.
type Dispatcher struct {
	session   *session.Session
	outputDir string
	paths     pathResolver
	logger    *slog.Logger
}

// NewDispatcher creates a Dispatcher. Relative save paths resolve under outputDir.
func NewDispatcher(sess *session.Session, outputDir string, paths pathResolver, logger *slog.Logger) *Dispatcher {
	if sess == nil {
		panic("session is required")
	}
	if paths == nil {
		panic("paths is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Dispatcher{
		session:   sess,
		outputDir: outputDir,
		paths:     paths,
		logger:    logger.With("component", "dispatcher"),
	}
}

// Dispatch runs op against the backend and returns the backend's message unchanged.
// It fails with NotConnected, without touching the backend, unless the session is READY.
func (d *Dispatcher) Dispatch(ctx context.Context, op *drawing.Operation) (string, error) {
	if err := d.session.Require(); err != nil {
		return "", err
	}
	b := d.session.Backend()

	msg, err := d.route(ctx, b, op)
	if err != nil {
		if backend.IsFatal(err) {
			d.session.Fail(err)
		}
		d.logger.Warn("operation failed", "op", op.Label(), "error", err)
		return "", err
	}
	d.logger.Debug("operation done", "op", op.Label(), "layer", op.Layer, "color", op.Color)

	if err := pace(ctx, b.CommandDelay()); err != nil {
		// The drawing call already landed; only the pause was cut short.
		d.logger.Debug("pacing interrupted", "error", err)
	}
	return msg, nil
}

func (d *Dispatcher) route(ctx context.Context, b backend.Backend, op *drawing.Operation) (string, error) {
	style := backend.Style{Color: op.Color, Layer: op.Layer, Lineweight: op.Lineweight}

	switch op.Action {
	case drawing.ActionDraw:
		switch op.Shape {
		case drawing.ShapeLine:
			return b.DrawLine(ctx, backend.LineParams{
				Start: op.Point(drawing.FieldStartX, drawing.FieldStartY),
				End:   op.Point(drawing.FieldEndX, drawing.FieldEndY),
				Style: style,
			})
		case drawing.ShapeCircle:
			return b.DrawCircle(ctx, backend.CircleParams{
				Center: op.Point(drawing.FieldCenterX, drawing.FieldCenterY),
				Radius: op.Float(drawing.FieldRadius),
				Style:  style,
			})
		case drawing.ShapeArc:
			return b.DrawArc(ctx, backend.ArcParams{
				Center:     op.Point(drawing.FieldCenterX, drawing.FieldCenterY),
				Radius:     op.Float(drawing.FieldRadius),
				StartAngle: op.Float(drawing.FieldStartAngle),
				EndAngle:   op.Float(drawing.FieldEndAngle),
				Style:      style,
			})
		case drawing.ShapeRectangle:
			return b.DrawRectangle(ctx, backend.RectangleParams{
				Corner1: op.Point(drawing.FieldCorner1X, drawing.FieldCorner1Y),
				Corner2: op.Point(drawing.FieldCorner2X, drawing.FieldCorner2Y),
				Style:   style,
			})
		case drawing.ShapePolyline:
			return b.DrawPolyline(ctx, backend.PolylineParams{
				Points: op.Points(drawing.FieldPoints),
				Closed: op.Bool(drawing.FieldClosed),
				Style:  style,
			})
		case drawing.ShapeHatch:
			return b.DrawHatch(ctx, backend.HatchParams{
				Boundary: op.Points(drawing.FieldPoints),
				Pattern:  op.String(drawing.FieldPattern),
				Scale:    op.Float(drawing.FieldScale),
				Style:    style,
			})
		}
	case drawing.ActionAddText:
		return b.DrawText(ctx, backend.TextParams{
			Position: op.Point(drawing.FieldX, drawing.FieldY),
			Text:     op.String(drawing.FieldText),
			Height:   op.Float(drawing.FieldHeight),
			Rotation: op.Float(drawing.FieldRotation),
			Style:    style,
		})
	case drawing.ActionAddDimension:
		return b.AddDimension(ctx, backend.DimensionParams{
			Point1:       op.Point(drawing.FieldPoint1X, drawing.FieldPoint1Y),
			Point2:       op.Point(drawing.FieldPoint2X, drawing.FieldPoint2Y),
			TextPosition: op.Point(drawing.FieldTextX, drawing.FieldTextY),
			TextHeight:   op.Float(drawing.FieldHeight),
			Style:        style,
		})
	case drawing.ActionCreateLayer:
		name := op.String(drawing.FieldName)
		msg, err := b.CreateLayer(ctx, backend.LayerParams{Name: name, Color: op.Color, Lineweight: op.Lineweight})
		if err != nil {
			return "", err
		}
		d.session.SetActiveLayer(name)
		return msg, nil
	case drawing.ActionSave:
		path, err := d.SavePath(op.String(drawing.FieldFilename))
		if err != nil {
			return "", backend.NewError("save", err)
		}
		return b.Save(ctx, backend.SaveParams{Path: path})
	}
	return "", &drawing.UnsupportedShapeError{Action: op.Action, Shape: op.Shape}
}

// SavePath resolves filename against the output directory and makes it absolute.
func (d *Dispatcher) SavePath(filename string) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("empty filename")
	}
	path := filename
	if !filepath.IsAbs(path) {
		path = filepath.Join(d.outputDir, filename)
	}
	return d.paths.Abs(path)
}

// pace waits d, returning early with ctx's error if ctx ends first.
func pace(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
