package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/piexl/CAD-MCP/internal/dispatch"
	"github.com/piexl/CAD-MCP/internal/session"
)

// cadService is the subset of dispatch.Service the CAD tools call.
type cadService interface {
	InterpretAndDispatch(ctx context.Context, raw string) (string, error)
	DrawLine(ctx context.Context, in dispatch.LineInput) (string, error)
	DrawCircle(ctx context.Context, in dispatch.CircleInput) (string, error)
	DrawArc(ctx context.Context, in dispatch.ArcInput) (string, error)
	DrawRectangle(ctx context.Context, in dispatch.RectangleInput) (string, error)
	DrawPolyline(ctx context.Context, in dispatch.PolylineInput) (string, error)
	DrawText(ctx context.Context, in dispatch.TextInput) (string, error)
	DrawHatch(ctx context.Context, in dispatch.HatchInput) (string, error)
	AddDimension(ctx context.Context, in dispatch.DimensionInput) (string, error)
	CreateLayer(ctx context.Context, in dispatch.LayerInput) (string, error)
	Save(ctx context.Context, in dispatch.SaveInput) (string, error)
	Connect(ctx context.Context) (string, error)
	Close(ctx context.Context) (string, error)
	Status() session.Status
}

// NoInput is the argument type of tools that take no arguments.
type NoInput struct{}

// NewCADTools creates the drawing tools backed by svc.
func NewCADTools(svc cadService) []Tool {
	return []Tool{
		NewAdapter("draw_line", "Draw a straight line between two points.", svc.DrawLine),
		NewAdapter("draw_circle", "Draw a circle from its center and radius.", svc.DrawCircle),
		NewAdapter("draw_arc", "Draw an arc from center, radius and start/end angles in degrees.", svc.DrawArc),
		NewAdapter("draw_rectangle", "Draw an axis-aligned rectangle from two opposite corners.", svc.DrawRectangle),
		NewAdapter("draw_polyline", "Draw a polyline through the given vertices, optionally closed.", svc.DrawPolyline),
		NewAdapter("draw_text", "Place single-line text at a point.", svc.DrawText),
		NewAdapter("draw_hatch", "Fill a closed boundary with a hatch pattern.", svc.DrawHatch),
		NewAdapter("add_dimension", "Add a linear dimension between two points with a text anchor.", svc.AddDimension),
		NewAdapter("create_layer", "Create a layer if missing and make it the active layer.", svc.CreateLayer),
		NewAdapter("save_drawing", "Save the drawing. Without a filename the configured default is used.", svc.Save),
		NewAdapter("process_command",
			"Interpret a free-text drawing instruction in English or Chinese and execute it.",
			func(ctx context.Context, in dispatch.CommandInput) (string, error) {
				return svc.InterpretAndDispatch(ctx, in.Command)
			}),
		NewAdapter("connect_cad", "Connect to the drawing backend. Succeeds immediately when already connected.",
			func(ctx context.Context, _ NoInput) (string, error) {
				return svc.Connect(ctx)
			}),
		NewAdapter("close_cad", "Disconnect from the drawing backend.",
			func(ctx context.Context, _ NoInput) (string, error) {
				return svc.Close(ctx)
			}),
		NewAdapter("cad_status", "Report the session state, backend and active layer as JSON.",
			func(ctx context.Context, _ NoInput) (string, error) {
				b, err := json.MarshalIndent(svc.Status(), "", "  ")
				if err != nil {
					return "", fmt.Errorf("marshal status: %w", err)
				}
				return string(b), nil
			}),
	}
}
