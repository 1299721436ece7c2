package command

import (
	"strings"

	"github.com/piexl/CAD-MCP/internal/drawing"
)

// templates maps a fixed-arity shape to the field names its numbers fill, in order.
var templates = map[drawing.Shape][]string{
	drawing.ShapeLine:      {drawing.FieldStartX, drawing.FieldStartY, drawing.FieldEndX, drawing.FieldEndY},
	drawing.ShapeCircle:    {drawing.FieldCenterX, drawing.FieldCenterY, drawing.FieldRadius},
	drawing.ShapeArc:       {drawing.FieldCenterX, drawing.FieldCenterY, drawing.FieldRadius, drawing.FieldStartAngle, drawing.FieldEndAngle},
	drawing.ShapeRectangle: {drawing.FieldCorner1X, drawing.FieldCorner1Y, drawing.FieldCorner2X, drawing.FieldCorner2Y},
	drawing.ShapeText:      {drawing.FieldX, drawing.FieldY},
	drawing.ShapeDimension: {drawing.FieldPoint1X, drawing.FieldPoint1Y, drawing.FieldPoint2X, drawing.FieldPoint2Y, drawing.FieldTextX, drawing.FieldTextY},
}

// Interpreter turns free text into intents using a keyword lexicon.
type Interpreter struct {
	lexicon *Lexicon
}

// NewInterpreter creates an Interpreter over lex.
func NewInterpreter(lex *Lexicon) *Interpreter {
	if lex == nil {
		panic("lexicon is required")
	}
	return &Interpreter{lexicon: lex}
}

// Interpret extracts tokens from raw and resolves them into an intent.
func (i *Interpreter) Interpret(raw string) (drawing.Intent, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return drawing.Intent{}, &drawing.AmbiguousCommandError{Command: raw}
	}
	return Resolve(i.Extract(raw))
}

// Resolve picks one action and at most one shape, then maps the number sequence onto the
// shape's positional template. Missing numbers are left absent for the validator to report;
// surplus numbers are ignored.
func Resolve(ts TokenSet) (drawing.Intent, error) {
	in := drawing.Intent{
		Fields:     map[string]any{},
		Layer:      ts.Layer,
		Lineweight: ts.Lineweight,
	}
	if len(ts.Colors) > 0 {
		in.Color = ts.Colors[0]
	}

	if ts.HasAction(VerbSave) {
		in.Action = drawing.ActionSave
		switch {
		case ts.Filename != "":
			in.Fields[drawing.FieldFilename] = ts.Filename
		case len(ts.Quoted) > 0:
			in.Fields[drawing.FieldFilename] = ts.Quoted[0]
		}
		return in, nil
	}

	shape := drawing.ShapeNone
	if len(ts.Shapes) > 0 {
		shape = ts.Shapes[0]
	}

	if shape == drawing.ShapeNone {
		switch {
		case ts.HasAction(VerbAdd) && len(ts.Quoted) > 0:
			shape = drawing.ShapeText
		case ts.HasModifier(ModLayer) && !ts.HasAction(VerbDraw):
			in.Action = drawing.ActionCreateLayer
			if in.Layer == "" && len(ts.Quoted) > 0 {
				in.Layer = strings.TrimSpace(ts.Quoted[0])
			}
			if in.Layer != "" {
				in.Fields[drawing.FieldName] = in.Layer
			}
			return in, nil
		case len(ts.Actions) > 0:
			return in, &drawing.UnsupportedShapeError{Action: drawing.ActionDraw}
		default:
			return in, &drawing.AmbiguousCommandError{Command: ts.Raw}
		}
	}

	in.Shape = shape
	switch shape {
	case drawing.ShapeText:
		in.Action = drawing.ActionAddText
	case drawing.ShapeDimension:
		in.Action = drawing.ActionAddDimension
	default:
		in.Action = drawing.ActionDraw
	}

	applyTemplate(&in, ts)
	return in, nil
}

func applyTemplate(in *drawing.Intent, ts TokenSet) {
	nums := ts.Numbers

	switch in.Shape {
	case drawing.ShapePolyline, drawing.ShapeHatch:
		// Vertices are consumed pairwise; an odd trailing number is dropped.
		pts := make([]drawing.Point, 0, len(nums)/2)
		for k := 0; k+1 < len(nums); k += 2 {
			pts = append(pts, drawing.Point{X: nums[k], Y: nums[k+1]})
		}
		in.Fields[drawing.FieldPoints] = pts
		if in.Shape == drawing.ShapePolyline && ts.HasModifier(ModClosed) {
			in.Fields[drawing.FieldClosed] = true
		}
		if in.Shape == drawing.ShapeHatch && ts.Pattern != "" {
			in.Fields[drawing.FieldPattern] = ts.Pattern
		}
		return
	}

	names := templates[in.Shape]
	for k, name := range names {
		if k >= len(nums) {
			break
		}
		in.Fields[name] = nums[k]
	}

	if in.Shape == drawing.ShapeText {
		if len(nums) > len(names) {
			in.Fields[drawing.FieldHeight] = nums[len(names)]
		}
		if len(ts.Quoted) > 0 {
			in.Fields[drawing.FieldText] = ts.Quoted[0]
		}
	}
}
