package dispatch

import (
	"github.com/piexl/CAD-MCP/internal/drawing"
)

// Typed inputs for direct invocation. Required geometry is a pointer so an absent
// value reaches the validator as missing rather than as zero.

// StyleInput holds the optional attributes shared by drawing inputs.
type StyleInput struct {
	Color      string `json:"color,omitempty" mapstructure:"color" jsonschema_description:"Color name (red, yellow, green, cyan, blue, magenta, white, black, gray) or index 0-256. Defaults to the configured color."`
	Layer      string `json:"layer,omitempty" mapstructure:"layer" jsonschema_description:"Target layer. Defaults to the active layer."`
	Lineweight *int   `json:"lineweight,omitempty" mapstructure:"lineweight" jsonschema_description:"Lineweight in hundredths of a millimetre (e.g. 25 for 0.25 mm)."`
}

func (s StyleInput) apply(in *drawing.Intent) {
	in.Color = s.Color
	in.Layer = s.Layer
	in.Lineweight = s.Lineweight
}

type LineInput struct {
	StartX *float64 `json:"start_x" mapstructure:"start_x" jsonschema_description:"Start point X"`
	StartY *float64 `json:"start_y" mapstructure:"start_y" jsonschema_description:"Start point Y"`
	EndX   *float64 `json:"end_x" mapstructure:"end_x" jsonschema_description:"End point X"`
	EndY   *float64 `json:"end_y" mapstructure:"end_y" jsonschema_description:"End point Y"`
	StyleInput `mapstructure:",squash"`
}

func (i LineInput) Intent() drawing.Intent {
	in := newIntent(drawing.ActionDraw, drawing.ShapeLine, i.StyleInput)
	setFloat(in.Fields, drawing.FieldStartX, i.StartX)
	setFloat(in.Fields, drawing.FieldStartY, i.StartY)
	setFloat(in.Fields, drawing.FieldEndX, i.EndX)
	setFloat(in.Fields, drawing.FieldEndY, i.EndY)
	return in
}

type CircleInput struct {
	CenterX    *float64 `json:"center_x" mapstructure:"center_x" jsonschema_description:"Center X"`
	CenterY    *float64 `json:"center_y" mapstructure:"center_y" jsonschema_description:"Center Y"`
	Radius     *float64 `json:"radius" mapstructure:"radius" jsonschema_description:"Radius"`
	StyleInput `mapstructure:",squash"`
}

func (i CircleInput) Intent() drawing.Intent {
	in := newIntent(drawing.ActionDraw, drawing.ShapeCircle, i.StyleInput)
	setFloat(in.Fields, drawing.FieldCenterX, i.CenterX)
	setFloat(in.Fields, drawing.FieldCenterY, i.CenterY)
	setFloat(in.Fields, drawing.FieldRadius, i.Radius)
	return in
}

type ArcInput struct {
	CenterX    *float64 `json:"center_x" mapstructure:"center_x" jsonschema_description:"Center X"`
	CenterY    *float64 `json:"center_y" mapstructure:"center_y" jsonschema_description:"Center Y"`
	Radius     *float64 `json:"radius" mapstructure:"radius" jsonschema_description:"Radius"`
	StartAngle *float64 `json:"start_angle" mapstructure:"start_angle" jsonschema_description:"Start angle in degrees, counter-clockwise from +X"`
	EndAngle   *float64 `json:"end_angle" mapstructure:"end_angle" jsonschema_description:"End angle in degrees, counter-clockwise from +X"`
	StyleInput `mapstructure:",squash"`
}

func (i ArcInput) Intent() drawing.Intent {
	in := newIntent(drawing.ActionDraw, drawing.ShapeArc, i.StyleInput)
	setFloat(in.Fields, drawing.FieldCenterX, i.CenterX)
	setFloat(in.Fields, drawing.FieldCenterY, i.CenterY)
	setFloat(in.Fields, drawing.FieldRadius, i.Radius)
	setFloat(in.Fields, drawing.FieldStartAngle, i.StartAngle)
	setFloat(in.Fields, drawing.FieldEndAngle, i.EndAngle)
	return in
}

type RectangleInput struct {
	Corner1X   *float64 `json:"corner1_x" mapstructure:"corner1_x" jsonschema_description:"First corner X"`
	Corner1Y   *float64 `json:"corner1_y" mapstructure:"corner1_y" jsonschema_description:"First corner Y"`
	Corner2X   *float64 `json:"corner2_x" mapstructure:"corner2_x" jsonschema_description:"Opposite corner X"`
	Corner2Y   *float64 `json:"corner2_y" mapstructure:"corner2_y" jsonschema_description:"Opposite corner Y"`
	StyleInput `mapstructure:",squash"`
}

func (i RectangleInput) Intent() drawing.Intent {
	in := newIntent(drawing.ActionDraw, drawing.ShapeRectangle, i.StyleInput)
	setFloat(in.Fields, drawing.FieldCorner1X, i.Corner1X)
	setFloat(in.Fields, drawing.FieldCorner1Y, i.Corner1Y)
	setFloat(in.Fields, drawing.FieldCorner2X, i.Corner2X)
	setFloat(in.Fields, drawing.FieldCorner2Y, i.Corner2Y)
	return in
}

type PolylineInput struct {
	Points     []drawing.Point `json:"points" mapstructure:"points" jsonschema_description:"Vertices in order, at least 2"`
	Closed     *bool           `json:"closed,omitempty" mapstructure:"closed" jsonschema_description:"Connect the last vertex back to the first"`
	StyleInput `mapstructure:",squash"`
}

func (i PolylineInput) Intent() drawing.Intent {
	in := newIntent(drawing.ActionDraw, drawing.ShapePolyline, i.StyleInput)
	if len(i.Points) > 0 {
		in.Fields[drawing.FieldPoints] = i.Points
	}
	if i.Closed != nil {
		in.Fields[drawing.FieldClosed] = *i.Closed
	}
	return in
}

type TextInput struct {
	X          *float64 `json:"x" mapstructure:"x" jsonschema_description:"Insertion point X"`
	Y          *float64 `json:"y" mapstructure:"y" jsonschema_description:"Insertion point Y"`
	Text       string   `json:"text" mapstructure:"text" jsonschema_description:"Text content"`
	Height     *float64 `json:"height,omitempty" mapstructure:"height" jsonschema_description:"Text height. Defaults to the configured text height."`
	Rotation   *float64 `json:"rotation,omitempty" mapstructure:"rotation" jsonschema_description:"Rotation in degrees"`
	StyleInput `mapstructure:",squash"`
}

func (i TextInput) Intent() drawing.Intent {
	in := newIntent(drawing.ActionAddText, drawing.ShapeText, i.StyleInput)
	setFloat(in.Fields, drawing.FieldX, i.X)
	setFloat(in.Fields, drawing.FieldY, i.Y)
	setFloat(in.Fields, drawing.FieldHeight, i.Height)
	setFloat(in.Fields, drawing.FieldRotation, i.Rotation)
	if i.Text != "" {
		in.Fields[drawing.FieldText] = i.Text
	}
	return in
}

type HatchInput struct {
	Points     []drawing.Point `json:"points" mapstructure:"points" jsonschema_description:"Closed boundary vertices, at least 3"`
	Pattern    string          `json:"pattern_name,omitempty" mapstructure:"pattern_name" jsonschema_description:"Hatch pattern name, e.g. SOLID or ANSI31"`
	Scale      *float64        `json:"scale,omitempty" mapstructure:"scale" jsonschema_description:"Pattern scale"`
	StyleInput `mapstructure:",squash"`
}

func (i HatchInput) Intent() drawing.Intent {
	in := newIntent(drawing.ActionDraw, drawing.ShapeHatch, i.StyleInput)
	if len(i.Points) > 0 {
		in.Fields[drawing.FieldPoints] = i.Points
	}
	if i.Pattern != "" {
		in.Fields[drawing.FieldPattern] = i.Pattern
	}
	setFloat(in.Fields, drawing.FieldScale, i.Scale)
	return in
}

type DimensionInput struct {
	Point1X    *float64 `json:"point1_x" mapstructure:"point1_x" jsonschema_description:"First measured point X"`
	Point1Y    *float64 `json:"point1_y" mapstructure:"point1_y" jsonschema_description:"First measured point Y"`
	Point2X    *float64 `json:"point2_x" mapstructure:"point2_x" jsonschema_description:"Second measured point X"`
	Point2Y    *float64 `json:"point2_y" mapstructure:"point2_y" jsonschema_description:"Second measured point Y"`
	TextX      *float64 `json:"text_x" mapstructure:"text_x" jsonschema_description:"Dimension text anchor X"`
	TextY      *float64 `json:"text_y" mapstructure:"text_y" jsonschema_description:"Dimension text anchor Y"`
	TextHeight *float64 `json:"height,omitempty" mapstructure:"height" jsonschema_description:"Dimension text height"`
	StyleInput `mapstructure:",squash"`
}

func (i DimensionInput) Intent() drawing.Intent {
	in := newIntent(drawing.ActionAddDimension, drawing.ShapeDimension, i.StyleInput)
	setFloat(in.Fields, drawing.FieldPoint1X, i.Point1X)
	setFloat(in.Fields, drawing.FieldPoint1Y, i.Point1Y)
	setFloat(in.Fields, drawing.FieldPoint2X, i.Point2X)
	setFloat(in.Fields, drawing.FieldPoint2Y, i.Point2Y)
	setFloat(in.Fields, drawing.FieldTextX, i.TextX)
	setFloat(in.Fields, drawing.FieldTextY, i.TextY)
	setFloat(in.Fields, drawing.FieldHeight, i.TextHeight)
	return in
}

type LayerInput struct {
	Name       string `json:"name" mapstructure:"name" jsonschema_description:"Layer name"`
	Color      string `json:"color,omitempty" mapstructure:"color" jsonschema_description:"Layer color name or index"`
	Lineweight *int   `json:"lineweight,omitempty" mapstructure:"lineweight" jsonschema_description:"Layer lineweight in hundredths of a millimetre"`
}

func (i LayerInput) Intent() drawing.Intent {
	in := drawing.Intent{
		Action:     drawing.ActionCreateLayer,
		Fields:     map[string]any{},
		Color:      i.Color,
		Lineweight: i.Lineweight,
	}
	if i.Name != "" {
		in.Fields[drawing.FieldName] = i.Name
	}
	return in
}

type SaveInput struct {
	Filename string `json:"filename,omitempty" mapstructure:"filename" jsonschema_description:"Output file name or path. Relative names go under the output directory; .dxf, .dwg, .yaml are recognized."`
}

func (i SaveInput) Intent() drawing.Intent {
	in := drawing.Intent{Action: drawing.ActionSave, Fields: map[string]any{}}
	if i.Filename != "" {
		in.Fields[drawing.FieldFilename] = i.Filename
	}
	return in
}

// CommandInput carries a free-text drawing instruction.
type CommandInput struct {
	Command string `json:"command" mapstructure:"command" jsonschema_description:"Drawing instruction in English or Chinese, e.g. \"draw a red line from (0,0) to (10,10)\""`
}

func newIntent(action drawing.Action, shape drawing.Shape, style StyleInput) drawing.Intent {
	in := drawing.Intent{Action: action, Shape: shape, Fields: map[string]any{}}
	style.apply(&in)
	return in
}

func setFloat(fields map[string]any, name string, v *float64) {
	if v != nil {
		fields[name] = *v
	}
}
