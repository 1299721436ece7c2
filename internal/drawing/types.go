package drawing

import (
	"fmt"
	"slices"
)

// Action is the category of a resolved command.
type Action string

const (
	ActionDraw         Action = "DRAW"
	ActionAddText      Action = "ADD_TEXT"
	ActionAddDimension Action = "ADD_DIMENSION"
	ActionCreateLayer  Action = "CREATE_LAYER"
	ActionSave         Action = "SAVE"
)

// Shape is the geometric kind a DRAW, ADD_TEXT or ADD_DIMENSION command targets.
type Shape string

const (
	ShapeNone      Shape = ""
	ShapeLine      Shape = "LINE"
	ShapeCircle    Shape = "CIRCLE"
	ShapeArc       Shape = "ARC"
	ShapeRectangle Shape = "RECTANGLE"
	ShapePolyline  Shape = "POLYLINE"
	ShapeText      Shape = "TEXT"
	ShapeHatch     Shape = "HATCH"
	ShapeDimension Shape = "DIMENSION"
)

// Shapes lists every supported shape in a stable order.
var Shapes = []Shape{
	ShapeLine, ShapeCircle, ShapeArc, ShapeRectangle,
	ShapePolyline, ShapeText, ShapeHatch, ShapeDimension,
}

// Field names carried by intents and operations.
const (
	FieldStartX     = "start_x"
	FieldStartY     = "start_y"
	FieldEndX       = "end_x"
	FieldEndY       = "end_y"
	FieldCenterX    = "center_x"
	FieldCenterY    = "center_y"
	FieldRadius     = "radius"
	FieldStartAngle = "start_angle"
	FieldEndAngle   = "end_angle"
	FieldCorner1X   = "corner1_x"
	FieldCorner1Y   = "corner1_y"
	FieldCorner2X   = "corner2_x"
	FieldCorner2Y   = "corner2_y"
	FieldPoints     = "points"
	FieldClosed     = "closed"
	FieldX          = "x"
	FieldY          = "y"
	FieldText       = "text"
	FieldHeight     = "height"
	FieldRotation   = "rotation"
	FieldPattern    = "pattern_name"
	FieldScale      = "scale"
	FieldPoint1X    = "point1_x"
	FieldPoint1Y    = "point1_y"
	FieldPoint2X    = "point2_x"
	FieldPoint2Y    = "point2_y"
	FieldTextX      = "text_x"
	FieldTextY      = "text_y"
	FieldName       = "name"
	FieldFilename   = "filename"

	// Style attributes tracked in Operation.Defaulted.
	FieldColor      = "color"
	FieldLayer      = "layer"
	FieldLineweight = "lineweight"
)

// Point is a 2D drawing coordinate.
type Point struct {
	X float64 `json:"x" yaml:"x" mapstructure:"x" jsonschema_description:"X coordinate"`
	Y float64 `json:"y" yaml:"y" mapstructure:"y" jsonschema_description:"Y coordinate"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Intent is a resolved action and shape plus the values consumed from the command.
// Fields holds only what was stated; Color and Layer are optional hints.
type Intent struct {
	Action Action
	Shape  Shape
	Fields map[string]any

	// Color is a color name ("red") or empty when none was stated.
	Color string
	// Layer is a layer name or empty when none was stated.
	Layer string
	// Lineweight is nil when none was stated.
	Lineweight *int
}

// Operation is a validated, backend-ready drawing instruction.
type Operation struct {
	Action     Action
	Shape      Shape
	Fields     map[string]any
	Color      int
	ColorName  string
	Layer      string
	Lineweight int

	// Defaulted lists, sorted, the names of fields filled by policy.
	Defaulted []string
	// Warnings collects non-fatal adjustments made while building the operation.
	Warnings []string
}

// Float returns a numeric field, or 0 when absent.
func (o *Operation) Float(name string) float64 {
	v, _ := floatValue(o.Fields[name])
	return v
}

// Point returns the point formed by two numeric fields.
func (o *Operation) Point(xField, yField string) Point {
	return Point{X: o.Float(xField), Y: o.Float(yField)}
}

// Points returns a vertex list field.
func (o *Operation) Points(name string) []Point {
	pts, _ := o.Fields[name].([]Point)
	return pts
}

// Bool returns a boolean field, or false when absent.
func (o *Operation) Bool(name string) bool {
	b, _ := o.Fields[name].(bool)
	return b
}

// String returns a string field, or "" when absent.
func (o *Operation) String(name string) string {
	s, _ := o.Fields[name].(string)
	return s
}

// IsDefaulted reports whether the named field was supplied by policy.
func (o *Operation) IsDefaulted(name string) bool {
	_, found := slices.BinarySearch(o.Defaulted, name)
	return found
}

// Label is a short human-readable name for the operation, e.g. "DRAW LINE".
func (o *Operation) Label() string {
	if o.Shape == ShapeNone {
		return string(o.Action)
	}
	return string(o.Action) + " " + string(o.Shape)
}

func floatValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// RectangleVertices returns the four corners of the axis-aligned rectangle spanned by c1 and c2.
func RectangleVertices(c1, c2 Point) []Point {
	return []Point{
		c1,
		{X: c2.X, Y: c1.Y},
		c2,
		{X: c1.X, Y: c2.Y},
	}
}
