package drawing

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// FallbackLayer is used when neither the command nor the session names a layer.
const FallbackLayer = "0"

// Defaults holds the values supplied for optional fields that a command leaves out.
type Defaults struct {
	Color               int
	Layer               string
	TextHeight          float64
	DimensionTextHeight float64
	HatchPattern        string
	HatchScale          float64
	Filename            string
}

type shapeRule struct {
	action    Action
	required  []string
	text      bool
	minPoints int
}

var shapeRules = map[Shape]shapeRule{
	ShapeLine: {
		action:   ActionDraw,
		required: []string{FieldStartX, FieldStartY, FieldEndX, FieldEndY},
	},
	ShapeCircle: {
		action:   ActionDraw,
		required: []string{FieldCenterX, FieldCenterY, FieldRadius},
	},
	ShapeArc: {
		action:   ActionDraw,
		required: []string{FieldCenterX, FieldCenterY, FieldRadius, FieldStartAngle, FieldEndAngle},
	},
	ShapeRectangle: {
		action:   ActionDraw,
		required: []string{FieldCorner1X, FieldCorner1Y, FieldCorner2X, FieldCorner2Y},
	},
	ShapePolyline: {action: ActionDraw, minPoints: 2},
	ShapeHatch:    {action: ActionDraw, minPoints: 3},
	ShapeText: {
		action:   ActionAddText,
		required: []string{FieldX, FieldY},
		text:     true,
	},
	ShapeDimension: {
		action:   ActionAddDimension,
		required: []string{FieldPoint1X, FieldPoint1Y, FieldPoint2X, FieldPoint2Y, FieldTextX, FieldTextY},
	},
}

// RequiredFields returns the fields an operation of the given shape must carry.
func RequiredFields(shape Shape) []string {
	rule, ok := shapeRules[shape]
	if !ok {
		return nil
	}
	out := slices.Clone(rule.required)
	if rule.text {
		out = append(out, FieldText)
	}
	if rule.minPoints > 0 {
		out = append(out, FieldPoints)
	}
	return out
}

// Validator turns intents into operations, checking required fields and filling optional ones.
type Validator struct {
	colors ColorTable
}

// NewValidator creates a Validator resolving color names through colors.
func NewValidator(colors ColorTable) *Validator {
	if colors == nil {
		colors = DefaultColorTable()
	}
	return &Validator{colors: colors}
}

// Colors returns the validator's color table.
func (v *Validator) Colors() ColorTable {
	return v.colors
}

// Build validates in and applies defaults. Required geometry is never inferred.
func (v *Validator) Build(in Intent, d Defaults) (*Operation, error) {
	op := &Operation{
		Action: in.Action,
		Shape:  in.Shape,
		Fields: map[string]any{},
	}

	switch in.Action {
	case ActionSave:
		op.Shape = ShapeNone
		if name, _ := in.Fields[FieldFilename].(string); strings.TrimSpace(name) != "" {
			op.Fields[FieldFilename] = strings.TrimSpace(name)
		} else {
			op.Fields[FieldFilename] = d.Filename
			op.Defaulted = append(op.Defaulted, FieldFilename)
		}
		slices.Sort(op.Defaulted)
		return op, nil

	case ActionCreateLayer:
		op.Shape = ShapeNone
		name, _ := in.Fields[FieldName].(string)
		if strings.TrimSpace(name) == "" {
			name = in.Layer
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, &MissingFieldError{Action: ActionCreateLayer, Field: FieldName}
		}
		op.Fields[FieldName] = name
		op.Layer = name
		v.applyColor(op, in.Color, d)
		v.applyLineweight(op, in.Lineweight)
		slices.Sort(op.Defaulted)
		return op, nil

	case ActionDraw, ActionAddText, ActionAddDimension:
		if in.Shape == ShapeNone {
			return nil, &UnsupportedShapeError{Action: in.Action}
		}
		rule, ok := shapeRules[in.Shape]
		if !ok {
			return nil, &UnsupportedShapeError{Action: in.Action, Shape: in.Shape}
		}
		if in.Action != ActionDraw && in.Action != rule.action {
			return nil, &UnsupportedShapeError{Action: in.Action, Shape: in.Shape}
		}
		op.Action = rule.action

		if err := checkRequired(op, rule, in.Fields); err != nil {
			return nil, err
		}
		applyShapeDefaults(op, in.Fields, d)
		v.applyColor(op, in.Color, d)
		v.applyLayer(op, in.Layer, d)
		v.applyLineweight(op, in.Lineweight)
		slices.Sort(op.Defaulted)
		return op, nil

	default:
		return nil, &AmbiguousCommandError{Command: string(in.Action)}
	}
}

func checkRequired(op *Operation, rule shapeRule, fields map[string]any) error {
	for _, name := range rule.required {
		n, ok := floatValue(fields[name])
		if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
			return &MissingFieldError{Action: op.Action, Shape: op.Shape, Field: name}
		}
		op.Fields[name] = n
	}
	if rule.text {
		text, _ := fields[FieldText].(string)
		if strings.TrimSpace(text) == "" {
			return &MissingFieldError{Action: op.Action, Shape: op.Shape, Field: FieldText}
		}
		op.Fields[FieldText] = text
	}
	if rule.minPoints > 0 {
		pts, _ := fields[FieldPoints].([]Point)
		if len(pts) < rule.minPoints {
			return &MissingFieldError{
				Action: op.Action,
				Shape:  op.Shape,
				Field:  FieldPoints,
				Detail: fmt.Sprintf("at least %d vertices, got %d", rule.minPoints, len(pts)),
			}
		}
		op.Fields[FieldPoints] = slices.Clone(pts)
	}
	return nil
}

func applyShapeDefaults(op *Operation, fields map[string]any, d Defaults) {
	positive := func(name string, fallback float64) {
		n, ok := floatValue(fields[name])
		if ok && n > 0 {
			op.Fields[name] = n
			return
		}
		if ok {
			op.Warnings = append(op.Warnings, fmt.Sprintf("invalid %s %g, using %g", name, n, fallback))
		}
		op.Fields[name] = fallback
		op.Defaulted = append(op.Defaulted, name)
	}

	switch op.Shape {
	case ShapeText:
		positive(FieldHeight, d.TextHeight)
		if n, ok := floatValue(fields[FieldRotation]); ok {
			op.Fields[FieldRotation] = n
		} else {
			op.Fields[FieldRotation] = 0.0
			op.Defaulted = append(op.Defaulted, FieldRotation)
		}
	case ShapeDimension:
		positive(FieldHeight, d.DimensionTextHeight)
	case ShapePolyline:
		if closed, ok := fields[FieldClosed].(bool); ok {
			op.Fields[FieldClosed] = closed
		} else {
			op.Fields[FieldClosed] = false
			op.Defaulted = append(op.Defaulted, FieldClosed)
		}
	case ShapeHatch:
		if pattern, _ := fields[FieldPattern].(string); strings.TrimSpace(pattern) != "" {
			op.Fields[FieldPattern] = strings.ToUpper(strings.TrimSpace(pattern))
		} else {
			op.Fields[FieldPattern] = d.HatchPattern
			op.Defaulted = append(op.Defaulted, FieldPattern)
		}
		positive(FieldScale, d.HatchScale)
	}
}

func (v *Validator) applyColor(op *Operation, name string, d Defaults) {
	name = strings.TrimSpace(name)
	if name != "" {
		if idx, ok := v.colors.Lookup(name); ok {
			op.Color = idx
			op.ColorName = strings.ToLower(name)
			return
		}
		if idx, err := strconv.Atoi(name); err == nil && idx >= 0 && idx <= 256 {
			op.Color = idx
			op.ColorName = v.colors.NameOf(idx)
			return
		}
		op.Warnings = append(op.Warnings, fmt.Sprintf("unknown color %q, using default %d", name, d.Color))
	}
	op.Color = d.Color
	op.ColorName = v.colors.NameOf(d.Color)
	op.Defaulted = append(op.Defaulted, FieldColor)
}

func (v *Validator) applyLayer(op *Operation, name string, d Defaults) {
	if name = strings.TrimSpace(name); name != "" {
		op.Layer = name
		return
	}
	op.Layer = d.Layer
	if op.Layer == "" {
		op.Layer = FallbackLayer
	}
	op.Defaulted = append(op.Defaulted, FieldLayer)
}

func (v *Validator) applyLineweight(op *Operation, lw *int) {
	if lw == nil {
		op.Lineweight = 0
		op.Defaulted = append(op.Defaulted, FieldLineweight)
		return
	}
	if !IsValidLineweight(*lw) {
		op.Warnings = append(op.Warnings, fmt.Sprintf("invalid lineweight %d, using 0", *lw))
		op.Lineweight = 0
		return
	}
	op.Lineweight = *lw
}
