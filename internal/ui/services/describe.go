package services

import (
	"fmt"
	"slices"
	"strings"

	"github.com/piexl/CAD-MCP/internal/drawing"
)

// DescribeOperation renders a resolved operation as markdown for /explain.
func DescribeOperation(op *drawing.Operation) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s**\n\n", op.Label())
	sb.WriteString("| field | value |\n|---|---|\n")

	names := make([]string, 0, len(op.Fields))
	for name := range op.Fields {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Fprintf(&sb, "| %s | %s |\n", name, markDefault(op, name, formatValue(op.Fields[name])))
	}

	if op.Action != drawing.ActionSave {
		color := fmt.Sprintf("%d", op.Color)
		if op.ColorName != "" {
			color = fmt.Sprintf("%s (%d)", op.ColorName, op.Color)
		}
		fmt.Fprintf(&sb, "| color | %s |\n", markDefault(op, drawing.FieldColor, color))
		fmt.Fprintf(&sb, "| layer | %s |\n", markDefault(op, drawing.FieldLayer, op.Layer))
		fmt.Fprintf(&sb, "| lineweight | %s |\n", markDefault(op, drawing.FieldLineweight, fmt.Sprintf("%d", op.Lineweight)))
	}

	for _, w := range op.Warnings {
		fmt.Fprintf(&sb, "\n> warning: %s\n", w)
	}
	return sb.String()
}

func markDefault(op *drawing.Operation, name, value string) string {
	if op.IsDefaulted(name) {
		return value + " _(default)_"
	}
	return value
}

func formatValue(v any) string {
	switch x := v.(type) {
	case float64:
		return fmt.Sprintf("%g", x)
	case []drawing.Point:
		parts := make([]string, len(x))
		for i, p := range x {
			parts[i] = p.String()
		}
		return strings.Join(parts, " ")
	default:
		return fmt.Sprintf("%v", x)
	}
}
