package views

import (
	"fmt"
	"strings"

	"github.com/piexl/CAD-MCP/internal/ui/models"
)

// RenderStatus renders the status bar: session state on the left, backend and layer on the right.
func RenderStatus(s models.State) string {
	var left string
	switch {
	case s.Busy:
		dots := strings.Repeat(".", s.DotCount)
		left = StatusBusyStyle.Render(fmt.Sprintf("%s Running%s", s.Spinner.View(), dots))
	case s.SessionState == "READY":
		left = StatusReadyStyle.Render("● READY")
	case s.SessionState == "ERROR":
		left = StatusErrorStyle.Render("✖ ERROR (/connect to retry)")
	case s.SessionState == "":
		left = StatusDefaultStyle.Render("DISCONNECTED")
	default:
		left = StatusDefaultStyle.Render(s.SessionState)
	}

	var right []string
	if s.Backend != "" {
		right = append(right, s.Backend)
	}
	if s.ActiveLayer != "" {
		right = append(right, "layer "+s.ActiveLayer)
	}
	if len(right) == 0 {
		return left
	}
	return fmt.Sprintf("%s  %s", left, StatusDefaultStyle.Render(strings.Join(right, " · ")))
}
