package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/piexl/CAD-MCP/internal/ui/models"
)

// RenderStatusPanel renders the /status overlay.
func RenderStatusPanel(s models.State) string {
	if s.Panel == nil || len(s.Panel.Lines) == 0 {
		return ""
	}

	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Render("Session"))
	lines = append(lines, "")
	lines = append(lines, s.Panel.Lines...)
	lines = append(lines, "")
	lines = append(lines, lipgloss.NewStyle().Faint(true).Render("Esc: Close"))

	return PanelBoxStyle.Render(strings.Join(lines, "\n"))
}
