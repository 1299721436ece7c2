package views

import "github.com/charmbracelet/lipgloss"

var (
	ColorPrimary = lipgloss.Color("39")
	ColorError   = lipgloss.Color("196")
	ColorMuted   = lipgloss.Color("241")
	ColorSuccess = lipgloss.Color("42")

	UserMessageStyle   = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	ResultMessageStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	ErrorMessageStyle  = lipgloss.NewStyle().Foreground(ColorError)
	InfoMessageStyle   = lipgloss.NewStyle()

	InputStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), true, false).
			BorderForeground(ColorMuted)

	StatusDefaultStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	StatusBusyStyle    = lipgloss.NewStyle().Foreground(ColorPrimary)
	StatusReadyStyle   = lipgloss.NewStyle().Foreground(ColorSuccess)
	StatusErrorStyle   = lipgloss.NewStyle().Foreground(ColorError)

	PanelBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(1, 2)
)
