package views

import (
	"strings"

	"github.com/piexl/CAD-MCP/internal/ui/models"
	"github.com/piexl/CAD-MCP/internal/ui/services"
)

// RenderChat renders the transcript.
func RenderChat(s models.State) string {
	if len(s.Messages) == 0 {
		return "No commands yet. Type a drawing command, or /help."
	}
	return s.Viewport.View()
}

// FormatChatContent formats the messages for the viewport.
func FormatChatContent(messages []models.Message, width int, renderer services.MarkdownRenderer) string {
	var lines []string
	for _, msg := range messages {
		switch msg.Role {
		case models.RoleUser:
			lines = append(lines, UserMessageStyle.Render("> "+msg.Content))
		case models.RoleResult:
			lines = append(lines, ResultMessageStyle.Render(msg.Content))
		case models.RoleError:
			lines = append(lines, ErrorMessageStyle.Render(msg.Content))
		default:
			rendered, err := services.RenderMarkdown(msg.Content, width, renderer)
			if err != nil {
				rendered = msg.Content
			}
			lines = append(lines, InfoMessageStyle.Render(strings.TrimRight(rendered, "\n")))
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
