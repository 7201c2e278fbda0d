package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/renato0307/snip/internal/status"
)

const bullet = "⏺ "

// minMessageWidth keeps messages readable on very narrow terminals.
const minMessageWidth = 20

// RenderMessage renders a status message with styling based on its type.
// Every line is truncated to fit width. Buffer mirrors render as nothing.
func RenderMessage(msg status.Msg, theme *Theme, width int) string {
	if msg.Text == "" || msg.Type == status.MessageTypeBuffer {
		return ""
	}

	var color lipgloss.AdaptiveColor
	switch msg.Type {
	case status.MessageTypeSuccess:
		color = theme.Success
	case status.MessageTypeError:
		color = theme.Error
	default:
		color = theme.Primary
	}

	// Max length = terminal width - prefix (2) - margin (5)
	maxWidth := max(width-7, minMessageWidth)

	lines := strings.Split(strings.TrimRight(msg.Text, "\n"), "\n")
	for i, line := range lines {
		lines[i] = Truncate(line, maxWidth)
	}

	style := lipgloss.NewStyle().Foreground(color)
	indent := strings.Repeat(" ", lipgloss.Width(bullet))
	return style.Render(bullet + strings.Join(lines, "\n"+indent))
}

// Truncate shortens s to at most width cells, ending in an ellipsis when
// cut.
func Truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
