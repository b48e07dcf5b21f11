package components

import (
	"github.com/theirongolddev/blockstime/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// StatusInfo is what the bottom bar reports.
type StatusInfo struct {
	Mode    string // e.g. "move", "rename"; empty in normal mode
	Message string // last action or error
	IsError bool
	Budget  string // e.g. "160h / 168h"
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, info StatusInfo) string {
	t := theme.Active

	base := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	modeStyle := lipgloss.NewStyle().
		Foreground(t.Background).
		Background(t.Yellow).
		Bold(true)

	msgStyle := base
	if info.IsError {
		msgStyle = msgStyle.Foreground(t.Red)
	}

	left := base.Render(" [?]help  [q]uit ")
	if info.Mode != "" {
		left = modeStyle.Render(" "+info.Mode+" ") + left
	}
	if info.Message != "" {
		left += msgStyle.Render(" " + info.Message)
	}

	right := ""
	if info.Budget != "" {
		right = base.Render(info.Budget + " ")
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	return left + base.Width(padding).Render("") + right
}
