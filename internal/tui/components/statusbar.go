package components

import (
	"strings"

	"spendcast/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar: key hints on the left,
// context info (target month, timings) on the right.
func RenderStatusBar(width int, dataInfo string) string {
	left := " [?]help  [q]uit"
	right := ""
	if dataInfo != "" {
		right = dataInfo + " "
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	return lipgloss.NewStyle().
		Foreground(theme.Active.TextMuted).
		Width(width).
		Render(left + strings.Repeat(" ", gap) + right)
}
