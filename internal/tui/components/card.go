// Package components provides reusable TUI widgets for the spendcast dashboard.
package components

import (
	"spendcast/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Metric is one label/value/delta triple shown in a MetricCardRow.
type Metric struct {
	Label, Value, Delta string
}

// LayoutRow distributes totalWidth into n widths that sum to exactly totalWidth.
// First items absorb the remainder from integer division.
func LayoutRow(totalWidth, n int) []int {
	if n <= 0 {
		return nil
	}
	widths := make([]int, n)
	for i := range widths {
		widths[i] = totalWidth / n
		if i < totalWidth%n {
			widths[i]++
		}
	}
	return widths
}

// frame is the shared bordered box every card variant renders into.
// outerWidth includes the border columns.
func frame(outerWidth int) lipgloss.Style {
	inner := outerWidth - 2
	if inner < 10 {
		inner = 10
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Active.Border).
		Width(inner).
		Padding(0, 1)
}

// MetricCard renders a small card with a muted label, a bold value, and an
// optional dim delta line.
func MetricCard(label, value, delta string, outerWidth int) string {
	t := theme.Active
	body := lipgloss.NewStyle().Foreground(t.TextMuted).Render(label) +
		"\n" +
		lipgloss.NewStyle().Foreground(t.TextPrimary).Bold(true).Render(value)
	if delta != "" {
		body += "\n" + lipgloss.NewStyle().Foreground(t.TextDim).Render(delta)
	}
	return frame(outerWidth).Render(body)
}

// MetricCardRow renders metrics side by side, filling totalWidth exactly.
func MetricCardRow(cards []Metric, totalWidth int) string {
	if len(cards) == 0 {
		return ""
	}
	widths := LayoutRow(totalWidth, len(cards))
	rendered := make([]string, len(cards))
	for i, c := range cards {
		rendered[i] = MetricCard(c.Label, c.Value, c.Delta, widths[i])
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// ContentCard renders a bordered card with an optional bold title above body.
func ContentCard(title, body string, outerWidth int) string {
	content := body
	if title != "" {
		titleStyle := lipgloss.NewStyle().Foreground(theme.Active.TextMuted).Bold(true)
		content = titleStyle.Render(title) + "\n" + body
	}
	return frame(outerWidth).Render(content)
}

// CardRow joins pre-rendered card strings horizontally.
func CardRow(cards []string) string {
	if len(cards) == 0 {
		return ""
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

// CardInnerWidth returns the usable text width inside a card given its outer
// width (border plus padding subtracted).
func CardInnerWidth(outerWidth int) int {
	if w := outerWidth - 4; w >= 10 {
		return w
	}
	return 10
}
