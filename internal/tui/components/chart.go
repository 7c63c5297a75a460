package components

import (
	"strings"

	"spendcast/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	peak := values[0]
	for _, v := range values[1:] {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		peak = 1
	}

	style := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

	var buf strings.Builder
	buf.Grow(len(values) * 4)
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		if idx >= len(blocks) {
			idx = len(blocks) - 1
		}
		if idx < 0 {
			idx = 0
		}
		buf.WriteRune(blocks[idx])
	}

	return style.Render(buf.String())
}

// BarChart renders a vertical bar chart with axis labels along the bottom.
// Bars are spread evenly across width; falls back to a sparkline when the
// area is too small.
func BarChart(values []float64, labels []string, color lipgloss.Color, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	if width < 15 || height < 3 {
		return Sparkline(values, color)
	}

	t := theme.Active

	peak := values[0]
	for _, v := range values[1:] {
		if v > peak {
			peak = v
		}
	}
	if peak <= 0 {
		peak = 1
	}

	chartH := height - 1 // reserve one row for labels
	barW := width / len(values)
	if barW < 1 {
		barW = 1
	}

	barStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.Border).Background(t.Surface)

	// Each bar gets barW-1 filled columns and one gap column.
	fill := barW - 1
	if fill < 1 {
		fill = 1
	}

	var rows []string
	for row := chartH; row >= 1; row-- {
		threshold := float64(row) / float64(chartH)
		var line strings.Builder
		for _, v := range values {
			frac := v / peak
			ch := " "
			switch {
			case frac >= threshold:
				ch = "█"
			case frac >= threshold-0.5/float64(chartH):
				ch = "▄"
			}
			if ch == " " {
				line.WriteString(emptyStyle.Render(strings.Repeat(" ", fill)))
			} else {
				line.WriteString(barStyle.Render(strings.Repeat(ch, fill)))
			}
			if barW > 1 {
				line.WriteString(emptyStyle.Render(" "))
			}
		}
		rows = append(rows, line.String())
	}

	// Label row: place each label under its bar, truncated to the bar width.
	labelStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	var labelLine strings.Builder
	for i := range values {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		if len(label) > barW {
			label = label[:barW]
		}
		labelLine.WriteString(label)
		if pad := barW - len(label); pad > 0 {
			labelLine.WriteString(strings.Repeat(" ", pad))
		}
	}
	rows = append(rows, labelStyle.Render(labelLine.String()))

	return strings.Join(rows, "\n")
}
