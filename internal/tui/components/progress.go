package components

import (
	"fmt"
	"strings"

	"spendcast/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ProgressBar renders a 0..1 fraction as a bar with a trailing percentage.
func ProgressBar(pct float64, width int) string {
	t := theme.Active

	filled := int(pct * float64(width))
	switch {
	case filled < 0:
		filled = 0
	case filled > width:
		filled = width
	}

	barColor := t.Cyan
	if pct >= 0.8 {
		barColor = t.AccentBright
	} else if pct >= 0.5 {
		barColor = t.Accent
	}

	on := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface)
	off := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	return on.Render(strings.Repeat("█", filled)) +
		off.Render(strings.Repeat("░", width-filled)) +
		lipgloss.NewStyle().Background(t.Surface).Render(" ") +
		on.Bold(true).Render(fmt.Sprintf("%.0f%%", pct*100))
}

// ColorForScore returns green/yellow/orange/red for a 0-100 metric score.
// Higher scores are healthier, so the gradient runs the opposite way to a
// utilization bar.
func ColorForScore(score float64) string {
	t := theme.Active
	switch {
	case score >= 85:
		return string(t.Green)
	case score >= 70:
		return string(t.Yellow)
	case score >= 50:
		return string(t.Orange)
	default:
		return string(t.Red)
	}
}

// ScoreBar renders a labeled health-metric bar for a 0-100 score.
func ScoreBar(label string, score float64, labelW, barWidth int) string {
	t := theme.Active

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	pct := score / 100

	bar := progress.New(
		progress.WithSolidFill(ColorForScore(score)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	scoreStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorForScore(score))).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		spaceStyle.Render(" ") +
		bar.ViewAs(pct) +
		spaceStyle.Render(" ") +
		scoreStyle.Render(fmt.Sprintf("%3.0f", score))
}
