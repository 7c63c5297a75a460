package tui

import (
	"fmt"
	"strings"

	"spendcast/internal/health"
	"spendcast/internal/tui/components"
	"spendcast/internal/tui/theme"
)

func (a App) renderHealthTab(cw int) string {
	t := theme.Active
	s := a.data.Score
	var b strings.Builder

	cards := []components.Metric{
		{Label: "Overall score", Value: fmt.Sprintf("%.0f / 100", s.OverallScore), Delta: "grade " + s.Grade},
		{Label: "Trend", Value: s.ScoreTrend, Delta: fmt.Sprintf("3-month outlook %.0f", s.PredictedScore)},
		{Label: "Peers", Value: fmt.Sprintf("top %d%%", 100-s.PeerPercentile), Delta: fmt.Sprintf("better than %d%%", s.PeerPercentile)},
	}
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n")

	inner := components.CardInnerWidth(cw)
	labelW := 22
	barW := inner - labelW - 6
	if barW > 40 {
		barW = 40
	}
	if barW < 10 {
		barW = 10
	}

	var bars strings.Builder
	for _, m := range []health.Metric{
		s.EmergencyFund, s.DebtToIncome, s.SavingsRate,
		s.SpendingStability, s.BudgetAdherence, s.Diversification,
	} {
		bars.WriteString(components.ScoreBar(m.Name, m.Score, labelW, barW))
		bars.WriteString("\n")
	}
	b.WriteString(components.ContentCard("Metrics", strings.TrimRight(bars.String(), "\n"), cw))
	b.WriteString("\n")

	halves := components.LayoutRow(cw, 2)

	listCard := func(title string, items []string, w int) string {
		if len(items) == 0 {
			return components.ContentCard(title, mutedText("none"), w)
		}
		var body strings.Builder
		style := fgStyle(theme.Active.TextPrimary)
		for _, item := range items {
			body.WriteString(style.Render("• "+truncStr(item, components.CardInnerWidth(w)-2)) + "\n")
		}
		return components.ContentCard(title, strings.TrimRight(body.String(), "\n"), w)
	}

	left := listCard("Strengths", s.Strengths, halves[0])
	right := listCard("Priority actions", s.PriorityActions, halves[1])
	b.WriteString(components.CardRow([]string{left, right}))

	if len(s.RiskFactors) > 0 {
		b.WriteString("\n")
		var body strings.Builder
		riskStyle := fgStyle(t.Red)
		for _, r := range s.RiskFactors {
			body.WriteString(riskStyle.Render("• "+truncStr(r, inner-2)) + "\n")
		}
		b.WriteString(components.ContentCard("Risk factors", strings.TrimRight(body.String(), "\n"), cw))
	}

	return b.String()
}
