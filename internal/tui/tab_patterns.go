package tui

import (
	"fmt"
	"sort"
	"strings"

	"spendcast/internal/cli"
	"spendcast/internal/tui/components"
	"spendcast/internal/tui/theme"
)

func (a App) renderPatternsTab(cw int) string {
	t := theme.Active
	p := a.data.Patterns
	var b strings.Builder

	cards := []components.Metric{
		{Label: "Monthly average", Value: cli.FormatMoney(a.currency, p.Overall.MonthlyAverage), Delta: ""},
		{Label: "Std deviation", Value: cli.FormatMoney(a.currency, p.Overall.MonthlyStd), Delta: ""},
		{Label: "Trend", Value: cli.FormatTrend(p.Overall.Direction), Delta: fmt.Sprintf("slope %+.0f/mo", p.Overall.Slope)},
	}
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n")

	halves := components.LayoutRow(cw, 2)

	// Seasonal: average transaction size per calendar month.
	seasonal := make([]float64, 12)
	seasonalLabels := make([]string, 12)
	for i := range seasonal {
		seasonalLabels[i] = cli.FormatMonthName(i + 1)[:1]
	}
	for m, v := range p.Seasonal {
		seasonal[int(m)-1] = v
	}
	seasonalCard := components.ContentCard("Seasonal (avg txn by month)",
		components.BarChart(seasonal, seasonalLabels, t.Yellow, components.CardInnerWidth(halves[0]), 8),
		halves[0])

	// Weekly: average transaction size per weekday.
	weekly := make([]float64, 7)
	weeklyLabels := make([]string, 7)
	for i := range weekly {
		weeklyLabels[i] = cli.FormatDayOfWeek(i)[:1]
	}
	for d, v := range p.Weekly {
		weekly[int(d)] = v
	}
	weeklyCard := components.ContentCard("Weekly (avg txn by weekday)",
		components.BarChart(weekly, weeklyLabels, t.Magenta, components.CardInnerWidth(halves[1]), 8),
		halves[1])

	b.WriteString(components.CardRow([]string{seasonalCard, weeklyCard}))
	b.WriteString("\n")

	// Category patterns sorted by monthly average.
	if len(p.Categories) > 0 {
		names := make([]string, 0, len(p.Categories))
		for name := range p.Categories {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool {
			return p.Categories[names[i]].MonthlyAverage > p.Categories[names[j]].MonthlyAverage
		})

		nameStyle := fgStyle(t.TextPrimary)
		valStyle := fgStyle(t.Blue)
		dimStyle := fgStyle(t.TextMuted)

		var rows strings.Builder
		for _, name := range names {
			cp := p.Categories[name]
			rows.WriteString(fmt.Sprintf("%s %s %s %s\n",
				nameStyle.Render(padRight(truncStr(name, 20), 20)),
				valStyle.Render(fmt.Sprintf("%12s/mo", cli.FormatMoney(a.currency, cp.MonthlyAverage))),
				dimStyle.Render(fmt.Sprintf("±%-10s", cli.FormatMoney(a.currency, cp.MonthlyStd))),
				dimStyle.Render(fmt.Sprintf("%5.1f%%  %d txns", cp.PercentOfTotal, cp.Transactions)),
			))
		}
		b.WriteString(components.ContentCard("Per category", strings.TrimRight(rows.String(), "\n"), cw))
	}

	return b.String()
}
