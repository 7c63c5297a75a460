package tui

import (
	"fmt"
	"strings"

	"spendcast/internal/cli"
	"spendcast/internal/tui/components"
	"spendcast/internal/tui/theme"
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	pred := a.data.Prediction
	var b strings.Builder

	cards := []components.Metric{
		{Label: "Predicted " + a.target.String(), Value: cli.FormatMoney(a.currency, pred.PredictedAmount), Delta: cli.FormatTrend(pred.Trend)},
		{Label: "Historical avg", Value: cli.FormatMoney(a.currency, pred.HistoricalAverage), Delta: fmt.Sprintf("seasonal ×%.2f", pred.SeasonalFactor)},
		{Label: "Confidence", Value: cli.FormatConfidence(pred.Confidence), Delta: ""},
		{Label: "Range", Value: cli.FormatRange(a.currency, pred.Range), Delta: ""},
	}
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n")

	// Monthly spending chart over the full history.
	if len(a.data.Monthly) > 0 {
		vals := make([]float64, len(a.data.Monthly))
		labels := make([]string, len(a.data.Monthly))
		for i, mt := range a.data.Monthly {
			vals[i] = mt.Total
			labels[i] = cli.FormatMonthName(int(mt.Month.Month))
		}
		b.WriteString(components.ContentCard(
			fmt.Sprintf("Monthly spending (%d months)", len(vals)),
			components.BarChart(vals, labels, t.Blue, components.CardInnerWidth(cw), 10),
			cw,
		))
		b.WriteString("\n")
	}

	// Training summary card.
	report := a.data.Report
	var lines []string
	status := "trained"
	if !report.Success {
		status = "failed: " + report.Message
	}
	lines = append(lines,
		fmt.Sprintf("Status    %s", status),
		fmt.Sprintf("Strategy  %s", report.Tier),
	)
	if report.BestModel != "" {
		lines = append(lines, fmt.Sprintf("Best      %s (R² %.3f)", report.BestModel, report.ModelScores[report.BestModel].R2))
	}
	if report.TrainingSamples > 0 {
		lines = append(lines, fmt.Sprintf("Samples   %d", report.TrainingSamples))
	}
	barW := components.CardInnerWidth(cw) - 16
	if barW > 40 {
		barW = 40
	}
	if barW >= 10 {
		lines = append(lines, "Conf      "+components.ProgressBar(pred.Confidence, barW))
	}
	for _, warning := range report.Warnings {
		lines = append(lines, "⚠ "+truncStr(warning, components.CardInnerWidth(cw)-2))
	}
	b.WriteString(components.ContentCard("Model", strings.Join(lines, "\n"), cw))

	return b.String()
}
