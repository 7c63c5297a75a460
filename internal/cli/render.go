package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"spendcast/internal/health"
	"spendcast/internal/model"
)

// Theme colors (Flexoki Dark)
var (
	ColorBg        = lipgloss.Color("#100F0F")
	ColorSurface   = lipgloss.Color("#1C1B1A")
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
	ColorBlue      = lipgloss.Color("#4385BE")
	ColorPurple    = lipgloss.Color("#8B7EC8")
	ColorYellow    = lipgloss.Color("#D0A215")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	goodStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	infoStyle = lipgloss.NewStyle().
			Foreground(ColorBlue)

	warnStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)

	badStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int // optional column widths, auto-calculated if nil
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	width := 55
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(width).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderTable renders a bordered table with headers and rows. All columns
// except the first are right-aligned.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	n := len(t.Headers)
	if n == 0 {
		n = len(t.Rows[0])
	}
	widths := tableWidths(t, n)

	rule := func(left, mid, right string) string {
		parts := make([]string, n)
		for i, w := range widths {
			parts[i] = strings.Repeat("─", w+2)
		}
		return dimStyle.Render(left+strings.Join(parts, mid)+right) + "\n"
	}

	line := func(row []string, style lipgloss.Style, leftAlignAll bool) string {
		sep := dimStyle.Render("│")
		out := sep
		for i, w := range widths {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if i == 0 || leftAlignAll {
				out += style.Render(fmt.Sprintf(" %-*s ", w, cell))
			} else {
				out += style.Render(fmt.Sprintf(" %*s ", w, cell))
			}
			out += sep
		}
		return out + "\n"
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  " + headerStyle.Render(t.Title) + "\n")
	}
	b.WriteString(rule("╭", "┬", "╮"))
	if len(t.Headers) > 0 {
		b.WriteString(line(t.Headers, headerStyle, true))
		b.WriteString(rule("├", "┼", "┤"))
	}
	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == "---" {
			b.WriteString(rule("├", "┼", "┤"))
			continue
		}
		b.WriteString(line(row, valueStyle, false))
	}
	b.WriteString(rule("╰", "┴", "╯"))
	return b.String()
}

// tableWidths returns per-column widths: explicit widths when set, otherwise
// the widest cell per column.
func tableWidths(t Table, n int) []int {
	widths := make([]int, n)
	if t.Widths != nil {
		copy(widths, t.Widths)
		return widths
	}
	fit := func(row []string) {
		for i, cell := range row {
			if i < n && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	fit(t.Headers)
	for _, row := range t.Rows {
		fit(row)
	}
	return widths
}

// RenderSparkline generates a unicode block sparkline from a series of values.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	if max == 0 {
		max = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int(v / max * float64(len(blocks)-1))
		if idx >= len(blocks) {
			idx = len(blocks) - 1
		}
		if idx < 0 {
			idx = 0
		}
		b.WriteRune(blocks[idx])
	}

	return b.String()
}

// RenderHorizontalBar renders a bar scaled to value/maxValue.
func RenderHorizontalBar(value, maxValue float64, maxWidth int) string {
	if maxValue <= 0 {
		return ""
	}
	barLen := int(value / maxValue * float64(maxWidth))
	if barLen < 0 {
		barLen = 0
	}
	return strings.Repeat("█", barLen)
}

func styleTrend(t model.Trend) string {
	s := FormatTrend(t)
	switch t {
	case model.TrendIncreasing:
		return warnStyle.Render(s)
	case model.TrendDecreasing:
		return goodStyle.Render(s)
	case model.TrendStable:
		return mutedStyle.Render(s)
	default:
		return dimStyle.Render(s)
	}
}

// RenderPrediction renders the aggregate forecast panel.
func RenderPrediction(currency string, target model.Month, p model.PredictionResult) string {
	var b strings.Builder

	b.WriteString(RenderTitle("Forecast for " + target.String()))
	b.WriteString("\n\n")

	rows := [][]string{
		{"Predicted spend", infoStyle.Render(FormatMoney(currency, p.PredictedAmount))},
		{"Historical average", FormatMoney(currency, p.HistoricalAverage)},
		{"Range", FormatRange(currency, p.Range)},
		{"Confidence", FormatConfidence(p.Confidence)},
		{"Trend", styleTrend(p.Trend)},
		{"Seasonal factor", fmt.Sprintf("%.2f", p.SeasonalFactor)},
	}
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("  %-20s %s\n", mutedStyle.Render(row[0]), row[1]))
	}
	return b.String()
}

// RenderCategoryTable renders per-category forecasts as a table with share
// bars.
func RenderCategoryTable(currency string, preds []model.CategoryPrediction) string {
	if len(preds) == 0 {
		return mutedStyle.Render("  no category forecasts\n")
	}

	maxAmount := preds[0].PredictedAmount
	t := Table{
		Title:   "Category breakdown",
		Headers: []string{"Category", "Predicted", "Share", "Trend", ""},
	}
	for _, p := range preds {
		t.Rows = append(t.Rows, []string{
			p.Category,
			FormatMoney(currency, p.PredictedAmount),
			fmt.Sprintf("%.1f%%", p.PercentOfTotal),
			string(p.Trend),
			RenderHorizontalBar(p.PredictedAmount, maxAmount, 12),
		})
	}
	return RenderTable(t)
}

// RenderPatterns renders spending pattern analysis.
func RenderPatterns(currency string, p model.Patterns) string {
	var b strings.Builder

	b.WriteString(RenderTitle("Spending Patterns"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  %-20s %s\n", mutedStyle.Render("Monthly average"), FormatMoney(currency, p.Overall.MonthlyAverage)))
	b.WriteString(fmt.Sprintf("  %-20s %s\n", mutedStyle.Render("Monthly std dev"), FormatMoney(currency, p.Overall.MonthlyStd)))
	b.WriteString(fmt.Sprintf("  %-20s %s\n", mutedStyle.Render("Trend"), styleTrend(p.Overall.Direction)))
	b.WriteString("\n")

	if len(p.Seasonal) > 0 {
		values := make([]float64, 12)
		for m, v := range p.Seasonal {
			values[int(m)-1] = v
		}
		b.WriteString("  " + headerStyle.Render("Seasonal") + "  " + RenderSparkline(values) + dimStyle.Render("  Jan–Dec") + "\n")
	}
	if len(p.Weekly) > 0 {
		values := make([]float64, 7)
		for d, v := range p.Weekly {
			values[int(d)] = v
		}
		b.WriteString("  " + headerStyle.Render("Weekly  ") + "  " + RenderSparkline(values) + dimStyle.Render("  Sun–Sat") + "\n")
	}
	b.WriteString("\n")

	if len(p.Categories) > 0 {
		names := make([]string, 0, len(p.Categories))
		for name := range p.Categories {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool {
			return p.Categories[names[i]].MonthlyAverage > p.Categories[names[j]].MonthlyAverage
		})

		t := Table{
			Title:   "Per category",
			Headers: []string{"Category", "Monthly avg", "Std dev", "Txns", "Share"},
		}
		for _, name := range names {
			cp := p.Categories[name]
			t.Rows = append(t.Rows, []string{
				name,
				FormatMoney(currency, cp.MonthlyAverage),
				FormatMoney(currency, cp.MonthlyStd),
				FormatNumber(int64(cp.Transactions)),
				fmt.Sprintf("%.1f%%", cp.PercentOfTotal),
			})
		}
		b.WriteString(RenderTable(t))
	}
	return b.String()
}

// RenderTrainingReport renders a training outcome summary.
func RenderTrainingReport(r model.TrainingReport) string {
	var b strings.Builder

	status := goodStyle.Render("trained")
	if !r.Success {
		status = badStyle.Render("failed")
	}
	b.WriteString(fmt.Sprintf("  %-18s %s\n", mutedStyle.Render("Status"), status))
	b.WriteString(fmt.Sprintf("  %-18s %s\n", mutedStyle.Render("Strategy"), string(r.Tier)))
	b.WriteString(fmt.Sprintf("  %-18s %s\n", mutedStyle.Render("Message"), r.Message))
	if r.TrainingSamples > 0 {
		b.WriteString(fmt.Sprintf("  %-18s %d\n", mutedStyle.Render("Samples"), r.TrainingSamples))
	}
	if r.CategoryModels > 0 {
		b.WriteString(fmt.Sprintf("  %-18s %d\n", mutedStyle.Render("Category models"), r.CategoryModels))
	}

	if len(r.ModelScores) > 0 {
		names := make([]string, 0, len(r.ModelScores))
		for name := range r.ModelScores {
			names = append(names, name)
		}
		sort.Strings(names)

		t := Table{Headers: []string{"Model", "MAE", "RMSE", "R²", ""}}
		for _, name := range names {
			s := r.ModelScores[name]
			marker := ""
			if name == r.BestModel {
				marker = "◀ best"
			}
			t.Rows = append(t.Rows, []string{
				name,
				fmt.Sprintf("%.1f", s.MAE),
				fmt.Sprintf("%.1f", s.RMSE),
				fmt.Sprintf("%.3f", s.R2),
				marker,
			})
		}
		b.WriteString("\n")
		b.WriteString(RenderTable(t))
	}

	for _, warning := range r.Warnings {
		b.WriteString(warnStyle.Render("  ⚠ "+warning) + "\n")
	}
	return b.String()
}

func styleMetricStatus(status string) string {
	switch status {
	case "excellent", "good":
		return goodStyle.Render(status)
	case "fair":
		return warnStyle.Render(status)
	default:
		return badStyle.Render(status)
	}
}

// RenderHealthScore renders the financial health assessment.
func RenderHealthScore(s health.Score) string {
	var b strings.Builder

	b.WriteString(RenderTitle(fmt.Sprintf("Financial Health: %.0f / 100  (%s)", s.OverallScore, s.Grade)))
	b.WriteString("\n\n")

	t := Table{Headers: []string{"Metric", "Score", "Status"}}
	for _, m := range []health.Metric{
		s.EmergencyFund, s.DebtToIncome, s.SavingsRate,
		s.SpendingStability, s.BudgetAdherence, s.Diversification,
	} {
		t.Rows = append(t.Rows, []string{
			m.Name,
			fmt.Sprintf("%.0f", m.Score),
			styleMetricStatus(m.Status),
		})
	}
	b.WriteString(RenderTable(t))
	b.WriteString("\n")

	section := func(title string, items []string, style lipgloss.Style) {
		if len(items) == 0 {
			return
		}
		b.WriteString("  " + headerStyle.Render(title) + "\n")
		for _, item := range items {
			b.WriteString(style.Render("   • "+item) + "\n")
		}
	}
	section("Strengths", s.Strengths, goodStyle)
	section("Weaknesses", s.Weaknesses, warnStyle)
	section("Priority actions", s.PriorityActions, valueStyle)
	section("Risk factors", s.RiskFactors, badStyle)

	b.WriteString(fmt.Sprintf("\n  %-22s %s\n", mutedStyle.Render("Trend"), s.ScoreTrend))
	b.WriteString(fmt.Sprintf("  %-22s %.0f\n", mutedStyle.Render("Predicted (3 months)"), s.PredictedScore))
	b.WriteString(fmt.Sprintf("  %-22s better than %d%% of peers\n", mutedStyle.Render("Peer percentile"), s.PeerPercentile))
	return b.String()
}
