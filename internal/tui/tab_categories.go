package tui

import (
	"fmt"
	"strings"

	"spendcast/internal/cli"
	"spendcast/internal/tui/components"
	"spendcast/internal/tui/theme"
)

func (a App) renderCategoriesTab(cw int) string {
	t := theme.Active
	preds := a.data.Categories

	if len(preds) == 0 {
		return mutedText("  no category forecasts for this dataset")
	}

	inner := components.CardInnerWidth(cw)
	barW := inner / 3
	if barW > 30 {
		barW = 30
	}
	nameW := inner - barW - 30
	if nameW < 12 {
		nameW = 12
	}

	maxAmount := preds[0].PredictedAmount
	if maxAmount <= 0 {
		maxAmount = 1
	}

	nameStyle := fgStyle(t.TextPrimary)
	amountStyle := fgStyle(t.Blue)
	pctStyle := fgStyle(t.TextMuted)
	barStyle := fgStyle(t.Accent)

	var b strings.Builder
	for _, p := range preds {
		filled := int(p.PredictedAmount / maxAmount * float64(barW))
		if filled < 0 {
			filled = 0
		}
		if filled > barW {
			filled = barW
		}
		bar := strings.Repeat("█", filled) + strings.Repeat(" ", barW-filled)

		b.WriteString(fmt.Sprintf("%s %s %s %s\n",
			nameStyle.Render(padRight(truncStr(p.Category, nameW), nameW)),
			amountStyle.Render(fmt.Sprintf("%12s", cli.FormatMoney(a.currency, p.PredictedAmount))),
			pctStyle.Render(fmt.Sprintf("%6.1f%%", p.PercentOfTotal)),
			barStyle.Render(bar),
		))
	}

	title := fmt.Sprintf("Category forecast %s  (total %s)",
		a.target.String(), cli.FormatMoney(a.currency, a.data.Prediction.PredictedAmount))
	return components.ContentCard(title, strings.TrimRight(b.String(), "\n"), cw)
}
