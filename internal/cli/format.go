// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"spendcast/internal/model"
)

// CurrencySymbols maps ISO currency codes to display symbols.
var CurrencySymbols = map[string]string{
	"INR": "₹",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
}

// Symbol returns the display symbol for a currency code, falling back to the
// code itself.
func Symbol(currency string) string {
	if sym, ok := CurrencySymbols[strings.ToUpper(currency)]; ok {
		return sym
	}
	return currency + " "
}

// FormatMoney formats an amount with a currency symbol.
// e.g., 45230.5 -> "₹45,231", 230.5 -> "₹230.50"
func FormatMoney(currency string, amount float64) string {
	sym := Symbol(currency)
	abs := math.Abs(amount)
	if abs >= 1000 {
		return sym + FormatNumber(int64(math.Round(amount)))
	}
	if abs >= 100 {
		return fmt.Sprintf("%s%.0f", sym, amount)
	}
	return fmt.Sprintf("%s%.2f", sym, amount)
}

// FormatRange formats a prediction range as "min – max".
func FormatRange(currency string, r model.PredictionRange) string {
	return FormatMoney(currency, r.Min) + " – " + FormatMoney(currency, r.Max)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatTrend renders a trend with a direction arrow.
func FormatTrend(t model.Trend) string {
	switch t {
	case model.TrendIncreasing:
		return "↑ increasing"
	case model.TrendDecreasing:
		return "↓ decreasing"
	case model.TrendStable:
		return "→ stable"
	default:
		return "? unknown"
	}
}

// FormatConfidence labels a confidence value.
// e.g., 0.85 -> "85% (high)"
func FormatConfidence(c float64) string {
	label := "low"
	switch {
	case c >= 0.7:
		label = "high"
	case c >= 0.4:
		label = "medium"
	}
	return fmt.Sprintf("%.0f%% (%s)", c*100, label)
}

// FormatDayOfWeek returns a 3-letter day abbreviation from a weekday number.
func FormatDayOfWeek(weekday int) string {
	days := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	if weekday >= 0 && weekday < 7 {
		return days[weekday]
	}
	return "???"
}

// FormatMonthName returns a 3-letter month abbreviation from a 1-based month
// number.
func FormatMonthName(month int) string {
	months := []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	if month >= 1 && month <= 12 {
		return months[month-1]
	}
	return "???"
}
