package components

import (
	"strings"
	"testing"

	"spendcast/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRowSumsToTotal(t *testing.T) {
	for _, tc := range []struct{ total, n int }{
		{100, 3}, {97, 4}, {80, 1}, {7, 7},
	} {
		widths := LayoutRow(tc.total, tc.n)
		if len(widths) != tc.n {
			t.Fatalf("LayoutRow(%d, %d) returned %d widths", tc.total, tc.n, len(widths))
		}
		sum := 0
		for _, w := range widths {
			sum += w
		}
		if sum != tc.total {
			t.Errorf("LayoutRow(%d, %d) sums to %d", tc.total, tc.n, sum)
		}
	}
}

func TestCardRowHeightMatchesTallest(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := len(strings.Split(shortCard, "\n"))
	tallLines := len(strings.Split(tallCard, "\n"))
	if shortLines >= tallLines {
		t.Fatal("test setup error: short card should be shorter than tall card")
	}

	joined := CardRow([]string{tallCard, shortCard})
	if got := len(strings.Split(joined, "\n")); got != tallLines {
		t.Errorf("joined height = %d, want %d (tallest card)", got, tallLines)
	}
}

func TestTabIdxByKey(t *testing.T) {
	if idx := TabIdxByKey('c'); idx != 1 {
		t.Errorf("TabIdxByKey('c') = %d, want 1", idx)
	}
	if idx := TabIdxByKey('z'); idx != -1 {
		t.Errorf("TabIdxByKey('z') = %d, want -1", idx)
	}
}

func TestBarChartFallsBackToSparkline(t *testing.T) {
	theme.SetActive("flexoki-dark")
	small := BarChart([]float64{1, 2, 3}, nil, theme.Active.Blue, 10, 2)
	if strings.Contains(small, "\n") {
		t.Error("small chart area should fall back to a single-line sparkline")
	}

	big := BarChart([]float64{1, 2, 3}, []string{"a", "b", "c"}, theme.Active.Blue, 30, 6)
	if got := len(strings.Split(big, "\n")); got != 6 {
		t.Errorf("bar chart height = %d lines, want 6", got)
	}
}

func TestScoreBarClampsRange(t *testing.T) {
	theme.SetActive("flexoki-dark")
	out := ScoreBar("Savings", 150, 10, 20)
	if !strings.Contains(out, "100") {
		t.Errorf("over-range score should clamp to 100, got %q", out)
	}
}
