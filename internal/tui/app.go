// Package tui provides the interactive Bubble Tea dashboard for spendcast.
package tui

import (
	"strings"
	"time"

	"spendcast/internal/analyze"
	"spendcast/internal/engine"
	"spendcast/internal/health"
	"spendcast/internal/model"
	"spendcast/internal/tui/components"
	"spendcast/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ComputedMsg is sent when training and analysis finish.
type ComputedMsg struct {
	Report     model.TrainingReport
	Prediction model.PredictionResult
	Categories []model.CategoryPrediction
	Patterns   model.Patterns
	Score      health.Score
	Monthly    []analyze.MonthTotal
	Elapsed    time.Duration
}

// App is the root Bubble Tea model.
type App struct {
	ds       model.Dataset
	currency string
	target   model.Month

	loaded bool
	data   ComputedMsg

	width     int
	height    int
	activeTab int
	showHelp  bool

	spinner spinner.Model
}

const (
	minTerminalWidth = 70
	maxContentWidth  = 160
	minContentHeight = 5
)

// NewApp creates the dashboard model for a dataset.
func NewApp(ds model.Dataset, currency string, target model.Month) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	return App{
		ds:       ds,
		currency: currency,
		target:   target,
		spinner:  sp,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, computeCmd(a.ds, a.target))
}

// computeCmd runs the full pipeline in the background: training, forecasts,
// pattern analysis, and the health score.
func computeCmd(ds model.Dataset, target model.Month) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()

		bank, report := engine.Train(ds)
		prediction := engine.Forecast(bank, ds, target)
		categories := engine.ForecastCategories(bank, ds, target, prediction)

		return ComputedMsg{
			Report:     report,
			Prediction: prediction,
			Categories: categories,
			Patterns:   analyze.Patterns(ds),
			Score:      health.Calculate(ds, nil, nil),
			Monthly:    analyze.MonthlyExpenseTotals(ds),
			Elapsed:    time.Since(start),
		}
	}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return a, tea.Quit
		case "?":
			a.showHelp = true
		case "left":
			a.activeTab = (a.activeTab + len(components.Tabs) - 1) % len(components.Tabs)
		case "right", "tab":
			a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		default:
			if len(msg.String()) == 1 {
				if idx := components.TabIdxByKey(rune(msg.String()[0])); idx >= 0 {
					a.activeTab = idx
				}
			}
		}
		return a, nil

	case ComputedMsg:
		a.data = msg
		a.loaded = true
		return a, nil

	case spinner.TickMsg:
		if a.loaded {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	return a, nil
}

func (a App) contentWidth() int {
	if a.width > maxContentWidth {
		return maxContentWidth
	}
	return a.width
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	msg := lipgloss.NewStyle().
		Foreground(theme.Active.TextMuted).
		Render("\n  Terminal too narrow: spendcast needs at least 70 columns.\n")
	return padHeight(msg, a.height)
}

func (a App) viewLoading() string {
	t := theme.Active

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 4)

	title := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true).Render("spendcast")
	line := a.spinner.View() + lipgloss.NewStyle().Foreground(t.TextMuted).
		Render(" training models...")

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
		card.Render(title+"\n\n"+line))
}

func (a App) viewHelp() string {
	t := theme.Active
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	rows := [][2]string{
		{"o / c / p / h", "jump to tab"},
		{"← / → / tab", "cycle tabs"},
		{"?", "toggle this help"},
		{"q / esc", "quit"},
	}

	var b strings.Builder
	b.WriteString("\n  Keys\n\n")
	for _, r := range rows {
		b.WriteString("  " + keyStyle.Render(padRight(r[0], 16)) + descStyle.Render(r[1]) + "\n")
	}
	b.WriteString("\n" + descStyle.Render("  press any key to close"))
	return padHeight(b.String(), a.height)
}

func (a App) viewMain() string {
	w := a.width
	cw := a.contentWidth()

	header := components.RenderTabBar(a.activeTab) + "\n"

	info := a.target.String()
	if a.data.Elapsed > 0 {
		info += "  " + a.data.Elapsed.Round(time.Millisecond).String()
	}
	statusBar := components.RenderStatusBar(w, info)

	contentH := a.height - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	switch a.activeTab {
	case 0:
		content = a.renderOverviewTab(cw)
	case 1:
		content = a.renderCategoriesTab(cw)
	case 2:
		content = a.renderPatternsTab(cw)
	case 3:
		content = a.renderHealthTab(cw)
	}
	content = padHeight(truncateHeight(content, contentH), contentH)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

// ─── Helpers ────────────────────────────────────────────────────

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Count(s, "\n") + 1
	if lines >= h {
		return s
	}
	return s + strings.Repeat("\n", h-lines)
}

func padRight(s string, w int) string {
	if len(s) >= w {
		return s
	}
	return s + strings.Repeat(" ", w-len(s))
}

func fgStyle(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func mutedText(s string) string {
	return fgStyle(theme.Active.TextMuted).Render(s)
}

func truncStr(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	if limit <= 3 {
		return s[:limit]
	}
	return s[:limit-3] + "..."
}
