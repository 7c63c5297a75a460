package cmd

import (
	"fmt"

	"spendcast/internal/config"
	"spendcast/internal/tui"
	"spendcast/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	cfg, _ := config.Load()
	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor so background styling always produces ANSI codes.
	lipgloss.SetColorProfile(termenv.TrueColor)

	st := openStore()
	if st != nil {
		defer st.Close()
	}
	ds, err := loadDataset(st)
	if err != nil {
		return err
	}
	target, err := targetMonth()
	if err != nil {
		return err
	}

	app := tui.NewApp(ds, cfg.General.Currency, target)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
