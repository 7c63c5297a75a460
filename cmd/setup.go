package cmd

import (
	"fmt"
	"strconv"

	"spendcast/internal/config"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg, _ := config.Load()
	monthsStr := strconv.Itoa(cfg.General.DefaultMonths)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Currency").
				Options(huh.NewOptions("INR", "USD", "EUR", "GBP", "JPY")...).
				Value(&cfg.General.Currency),
			huh.NewInput().
				Title("Transactions file (optional)").
				Description("JSON or CSV file loaded by default; leave empty to use the database").
				Value(&cfg.General.DataFile),
			huh.NewInput().
				Title("Synthetic history months").
				Description("How much demo data to generate when no real data exists").
				Value(&monthsStr).
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil || n < 1 || n > 60 {
						return fmt.Errorf("enter a number between 1 and 60")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("API listen address").
				Value(&cfg.Server.Addr),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(
					huh.NewOption("Flexoki Dark", "flexoki-dark"),
					huh.NewOption("Catppuccin Mocha", "catppuccin-mocha"),
					huh.NewOption("Terminal (ANSI 16)", "terminal"),
				).
				Value(&cfg.Appearance.Theme),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	cfg.General.DefaultMonths, _ = strconv.Atoi(monthsStr)
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\n  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `spendcast setup` anytime to reconfigure.")
	return nil
}
