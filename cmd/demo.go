package cmd

import (
	"fmt"
	"time"

	"spendcast/internal/analyze"
	"spendcast/internal/cli"
	"spendcast/internal/engine"
	"spendcast/internal/ingest"
	"spendcast/internal/model"

	"github.com/spf13/cobra"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the full pipeline on a synthetic year of data",
	RunE:  runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func runDemo(_ *cobra.Command, _ []string) error {
	ds := ingest.NewSyntheticGenerator(flagSeed).Generate(flagMonths)
	target := model.MonthOf(time.Now()).Next()

	first, last := ds.DateRange()
	fmt.Println()
	fmt.Println(cli.RenderTitle("Demo forecast on synthetic data"))
	fmt.Println()
	fmt.Printf("  %d transactions across %d months (%s to %s)\n\n",
		ds.Len(), flagMonths, first.Format("2006-01-02"), last.Format("2006-01-02"))

	bank, report := engine.Train(ds)
	fmt.Print(cli.RenderTrainingReport(report))
	fmt.Println()

	cur := currency()
	aggregate := engine.Forecast(bank, ds, target)
	fmt.Println(cli.RenderPrediction(cur, target, aggregate))

	preds := engine.ForecastCategories(bank, ds, target, aggregate)
	fmt.Print(cli.RenderCategoryTable(cur, preds))
	fmt.Println()

	fmt.Print(cli.RenderPatterns(cur, analyze.Patterns(ds)))
	return nil
}
