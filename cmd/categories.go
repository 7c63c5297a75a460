package cmd

import (
	"fmt"

	"spendcast/internal/cli"

	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Forecast spending per category",
	RunE:  runCategories,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(_ *cobra.Command, _ []string) error {
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

	svc := newService(st)
	aggregate, preds, err := svc.PredictCategories(ds, target)
	if err != nil {
		return err
	}

	cur := currency()
	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("Category forecast for %s  (total %s)",
		target.String(), cli.FormatMoney(cur, aggregate.PredictedAmount))))
	fmt.Println()
	fmt.Print(cli.RenderCategoryTable(cur, preds))
	return nil
}
