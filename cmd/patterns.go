package cmd

import (
	"fmt"

	"spendcast/internal/analyze"
	"spendcast/internal/cli"

	"github.com/spf13/cobra"
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Analyze spending patterns and seasonality",
	RunE:  runPatterns,
}

func init() {
	rootCmd.AddCommand(patternsCmd)
}

func runPatterns(_ *cobra.Command, _ []string) error {
	st := openStore()
	if st != nil {
		defer st.Close()
	}

	ds, err := loadDataset(st)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Print(cli.RenderPatterns(currency(), analyze.Patterns(ds)))
	return nil
}
