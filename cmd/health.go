package cmd

import (
	"fmt"

	"spendcast/internal/cli"
	"spendcast/internal/health"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Score overall financial health from transaction history",
	RunE:  runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(_ *cobra.Command, _ []string) error {
	st := openStore()
	if st != nil {
		defer st.Close()
	}

	ds, err := loadDataset(st)
	if err != nil {
		return err
	}

	score := health.Calculate(ds, nil, nil)
	fmt.Println()
	fmt.Print(cli.RenderHealthScore(score))
	return nil
}
