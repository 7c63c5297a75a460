package cmd

import (
	"fmt"

	"spendcast/internal/cli"

	"github.com/spf13/cobra"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train prediction models and persist them",
	RunE:  runTrain,
}

func init() {
	rootCmd.AddCommand(trainCmd)
}

func runTrain(_ *cobra.Command, _ []string) error {
	st := openStore()
	if st != nil {
		defer st.Close()
	}

	ds, err := loadDataset(st)
	if err != nil {
		return err
	}

	svc := newService(st)
	report, err := svc.Train(ds)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("Model Training"))
	fmt.Println()
	fmt.Print(cli.RenderTrainingReport(report))
	return nil
}
