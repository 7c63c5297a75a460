package cmd

import (
	"fmt"
	"os"

	"spendcast/internal/cli"
	"spendcast/internal/engine"
	"spendcast/internal/store"

	"github.com/spf13/cobra"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Forecast next month's total spending",
	RunE:  runPredict,
}

func init() {
	rootCmd.AddCommand(predictCmd)
}

func runPredict(_ *cobra.Command, _ []string) error {
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
	pred, err := svc.Predict(ds, target)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderPrediction(currency(), target, pred))
	return nil
}

// newService builds the prediction service, restoring any persisted model.
func newService(st *store.Store) *engine.Service {
	var svc *engine.Service
	if st != nil {
		svc = engine.NewService(st)
	} else {
		svc = engine.NewService(nil)
	}
	if err := svc.Initialize(); err != nil && !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Saved model unusable (%v), retraining\n", err)
	}
	return svc
}
