package cmd

import (
	"fmt"
	"os"
	"time"

	"spendcast/internal/config"
	"spendcast/internal/ingest"
	"spendcast/internal/model"
	"spendcast/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagDataFile string
	flagDBPath   string
	flagMonths   int
	flagMonth    string
	flagSeed     int64
	flagQuiet    bool
)

var rootCmd = &cobra.Command{
	Use:   "spendcast",
	Short: "Expense forecasting CLI",
	Long:  "Forecast monthly spending from transaction history: ML predictions, category breakdowns, pattern analysis, and financial health scoring.",
	RunE:  runPredict,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cfg, _ := config.Load()

	rootCmd.PersistentFlags().StringVarP(&flagDataFile, "data", "d", cfg.General.DataFile, "Transactions file (JSON or CSV)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", config.DefaultDBPath(), "SQLite database path")
	rootCmd.PersistentFlags().IntVarP(&flagMonths, "months", "n", cfg.General.DefaultMonths, "Months of synthetic history when no data is available")
	rootCmd.PersistentFlags().StringVarP(&flagMonth, "month", "m", "", "Target month (YYYY-MM, defaults to next month)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", time.Now().UnixNano(), "Seed for synthetic data generation")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// openStore opens the transaction database. Failures degrade to running
// without persistence.
func openStore() *store.Store {
	st, err := store.Open(flagDBPath)
	if err != nil {
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "  Database unavailable (%v), running without persistence\n", err)
		}
		return nil
	}
	return st
}

// loadDataset is the shared data loading path used by all commands:
// an explicit file wins, then the stored ledger, then synthetic data.
func loadDataset(st *store.Store) (model.Dataset, error) {
	if flagDataFile != "" {
		result, err := ingest.ReadFile(flagDataFile)
		if err != nil {
			return model.Dataset{}, err
		}
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "  Loaded %d transactions from %s", len(result.Records), flagDataFile)
			if result.Skipped > 0 {
				fmt.Fprintf(os.Stderr, " (%d malformed rows skipped)", result.Skipped)
			}
			fmt.Fprintln(os.Stderr)
		}
		return ingest.Canonicalize(result.Records)
	}

	if st != nil {
		txns, err := st.LoadTransactions()
		if err == nil && len(txns) > 0 {
			if !flagQuiet {
				fmt.Fprintf(os.Stderr, "  Loaded %d transactions from %s\n", len(txns), flagDBPath)
			}
			return model.Dataset{Transactions: txns}, nil
		}
	}

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  No transaction data found, generating %d synthetic months\n", flagMonths)
	}
	return ingest.NewSyntheticGenerator(flagSeed).Generate(flagMonths), nil
}

// targetMonth resolves the --month flag, defaulting to next month.
func targetMonth() (model.Month, error) {
	if flagMonth == "" {
		return model.MonthOf(time.Now()).Next(), nil
	}
	parsed, err := time.Parse("2006-01", flagMonth)
	if err != nil {
		return model.Month{}, fmt.Errorf("invalid --month %q, use YYYY-MM", flagMonth)
	}
	return model.MonthOf(parsed), nil
}

func currency() string {
	cfg, _ := config.Load()
	return cfg.General.Currency
}
