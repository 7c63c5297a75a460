package cmd

import (
	"fmt"

	"spendcast/internal/ingest"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a transactions file into the local database",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(_ *cobra.Command, args []string) error {
	st := openStore()
	if st == nil {
		return fmt.Errorf("cannot import without a database, check --db")
	}
	defer st.Close()

	result, err := ingest.ReadFile(args[0])
	if err != nil {
		return err
	}
	ds, err := ingest.Canonicalize(result.Records)
	if err != nil {
		return fmt.Errorf("no usable transactions in %s", args[0])
	}

	if err := st.SaveTransactions(ds.Transactions); err != nil {
		return fmt.Errorf("saving transactions: %w", err)
	}

	total, err := st.CountTransactions()
	if err != nil {
		return err
	}
	fmt.Printf("  Imported %d transactions", ds.Len())
	if result.Skipped > 0 {
		fmt.Printf(" (%d malformed rows skipped)", result.Skipped)
	}
	fmt.Printf(", ledger now holds %d\n", total)
	return nil
}
