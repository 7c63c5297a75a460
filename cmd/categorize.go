package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"spendcast/internal/categorize"
	"spendcast/internal/cli"
	"spendcast/internal/ingest"

	"github.com/spf13/cobra"
)

var flagCategorizeFile string

var categorizeCmd = &cobra.Command{
	Use:   "categorize [description] [amount]",
	Short: "Categorize a transaction description, or a whole file with --file",
	Args:  cobra.MaximumNArgs(2),
	RunE:  runCategorize,
}

func init() {
	categorizeCmd.Flags().StringVarP(&flagCategorizeFile, "file", "f", "", "Categorize every transaction in a JSON or CSV file")
	rootCmd.AddCommand(categorizeCmd)
}

func runCategorize(_ *cobra.Command, args []string) error {
	if flagCategorizeFile != "" {
		return categorizeFile(flagCategorizeFile)
	}
	if len(args) == 0 {
		return fmt.Errorf("provide a description to categorize, or --file")
	}

	description := args[0]
	amount := -1.0
	if len(args) == 2 {
		parsed, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid amount %q", args[1])
		}
		amount = parsed
	}

	p := categorize.Predict(description, amount)
	fmt.Printf("\n  %-12s %s\n", "Category", p.Category)
	fmt.Printf("  %-12s %s\n", "Confidence", cli.FormatPercent(p.Confidence))
	return nil
}

func categorizeFile(path string) error {
	result, err := ingest.ReadFile(path)
	if err != nil {
		return err
	}

	results := categorize.PredictBatch(result.Records)

	t := cli.Table{
		Title:   fmt.Sprintf("Categorized %d transactions", len(results)),
		Headers: []string{"Description", "Category", "Confidence"},
	}
	for _, r := range results {
		desc := r.Record.Description
		if len(desc) > 40 {
			desc = desc[:37] + "..."
		}
		t.Rows = append(t.Rows, []string{desc, r.Category, cli.FormatPercent(r.Confidence)})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(t))

	counts := make(map[string]int)
	for _, r := range results {
		counts[r.Category]++
	}
	var parts []string
	for _, cat := range categorize.Categories {
		if counts[cat] > 0 {
			parts = append(parts, fmt.Sprintf("%s ×%d", cat, counts[cat]))
		}
	}
	if len(parts) > 0 {
		fmt.Printf("\n  %s\n", strings.Join(parts, ", "))
	}
	return nil
}
