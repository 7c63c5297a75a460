package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"spendcast/internal/cli"
	"spendcast/internal/config"
	"spendcast/internal/market"

	"github.com/spf13/cobra"
)

var (
	flagCoins string
	flagBase  string
)

var marketCmd = &cobra.Command{
	Use:   "market",
	Short: "Show crypto prices and exchange rates",
	RunE:  runMarket,
}

func init() {
	marketCmd.Flags().StringVar(&flagCoins, "coins", "", "Comma-separated coin ids (defaults to popular coins)")
	marketCmd.Flags().StringVar(&flagBase, "base", "USD", "Base currency for exchange rates")
	rootCmd.AddCommand(marketCmd)
}

// newMarketClient builds a market client honoring config overrides for the
// CoinGecko base URL and API key.
func newMarketClient(cfg config.Config) *market.Client {
	return market.NewClient(
		market.WithBaseURLs(cfg.Market.BaseURL, ""),
		market.WithAPIKey(config.MarketAPIKey(cfg)),
	)
}

func runMarket(_ *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, _ := config.Load()
	client := newMarketClient(cfg)

	coins := market.PopularCoins
	if flagCoins != "" {
		coins = strings.Split(flagCoins, ",")
	}

	quotes, err := client.CoinQuotes(ctx, coins)
	if err != nil {
		return fmt.Errorf("fetching crypto prices: %w", err)
	}

	crypto := cli.Table{
		Title:   "Crypto",
		Headers: []string{"Coin", "Price (USD)", "24h"},
	}
	for _, q := range quotes {
		crypto.Rows = append(crypto.Rows, []string{
			q.Name,
			cli.FormatMoney("USD", q.Price),
			fmt.Sprintf("%+.1f%%", q.Change24h),
		})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(crypto))

	rates, err := client.CurrencyRates(ctx, flagBase)
	if err != nil {
		return fmt.Errorf("fetching exchange rates: %w", err)
	}

	fx := cli.Table{
		Title:   fmt.Sprintf("Exchange rates (per 1 %s)", strings.ToUpper(flagBase)),
		Headers: []string{"Currency", "Rate"},
	}
	for _, r := range rates {
		fx.Rows = append(fx.Rows, []string{r.To, fmt.Sprintf("%.4f", r.Rate)})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(fx))
	return nil
}
