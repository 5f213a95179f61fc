package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ShrayBagga/StockAnalysis/internal/watchlist"
	"github.com/ShrayBagga/StockAnalysis/pkg/logger"
)

// defaultsCmd represents the defaults command
var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Print the default companies and index funds",
	Long: `Prints the default stock lists from DEFAULT_STOCKS_FILE, creating the
file with the built-in lists when it does not exist.

Example:
  go run ./cmd/stockanalysis defaults
  go run ./cmd/stockanalysis defaults --json`,
	Args: cobra.NoArgs,
	RunE: runDefaults,
}

var defaultsJSON bool

func init() {
	rootCmd.AddCommand(defaultsCmd)

	defaultsCmd.Flags().BoolVar(&defaultsJSON, "json", false, "print as JSON")
}

func runDefaults(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(true)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	stocks, err := watchlist.NewDefaultsStore(cfg.Storage.DefaultStocksFile, log).Load(ctx)
	if err != nil {
		return fmt.Errorf("load default stocks: %w", err)
	}

	out := cmd.OutOrStdout()
	if defaultsJSON {
		return writeJSON(out, stocks)
	}

	fmt.Fprintln(out, renderList("Companies", stocks.Companies))
	fmt.Fprintln(out)
	fmt.Fprintln(out, renderList("Index Funds", stocks.IndexFunds))
	return nil
}
