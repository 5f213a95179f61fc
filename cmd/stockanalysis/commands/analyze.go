package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ShrayBagga/StockAnalysis/internal/contracts"
	"github.com/ShrayBagga/StockAnalysis/internal/market"
	"github.com/ShrayBagga/StockAnalysis/pkg/logger"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [TICKER...]",
	Short: "Fetch and score tickers",
	Long: `Fetches market data for each ticker and prints the analysis report.

With --watchlist, the watchlist tickers are analysed after any given on
the command line.

Example:
  go run ./cmd/stockanalysis analyze AAPL
  go run ./cmd/stockanalysis analyze AAPL MSFT --json
  go run ./cmd/stockanalysis analyze --watchlist`,
	RunE: runAnalyze,
}

var (
	analyzeJSON      bool
	analyzeWatchlist bool
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the raw stock data as JSON")
	analyzeCmd.Flags().BoolVar(&analyzeWatchlist, "watchlist", false, "also analyse every watchlist ticker")
}

// analysisResult is one entry of the --json output
type analysisResult struct {
	Ticker    string               `json:"ticker"`
	Success   bool                 `json:"success"`
	StockData *contracts.StockData `json:"stockData,omitempty"`
	Errors    []string             `json:"errors"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(true)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx, cfg, log, true)
	if err != nil {
		return err
	}
	defer a.Close()

	tickers := append([]string{}, args...)
	if analyzeWatchlist {
		list, err := a.watchlist.List(ctx)
		if err != nil {
			return fmt.Errorf("load watchlist: %w", err)
		}
		tickers = append(tickers, list...)
	}
	if len(tickers) == 0 {
		return fmt.Errorf("no tickers given: pass symbols or --watchlist")
	}

	results := analyzeAll(ctx, a.market, tickers)

	out := cmd.OutOrStdout()
	if analyzeJSON {
		return writeJSON(out, results)
	}

	failed := 0
	for _, r := range results {
		if r.Success {
			fmt.Fprintln(out, renderReport(r.StockData, r.Errors))
		} else {
			failed++
			fmt.Fprintln(out, renderFailure(r.Ticker, r.Errors))
		}
	}

	if failed == len(results) {
		return fmt.Errorf("no data for any of %d tickers", failed)
	}
	return nil
}

// analyzeAll looks up each distinct ticker in order
func analyzeAll(ctx context.Context, source contracts.StockDataSource, tickers []string) []analysisResult {
	seen := make(map[string]bool, len(tickers))
	results := make([]analysisResult, 0, len(tickers))

	for _, t := range tickers {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true

		data, warnings, err := source.StockData(ctx, t)
		if err != nil {
			results = append(results, analysisResult{Ticker: t, Errors: market.FailureDetails(t, err)})
			continue
		}

		results = append(results, analysisResult{Ticker: t, Success: true, StockData: data, Errors: warnings})
	}

	return results
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
