package commands

import (
	"github.com/spf13/cobra"

	"github.com/ShrayBagga/StockAnalysis/pkg/config"
)

var (
	// Global flags
	env       string
	logFormat string
	verbose   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stockanalysis",
	Short: "StockAnalysis - equity scoring from Yahoo Finance data",
	Long: `StockAnalysis Unified CLI

Fetches per-ticker market data from Yahoo Finance, scores it on analyst
rating, analyst upside, fundamentals and price action, and serves the
result together with a watchlist.

Usage:
  go run ./cmd/stockanalysis [command]

Examples:
  go run ./cmd/stockanalysis serve
  go run ./cmd/stockanalysis analyze AAPL MSFT
  go run ./cmd/stockanalysis watchlist add NVDA
  go run ./cmd/stockanalysis defaults`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "environment (development|staging|production), overrides ENV")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (json|console), overrides LOG_FORMAT")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
}

// loadConfig reads the environment and applies global flag overrides.
// quiet drops logging to warnings unless --verbose is set, so command
// output is not interleaved with info lines.
func loadConfig(quiet bool) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if env != "" {
		cfg.Env = env
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}

	switch {
	case verbose:
		cfg.LogLevel = "debug"
	case quiet:
		cfg.LogLevel = "warn"
	}

	return cfg, nil
}
