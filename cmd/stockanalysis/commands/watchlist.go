package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ShrayBagga/StockAnalysis/internal/watchlist"
	"github.com/ShrayBagga/StockAnalysis/pkg/logger"
)

// watchlistCmd represents the watchlist command
var watchlistCmd = &cobra.Command{
	Use:   "watchlist",
	Short: "Manage the watchlist",
	Long: `Lists, adds and removes watchlist tickers in the configured store
(STORAGE_BACKEND=file|postgres).

Example:
  go run ./cmd/stockanalysis watchlist list
  go run ./cmd/stockanalysis watchlist add NVDA
  go run ./cmd/stockanalysis watchlist remove NVDA`,
}

var watchlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the watchlist",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, store watchlist.Store) error {
			tickers, err := store.List(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderList("Watchlist", tickers))
			return nil
		})
	},
}

var watchlistAddCmd = &cobra.Command{
	Use:   "add TICKER...",
	Short: "Add tickers to the watchlist",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, store watchlist.Store) error {
			return forEachTicker(cmd, args, func(ticker string) (string, error) {
				err := store.Add(ctx, ticker)
				if errors.Is(err, watchlist.ErrAlreadyExists) {
					return fmt.Sprintf("%s is already in the watchlist.", ticker), nil
				}
				return fmt.Sprintf("%s added to watchlist successfully.", ticker), err
			})
		})
	},
}

var watchlistRemoveCmd = &cobra.Command{
	Use:   "remove TICKER...",
	Short: "Remove tickers from the watchlist",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, store watchlist.Store) error {
			return forEachTicker(cmd, args, func(ticker string) (string, error) {
				err := store.Remove(ctx, ticker)
				if errors.Is(err, watchlist.ErrNotFound) {
					return fmt.Sprintf("%s not found in watchlist.", ticker), nil
				}
				return fmt.Sprintf("%s removed from watchlist successfully.", ticker), err
			})
		})
	},
}

func init() {
	rootCmd.AddCommand(watchlistCmd)
	watchlistCmd.AddCommand(watchlistListCmd, watchlistAddCmd, watchlistRemoveCmd)
}

// withStore opens the configured watchlist store for one command
func withStore(cmd *cobra.Command, fn func(ctx context.Context, store watchlist.Store) error) error {
	cfg, err := loadConfig(true)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx, cfg, log, false)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a.watchlist)
}

// forEachTicker applies op to every upper-cased argument and prints its message.
// Expected outcomes such as duplicates are reported by op with a nil error.
func forEachTicker(cmd *cobra.Command, args []string, op func(ticker string) (string, error)) error {
	out := cmd.OutOrStdout()

	for _, arg := range args {
		ticker := strings.ToUpper(strings.TrimSpace(arg))
		msg, err := op(ticker)
		if err != nil {
			return fmt.Errorf("%s: %w", ticker, err)
		}
		fmt.Fprintln(out, msg)
	}

	return nil
}
