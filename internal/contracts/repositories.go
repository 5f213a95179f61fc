package contracts

import "context"

// ⭐ SSOT: persistence interfaces are defined here only

// WatchlistRepository stores the user's watchlist as an ordered set of tickers
type WatchlistRepository interface {
	List(ctx context.Context) ([]string, error)
	Add(ctx context.Context, ticker string) error
	Remove(ctx context.Context, ticker string) error
	Contains(ctx context.Context, ticker string) (bool, error)
}

// DefaultStocks is the fixed list shown before the user builds a watchlist
type DefaultStocks struct {
	Companies  []string `json:"companies"`
	IndexFunds []string `json:"index_funds"`
}

// DefaultStocksRepository loads the default stock lists
type DefaultStocksRepository interface {
	Load(ctx context.Context) (*DefaultStocks, error)
}
