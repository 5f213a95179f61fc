// Package watchlist persists the user's watchlist and the default stock lists.
package watchlist

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ShrayBagga/StockAnalysis/internal/contracts"
	"github.com/ShrayBagga/StockAnalysis/pkg/config"
	"github.com/ShrayBagga/StockAnalysis/pkg/database"
	"github.com/ShrayBagga/StockAnalysis/pkg/logger"
)

var (
	// ErrAlreadyExists is returned when adding a ticker that is already listed
	ErrAlreadyExists = errors.New("ticker already in watchlist")
	// ErrNotFound is returned when removing a ticker that is not listed
	ErrNotFound = errors.New("ticker not in watchlist")
	// ErrEmptyTicker is returned for a blank ticker
	ErrEmptyTicker = errors.New("ticker not provided")
)

// Store is an ordered set of upper-case tickers
type Store = contracts.WatchlistRepository

// NewStore builds the store selected by STORAGE_BACKEND.
// db is only used (and required) for the postgres backend.
func NewStore(cfg *config.Config, db *database.DB, log *logger.Logger) (Store, error) {
	switch cfg.Storage.Backend {
	case config.StorageFile:
		return NewFileStore(cfg.Storage.WatchlistFile, log), nil
	case config.StoragePostgres:
		if db == nil {
			return nil, fmt.Errorf("postgres watchlist backend requires a database connection")
		}
		return NewPostgresStore(db.Pool, log), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
	}
}

// normalize upper-cases and trims a ticker
func normalize(ticker string) (string, error) {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	if t == "" {
		return "", ErrEmptyTicker
	}
	return t, nil
}
