package watchlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/ShrayBagga/StockAnalysis/internal/contracts"
	"github.com/ShrayBagga/StockAnalysis/pkg/logger"
)

// Built-in default lists
var (
	DefaultCompanies  = []string{"AAPL", "MSFT", "GOOGL"}
	DefaultIndexFunds = []string{"SPY", "QQQ", "DIA"}
)

// DefaultsStore reads default_stocks.json, creating it on first use
type DefaultsStore struct {
	mu     sync.Mutex
	path   string
	logger *logger.Logger
}

// NewDefaultsStore creates a new default stock list store
func NewDefaultsStore(path string, log *logger.Logger) *DefaultsStore {
	return &DefaultsStore{
		path:   path,
		logger: log.WithField("defaults_file", path),
	}
}

var _ contracts.DefaultStocksRepository = (*DefaultsStore)(nil)

func builtinDefaults() *contracts.DefaultStocks {
	return &contracts.DefaultStocks{
		Companies:  append([]string(nil), DefaultCompanies...),
		IndexFunds: append([]string(nil), DefaultIndexFunds...),
	}
}

// Load returns the default lists. A missing file is created with the
// built-in lists; a malformed file falls back to them without rewriting.
func (s *DefaultsStore) Load(ctx context.Context) (*contracts.DefaultStocks, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		defaults := builtinDefaults()
		if err := writeJSONAtomic(s.path, defaults); err != nil {
			return nil, fmt.Errorf("failed to create default stocks file: %w", err)
		}
		s.logger.Info("Created default stocks file")
		return defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read default stocks file: %w", err)
	}

	var stocks contracts.DefaultStocks
	if err := json.Unmarshal(data, &stocks); err != nil {
		s.logger.WithError(err).Warn("Default stocks file is empty or malformed, using built-in defaults")
		return builtinDefaults(), nil
	}
	if stocks.Companies == nil {
		stocks.Companies = []string{}
	}
	if stocks.IndexFunds == nil {
		stocks.IndexFunds = []string{}
	}

	return &stocks, nil
}
