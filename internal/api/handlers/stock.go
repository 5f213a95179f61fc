package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/ShrayBagga/StockAnalysis/internal/contracts"
	"github.com/ShrayBagga/StockAnalysis/internal/market"
	"github.com/ShrayBagga/StockAnalysis/pkg/logger"
)

// StockHandler handles stock data endpoints
// ⭐ SSOT: stock data HTTP handling lives in this struct only
type StockHandler struct {
	source   contracts.StockDataSource
	defaults contracts.DefaultStocksRepository
	logger   *logger.Logger
}

// NewStockHandler creates a new stock handler
func NewStockHandler(source contracts.StockDataSource, defaults contracts.DefaultStocksRepository, log *logger.Logger) *StockHandler {
	return &StockHandler{
		source:   source,
		defaults: defaults,
		logger:   log,
	}
}

// StockDataResponse is the successful /api/stock_data payload
type StockDataResponse struct {
	Success   bool                 `json:"success"`
	StockData *contracts.StockData `json:"stockData"`
	Errors    []string             `json:"errors"`
}

// StockDataFailure is the failed /api/stock_data payload
type StockDataFailure struct {
	Success        bool     `json:"success"`
	Error          string   `json:"error"`
	DetailedErrors []string `json:"detailedErrors,omitempty"`
}

// GetStockData returns market data and the analysis report for one ticker
// GET /api/stock_data?ticker=AAPL
func (h *StockHandler) GetStockData(w http.ResponseWriter, r *http.Request) {
	ticker := strings.TrimSpace(r.URL.Query().Get("ticker"))
	if ticker == "" {
		respondJSON(w, http.StatusBadRequest, StockDataFailure{
			Success: false,
			Error:   "Ticker symbol is required.",
		})
		return
	}

	data, warnings, err := h.source.StockData(r.Context(), ticker)
	if err != nil {
		details := market.FailureDetails(ticker, err)
		h.logger.WithTicker(ticker).WithError(err).Warn("Stock data unavailable")

		respondJSON(w, http.StatusNotFound, StockDataFailure{
			Success: false,
			Error: fmt.Sprintf(
				"Failed to retrieve data for %s. It might be an invalid ticker or data is temporarily unavailable. Detailed errors: %s",
				ticker, strings.Join(details, "; "),
			),
			DetailedErrors: details,
		})
		return
	}

	// Warnings are null, not [], when there are none
	if len(warnings) == 0 {
		warnings = nil
	}

	respondJSON(w, http.StatusOK, StockDataResponse{
		Success:   true,
		StockData: data,
		Errors:    warnings,
	})
}

// GetDefaultStocks returns the default company and index fund lists
// GET /api/default_stocks
func (h *StockHandler) GetDefaultStocks(w http.ResponseWriter, r *http.Request) {
	stocks, err := h.defaults.Load(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load default stocks")
		respondError(w, http.StatusInternalServerError, "Failed to load default stocks")
		return
	}

	respondJSON(w, http.StatusOK, stocks)
}
