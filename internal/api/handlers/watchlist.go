package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ShrayBagga/StockAnalysis/internal/contracts"
	"github.com/ShrayBagga/StockAnalysis/internal/watchlist"
	"github.com/ShrayBagga/StockAnalysis/pkg/logger"
)

const msgTickerNotProvided = "Ticker not provided"

// WatchlistHandler handles watchlist endpoints
// ⭐ SSOT: watchlist HTTP handling lives in this struct only
type WatchlistHandler struct {
	store  contracts.WatchlistRepository
	logger *logger.Logger
}

// NewWatchlistHandler creates a new watchlist handler
func NewWatchlistHandler(store contracts.WatchlistRepository, log *logger.Logger) *WatchlistHandler {
	return &WatchlistHandler{
		store:  store,
		logger: log,
	}
}

// TickerRequest is the body of watchlist mutations
type TickerRequest struct {
	Ticker string `json:"ticker"`
}

// List returns the watchlist as a JSON array
// GET /api/watchlist
func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	tickers, err := h.store.List(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load watchlist")
		respondError(w, http.StatusInternalServerError, "Failed to load watchlist")
		return
	}

	if tickers == nil {
		tickers = []string{}
	}
	respondJSON(w, http.StatusOK, tickers)
}

// Add appends a ticker
// POST /api/watchlist {"ticker": "AAPL"}
func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	ticker, ok := decodeTicker(w, r)
	if !ok {
		return
	}

	err := h.store.Add(r.Context(), ticker)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, map[string]string{
			"message": fmt.Sprintf("%s added to watchlist successfully.", ticker),
		})
	case errors.Is(err, watchlist.ErrAlreadyExists):
		respondError(w, http.StatusConflict, fmt.Sprintf("%s is already in the watchlist.", ticker))
	case errors.Is(err, watchlist.ErrEmptyTicker):
		respondError(w, http.StatusBadRequest, msgTickerNotProvided)
	default:
		h.logger.WithTicker(ticker).WithError(err).Error("Failed to add to watchlist")
		respondError(w, http.StatusInternalServerError, "Failed to update watchlist")
	}
}

// Remove deletes a ticker
// DELETE /api/watchlist {"ticker": "AAPL"}
func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	ticker, ok := decodeTicker(w, r)
	if !ok {
		return
	}

	err := h.store.Remove(r.Context(), ticker)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, map[string]string{
			"message": fmt.Sprintf("%s removed from watchlist successfully.", ticker),
		})
	case errors.Is(err, watchlist.ErrNotFound):
		respondError(w, http.StatusNotFound, fmt.Sprintf("%s not found in watchlist.", ticker))
	case errors.Is(err, watchlist.ErrEmptyTicker):
		respondError(w, http.StatusBadRequest, msgTickerNotProvided)
	default:
		h.logger.WithTicker(ticker).WithError(err).Error("Failed to remove from watchlist")
		respondError(w, http.StatusInternalServerError, "Failed to update watchlist")
	}
}

// decodeTicker reads {"ticker": ...} and upper-cases it. It writes the
// 400 response itself and returns false when the ticker is missing.
func decodeTicker(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req TickerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, msgTickerNotProvided)
		return "", false
	}

	ticker := strings.ToUpper(strings.TrimSpace(req.Ticker))
	if ticker == "" {
		respondError(w, http.StatusBadRequest, msgTickerNotProvided)
		return "", false
	}

	return ticker, true
}
