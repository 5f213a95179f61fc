package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/ShrayBagga/StockAnalysis/internal/api/handlers"
	"github.com/ShrayBagga/StockAnalysis/pkg/database"
	"github.com/ShrayBagga/StockAnalysis/pkg/logger"
)

const (
	serviceName   = "stockanalysis-api"
	healthTimeout = 3 * time.Second
)

// DatabaseHealth reports the state of the storage database
type DatabaseHealth interface {
	HealthCheck(ctx context.Context) (*database.HealthStatus, error)
}

// Handlers groups the endpoint handlers mounted by NewRouter
type Handlers struct {
	Watchlist *handlers.WatchlistHandler
	Stock     *handlers.StockHandler
	Scheduler *handlers.SchedulerHandler
	Reports   *handlers.ReportHub
	Database  DatabaseHealth // nil unless the postgres backend is active
}

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: routing is configured in this function only
func NewRouter(h Handlers, allowedOrigins []string, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler(h.Database)).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	// Watchlist
	api.HandleFunc("/watchlist", h.Watchlist.List).Methods(http.MethodGet)
	api.HandleFunc("/watchlist", h.Watchlist.Add).Methods(http.MethodPost)
	api.HandleFunc("/watchlist", h.Watchlist.Remove).Methods(http.MethodDelete)

	// Stock data
	api.HandleFunc("/default_stocks", h.Stock.GetDefaultStocks).Methods(http.MethodGet)
	api.HandleFunc("/stock_data", h.Stock.GetStockData).Methods(http.MethodGet)

	// Scheduler
	api.HandleFunc("/scheduler/jobs", h.Scheduler.GetJobs).Methods(http.MethodGet)

	// Report stream
	r.HandleFunc("/ws/reports", h.Reports.ServeWS).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	// Apply middleware
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return corsMiddleware(allowedOrigins)(r)
}

// healthCheckHandler returns server health status, 503 when the database is unreachable
func healthCheckHandler(db DatabaseHealth) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := map[string]interface{}{
			"status":  "ok",
			"service": serviceName,
		}
		code := http.StatusOK

		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
			defer cancel()

			status, err := db.HealthCheck(ctx)
			if err != nil {
				body["status"] = "degraded"
				code = http.StatusServiceUnavailable
			}
			body["database"] = status
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(body)
	}
}
