package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShrayBagga/StockAnalysis/internal/api/handlers"
	"github.com/ShrayBagga/StockAnalysis/internal/contracts"
	"github.com/ShrayBagga/StockAnalysis/internal/watchlist"
	"github.com/ShrayBagga/StockAnalysis/pkg/database"
	"github.com/ShrayBagga/StockAnalysis/pkg/logger"
)

type noData struct{}

func (noData) StockData(ctx context.Context, ticker string) (*contracts.StockData, []string, error) {
	return &contracts.StockData{Ticker: ticker, Suggestion: contracts.SuggestionHold, OverallScore: 50}, nil, nil
}

func (n noData) Refresh(ctx context.Context, ticker string) (*contracts.StockData, []string, error) {
	return n.StockData(ctx, ticker)
}

func newTestRouter(t *testing.T, origins []string) http.Handler {
	t.Helper()

	dir := t.TempDir()
	log := logger.Nop()

	store := watchlist.NewFileStore(filepath.Join(dir, "watchlist.json"), log)
	defaults := watchlist.NewDefaultsStore(filepath.Join(dir, "default_stocks.json"), log)

	return NewRouter(Handlers{
		Watchlist: handlers.NewWatchlistHandler(store, log),
		Stock:     handlers.NewStockHandler(noData{}, defaults, log),
		Scheduler: handlers.NewSchedulerHandler(nil),
		Reports:   handlers.NewReportHub(origins, log),
	}, origins, log)
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(t, []string{"*"})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","service":"stockanalysis-api"}`, rec.Body.String())
}

type fakeDatabase struct{ err error }

func (f fakeDatabase) HealthCheck(ctx context.Context) (*database.HealthStatus, error) {
	if f.err != nil {
		return &database.HealthStatus{Error: f.err.Error()}, f.err
	}
	return &database.HealthStatus{Healthy: true, Stats: database.PoolStats{MaxConns: 10}}, nil
}

func TestHealthCheckHandler_Database(t *testing.T) {
	tests := []struct {
		name       string
		db         DatabaseHealth
		wantCode   int
		wantStatus string
		wantDB     bool
	}{
		{"file backend", nil, http.StatusOK, "ok", false},
		{"database up", fakeDatabase{}, http.StatusOK, "ok", true},
		{"database down", fakeDatabase{err: errors.New("connection refused")}, http.StatusServiceUnavailable, "degraded", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			healthCheckHandler(tt.db)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantCode, rec.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body["status"])
			assert.Equal(t, tt.wantDB, body["database"] != nil)
		})
	}
}

func TestRouter_Routes(t *testing.T) {
	router := newTestRouter(t, []string{"*"})

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/api/watchlist", "", http.StatusOK},
		{http.MethodPost, "/api/watchlist", `{"ticker":"nvda"}`, http.StatusOK},
		{http.MethodPost, "/api/watchlist", `{"ticker":"NVDA"}`, http.StatusConflict},
		{http.MethodDelete, "/api/watchlist", `{"ticker":"NVDA"}`, http.StatusOK},
		{http.MethodDelete, "/api/watchlist", `{"ticker":"NVDA"}`, http.StatusNotFound},
		{http.MethodPost, "/api/watchlist", `{}`, http.StatusBadRequest},
		{http.MethodGet, "/api/default_stocks", "", http.StatusOK},
		{http.MethodGet, "/api/stock_data?ticker=AAPL", "", http.StatusOK},
		{http.MethodGet, "/api/stock_data", "", http.StatusBadRequest},
		{http.MethodGet, "/api/scheduler/jobs", "", http.StatusOK},
		{http.MethodGet, "/api/unknown", "", http.StatusNotFound},
		{http.MethodPut, "/api/watchlist", "", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body)))

			assert.Equal(t, tt.want, rec.Code, "body: %s", rec.Body.String())
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestRouter_DefaultStocksBootstrap(t *testing.T) {
	router := newTestRouter(t, []string{"*"})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/default_stocks", nil))

	assert.JSONEq(t, `{"companies":["AAPL","MSFT","GOOGL"],"index_funds":["SPY","QQQ","DIA"]}`, rec.Body.String())
}

func TestRouter_RequestID(t *testing.T) {
	router := newTestRouter(t, []string{"*"})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/watchlist", nil))
	generated := rec.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)

	req := httptest.NewRequest(http.MethodGet, "/api/watchlist", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := newTestRouter(t, []string{"http://localhost:3000"})

	req := httptest.NewRequest(http.MethodOptions, "/api/watchlist", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodDelete)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Less(t, rec.Code, 300)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := recoveryMiddleware(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
}

func TestLoggingMiddleware_RecordsStatus(t *testing.T) {
	var seen *statusRecorder
	handler := loggingMiddleware(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = w.(*statusRecorder)
		w.WriteHeader(http.StatusTeapot)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotNil(t, seen)
	assert.Equal(t, http.StatusTeapot, seen.status)
}
