package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/ShrayBagga/StockAnalysis/internal/external/yahoo"
	"github.com/ShrayBagga/StockAnalysis/internal/market"
	"github.com/ShrayBagga/StockAnalysis/internal/scoring"
	"github.com/ShrayBagga/StockAnalysis/internal/watchlist"
	"github.com/ShrayBagga/StockAnalysis/pkg/config"
	"github.com/ShrayBagga/StockAnalysis/pkg/database"
	"github.com/ShrayBagga/StockAnalysis/pkg/httputil"
	"github.com/ShrayBagga/StockAnalysis/pkg/logger"
	"github.com/ShrayBagga/StockAnalysis/pkg/redis"
)

// keyPrefix namespaces every Redis key this service writes
const keyPrefix = "stockanalysis"

// yahooRateLimit caps upstream calls across all instances sharing Redis
var yahooRateLimit = redis.RateLimitConfig{Key: "yahoo", Limit: 60, Window: time.Minute}

// app holds the shared components every command is built from
type app struct {
	cfg       *config.Config
	log       *logger.Logger
	redis     *redis.Client
	db        *database.DB
	market    *market.Service
	watchlist watchlist.Store
	defaults  *watchlist.DefaultsStore
}

// newApp connects storage and, when withMarket is set, the market data stack
func newApp(ctx context.Context, cfg *config.Config, log *logger.Logger, withMarket bool) (*app, error) {
	a := &app{cfg: cfg, log: log}

	if cfg.Storage.Backend == config.StoragePostgres {
		db, err := database.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		a.db = db
		log.Info("Connected to database")
	}

	store, err := watchlist.NewStore(cfg, a.db, log)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("create watchlist store: %w", err)
	}
	if pg, ok := store.(*watchlist.PostgresStore); ok {
		if err := pg.EnsureSchema(ctx); err != nil {
			a.Close()
			return nil, err
		}
	}
	a.watchlist = store
	a.defaults = watchlist.NewDefaultsStore(cfg.Storage.DefaultStocksFile, log)

	if !withMarket {
		return a, nil
	}

	rc, err := redis.New(cfg)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	a.redis = rc

	httpClient := httputil.New(cfg, log)
	var shared *redis.Cache
	if rc.Enabled() {
		httpClient.WithRateLimiter(redis.NewRateLimiter(rc, keyPrefix), yahooRateLimit)
		shared = redis.NewCache(rc, keyPrefix)
		log.Info("Connected to redis")
	}

	provider := yahoo.NewClient(cfg, httpClient, log)
	engine := scoring.NewEngine(log)
	a.market = market.NewService(provider, engine, shared, cfg.Market, log)

	return a, nil
}

// Close releases connections
func (a *app) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.WithError(err).Warn("Failed to close redis")
		}
	}
	if a.db != nil {
		a.db.Close()
	}
}
