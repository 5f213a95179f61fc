package market

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/ShrayBagga/StockAnalysis/internal/contracts"
	"github.com/ShrayBagga/StockAnalysis/internal/external/yahoo"
	"github.com/ShrayBagga/StockAnalysis/pkg/config"
	"github.com/ShrayBagga/StockAnalysis/pkg/httputil"
	"github.com/ShrayBagga/StockAnalysis/pkg/logger"
	"github.com/ShrayBagga/StockAnalysis/pkg/redis"
)

var (
	// ErrInvalidTicker is returned for an empty or malformed symbol
	ErrInvalidTicker = errors.New("invalid ticker")
	// ErrNoData is returned when the provider could not supply a snapshot
	ErrNoData = errors.New("no data available")
)

var tickerPattern = regexp.MustCompile(`^[A-Z0-9^][A-Z0-9.\-=^]{0,14}$`)

// NormalizeTicker trims and upper-cases a symbol
func NormalizeTicker(ticker string) (string, error) {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	if !tickerPattern.MatchString(t) {
		return "", fmt.Errorf("%w: %q", ErrInvalidTicker, ticker)
	}
	return t, nil
}

// Service returns analysed stock data, caching snapshots in memory and Redis
// ⭐ SSOT: the only path from a ticker symbol to a scored StockData
type Service struct {
	provider     contracts.SnapshotProvider
	analyzer     contracts.Analyzer
	memory       *SnapshotCache
	shared       *redis.Cache
	ttl          time.Duration
	fetchTimeout time.Duration
	limiter      *rate.Limiter
	group        singleflight.Group
	logger       *logger.Logger
}

// NewService creates a new market data service. shared may be nil.
func NewService(
	provider contracts.SnapshotProvider,
	analyzer contracts.Analyzer,
	shared *redis.Cache,
	cfg config.MarketConfig,
	log *logger.Logger,
) *Service {
	limit := rate.Inf
	if cfg.MinInterval > 0 {
		limit = rate.Every(cfg.MinInterval)
	}

	return &Service{
		provider:     provider,
		analyzer:     analyzer,
		memory:       NewSnapshotCache(cfg.CacheTTL, log),
		shared:       shared,
		ttl:          cfg.CacheTTL,
		fetchTimeout: cfg.FetchTimeout,
		limiter:      rate.NewLimiter(limit, 1),
		logger:       log,
	}
}

var _ contracts.StockDataSource = (*Service)(nil)

// StockData returns the analysed data for a ticker plus non-fatal warnings
func (s *Service) StockData(ctx context.Context, ticker string) (*contracts.StockData, []string, error) {
	return s.stockData(ctx, ticker, false)
}

// Refresh bypasses the cache, fetches a fresh snapshot and caches it
func (s *Service) Refresh(ctx context.Context, ticker string) (*contracts.StockData, []string, error) {
	return s.stockData(ctx, ticker, true)
}

// PruneCache drops expired in-memory snapshots and returns how many were removed
func (s *Service) PruneCache() int {
	return s.memory.Prune()
}

// CacheSize returns how many snapshots the in-memory cache holds
func (s *Service) CacheSize() int {
	return s.memory.Len()
}

func (s *Service) stockData(ctx context.Context, ticker string, refresh bool) (*contracts.StockData, []string, error) {
	t, err := NormalizeTicker(ticker)
	if err != nil {
		return nil, nil, err
	}

	ms, err := s.snapshot(ctx, t, refresh)
	if err != nil {
		return nil, nil, err
	}

	report := s.analyzer.Analyze(ms.Snapshot)
	return contracts.NewStockData(ms, report), ms.Warnings, nil
}

func (s *Service) snapshot(ctx context.Context, ticker string, refresh bool) (*contracts.MarketSnapshot, error) {
	log := s.logger.WithTicker(ticker)

	if refresh {
		s.memory.Delete(ticker)
		if s.shared != nil {
			if err := s.shared.Delete(ctx, redis.SnapshotKey(ticker)); err != nil {
				log.WithError(err).Warn("Failed to evict shared snapshot cache")
			}
		}
	} else if ms, ok := s.cached(ctx, ticker); ok {
		return ms, nil
	}

	// The shared fetch outlives any one caller; each caller only stops waiting.
	ch := s.group.DoChan(ticker, func() (interface{}, error) {
		fetchCtx, cancel := s.detached(ctx)
		defer cancel()
		return s.fetch(fetchCtx, ticker)
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("wait for %s snapshot: %w", ticker, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			log.Debug("Joined in-flight snapshot fetch")
		}
		return res.Val.(*contracts.MarketSnapshot), nil
	}
}

// detached keeps ctx values but not its cancellation, bounded by fetchTimeout
func (s *Service) detached(ctx context.Context) (context.Context, context.CancelFunc) {
	base := context.WithoutCancel(ctx)
	if s.fetchTimeout <= 0 {
		return context.WithCancel(base)
	}
	return context.WithTimeout(base, s.fetchTimeout)
}

func (s *Service) cached(ctx context.Context, ticker string) (*contracts.MarketSnapshot, bool) {
	log := s.logger.WithTicker(ticker)

	if ms, ok := s.memory.Get(ticker); ok {
		log.Info("Serving snapshot from memory cache")
		return ms, true
	}

	if s.shared == nil {
		return nil, false
	}

	var ms contracts.MarketSnapshot
	found, err := s.shared.Get(ctx, redis.SnapshotKey(ticker), &ms)
	if err != nil {
		log.WithError(err).Warn("Shared snapshot cache read failed")
		return nil, false
	}
	if !found || time.Since(ms.FetchedAt) >= s.ttl {
		return nil, false
	}

	log.Info("Serving snapshot from shared cache")
	s.memory.Set(ticker, &ms)
	return &ms, true
}

func (s *Service) fetch(ctx context.Context, ticker string) (*contracts.MarketSnapshot, error) {
	log := s.logger.WithTicker(ticker)

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("fetch throttle for %s: %w", ticker, err)
	}

	log.Info("Fetching fresh snapshot")
	start := time.Now()

	ms, err := s.provider.Snapshot(ctx, ticker)
	if err != nil {
		log.WithError(err).Error("Snapshot fetch failed")
		return nil, fmt.Errorf("%w for %s: %w", ErrNoData, ticker, err)
	}

	if ms.FetchedAt.IsZero() {
		ms.FetchedAt = time.Now()
	}
	ms.Snapshot.Ticker = ticker

	s.memory.Set(ticker, ms)
	if s.shared != nil {
		if err := s.shared.Set(ctx, redis.SnapshotKey(ticker), ms, s.ttl); err != nil {
			log.WithError(err).Warn("Shared snapshot cache write failed")
		}
	}

	log.WithFields(map[string]interface{}{
		"duration": time.Since(start).String(),
		"bars":     len(ms.Snapshot.HistoricalBars),
		"warnings": len(ms.Warnings),
	}).Info("Fetched snapshot")

	return ms, nil
}

// FailureDetails turns a StockData error into user-facing messages
func FailureDetails(ticker string, err error) []string {
	var statusErr *httputil.StatusError

	switch {
	case errors.Is(err, ErrInvalidTicker):
		return []string{fmt.Sprintf("%q is not a valid ticker symbol.", ticker)}
	case errors.As(err, &statusErr) && statusErr.RateLimited(), strings.Contains(err.Error(), "429"):
		return []string{fmt.Sprintf("Rate limit hit for %s (429 Too Many Requests) after multiple retries. Please try again later.", ticker)}
	case errors.Is(err, yahoo.ErrTickerNotFound):
		return []string{fmt.Sprintf("Could not retrieve any data for %s. It might be an invalid ticker or temporarily unavailable.", ticker)}
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return []string{fmt.Sprintf("Request for %s timed out or was cancelled.", ticker)}
	default:
		return []string{fmt.Sprintf("Failed to retrieve info for %s after multiple retries. Last error: %v", ticker, err)}
	}
}
