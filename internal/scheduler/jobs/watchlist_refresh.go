package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ShrayBagga/StockAnalysis/internal/contracts"
	"github.com/ShrayBagga/StockAnalysis/pkg/logger"
)

// DefaultRefreshSchedule runs every 30 minutes (with seconds field)
const DefaultRefreshSchedule = "0 */30 * * * *"

// WatchlistRefreshJob re-fetches and re-scores the watchlist and default companies
// ⭐ SSOT: scheduled re-analysis happens in this job only
type WatchlistRefreshJob struct {
	watchlist contracts.WatchlistRepository
	defaults  contracts.DefaultStocksRepository
	source    contracts.StockDataSource
	publisher contracts.ReportPublisher
	schedule  string
	logger    *logger.Logger
}

// NewWatchlistRefreshJob creates a new refresh job. defaults and publisher may be nil.
func NewWatchlistRefreshJob(
	watchlist contracts.WatchlistRepository,
	defaults contracts.DefaultStocksRepository,
	source contracts.StockDataSource,
	publisher contracts.ReportPublisher,
	schedule string,
	log *logger.Logger,
) *WatchlistRefreshJob {
	if schedule == "" {
		schedule = DefaultRefreshSchedule
	}

	return &WatchlistRefreshJob{
		watchlist: watchlist,
		defaults:  defaults,
		source:    source,
		publisher: publisher,
		schedule:  schedule,
		logger:    log,
	}
}

// Name returns the job name
func (j *WatchlistRefreshJob) Name() string {
	return "watchlist_refresh"
}

// Schedule returns the cron schedule
func (j *WatchlistRefreshJob) Schedule() string {
	return j.schedule
}

// Run refreshes every ticker once. It fails only when every ticker failed.
func (j *WatchlistRefreshJob) Run(ctx context.Context) error {
	start := time.Now()

	tickers, err := j.tickers(ctx)
	if err != nil {
		return err
	}
	if len(tickers) == 0 {
		j.logger.Info("Nothing to refresh")
		return nil
	}

	j.logger.WithField("tickers", len(tickers)).Info("Starting scheduled refresh")

	var refreshed, failed int
	var lastErr error

	for _, ticker := range tickers {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("refresh interrupted after %d tickers: %w", refreshed+failed, err)
		}

		data, warnings, err := j.source.Refresh(ctx, ticker)
		if err != nil {
			failed++
			lastErr = err
			j.logger.WithTicker(ticker).WithError(err).Warn("Refresh failed")
			continue
		}

		refreshed++
		if len(warnings) > 0 {
			j.logger.WithTicker(ticker).WithField("warnings", warnings).Debug("Refreshed with warnings")
		}

		if j.publisher != nil {
			j.publisher.Publish(contracts.ReportUpdate{Ticker: ticker, Report: data.Report()})
		}
	}

	j.logger.WithFields(map[string]interface{}{
		"refreshed": refreshed,
		"failed":    failed,
		"duration":  time.Since(start).String(),
	}).Info("Scheduled refresh completed")

	if refreshed == 0 {
		return fmt.Errorf("all %d tickers failed to refresh: %w", failed, lastErr)
	}
	return nil
}

// tickers returns the watchlist followed by the default companies, de-duplicated
func (j *WatchlistRefreshJob) tickers(ctx context.Context) ([]string, error) {
	list, err := j.watchlist.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}

	all := append([]string{}, list...)

	if j.defaults != nil {
		defaults, err := j.defaults.Load(ctx)
		if err != nil {
			j.logger.WithError(err).Warn("Failed to load default stocks, refreshing watchlist only")
		} else {
			all = append(all, defaults.Companies...)
		}
	}

	seen := make(map[string]bool, len(all))
	tickers := make([]string, 0, len(all))
	for _, t := range all {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tickers = append(tickers, t)
	}

	return tickers, nil
}
