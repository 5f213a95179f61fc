package yahoo

import (
	"context"
	"fmt"

	"github.com/ShrayBagga/StockAnalysis/internal/contracts"
)

var _ contracts.SnapshotProvider = (*Client)(nil)

// Snapshot merges quote, summary and history into one MarketSnapshot.
// The quote is mandatory; summary and history failures become warnings.
func (c *Client) Snapshot(ctx context.Context, ticker string) (*contracts.MarketSnapshot, error) {
	log := c.logger.WithTicker(ticker)

	quote, err := c.Quote(ctx, ticker)
	if err != nil {
		return nil, err
	}

	warnings := make([]string, 0)

	summary, err := c.Summary(ctx, ticker)
	if err != nil {
		log.WithError(err).Warn("Summary unavailable, continuing with quote data")
		warnings = append(warnings, fmt.Sprintf("Analyst and profile data unavailable for %s: %v", ticker, err))
		summary = &Summary{}
	}

	bars, err := c.History(ctx, ticker)
	if err != nil {
		log.WithError(err).Warn("History unavailable, continuing without bars")
		warnings = append(warnings, fmt.Sprintf("Failed to retrieve price history for %s: %v", ticker, err))
	}
	if err == nil && len(bars) == 0 {
		warnings = append(warnings, fmt.Sprintf("No historical data found for %s.", ticker))
	}

	snapshot := merge(ticker, quote, summary, bars)

	log.WithFields(map[string]interface{}{
		"bars":     len(bars),
		"warnings": len(warnings),
	}).Debug("Built market snapshot")

	return &contracts.MarketSnapshot{
		Snapshot:  snapshot.Snapshot,
		Profile:   snapshot.Profile,
		Warnings:  warnings,
		FetchedAt: c.now(),
	}, nil
}

func merge(ticker string, q *Quote, s *Summary, bars []contracts.Bar) contracts.MarketSnapshot {
	snap := contracts.TickerSnapshot{
		Ticker:                 ticker,
		CurrentPrice:           q.Price,
		PreviousClose:          q.PreviousClose,
		Open:                   q.Open,
		High:                   q.DayHigh,
		Low:                    q.DayLow,
		Volume:                 q.Volume,
		MarketCap:              firstOf(q.MarketCap, s.MarketCap),
		TrailingPE:             firstOf(q.TrailingPE, s.TrailingPE),
		ForwardPE:              firstOf(q.ForwardPE, s.ForwardPE),
		DividendYield:          firstOf(s.DividendYield, q.DividendYield),
		Beta:                   s.Beta,
		FiftyTwoWeekHigh:       firstOf(q.FiftyTwoWeekHigh, s.FiftyTwoWeekHigh),
		FiftyTwoWeekLow:        firstOf(q.FiftyTwoWeekLow, s.FiftyTwoWeekLow),
		AnalystTargetMeanPrice: s.TargetMeanPrice,
		HistoricalBars:         bars,
	}
	if s.RecommendationKey != "" {
		snap.AnalystRecommendationKey = contracts.String(s.RecommendationKey)
	}

	profile := contracts.CompanyProfile{
		Name:              q.Name,
		Currency:          q.Currency,
		Industry:          s.Industry,
		Sector:            s.Sector,
		FullTimeEmployees: s.FullTimeEmployees,
		BusinessSummary:   s.BusinessSummary,
		Website:           s.Website,
		ExDividendDate:    s.ExDividendDate,
		IPODate:           s.IPODate,
	}
	if profile.Name == "" {
		profile.Name = s.Name
	}
	if profile.Currency == "" {
		profile.Currency = s.Currency
	}

	return contracts.MarketSnapshot{Snapshot: snap, Profile: profile}
}
