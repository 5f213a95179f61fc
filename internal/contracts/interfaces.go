package contracts

import "context"

// SnapshotProvider fetches raw market data for one ticker
// ⭐ SSOT: the single boundary between upstream data and the scoring engine
type SnapshotProvider interface {
	Snapshot(ctx context.Context, ticker string) (*MarketSnapshot, error)
}

// Analyzer scores a snapshot
type Analyzer interface {
	Analyze(snapshot TickerSnapshot) AnalysisReport
}

// StockDataSource returns analysed stock data plus non-fatal warnings
type StockDataSource interface {
	StockData(ctx context.Context, ticker string) (*StockData, []string, error)
	Refresh(ctx context.Context, ticker string) (*StockData, []string, error)
}

// ReportPublisher receives reports produced outside a request (scheduled refresh)
type ReportPublisher interface {
	Publish(update ReportUpdate)
}
