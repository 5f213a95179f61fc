package scoring

import (
	"github.com/ShrayBagga/StockAnalysis/internal/contracts"
	"github.com/ShrayBagga/StockAnalysis/pkg/logger"
)

// Engine wraps the aggregator with logging
type Engine struct {
	aggregator *Aggregator
	logger     *logger.Logger
}

// NewEngine creates a new scoring engine
func NewEngine(log *logger.Logger) *Engine {
	return &Engine{
		aggregator: NewAggregator(),
		logger:     log,
	}
}

// Analyze scores the snapshot and logs the breakdown at debug level
func (e *Engine) Analyze(snapshot contracts.TickerSnapshot) contracts.AnalysisReport {
	report := e.aggregator.Analyze(snapshot)

	e.logger.WithTicker(snapshot.Ticker).WithFields(map[string]interface{}{
		"overall_score":      report.OverallScore,
		"suggestion":         report.Suggestion,
		"analyst_rating":     report.ScoreBreakdown.AnalystRating,
		"analyst_upside":     report.ScoreBreakdown.AnalystUpside,
		"financial_analysis": report.ScoreBreakdown.FinancialAnalysis,
		"technical_analysis": report.ScoreBreakdown.TechnicalAnalysis,
		"bars":               len(snapshot.HistoricalBars),
	}).Debug("Calculated analysis report")

	return report
}
