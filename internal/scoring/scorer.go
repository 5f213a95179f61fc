// Package scoring turns a TickerSnapshot into an AnalysisReport.
//
// Every scorer is a pure, total function of the snapshot: missing inputs
// produce a neutral or zero contribution plus an explanatory reason, never
// an error. Scorers share no state and may run in any order.
package scoring

import "github.com/ShrayBagga/StockAnalysis/internal/contracts"

// Score bounds
const (
	MinScore     = 0
	MaxScore     = 100
	NeutralScore = 50
)

// Scorer produces one 0-100 sub-score
// ⭐ SSOT: the four variants are RatingScorer, UpsideScorer, FundamentalScorer, TechnicalScorer
type Scorer interface {
	Name() string
	Score(snapshot *contracts.TickerSnapshot) contracts.ScoreResult
}

// clamp keeps a score inside [MinScore, MaxScore]
func clamp(score int) int {
	if score > MaxScore {
		return MaxScore
	}
	if score < MinScore {
		return MinScore
	}
	return score
}

func result(score int, reasons ...string) contracts.ScoreResult {
	return contracts.ScoreResult{Score: clamp(score), Reasons: reasons}
}
