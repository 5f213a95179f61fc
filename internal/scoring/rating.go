package scoring

import "github.com/ShrayBagga/StockAnalysis/internal/contracts"

type ratingEntry struct {
	score  int
	reason string
}

// ratingTable maps a normalized analyst label to its score
var ratingTable = map[string]ratingEntry{
	"Strong Buy":  {100, "Analysts strongly recommend buying based on consensus ratings."},
	"Buy":         {80, "Analysts generally recommend buying."},
	"Hold":        {50, "Analysts suggest holding, expecting modest performance."},
	"Sell":        {20, "Analysts recommend selling due to anticipated underperformance."},
	"Strong Sell": {0, "Analysts strongly recommend selling due to significant concerns."},
}

const ratingUnavailable = "Analyst recommendation data unavailable or neutral."

// RatingScorer scores the analyst consensus label
type RatingScorer struct{}

// Name returns the breakdown key
func (RatingScorer) Name() string { return "analystRating" }

// Score looks the label up; unknown and missing labels are neutral
func (RatingScorer) Score(snapshot *contracts.TickerSnapshot) contracts.ScoreResult {
	return ScoreRating(snapshot.RecommendationLabel())
}

// ScoreRating scores a display label such as "Strong Buy"
func ScoreRating(label string) contracts.ScoreResult {
	entry, ok := ratingTable[label]
	if !ok {
		return result(NeutralScore, ratingUnavailable)
	}
	return result(entry.score, entry.reason)
}
