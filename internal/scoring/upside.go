package scoring

import (
	"fmt"
	"math"

	"github.com/ShrayBagga/StockAnalysis/internal/contracts"
)

type upsideTier struct {
	min    float64 // inclusive lower bound
	score  int
	format string
}

// upsideTiers is evaluated top-down, first match wins
var upsideTiers = []upsideTier{
	{0.25, 100, "Significant upside potential of %.2f%% according to target prices."},
	{0.15, 90, "High upside potential of %.2f%% based on target prices."},
	{0.08, 75, "Moderate upside potential of %.2f%% based on target prices."},
	{0.02, 60, "Modest upside potential of %.2f%% based on target prices."},
	{-0.05, 40, "Limited upside or slight downside of %.2f%% based on target prices."},
	{math.Inf(-1), 10, "Significant downside risk of %.2f%% based on target prices."},
}

const upsideUnavailable = "Analyst target price or upside data not available."

// UpsideScorer scores the analyst target-implied upside
type UpsideScorer struct{}

// Name returns the breakdown key
func (UpsideScorer) Name() string { return "analystUpside" }

// Score derives the upside from target and current price
func (UpsideScorer) Score(snapshot *contracts.TickerSnapshot) contracts.ScoreResult {
	return ScoreUpside(snapshot.Upside())
}

// ScoreUpside scores an upside fraction (0.1 = 10%). nil or NaN is neutral.
func ScoreUpside(upside *float64) contracts.ScoreResult {
	if upside == nil || math.IsNaN(*upside) {
		return result(NeutralScore, upsideUnavailable)
	}

	u := *upside
	for _, tier := range upsideTiers {
		if u >= tier.min {
			return result(tier.score, fmt.Sprintf(tier.format, u*100))
		}
	}

	// unreachable: the last tier is -Inf
	return result(NeutralScore, upsideUnavailable)
}
