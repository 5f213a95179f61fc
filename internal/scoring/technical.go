package scoring

import (
	"fmt"
	"math"
	"sort"

	"github.com/ShrayBagga/StockAnalysis/internal/contracts"
)

// Technical analysis windows
const (
	MinTechnicalBars = 200
	ShortMAWindow    = 50
	LongMAWindow     = 200
	MomentumBars     = 20
)

const (
	insufficientHistory = "Insufficient historical data for comprehensive technical analysis (less than 200 days)."
	lastCloseFallback   = "Using last available closing price for current price in technical analysis."
	maUnavailable       = "Not enough data to calculate 50-day or 200-day moving averages."
	rangeUnavailable    = "52-Week High/Low data not available for range analysis."
	rangeInvalid        = "52-week high and low are too close or invalid for range analysis."
	momentumShort       = "Insufficient data for recent price performance analysis (less than 1 month)."
	momentumZeroStart   = "Cannot calculate recent performance due to zero starting price."
)

// guard is one step of an ordered guard chain over a single value
type guard struct {
	when   func(x float64) bool
	points int
	reason func(x float64) string
}

func firstGuard(chain []guard, x float64) guard {
	for _, g := range chain {
		if g.when(x) {
			return g
		}
	}
	return chain[len(chain)-1]
}

// TechnicalScorer scores trend, 52-week range position and 1-month momentum
type TechnicalScorer struct{}

// Name returns the breakdown key
func (TechnicalScorer) Name() string { return "technicalAnalysis" }

// Score requires at least MinTechnicalBars bars. With fewer bars the whole
// analysis is skipped and the score is neutral.
func (TechnicalScorer) Score(snapshot *contracts.TickerSnapshot) contracts.ScoreResult {
	if len(snapshot.HistoricalBars) < MinTechnicalBars {
		return result(NeutralScore, insufficientHistory)
	}

	closes := sortedCloses(snapshot.HistoricalBars)
	reasons := make([]string, 0, 4)

	var price float64
	if snapshot.CurrentPrice != nil && !math.IsNaN(*snapshot.CurrentPrice) {
		price = *snapshot.CurrentPrice
	} else {
		price = closes[len(closes)-1]
		reasons = append(reasons, lastCloseFallback)
	}

	score := 0

	points, reason := movingAverageScore(closes, price)
	score += points
	reasons = append(reasons, reason)

	points, reason = rangeScore(snapshot.FiftyTwoWeekHigh, snapshot.FiftyTwoWeekLow, price)
	score += points
	reasons = append(reasons, reason)

	points, reason = momentumScore(closes)
	score += points
	reasons = append(reasons, reason)

	return result(score, reasons...)
}

// sortedCloses orders a copy of the bars by date and extracts closing prices
func sortedCloses(bars []contracts.Bar) []float64 {
	sorted := make([]contracts.Bar, len(bars))
	copy(sorted, bars)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	closes := make([]float64, len(sorted))
	for i, bar := range sorted {
		closes[i] = bar.Close
	}
	return closes
}

// movingAverageScore: 0-40
func movingAverageScore(closes []float64, price float64) (int, string) {
	ma50, ok50 := lastDefined(rollingMean(closes, ShortMAWindow))
	ma200, ok200 := lastDefined(rollingMean(closes, LongMAWindow))
	if !ok50 || !ok200 {
		return 0, maUnavailable
	}

	switch {
	case price > ma50 && price > ma200:
		return 40, fmt.Sprintf("Price (%.2f) is above 50-day (%.2f) and 200-day (%.2f) moving averages (Bullish trend).", price, ma50, ma200)
	case price > ma50:
		return 25, fmt.Sprintf("Price (%.2f) is above 50-day moving average (%.2f) (Positive short-term momentum).", price, ma50)
	case price > ma200:
		return 15, fmt.Sprintf("Price (%.2f) is above 200-day moving average (%.2f) (Long-term trend support).", price, ma200)
	default:
		return 5, fmt.Sprintf("Price (%.2f) is below key moving averages, indicating bearish pressure.", price)
	}
}

// rangeScore: 0-30. Missing or zero bounds (or a zero price) skip the check.
func rangeScore(high, low *float64, price float64) (int, string) {
	if high == nil || low == nil || *high == 0 || *low == 0 || price == 0 {
		return 0, rangeUnavailable
	}

	width := *high - *low
	if !(width > 0) {
		return 0, rangeInvalid
	}

	position := (price - *low) / width
	chain := []guard{
		{func(x float64) bool { return x >= 0.9 }, 30, func(float64) string {
			return fmt.Sprintf("Price is near 52-week high (%.2f), showing strong upward momentum.", *high)
		}},
		{func(x float64) bool { return x >= 0.7 }, 20, func(float64) string {
			return fmt.Sprintf("Price is in the upper range of 52-week performance (%.2f).", price)
		}},
		{func(x float64) bool { return x <= 0.1 }, 0, func(float64) string {
			return fmt.Sprintf("Price is near 52-week low (%.2f), indicating weakness.", *low)
		}},
		{func(x float64) bool { return x <= 0.3 }, 5, func(float64) string {
			return fmt.Sprintf("Price is in the lower range of 52-week performance (%.2f).", price)
		}},
		{func(float64) bool { return true }, 10, func(float64) string {
			return fmt.Sprintf("Price is in the mid-range of its 52-week performance (%.2f).", price)
		}},
	}

	g := firstGuard(chain, position)
	return g.points, g.reason(position)
}

// momentumChain maps the 20-bar change to 0-30 points
var momentumChain = []guard{
	{func(x float64) bool { return x >= 0.05 }, 30, func(x float64) string {
		return fmt.Sprintf("Strong recent performance: Price up %.2f%% over the last month.", x*100)
	}},
	{func(x float64) bool { return x >= 0.01 }, 20, func(x float64) string {
		return fmt.Sprintf("Positive recent performance: Price up %.2f%% over the last month.", x*100)
	}},
	{func(x float64) bool { return x <= -0.05 }, 0, func(x float64) string {
		return fmt.Sprintf("Weak recent performance: Price down %.2f%% over the last month.", math.Abs(x)*100)
	}},
	{func(x float64) bool { return x < 0 }, 10, func(x float64) string {
		return fmt.Sprintf("Slightly negative recent performance: Price down %.2f%% over the last month.", math.Abs(x)*100)
	}},
	{func(float64) bool { return true }, 15, func(float64) string {
		return "Stable recent performance over the last month."
	}},
}

// momentumScore: 0-30, closes[n-20] -> closes[n-1]
func momentumScore(closes []float64) (int, string) {
	n := len(closes)
	if n < MomentumBars {
		return 0, momentumShort
	}

	start, end := closes[n-MomentumBars], closes[n-1]
	if start == 0 {
		return 0, momentumZeroStart
	}

	change := (end - start) / start
	g := firstGuard(momentumChain, change)
	return g.points, g.reason(change)
}
