package scoring

import (
	"fmt"
	"math"

	"github.com/ShrayBagga/StockAnalysis/internal/contracts"
)

// band is one breakpoint of a metric table.
// For "below" tables a value matches when v < bound, for "atLeast" tables when v >= bound.
type band struct {
	bound  float64
	points int
	reason func(v float64) string
}

type comparison int

const (
	below comparison = iota
	atLeast
)

// metric describes how one fundamental ratio contributes to the score
type metric struct {
	name        string
	value       func(*contracts.TickerSnapshot) *float64
	usable      func(v float64) bool
	compare     comparison
	bands       []band // ordered, last band must always match
	unavailable string
}

func (m metric) match(v float64) band {
	for _, b := range m.bands {
		if m.compare == below && v < b.bound {
			return b
		}
		if m.compare == atLeast && v >= b.bound {
			return b
		}
	}
	return m.bands[len(m.bands)-1]
}

func valued(format string) func(float64) string {
	return func(v float64) string { return fmt.Sprintf(format, v) }
}

func percent(format string) func(float64) string {
	return func(v float64) string { return fmt.Sprintf(format, v*100) }
}

func fixed(text string) func(float64) string {
	return func(float64) string { return text }
}

func positive(v float64) bool { return v > 0 }

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

var (
	inf    = math.Inf(1)
	negInf = math.Inf(-1)
)

// fundamentalMetrics sums to at most 25+20+20+15+20 = 100
var fundamentalMetrics = []metric{
	{
		name:    "trailing_pe",
		value:   func(s *contracts.TickerSnapshot) *float64 { return s.TrailingPE },
		usable:  positive,
		compare: below,
		bands: []band{
			{15, 25, valued("Healthy Trailing P/E Ratio (%.2f) indicates good valuation.")},
			{25, 15, valued("Moderate Trailing P/E Ratio (%.2f).")},
			{inf, 5, valued("High Trailing P/E Ratio (%.2f) suggests potential overvaluation or high growth expectations.")},
		},
		unavailable: "Trailing P/E Ratio N/A or not positive, limiting valuation insight.",
	},
	{
		name:    "forward_pe",
		value:   func(s *contracts.TickerSnapshot) *float64 { return s.ForwardPE },
		usable:  positive,
		compare: below,
		bands: []band{
			{15, 20, valued("Strong Forward P/E Ratio (%.2f) suggests future earnings growth.")},
			{25, 10, valued("Moderate Forward P/E Ratio (%.2f).")},
			{inf, 2, valued("High Forward P/E Ratio (%.2f).")},
		},
		unavailable: "Forward P/E Ratio N/A or not positive.",
	},
	{
		name:    "dividend_yield",
		value:   func(s *contracts.TickerSnapshot) *float64 { return s.DividendYield },
		usable:  positive,
		compare: atLeast,
		bands: []band{
			{0.03, 20, percent("Attractive Dividend Yield of %.2f%% provides income.")},
			{0.01, 10, percent("Modest Dividend Yield of %.2f%%.")},
			{negInf, 5, percent("Low Dividend Yield of %.2f%%.")},
		},
		unavailable: "No significant dividend yield, common for growth stocks or those reinvesting earnings.",
	},
	{
		name:    "market_cap",
		value:   func(s *contracts.TickerSnapshot) *float64 { return s.MarketCap },
		usable:  positive,
		compare: atLeast,
		bands: []band{
			{200e9, 15, fixed("Large market capitalization suggests stability and market leadership.")},
			{10e9, 10, fixed("Solid large-cap market capitalization.")},
			{2e9, 5, fixed("Mid-cap company with potential for growth.")},
			{negInf, 0, fixed("Smaller market capitalization, potentially higher risk/reward.")},
		},
		unavailable: "Market capitalization data unavailable.",
	},
	{
		name:    "beta",
		value:   func(s *contracts.TickerSnapshot) *float64 { return s.Beta },
		usable:  finite,
		compare: below,
		bands: []band{
			{0.8, 20, valued("Low Beta (%.2f) indicates lower volatility relative to the market.")},
			{1.2, 10, valued("Moderate Beta (%.2f) suggests volatility in line with the market.")},
			{inf, 5, valued("High Beta (%.2f) implies higher volatility and potentially higher risk.")},
		},
		unavailable: "Beta (market volatility) data unavailable.",
	},
}

const fundamentalLimitedData = "Limited financial data available for comprehensive analysis."

// FundamentalScorer scores valuation, income, size and volatility ratios
type FundamentalScorer struct{}

// Name returns the breakdown key
func (FundamentalScorer) Name() string { return "financialAnalysis" }

// Score adds up each metric's contribution, one reason per metric
func (FundamentalScorer) Score(snapshot *contracts.TickerSnapshot) contracts.ScoreResult {
	score := 0
	reasons := make([]string, 0, len(fundamentalMetrics))
	present := 0

	for _, m := range fundamentalMetrics {
		v := m.value(snapshot)
		if v != nil {
			present++
		}
		if v == nil || math.IsNaN(*v) || !m.usable(*v) {
			reasons = append(reasons, m.unavailable)
			continue
		}

		b := m.match(*v)
		score += b.points
		reasons = append(reasons, b.reason(*v))
	}

	if present == 0 {
		return result(0, fundamentalLimitedData)
	}

	return result(score, reasons...)
}
