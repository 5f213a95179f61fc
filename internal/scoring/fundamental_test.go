package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShrayBagga/StockAnalysis/internal/contracts"
)

func TestFundamentalScorer_AllAbsent(t *testing.T) {
	got := FundamentalScorer{}.Score(&contracts.TickerSnapshot{})

	assert.Equal(t, 0, got.Score)
	assert.Equal(t, []string{"Limited financial data available for comprehensive analysis."}, got.Reasons)
}

func TestFundamentalScorer_BestCase(t *testing.T) {
	s := &contracts.TickerSnapshot{
		TrailingPE:    contracts.Float(10),
		ForwardPE:     contracts.Float(10),
		DividendYield: contracts.Float(0.04),
		MarketCap:     contracts.Float(300e9),
		Beta:          contracts.Float(0.5),
	}

	got := FundamentalScorer{}.Score(s)

	assert.Equal(t, 100, got.Score)
	require.Len(t, got.Reasons, 5)
	assert.Equal(t, "Healthy Trailing P/E Ratio (10.00) indicates good valuation.", got.Reasons[0])
	assert.Equal(t, "Strong Forward P/E Ratio (10.00) suggests future earnings growth.", got.Reasons[1])
	assert.Equal(t, "Attractive Dividend Yield of 4.00% provides income.", got.Reasons[2])
	assert.Equal(t, "Large market capitalization suggests stability and market leadership.", got.Reasons[3])
	assert.Equal(t, "Low Beta (0.50) indicates lower volatility relative to the market.", got.Reasons[4])
}

func TestFundamentalScorer_Tiers(t *testing.T) {
	tests := []struct {
		name     string
		snapshot contracts.TickerSnapshot
		want     int
	}{
		{"trailing PE 15 is moderate", contracts.TickerSnapshot{TrailingPE: contracts.Float(15)}, 15},
		{"trailing PE 25 is high", contracts.TickerSnapshot{TrailingPE: contracts.Float(25)}, 5},
		{"negative trailing PE", contracts.TickerSnapshot{TrailingPE: contracts.Float(-3)}, 0},
		{"forward PE 24.9", contracts.TickerSnapshot{ForwardPE: contracts.Float(24.9)}, 10},
		{"forward PE 40", contracts.TickerSnapshot{ForwardPE: contracts.Float(40)}, 2},
		{"yield 3%", contracts.TickerSnapshot{DividendYield: contracts.Float(0.03)}, 20},
		{"yield 1%", contracts.TickerSnapshot{DividendYield: contracts.Float(0.01)}, 10},
		{"yield 0.5%", contracts.TickerSnapshot{DividendYield: contracts.Float(0.005)}, 5},
		{"zero yield", contracts.TickerSnapshot{DividendYield: contracts.Float(0)}, 0},
		{"mega cap", contracts.TickerSnapshot{MarketCap: contracts.Float(200e9)}, 15},
		{"large cap", contracts.TickerSnapshot{MarketCap: contracts.Float(10e9)}, 10},
		{"mid cap", contracts.TickerSnapshot{MarketCap: contracts.Float(2e9)}, 5},
		{"small cap", contracts.TickerSnapshot{MarketCap: contracts.Float(5e8)}, 0},
		{"negative beta is low", contracts.TickerSnapshot{Beta: contracts.Float(-0.3)}, 20},
		{"beta 0.8", contracts.TickerSnapshot{Beta: contracts.Float(0.8)}, 10},
		{"beta 1.2", contracts.TickerSnapshot{Beta: contracts.Float(1.2)}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FundamentalScorer{}.Score(&tt.snapshot)
			assert.Equal(t, tt.want, got.Score)
			assert.Len(t, got.Reasons, 5, "one reason per metric when any metric is present")
		})
	}
}

func TestFundamentalScorer_UnavailableNotes(t *testing.T) {
	s := &contracts.TickerSnapshot{Beta: contracts.Float(1.0)}

	got := FundamentalScorer{}.Score(s)

	assert.Equal(t, 10, got.Score)
	assert.Equal(t, []string{
		"Trailing P/E Ratio N/A or not positive, limiting valuation insight.",
		"Forward P/E Ratio N/A or not positive.",
		"No significant dividend yield, common for growth stocks or those reinvesting earnings.",
		"Market capitalization data unavailable.",
		"Moderate Beta (1.00) suggests volatility in line with the market.",
	}, got.Reasons)
}
