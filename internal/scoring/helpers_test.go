package scoring

import (
	"time"

	"github.com/ShrayBagga/StockAnalysis/internal/contracts"
)

var seriesStart = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

// linearBars builds n daily bars with close = start + i*step
func linearBars(n int, start, step float64) []contracts.Bar {
	bars := make([]contracts.Bar, n)
	for i := range bars {
		c := start + float64(i)*step
		bars[i] = contracts.Bar{
			Date:   seriesStart.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1_000_000,
		}
	}
	return bars
}

func closesOf(bars []contracts.Bar) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

// fixedScorer always returns the same score
type fixedScorer struct {
	name  string
	score int
}

func (f fixedScorer) Name() string { return f.name }

func (f fixedScorer) Score(*contracts.TickerSnapshot) contracts.ScoreResult {
	return contracts.ScoreResult{Score: f.score, Reasons: []string{f.name + " reason"}}
}
