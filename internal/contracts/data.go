package contracts

import (
	"math"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TickerSnapshot is a point-in-time set of market attributes for one ticker
// ⭐ SSOT: the only input the scoring engine accepts
//
// Every field is optional. A nil pointer means the provider did not supply
// the value; scorers treat it as missing data, never as zero.
type TickerSnapshot struct {
	Ticker string `json:"ticker"`

	CurrentPrice  *float64 `json:"current_price,omitempty"`
	PreviousClose *float64 `json:"previous_close,omitempty"`
	Open          *float64 `json:"open,omitempty"`
	High          *float64 `json:"high,omitempty"`
	Low           *float64 `json:"low,omitempty"`
	Volume        *int64   `json:"volume,omitempty"`

	// Fundamentals
	MarketCap     *float64 `json:"market_cap,omitempty"`
	TrailingPE    *float64 `json:"trailing_pe,omitempty"`
	ForwardPE     *float64 `json:"forward_pe,omitempty"`
	DividendYield *float64 `json:"dividend_yield,omitempty"` // fraction, 0.015 = 1.5%
	Beta          *float64 `json:"beta,omitempty"`

	FiftyTwoWeekHigh *float64 `json:"fifty_two_week_high,omitempty"`
	FiftyTwoWeekLow  *float64 `json:"fifty_two_week_low,omitempty"`

	// Analyst consensus
	AnalystRecommendationKey *string  `json:"analyst_recommendation_key,omitempty"` // "strong_buy" or "Strong Buy"
	AnalystTargetMeanPrice   *float64 `json:"analyst_target_mean_price,omitempty"`

	// Daily bars, chronological (may be empty)
	HistoricalBars []Bar `json:"historical_bars,omitempty"`
}

// Bar is one daily OHLCV record
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Upside returns the analyst target-implied upside as a fraction.
// nil when either price is missing, zero or not finite.
func (s *TickerSnapshot) Upside() *float64 {
	if s.AnalystTargetMeanPrice == nil || s.CurrentPrice == nil {
		return nil
	}
	target, current := *s.AnalystTargetMeanPrice, *s.CurrentPrice
	if target == 0 || current == 0 || !isFinite(target) || !isFinite(current) {
		return nil
	}
	upside := (target - current) / current
	return &upside
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// RecommendationLabel returns the normalized analyst label ("strong_buy" -> "Strong Buy").
// Empty when the key is missing.
func (s *TickerSnapshot) RecommendationLabel() string {
	if s.AnalystRecommendationKey == nil {
		return ""
	}
	return NormalizeRecommendation(*s.AnalystRecommendationKey)
}

// NormalizeRecommendation turns a provider recommendation key into a display label
func NormalizeRecommendation(key string) string {
	key = strings.TrimSpace(strings.ReplaceAll(key, "_", " "))
	if key == "" {
		return ""
	}
	return cases.Title(language.English).String(key)
}

// CompanyProfile holds display-only company information. Never scored.
type CompanyProfile struct {
	Name              string `json:"name"`
	Currency          string `json:"currency,omitempty"`
	Industry          string `json:"industry,omitempty"`
	Sector            string `json:"sector,omitempty"`
	FullTimeEmployees *int64 `json:"full_time_employees,omitempty"`
	BusinessSummary   string `json:"business_summary,omitempty"`
	Website           string `json:"website,omitempty"`
	ExDividendDate    string `json:"ex_dividend_date,omitempty"` // YYYY-MM-DD
	IPODate           string `json:"ipo_date,omitempty"`         // YYYY-MM-DD
}

// MarketSnapshot is what a provider returns for one ticker
type MarketSnapshot struct {
	Snapshot  TickerSnapshot `json:"snapshot"`
	Profile   CompanyProfile `json:"profile"`
	Warnings  []string       `json:"warnings,omitempty"`
	FetchedAt time.Time      `json:"fetched_at"`
}

// Float returns a pointer to v
func Float(v float64) *float64 {
	return &v
}

// Int returns a pointer to v
func Int(v int64) *int64 {
	return &v
}

// String returns a pointer to v
func String(v string) *string {
	return &v
}
