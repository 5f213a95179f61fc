package contracts

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

func TestTickerSnapshot_Upside(t *testing.T) {
	tests := []struct {
		name    string
		target  *float64
		current *float64
		want    *float64
	}{
		{"both present", Float(120), Float(100), Float(0.2)},
		{"downside", Float(90), Float(100), Float(-0.1)},
		{"missing target", nil, Float(100), nil},
		{"missing price", Float(120), nil, nil},
		{"zero target", Float(0), Float(100), nil},
		{"zero price", Float(120), Float(0), nil},
		{"NaN price", Float(10), Float(math.NaN()), nil},
		{"NaN target", Float(math.NaN()), Float(100), nil},
		{"infinite target", Float(math.Inf(1)), Float(100), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := TickerSnapshot{AnalystTargetMeanPrice: tt.target, CurrentPrice: tt.current}
			got := s.Upside()

			if tt.want == nil {
				if got != nil {
					t.Errorf("Upside() = %v, want nil", *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("Upside() = nil, want %v", *tt.want)
			}
			if math.Abs(*got-*tt.want) > 1e-9 {
				t.Errorf("Upside() = %v, want %v", *got, *tt.want)
			}
		})
	}
}

func TestNormalizeRecommendation(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"strong_buy", "Strong Buy"},
		{"buy", "Buy"},
		{"hold", "Hold"},
		{"underperform", "Underperform"},
		{"Strong Sell", "Strong Sell"},
		{"STRONG_SELL", "Strong Sell"},
		{"  ", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeRecommendation(tt.input); got != tt.want {
				t.Errorf("NormalizeRecommendation(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTickerSnapshot_RecommendationLabel(t *testing.T) {
	s := TickerSnapshot{}
	if got := s.RecommendationLabel(); got != "" {
		t.Errorf("RecommendationLabel() = %q, want empty", got)
	}

	s.AnalystRecommendationKey = String("strong_buy")
	if got := s.RecommendationLabel(); got != "Strong Buy" {
		t.Errorf("RecommendationLabel() = %q, want %q", got, "Strong Buy")
	}
}

func TestTickerSnapshot_JSONOmitsMissing(t *testing.T) {
	s := TickerSnapshot{Ticker: "AAPL", CurrentPrice: Float(190)}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if _, ok := raw["trailing_pe"]; ok {
		t.Error("missing trailing P/E should be omitted, not encoded as zero")
	}
	if raw["current_price"] != 190.0 {
		t.Errorf("current_price = %v, want 190", raw["current_price"])
	}
}

func TestNewStockData(t *testing.T) {
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	ms := &MarketSnapshot{
		Snapshot: TickerSnapshot{
			Ticker:                   "AAPL",
			CurrentPrice:             Float(110),
			PreviousClose:            Float(100),
			TrailingPE:               Float(28.5),
			AnalystRecommendationKey: String("buy"),
			AnalystTargetMeanPrice:   Float(132),
			HistoricalBars: []Bar{
				{Date: day, Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 1000},
			},
		},
		Profile: CompanyProfile{Name: "Apple Inc.", ExDividendDate: "2024-02-09"},
	}
	report := AnalysisReport{OverallScore: 72, Suggestion: SuggestionBuy, Reasons: []string{"Overall Recommendation: Buy"}}

	data := NewStockData(ms, report)

	if data.CompanyName != "Apple Inc." {
		t.Errorf("CompanyName = %q", data.CompanyName)
	}
	if data.PriceChange == nil || math.Abs(*data.PriceChange-10) > 1e-9 {
		t.Errorf("PriceChange = %v, want 10", data.PriceChange)
	}
	if data.PercentChange == nil || math.Abs(*data.PercentChange-10) > 1e-9 {
		t.Errorf("PercentChange = %v, want 10", data.PercentChange)
	}
	if data.AnalystUpside == nil || math.Abs(*data.AnalystUpside-0.2) > 1e-9 {
		t.Errorf("AnalystUpside = %v, want 0.2", data.AnalystUpside)
	}
	if data.AnalystRecommendation != "Buy" {
		t.Errorf("AnalystRecommendation = %q, want Buy", data.AnalystRecommendation)
	}
	if data.IPO != "N/A" {
		t.Errorf("IPO = %q, want N/A", data.IPO)
	}
	if data.ExDividendDate == nil || *data.ExDividendDate != "2024-02-09" {
		t.Errorf("ExDividendDate = %v", data.ExDividendDate)
	}
	if len(data.HistoricalData) != 1 || data.HistoricalData[0].Date != "2024-03-15" {
		t.Errorf("HistoricalData = %+v", data.HistoricalData)
	}
	if data.OverallScore != 72 || data.Suggestion != SuggestionBuy {
		t.Errorf("report fields not copied: %d %s", data.OverallScore, data.Suggestion)
	}
}

func TestNewStockData_Fallbacks(t *testing.T) {
	ms := &MarketSnapshot{
		Snapshot: TickerSnapshot{
			Ticker:        "XYZ",
			CurrentPrice:  Float(5),
			PreviousClose: Float(0),
		},
	}

	data := NewStockData(ms, AnalysisReport{})

	if data.CompanyName != "N/A" {
		t.Errorf("CompanyName = %q, want N/A", data.CompanyName)
	}
	if data.BusinessSummary != "No business summary available." {
		t.Errorf("BusinessSummary = %q", data.BusinessSummary)
	}
	if data.AnalystRecommendation != "Data Unavailable" {
		t.Errorf("AnalystRecommendation = %q", data.AnalystRecommendation)
	}
	if data.PercentChange == nil || *data.PercentChange != 0 {
		t.Errorf("PercentChange = %v, want 0 when previous close is zero", data.PercentChange)
	}
	if data.AnalystUpside != nil {
		t.Errorf("AnalystUpside = %v, want nil", *data.AnalystUpside)
	}
	if data.HistoricalData == nil {
		t.Error("HistoricalData should encode as [] not null")
	}
}

func TestStockData_WireNames(t *testing.T) {
	data := NewStockData(&MarketSnapshot{Snapshot: TickerSnapshot{
		Ticker:           "AAPL",
		FiftyTwoWeekHigh: Float(200),
		TrailingPE:       Float(30),
	}}, AnalysisReport{})

	encoded, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(encoded, &raw); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	for _, key := range []string{"companyName", "peRatio", "52WeekHigh", "historicalData", "scoreBreakdown", "overallScore"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing JSON key %q", key)
		}
	}
}
