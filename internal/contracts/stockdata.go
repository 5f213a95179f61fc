package contracts

import "time"

// StockData is the /api/stock_data payload: quote, profile, history and report
// Field names follow the JSON contract of the web client.
type StockData struct {
	Ticker            string   `json:"ticker"`
	CompanyName       string   `json:"companyName"`
	CurrentPrice      *float64 `json:"currentPrice"`
	OpenPrice         *float64 `json:"openPrice"`
	PreviousClose     *float64 `json:"previousClose"`
	DayHigh           *float64 `json:"dayHigh"`
	DayLow            *float64 `json:"dayLow"`
	Volume            *int64   `json:"volume"`
	MarketCap         *float64 `json:"marketCap"`
	Currency          string   `json:"currency,omitempty"`
	Industry          string   `json:"industry,omitempty"`
	Sector            string   `json:"sector,omitempty"`
	FullTimeEmployees *int64   `json:"fullTimeEmployees"`
	BusinessSummary   string   `json:"businessSummary"`
	WebURL            string   `json:"weburl,omitempty"`

	PriceChange   *float64 `json:"priceChange"`
	PercentChange *float64 `json:"percentChange"`

	PERatio          *float64 `json:"peRatio"`
	ForwardPE        *float64 `json:"forwardPE"`
	DividendYield    *float64 `json:"dividendYield"`
	Beta             *float64 `json:"beta"`
	FiftyTwoWeekHigh *float64 `json:"52WeekHigh"`
	FiftyTwoWeekLow  *float64 `json:"52WeekLow"`
	ExDividendDate   *string  `json:"exDividendDate"`
	IPO              string   `json:"ipo"`

	AnalystRecommendation string   `json:"analystRecommendation"`
	AnalystTargetPrice    *float64 `json:"analystTargetPrice"`
	AnalystUpside         *float64 `json:"analystUpside"`

	HistoricalData []HistoricalRecord `json:"historicalData"`

	// Report
	OverallScore   int            `json:"overallScore"`
	Suggestion     Suggestion     `json:"suggestion"`
	ScoreBreakdown ScoreBreakdown `json:"scoreBreakdown"`
	Reasons        []string       `json:"reasons"`
}

// HistoricalRecord is one chart row of StockData
type HistoricalRecord struct {
	Date   string  `json:"Date"` // YYYY-MM-DD
	Open   float64 `json:"Open"`
	High   float64 `json:"High"`
	Low    float64 `json:"Low"`
	Close  float64 `json:"Close"`
	Volume int64   `json:"Volume"`
}

const (
	unavailableRecommendation = "Data Unavailable"
	noBusinessSummary         = "No business summary available."
	notAvailable              = "N/A"
)

// NewStockData flattens a snapshot, its profile and its report into the API payload
func NewStockData(ms *MarketSnapshot, report AnalysisReport) *StockData {
	s := ms.Snapshot
	p := ms.Profile

	data := &StockData{
		Ticker:            s.Ticker,
		CompanyName:       p.Name,
		CurrentPrice:      s.CurrentPrice,
		OpenPrice:         s.Open,
		PreviousClose:     s.PreviousClose,
		DayHigh:           s.High,
		DayLow:            s.Low,
		Volume:            s.Volume,
		MarketCap:         s.MarketCap,
		Currency:          p.Currency,
		Industry:          p.Industry,
		Sector:            p.Sector,
		FullTimeEmployees: p.FullTimeEmployees,
		BusinessSummary:   p.BusinessSummary,
		WebURL:            p.Website,
		PERatio:           s.TrailingPE,
		ForwardPE:         s.ForwardPE,
		DividendYield:     s.DividendYield,
		Beta:              s.Beta,
		FiftyTwoWeekHigh:  s.FiftyTwoWeekHigh,
		FiftyTwoWeekLow:   s.FiftyTwoWeekLow,
		IPO:               p.IPODate,

		AnalystTargetPrice: s.AnalystTargetMeanPrice,
		AnalystUpside:      s.Upside(),
		HistoricalData:     make([]HistoricalRecord, 0, len(s.HistoricalBars)),
		OverallScore:       report.OverallScore,
		Suggestion:         report.Suggestion,
		ScoreBreakdown:     report.ScoreBreakdown,
		Reasons:            report.Reasons,
	}

	if data.CompanyName == "" {
		data.CompanyName = notAvailable
	}
	if data.BusinessSummary == "" {
		data.BusinessSummary = noBusinessSummary
	}
	if data.IPO == "" {
		data.IPO = notAvailable
	}
	if p.ExDividendDate != "" {
		data.ExDividendDate = String(p.ExDividendDate)
	}

	data.AnalystRecommendation = s.RecommendationLabel()
	if data.AnalystRecommendation == "" {
		data.AnalystRecommendation = unavailableRecommendation
	}

	if s.CurrentPrice != nil && s.PreviousClose != nil {
		change := *s.CurrentPrice - *s.PreviousClose
		percent := 0.0
		if *s.PreviousClose != 0 {
			percent = change / *s.PreviousClose * 100
		}
		data.PriceChange = &change
		data.PercentChange = &percent
	}

	for _, bar := range s.HistoricalBars {
		data.HistoricalData = append(data.HistoricalData, HistoricalRecord{
			Date:   bar.Date.Format(time.DateOnly),
			Open:   bar.Open,
			High:   bar.High,
			Low:    bar.Low,
			Close:  bar.Close,
			Volume: bar.Volume,
		})
	}

	return data
}

// Report returns the scoring part of the payload
func (d *StockData) Report() AnalysisReport {
	return AnalysisReport{
		OverallScore:   d.OverallScore,
		Suggestion:     d.Suggestion,
		ScoreBreakdown: d.ScoreBreakdown,
		Reasons:        d.Reasons,
	}
}
