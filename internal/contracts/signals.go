package contracts

// Suggestion is the discrete recommendation derived from the overall score
type Suggestion string

const (
	SuggestionStrongBuy  Suggestion = "Strong Buy"
	SuggestionBuy        Suggestion = "Buy"
	SuggestionHold       Suggestion = "Hold"
	SuggestionSell       Suggestion = "Sell"
	SuggestionStrongSell Suggestion = "Strong Sell"
)

// ScoreResult is the uniform output of every scorer
// ⭐ SSOT: 0 <= Score <= 100
type ScoreResult struct {
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
}

// ScoreBreakdown holds each sub-score of a report
type ScoreBreakdown struct {
	AnalystRating     int `json:"analystRating"`
	AnalystUpside     int `json:"analystUpside"`
	FinancialAnalysis int `json:"financialAnalysis"`
	TechnicalAnalysis int `json:"technicalAnalysis"`
}

// Total returns the sum of the four sub-scores
func (b ScoreBreakdown) Total() int {
	return b.AnalystRating + b.AnalystUpside + b.FinancialAnalysis + b.TechnicalAnalysis
}

// AnalysisReport is the scoring engine output
// Reasons[0] is the overall statement, followed by Rating, Upside, Financial, Technical.
type AnalysisReport struct {
	OverallScore   int            `json:"overallScore"`
	Suggestion     Suggestion     `json:"suggestion"`
	ScoreBreakdown ScoreBreakdown `json:"scoreBreakdown"`
	Reasons        []string       `json:"reasons"`
}

// IsBuy reports whether the suggestion is Buy or Strong Buy
func (r *AnalysisReport) IsBuy() bool {
	return r.Suggestion == SuggestionStrongBuy || r.Suggestion == SuggestionBuy
}

// ReportUpdate is pushed to report stream subscribers after a refresh
type ReportUpdate struct {
	Ticker string         `json:"ticker"`
	Report AnalysisReport `json:"report"`
}
