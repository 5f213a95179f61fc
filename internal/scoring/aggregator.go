package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/ShrayBagga/StockAnalysis/internal/contracts"
)

// Weight of each sub-score in the overall score
const SubScoreWeight = 0.25

type suggestionTier struct {
	min        int
	suggestion contracts.Suggestion
	statement  string
}

// suggestionTiers is evaluated top-down, first match wins
var suggestionTiers = []suggestionTier{
	{85, contracts.SuggestionStrongBuy, "The stock exhibits excellent performance across all key indicators, suggesting a high-conviction buying opportunity."},
	{70, contracts.SuggestionBuy, "The stock shows strong potential with favorable analyst sentiment, solid financials, and positive technical trends."},
	{50, contracts.SuggestionHold, "The stock presents a balanced profile. Consider holding if already invested, or wait for clearer signals if not."},
	{30, contracts.SuggestionSell, "The stock shows some concerning indicators across analyst, financial, or technical fronts. Consider exiting your position."},
	{math.MinInt, contracts.SuggestionStrongSell, "The stock demonstrates significant weaknesses, indicating a high risk and strong recommendation to sell."},
}

// Aggregator runs the four scorers and combines them into a report
// ⭐ SSOT: overall score, suggestion and reason ordering are decided here only
type Aggregator struct {
	rating      Scorer
	upside      Scorer
	fundamental Scorer
	technical   Scorer
}

// NewAggregator creates an aggregator with the standard scorers
func NewAggregator() *Aggregator {
	return &Aggregator{
		rating:      RatingScorer{},
		upside:      UpsideScorer{},
		fundamental: FundamentalScorer{},
		technical:   TechnicalScorer{},
	}
}

var defaultAggregator = NewAggregator()

// Analyze scores a snapshot with the standard scorers
func Analyze(snapshot contracts.TickerSnapshot) contracts.AnalysisReport {
	return defaultAggregator.Analyze(snapshot)
}

// Analyze runs Rating, Upside, Financial and Technical in that order.
// Pure and deterministic: the same snapshot always yields the same report.
func (a *Aggregator) Analyze(snapshot contracts.TickerSnapshot) contracts.AnalysisReport {
	rating := a.rating.Score(&snapshot)
	upside := a.upside.Score(&snapshot)
	fundamental := a.fundamental.Score(&snapshot)
	technical := a.technical.Score(&snapshot)

	breakdown := contracts.ScoreBreakdown{
		AnalystRating:     rating.Score,
		AnalystUpside:     upside.Score,
		FinancialAnalysis: fundamental.Score,
		TechnicalAnalysis: technical.Score,
	}

	overall := OverallScore(breakdown)
	tier := suggestionFor(overall)

	reasons := []string{
		fmt.Sprintf("Overall Recommendation: %s - %s", tier.suggestion, tier.statement),
		fmt.Sprintf("Analyst Rating: %s - %s (Score: %d%%)", ratingLabel(&snapshot), joinReasons(rating), rating.Score),
		fmt.Sprintf("Analyst Upside: %s - %s (Score: %d%%)", upsideLabel(&snapshot), joinReasons(upside), upside.Score),
		fmt.Sprintf("Financial Analysis: %s (Score: %d%%)", joinReasons(fundamental), fundamental.Score),
		fmt.Sprintf("Technical Analysis: %s (Score: %d%%)", joinReasons(technical), technical.Score),
	}

	return contracts.AnalysisReport{
		OverallScore:   overall,
		Suggestion:     tier.suggestion,
		ScoreBreakdown: breakdown,
		Reasons:        reasons,
	}
}

// OverallScore weights each sub-score equally and rounds half away from zero
func OverallScore(b contracts.ScoreBreakdown) int {
	weighted := SubScoreWeight*float64(b.AnalystRating) +
		SubScoreWeight*float64(b.AnalystUpside) +
		SubScoreWeight*float64(b.FinancialAnalysis) +
		SubScoreWeight*float64(b.TechnicalAnalysis)
	return clamp(int(math.Round(weighted)))
}

// SuggestionFor maps an overall score to its suggestion
func SuggestionFor(overall int) contracts.Suggestion {
	return suggestionFor(overall).suggestion
}

func suggestionFor(overall int) suggestionTier {
	for _, tier := range suggestionTiers {
		if overall >= tier.min {
			return tier
		}
	}
	return suggestionTiers[len(suggestionTiers)-1]
}

func ratingLabel(s *contracts.TickerSnapshot) string {
	if label := s.RecommendationLabel(); label != "" {
		return label
	}
	return "Data Unavailable"
}

func upsideLabel(s *contracts.TickerSnapshot) string {
	upside := s.Upside()
	if upside == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f%%", *upside*100)
}

func joinReasons(r contracts.ScoreResult) string {
	return strings.Join(r.Reasons, "; ")
}
