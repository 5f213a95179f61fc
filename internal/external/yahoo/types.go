package yahoo

import (
	"bytes"
	"encoding/json"
)

// summaryModules are the quoteSummary modules a snapshot needs
const summaryModules = "financialData,summaryDetail,defaultKeyStatistics,assetProfile,price,quoteType"

// rawValue decodes Yahoo's {"raw": 1.23, "fmt": "1.23"} wrapper.
// A bare number is accepted too. {} and null leave the value unset.
type rawValue struct {
	Value *float64
}

func (r *rawValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '{' {
		var wrapped struct {
			Raw *float64 `json:"raw"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return err
		}
		r.Value = wrapped.Raw
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		// Yahoo sometimes sends "Infinity" as a string; treat as missing
		return nil
	}
	r.Value = &v
	return nil
}

// quoteSummaryResponse is the envelope of /v10/finance/quoteSummary
type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []summaryResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

type summaryResult struct {
	FinancialData struct {
		RecommendationKey string   `json:"recommendationKey"`
		TargetMeanPrice   rawValue `json:"targetMeanPrice"`
		CurrentPrice      rawValue `json:"currentPrice"`
	} `json:"financialData"`

	SummaryDetail struct {
		Beta             rawValue `json:"beta"`
		DividendYield    rawValue `json:"dividendYield"`
		ExDividendDate   rawValue `json:"exDividendDate"`
		TrailingPE       rawValue `json:"trailingPE"`
		ForwardPE        rawValue `json:"forwardPE"`
		MarketCap        rawValue `json:"marketCap"`
		FiftyTwoWeekHigh rawValue `json:"fiftyTwoWeekHigh"`
		FiftyTwoWeekLow  rawValue `json:"fiftyTwoWeekLow"`
	} `json:"summaryDetail"`

	DefaultKeyStatistics struct {
		Beta      rawValue `json:"beta"`
		ForwardPE rawValue `json:"forwardPE"`
	} `json:"defaultKeyStatistics"`

	AssetProfile struct {
		Industry            string   `json:"industry"`
		Sector              string   `json:"sector"`
		FullTimeEmployees   rawValue `json:"fullTimeEmployees"`
		LongBusinessSummary string   `json:"longBusinessSummary"`
		Website             string   `json:"website"`
	} `json:"assetProfile"`

	Price struct {
		LongName  string `json:"longName"`
		ShortName string `json:"shortName"`
		Currency  string `json:"currency"`
	} `json:"price"`

	QuoteType struct {
		FirstTradeDateEpochUTC rawValue `json:"firstTradeDateEpochUtc"`
	} `json:"quoteType"`
}

// Summary is the analyst, risk and profile data taken from quoteSummary
type Summary struct {
	RecommendationKey string
	TargetMeanPrice   *float64
	Beta              *float64
	DividendYield     *float64
	TrailingPE        *float64
	ForwardPE         *float64
	MarketCap         *float64
	FiftyTwoWeekHigh  *float64
	FiftyTwoWeekLow   *float64

	Name              string
	Currency          string
	Industry          string
	Sector            string
	FullTimeEmployees *int64
	BusinessSummary   string
	Website           string
	ExDividendDate    string
	IPODate           string
}

// Quote is the real-time part of a snapshot
type Quote struct {
	Symbol           string
	Name             string
	Currency         string
	Price            *float64
	PreviousClose    *float64
	Open             *float64
	DayHigh          *float64
	DayLow           *float64
	Volume           *int64
	MarketCap        *float64
	TrailingPE       *float64
	ForwardPE        *float64
	DividendYield    *float64
	FiftyTwoWeekHigh *float64
	FiftyTwoWeekLow  *float64
}
