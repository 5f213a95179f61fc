package yahoo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"

	"github.com/ShrayBagga/StockAnalysis/internal/contracts"
	"github.com/ShrayBagga/StockAnalysis/pkg/config"
	"github.com/ShrayBagga/StockAnalysis/pkg/httputil"
	"github.com/ShrayBagga/StockAnalysis/pkg/logger"
)

// ErrTickerNotFound is returned when Yahoo knows nothing about the symbol
var ErrTickerNotFound = errors.New("ticker not found")

type (
	equityFetcher func(symbol string) (*finance.Equity, error)
	barsFetcher   func(symbol string, start, end time.Time) ([]finance.ChartBar, error)
)

// Client fetches quotes, summaries and daily history from Yahoo Finance
// ⭐ SSOT: every Yahoo Finance call goes through this client
type Client struct {
	httpClient    *httputil.Client
	logger        *logger.Logger
	summaryURL    string
	historyPeriod time.Duration
	retry         retryPolicy

	getEquity equityFetcher
	getBars   barsFetcher
	now       func() time.Time
}

// NewClient creates a new Yahoo Finance client
func NewClient(cfg *config.Config, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient:    httpClient,
		logger:        log,
		summaryURL:    strings.TrimRight(cfg.Yahoo.QuoteSummaryURL, "/"),
		historyPeriod: cfg.Yahoo.HistoryPeriod,
		retry: retryPolicy{
			attempts: cfg.Yahoo.MaxRetries + 1,
			wait:     cfg.Yahoo.RetryWait,
			maxWait:  cfg.Yahoo.RetryMaxWait,
		},
		getEquity: equity.Get,
		getBars:   chartBars,
		now:       time.Now,
	}
}

// chartBars drains a finance-go chart iterator
func chartBars(symbol string, start, end time.Time) ([]finance.ChartBar, error) {
	params := &chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	}

	iter := chart.Get(params)

	bars := make([]finance.ChartBar, 0, 260)
	for iter.Next() {
		bars = append(bars, *iter.Bar())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	return bars, nil
}

// Quote fetches the real-time quote. Zero values from finance-go are reported as missing.
func (c *Client) Quote(ctx context.Context, ticker string) (*Quote, error) {
	var eq *finance.Equity
	err := c.retry.do(ctx, c.logger.WithTicker(ticker), "quote", func() error {
		var err error
		eq, err = c.getEquity(ticker)
		if err != nil {
			return err
		}
		if eq == nil {
			return fmt.Errorf("%w: %s", ErrTickerNotFound, ticker)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch quote for %s: %w", ticker, err)
	}

	name := eq.LongName
	if name == "" {
		name = eq.ShortName
	}

	return &Quote{
		Symbol:           ticker,
		Name:             name,
		Currency:         eq.CurrencyID,
		Price:            nonZero(eq.RegularMarketPrice),
		PreviousClose:    nonZero(eq.RegularMarketPreviousClose),
		Open:             nonZero(eq.RegularMarketOpen),
		DayHigh:          nonZero(eq.RegularMarketDayHigh),
		DayLow:           nonZero(eq.RegularMarketDayLow),
		Volume:           nonZeroInt(int64(eq.RegularMarketVolume)),
		MarketCap:        nonZero(float64(eq.MarketCap)),
		TrailingPE:       nonZero(eq.TrailingPE),
		ForwardPE:        nonZero(eq.ForwardPE),
		DividendYield:    nonZero(eq.TrailingAnnualDividendYield),
		FiftyTwoWeekHigh: nonZero(eq.FiftyTwoWeekHigh),
		FiftyTwoWeekLow:  nonZero(eq.FiftyTwoWeekLow),
	}, nil
}

// Summary fetches analyst consensus, risk metrics and the company profile.
// Retries on transport errors, 429 and 5xx happen inside the HTTP client.
func (c *Client) Summary(ctx context.Context, ticker string) (*Summary, error) {
	url := fmt.Sprintf("%s/%s", c.summaryURL, ticker)

	var resp quoteSummaryResponse
	if err := c.httpClient.GetJSON(ctx, url, map[string]string{"modules": summaryModules}, &resp); err != nil {
		return nil, fmt.Errorf("fetch summary for %s: %w", ticker, err)
	}

	if e := resp.QuoteSummary.Error; e != nil {
		return nil, fmt.Errorf("fetch summary for %s: %s: %s", ticker, e.Code, e.Description)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("fetch summary for %s: %w", ticker, ErrTickerNotFound)
	}

	return parseSummary(&resp.QuoteSummary.Result[0]), nil
}

func parseSummary(r *summaryResult) *Summary {
	s := &Summary{
		RecommendationKey: strings.TrimSpace(r.FinancialData.RecommendationKey),
		TargetMeanPrice:   r.FinancialData.TargetMeanPrice.Value,
		Beta:              firstOf(r.SummaryDetail.Beta.Value, r.DefaultKeyStatistics.Beta.Value),
		DividendYield:     r.SummaryDetail.DividendYield.Value,
		TrailingPE:        r.SummaryDetail.TrailingPE.Value,
		ForwardPE:         firstOf(r.SummaryDetail.ForwardPE.Value, r.DefaultKeyStatistics.ForwardPE.Value),
		MarketCap:         r.SummaryDetail.MarketCap.Value,
		FiftyTwoWeekHigh:  r.SummaryDetail.FiftyTwoWeekHigh.Value,
		FiftyTwoWeekLow:   r.SummaryDetail.FiftyTwoWeekLow.Value,
		Name:              r.Price.LongName,
		Currency:          r.Price.Currency,
		Industry:          r.AssetProfile.Industry,
		Sector:            r.AssetProfile.Sector,
		BusinessSummary:   r.AssetProfile.LongBusinessSummary,
		Website:           r.AssetProfile.Website,
		ExDividendDate:    epochDate(r.SummaryDetail.ExDividendDate.Value),
		IPODate:           epochDate(r.QuoteType.FirstTradeDateEpochUTC.Value),
	}

	if s.Name == "" {
		s.Name = r.Price.ShortName
	}
	if v := r.AssetProfile.FullTimeEmployees.Value; v != nil {
		employees := int64(*v)
		s.FullTimeEmployees = &employees
	}
	if s.RecommendationKey == "none" {
		s.RecommendationKey = ""
	}

	return s
}

// History fetches daily bars over the configured period, oldest first.
// Bars with a zero close are dropped.
func (c *Client) History(ctx context.Context, ticker string) ([]contracts.Bar, error) {
	end := c.now()
	start := end.Add(-c.historyPeriod)

	var raw []finance.ChartBar
	err := c.retry.do(ctx, c.logger.WithTicker(ticker), "history", func() error {
		var err error
		raw, err = c.getBars(ticker, start, end)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("fetch history for %s: %w", ticker, err)
	}

	bars := make([]contracts.Bar, 0, len(raw))
	for _, b := range raw {
		closePrice, _ := b.Close.Float64()
		if closePrice == 0 {
			continue
		}
		open, _ := b.Open.Float64()
		high, _ := b.High.Float64()
		low, _ := b.Low.Float64()

		bars = append(bars, contracts.Bar{
			Date:   time.Unix(int64(b.Timestamp), 0).UTC(),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: int64(b.Volume),
		})
	}

	return bars, nil
}

func nonZero(v float64) *float64 {
	if v == 0 {
		return nil
	}
	return &v
}

func nonZeroInt(v int64) *int64 {
	if v == 0 {
		return nil
	}
	return &v
}

func firstOf(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

// epochDate formats unix seconds as YYYY-MM-DD (UTC)
func epochDate(v *float64) string {
	if v == nil || *v <= 0 {
		return ""
	}
	return time.Unix(int64(*v), 0).UTC().Format(time.DateOnly)
}
