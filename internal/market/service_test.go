package market

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShrayBagga/StockAnalysis/internal/contracts"
	"github.com/ShrayBagga/StockAnalysis/internal/external/yahoo"
	"github.com/ShrayBagga/StockAnalysis/internal/scoring"
	"github.com/ShrayBagga/StockAnalysis/pkg/config"
	"github.com/ShrayBagga/StockAnalysis/pkg/httputil"
	"github.com/ShrayBagga/StockAnalysis/pkg/logger"
)

type fakeProvider struct {
	calls   int32
	err     error
	release chan struct{}
}

func (f *fakeProvider) Snapshot(ctx context.Context, ticker string) (*contracts.MarketSnapshot, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &contracts.MarketSnapshot{
		Snapshot: contracts.TickerSnapshot{
			Ticker:                   ticker,
			CurrentPrice:             contracts.Float(100),
			PreviousClose:            contracts.Float(98),
			AnalystRecommendationKey: contracts.String("buy"),
		},
		Profile:   contracts.CompanyProfile{Name: ticker + " Corp"},
		Warnings:  []string{"No historical data found for " + ticker + "."},
		FetchedAt: time.Now(),
	}, nil
}

func (f *fakeProvider) Calls() int {
	return int(atomic.LoadInt32(&f.calls))
}

func newTestService(provider contracts.SnapshotProvider) *Service {
	log := logger.Nop()
	return NewService(provider, scoring.NewEngine(log), nil, config.MarketConfig{CacheTTL: time.Hour}, log)
}

func TestNormalizeTicker(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"aapl", "AAPL", false},
		{"  msft ", "MSFT", false},
		{"brk.b", "BRK.B", false},
		{"^gspc", "^GSPC", false},
		{"eurusd=x", "EURUSD=X", false},
		{"", "", true},
		{"   ", "", true},
		{"AA PL", "", true},
		{"../etc", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NormalizeTicker(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTicker)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStockData(t *testing.T) {
	provider := &fakeProvider{}
	svc := newTestService(provider)

	data, warnings, err := svc.StockData(context.Background(), "aapl")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", data.Ticker)
	assert.Equal(t, "AAPL Corp", data.CompanyName)
	assert.Equal(t, "Buy", data.AnalystRecommendation)
	assert.Equal(t, 80, data.ScoreBreakdown.AnalystRating)
	assert.Len(t, data.Reasons, 5)
	assert.Equal(t, []string{"No historical data found for AAPL."}, warnings)
}

func TestStockData_CacheHitSkipsProvider(t *testing.T) {
	provider := &fakeProvider{}
	svc := newTestService(provider)
	ctx := context.Background()

	_, _, err := svc.StockData(ctx, "AAPL")
	require.NoError(t, err)
	_, _, err = svc.StockData(ctx, "aapl ")
	require.NoError(t, err)

	assert.Equal(t, 1, provider.Calls())
}

func TestStockData_ExpiredEntryIsRefetched(t *testing.T) {
	provider := &fakeProvider{}
	svc := newTestService(provider)
	ctx := context.Background()

	_, _, err := svc.StockData(ctx, "AAPL")
	require.NoError(t, err)

	svc.memory.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, _, err = svc.StockData(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 2, provider.Calls())
}

func TestRefresh_BypassesCache(t *testing.T) {
	provider := &fakeProvider{}
	svc := newTestService(provider)
	ctx := context.Background()

	_, _, err := svc.StockData(ctx, "MSFT")
	require.NoError(t, err)
	_, _, err = svc.Refresh(ctx, "MSFT")
	require.NoError(t, err)
	_, _, err = svc.StockData(ctx, "MSFT")
	require.NoError(t, err)

	assert.Equal(t, 2, provider.Calls())
}

func TestStockData_InvalidTicker(t *testing.T) {
	provider := &fakeProvider{}
	svc := newTestService(provider)

	_, _, err := svc.StockData(context.Background(), " ")
	assert.ErrorIs(t, err, ErrInvalidTicker)
	assert.Equal(t, 0, provider.Calls())
}

func TestStockData_ProviderFailure(t *testing.T) {
	provider := &fakeProvider{err: yahoo.ErrTickerNotFound}
	svc := newTestService(provider)

	_, _, err := svc.StockData(context.Background(), "NOPE")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoData)
	assert.ErrorIs(t, err, yahoo.ErrTickerNotFound)
	assert.Equal(t, 0, svc.memory.Len(), "failures are not cached")
}

func TestStockData_ConcurrentFetchesCollapse(t *testing.T) {
	provider := &fakeProvider{release: make(chan struct{})}
	svc := newTestService(provider)

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := svc.StockData(context.Background(), "GOOGL")
			errs <- err
		}()
	}

	// give every goroutine time to join the in-flight call
	time.Sleep(50 * time.Millisecond)
	close(provider.release)
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 1, provider.Calls())
}

func TestStockData_CancelledCallerDoesNotFailJoinedCallers(t *testing.T) {
	provider := &fakeProvider{release: make(chan struct{})}
	svc := newTestService(provider)

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, _, err := svc.StockData(leaderCtx, "MSFT")
		leaderErr <- err
	}()
	require.Eventually(t, func() bool { return provider.Calls() == 1 }, time.Second, 5*time.Millisecond)

	type outcome struct {
		data *contracts.StockData
		err  error
	}
	follower := make(chan outcome, 1)
	go func() {
		data, _, err := svc.StockData(context.Background(), "MSFT")
		follower <- outcome{data, err}
	}()

	// let the follower join before the leader goes away
	time.Sleep(50 * time.Millisecond)
	cancelLeader()

	select {
	case err := <-leaderErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled caller kept waiting for the shared fetch")
	}

	close(provider.release)

	got := <-follower
	require.NoError(t, got.err)
	assert.Equal(t, "MSFT", got.data.Ticker)
	assert.Equal(t, 1, provider.Calls())
	assert.Equal(t, 1, svc.CacheSize(), "the detached fetch still fills the cache")
}

func TestStockData_FetchTimeoutBoundsSharedFetch(t *testing.T) {
	log := logger.Nop()
	provider := &fakeProvider{release: make(chan struct{})}
	defer close(provider.release)
	svc := NewService(provider, scoring.NewEngine(log), nil, config.MarketConfig{CacheTTL: time.Hour, FetchTimeout: 30 * time.Millisecond}, log)

	_, _, err := svc.StockData(context.Background(), "NVDA")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoData)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStockData_ThrottleHonoursContext(t *testing.T) {
	log := logger.Nop()
	provider := &fakeProvider{}
	svc := NewService(provider, scoring.NewEngine(log), nil, config.MarketConfig{CacheTTL: time.Hour, MinInterval: time.Hour, FetchTimeout: time.Second}, log)

	_, _, err := svc.StockData(context.Background(), "AAPL")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, _, err = svc.StockData(ctx, "MSFT")
	require.Error(t, err)
	assert.Equal(t, 1, provider.Calls())
}

func TestFailureDetails(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"invalid", ErrInvalidTicker, "is not a valid ticker symbol"},
		{"rate limited", &httputil.StatusError{StatusCode: 429}, "Rate limit hit for AAPL"},
		{"not found", errors.Join(ErrNoData, yahoo.ErrTickerNotFound), "Could not retrieve any data for AAPL"},
		{"timeout", context.DeadlineExceeded, "timed out"},
		{"other", errors.New("connection reset"), "Last error: connection reset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FailureDetails("AAPL", tt.err)
			require.Len(t, got, 1)
			assert.Contains(t, got[0], tt.want)
		})
	}
}
