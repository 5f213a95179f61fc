package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ShrayBagga/StockAnalysis/internal/contracts"
	"github.com/ShrayBagga/StockAnalysis/pkg/logger"
)

func TestSnapshotCache(t *testing.T) {
	now := time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)
	cache := NewSnapshotCache(time.Hour, logger.Nop())
	cache.now = func() time.Time { return now }

	cache.Set("AAPL", &contracts.MarketSnapshot{FetchedAt: now.Add(-30 * time.Minute)})
	cache.Set("MSFT", &contracts.MarketSnapshot{FetchedAt: now.Add(-2 * time.Hour)})

	_, ok := cache.Get("AAPL")
	assert.True(t, ok)
	_, ok = cache.Get("MSFT")
	assert.False(t, ok, "expired entry is a miss")
	_, ok = cache.Get("GOOGL")
	assert.False(t, ok)

	assert.Equal(t, 2, cache.Len())
	assert.Equal(t, 1, cache.Prune())
	assert.Equal(t, 1, cache.Len())

	cache.Delete("AAPL")
	assert.Equal(t, 0, cache.Len())
}
