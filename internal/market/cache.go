package market

import (
	"sync"
	"time"

	"github.com/ShrayBagga/StockAnalysis/internal/contracts"
	"github.com/ShrayBagga/StockAnalysis/pkg/logger"
)

// SnapshotCache is an in-memory TTL cache of market snapshots
// ⭐ SSOT: process-local snapshot caching lives here only
type SnapshotCache struct {
	mu        sync.RWMutex
	snapshots map[string]*contracts.MarketSnapshot
	ttl       time.Duration
	now       func() time.Time
	logger    *logger.Logger
}

// NewSnapshotCache creates a new snapshot cache
func NewSnapshotCache(ttl time.Duration, log *logger.Logger) *SnapshotCache {
	return &SnapshotCache{
		snapshots: make(map[string]*contracts.MarketSnapshot),
		ttl:       ttl,
		now:       time.Now,
		logger:    log,
	}
}

// Get returns a snapshot younger than the TTL
func (c *SnapshotCache) Get(ticker string) (*contracts.MarketSnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ms, exists := c.snapshots[ticker]
	if !exists {
		return nil, false
	}
	if c.expired(ms) {
		return nil, false
	}

	return ms, true
}

// Set stores a snapshot, keyed by ticker
func (c *SnapshotCache) Set(ticker string, ms *contracts.MarketSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.snapshots[ticker] = ms

	c.logger.WithTicker(ticker).WithField("fetched_at", ms.FetchedAt).Debug("Updated snapshot cache")
}

// Delete removes a snapshot from cache
func (c *SnapshotCache) Delete(ticker string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.snapshots, ticker)
}

// Prune drops expired entries and returns how many were removed
func (c *SnapshotCache) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for ticker, ms := range c.snapshots {
		if c.expired(ms) {
			delete(c.snapshots, ticker)
			removed++
		}
	}
	return removed
}

// Len returns the number of snapshots in cache, expired ones included
func (c *SnapshotCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.snapshots)
}

func (c *SnapshotCache) expired(ms *contracts.MarketSnapshot) bool {
	return c.now().Sub(ms.FetchedAt) >= c.ttl
}
