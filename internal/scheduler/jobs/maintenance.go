package jobs

import (
	"context"

	"github.com/ShrayBagga/StockAnalysis/pkg/logger"
)

// CachePruner drops expired cache entries and reports how many it removed
type CachePruner interface {
	PruneCache() int
	CacheSize() int
}

// CacheCleanupJob evicts expired snapshots from the in-memory cache
type CacheCleanupJob struct {
	cache  CachePruner
	logger *logger.Logger
}

// NewCacheCleanupJob creates a new cache cleanup job
func NewCacheCleanupJob(cache CachePruner, log *logger.Logger) *CacheCleanupJob {
	return &CacheCleanupJob{
		cache:  cache,
		logger: log,
	}
}

// Name returns the job name
func (j *CacheCleanupJob) Name() string {
	return "cache_cleanup"
}

// Schedule returns the cron schedule (every 15 minutes)
func (j *CacheCleanupJob) Schedule() string {
	return "0 */15 * * * *"
}

// Run executes the cache cleanup
func (j *CacheCleanupJob) Run(ctx context.Context) error {
	j.logger.Debug("Starting scheduled cache cleanup")

	count := j.cache.PruneCache()

	if count > 0 {
		j.logger.WithFields(map[string]interface{}{
			"removed":   count,
			"remaining": j.cache.CacheSize(),
		}).Info("Cache cleanup completed")
	}

	return nil
}
