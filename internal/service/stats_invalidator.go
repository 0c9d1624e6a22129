package service

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/gestion-etudiants-api/pkg/jobs"
)

const (
	statsCachePrefix  = "stats:inscriptions:"
	statsCachePattern = statsCachePrefix + "*"

	// JobInvalidateStats is the job type handled by StatsInvalidator.Handle.
	JobInvalidateStats = "stats.invalidate"
)

type jobQueue interface {
	TryEnqueue(job jobs.Job) error
}

// StatsInvalidator drops cached enrollment statistics after ledger writes.
// Invalidation runs inline on the write path; the attached queue only retries
// deletes that failed. Every invalidation bumps a generation so statistics
// computed before a write are never left in the cache.
type StatsInvalidator struct {
	cache      *CacheService
	queue      jobQueue
	logger     *zap.Logger
	generation atomic.Uint64
}

// NewStatsInvalidator constructs a StatsInvalidator.
func NewStatsInvalidator(cache *CacheService, logger *zap.Logger) *StatsInvalidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsInvalidator{cache: cache, logger: logger}
}

// Attach routes failed invalidations through queue for retry.
func (i *StatsInvalidator) Attach(queue jobQueue) {
	if i == nil {
		return
	}
	i.queue = queue
}

// Handle is the jobs.Handler executing a queued invalidation.
func (i *StatsInvalidator) Handle(ctx context.Context, job jobs.Job) error {
	return i.cache.Invalidate(ctx, statsCachePattern)
}

// Invalidate removes every cached statistics entry before returning.
func (i *StatsInvalidator) Invalidate(ctx context.Context) {
	if i == nil || !i.cache.Enabled() {
		return
	}
	i.generation.Add(1)
	i.drop(ctx)
}

// Generation returns the invalidation counter to pass to Publish.
func (i *StatsInvalidator) Generation() uint64 {
	if i == nil {
		return 0
	}
	return i.generation.Load()
}

// Publish caches stats computed at generation. When a write invalidated the
// cache meanwhile, the entry is dropped again.
func (i *StatsInvalidator) Publish(ctx context.Context, key string, stats interface{}, ttl time.Duration, generation uint64) {
	if i == nil || !i.cache.Enabled() {
		return
	}
	if i.generation.Load() != generation {
		return
	}
	if err := i.cache.Set(ctx, key, stats, ttl); err != nil {
		return
	}
	if i.generation.Load() != generation {
		i.drop(ctx)
	}
}

func (i *StatsInvalidator) drop(ctx context.Context) {
	err := i.cache.Invalidate(ctx, statsCachePattern)
	if err == nil {
		return
	}
	if i.queue == nil {
		i.logger.Warn("stats invalidation failed", zap.Error(err))
		return
	}
	if qerr := i.queue.TryEnqueue(jobs.Job{Type: JobInvalidateStats}); qerr != nil {
		i.logger.Warn("stats invalidation failed and retry not queued", zap.Error(err), zap.NamedError("queue", qerr))
	}
}

func statsCacheKey(anneeAcademique string) string {
	if anneeAcademique == "" {
		return statsCachePrefix + "all"
	}
	return statsCachePrefix + anneeAcademique
}
