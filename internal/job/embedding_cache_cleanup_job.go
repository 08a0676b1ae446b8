package job

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/replyforge/replyforge/internal/repo"
)

type EmbeddingCacheCleanupJob struct {
	cache   *repo.EmbeddingCacheRepo
	ttlDays int
}

func NewEmbeddingCacheCleanupJob(cache *repo.EmbeddingCacheRepo, ttlDays int) *EmbeddingCacheCleanupJob {
	if ttlDays <= 0 {
		ttlDays = 30
	}
	return &EmbeddingCacheCleanupJob{cache: cache, ttlDays: ttlDays}
}

func (j *EmbeddingCacheCleanupJob) Name() string {
	return "embedding_cache_cleanup"
}

func (j *EmbeddingCacheCleanupJob) Run(ctx context.Context) error {
	cutoff := time.Now().AddDate(0, 0, -j.ttlDays).Unix()
	deleted, err := j.cache.DeleteBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	logutil.GetLogger(ctx).Info("embedding cache cleaned", zap.Int64("deleted", deleted))
	return nil
}
