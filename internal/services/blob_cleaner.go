package services

import (
	"context"

	"catena/internal/metrics"
	"catena/internal/repositories"

	"go.uber.org/zap"
)

// BlobCleaner deletes blobs on a best-effort basis. A failed delete is logged
// and queued as an orphan for the background sweeper; it never fails the caller.
type BlobCleaner struct {
	storage StorageService
	orphans repositories.OrphanedBlobRepository
	log     *zap.Logger
}

func NewBlobCleaner(storage StorageService, orphans repositories.OrphanedBlobRepository, log *zap.Logger) *BlobCleaner {
	return &BlobCleaner{storage: storage, orphans: orphans, log: log}
}

// Remove deletes key if it exists. It reports whether the blob is gone.
func (b *BlobCleaner) Remove(ctx context.Context, key, reason string) bool {
	if key == "" {
		return true
	}

	exists, err := b.storage.Exists(ctx, key)
	if err == nil && !exists {
		return true
	}
	if err == nil {
		err = b.storage.Delete(ctx, key)
	}
	if err == nil {
		return true
	}

	b.log.Warn("blob delete failed, recording orphan",
		zap.String("key", key), zap.String("reason", reason), zap.Error(err))
	metrics.OrphanedBlobCounter.Inc()
	if recErr := b.orphans.Record(ctx, key, reason, err.Error()); recErr != nil {
		b.log.Error("failed to record orphaned blob", zap.String("key", key), zap.Error(recErr))
	}
	return false
}
