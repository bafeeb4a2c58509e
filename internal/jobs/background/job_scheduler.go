package background

import (
	"context"
	"fmt"
	"time"

	"catena/internal/repositories"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

const (
	// orphans that failed this many sweeps are left for an operator
	maxSweepAttempts = 10
	sweepBatchSize   = 100
	sweepTimeout     = 2 * time.Minute

	defaultSweepInterval = 15 * time.Minute
)

// BlobDeleter removes an object from the bucket.
type BlobDeleter interface {
	Delete(ctx context.Context, key string) error
}

// JobScheduler runs the periodic maintenance tasks.
type JobScheduler struct {
	scheduler gocron.Scheduler
	orphans   repositories.OrphanedBlobRepository
	blobs     BlobDeleter
	interval  time.Duration
	log       *zap.Logger
}

// NewJobScheduler creates the scheduler and registers the orphaned blob sweep.
func NewJobScheduler(orphans repositories.OrphanedBlobRepository, blobs BlobDeleter, interval time.Duration, log *zap.Logger) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	if interval <= 0 {
		interval = defaultSweepInterval
	}

	js := &JobScheduler{
		scheduler: scheduler,
		orphans:   orphans,
		blobs:     blobs,
		interval:  interval,
		log:       log,
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(js.runSweep),
		gocron.WithName("orphaned-blob-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, fmt.Errorf("register orphaned blob sweep: %w", err)
	}
	return js, nil
}

func (js *JobScheduler) Start() {
	js.log.Info("Starting background job scheduler", zap.Duration("sweep_interval", js.interval))
	js.scheduler.Start()
}

func (js *JobScheduler) Stop() error {
	js.log.Info("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()
	if _, err := js.SweepOrphanedBlobs(ctx); err != nil {
		js.log.Error("Orphaned blob sweep failed", zap.Error(err))
	}
}

// SweepOrphanedBlobs retries deletion of every pending orphan and returns how
// many were removed. A failed delete bumps the orphan's attempt count.
func (js *JobScheduler) SweepOrphanedBlobs(ctx context.Context) (int, error) {
	pending, err := js.orphans.ListPending(ctx, maxSweepAttempts, sweepBatchSize)
	if err != nil {
		return 0, fmt.Errorf("list orphaned blobs: %w", err)
	}

	removed := 0
	for _, blob := range pending {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if err := js.blobs.Delete(ctx, blob.ObjectKey); err != nil {
			js.log.Warn("Orphaned blob delete failed",
				zap.String("key", blob.ObjectKey),
				zap.Int("attempts", blob.Attempts+1),
				zap.Error(err))
			if err := js.orphans.MarkAttempt(ctx, blob.ObjectKey, err.Error()); err != nil {
				js.log.Error("Failed to record sweep attempt", zap.String("key", blob.ObjectKey), zap.Error(err))
			}
			continue
		}
		if err := js.orphans.Resolve(ctx, blob.ObjectKey); err != nil {
			js.log.Error("Failed to resolve orphaned blob", zap.String("key", blob.ObjectKey), zap.Error(err))
			continue
		}
		removed++
	}

	if len(pending) > 0 {
		js.log.Info("Orphaned blob sweep finished", zap.Int("pending", len(pending)), zap.Int("removed", removed))
	}
	return removed, nil
}
