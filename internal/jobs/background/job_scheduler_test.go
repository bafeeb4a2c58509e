package background

import (
	"context"
	"errors"
	"testing"
	"time"

	"catena/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockOrphans struct{ mock.Mock }

func (m *mockOrphans) Record(ctx context.Context, key, reason, lastError string) error {
	return m.Called(ctx, key, reason, lastError).Error(0)
}

func (m *mockOrphans) ListPending(ctx context.Context, maxAttempts, limit int) ([]*models.OrphanedBlob, error) {
	args := m.Called(ctx, maxAttempts, limit)
	blobs, _ := args.Get(0).([]*models.OrphanedBlob)
	return blobs, args.Error(1)
}

func (m *mockOrphans) MarkAttempt(ctx context.Context, key, lastError string) error {
	return m.Called(ctx, key, lastError).Error(0)
}

func (m *mockOrphans) Resolve(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type mockBlobs struct{ mock.Mock }

func (m *mockBlobs) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func TestSweepOrphanedBlobs(t *testing.T) {
	orphans := new(mockOrphans)
	blobs := new(mockBlobs)
	js, err := NewJobScheduler(orphans, blobs, time.Hour, zap.NewNop())
	require.NoError(t, err)

	orphans.On("ListPending", mock.Anything, maxSweepAttempts, sweepBatchSize).Return([]*models.OrphanedBlob{
		{ObjectKey: "job/a.png", Attempts: 0},
		{ObjectKey: "status/b.pdf", Attempts: 3},
	}, nil)
	blobs.On("Delete", mock.Anything, "job/a.png").Return(nil)
	blobs.On("Delete", mock.Anything, "status/b.pdf").Return(errors.New("503 slow down"))
	orphans.On("Resolve", mock.Anything, "job/a.png").Return(nil)
	orphans.On("MarkAttempt", mock.Anything, "status/b.pdf", "503 slow down").Return(nil)

	removed, err := js.SweepOrphanedBlobs(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	orphans.AssertExpectations(t)
	blobs.AssertExpectations(t)
}

func TestSweepOrphanedBlobs_ListFails(t *testing.T) {
	orphans := new(mockOrphans)
	js, err := NewJobScheduler(orphans, new(mockBlobs), 0, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, defaultSweepInterval, js.interval)

	orphans.On("ListPending", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	_, err = js.SweepOrphanedBlobs(context.Background())

	assert.Error(t, err)
}

func TestSchedulerStartStop(t *testing.T) {
	js, err := NewJobScheduler(new(mockOrphans), new(mockBlobs), time.Hour, zap.NewNop())
	require.NoError(t, err)

	js.Start()
	assert.NoError(t, js.Stop())
}
