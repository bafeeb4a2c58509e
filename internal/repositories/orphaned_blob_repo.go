package repositories

import (
	"context"

	"catena/internal/models"
)

// OrphanedBlobRepository queues object keys whose delete failed so the sweeper
// can retry them.
type OrphanedBlobRepository interface {
	Record(ctx context.Context, key, reason, lastError string) error
	ListPending(ctx context.Context, maxAttempts, limit int) ([]*models.OrphanedBlob, error)
	MarkAttempt(ctx context.Context, key, lastError string) error
	Resolve(ctx context.Context, key string) error
}

type orphanedBlobRepo struct {
	db Database
}

func NewOrphanedBlobRepo(db Database) OrphanedBlobRepository {
	return &orphanedBlobRepo{db: db}
}

func (r *orphanedBlobRepo) Record(ctx context.Context, key, reason, lastError string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO orphaned_blobs (object_key, reason, attempts, last_error, created_at)
		VALUES ($1, $2, 0, $3, NOW())
		ON CONFLICT (object_key) DO UPDATE SET last_error = EXCLUDED.last_error
	`, key, reason, lastError)
	return err
}

func (r *orphanedBlobRepo) ListPending(ctx context.Context, maxAttempts, limit int) ([]*models.OrphanedBlob, error) {
	rows, err := r.db.Query(ctx, `
		SELECT object_key, reason, attempts, last_error, created_at
		FROM orphaned_blobs
		WHERE attempts < $1
		ORDER BY created_at
		LIMIT $2
	`, maxAttempts, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blobs []*models.OrphanedBlob
	for rows.Next() {
		b := &models.OrphanedBlob{}
		if err := rows.Scan(&b.ObjectKey, &b.Reason, &b.Attempts, &b.LastError, &b.CreatedAt); err != nil {
			return nil, err
		}
		blobs = append(blobs, b)
	}
	return blobs, rows.Err()
}

func (r *orphanedBlobRepo) MarkAttempt(ctx context.Context, key, lastError string) error {
	_, err := r.db.Exec(ctx, `UPDATE orphaned_blobs SET attempts = attempts + 1, last_error = $2 WHERE object_key = $1`, key, lastError)
	return err
}

func (r *orphanedBlobRepo) Resolve(ctx context.Context, key string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM orphaned_blobs WHERE object_key = $1`, key)
	return err
}
