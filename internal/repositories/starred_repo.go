package repositories

import (
	"context"

	"github.com/google/uuid"
)

type StarredRepository interface {
	IsStarred(ctx context.Context, userID, documentID uuid.UUID) (bool, error)
	Star(ctx context.Context, userID, documentID uuid.UUID) error
	Unstar(ctx context.Context, userID, documentID uuid.UUID) error
}

type starredRepo struct {
	db Database
}

func NewStarredRepo(db Database) StarredRepository {
	return &starredRepo{db: db}
}

func (r *starredRepo) IsStarred(ctx context.Context, userID, documentID uuid.UUID) (bool, error) {
	var starred bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM starred_documents WHERE user_id = $1 AND document_id = $2)
	`, userID, documentID).Scan(&starred)
	return starred, err
}

func (r *starredRepo) Star(ctx context.Context, userID, documentID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO starred_documents (user_id, document_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, document_id) DO NOTHING
	`, userID, documentID)
	return err
}

func (r *starredRepo) Unstar(ctx context.Context, userID, documentID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM starred_documents WHERE user_id = $1 AND document_id = $2`, userID, documentID)
	return err
}
