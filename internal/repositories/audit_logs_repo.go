package repositories

import (
	"context"
	"time"

	"catena/internal/models"

	"github.com/google/uuid"
)

type AuditLogsRepository interface {
	// Create a new audit log entry
	Create(ctx context.Context, auditLog *models.AuditLog) error

	// List the most recent entries, optionally for one actor
	List(ctx context.Context, actorID *uuid.UUID, limit, offset int) ([]*models.AuditLog, error)
}

type auditLogsRepo struct {
	db Database
}

func NewAuditLogsRepo(db Database) AuditLogsRepository {
	return &auditLogsRepo{db: db}
}

func (r *auditLogsRepo) Create(ctx context.Context, auditLog *models.AuditLog) error {
	auditLog.CreatedAt = time.Now().UTC()
	if auditLog.ID == uuid.Nil {
		auditLog.ID = uuid.New()
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO audit_logs (id, action, path, actor_id, status_code, ip, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, auditLog.ID, auditLog.Action, auditLog.Path, auditLog.ActorID, auditLog.StatusCode, auditLog.IP, auditLog.CreatedAt)
	return err
}

func (r *auditLogsRepo) List(ctx context.Context, actorID *uuid.UUID, limit, offset int) ([]*models.AuditLog, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, action, path, actor_id, status_code, ip, created_at
		FROM audit_logs
		WHERE ($1::uuid IS NULL OR actor_id = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, actorID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.AuditLog
	for rows.Next() {
		l := &models.AuditLog{}
		if err := rows.Scan(&l.ID, &l.Action, &l.Path, &l.ActorID, &l.StatusCode, &l.IP, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
