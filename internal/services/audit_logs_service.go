package services

import (
	"context"
	"errors"
	"time"

	"catena/internal/common"
	"catena/internal/models"
	"catena/internal/repositories"

	"github.com/google/uuid"
)

type AuditLogsService interface {
	// LogRequest records one mutating request
	LogRequest(ctx context.Context, entry *models.AuditLog) error

	// ListAuditLogs returns the newest entries first, optionally for one actor
	ListAuditLogs(ctx context.Context, actorID *uuid.UUID, page, limit int) ([]*models.AuditLog, error)
}

type auditLogsService struct {
	auditLogsRepo repositories.AuditLogsRepository
}

func NewAuditLogsService(auditLogsRepo repositories.AuditLogsRepository) AuditLogsService {
	return &auditLogsService{
		auditLogsRepo: auditLogsRepo,
	}
}

// LogRequest fills in the id and timestamp and stores the entry
func (s *auditLogsService) LogRequest(ctx context.Context, entry *models.AuditLog) error {
	if entry.Action == "" {
		return errors.New("action is required")
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	return s.auditLogsRepo.Create(ctx, entry)
}

func (s *auditLogsService) ListAuditLogs(ctx context.Context, actorID *uuid.UUID, page, limit int) ([]*models.AuditLog, error) {
	page, limit = common.ValidatePaginationParams(page, limit)
	logs, err := s.auditLogsRepo.List(ctx, actorID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []*models.AuditLog{}
	}
	return logs, nil
}
