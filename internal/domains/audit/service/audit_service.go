package service

import (
	"context"

	"journal-backend/internal/domains/audit/model"
	"journal-backend/internal/domains/audit/repository"
	"journal-backend/pkg/logger"
)

// Recorder is the write side handed to the other domain services.
// Recording is best-effort: a failed insert is logged, never surfaced,
// so audit problems cannot break editorial workflows.
type Recorder interface {
	Record(ctx context.Context, action, entityType, entityID, detail string)
}

// AuditService exposes the audit trail
type AuditService interface {
	Recorder
	ListRecent(ctx context.Context, limit int) ([]model.Event, error)
}

type auditService struct {
	repo repository.AuditRepository
}

// NewAuditService creates a new audit service
func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

func (s *auditService) Record(ctx context.Context, action, entityType, entityID, detail string) {
	event := &model.Event{
		Actor:      "editor",
		Action:     action,
		EntityType: entityType,
	}
	if entityID != "" {
		event.EntityID = &entityID
	}
	if detail != "" {
		event.Detail = &detail
	}

	if err := s.repo.Append(ctx, event); err != nil {
		logger.ErrorFields("Failed to record audit event", err, map[string]interface{}{
			"action":      action,
			"entity_type": entityType,
			"entity_id":   entityID,
		})
	}
}

func (s *auditService) ListRecent(ctx context.Context, limit int) ([]model.Event, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	return s.repo.ListRecent(ctx, limit)
}
