package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"invoscope/internal/model"
	"invoscope/internal/repository"
)

// AuditEntry describes one mutation to record.
type AuditEntry struct {
	TenantID *uuid.UUID
	ActorID  *uuid.UUID
	Action   string
	Entity   string
	EntityID string
	Detail   string
}

type AuditLogResponse struct {
	ID        string  `json:"id"`
	TenantID  *string `json:"tenant_id"`
	ActorID   *string `json:"actor_id"`
	Action    string  `json:"action"`
	Entity    string  `json:"entity"`
	EntityID  string  `json:"entity_id"`
	Detail    string  `json:"detail"`
	CreatedAt string  `json:"created_at"`
}

type AuditService interface {
	// Record never fails the calling operation; write errors are logged
	// and dropped.
	Record(ctx context.Context, entry AuditEntry)
	List(ctx context.Context, tenantScope uuid.UUID, page, limit int) ([]AuditLogResponse, int64, error)
}

type auditService struct {
	auditRepo repository.AuditRepository
}

func NewAuditService(auditRepo repository.AuditRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

func (s *auditService) Record(ctx context.Context, entry AuditEntry) {
	row := &model.AuditLog{
		TenantID: entry.TenantID,
		ActorID:  entry.ActorID,
		Action:   entry.Action,
		Entity:   entry.Entity,
		EntityID: entry.EntityID,
		Detail:   entry.Detail,
	}
	if err := s.auditRepo.Create(ctx, row); err != nil {
		log.Error().Err(err).
			Str("action", entry.Action).
			Str("entity", entry.Entity).
			Msg("failed to write audit entry")
	}
}

func (s *auditService) List(ctx context.Context, tenantScope uuid.UUID, page, limit int) ([]AuditLogResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	entries, total, err := s.auditRepo.List(ctx, tenantScope, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]AuditLogResponse, 0, len(entries))
	for _, e := range entries {
		resp := AuditLogResponse{
			ID:        e.ID.String(),
			Action:    e.Action,
			Entity:    e.Entity,
			EntityID:  e.EntityID,
			Detail:    e.Detail,
			CreatedAt: e.CreatedAt.Format(time.RFC3339),
		}
		if e.TenantID != nil {
			s := e.TenantID.String()
			resp.TenantID = &s
		}
		if e.ActorID != nil {
			s := e.ActorID.String()
			resp.ActorID = &s
		}
		result = append(result, resp)
	}
	return result, total, nil
}
