package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"invoscope/internal/model"
	"invoscope/internal/repository"
)

// --- DTOs ---

type CreateSecretRequest struct {
	Name  string `json:"name" binding:"required"`
	Value string `json:"value" binding:"required"`
}

type UpdateSecretRequest struct {
	Value string `json:"value" binding:"required"`
}

// SecretResponse carries a masked value in listings; GetSecret reveals it.
type SecretResponse struct {
	ID        string `json:"id"`
	TenantID  string `json:"tenant_id"`
	Name      string `json:"name"`
	Value     string `json:"value"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// --- Interface ---

type SecretService interface {
	CreateSecret(ctx context.Context, req CreateSecretRequest, tenantID uuid.UUID, actorID uuid.UUID) (*SecretResponse, error)
	GetSecret(ctx context.Context, id string, tenantScope uuid.UUID) (*SecretResponse, error)
	ListSecrets(ctx context.Context, tenantScope uuid.UUID, page, limit int) ([]SecretResponse, int64, error)
	UpdateSecret(ctx context.Context, id string, req UpdateSecretRequest, tenantScope uuid.UUID, actorID uuid.UUID) (*SecretResponse, error)
	DeleteSecret(ctx context.Context, id string, tenantScope uuid.UUID, actorID uuid.UUID) error
}

type secretService struct {
	secretRepo repository.SecretRepository
	audit      AuditService
}

func NewSecretService(secretRepo repository.SecretRepository, audit AuditService) SecretService {
	return &secretService{secretRepo: secretRepo, audit: audit}
}

// --- Helpers ---

// maskValue keeps the last four characters visible, enough to identify a
// key without exposing it.
func maskValue(v string) string {
	if len(v) <= 4 {
		return strings.Repeat("*", len(v))
	}
	return strings.Repeat("*", len(v)-4) + v[len(v)-4:]
}

func toSecretResponse(s *model.Secret, masked bool) *SecretResponse {
	value := s.Value
	if masked {
		value = maskValue(value)
	}
	return &SecretResponse{
		ID:        s.ID.String(),
		TenantID:  s.TenantID.String(),
		Name:      s.Name,
		Value:     value,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
		UpdatedAt: s.UpdatedAt.Format(time.RFC3339),
	}
}

// --- Implementation ---

func (s *secretService) CreateSecret(ctx context.Context, req CreateSecretRequest, tenantID uuid.UUID, actorID uuid.UUID) (*SecretResponse, error) {
	if tenantID == uuid.Nil {
		return nil, errors.New("a tenant is required to create secrets")
	}

	if _, err := s.secretRepo.FindByName(ctx, tenantID, req.Name); err == nil {
		return nil, errors.New("secret name already exists")
	}

	secret := &model.Secret{
		TenantID: tenantID,
		Name:     req.Name,
		Value:    req.Value,
	}
	if err := s.secretRepo.Create(ctx, secret); err != nil {
		return nil, fmt.Errorf("failed to create secret: %w", err)
	}

	s.audit.Record(ctx, AuditEntry{
		TenantID: &tenantID,
		ActorID:  &actorID,
		Action:   "CREATE",
		Entity:   "secret",
		EntityID: secret.ID.String(),
		Detail:   secret.Name,
	})

	return toSecretResponse(secret, true), nil
}

func (s *secretService) GetSecret(ctx context.Context, id string, tenantScope uuid.UUID) (*SecretResponse, error) {
	secretID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid secret id: %w", err)
	}

	secret, err := s.secretRepo.FindByID(ctx, secretID, tenantScope)
	if err != nil {
		return nil, errors.New("secret not found")
	}
	return toSecretResponse(secret, false), nil
}

func (s *secretService) ListSecrets(ctx context.Context, tenantScope uuid.UUID, page, limit int) ([]SecretResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	secrets, total, err := s.secretRepo.List(ctx, tenantScope, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch secrets: %w", err)
	}

	result := make([]SecretResponse, 0, len(secrets))
	for i := range secrets {
		result = append(result, *toSecretResponse(&secrets[i], true))
	}
	return result, total, nil
}

func (s *secretService) UpdateSecret(ctx context.Context, id string, req UpdateSecretRequest, tenantScope uuid.UUID, actorID uuid.UUID) (*SecretResponse, error) {
	secretID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid secret id: %w", err)
	}

	secret, err := s.secretRepo.FindByID(ctx, secretID, tenantScope)
	if err != nil {
		return nil, errors.New("secret not found")
	}

	secret.Value = req.Value
	if err := s.secretRepo.Update(ctx, secret); err != nil {
		return nil, fmt.Errorf("failed to update secret: %w", err)
	}

	s.audit.Record(ctx, AuditEntry{
		TenantID: &secret.TenantID,
		ActorID:  &actorID,
		Action:   "UPDATE",
		Entity:   "secret",
		EntityID: secret.ID.String(),
		Detail:   secret.Name,
	})

	return toSecretResponse(secret, true), nil
}

func (s *secretService) DeleteSecret(ctx context.Context, id string, tenantScope uuid.UUID, actorID uuid.UUID) error {
	secretID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid secret id: %w", err)
	}

	if err := s.secretRepo.Delete(ctx, secretID, tenantScope); err != nil {
		return errors.New("secret not found")
	}

	s.audit.Record(ctx, AuditEntry{
		ActorID:  &actorID,
		Action:   "DELETE",
		Entity:   "secret",
		EntityID: secretID.String(),
	})
	return nil
}
