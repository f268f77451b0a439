package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"invoscope/internal/model"
	"invoscope/internal/repository"
)

// --- DTOs ---

type CreateTenantRequest struct {
	Name         string `json:"name" binding:"required"`
	Alias        string `json:"alias"` // derived from name when empty
	BillingName  string `json:"billing_name"`
	BillingEmail string `json:"billing_email" binding:"omitempty,email"`
}

type UpdateTenantRequest struct {
	Name         string  `json:"name"`
	BillingName  *string `json:"billing_name"`
	BillingEmail *string `json:"billing_email"`
}

type TenantResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Alias        string `json:"alias"`
	BillingName  string `json:"billing_name"`
	BillingEmail string `json:"billing_email"`
	CreatedAt    string `json:"created_at"`
}

// --- Interface ---

type TenantService interface {
	CreateTenant(ctx context.Context, req CreateTenantRequest) (*TenantResponse, error)
	GetTenant(ctx context.Context, id string) (*TenantResponse, error)
	ListTenants(ctx context.Context, page, limit int) ([]TenantResponse, int64, error)
	UpdateTenant(ctx context.Context, id string, req UpdateTenantRequest) (*TenantResponse, error)
	DeleteTenant(ctx context.Context, id string) error
}

type tenantService struct {
	tenantRepo repository.TenantRepository
}

func NewTenantService(tenantRepo repository.TenantRepository) TenantService {
	return &tenantService{tenantRepo: tenantRepo}
}

// --- Helpers ---

var nonAliasChars = regexp.MustCompile(`[^a-z0-9]+`)

// normalizeAlias turns a display name into the lowercase-hyphenated form
// tenants are addressed by.
func normalizeAlias(name string) string {
	alias := strings.ToLower(strings.TrimSpace(name))
	alias = nonAliasChars.ReplaceAllString(alias, "-")
	return strings.Trim(alias, "-")
}

func toTenantResponse(t *model.Tenant) *TenantResponse {
	return &TenantResponse{
		ID:           t.ID.String(),
		Name:         t.Name,
		Alias:        t.Alias,
		BillingName:  t.BillingName,
		BillingEmail: t.BillingEmail,
		CreatedAt:    t.CreatedAt.Format(time.RFC3339),
	}
}

// --- Implementation ---

func (s *tenantService) CreateTenant(ctx context.Context, req CreateTenantRequest) (*TenantResponse, error) {
	alias := req.Alias
	if alias == "" {
		alias = normalizeAlias(req.Name)
	} else {
		alias = normalizeAlias(alias)
	}
	if alias == "" {
		return nil, errors.New("tenant name yields an empty alias")
	}

	if _, err := s.tenantRepo.FindByAlias(ctx, alias); err == nil {
		return nil, errors.New("alias already exists")
	}

	tenant := &model.Tenant{
		Name:         req.Name,
		Alias:        alias,
		BillingName:  req.BillingName,
		BillingEmail: req.BillingEmail,
	}

	if err := s.tenantRepo.Create(ctx, tenant); err != nil {
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}

	return toTenantResponse(tenant), nil
}

func (s *tenantService) GetTenant(ctx context.Context, id string) (*TenantResponse, error) {
	tenantID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid tenant id: %w", err)
	}

	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, errors.New("tenant not found")
	}
	return toTenantResponse(tenant), nil
}

func (s *tenantService) ListTenants(ctx context.Context, page, limit int) ([]TenantResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	tenants, total, err := s.tenantRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch tenants: %w", err)
	}

	responses := make([]TenantResponse, 0, len(tenants))
	for i := range tenants {
		responses = append(responses, *toTenantResponse(&tenants[i]))
	}
	return responses, total, nil
}

func (s *tenantService) UpdateTenant(ctx context.Context, id string, req UpdateTenantRequest) (*TenantResponse, error) {
	tenantID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid tenant id: %w", err)
	}

	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, errors.New("tenant not found")
	}

	// The alias is stable once assigned; renaming does not re-derive it.
	if req.Name != "" {
		tenant.Name = req.Name
	}
	if req.BillingName != nil {
		tenant.BillingName = *req.BillingName
	}
	if req.BillingEmail != nil {
		tenant.BillingEmail = *req.BillingEmail
	}

	if err := s.tenantRepo.Update(ctx, tenant); err != nil {
		return nil, fmt.Errorf("failed to update tenant: %w", err)
	}

	return toTenantResponse(tenant), nil
}

func (s *tenantService) DeleteTenant(ctx context.Context, id string) error {
	tenantID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid tenant id: %w", err)
	}

	if _, err := s.tenantRepo.FindByID(ctx, tenantID); err != nil {
		return errors.New("tenant not found")
	}
	return s.tenantRepo.Delete(ctx, tenantID)
}
