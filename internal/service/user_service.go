package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"invoscope/internal/authz"
	"invoscope/internal/middleware"
	"invoscope/internal/model"
	"invoscope/internal/repository"
)

// --- DTOs ---

type CreateUserRequest struct {
	Email      string   `json:"email" binding:"required,email"`
	FirstName  string   `json:"first_name" binding:"required"`
	MiddleName string   `json:"middle_name"`
	LastName   string   `json:"last_name" binding:"required"`
	Password   string   `json:"password" binding:"required,min=8"`
	AvatarURL  string   `json:"avatar_url"`
	Roles      []string `json:"roles" binding:"required,min=1"`
	TenantID   string   `json:"tenant_id"` // ignored for Super Admins
}

type UpdateUserRequest struct {
	Email      string   `json:"email" binding:"omitempty,email"`
	FirstName  string   `json:"first_name"`
	MiddleName *string  `json:"middle_name"`
	LastName   string   `json:"last_name"`
	AvatarURL  *string  `json:"avatar_url"`
	Active     *bool    `json:"active"`
	Roles      []string `json:"roles"`
}

type LoginUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type TokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// UserResponse returns a User without exposing sensitive data
type UserResponse struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	MiddleName string    `json:"middle_name"`
	LastName   string    `json:"last_name"`
	Active     bool      `json:"active"`
	AvatarURL  string    `json:"avatar_url"`
	TenantID   *string   `json:"tenant_id"`
	Roles      []string  `json:"roles"`
	CreatedAt  string    `json:"created_at"`
	UpdatedAt  string    `json:"updated_at"`
}

// --- Interface ---

// UserService defines business logic for accounts and authentication.
// tenantScope is the caller's tenant restriction (uuid.Nil = Super Admin).
type UserService interface {
	CreateUser(ctx context.Context, req CreateUserRequest, tenantScope uuid.UUID) (*UserResponse, error)
	Login(ctx context.Context, req LoginUserRequest) (*TokenResponse, error)
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (*TokenResponse, error)
	GetUserByID(ctx context.Context, id string, tenantScope uuid.UUID) (*UserResponse, error)
	ListUsers(ctx context.Context, tenantScope uuid.UUID, page, limit int) ([]UserResponse, int64, error)
	UpdateUser(ctx context.Context, id string, req UpdateUserRequest, tenantScope uuid.UUID) (*UserResponse, error)
	DeleteUser(ctx context.Context, id string, tenantScope uuid.UUID) error
}

type userService struct {
	userRepo   repository.UserRepository
	roleRepo   repository.RoleRepository
	tenantRepo repository.TenantRepository
	tokenRepo  repository.RefreshTokenRepository
}

func NewUserService(
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	tenantRepo repository.TenantRepository,
	tokenRepo repository.RefreshTokenRepository,
) UserService {
	return &userService{
		userRepo:   userRepo,
		roleRepo:   roleRepo,
		tenantRepo: tenantRepo,
		tokenRepo:  tokenRepo,
	}
}

// --- Helpers ---

func validateRoles(names []string) error {
	for _, name := range names {
		if !authz.IsValidRole(name) {
			return fmt.Errorf("invalid role %q: must be one of Super Admin, Admin, User", name)
		}
	}
	return nil
}

func toUserResponse(user *model.User) *UserResponse {
	resp := &UserResponse{
		ID:         user.ID,
		Email:      user.Email,
		FirstName:  user.FirstName,
		MiddleName: user.MiddleName,
		LastName:   user.LastName,
		Active:     user.Active,
		AvatarURL:  user.AvatarURL,
		Roles:      user.RoleNames(),
		CreatedAt:  user.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  user.UpdatedAt.Format(time.RFC3339),
	}
	if user.TenantID != nil {
		s := user.TenantID.String()
		resp.TenantID = &s
	}
	return resp
}

// --- Implementation ---

func (s *userService) CreateUser(ctx context.Context, req CreateUserRequest, tenantScope uuid.UUID) (*UserResponse, error) {
	if err := validateRoles(req.Roles); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, errors.New("email already exists")
	}

	roles, err := s.roleRepo.FindByNames(ctx, req.Roles)
	if err != nil || len(roles) != len(req.Roles) {
		return nil, errors.New("roles not seeded")
	}

	isSuperAdmin := authz.IsAuthorized(req.Roles, []string{authz.RoleSuperAdmin})

	var tenantID *uuid.UUID
	switch {
	case isSuperAdmin:
		// Super Admins are tenant-independent.
	case tenantScope != uuid.Nil:
		// Tenant admins may only create users in their own tenant.
		id := tenantScope
		tenantID = &id
	default:
		parsed, parseErr := uuid.Parse(req.TenantID)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid tenant_id: %w", parseErr)
		}
		if _, findErr := s.tenantRepo.FindByID(ctx, parsed); findErr != nil {
			return nil, fmt.Errorf("tenant not found: %w", findErr)
		}
		tenantID = &parsed
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	user := &model.User{
		Email:      req.Email,
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		LastName:   req.LastName,
		Password:   string(hashedPassword),
		Active:     true,
		AvatarURL:  req.AvatarURL,
		TenantID:   tenantID,
		Roles:      roles,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return toUserResponse(user), nil
}

func (s *userService) Login(ctx context.Context, req LoginUserRequest) (*TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.New("invalid email or password")
	}

	if !user.Active {
		return nil, errors.New("account is deactivated")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid email or password")
	}

	return s.issueTokens(ctx, user)
}

func (s *userService) RefreshToken(ctx context.Context, req RefreshTokenRequest) (*TokenResponse, error) {
	stored, err := s.tokenRepo.FindByToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, errors.New("invalid refresh token")
	}

	if time.Now().After(stored.ExpiresAt) {
		_ = s.tokenRepo.Delete(ctx, stored.Token)
		return nil, errors.New("refresh token expired")
	}

	if !stored.User.Active {
		return nil, errors.New("account is deactivated")
	}

	// Rotate: the used token is discarded before new ones are issued.
	if err := s.tokenRepo.Delete(ctx, stored.Token); err != nil {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	return s.issueTokens(ctx, &stored.User)
}

func (s *userService) issueTokens(ctx context.Context, user *model.User) (*TokenResponse, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"roles": user.RoleNames(),
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(24 * time.Hour).Unix(),
	}
	if user.TenantID != nil {
		claims["tenant_id"] = user.TenantID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(middleware.GetJWTSecret())
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	refresh := &model.RefreshToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(7 * 24 * time.Hour),
	}
	if err := s.tokenRepo.Create(ctx, refresh); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &TokenResponse{Token: tokenString, RefreshToken: refresh.Token}, nil
}

func (s *userService) GetUserByID(ctx context.Context, id string, tenantScope uuid.UUID) (*UserResponse, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID, tenantScope)
	if err != nil {
		return nil, errors.New("user not found")
	}
	return toUserResponse(user), nil
}

func (s *userService) ListUsers(ctx context.Context, tenantScope uuid.UUID, page, limit int) ([]UserResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	users, total, err := s.userRepo.List(ctx, tenantScope, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch users: %w", err)
	}

	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *toUserResponse(&users[i]))
	}

	return responses, total, nil
}

func (s *userService) UpdateUser(ctx context.Context, id string, req UpdateUserRequest, tenantScope uuid.UUID) (*UserResponse, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID, tenantScope)
	if err != nil {
		return nil, errors.New("user not found")
	}

	if req.Email != "" && req.Email != user.Email {
		if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
			return nil, errors.New("email already exists")
		}
		user.Email = req.Email
	}
	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.MiddleName != nil {
		user.MiddleName = *req.MiddleName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}
	if req.Active != nil {
		user.Active = *req.Active
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if req.Roles != nil {
		if err := validateRoles(req.Roles); err != nil {
			return nil, err
		}
		roles, err := s.roleRepo.FindByNames(ctx, req.Roles)
		if err != nil || len(roles) != len(req.Roles) {
			return nil, errors.New("roles not seeded")
		}
		if err := s.userRepo.ReplaceRoles(ctx, user, roles); err != nil {
			return nil, fmt.Errorf("failed to update roles: %w", err)
		}
		user.Roles = roles
	}

	return toUserResponse(user), nil
}

func (s *userService) DeleteUser(ctx context.Context, id string, tenantScope uuid.UUID) error {
	userID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}

	if _, err := s.userRepo.GetByID(ctx, userID, tenantScope); err != nil {
		return errors.New("user not found")
	}

	_ = s.tokenRepo.DeleteByUser(ctx, userID)
	return s.userRepo.Delete(ctx, userID, tenantScope)
}
