package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents an account. TenantID is nil only for Super Admins, who
// operate across all tenants.
type User struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email      string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	FirstName  string         `gorm:"type:varchar(100);not null" json:"first_name"`
	MiddleName string         `gorm:"type:varchar(100)" json:"middle_name"`
	LastName   string         `gorm:"type:varchar(100);not null" json:"last_name"`
	Password   string         `gorm:"type:varchar(255);not null" json:"-"` // bcrypt hash, never serialized
	Active     bool           `gorm:"default:true" json:"active"`
	AvatarURL  string         `gorm:"type:varchar(512)" json:"avatar_url"`
	TenantID   *uuid.UUID     `gorm:"type:uuid;index" json:"tenant_id"`
	Tenant     *Tenant        `gorm:"foreignKey:TenantID" json:"-"`
	Roles      []Role         `gorm:"many2many:user_roles;" json:"roles"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// RoleNames returns the names of the user's roles, order preserved.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

// RefreshToken stores long-lived tokens allowing users to request new access tokens
type RefreshToken struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Token     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"token"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
