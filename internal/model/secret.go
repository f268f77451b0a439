package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Secret is a tenant-scoped named credential (API keys for feed imports
// and similar). Values are masked in list responses.
type Secret struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TenantID  uuid.UUID      `gorm:"type:uuid;not null;index;uniqueIndex:idx_tenant_secret_name" json:"tenant_id"`
	Name      string         `gorm:"type:varchar(255);not null;uniqueIndex:idx_tenant_secret_name" json:"name"`
	Value     string         `gorm:"type:text;not null" json:"-"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
