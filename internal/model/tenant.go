package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tenant is the organization boundary. Every user and invoice belongs to
// exactly one tenant; Super Admins are tenant-independent.
type Tenant struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name         string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Alias        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"alias"` // lowercase-hyphenated
	BillingName  string         `gorm:"type:varchar(255)" json:"billing_name"`
	BillingEmail string         `gorm:"type:varchar(255)" json:"billing_email"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
