package model

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog records who changed what. Reads are never audited.
type AuditLog struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TenantID  *uuid.UUID `gorm:"type:uuid;index" json:"tenant_id"` // nil for cross-tenant actions
	ActorID   *uuid.UUID `gorm:"type:uuid;index" json:"actor_id"`
	Action    string     `gorm:"type:varchar(50);not null;index" json:"action"` // CREATE, UPDATE, DELETE, ARCHIVE, IMPORT
	Entity    string     `gorm:"type:varchar(50);not null;index" json:"entity"` // invoice, user, tenant, secret
	EntityID  string     `gorm:"type:varchar(64)" json:"entity_id"`
	Detail    string     `gorm:"type:text" json:"detail"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
}
