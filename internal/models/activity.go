package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ActivityLog captures auditable events triggered by administrators.
// Entries are append-only and never mutated.
type ActivityLog struct {
	ID        string            `gorm:"type:uuid;primaryKey" json:"id"`
	AdminID   string            `gorm:"type:uuid;index;not null" json:"admin_id"`
	Action    string            `gorm:"size:64;not null" json:"action"`
	Resource  string            `gorm:"size:64;not null" json:"resource"`
	Status    string            `gorm:"size:32;not null" json:"status"`
	Metadata  datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt time.Time         `json:"created_at"`
}

// BeforeCreate assigns a UUID primary key when none is provided.
func (a *ActivityLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
