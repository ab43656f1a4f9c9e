package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile roles. Patients carry the "user" role; operators carry "admin".
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Profile holds the account-facing identity shared by patients and operators.
type Profile struct {
	ID            string    `gorm:"type:uuid;primaryKey" json:"id"`
	Email         string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	FirstName     string    `gorm:"size:128" json:"first_name"`
	LastName      string    `gorm:"size:128" json:"last_name"`
	Phone         string    `gorm:"size:32" json:"phone,omitempty"`
	Role          string    `gorm:"size:20;default:'user';index" json:"role"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key when none is provided.
func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// FullName joins first and last name for display.
func (p Profile) FullName() string {
	return p.FirstName + " " + p.LastName
}
