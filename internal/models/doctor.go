package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Doctor status values derived from the approval timestamp. The backend only
// persists the timestamp; "verified" and "pending" are computed on read.
const (
	DoctorStatusVerified = "verified"
	DoctorStatusPending  = "pending"
)

// DoctorStatusFilterAll is the sentinel meaning "no status filter".
const DoctorStatusFilterAll = "all"

// Doctor represents a practitioner listing managed through the admin panel.
type Doctor struct {
	ID              string     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          *string    `gorm:"type:uuid;index" json:"user_id,omitempty"`
	PracticeName    string     `gorm:"size:255;not null" json:"practice_name"`
	Speciality      string     `gorm:"size:128;index" json:"speciality"`
	Qualification   string     `gorm:"size:255" json:"qualification,omitempty"`
	LicenseNumber   string     `gorm:"size:64" json:"license_number,omitempty"`
	YearsExperience int        `json:"years_experience"`
	ConsultationFee float64    `json:"consultation_fee"`
	Address         string     `gorm:"size:255" json:"address,omitempty"`
	City            string     `gorm:"size:128" json:"city"`
	Province        string     `gorm:"size:128;index" json:"province"`
	PostalCode      string     `gorm:"size:16" json:"postal_code,omitempty"`
	Bio             string     `gorm:"type:text" json:"bio,omitempty"`
	ProfileImageURL string     `gorm:"size:512" json:"profile_image_url,omitempty"`
	Rating          float64    `json:"rating"`
	TotalBookings   int        `json:"total_bookings"`
	IsAvailable     bool       `json:"is_available"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	ApprovedBy      *string    `gorm:"size:255" json:"approved_by,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key when none is provided.
func (d *Doctor) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

// Status derives the approval state: verified iff the approval timestamp is set.
func (d Doctor) Status() string {
	if d.ApprovedAt != nil {
		return DoctorStatusVerified
	}
	return DoctorStatusPending
}
