package dto

import (
	"time"

	"github.com/medmap/admin-api/internal/models"
)

// PatientListRequest carries the filters accepted by the patient listing.
type PatientListRequest struct {
	Search string
}

// PatientCreateRequest provisions a new patient account and profile.
type PatientCreateRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name" validate:"required,min=1"`
	LastName  string `json:"last_name" validate:"required,min=1"`
	Phone     string `json:"phone" validate:"omitempty,max=32"`
}

// PatientPasswordResetRequest sets a new password on the patient's account.
type PatientPasswordResetRequest struct {
	Password string `json:"password" validate:"required,min=1"`
}

// PatientResponse serializes a patient profile with the composed display name.
type PatientResponse struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Phone         string    `json:"phone,omitempty"`
	Role          string    `json:"role"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Name          string    `json:"name"`
}

// NewPatientResponse maps a profile row to its response shape.
func NewPatientResponse(profile models.Profile) PatientResponse {
	return PatientResponse{
		ID:            profile.ID,
		Email:         profile.Email,
		FirstName:     profile.FirstName,
		LastName:      profile.LastName,
		Phone:         profile.Phone,
		Role:          profile.Role,
		EmailVerified: profile.EmailVerified,
		CreatedAt:     profile.CreatedAt,
		UpdatedAt:     profile.UpdatedAt,
		Name:          profile.FullName(),
	}
}
