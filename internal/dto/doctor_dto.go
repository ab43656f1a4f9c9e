package dto

import (
	"time"

	"github.com/medmap/admin-api/internal/models"
)

// DoctorListRequest carries the filters accepted by the doctor listing.
// Province and Specialty treat the sentinel "all" as no filter.
type DoctorListRequest struct {
	Status    string
	Province  string
	Specialty string
	Search    string
}

// DoctorApprovalRequest toggles a doctor's approval state.
type DoctorApprovalRequest struct {
	Approved *bool `json:"approved" validate:"required"`
}

// DoctorResponse is the denormalized doctor view returned to the admin panel.
// Name, Email and Phone come from the linked profile when one exists; Status,
// Specialty, Experience and Price are derived aliases.
type DoctorResponse struct {
	ID              string     `json:"id"`
	UserID          *string    `json:"user_id,omitempty"`
	PracticeName    string     `json:"practice_name"`
	Speciality      string     `json:"speciality"`
	Qualification   string     `json:"qualification,omitempty"`
	LicenseNumber   string     `json:"license_number,omitempty"`
	YearsExperience int        `json:"years_experience"`
	ConsultationFee float64    `json:"consultation_fee"`
	Address         string     `json:"address,omitempty"`
	City            string     `json:"city"`
	Province        string     `json:"province"`
	PostalCode      string     `json:"postal_code,omitempty"`
	Bio             string     `json:"bio,omitempty"`
	ProfileImageURL string     `json:"profile_image_url,omitempty"`
	Rating          float64    `json:"rating"`
	TotalBookings   int        `json:"total_bookings"`
	IsAvailable     bool       `json:"is_available"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	ApprovedBy      *string    `json:"approved_by,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	Name            string     `json:"name"`
	Email           string     `json:"email,omitempty"`
	Phone           string     `json:"phone,omitempty"`
	Status          string     `json:"status"`
	Specialty       string     `json:"specialty"`
	Experience      int        `json:"experience"`
	Price           float64    `json:"price"`
}

// NewDoctorResponse composes the doctor row with its linked profile, which may be nil.
func NewDoctorResponse(doctor models.Doctor, profile *models.Profile) DoctorResponse {
	response := DoctorResponse{
		ID:              doctor.ID,
		UserID:          doctor.UserID,
		PracticeName:    doctor.PracticeName,
		Speciality:      doctor.Speciality,
		Qualification:   doctor.Qualification,
		LicenseNumber:   doctor.LicenseNumber,
		YearsExperience: doctor.YearsExperience,
		ConsultationFee: doctor.ConsultationFee,
		Address:         doctor.Address,
		City:            doctor.City,
		Province:        doctor.Province,
		PostalCode:      doctor.PostalCode,
		Bio:             doctor.Bio,
		ProfileImageURL: doctor.ProfileImageURL,
		Rating:          doctor.Rating,
		TotalBookings:   doctor.TotalBookings,
		IsAvailable:     doctor.IsAvailable,
		ApprovedAt:      doctor.ApprovedAt,
		ApprovedBy:      doctor.ApprovedBy,
		CreatedAt:       doctor.CreatedAt,
		UpdatedAt:       doctor.UpdatedAt,
		Name:            doctor.PracticeName,
		Status:          doctor.Status(),
		Specialty:       doctor.Speciality,
		Experience:      doctor.YearsExperience,
		Price:           doctor.ConsultationFee,
	}

	if profile != nil {
		response.Name = profile.FullName()
		response.Email = profile.Email
		response.Phone = profile.Phone
	}

	return response
}
