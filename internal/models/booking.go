package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookingStatus represents the lifecycle state of a booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// BookingStatusFilterAll is the sentinel meaning "no status filter".
const BookingStatusFilterAll = "all"

// ValidBookingStatus reports whether the value is one of the accepted wire statuses.
func ValidBookingStatus(value string) bool {
	switch BookingStatus(value) {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return true
	default:
		return false
	}
}

// Booking represents a patient appointment with a doctor. Dates are stored as
// YYYY-MM-DD strings to match the calendar-day semantics of the booking flow.
type Booking struct {
	ID               string        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           string        `gorm:"type:uuid;index;not null" json:"user_id"`
	DoctorID         string        `gorm:"type:uuid;index;not null" json:"doctor_id"`
	AppointmentDate  string        `gorm:"size:10;index" json:"appointment_date"`
	AppointmentTime  string        `gorm:"size:8" json:"appointment_time"`
	ConsultationFee  float64       `json:"consultation_fee"`
	BookingFee       float64       `json:"booking_fee"`
	TotalAmount      float64       `json:"total_amount"`
	Status           BookingStatus `gorm:"size:20;default:'pending';index" json:"status"`
	PatientNotes     string        `gorm:"type:text" json:"patient_notes,omitempty"`
	DoctorNotes      string        `gorm:"type:text" json:"doctor_notes,omitempty"`
	PaymentReference string        `gorm:"size:128" json:"payment_reference,omitempty"`
	PaymentStatus    string        `gorm:"size:32" json:"payment_status,omitempty"`
	CreatedBy        string        `gorm:"size:64" json:"created_by,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key when none is provided.
func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
