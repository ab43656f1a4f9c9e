package dto

import (
	"time"

	"github.com/medmap/admin-api/internal/models"
)

// UnknownParticipant is returned when a booking references a patient or
// doctor row that no longer resolves.
const UnknownParticipant = "Unknown"

// AppointmentListRequest carries the filters accepted by the appointment listing.
type AppointmentListRequest struct {
	Status string
	Date   string
	Search string
}

// AppointmentStatusRequest updates a booking's status.
type AppointmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
}

// AppointmentResponse is the denormalized booking view joined with patient and
// doctor display names.
type AppointmentResponse struct {
	ID               string               `json:"id"`
	UserID           string               `json:"user_id"`
	DoctorID         string               `json:"doctor_id"`
	AppointmentDate  string               `json:"appointment_date"`
	AppointmentTime  string               `json:"appointment_time"`
	ConsultationFee  float64              `json:"consultation_fee"`
	BookingFee       float64              `json:"booking_fee"`
	TotalAmount      float64              `json:"total_amount"`
	Status           models.BookingStatus `json:"status"`
	PatientNotes     string               `json:"patient_notes,omitempty"`
	DoctorNotes      string               `json:"doctor_notes,omitempty"`
	PaymentReference string               `json:"payment_reference,omitempty"`
	PaymentStatus    string               `json:"payment_status,omitempty"`
	CreatedBy        string               `json:"created_by,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
	PatientName      string               `json:"patient_name"`
	DoctorName       string               `json:"doctor_name"`
}

// NewAppointmentResponse composes a booking with its joined participants.
// Either join may be nil; missing participants degrade to the Unknown sentinel.
func NewAppointmentResponse(booking models.Booking, patient *models.Profile, doctor *models.Doctor) AppointmentResponse {
	response := AppointmentResponse{
		ID:               booking.ID,
		UserID:           booking.UserID,
		DoctorID:         booking.DoctorID,
		AppointmentDate:  booking.AppointmentDate,
		AppointmentTime:  booking.AppointmentTime,
		ConsultationFee:  booking.ConsultationFee,
		BookingFee:       booking.BookingFee,
		TotalAmount:      booking.TotalAmount,
		Status:           booking.Status,
		PatientNotes:     booking.PatientNotes,
		DoctorNotes:      booking.DoctorNotes,
		PaymentReference: booking.PaymentReference,
		PaymentStatus:    booking.PaymentStatus,
		CreatedBy:        booking.CreatedBy,
		CreatedAt:        booking.CreatedAt,
		UpdatedAt:        booking.UpdatedAt,
		PatientName:      UnknownParticipant,
		DoctorName:       UnknownParticipant,
	}

	if patient != nil {
		response.PatientName = patient.FullName()
	}
	if doctor != nil && doctor.PracticeName != "" {
		response.DoctorName = doctor.PracticeName
	}

	return response
}
