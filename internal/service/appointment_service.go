package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/medmap/admin-api/internal/dto"
	"github.com/medmap/admin-api/internal/models"
	"github.com/medmap/admin-api/internal/repository"
)

// ErrAppointmentNotFound indicates the booking does not exist.
var ErrAppointmentNotFound = errors.New("appointment not found")

// AppointmentService composes bookings with their patient and doctor
// participants and performs status updates. Status transitions are not
// guarded; UpdateStatus is the single seam where a transition rule would go.
type AppointmentService interface {
	List(ctx context.Context, req dto.AppointmentListRequest) ([]dto.AppointmentResponse, error)
	Get(ctx context.Context, id string) (dto.AppointmentResponse, error)
	UpdateStatus(ctx context.Context, id string, status models.BookingStatus, actor ActivityActor) (dto.AppointmentResponse, error)
}

type appointmentService struct {
	bookings repository.BookingRepository
	profiles repository.ProfileRepository
	doctors  repository.DoctorRepository
	activity ActivityRecorder
	logger   zerolog.Logger
}

// NewAppointmentService constructs the appointment service.
func NewAppointmentService(bookings repository.BookingRepository, profiles repository.ProfileRepository, doctors repository.DoctorRepository, activity ActivityRecorder, logger zerolog.Logger) AppointmentService {
	return &appointmentService{
		bookings: bookings,
		profiles: profiles,
		doctors:  doctors,
		activity: activity,
		logger:   logger.With().Str("component", "appointment_service").Logger(),
	}
}

func (s *appointmentService) List(ctx context.Context, req dto.AppointmentListRequest) ([]dto.AppointmentResponse, error) {
	filter := repository.BookingFilter{
		Status: strings.TrimSpace(req.Status),
		Date:   strings.TrimSpace(req.Date),
	}

	bookings, err := s.bookings.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	if len(bookings) == 0 {
		return []dto.AppointmentResponse{}, nil
	}

	profileMap, doctorMap, err := s.participants(ctx, bookings)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.AppointmentResponse, 0, len(bookings))
	for _, booking := range bookings {
		responses = append(responses, dto.NewAppointmentResponse(booking, profileMap[booking.UserID], doctorMap[booking.DoctorID]))
	}

	if search := strings.TrimSpace(req.Search); search != "" {
		responses = filterBySearch(responses, search)
	}

	return responses, nil
}

func (s *appointmentService) Get(ctx context.Context, id string) (dto.AppointmentResponse, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AppointmentResponse{}, ErrAppointmentNotFound
		}
		return dto.AppointmentResponse{}, err
	}

	return s.joinOne(ctx, booking)
}

func (s *appointmentService) UpdateStatus(ctx context.Context, id string, status models.BookingStatus, actor ActivityActor) (dto.AppointmentResponse, error) {
	booking, err := s.bookings.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AppointmentResponse{}, ErrAppointmentNotFound
		}
		return dto.AppointmentResponse{}, err
	}

	if s.activity != nil {
		_, _ = s.activity.Record(ctx, ActivityEntry{
			AdminID:  actor.ID,
			Action:   "appointment.status_changed",
			Resource: "appointment",
			Metadata: map[string]interface{}{
				"appointment_id": id,
				"status":         string(status),
			},
		})
	}

	return s.joinOne(ctx, booking)
}

// joinOne resolves both participants for a single booking concurrently.
// Missing participants degrade to the Unknown sentinel.
func (s *appointmentService) joinOne(ctx context.Context, booking models.Booking) (dto.AppointmentResponse, error) {
	var (
		patient *models.Profile
		doctor  *models.Doctor
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		found, err := s.profiles.GetByID(groupCtx, booking.UserID)
		if err == nil {
			patient = &found
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		found, err := s.doctors.GetByID(groupCtx, booking.DoctorID)
		if err == nil {
			doctor = &found
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		return dto.AppointmentResponse{}, err
	}

	return dto.NewAppointmentResponse(booking, patient, doctor), nil
}

// participants batch-fetches the distinct patient and doctor rows referenced
// by the bookings in two concurrent queries.
func (s *appointmentService) participants(ctx context.Context, bookings []models.Booking) (map[string]*models.Profile, map[string]*models.Doctor, error) {
	userIDs := distinctIDs(bookings, func(b models.Booking) string { return b.UserID })
	doctorIDs := distinctIDs(bookings, func(b models.Booking) string { return b.DoctorID })

	var (
		profiles []models.Profile
		doctors  []models.Doctor
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		found, err := s.profiles.ListByIDs(groupCtx, userIDs)
		if err != nil {
			return err
		}
		profiles = found
		return nil
	})
	group.Go(func() error {
		found, err := s.doctors.ListByIDs(groupCtx, doctorIDs)
		if err != nil {
			return err
		}
		doctors = found
		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, nil, err
	}

	profileMap := make(map[string]*models.Profile, len(profiles))
	for i := range profiles {
		profileMap[profiles[i].ID] = &profiles[i]
	}

	doctorMap := make(map[string]*models.Doctor, len(doctors))
	for i := range doctors {
		doctorMap[doctors[i].ID] = &doctors[i]
	}

	return profileMap, doctorMap, nil
}

// filterBySearch narrows composed rows by participant name. It runs after the
// row limit so the query semantics stay identical with or without a search.
func filterBySearch(responses []dto.AppointmentResponse, search string) []dto.AppointmentResponse {
	needle := strings.ToLower(search)
	filtered := make([]dto.AppointmentResponse, 0, len(responses))
	for _, response := range responses {
		if strings.Contains(strings.ToLower(response.PatientName), needle) ||
			strings.Contains(strings.ToLower(response.DoctorName), needle) {
			filtered = append(filtered, response)
		}
	}
	return filtered
}

func distinctIDs(bookings []models.Booking, pick func(models.Booking) string) []string {
	seen := make(map[string]struct{}, len(bookings))
	ids := make([]string, 0, len(bookings))
	for _, booking := range bookings {
		id := pick(booking)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
