package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/medmap/admin-api/internal/dto"
	"github.com/medmap/admin-api/internal/models"
	"github.com/medmap/admin-api/internal/repository"
)

// ErrDoctorNotFound indicates the doctor does not exist.
var ErrDoctorNotFound = errors.New("doctor not found")

// DoctorService composes doctor rows with their linked profiles and manages
// the approval state, the only write transition on doctors.
type DoctorService interface {
	List(ctx context.Context, req dto.DoctorListRequest) ([]dto.DoctorResponse, error)
	Get(ctx context.Context, id string) (dto.DoctorResponse, error)
	UpdateApproval(ctx context.Context, id string, approved bool, actor ActivityActor) (dto.DoctorResponse, error)
}

type doctorService struct {
	doctors  repository.DoctorRepository
	profiles repository.ProfileRepository
	activity ActivityRecorder
	logger   zerolog.Logger
	now      func() time.Time
}

// NewDoctorService constructs the doctor service.
func NewDoctorService(doctors repository.DoctorRepository, profiles repository.ProfileRepository, activity ActivityRecorder, logger zerolog.Logger) DoctorService {
	return &doctorService{
		doctors:  doctors,
		profiles: profiles,
		activity: activity,
		logger:   logger.With().Str("component", "doctor_service").Logger(),
		now:      time.Now,
	}
}

func (s *doctorService) List(ctx context.Context, req dto.DoctorListRequest) ([]dto.DoctorResponse, error) {
	filter := repository.DoctorFilter{
		Status:    strings.TrimSpace(req.Status),
		Province:  strings.TrimSpace(req.Province),
		Specialty: strings.TrimSpace(req.Specialty),
		Search:    strings.TrimSpace(req.Search),
	}

	doctors, err := s.doctors.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	if len(doctors) == 0 {
		return []dto.DoctorResponse{}, nil
	}

	profileMap, err := s.linkedProfiles(ctx, doctors)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.DoctorResponse, 0, len(doctors))
	for _, doctor := range doctors {
		responses = append(responses, dto.NewDoctorResponse(doctor, profileMap[linkedProfileID(doctor)]))
	}

	return responses, nil
}

func (s *doctorService) Get(ctx context.Context, id string) (dto.DoctorResponse, error) {
	doctor, err := s.doctors.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DoctorResponse{}, ErrDoctorNotFound
		}
		return dto.DoctorResponse{}, err
	}

	return s.joinOne(ctx, doctor)
}

func (s *doctorService) UpdateApproval(ctx context.Context, id string, approved bool, actor ActivityActor) (dto.DoctorResponse, error) {
	updates := map[string]interface{}{
		"updated_at": s.now(),
	}

	if approved {
		updates["approved_at"] = s.now()
		updates["approved_by"] = actor.ID
		updates["is_available"] = true
	} else {
		updates["approved_at"] = nil
		updates["approved_by"] = nil
		updates["is_available"] = false
	}

	doctor, err := s.doctors.UpdateFields(ctx, id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DoctorResponse{}, ErrDoctorNotFound
		}
		return dto.DoctorResponse{}, err
	}

	if s.activity != nil {
		action := "doctor.approved"
		if !approved {
			action = "doctor.rejected"
		}
		_, _ = s.activity.Record(ctx, ActivityEntry{
			AdminID:  actor.ID,
			Action:   action,
			Resource: "doctor",
			Metadata: map[string]interface{}{
				"doctor_id": id,
				"approved":  approved,
			},
		})
	}

	return s.joinOne(ctx, doctor)
}

// joinOne resolves the linked profile for a single doctor. A missing profile
// degrades to the practice-name fallback rather than failing the request.
func (s *doctorService) joinOne(ctx context.Context, doctor models.Doctor) (dto.DoctorResponse, error) {
	var profile *models.Profile
	if doctor.UserID != nil && *doctor.UserID != "" {
		found, err := s.profiles.GetByID(ctx, *doctor.UserID)
		if err == nil {
			profile = &found
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn().Err(err).Str("doctor_id", doctor.ID).Msg("failed to resolve linked profile")
		}
	}

	return dto.NewDoctorResponse(doctor, profile), nil
}

// linkedProfiles batch-fetches the profiles for all distinct non-null user ids
// in one query to avoid per-row lookups.
func (s *doctorService) linkedProfiles(ctx context.Context, doctors []models.Doctor) (map[string]*models.Profile, error) {
	ids := make([]string, 0, len(doctors))
	seen := make(map[string]struct{}, len(doctors))
	for _, doctor := range doctors {
		id := linkedProfileID(doctor)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	profiles, err := s.profiles.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	profileMap := make(map[string]*models.Profile, len(profiles))
	for i := range profiles {
		profileMap[profiles[i].ID] = &profiles[i]
	}

	return profileMap, nil
}

func linkedProfileID(doctor models.Doctor) string {
	if doctor.UserID == nil {
		return ""
	}
	return *doctor.UserID
}
