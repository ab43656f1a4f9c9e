package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/medmap/admin-api/internal/dto"
	"github.com/medmap/admin-api/internal/models"
	"github.com/medmap/admin-api/internal/repository"
	"github.com/medmap/admin-api/pkg/identity"
)

// ErrPatientNotFound indicates the profile does not exist.
var ErrPatientNotFound = errors.New("patient not found")

const tempPasswordLength = 12

// PatientService manages patient profiles and their login accounts.
type PatientService interface {
	List(ctx context.Context, req dto.PatientListRequest) ([]dto.PatientResponse, error)
	Get(ctx context.Context, id string) (dto.PatientResponse, error)
	Create(ctx context.Context, req dto.PatientCreateRequest, actor ActivityActor) (dto.PatientResponse, error)
	ResetPassword(ctx context.Context, id string, req dto.PatientPasswordResetRequest, actor ActivityActor) error
}

type patientService struct {
	profiles  repository.ProfileRepository
	provider  identity.Provider
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewPatientService constructs the patient service.
func NewPatientService(profiles repository.ProfileRepository, provider identity.Provider, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) PatientService {
	return &patientService{
		profiles:  profiles,
		provider:  provider,
		validator: validate,
		activity:  activity,
		logger:    logger.With().Str("component", "patient_service").Logger(),
	}
}

func (s *patientService) List(ctx context.Context, req dto.PatientListRequest) ([]dto.PatientResponse, error) {
	filter := repository.ProfileFilter{
		Role:   models.RoleUser,
		Search: strings.TrimSpace(req.Search),
	}

	profiles, err := s.profiles.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.PatientResponse, 0, len(profiles))
	for _, profile := range profiles {
		responses = append(responses, dto.NewPatientResponse(profile))
	}

	return responses, nil
}

func (s *patientService) Get(ctx context.Context, id string) (dto.PatientResponse, error) {
	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PatientResponse{}, ErrPatientNotFound
		}
		return dto.PatientResponse{}, err
	}

	return dto.NewPatientResponse(profile), nil
}

// Create provisions a login account, then inserts the profile linked to it.
// If the profile insert fails the account is deleted again so the two writes
// behave as one unit.
func (s *patientService) Create(ctx context.Context, req dto.PatientCreateRequest, actor ActivityActor) (dto.PatientResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.PatientResponse{}, err
	}

	tempPassword, err := randomTempPassword(tempPasswordLength)
	if err != nil {
		return dto.PatientResponse{}, fmt.Errorf("failed to generate temporary password: %w", err)
	}

	accountID, err := s.provider.CreateAccount(ctx, req.Email, tempPassword)
	if err != nil {
		return dto.PatientResponse{}, fmt.Errorf("failed to create account: %w", err)
	}

	profile := models.Profile{
		ID:            accountID,
		Email:         req.Email,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Phone:         req.Phone,
		Role:          models.RoleUser,
		EmailVerified: false,
	}

	if err := s.profiles.Create(ctx, &profile); err != nil {
		if deleteErr := s.provider.DeleteAccount(ctx, accountID); deleteErr != nil {
			s.logger.Error().Err(deleteErr).Str("account_id", accountID).Msg("failed to roll back account after profile insert failure")
		}
		return dto.PatientResponse{}, fmt.Errorf("failed to create profile: %w", err)
	}

	if s.activity != nil {
		_, _ = s.activity.Record(ctx, ActivityEntry{
			AdminID:  actor.ID,
			Action:   "patient.created",
			Resource: "patient",
			Metadata: map[string]interface{}{
				"patient_id": profile.ID,
			},
		})
	}

	return dto.NewPatientResponse(profile), nil
}

func (s *patientService) ResetPassword(ctx context.Context, id string, req dto.PatientPasswordResetRequest, actor ActivityActor) error {
	if err := s.validator.Struct(req); err != nil {
		return err
	}

	if err := s.provider.UpdatePassword(ctx, id, req.Password); err != nil {
		if errors.Is(err, identity.ErrAccountNotFound) {
			return ErrPatientNotFound
		}
		return fmt.Errorf("failed to reset password: %w", err)
	}

	if s.activity != nil {
		_, _ = s.activity.Record(ctx, ActivityEntry{
			AdminID:  actor.ID,
			Action:   "patient.password_reset",
			Resource: "patient",
			Metadata: map[string]interface{}{
				"patient_id": id,
			},
		})
	}

	return nil
}

const tempPasswordAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func randomTempPassword(length int) (string, error) {
	var builder strings.Builder
	builder.Grow(length)
	max := big.NewInt(int64(len(tempPasswordAlphabet)))
	for i := 0; i < length; i++ {
		index, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		builder.WriteByte(tempPasswordAlphabet[index.Int64()])
	}
	return builder.String(), nil
}
