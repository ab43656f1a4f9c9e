package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/medmap/admin-api/internal/dto"
	"github.com/medmap/admin-api/internal/models"
	"github.com/medmap/admin-api/internal/repository"
)

// ActivityActor represents the authenticated administrator performing an action.
type ActivityActor struct {
	ID   string
	Role string
}

// ActivityEntry captures the details required to persist an audit entry.
type ActivityEntry struct {
	AdminID  string
	Action   string
	Resource string
	Status   string
	Metadata map[string]interface{}
}

// ActivityRecorder defines behaviour for recording audit events.
type ActivityRecorder interface {
	Record(ctx context.Context, entry ActivityEntry) (dto.ActivityResponse, error)
}

// ActivityService exposes methods to query and persist the audit trail.
// Read failures propagate to the caller so an empty result always means an
// empty log, never a swallowed error.
type ActivityService interface {
	ActivityRecorder
	List(ctx context.Context, req dto.ActivityListRequest) ([]dto.ActivityResponse, error)
}

type activityService struct {
	repo   repository.ActivityLogRepository
	logger zerolog.Logger
}

// NewActivityService constructs the activity log service.
func NewActivityService(repo repository.ActivityLogRepository, logger zerolog.Logger) ActivityService {
	return &activityService{
		repo:   repo,
		logger: logger.With().Str("component", "activity_service").Logger(),
	}
}

func (s *activityService) Record(ctx context.Context, entry ActivityEntry) (dto.ActivityResponse, error) {
	if strings.TrimSpace(entry.Action) == "" {
		return dto.ActivityResponse{}, fmt.Errorf("action is required")
	}
	if strings.TrimSpace(entry.Resource) == "" {
		return dto.ActivityResponse{}, fmt.Errorf("resource is required")
	}

	status := strings.ToLower(strings.TrimSpace(entry.Status))
	if status == "" {
		status = "success"
	}

	model := models.ActivityLog{
		AdminID:  entry.AdminID,
		Action:   strings.ToLower(strings.TrimSpace(entry.Action)),
		Resource: strings.ToLower(strings.TrimSpace(entry.Resource)),
		Status:   status,
		Metadata: sanitizeMetadata(entry.Metadata),
	}

	if err := s.repo.Create(ctx, &model); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist activity log")
		return dto.ActivityResponse{}, err
	}

	return dto.NewActivityResponse(model), nil
}

func (s *activityService) List(ctx context.Context, req dto.ActivityListRequest) ([]dto.ActivityResponse, error) {
	filter := repository.ActivityLogFilter{
		AdminID: strings.TrimSpace(req.AdminID),
		Limit:   req.Limit,
	}

	entries, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ActivityResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, dto.NewActivityResponse(entry))
	}

	return responses, nil
}

func sanitizeMetadata(metadata map[string]interface{}) datatypes.JSONMap {
	if metadata == nil {
		return datatypes.JSONMap{}
	}

	sanitized := datatypes.JSONMap{}
	for key, value := range metadata {
		lower := strings.ToLower(key)
		if strings.Contains(lower, "email") || strings.Contains(lower, "password") || strings.Contains(lower, "token") {
			sanitized[key] = "***"
			continue
		}
		sanitized[key] = value
	}
	return sanitized
}
