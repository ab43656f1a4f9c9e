package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/medmap/admin-api/internal/dto"
	"github.com/medmap/admin-api/internal/models"
	"github.com/medmap/admin-api/internal/repository"
)

const calendarDateLayout = "2006-01-02"

// Trend figures are static until aggregate snapshots are persisted; computing
// real deltas needs a history table that does not exist yet.
const (
	placeholderRevenueTrend      = 15.3
	placeholderDoctorsTrend      = 12.5
	placeholderPatientsTrend     = 8.2
	placeholderAppointmentsTrend = -2.1
)

// DashboardService aggregates the headline statistics for the admin dashboard.
type DashboardService interface {
	Stats(ctx context.Context) (dto.DashboardStatsResponse, error)
}

type dashboardService struct {
	doctors  repository.DoctorRepository
	profiles repository.ProfileRepository
	bookings repository.BookingRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewDashboardService constructs the dashboard service. The cache client may
// be nil, in which case every call recomputes.
func NewDashboardService(doctors repository.DoctorRepository, profiles repository.ProfileRepository, bookings repository.BookingRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) DashboardService {
	return &dashboardService{
		doctors:  doctors,
		profiles: profiles,
		bookings: bookings,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "dashboard_service").Logger(),
		now:      time.Now,
	}
}

func (s *dashboardService) Stats(ctx context.Context) (dto.DashboardStatsResponse, error) {
	const cacheKey = "dashboard:stats"
	tracer := otel.Tracer("github.com/medmap/admin-api/internal/service/dashboard")
	ctx, span := tracer.Start(ctx, "dashboard.aggregate")
	span.SetAttributes(attribute.String("dashboard.cache_key", cacheKey))
	defer span.End()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey).Result()
		if err == nil {
			var response dto.DashboardStatsResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				response.CacheHit = true
				span.SetAttributes(attribute.Bool("dashboard.cache_hit", true))
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read stats cache")
			span.RecordError(err)
		}
	}

	now := s.now()
	today := now.Format(calendarDateLayout)
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format(calendarDateLayout)

	var (
		totalDoctors      int64
		activePatients    int64
		todayAppointments int64
		totalRevenue      float64
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		count, err := s.doctors.Count(groupCtx)
		totalDoctors = count
		return err
	})
	group.Go(func() error {
		count, err := s.profiles.CountByRole(groupCtx, models.RoleUser)
		activePatients = count
		return err
	})
	group.Go(func() error {
		count, err := s.bookings.CountByDate(groupCtx, today)
		todayAppointments = count
		return err
	})
	group.Go(func() error {
		sum, err := s.bookings.SumCompletedSince(groupCtx, firstOfMonth)
		totalRevenue = sum
		return err
	})

	if err := group.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "dashboard_aggregation_failed")
		return dto.DashboardStatsResponse{}, err
	}

	stats := dto.DashboardStatsResponse{
		TotalDoctors:      totalDoctors,
		ActivePatients:    activePatients,
		TodayAppointments: todayAppointments,
		TotalRevenue:      totalRevenue,
		RevenueTrend:      placeholderRevenueTrend,
		DoctorsTrend:      placeholderDoctorsTrend,
		PatientsTrend:     placeholderPatientsTrend,
		AppointmentsTrend: placeholderAppointmentsTrend,
		GeneratedAt:       now,
		CacheHit:          false,
	}

	span.SetAttributes(
		attribute.Int64("dashboard.total_doctors", totalDoctors),
		attribute.Int64("dashboard.active_patients", activePatients),
		attribute.Int64("dashboard.today_appointments", todayAppointments),
	)

	if s.cache != nil {
		payload, err := json.Marshal(stats)
		if err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store stats cache")
				span.RecordError(err)
			}
		}
	}

	return stats, nil
}
