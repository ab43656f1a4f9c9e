package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/medmap/admin-api/internal/models"
)

// DefaultBookingLimit caps the number of rows returned by booking listings.
const DefaultBookingLimit = 100

// BookingFilter narrows booking listings. Status treats "all" as no filter;
// Date matches the appointment calendar date exactly.
type BookingFilter struct {
	Status string
	Date   string
	Limit  int
}

// BookingRepository exposes persistence helpers for bookings.
type BookingRepository interface {
	List(ctx context.Context, filter BookingFilter) ([]models.Booking, error)
	GetByID(ctx context.Context, id string) (models.Booking, error)
	UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (models.Booking, error)
	CountByDate(ctx context.Context, date string) (int64, error)
	SumCompletedSince(ctx context.Context, fromDate string) (float64, error)
}

type bookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository constructs the booking repository.
func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) List(ctx context.Context, filter BookingFilter) ([]models.Booking, error) {
	query := r.db.WithContext(ctx).Model(&models.Booking{})

	if filter.Status != "" && filter.Status != models.BookingStatusFilterAll {
		query = query.Where("status = ?", filter.Status)
	}

	if filter.Date != "" {
		query = query.Where("appointment_date = ?", filter.Date)
	}

	limit := filter.Limit
	if limit <= 0 || limit > DefaultBookingLimit {
		limit = DefaultBookingLimit
	}

	var bookings []models.Booking
	if err := query.Order("appointment_date DESC").Limit(limit).Find(&bookings).Error; err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error; err != nil {
		return models.Booking{}, err
	}

	return booking, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (models.Booking, error) {
	update := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if update.Error != nil {
		return models.Booking{}, update.Error
	}

	if update.RowsAffected == 0 {
		return models.Booking{}, gorm.ErrRecordNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *bookingRepository) CountByDate(ctx context.Context, date string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("appointment_date = ?", date).
		Count(&count).Error
	return count, err
}

func (r *bookingRepository) SumCompletedSince(ctx context.Context, fromDate string) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&models.Booking{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("status = ?", models.BookingStatusCompleted).
		Where("appointment_date >= ?", fromDate).
		Scan(&total).Error
	return total, err
}
