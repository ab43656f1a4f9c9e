package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/medmap/admin-api/internal/models"
)

// DefaultActivityLimit caps activity log reads when no limit is supplied.
const DefaultActivityLimit = 100

// ActivityLogFilter narrows activity log queries.
type ActivityLogFilter struct {
	AdminID string
	Limit   int
}

// ActivityLogRepository persists audit trail events.
type ActivityLogRepository interface {
	Create(ctx context.Context, entry *models.ActivityLog) error
	List(ctx context.Context, filter ActivityLogFilter) ([]models.ActivityLog, error)
}

type activityLogRepository struct {
	db *gorm.DB
}

// NewActivityLogRepository constructs the activity log repository.
func NewActivityLogRepository(db *gorm.DB) ActivityLogRepository {
	return &activityLogRepository{db: db}
}

func (r *activityLogRepository) Create(ctx context.Context, entry *models.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *activityLogRepository) List(ctx context.Context, filter ActivityLogFilter) ([]models.ActivityLog, error) {
	query := r.db.WithContext(ctx).Model(&models.ActivityLog{})

	if filter.AdminID != "" {
		query = query.Where("admin_id = ?", filter.AdminID)
	}

	limit := filter.Limit
	if limit <= 0 || limit > DefaultActivityLimit {
		limit = DefaultActivityLimit
	}

	var entries []models.ActivityLog
	if err := query.Order("created_at DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}
