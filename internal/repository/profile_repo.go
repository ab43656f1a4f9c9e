package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/medmap/admin-api/internal/models"
)

// ProfileFilter narrows profile listings.
type ProfileFilter struct {
	Role   string
	Search string
}

// ProfileRepository exposes persistence helpers for account profiles.
type ProfileRepository interface {
	List(ctx context.Context, filter ProfileFilter) ([]models.Profile, error)
	GetByID(ctx context.Context, id string) (models.Profile, error)
	ListByIDs(ctx context.Context, ids []string) ([]models.Profile, error)
	Create(ctx context.Context, profile *models.Profile) error
	CountByRole(ctx context.Context, role string) (int64, error)
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository constructs the profile repository.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) List(ctx context.Context, filter ProfileFilter) ([]models.Profile, error) {
	query := r.db.WithContext(ctx).Model(&models.Profile{})

	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}

	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?", like, like, like)
	}

	var profiles []models.Profile
	if err := query.Order("created_at DESC").Find(&profiles).Error; err != nil {
		return nil, err
	}

	return profiles, nil
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		return models.Profile{}, err
	}

	return profile, nil
}

func (r *profileRepository) ListByIDs(ctx context.Context, ids []string) ([]models.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var profiles []models.Profile
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&profiles).Error; err != nil {
		return nil, err
	}

	return profiles, nil
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *profileRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Profile{}).
		Where("role = ?", role).
		Count(&count).Error
	return count, err
}
