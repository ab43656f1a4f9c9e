package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/medmap/admin-api/internal/models"
)

// DoctorFilter narrows doctor listings. Status filters on the derived
// approval state; Province and Specialty treat "all" as no filter.
type DoctorFilter struct {
	Status    string
	Province  string
	Specialty string
	Search    string
}

// DoctorRepository exposes persistence helpers for doctor records.
type DoctorRepository interface {
	List(ctx context.Context, filter DoctorFilter) ([]models.Doctor, error)
	GetByID(ctx context.Context, id string) (models.Doctor, error)
	ListByIDs(ctx context.Context, ids []string) ([]models.Doctor, error)
	UpdateFields(ctx context.Context, id string, updates map[string]interface{}) (models.Doctor, error)
	Count(ctx context.Context) (int64, error)
}

type doctorRepository struct {
	db *gorm.DB
}

// NewDoctorRepository constructs the doctor repository.
func NewDoctorRepository(db *gorm.DB) DoctorRepository {
	return &doctorRepository{db: db}
}

func (r *doctorRepository) List(ctx context.Context, filter DoctorFilter) ([]models.Doctor, error) {
	query := r.db.WithContext(ctx).Model(&models.Doctor{})

	switch filter.Status {
	case models.DoctorStatusVerified:
		query = query.Where("approved_at IS NOT NULL")
	case models.DoctorStatusPending:
		query = query.Where("approved_at IS NULL")
	}

	if filter.Province != "" && filter.Province != models.DoctorStatusFilterAll {
		query = query.Where("province = ?", filter.Province)
	}

	if filter.Specialty != "" && filter.Specialty != models.DoctorStatusFilterAll {
		query = query.Where("speciality = ?", filter.Specialty)
	}

	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(practice_name) LIKE ? OR LOWER(speciality) LIKE ?", like, like)
	}

	var doctors []models.Doctor
	if err := query.Order("created_at DESC").Find(&doctors).Error; err != nil {
		return nil, err
	}

	return doctors, nil
}

func (r *doctorRepository) GetByID(ctx context.Context, id string) (models.Doctor, error) {
	var doctor models.Doctor
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&doctor).Error; err != nil {
		return models.Doctor{}, err
	}

	return doctor, nil
}

func (r *doctorRepository) ListByIDs(ctx context.Context, ids []string) ([]models.Doctor, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var doctors []models.Doctor
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&doctors).Error; err != nil {
		return nil, err
	}

	return doctors, nil
}

func (r *doctorRepository) UpdateFields(ctx context.Context, id string, updates map[string]interface{}) (models.Doctor, error) {
	update := r.db.WithContext(ctx).Model(&models.Doctor{}).
		Where("id = ?", id).
		Updates(updates)
	if update.Error != nil {
		return models.Doctor{}, update.Error
	}

	if update.RowsAffected == 0 {
		return models.Doctor{}, gorm.ErrRecordNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *doctorRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Doctor{}).Count(&count).Error
	return count, err
}
