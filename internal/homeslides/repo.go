package homeslides

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/localizy/localizy-backend/pkg/db/models"
)

// Repository handles home slide persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, slide *models.HomeSlide) error
	Update(ctx context.Context, slide *models.HomeSlide) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.HomeSlide, error)
	List(ctx context.Context, onlyActive bool) ([]models.HomeSlide, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a home slide repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, slide *models.HomeSlide) error {
	return r.db.WithContext(ctx).Create(slide).Error
}

func (r *repository) Update(ctx context.Context, slide *models.HomeSlide) error {
	return r.db.WithContext(ctx).Save(slide).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.HomeSlide{}, "id = ?", id).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.HomeSlide, error) {
	var slide models.HomeSlide
	if err := r.db.WithContext(ctx).First(&slide, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &slide, nil
}

func (r *repository) List(ctx context.Context, onlyActive bool) ([]models.HomeSlide, error) {
	q := r.db.WithContext(ctx).Model(&models.HomeSlide{})
	if onlyActive {
		q = q.Where("is_active = ?", true)
	}
	var slides []models.HomeSlide
	if err := q.Order("sort_order ASC, created_at ASC").Find(&slides).Error; err != nil {
		return nil, err
	}
	return slides, nil
}
