package settings

import (
	"context"

	"gorm.io/gorm"

	"github.com/localizy/localizy-backend/pkg/db/models"
)

// Repository handles setting persistence. Rows are seeded by migration, only
// Update mutates them.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListAll(ctx context.Context) ([]models.Setting, error)
	ListByCategory(ctx context.Context, category string) ([]models.Setting, error)
	FindByKey(ctx context.Context, key string) (*models.Setting, error)
	Update(ctx context.Context, setting *models.Setting) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a setting repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListAll(ctx context.Context) ([]models.Setting, error) {
	var settings []models.Setting
	if err := r.db.WithContext(ctx).
		Order("category ASC, key ASC").
		Find(&settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *repository) ListByCategory(ctx context.Context, category string) ([]models.Setting, error) {
	var settings []models.Setting
	if err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Order("key ASC").
		Find(&settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *repository) FindByKey(ctx context.Context, key string) (*models.Setting, error) {
	var setting models.Setting
	if err := r.db.WithContext(ctx).First(&setting, "key = ?", key).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *repository) Update(ctx context.Context, setting *models.Setting) error {
	return r.db.WithContext(ctx).Save(setting).Error
}
