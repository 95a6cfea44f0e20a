package projects

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/localizy/localizy-backend/pkg/db/models"
)

// Repository handles project and translation persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	ListAll(ctx context.Context) ([]models.Project, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Project, error)

	CreateTranslation(ctx context.Context, tr *models.Translation) error
	UpdateTranslation(ctx context.Context, tr *models.Translation) error
	DeleteTranslation(ctx context.Context, projectID, id uuid.UUID) error
	FindTranslation(ctx context.Context, projectID uuid.UUID, key, language string) (*models.Translation, error)
	ListTranslations(ctx context.Context, projectID uuid.UUID) ([]models.Translation, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a project repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *repository) Update(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

// Delete removes the project; translations go with it through the cascade
// constraint.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Project{}, "id = ?", id).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).First(&project, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *repository) ListAll(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *repository) CreateTranslation(ctx context.Context, tr *models.Translation) error {
	return r.db.WithContext(ctx).Create(tr).Error
}

func (r *repository) UpdateTranslation(ctx context.Context, tr *models.Translation) error {
	return r.db.WithContext(ctx).Save(tr).Error
}

func (r *repository) DeleteTranslation(ctx context.Context, projectID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&models.Translation{}, "id = ? AND project_id = ?", id, projectID).Error
}

func (r *repository) FindTranslation(ctx context.Context, projectID uuid.UUID, key, language string) (*models.Translation, error) {
	var tr models.Translation
	if err := r.db.WithContext(ctx).
		Where("project_id = ? AND key = ? AND language = ?", projectID, key, language).
		First(&tr).Error; err != nil {
		return nil, err
	}
	return &tr, nil
}

func (r *repository) ListTranslations(ctx context.Context, projectID uuid.UUID) ([]models.Translation, error) {
	var trs []models.Translation
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("key ASC, language ASC").
		Find(&trs).Error; err != nil {
		return nil, err
	}
	return trs, nil
}
