package users

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/localizy/localizy-backend/pkg/db/models"
	"github.com/localizy/localizy-backend/pkg/enums"
	"github.com/localizy/localizy-backend/pkg/pagination"
)

// Repository handles user persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, query ListUsersQuery) ([]models.User, int64, error)
	ListSubAccounts(ctx context.Context, parentBusinessID uuid.UUID) ([]models.User, error)
	Stats(ctx context.Context) (*StatsDTO, error)
}

// ListUsersQuery configures user list queries.
type ListUsersQuery struct {
	Search   string
	Role     *enums.UserRole
	IsActive *bool
	Page     pagination.Params
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a user repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *repository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Where("lower(email) = lower(?)", strings.TrimSpace(email)).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) List(ctx context.Context, query ListUsersQuery) ([]models.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.User{})
	if search := strings.TrimSpace(query.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		q = q.Where("lower(full_name) LIKE ? OR lower(email) LIKE ?", pattern, pattern)
	}
	if query.Role != nil {
		q = q.Where("role = ?", *query.Role)
	}
	if query.IsActive != nil {
		q = q.Where("is_active = ?", *query.IsActive)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := pagination.Normalize(query.Page)
	var users []models.User
	if err := q.Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *repository) ListSubAccounts(ctx context.Context, parentBusinessID uuid.UUID) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Where("parent_business_id = ? AND role = ?", parentBusinessID, enums.UserRoleSubAccount).
		Order("created_at DESC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *repository) Stats(ctx context.Context) (*StatsDTO, error) {
	stats := &StatsDTO{ByRole: map[string]int64{}}

	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("is_active = ?", true).Count(&stats.Active).Error; err != nil {
		return nil, err
	}
	stats.Inactive = stats.Total - stats.Active

	rows := []struct {
		Role  string
		Count int64
	}{}
	if err := r.db.WithContext(ctx).Model(&models.User{}).
		Select("role, count(*) as count").
		Group("role").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.ByRole[row.Role] = row.Count
	}
	return stats, nil
}
