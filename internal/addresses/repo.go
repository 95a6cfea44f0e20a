package addresses

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/localizy/localizy-backend/pkg/db/models"
	"github.com/localizy/localizy-backend/pkg/enums"
	"github.com/localizy/localizy-backend/pkg/pagination"
)

// Repository handles address persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, address *models.Address) error
	Update(ctx context.Context, address *models.Address) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Address, error)
	List(ctx context.Context, query ListAddressesQuery) ([]models.Address, int64, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (*StatsDTO, error)
}

// ListAddressesQuery configures address list queries.
type ListAddressesQuery struct {
	Search      string
	Status      *enums.AddressStatus
	Type        string
	CityID      *uuid.UUID
	SubmittedBy *uuid.UUID
	Page        pagination.Params
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an address repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, address *models.Address) error {
	return r.db.WithContext(ctx).Create(address).Error
}

func (r *repository) Update(ctx context.Context, address *models.Address) error {
	return r.db.WithContext(ctx).Save(address).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Address{}, "id = ?", id).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Address, error) {
	var address models.Address
	if err := r.db.WithContext(ctx).First(&address, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &address, nil
}

func (r *repository) List(ctx context.Context, query ListAddressesQuery) ([]models.Address, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Address{})
	if search := strings.TrimSpace(query.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		q = q.Where("lower(name) LIKE ? OR lower(full_address) LIKE ?", pattern, pattern)
	}
	if query.Status != nil {
		q = q.Where("status = ?", *query.Status)
	}
	if addrType := strings.TrimSpace(query.Type); addrType != "" {
		q = q.Where("lower(type) = lower(?)", addrType)
	}
	if query.CityID != nil {
		q = q.Where("city_id = ?", *query.CityID)
	}
	if query.SubmittedBy != nil {
		q = q.Where("submitted_by_user_id = ?", *query.SubmittedBy)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := pagination.Normalize(query.Page)
	var addresses []models.Address
	if err := q.Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&addresses).Error; err != nil {
		return nil, 0, err
	}
	return addresses, total, nil
}

func (r *repository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.Address{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

func (r *repository) Stats(ctx context.Context) (*StatsDTO, error) {
	stats := &StatsDTO{}

	counts := []struct {
		Status string
		Count  int64
	}{}
	if err := r.db.WithContext(ctx).Model(&models.Address{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	for _, row := range counts {
		stats.Total += row.Count
		switch enums.AddressStatus(row.Status) {
		case enums.AddressStatusPending:
			stats.Pending = row.Count
		case enums.AddressStatusVerified:
			stats.Verified = row.Count
		case enums.AddressStatusRejected:
			stats.Rejected = row.Count
		}
	}

	totals := struct {
		TotalViews    int64
		AverageRating float64
	}{}
	if err := r.db.WithContext(ctx).Model(&models.Address{}).
		Select("coalesce(sum(views), 0) as total_views, coalesce(avg(rating), 0) as average_rating").
		Scan(&totals).Error; err != nil {
		return nil, err
	}
	stats.TotalViews = totals.TotalViews
	stats.AverageRating = totals.AverageRating
	return stats, nil
}
