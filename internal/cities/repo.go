package cities

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/localizy/localizy-backend/pkg/db/models"
	"github.com/localizy/localizy-backend/pkg/pagination"
)

// Repository handles city persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, city *models.City) error
	Update(ctx context.Context, city *models.City) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.City, error)
	FindByCode(ctx context.Context, code string) (*models.City, error)
	List(ctx context.Context, query ListCitiesQuery) ([]models.City, int64, error)
	Stats(ctx context.Context) (*StatsDTO, error)
}

// ListCitiesQuery configures city list queries.
type ListCitiesQuery struct {
	Search   string
	Country  string
	IsActive *bool
	Page     pagination.Params
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a city repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, city *models.City) error {
	return r.db.WithContext(ctx).Create(city).Error
}

func (r *repository) Update(ctx context.Context, city *models.City) error {
	return r.db.WithContext(ctx).Save(city).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.City{}, "id = ?", id).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.City, error) {
	var city models.City
	if err := r.db.WithContext(ctx).First(&city, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &city, nil
}

func (r *repository) FindByCode(ctx context.Context, code string) (*models.City, error) {
	var city models.City
	if err := r.db.WithContext(ctx).
		Where("upper(code) = upper(?)", strings.TrimSpace(code)).
		First(&city).Error; err != nil {
		return nil, err
	}
	return &city, nil
}

func (r *repository) List(ctx context.Context, query ListCitiesQuery) ([]models.City, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.City{})
	if search := strings.TrimSpace(query.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		q = q.Where("lower(name) LIKE ? OR lower(code) LIKE ?", pattern, pattern)
	}
	if country := strings.TrimSpace(query.Country); country != "" {
		q = q.Where("lower(country) = lower(?)", country)
	}
	if query.IsActive != nil {
		q = q.Where("is_active = ?", *query.IsActive)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := pagination.Normalize(query.Page)
	var cities []models.City
	if err := q.Order("name ASC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&cities).Error; err != nil {
		return nil, 0, err
	}
	return cities, total, nil
}

func (r *repository) Stats(ctx context.Context) (*StatsDTO, error) {
	stats := &StatsDTO{}

	if err := r.db.WithContext(ctx).Model(&models.City{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&models.City{}).
		Where("is_active = ?", true).Count(&stats.Active).Error; err != nil {
		return nil, err
	}
	stats.Inactive = stats.Total - stats.Active

	if err := r.db.WithContext(ctx).Model(&models.Address{}).
		Where("city_id IS NOT NULL").Count(&stats.TotalAddresses).Error; err != nil {
		return nil, err
	}

	top := []CityAddressCount{}
	if err := r.db.WithContext(ctx).Model(&models.City{}).
		Select("cities.id as city_id, cities.name, cities.code, count(addresses.id) as address_count").
		Joins("LEFT JOIN addresses ON addresses.city_id = cities.id").
		Group("cities.id, cities.name, cities.code").
		Order("address_count DESC").
		Limit(10).
		Scan(&top).Error; err != nil {
		return nil, err
	}
	stats.TopByAddresses = top
	return stats, nil
}
