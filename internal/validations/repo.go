package validations

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/localizy/localizy-backend/pkg/db/models"
	"github.com/localizy/localizy-backend/pkg/enums"
	"github.com/localizy/localizy-backend/pkg/pagination"
)

const requestIDPrefix = "VAL"

// Repository handles validation persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, validation *models.Validation) error
	Update(ctx context.Context, validation *models.Validation) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Validation, error)
	FindByRequestID(ctx context.Context, requestID string) (*models.Validation, error)
	List(ctx context.Context, query ListValidationsQuery) ([]models.Validation, int64, error)
	NextRequestID(ctx context.Context, year int) (string, error)
	Stats(ctx context.Context, now time.Time) (*StatsDTO, error)
}

// ListValidationsQuery configures validation list queries.
type ListValidationsQuery struct {
	Search      string
	Status      *enums.ValidationStatus
	Priority    *enums.ValidationPriority
	SubmittedBy *uuid.UUID
	Page        pagination.Params
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a validation repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, validation *models.Validation) error {
	return r.db.WithContext(ctx).Create(validation).Error
}

func (r *repository) Update(ctx context.Context, validation *models.Validation) error {
	return r.db.WithContext(ctx).Save(validation).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Validation{}, "id = ?", id).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Validation, error) {
	var validation models.Validation
	if err := r.db.WithContext(ctx).First(&validation, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &validation, nil
}

func (r *repository) FindByRequestID(ctx context.Context, requestID string) (*models.Validation, error) {
	var validation models.Validation
	if err := r.db.WithContext(ctx).
		Where("request_id = ?", strings.TrimSpace(requestID)).
		First(&validation).Error; err != nil {
		return nil, err
	}
	return &validation, nil
}

func (r *repository) List(ctx context.Context, query ListValidationsQuery) ([]models.Validation, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Validation{})
	if search := strings.TrimSpace(query.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		q = q.Where("lower(request_id) LIKE ?", pattern)
	}
	if query.Status != nil {
		q = q.Where("status = ?", *query.Status)
	}
	if query.Priority != nil {
		q = q.Where("priority = ?", *query.Priority)
	}
	if query.SubmittedBy != nil {
		q = q.Where("submitted_by_user_id = ?", *query.SubmittedBy)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := pagination.Normalize(query.Page)
	var rows []models.Validation
	if err := q.Order("submitted_date DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// NextRequestID produces the next "VAL-{year}-{NNN}" identifier by scanning the
// year's existing ids for the highest numeric suffix. Concurrent callers can
// race to the same value; the unique index on request_id turns that race into a
// retriable constraint error instead of a duplicate.
func (r *repository) NextRequestID(ctx context.Context, year int) (string, error) {
	prefix := fmt.Sprintf("%s-%d-", requestIDPrefix, year)

	var ids []string
	if err := r.db.WithContext(ctx).Model(&models.Validation{}).
		Where("request_id LIKE ?", prefix+"%").
		Pluck("request_id", &ids).Error; err != nil {
		return "", err
	}

	highest := 0
	for _, id := range ids {
		suffix := strings.TrimPrefix(id, prefix)
		if n, err := strconv.Atoi(suffix); err == nil && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s%03d", prefix, highest+1), nil
}

func (r *repository) Stats(ctx context.Context, now time.Time) (*StatsDTO, error) {
	stats := &StatsDTO{}

	counts := []struct {
		Status string
		Count  int64
	}{}
	if err := r.db.WithContext(ctx).Model(&models.Validation{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	for _, row := range counts {
		stats.Total += row.Count
		switch enums.ValidationStatus(row.Status) {
		case enums.ValidationStatusPending:
			stats.Pending = row.Count
		case enums.ValidationStatusVerified:
			stats.Verified = row.Count
		case enums.ValidationStatusRejected:
			stats.Rejected = row.Count
		}
	}

	if err := r.db.WithContext(ctx).Model(&models.Validation{}).
		Where("priority = ?", enums.ValidationPriorityHigh).
		Count(&stats.HighPriority).Error; err != nil {
		return nil, err
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := r.db.WithContext(ctx).Model(&models.Validation{}).
		Where("submitted_date >= ?", dayStart).
		Count(&stats.Today).Error; err != nil {
		return nil, err
	}
	return stats, nil
}
