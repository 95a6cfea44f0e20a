package cities

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/localizy/localizy-backend/pkg/db"
	"github.com/localizy/localizy-backend/pkg/db/models"
	pkgerrors "github.com/localizy/localizy-backend/pkg/errors"
)

// Service exposes city catalog operations.
type Service interface {
	List(ctx context.Context, query ListCitiesQuery) ([]CityDTO, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*CityDTO, error)
	Create(ctx context.Context, input CreateCityInput) (*CityDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateCityInput) (*CityDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ToggleActive(ctx context.Context, id uuid.UUID) (*CityDTO, error)
	Stats(ctx context.Context) (*StatsDTO, error)
}

// CreateCityInput captures city creation fields.
type CreateCityInput struct {
	Name        string
	Code        string
	Country     string
	Description *string
	IsActive    *bool
}

// UpdateCityInput captures the mutable city fields.
type UpdateCityInput struct {
	Name        *string
	Code        *string
	Country     *string
	Description *string
	IsActive    *bool
}

type service struct {
	repo Repository
}

// NewService builds a city service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("city repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, query ListCitiesQuery) ([]CityDTO, int64, error) {
	rows, total, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cities")
	}
	return FromModels(rows), total, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*CityDTO, error) {
	city, err := s.findCity(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(city), nil
}

func (s *service) Create(ctx context.Context, input CreateCityInput) (*CityDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	code := normalizeCode(input.Code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code is required")
	}
	country := strings.TrimSpace(input.Country)
	if country == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "country is required")
	}

	if err := s.ensureCodeAvailable(ctx, code, uuid.Nil); err != nil {
		return nil, err
	}

	city := &models.City{
		Name:        name,
		Code:        code,
		Country:     country,
		Description: input.Description,
		IsActive:    true,
	}
	if input.IsActive != nil {
		city.IsActive = *input.IsActive
	}

	if err := s.repo.Create(ctx, city); err != nil {
		if db.IsUniqueViolation(err, "ux_cities_code") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "city code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create city")
	}
	return FromModel(city), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateCityInput) (*CityDTO, error) {
	city, err := s.findCity(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		city.Name = name
	}
	if input.Code != nil {
		code := normalizeCode(*input.Code)
		if code == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "code cannot be empty")
		}
		if err := s.ensureCodeAvailable(ctx, code, city.ID); err != nil {
			return nil, err
		}
		city.Code = code
	}
	if input.Country != nil {
		country := strings.TrimSpace(*input.Country)
		if country == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "country cannot be empty")
		}
		city.Country = country
	}
	if input.Description != nil {
		city.Description = input.Description
	}
	if input.IsActive != nil {
		city.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, city); err != nil {
		if db.IsUniqueViolation(err, "ux_cities_code") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "city code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update city")
	}
	return FromModel(city), nil
}

// Delete removes the city; addresses keep existing with city_id cleared by the
// SET NULL constraint.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findCity(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete city")
	}
	return nil
}

func (s *service) ToggleActive(ctx context.Context, id uuid.UUID) (*CityDTO, error) {
	city, err := s.findCity(ctx, id)
	if err != nil {
		return nil, err
	}
	city.IsActive = !city.IsActive
	if err := s.repo.Update(ctx, city); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "toggle city")
	}
	return FromModel(city), nil
}

func (s *service) Stats(ctx context.Context) (*StatsDTO, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "city stats")
	}
	return stats, nil
}

func (s *service) findCity(ctx context.Context, id uuid.UUID) (*models.City, error) {
	city, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "city not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load city")
	}
	return city, nil
}

func (s *service) ensureCodeAvailable(ctx context.Context, code string, selfID uuid.UUID) error {
	existing, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup city code")
	}
	if existing.ID == selfID {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeConflict, "city code already exists")
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
