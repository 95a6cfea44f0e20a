package addresses

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/localizy/localizy-backend/pkg/db/models"
	"github.com/localizy/localizy-backend/pkg/enums"
	pkgerrors "github.com/localizy/localizy-backend/pkg/errors"
)

type usersRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type citiesRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.City, error)
}

// Service exposes address operations.
type Service interface {
	List(ctx context.Context, query ListAddressesQuery) ([]AddressDTO, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*AddressDTO, error)
	Create(ctx context.Context, input CreateAddressInput) (*AddressDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateAddressInput) (*AddressDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Verify(ctx context.Context, id, verifierID uuid.UUID, notes *string) (*AddressDTO, error)
	Reject(ctx context.Context, id, rejecterID uuid.UUID, reason string) (*AddressDTO, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (*StatsDTO, error)
}

// CreateAddressInput captures address submission fields.
type CreateAddressInput struct {
	Name         string
	FullAddress  string
	CityID       *uuid.UUID
	Country      string
	Type         string
	Category     string
	Latitude     float64
	Longitude    float64
	Description  *string
	Phone        *string
	Website      *string
	OpeningHours *string
	SubmittedBy  uuid.UUID
}

// UpdateAddressInput captures the mutable address fields. Status never changes
// here; Verify/Reject own the state machine.
type UpdateAddressInput struct {
	Name         *string
	FullAddress  *string
	CityID       *uuid.UUID
	Country      *string
	Type         *string
	Category     *string
	Latitude     *float64
	Longitude    *float64
	Description  *string
	Phone        *string
	Website      *string
	OpeningHours *string
}

type service struct {
	repo   Repository
	users  usersRepository
	cities citiesRepository
	now    func() time.Time
}

// NewService builds an address service with the provided repositories.
func NewService(repo Repository, users usersRepository, cities citiesRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("address repository required")
	}
	if users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if cities == nil {
		return nil, fmt.Errorf("cities repository required")
	}
	return &service{repo: repo, users: users, cities: cities, now: time.Now}, nil
}

func (s *service) List(ctx context.Context, query ListAddressesQuery) ([]AddressDTO, int64, error) {
	rows, total, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list addresses")
	}
	return FromModels(rows), total, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*AddressDTO, error) {
	address, err := s.findAddress(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(address), nil
}

func (s *service) Create(ctx context.Context, input CreateAddressInput) (*AddressDTO, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(input.FullAddress) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "full address is required")
	}

	if _, err := s.users.FindByID(ctx, input.SubmittedBy); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "submitting user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load submitting user")
	}
	if err := s.checkCity(ctx, input.CityID); err != nil {
		return nil, err
	}

	address := &models.Address{
		Name:              strings.TrimSpace(input.Name),
		FullAddress:       strings.TrimSpace(input.FullAddress),
		CityID:            input.CityID,
		Country:           strings.TrimSpace(input.Country),
		Type:              strings.TrimSpace(input.Type),
		Category:          strings.TrimSpace(input.Category),
		Status:            enums.AddressStatusPending,
		Latitude:          input.Latitude,
		Longitude:         input.Longitude,
		Description:       input.Description,
		Phone:             input.Phone,
		Website:           input.Website,
		OpeningHours:      input.OpeningHours,
		SubmittedByUserID: input.SubmittedBy,
		SubmittedDate:     s.now().UTC(),
	}

	if err := s.repo.Create(ctx, address); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create address")
	}
	return FromModel(address), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateAddressInput) (*AddressDTO, error) {
	address, err := s.findAddress(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.CityID != nil {
		if err := s.checkCity(ctx, input.CityID); err != nil {
			return nil, err
		}
		address.CityID = input.CityID
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		address.Name = name
	}
	if input.FullAddress != nil {
		full := strings.TrimSpace(*input.FullAddress)
		if full == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "full address cannot be empty")
		}
		address.FullAddress = full
	}
	if input.Country != nil {
		address.Country = strings.TrimSpace(*input.Country)
	}
	if input.Type != nil {
		address.Type = strings.TrimSpace(*input.Type)
	}
	if input.Category != nil {
		address.Category = strings.TrimSpace(*input.Category)
	}
	if input.Latitude != nil {
		address.Latitude = *input.Latitude
	}
	if input.Longitude != nil {
		address.Longitude = *input.Longitude
	}
	if input.Description != nil {
		address.Description = input.Description
	}
	if input.Phone != nil {
		address.Phone = input.Phone
	}
	if input.Website != nil {
		address.Website = input.Website
	}
	if input.OpeningHours != nil {
		address.OpeningHours = input.OpeningHours
	}

	if err := s.repo.Update(ctx, address); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update address")
	}
	return FromModel(address), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findAddress(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete address")
	}
	return nil
}

func (s *service) Verify(ctx context.Context, id, verifierID uuid.UUID, notes *string) (*AddressDTO, error) {
	address, err := s.findAddress(ctx, id)
	if err != nil {
		return nil, err
	}
	if address.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("address already %s", strings.ToLower(address.Status.String())))
	}

	now := s.now().UTC()
	address.Status = enums.AddressStatusVerified
	address.VerifiedByUserID = &verifierID
	address.VerifiedDate = &now
	address.VerificationNotes = notes
	address.RejectionReason = nil

	if err := s.repo.Update(ctx, address); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "verify address")
	}
	return FromModel(address), nil
}

func (s *service) Reject(ctx context.Context, id, rejecterID uuid.UUID, reason string) (*AddressDTO, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rejection reason is required")
	}

	address, err := s.findAddress(ctx, id)
	if err != nil {
		return nil, err
	}
	if address.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("address already %s", strings.ToLower(address.Status.String())))
	}

	now := s.now().UTC()
	address.Status = enums.AddressStatusRejected
	address.VerifiedByUserID = &rejecterID
	address.VerifiedDate = &now
	address.VerificationNotes = nil
	address.RejectionReason = &reason

	if err := s.repo.Update(ctx, address); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reject address")
	}
	return FromModel(address), nil
}

func (s *service) IncrementViews(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findAddress(ctx, id); err != nil {
		return err
	}
	if err := s.repo.IncrementViews(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment views")
	}
	return nil
}

func (s *service) Stats(ctx context.Context) (*StatsDTO, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "address stats")
	}
	return stats, nil
}

func (s *service) findAddress(ctx context.Context, id uuid.UUID) (*models.Address, error) {
	address, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
	}
	return address, nil
}

func (s *service) checkCity(ctx context.Context, cityID *uuid.UUID) error {
	if cityID == nil {
		return nil
	}
	if _, err := s.cities.FindByID(ctx, *cityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "city not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load city")
	}
	return nil
}
