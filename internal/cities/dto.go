package cities

import (
	"time"

	"github.com/google/uuid"

	"github.com/localizy/localizy-backend/pkg/db/models"
)

// CityDTO is the public city shape.
type CityDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Country     string    `json:"country"`
	Description *string   `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FromModel maps a city row to its DTO.
func FromModel(city *models.City) *CityDTO {
	if city == nil {
		return nil
	}
	return &CityDTO{
		ID:          city.ID,
		Name:        city.Name,
		Code:        city.Code,
		Country:     city.Country,
		Description: city.Description,
		IsActive:    city.IsActive,
		CreatedAt:   city.CreatedAt,
		UpdatedAt:   city.UpdatedAt,
	}
}

// FromModels maps a slice of city rows.
func FromModels(cities []models.City) []CityDTO {
	out := make([]CityDTO, 0, len(cities))
	for i := range cities {
		out = append(out, *FromModel(&cities[i]))
	}
	return out
}

// CityAddressCount pairs a city with how many addresses reference it.
type CityAddressCount struct {
	CityID       uuid.UUID `json:"city_id"`
	Name         string    `json:"name"`
	Code         string    `json:"code"`
	AddressCount int64     `json:"address_count"`
}

// StatsDTO summarizes the city catalog.
type StatsDTO struct {
	Total          int64              `json:"total"`
	Active         int64              `json:"active"`
	Inactive       int64              `json:"inactive"`
	TotalAddresses int64              `json:"total_addresses"`
	TopByAddresses []CityAddressCount `json:"top_by_addresses"`
}
