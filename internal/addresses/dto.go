package addresses

import (
	"time"

	"github.com/google/uuid"

	"github.com/localizy/localizy-backend/pkg/db/models"
	"github.com/localizy/localizy-backend/pkg/enums"
)

// AddressDTO is the public address shape.
type AddressDTO struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	FullAddress string              `json:"full_address"`
	CityID      *uuid.UUID          `json:"city_id,omitempty"`
	Country     string              `json:"country"`
	Type        string              `json:"type"`
	Category    string              `json:"category"`
	Status      enums.AddressStatus `json:"status"`

	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	Description  *string `json:"description,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Website      *string `json:"website,omitempty"`
	OpeningHours *string `json:"opening_hours,omitempty"`

	Rating       float64 `json:"rating"`
	Views        int     `json:"views"`
	TotalReviews int     `json:"total_reviews"`

	SubmittedByUserID uuid.UUID `json:"submitted_by_user_id"`
	SubmittedDate     time.Time `json:"submitted_date"`

	VerifiedByUserID  *uuid.UUID `json:"verified_by_user_id,omitempty"`
	VerifiedDate      *time.Time `json:"verified_date,omitempty"`
	VerificationNotes *string    `json:"verification_notes,omitempty"`
	RejectionReason   *string    `json:"rejection_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromModel maps an address row to its DTO.
func FromModel(address *models.Address) *AddressDTO {
	if address == nil {
		return nil
	}
	return &AddressDTO{
		ID:                address.ID,
		Name:              address.Name,
		FullAddress:       address.FullAddress,
		CityID:            address.CityID,
		Country:           address.Country,
		Type:              address.Type,
		Category:          address.Category,
		Status:            address.Status,
		Latitude:          address.Latitude,
		Longitude:         address.Longitude,
		Description:       address.Description,
		Phone:             address.Phone,
		Website:           address.Website,
		OpeningHours:      address.OpeningHours,
		Rating:            address.Rating,
		Views:             address.Views,
		TotalReviews:      address.TotalReviews,
		SubmittedByUserID: address.SubmittedByUserID,
		SubmittedDate:     address.SubmittedDate,
		VerifiedByUserID:  address.VerifiedByUserID,
		VerifiedDate:      address.VerifiedDate,
		VerificationNotes: address.VerificationNotes,
		RejectionReason:   address.RejectionReason,
		CreatedAt:         address.CreatedAt,
		UpdatedAt:         address.UpdatedAt,
	}
}

// FromModels maps a slice of address rows.
func FromModels(addresses []models.Address) []AddressDTO {
	out := make([]AddressDTO, 0, len(addresses))
	for i := range addresses {
		out = append(out, *FromModel(&addresses[i]))
	}
	return out
}

// StatsDTO summarizes the address catalog.
type StatsDTO struct {
	Total         int64   `json:"total"`
	Pending       int64   `json:"pending"`
	Verified      int64   `json:"verified"`
	Rejected      int64   `json:"rejected"`
	TotalViews    int64   `json:"total_views"`
	AverageRating float64 `json:"average_rating"`
}
