package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/localizy/localizy-backend/pkg/enums"
)

// Address is a point of interest moving through the moderation workflow.
// Verification and rejection metadata are mutually exclusive per transition:
// Verify stamps VerifiedBy/VerifiedDate/VerificationNotes, Reject stamps the
// same identity fields plus RejectionReason.
type Address struct {
	ID          uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string              `gorm:"column:name;not null"`
	FullAddress string              `gorm:"column:full_address;not null"`
	CityID      *uuid.UUID          `gorm:"column:city_id;type:uuid"`
	City        *City               `gorm:"foreignKey:CityID"`
	Country     string              `gorm:"column:country;not null"`
	Type        string              `gorm:"column:type;not null"`
	Category    string              `gorm:"column:category;not null"`
	Status      enums.AddressStatus `gorm:"column:status;type:text;not null;default:'Pending'"`

	Latitude  float64 `gorm:"column:latitude;not null;default:0"`
	Longitude float64 `gorm:"column:longitude;not null;default:0"`

	Description  *string `gorm:"column:description"`
	Phone        *string `gorm:"column:phone"`
	Website      *string `gorm:"column:website"`
	OpeningHours *string `gorm:"column:opening_hours"`

	Rating       float64 `gorm:"column:rating;not null;default:0"`
	Views        int     `gorm:"column:views;not null;default:0"`
	TotalReviews int     `gorm:"column:total_reviews;not null;default:0"`

	SubmittedByUserID uuid.UUID `gorm:"column:submitted_by_user_id;type:uuid;not null"`
	SubmittedByUser   *User     `gorm:"foreignKey:SubmittedByUserID"`
	SubmittedDate     time.Time `gorm:"column:submitted_date;not null"`

	VerifiedByUserID  *uuid.UUID `gorm:"column:verified_by_user_id;type:uuid"`
	VerifiedByUser    *User      `gorm:"foreignKey:VerifiedByUserID"`
	VerifiedDate      *time.Time `gorm:"column:verified_date"`
	VerificationNotes *string    `gorm:"column:verification_notes"`
	RejectionReason   *string    `gorm:"column:rejection_reason"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
