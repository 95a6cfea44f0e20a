package models

import (
	"time"

	"github.com/google/uuid"
)

// City is reference data an address optionally belongs to. Codes follow the
// "VN-HN" style and are stored upper-cased.
type City struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	Code        string    `gorm:"column:code;type:text;not null;uniqueIndex:ux_cities_code"`
	Country     string    `gorm:"column:country;not null"`
	Description *string   `gorm:"column:description"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true"`

	Addresses []Address `gorm:"foreignKey:CityID;constraint:OnDelete:SET NULL"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
