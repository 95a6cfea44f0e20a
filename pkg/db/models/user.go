package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/localizy/localizy-backend/pkg/enums"
)

// User is the canonical identity entity. SubAccount users hang off a Business
// user via ParentBusinessID; the service layer enforces that pairing.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string         `gorm:"type:text;not null;uniqueIndex:ux_users_email"`
	FullName     string         `gorm:"column:full_name;not null"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	Phone        *string        `gorm:"column:phone"`
	Location     *string        `gorm:"column:location"`
	Avatar       *string        `gorm:"column:avatar"`
	IsActive     bool           `gorm:"column:is_active;not null;default:true"`
	Role         enums.UserRole `gorm:"column:role;type:text;not null;default:'User'"`
	LastLoginAt  *time.Time     `gorm:"column:last_login_at"`

	ParentBusinessID *uuid.UUID `gorm:"column:parent_business_id;type:uuid"`
	ParentBusiness   *User      `gorm:"foreignKey:ParentBusinessID"`

	// Denormalized counters maintained outside the service layer.
	TotalAddresses    int `gorm:"column:total_addresses;not null;default:0"`
	VerifiedAddresses int `gorm:"column:verified_addresses;not null;default:0"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
