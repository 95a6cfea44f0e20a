package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/localizy/localizy-backend/pkg/db/models"
	"github.com/localizy/localizy-backend/pkg/enums"
)

// UserDTO is the public user shape. PasswordHash never leaves the service.
type UserDTO struct {
	ID                uuid.UUID      `json:"id"`
	Email             string         `json:"email"`
	FullName          string         `json:"full_name"`
	Phone             *string        `json:"phone,omitempty"`
	Location          *string        `json:"location,omitempty"`
	Avatar            *string        `json:"avatar,omitempty"`
	IsActive          bool           `json:"is_active"`
	Role              enums.UserRole `json:"role"`
	ParentBusinessID  *uuid.UUID     `json:"parent_business_id,omitempty"`
	TotalAddresses    int            `json:"total_addresses"`
	VerifiedAddresses int            `json:"verified_addresses"`
	LastLoginAt       *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// FromModel maps a user row to its DTO.
func FromModel(user *models.User) *UserDTO {
	if user == nil {
		return nil
	}
	return &UserDTO{
		ID:                user.ID,
		Email:             user.Email,
		FullName:          user.FullName,
		Phone:             user.Phone,
		Location:          user.Location,
		Avatar:            user.Avatar,
		IsActive:          user.IsActive,
		Role:              user.Role,
		ParentBusinessID:  user.ParentBusinessID,
		TotalAddresses:    user.TotalAddresses,
		VerifiedAddresses: user.VerifiedAddresses,
		LastLoginAt:       user.LastLoginAt,
		CreatedAt:         user.CreatedAt,
		UpdatedAt:         user.UpdatedAt,
	}
}

// FromModels maps a slice of user rows.
func FromModels(users []models.User) []UserDTO {
	out := make([]UserDTO, 0, len(users))
	for i := range users {
		out = append(out, *FromModel(&users[i]))
	}
	return out
}

// StatsDTO summarizes the user base for the admin dashboard.
type StatsDTO struct {
	Total    int64            `json:"total"`
	Active   int64            `json:"active"`
	Inactive int64            `json:"inactive"`
	ByRole   map[string]int64 `json:"by_role"`
}
