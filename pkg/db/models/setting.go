package models

import (
	"time"

	"github.com/google/uuid"
)

// Setting is a single key-value configuration row, grouped by category.
type Setting struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Key         string    `gorm:"column:key;type:text;not null;uniqueIndex:ux_settings_key"`
	Value       string    `gorm:"column:value;not null"`
	Description *string   `gorm:"column:description"`
	Category    string    `gorm:"column:category;not null"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
