package models

import (
	"time"

	"github.com/google/uuid"
)

// HomeSlide is an ordered, toggleable home-page content card backed by an
// uploaded image.
type HomeSlide struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ImageFileName string    `gorm:"column:image_file_name;not null"`
	ImagePath     string    `gorm:"column:image_path;not null"`
	Content       string    `gorm:"column:content;not null"`
	SortOrder     int       `gorm:"column:sort_order;not null;default:0"`
	IsActive      bool      `gorm:"column:is_active;not null;default:true"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
