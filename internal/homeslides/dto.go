package homeslides

import (
	"time"

	"github.com/google/uuid"

	"github.com/localizy/localizy-backend/pkg/db/models"
)

// SlideDTO is the API shape of a home slide. ImagePath is the public URL the
// frontend renders directly.
type SlideDTO struct {
	ID            uuid.UUID `json:"id"`
	ImageFileName string    `json:"image_file_name"`
	ImagePath     string    `json:"image_path"`
	Content       string    `json:"content"`
	SortOrder     int       `json:"sort_order"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// FromModel converts a slide row into its API shape.
func FromModel(slide *models.HomeSlide) *SlideDTO {
	if slide == nil {
		return nil
	}
	return &SlideDTO{
		ID:            slide.ID,
		ImageFileName: slide.ImageFileName,
		ImagePath:     slide.ImagePath,
		Content:       slide.Content,
		SortOrder:     slide.SortOrder,
		IsActive:      slide.IsActive,
		CreatedAt:     slide.CreatedAt,
		UpdatedAt:     slide.UpdatedAt,
	}
}

// FromModels converts a slice of slide rows.
func FromModels(slides []models.HomeSlide) []SlideDTO {
	out := make([]SlideDTO, 0, len(slides))
	for i := range slides {
		out = append(out, *FromModel(&slides[i]))
	}
	return out
}
