package settings

import (
	"time"

	"github.com/google/uuid"

	"github.com/localizy/localizy-backend/pkg/db/models"
)

// SettingDTO is the API shape of one configuration row.
type SettingDTO struct {
	ID          uuid.UUID `json:"id"`
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Description *string   `json:"description,omitempty"`
	Category    string    `json:"category"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// WebsiteConfigDTO is the public aggregate served to the frontend. Absent or
// empty values come through as empty strings.
type WebsiteConfigDTO struct {
	AppDownload AppDownloadLinks `json:"app_download"`
	SocialMedia SocialMediaLinks `json:"social_media"`
	Contact     ContactInfo      `json:"contact"`
	General     GeneralInfo      `json:"general"`
}

// AppDownloadLinks groups the store download links.
type AppDownloadLinks struct {
	IOSLink     string `json:"ios_link"`
	AndroidLink string `json:"android_link"`
}

// SocialMediaLinks groups the social profile links.
type SocialMediaLinks struct {
	Facebook  string `json:"facebook"`
	Twitter   string `json:"twitter"`
	Instagram string `json:"instagram"`
	LinkedIn  string `json:"linkedin"`
	Youtube   string `json:"youtube"`
}

// ContactInfo groups the contact details.
type ContactInfo struct {
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// GeneralInfo groups the site copy.
type GeneralInfo struct {
	Slogan      string `json:"slogan"`
	Description string `json:"description"`
	AboutUs     string `json:"about_us"`
}

// FromModel converts a setting row into its API shape.
func FromModel(setting *models.Setting) *SettingDTO {
	if setting == nil {
		return nil
	}
	return &SettingDTO{
		ID:          setting.ID,
		Key:         setting.Key,
		Value:       setting.Value,
		Description: setting.Description,
		Category:    setting.Category,
		UpdatedAt:   setting.UpdatedAt,
	}
}

// FromModels converts a slice of setting rows.
func FromModels(settings []models.Setting) []SettingDTO {
	out := make([]SettingDTO, 0, len(settings))
	for i := range settings {
		out = append(out, *FromModel(&settings[i]))
	}
	return out
}
