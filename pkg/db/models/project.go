package models

import (
	"time"

	"github.com/google/uuid"
)

// Project owns a set of translations. Deleting a project cascades them.
type Project struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name            string    `gorm:"column:name;not null"`
	Description     string    `gorm:"column:description;not null;default:''"`
	DefaultLanguage string    `gorm:"column:default_language;not null;default:'en'"`

	UserID uuid.UUID `gorm:"column:user_id;type:uuid;not null"`
	User   *User     `gorm:"foreignKey:UserID"`

	Translations []Translation `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Translation is one localized value keyed by (project, key, language).
type Translation struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProjectID uuid.UUID `gorm:"column:project_id;type:uuid;not null;uniqueIndex:ux_translations_project_key_lang"`
	Key       string    `gorm:"column:key;not null;uniqueIndex:ux_translations_project_key_lang"`
	Language  string    `gorm:"column:language;not null;uniqueIndex:ux_translations_project_key_lang"`
	Value     string    `gorm:"column:value;not null"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
