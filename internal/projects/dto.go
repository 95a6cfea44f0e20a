package projects

import (
	"time"

	"github.com/google/uuid"

	"github.com/localizy/localizy-backend/pkg/db/models"
)

// ProjectDTO is the API shape of a translation project.
type ProjectDTO struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	DefaultLanguage string    `json:"default_language"`
	UserID          uuid.UUID `json:"user_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TranslationDTO is the API shape of one localized value.
type TranslationDTO struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`
	Key       string    `json:"key"`
	Language  string    `json:"language"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromModel converts a project row into its API shape.
func FromModel(project *models.Project) *ProjectDTO {
	if project == nil {
		return nil
	}
	return &ProjectDTO{
		ID:              project.ID,
		Name:            project.Name,
		Description:     project.Description,
		DefaultLanguage: project.DefaultLanguage,
		UserID:          project.UserID,
		CreatedAt:       project.CreatedAt,
		UpdatedAt:       project.UpdatedAt,
	}
}

// FromModels converts a slice of project rows.
func FromModels(projects []models.Project) []ProjectDTO {
	out := make([]ProjectDTO, 0, len(projects))
	for i := range projects {
		out = append(out, *FromModel(&projects[i]))
	}
	return out
}

// TranslationFromModel converts a translation row into its API shape.
func TranslationFromModel(tr *models.Translation) *TranslationDTO {
	if tr == nil {
		return nil
	}
	return &TranslationDTO{
		ID:        tr.ID,
		ProjectID: tr.ProjectID,
		Key:       tr.Key,
		Language:  tr.Language,
		Value:     tr.Value,
		UpdatedAt: tr.UpdatedAt,
	}
}

// TranslationsFromModels converts a slice of translation rows.
func TranslationsFromModels(trs []models.Translation) []TranslationDTO {
	out := make([]TranslationDTO, 0, len(trs))
	for i := range trs {
		out = append(out, *TranslationFromModel(&trs[i]))
	}
	return out
}
