package projects

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/localizy/localizy-backend/pkg/db"
	"github.com/localizy/localizy-backend/pkg/db/models"
	"github.com/localizy/localizy-backend/pkg/enums"
	pkgerrors "github.com/localizy/localizy-backend/pkg/errors"
)

// Service exposes translation project operations. Projects are scoped to
// their owner, admins see everything.
type Service interface {
	List(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole) ([]ProjectDTO, error)
	Get(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, id uuid.UUID) (*ProjectDTO, error)
	Create(ctx context.Context, ownerID uuid.UUID, input CreateProjectInput) (*ProjectDTO, error)
	Update(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, id uuid.UUID, input UpdateProjectInput) (*ProjectDTO, error)
	Delete(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, id uuid.UUID) error

	UpsertTranslation(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, projectID uuid.UUID, input TranslationInput) (*TranslationDTO, error)
	ListTranslations(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, projectID uuid.UUID) ([]TranslationDTO, error)
	DeleteTranslation(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, projectID, translationID uuid.UUID) error
}

// CreateProjectInput captures project creation fields.
type CreateProjectInput struct {
	Name            string
	Description     string
	DefaultLanguage string
}

// UpdateProjectInput captures the mutable project fields.
type UpdateProjectInput struct {
	Name            *string
	Description     *string
	DefaultLanguage *string
}

// TranslationInput captures one localized value keyed by (key, language).
type TranslationInput struct {
	Key      string
	Language string
	Value    string
}

type service struct {
	repo Repository
}

// NewService builds a project service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("project repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole) ([]ProjectDTO, error) {
	var (
		rows []models.Project
		err  error
	)
	if actorRole == enums.UserRoleAdmin {
		rows, err = s.repo.ListAll(ctx)
	} else {
		rows, err = s.repo.ListByOwner(ctx, actorID)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list projects")
	}
	return FromModels(rows), nil
}

func (s *service) Get(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, id uuid.UUID) (*ProjectDTO, error) {
	project, err := s.findOwnedProject(ctx, actorID, actorRole, id)
	if err != nil {
		return nil, err
	}
	return FromModel(project), nil
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, input CreateProjectInput) (*ProjectDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	project := &models.Project{
		Name:            name,
		Description:     strings.TrimSpace(input.Description),
		DefaultLanguage: normalizeLanguage(input.DefaultLanguage),
		UserID:          ownerID,
	}
	if project.DefaultLanguage == "" {
		project.DefaultLanguage = "en"
	}

	if err := s.repo.Create(ctx, project); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create project")
	}
	return FromModel(project), nil
}

func (s *service) Update(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, id uuid.UUID, input UpdateProjectInput) (*ProjectDTO, error) {
	project, err := s.findOwnedProject(ctx, actorID, actorRole, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		project.Name = name
	}
	if input.Description != nil {
		project.Description = strings.TrimSpace(*input.Description)
	}
	if input.DefaultLanguage != nil {
		lang := normalizeLanguage(*input.DefaultLanguage)
		if lang == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "default language cannot be empty")
		}
		project.DefaultLanguage = lang
	}

	if err := s.repo.Update(ctx, project); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update project")
	}
	return FromModel(project), nil
}

// Delete removes the project, translations cascade with it.
func (s *service) Delete(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, id uuid.UUID) error {
	if _, err := s.findOwnedProject(ctx, actorID, actorRole, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete project")
	}
	return nil
}

func (s *service) UpsertTranslation(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, projectID uuid.UUID, input TranslationInput) (*TranslationDTO, error) {
	if _, err := s.findOwnedProject(ctx, actorID, actorRole, projectID); err != nil {
		return nil, err
	}

	key := strings.TrimSpace(input.Key)
	if key == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "key is required")
	}
	language := normalizeLanguage(input.Language)
	if language == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "language is required")
	}

	existing, err := s.repo.FindTranslation(ctx, projectID, key, language)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup translation")
	}

	if existing != nil {
		existing.Value = input.Value
		if err := s.repo.UpdateTranslation(ctx, existing); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update translation")
		}
		return TranslationFromModel(existing), nil
	}

	tr := &models.Translation{
		ProjectID: projectID,
		Key:       key,
		Language:  language,
		Value:     input.Value,
	}
	if err := s.repo.CreateTranslation(ctx, tr); err != nil {
		if db.IsUniqueViolation(err, "ux_translations_project_key_lang") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "translation already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create translation")
	}
	return TranslationFromModel(tr), nil
}

func (s *service) ListTranslations(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, projectID uuid.UUID) ([]TranslationDTO, error) {
	if _, err := s.findOwnedProject(ctx, actorID, actorRole, projectID); err != nil {
		return nil, err
	}
	trs, err := s.repo.ListTranslations(ctx, projectID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list translations")
	}
	return TranslationsFromModels(trs), nil
}

func (s *service) DeleteTranslation(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, projectID, translationID uuid.UUID) error {
	if _, err := s.findOwnedProject(ctx, actorID, actorRole, projectID); err != nil {
		return err
	}
	if err := s.repo.DeleteTranslation(ctx, projectID, translationID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete translation")
	}
	return nil
}

func (s *service) findOwnedProject(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, id uuid.UUID) (*models.Project, error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "project not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load project")
	}
	if actorRole != enums.UserRoleAdmin && project.UserID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "project belongs to another user")
	}
	return project, nil
}

func normalizeLanguage(language string) string {
	return strings.ToLower(strings.TrimSpace(language))
}
