package homeslides

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/localizy/localizy-backend/pkg/db/models"
	pkgerrors "github.com/localizy/localizy-backend/pkg/errors"
	"github.com/localizy/localizy-backend/pkg/storage/uploads"
)

const slidesFolder = "home-slides"

// Service exposes home slide operations. ListActive backs the public home
// page, everything else is admin-only.
type Service interface {
	ListActive(ctx context.Context) ([]SlideDTO, error)
	ListAll(ctx context.Context) ([]SlideDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*SlideDTO, error)
	Create(ctx context.Context, input CreateSlideInput) (*SlideDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateSlideInput) (*SlideDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ToggleActive(ctx context.Context, id uuid.UUID) (*SlideDTO, error)
}

// CreateSlideInput captures a new slide with its image upload.
type CreateSlideInput struct {
	Image     *multipart.FileHeader
	Content   string
	SortOrder int
	IsActive  *bool
}

// UpdateSlideInput captures the mutable slide fields. A non-nil Image replaces
// the stored file.
type UpdateSlideInput struct {
	Image     *multipart.FileHeader
	Content   *string
	SortOrder *int
	IsActive  *bool
}

type uploadStore interface {
	SaveMultipart(ctx context.Context, folder string, header *multipart.FileHeader) (*uploads.StoredFile, error)
	Delete(ctx context.Context, key string) error
	KeyFromURL(url string) string
}

type service struct {
	repo  Repository
	store uploadStore
}

// NewService builds a home slide service.
func NewService(repo Repository, store uploadStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("home slide repository required")
	}
	if store == nil {
		return nil, fmt.Errorf("upload store required")
	}
	return &service{repo: repo, store: store}, nil
}

func (s *service) ListActive(ctx context.Context) ([]SlideDTO, error) {
	return s.list(ctx, true)
}

func (s *service) ListAll(ctx context.Context) ([]SlideDTO, error) {
	return s.list(ctx, false)
}

func (s *service) list(ctx context.Context, onlyActive bool) ([]SlideDTO, error) {
	slides, err := s.repo.List(ctx, onlyActive)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list home slides")
	}
	return FromModels(slides), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*SlideDTO, error) {
	slide, err := s.findSlide(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(slide), nil
}

func (s *service) Create(ctx context.Context, input CreateSlideInput) (*SlideDTO, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "content is required")
	}
	if input.Image == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image is required")
	}

	stored, err := s.store.SaveMultipart(ctx, slidesFolder, input.Image)
	if err != nil {
		return nil, err
	}

	slide := &models.HomeSlide{
		ImageFileName: stored.FileName,
		ImagePath:     stored.URL,
		Content:       content,
		SortOrder:     input.SortOrder,
		IsActive:      true,
	}
	if input.IsActive != nil {
		slide.IsActive = *input.IsActive
	}

	if err := s.repo.Create(ctx, slide); err != nil {
		_ = s.store.Delete(ctx, stored.Key)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create home slide")
	}
	return FromModel(slide), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateSlideInput) (*SlideDTO, error) {
	slide, err := s.findSlide(ctx, id)
	if err != nil {
		return nil, err
	}

	oldKey := ""
	if input.Image != nil {
		stored, err := s.store.SaveMultipart(ctx, slidesFolder, input.Image)
		if err != nil {
			return nil, err
		}
		oldKey = s.store.KeyFromURL(slide.ImagePath)
		slide.ImageFileName = stored.FileName
		slide.ImagePath = stored.URL
	}
	if input.Content != nil {
		content := strings.TrimSpace(*input.Content)
		if content == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "content cannot be empty")
		}
		slide.Content = content
	}
	if input.SortOrder != nil {
		slide.SortOrder = *input.SortOrder
	}
	if input.IsActive != nil {
		slide.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, slide); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update home slide")
	}

	// Replaced image is removed only after the row is saved.
	if oldKey != "" {
		_ = s.store.Delete(ctx, oldKey)
	}
	return FromModel(slide), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	slide, err := s.findSlide(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete home slide")
	}
	if key := s.store.KeyFromURL(slide.ImagePath); key != "" {
		_ = s.store.Delete(ctx, key)
	}
	return nil
}

func (s *service) ToggleActive(ctx context.Context, id uuid.UUID) (*SlideDTO, error) {
	slide, err := s.findSlide(ctx, id)
	if err != nil {
		return nil, err
	}
	slide.IsActive = !slide.IsActive
	if err := s.repo.Update(ctx, slide); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "toggle home slide")
	}
	return FromModel(slide), nil
}

func (s *service) findSlide(ctx context.Context, id uuid.UUID) (*models.HomeSlide, error) {
	slide, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "home slide not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load home slide")
	}
	return slide, nil
}
