package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/localizy/localizy-backend/pkg/db/models"
	pkgerrors "github.com/localizy/localizy-backend/pkg/errors"
)

// Service exposes website configuration. WebsiteConfig is public, everything
// else is admin-only.
type Service interface {
	WebsiteConfig(ctx context.Context) (*WebsiteConfigDTO, error)
	List(ctx context.Context) ([]SettingDTO, error)
	ListByCategory(ctx context.Context, category string) ([]SettingDTO, error)
	GetByKey(ctx context.Context, key string) (*SettingDTO, error)
	Update(ctx context.Context, key string, input UpdateSettingInput) (*SettingDTO, error)
}

// UpdateSettingInput captures the mutable setting fields. Value may be empty,
// that clears a link.
type UpdateSettingInput struct {
	Value       string
	Description *string
}

type service struct {
	repo Repository
}

// NewService builds a setting service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("setting repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) WebsiteConfig(ctx context.Context) (*WebsiteConfigDTO, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load settings")
	}

	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Key] = row.Value
	}

	return &WebsiteConfigDTO{
		AppDownload: AppDownloadLinks{
			IOSLink:     values[KeyIOSAppLink],
			AndroidLink: values[KeyAndroidAppLink],
		},
		SocialMedia: SocialMediaLinks{
			Facebook:  values[KeyFacebookLink],
			Twitter:   values[KeyTwitterLink],
			Instagram: values[KeyInstagramLink],
			LinkedIn:  values[KeyLinkedInLink],
			Youtube:   values[KeyYoutubeLink],
		},
		Contact: ContactInfo{
			Email:   values[KeyEmail],
			Phone:   values[KeyPhone],
			Address: values[KeyAddress],
		},
		General: GeneralInfo{
			Slogan:      values[KeySlogan],
			Description: values[KeyDescription],
			AboutUs:     values[KeyAboutUs],
		},
	}, nil
}

func (s *service) List(ctx context.Context) ([]SettingDTO, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list settings")
	}
	return FromModels(rows), nil
}

func (s *service) ListByCategory(ctx context.Context, category string) ([]SettingDTO, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	rows, err := s.repo.ListByCategory(ctx, category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list settings by category")
	}
	return FromModels(rows), nil
}

func (s *service) GetByKey(ctx context.Context, key string) (*SettingDTO, error) {
	setting, err := s.findSetting(ctx, key)
	if err != nil {
		return nil, err
	}
	return FromModel(setting), nil
}

func (s *service) Update(ctx context.Context, key string, input UpdateSettingInput) (*SettingDTO, error) {
	setting, err := s.findSetting(ctx, key)
	if err != nil {
		return nil, err
	}

	setting.Value = strings.TrimSpace(input.Value)
	if input.Description != nil {
		setting.Description = input.Description
	}

	if err := s.repo.Update(ctx, setting); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update setting")
	}
	return FromModel(setting), nil
}

func (s *service) findSetting(ctx context.Context, key string) (*models.Setting, error) {
	key = strings.TrimSpace(key)
	if !IsKnownKey(key) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "setting not found")
	}
	setting, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "setting not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load setting")
	}
	return setting, nil
}
