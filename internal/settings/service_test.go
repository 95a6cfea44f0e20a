package settings

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/localizy/localizy-backend/pkg/db/models"
	pkgerrors "github.com/localizy/localizy-backend/pkg/errors"
)

type stubSettingRepo struct {
	settings map[string]*models.Setting
	err      error
	updated  *models.Setting
}

func newStubSettingRepo(seed ...*models.Setting) *stubSettingRepo {
	repo := &stubSettingRepo{settings: map[string]*models.Setting{}}
	for _, s := range seed {
		repo.settings[s.Key] = s
	}
	return repo
}

func (r *stubSettingRepo) WithTx(tx *gorm.DB) Repository { return r }

func (r *stubSettingRepo) ListAll(ctx context.Context) ([]models.Setting, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []models.Setting
	for _, s := range r.settings {
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubSettingRepo) ListByCategory(ctx context.Context, category string) ([]models.Setting, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []models.Setting
	for _, s := range r.settings {
		if s.Category == category {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *stubSettingRepo) FindByKey(ctx context.Context, key string) (*models.Setting, error) {
	if r.err != nil {
		return nil, r.err
	}
	if s, ok := r.settings[key]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubSettingRepo) Update(ctx context.Context, setting *models.Setting) error {
	if r.err != nil {
		return r.err
	}
	r.updated = setting
	r.settings[setting.Key] = setting
	return nil
}

func seedSetting(key, value, category string) *models.Setting {
	return &models.Setting{ID: uuid.New(), Key: key, Value: value, Category: category}
}

func mustService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != code {
		t.Fatalf("expected %s, got %v", code, err)
	}
}

func TestWebsiteConfigAggregatesCategories(t *testing.T) {
	svc := mustService(t, newStubSettingRepo(
		seedSetting(KeyIOSAppLink, "https://apps.example/ios", CategoryAppDownload),
		seedSetting(KeyFacebookLink, "https://fb.example/localizy", CategorySocialMedia),
		seedSetting(KeyEmail, "hello@localizy.example", CategoryContact),
		seedSetting(KeySlogan, "Know your city", CategoryGeneral),
	))

	cfg, err := svc.WebsiteConfig(context.Background())
	if err != nil {
		t.Fatalf("website config: %v", err)
	}
	if cfg.AppDownload.IOSLink != "https://apps.example/ios" {
		t.Fatalf("unexpected ios link %q", cfg.AppDownload.IOSLink)
	}
	if cfg.SocialMedia.Facebook != "https://fb.example/localizy" {
		t.Fatalf("unexpected facebook link %q", cfg.SocialMedia.Facebook)
	}
	if cfg.Contact.Email != "hello@localizy.example" {
		t.Fatalf("unexpected email %q", cfg.Contact.Email)
	}
	if cfg.General.Slogan != "Know your city" {
		t.Fatalf("unexpected slogan %q", cfg.General.Slogan)
	}
	// Unseeded keys come through empty, not as errors.
	if cfg.AppDownload.AndroidLink != "" {
		t.Fatalf("expected empty android link, got %q", cfg.AppDownload.AndroidLink)
	}
}

func TestListByCategory(t *testing.T) {
	svc := mustService(t, newStubSettingRepo(
		seedSetting(KeyEmail, "a", CategoryContact),
		seedSetting(KeyPhone, "b", CategoryContact),
		seedSetting(KeySlogan, "c", CategoryGeneral),
	))

	rows, err := svc.ListByCategory(context.Background(), CategoryContact)
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 contact settings, got %d", len(rows))
	}

	_, err = svc.ListByCategory(context.Background(), "  ")
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestUpdateValueAndDescription(t *testing.T) {
	repo := newStubSettingRepo(seedSetting(KeySlogan, "old", CategoryGeneral))
	svc := mustService(t, repo)

	desc := "shown on the landing page"
	dto, err := svc.Update(context.Background(), KeySlogan, UpdateSettingInput{
		Value:       "  Know your city  ",
		Description: &desc,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if dto.Value != "Know your city" {
		t.Fatalf("expected trimmed value, got %q", dto.Value)
	}
	if dto.Description == nil || *dto.Description != desc {
		t.Fatalf("expected description set, got %v", dto.Description)
	}
	if repo.updated == nil {
		t.Fatal("expected repo update call")
	}
}

func TestUpdateUnknownKey(t *testing.T) {
	svc := mustService(t, newStubSettingRepo())

	_, err := svc.Update(context.Background(), "NotAKey", UpdateSettingInput{Value: "x"})
	expectCode(t, err, pkgerrors.CodeNotFound)

	// Known key missing from the store is still NotFound.
	_, err = svc.GetByKey(context.Background(), KeyAboutUs)
	expectCode(t, err, pkgerrors.CodeNotFound)
}
