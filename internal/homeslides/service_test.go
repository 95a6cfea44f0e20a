package homeslides

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/localizy/localizy-backend/pkg/db/models"
	pkgerrors "github.com/localizy/localizy-backend/pkg/errors"
	"github.com/localizy/localizy-backend/pkg/storage/uploads"
)

type stubSlideRepo struct {
	slides    map[uuid.UUID]*models.HomeSlide
	createErr error
	updateErr error
}

func newStubSlideRepo(seed ...*models.HomeSlide) *stubSlideRepo {
	repo := &stubSlideRepo{slides: map[uuid.UUID]*models.HomeSlide{}}
	for _, s := range seed {
		repo.slides[s.ID] = s
	}
	return repo
}

func (r *stubSlideRepo) WithTx(tx *gorm.DB) Repository { return r }

func (r *stubSlideRepo) Create(ctx context.Context, slide *models.HomeSlide) error {
	if r.createErr != nil {
		return r.createErr
	}
	if slide.ID == uuid.Nil {
		slide.ID = uuid.New()
	}
	r.slides[slide.ID] = slide
	return nil
}

func (r *stubSlideRepo) Update(ctx context.Context, slide *models.HomeSlide) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.slides[slide.ID] = slide
	return nil
}

func (r *stubSlideRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.slides, id)
	return nil
}

func (r *stubSlideRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.HomeSlide, error) {
	if s, ok := r.slides[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubSlideRepo) List(ctx context.Context, onlyActive bool) ([]models.HomeSlide, error) {
	var out []models.HomeSlide
	for _, s := range r.slides {
		if onlyActive && !s.IsActive {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

const stubPublicBase = "/uploads"

type stubUploads struct {
	saved   []string
	deleted []string
	saveErr error
}

func (u *stubUploads) SaveMultipart(ctx context.Context, folder string, header *multipart.FileHeader) (*uploads.StoredFile, error) {
	if u.saveErr != nil {
		return nil, u.saveErr
	}
	name := fmt.Sprintf("stored-%d.png", len(u.saved))
	key := folder + "/" + name
	u.saved = append(u.saved, key)
	return &uploads.StoredFile{
		FileName: name,
		Key:      key,
		URL:      stubPublicBase + "/" + key,
		Size:     int64(header.Size),
	}, nil
}

func (u *stubUploads) Delete(ctx context.Context, key string) error {
	u.deleted = append(u.deleted, key)
	return nil
}

func (u *stubUploads) KeyFromURL(url string) string {
	return strings.TrimPrefix(url, stubPublicBase+"/")
}

type fixture struct {
	repo  *stubSlideRepo
	store *stubUploads
	svc   Service
}

func newFixture(t *testing.T, seed ...*models.HomeSlide) *fixture {
	t.Helper()
	repo := newStubSlideRepo(seed...)
	store := &stubUploads{}
	svc, err := NewService(repo, store)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &fixture{repo: repo, store: store, svc: svc}
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

func imageHeader() *multipart.FileHeader {
	return &multipart.FileHeader{Filename: "slide.png", Size: 128}
}

func seedSlide(active bool, order int) *models.HomeSlide {
	return &models.HomeSlide{
		ID:            uuid.New(),
		ImageFileName: "existing.png",
		ImagePath:     stubPublicBase + "/home-slides/existing.png",
		Content:       "Welcome",
		SortOrder:     order,
		IsActive:      active,
	}
}

func TestCreateStoresImage(t *testing.T) {
	f := newFixture(t)

	dto, err := f.svc.Create(context.Background(), CreateSlideInput{
		Image:     imageHeader(),
		Content:   "  Discover the city  ",
		SortOrder: 3,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.Content != "Discover the city" {
		t.Fatalf("expected trimmed content, got %q", dto.Content)
	}
	if !dto.IsActive {
		t.Fatal("expected active by default")
	}
	if dto.SortOrder != 3 {
		t.Fatalf("expected sort order 3, got %d", dto.SortOrder)
	}
	if len(f.store.saved) != 1 || !strings.HasPrefix(f.store.saved[0], "home-slides/") {
		t.Fatalf("expected image stored under home-slides, got %v", f.store.saved)
	}
	if dto.ImagePath != stubPublicBase+"/"+f.store.saved[0] {
		t.Fatalf("expected public image path, got %q", dto.ImagePath)
	}
}

func TestCreateRequiresImageAndContent(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), CreateSlideInput{Content: "x"})
	expectCode(t, err, pkgerrors.CodeValidation)

	_, err = f.svc.Create(context.Background(), CreateSlideInput{Image: imageHeader()})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestCreateCleansUpImageOnPersistFailure(t *testing.T) {
	f := newFixture(t)
	f.repo.createErr = fmt.Errorf("insert failed")

	_, err := f.svc.Create(context.Background(), CreateSlideInput{
		Image:   imageHeader(),
		Content: "orphan",
	})
	expectCode(t, err, pkgerrors.CodeDependency)
	if len(f.store.deleted) != 1 {
		t.Fatalf("expected stored image cleaned up, deleted=%v", f.store.deleted)
	}
}

func TestUpdateReplacesImageAndDeletesOld(t *testing.T) {
	slide := seedSlide(true, 0)
	f := newFixture(t, slide)

	dto, err := f.svc.Update(context.Background(), slide.ID, UpdateSlideInput{
		Image: imageHeader(),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if dto.ImageFileName == "existing.png" {
		t.Fatal("expected image replaced")
	}
	if len(f.store.deleted) != 1 || f.store.deleted[0] != "home-slides/existing.png" {
		t.Fatalf("expected old image deleted, got %v", f.store.deleted)
	}
}

func TestUpdateKeepsOldImageWhenSaveFails(t *testing.T) {
	slide := seedSlide(true, 0)
	f := newFixture(t, slide)
	f.repo.updateErr = fmt.Errorf("update failed")

	_, err := f.svc.Update(context.Background(), slide.ID, UpdateSlideInput{
		Image: imageHeader(),
	})
	expectCode(t, err, pkgerrors.CodeDependency)
	if len(f.store.deleted) != 0 {
		t.Fatalf("old image must survive a failed update, deleted=%v", f.store.deleted)
	}
}

func TestListActiveFiltersInactive(t *testing.T) {
	f := newFixture(t, seedSlide(true, 1), seedSlide(false, 2))

	active, err := f.svc.ListActive(context.Background())
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("expected 1 active slide, got %d", len(active))
	}

	all, err := f.svc.ListAll(context.Background())
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 slides, got %d", len(all))
	}
}

func TestDeleteRemovesStoredImage(t *testing.T) {
	slide := seedSlide(true, 0)
	f := newFixture(t, slide)

	if err := f.svc.Delete(context.Background(), slide.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := f.repo.slides[slide.ID]; ok {
		t.Fatal("expected slide removed")
	}
	if len(f.store.deleted) != 1 || f.store.deleted[0] != "home-slides/existing.png" {
		t.Fatalf("expected image deleted, got %v", f.store.deleted)
	}
}

func TestToggleActive(t *testing.T) {
	slide := seedSlide(true, 0)
	f := newFixture(t, slide)

	dto, err := f.svc.ToggleActive(context.Background(), slide.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if dto.IsActive {
		t.Fatal("expected slide deactivated")
	}

	_, err = f.svc.ToggleActive(context.Background(), uuid.New())
	expectCode(t, err, pkgerrors.CodeNotFound)
}
