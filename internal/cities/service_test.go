package cities

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/localizy/localizy-backend/pkg/db/models"
	pkgerrors "github.com/localizy/localizy-backend/pkg/errors"
)

type stubCityRepo struct {
	cities  map[uuid.UUID]*models.City
	err     error
	created *models.City
	updated *models.City
	deleted []uuid.UUID
	stats   *StatsDTO
}

func newStubCityRepo(seed ...*models.City) *stubCityRepo {
	repo := &stubCityRepo{cities: map[uuid.UUID]*models.City{}}
	for _, c := range seed {
		repo.cities[c.ID] = c
	}
	return repo
}

func (r *stubCityRepo) WithTx(tx *gorm.DB) Repository { return r }

func (r *stubCityRepo) Create(ctx context.Context, city *models.City) error {
	if r.err != nil {
		return r.err
	}
	if city.ID == uuid.Nil {
		city.ID = uuid.New()
	}
	r.created = city
	r.cities[city.ID] = city
	return nil
}

func (r *stubCityRepo) Update(ctx context.Context, city *models.City) error {
	if r.err != nil {
		return r.err
	}
	r.updated = city
	r.cities[city.ID] = city
	return nil
}

func (r *stubCityRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if r.err != nil {
		return r.err
	}
	r.deleted = append(r.deleted, id)
	delete(r.cities, id)
	return nil
}

func (r *stubCityRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.City, error) {
	if r.err != nil {
		return nil, r.err
	}
	if city, ok := r.cities[id]; ok {
		return city, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCityRepo) FindByCode(ctx context.Context, code string) (*models.City, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, city := range r.cities {
		if strings.EqualFold(city.Code, code) {
			return city, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCityRepo) List(ctx context.Context, query ListCitiesQuery) ([]models.City, int64, error) {
	if r.err != nil {
		return nil, 0, r.err
	}
	out := []models.City{}
	for _, city := range r.cities {
		out = append(out, *city)
	}
	return out, int64(len(out)), nil
}

func (r *stubCityRepo) Stats(ctx context.Context) (*StatsDTO, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.stats, nil
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

func TestCreateUppercasesCode(t *testing.T) {
	repo := newStubCityRepo()
	svc := mustService(t, repo)

	dto, err := svc.Create(context.Background(), CreateCityInput{
		Name:    "Hanoi",
		Code:    " vn-hn ",
		Country: "Vietnam",
	})
	if err != nil {
		t.Fatalf("create city: %v", err)
	}
	if dto.Code != "VN-HN" {
		t.Fatalf("expected upper-cased code, got %q", dto.Code)
	}
	if !dto.IsActive {
		t.Fatal("expected new city active by default")
	}
}

func TestCreateDuplicateCodeCaseInsensitive(t *testing.T) {
	existing := &models.City{ID: uuid.New(), Name: "Hanoi", Code: "VN-HN", Country: "Vietnam"}
	svc := mustService(t, newStubCityRepo(existing))

	_, err := svc.Create(context.Background(), CreateCityInput{
		Name:    "Hanoi 2",
		Code:    "vn-hn",
		Country: "Vietnam",
	})
	expectCode(t, err, pkgerrors.CodeConflict)
}

func TestCreateRequiresFields(t *testing.T) {
	svc := mustService(t, newStubCityRepo())

	_, err := svc.Create(context.Background(), CreateCityInput{Code: "VN-HN", Country: "Vietnam"})
	expectCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Create(context.Background(), CreateCityInput{Name: "Hanoi", Country: "Vietnam"})
	expectCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Create(context.Background(), CreateCityInput{Name: "Hanoi", Code: "VN-HN"})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestUpdateAllowsKeepingOwnCode(t *testing.T) {
	existing := &models.City{ID: uuid.New(), Name: "Hanoi", Code: "VN-HN", Country: "Vietnam"}
	svc := mustService(t, newStubCityRepo(existing))

	code := "vn-hn"
	name := "Ha Noi"
	dto, err := svc.Update(context.Background(), existing.ID, UpdateCityInput{Code: &code, Name: &name})
	if err != nil {
		t.Fatalf("update city: %v", err)
	}
	if dto.Name != "Ha Noi" || dto.Code != "VN-HN" {
		t.Fatalf("unexpected result %+v", dto)
	}
}

func TestUpdateRejectsTakenCode(t *testing.T) {
	first := &models.City{ID: uuid.New(), Name: "Hanoi", Code: "VN-HN", Country: "Vietnam"}
	second := &models.City{ID: uuid.New(), Name: "Da Nang", Code: "VN-DN", Country: "Vietnam"}
	svc := mustService(t, newStubCityRepo(first, second))

	code := "VN-HN"
	_, err := svc.Update(context.Background(), second.ID, UpdateCityInput{Code: &code})
	expectCode(t, err, pkgerrors.CodeConflict)
}

func TestGetNotFound(t *testing.T) {
	svc := mustService(t, newStubCityRepo())

	_, err := svc.Get(context.Background(), uuid.New())
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestToggleActiveFlips(t *testing.T) {
	existing := &models.City{ID: uuid.New(), Name: "Hanoi", Code: "VN-HN", Country: "Vietnam", IsActive: true}
	svc := mustService(t, newStubCityRepo(existing))

	dto, err := svc.ToggleActive(context.Background(), existing.ID)
	if err != nil {
		t.Fatalf("toggle city: %v", err)
	}
	if dto.IsActive {
		t.Fatal("expected city deactivated")
	}
}

func TestDeleteMissingCity(t *testing.T) {
	svc := mustService(t, newStubCityRepo())

	err := svc.Delete(context.Background(), uuid.New())
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestStatsDependencyError(t *testing.T) {
	repo := newStubCityRepo()
	repo.err = errors.New("boom")
	svc := mustService(t, repo)

	_, err := svc.Stats(context.Background())
	expectCode(t, err, pkgerrors.CodeDependency)
}
