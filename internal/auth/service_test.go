package auth

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/localizy/localizy-backend/internal/users"
	"github.com/localizy/localizy-backend/pkg/config"
	"github.com/localizy/localizy-backend/pkg/db/models"
	"github.com/localizy/localizy-backend/pkg/enums"
	pkgerrors "github.com/localizy/localizy-backend/pkg/errors"
)

type stubUserRepo struct {
	users   map[uuid.UUID]*models.User
	err     error
	created *models.User
	updated *models.User
}

func newStubUserRepo(seed ...*models.User) *stubUserRepo {
	repo := &stubUserRepo{users: map[uuid.UUID]*models.User{}}
	for _, u := range seed {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *stubUserRepo) WithTx(tx *gorm.DB) users.Repository { return r }

func (r *stubUserRepo) Create(ctx context.Context, user *models.User) error {
	if r.err != nil {
		return r.err
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.created = user
	r.users[user.ID] = user
	return nil
}

func (r *stubUserRepo) Update(ctx context.Context, user *models.User) error {
	if r.err != nil {
		return r.err
	}
	r.updated = user
	return nil
}

func (r *stubUserRepo) Delete(ctx context.Context, id uuid.UUID) error { return r.err }

func (r *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) List(ctx context.Context, query users.ListUsersQuery) ([]models.User, int64, error) {
	return nil, 0, r.err
}

func (r *stubUserRepo) ListSubAccounts(ctx context.Context, parentBusinessID uuid.UUID) ([]models.User, error) {
	return nil, r.err
}

func (r *stubUserRepo) Stats(ctx context.Context) (*users.StatsDTO, error) {
	return nil, r.err
}

func testConfigs() (config.JWTConfig, config.PasswordConfig) {
	return config.JWTConfig{
			Secret:            "test-secret",
			Issuer:            "localizy-test",
			ExpirationMinutes: 15,
		}, config.PasswordConfig{
			ArgonMemoryKB:    8,
			ArgonTime:        1,
			ArgonParallelism: 1,
			ArgonSaltLen:     8,
			ArgonKeyLen:      16,
		}
}

func mustService(t *testing.T, repo users.Repository) Service {
	t.Helper()
	jwtCfg, pwCfg := testConfigs()
	svc, err := NewService(repo, jwtCfg, pwCfg)
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

func TestRegisterCreatesUserRole(t *testing.T) {
	repo := newStubUserRepo()
	svc := mustService(t, repo)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "New@Example.com",
		FullName: "New User",
		Password: "secret-password",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatal("expected access token")
	}
	if resp.User.Role != enums.UserRoleUser {
		t.Fatalf("expected User role, got %s", resp.User.Role)
	}
	if resp.User.Email != "new@example.com" {
		t.Fatalf("expected lowered email, got %q", resp.User.Email)
	}
	if repo.created.PasswordHash == "secret-password" {
		t.Fatal("expected password hashed")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	existing := &models.User{ID: uuid.New(), Email: "taken@example.com", Role: enums.UserRoleUser}
	svc := mustService(t, newStubUserRepo(existing))

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "Taken@Example.com",
		FullName: "Dup",
		Password: "secret-password",
	})
	expectCode(t, err, pkgerrors.CodeConflict)
}

func registeredUser(t *testing.T, svc Service, repo *stubUserRepo, password string) *models.User {
	t.Helper()
	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "login@example.com",
		FullName: "Login User",
		Password: password,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return repo.created
}

func TestLoginSuccessStampsLastLogin(t *testing.T) {
	repo := newStubUserRepo()
	svc := mustService(t, repo)
	registeredUser(t, svc, repo, "correct-horse")

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "login@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatal("expected access token")
	}
	if repo.updated == nil || repo.updated.LastLoginAt == nil {
		t.Fatal("expected last login stamped")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := mustService(t, repo)
	registeredUser(t, svc, repo, "correct-horse")

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "login@example.com",
		Password: "wrong",
	})
	expectCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := mustService(t, newStubUserRepo())

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever",
	})
	expectCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestLoginDisabledAccount(t *testing.T) {
	repo := newStubUserRepo()
	svc := mustService(t, repo)
	user := registeredUser(t, svc, repo, "correct-horse")
	user.IsActive = false

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "login@example.com",
		Password: "correct-horse",
	})
	expectCode(t, err, pkgerrors.CodeUnauthorized)
}
