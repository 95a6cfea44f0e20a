package users

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

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
	deleted []uuid.UUID
	subs    []models.User
	stats   *StatsDTO
}

func newStubUserRepo(seed ...*models.User) *stubUserRepo {
	repo := &stubUserRepo{users: map[uuid.UUID]*models.User{}}
	for _, u := range seed {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *stubUserRepo) WithTx(tx *gorm.DB) Repository { return r }

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
	r.users[user.ID] = user
	return nil
}

func (r *stubUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if r.err != nil {
		return r.err
	}
	r.deleted = append(r.deleted, id)
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	if user, ok := r.users[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) List(ctx context.Context, query ListUsersQuery) ([]models.User, int64, error) {
	if r.err != nil {
		return nil, 0, r.err
	}
	out := []models.User{}
	for _, user := range r.users {
		out = append(out, *user)
	}
	return out, int64(len(out)), nil
}

func (r *stubUserRepo) ListSubAccounts(ctx context.Context, parentBusinessID uuid.UUID) ([]models.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.subs, nil
}

func (r *stubUserRepo) Stats(ctx context.Context) (*StatsDTO, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.stats, nil
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	}
}

func baseUser(role enums.UserRole) *models.User {
	return &models.User{
		ID:           uuid.New(),
		Email:        strings.ToLower(uuid.NewString()) + "@example.com",
		FullName:     "Test User",
		PasswordHash: "$argon2id$v=19$m=8,t=1,p=1$AAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAA",
		Role:         role,
		IsActive:     true,
	}
}

func mustService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo, testPasswordConfig())
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

func TestNewServiceRequiresRepo(t *testing.T) {
	if _, err := NewService(nil, testPasswordConfig()); err == nil {
		t.Fatal("expected error creating service without repo")
	}
}

func TestCreateRejectsUnknownRole(t *testing.T) {
	svc := mustService(t, newStubUserRepo())

	_, err := svc.Create(context.Background(), CreateUserInput{
		Email:    "a@example.com",
		FullName: "A",
		Password: "secret123",
		Role:     "Superhero",
	})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestCreateHashesPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := mustService(t, repo)

	dto, err := svc.Create(context.Background(), CreateUserInput{
		Email:    "A@Example.com",
		FullName: "A",
		Password: "secret123",
		Role:     "user",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if dto.Email != "a@example.com" {
		t.Fatalf("expected lowered email, got %q", dto.Email)
	}
	if repo.created.PasswordHash == "secret123" || repo.created.PasswordHash == "" {
		t.Fatal("expected password to be hashed")
	}
	if repo.created.Role != enums.UserRoleUser {
		t.Fatalf("expected case-insensitive role parse, got %s", repo.created.Role)
	}
}

func TestCreateDuplicateEmail(t *testing.T) {
	existing := baseUser(enums.UserRoleUser)
	existing.Email = "taken@example.com"
	svc := mustService(t, newStubUserRepo(existing))

	_, err := svc.Create(context.Background(), CreateUserInput{
		Email:    "Taken@Example.com",
		FullName: "B",
		Password: "secret123",
		Role:     "User",
	})
	expectCode(t, err, pkgerrors.CodeConflict)
}

func TestCreateSubAccountRequiresBusinessParent(t *testing.T) {
	parent := baseUser(enums.UserRoleUser)
	svc := mustService(t, newStubUserRepo(parent))

	parentID := parent.ID
	_, err := svc.Create(context.Background(), CreateUserInput{
		Email:            "sub@example.com",
		FullName:         "Sub",
		Password:         "secret123",
		Role:             "SubAccount",
		ParentBusinessID: &parentID,
	})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestCreateSubAccountMissingParent(t *testing.T) {
	svc := mustService(t, newStubUserRepo())

	_, err := svc.Create(context.Background(), CreateUserInput{
		Email:    "sub@example.com",
		FullName: "Sub",
		Password: "secret123",
		Role:     "SubAccount",
	})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestCreateSubAccountViaBusinessActor(t *testing.T) {
	business := baseUser(enums.UserRoleBusiness)
	repo := newStubUserRepo(business)
	svc := mustService(t, repo)

	dto, err := svc.CreateSubAccount(context.Background(), business.ID, CreateSubAccountInput{
		Email:    "sub@example.com",
		FullName: "Sub Account",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("create sub-account: %v", err)
	}
	if dto.Role != enums.UserRoleSubAccount {
		t.Fatalf("expected SubAccount role, got %s", dto.Role)
	}
	if dto.ParentBusinessID == nil || *dto.ParentBusinessID != business.ID {
		t.Fatalf("expected parent %s, got %v", business.ID, dto.ParentBusinessID)
	}
}

func TestCreateSubAccountRejectsNonBusinessActor(t *testing.T) {
	actor := baseUser(enums.UserRoleUser)
	svc := mustService(t, newStubUserRepo(actor))

	_, err := svc.CreateSubAccount(context.Background(), actor.ID, CreateSubAccountInput{
		Email:    "sub@example.com",
		FullName: "Sub",
		Password: "secret123",
	})
	expectCode(t, err, pkgerrors.CodeForbidden)
}

func TestGetForbiddenForOtherUser(t *testing.T) {
	target := baseUser(enums.UserRoleUser)
	svc := mustService(t, newStubUserRepo(target))

	_, err := svc.Get(context.Background(), uuid.New(), enums.UserRoleUser, target.ID)
	expectCode(t, err, pkgerrors.CodeForbidden)
}

func TestGetAllowsAdmin(t *testing.T) {
	target := baseUser(enums.UserRoleUser)
	svc := mustService(t, newStubUserRepo(target))

	dto, err := svc.Get(context.Background(), uuid.New(), enums.UserRoleAdmin, target.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if dto.ID != target.ID {
		t.Fatalf("expected %s, got %s", target.ID, dto.ID)
	}
}

func TestUpdateRoleRequiresAdmin(t *testing.T) {
	target := baseUser(enums.UserRoleUser)
	svc := mustService(t, newStubUserRepo(target))

	role := "Admin"
	_, err := svc.Update(context.Background(), target.ID, enums.UserRoleUser, target.ID, UpdateUserInput{Role: &role})
	expectCode(t, err, pkgerrors.CodeForbidden)
}

func TestUpdateClearsParentForNonSubAccount(t *testing.T) {
	business := baseUser(enums.UserRoleBusiness)
	target := baseUser(enums.UserRoleSubAccount)
	parentID := business.ID
	target.ParentBusinessID = &parentID
	repo := newStubUserRepo(business, target)
	svc := mustService(t, repo)

	role := "User"
	dto, err := svc.Update(context.Background(), uuid.New(), enums.UserRoleAdmin, target.ID, UpdateUserInput{Role: &role})
	if err != nil {
		t.Fatalf("update user: %v", err)
	}
	if dto.ParentBusinessID != nil {
		t.Fatal("expected parent cleared when role leaves SubAccount")
	}
}

func TestUpdateNotFound(t *testing.T) {
	svc := mustService(t, newStubUserRepo())

	name := "New Name"
	_, err := svc.Update(context.Background(), uuid.New(), enums.UserRoleAdmin, uuid.New(), UpdateUserInput{FullName: &name})
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestChangePasswordVerifiesCurrent(t *testing.T) {
	user := baseUser(enums.UserRoleUser)
	repo := newStubUserRepo()
	svc := mustService(t, repo)

	created, err := svc.Create(context.Background(), CreateUserInput{
		Email:    user.Email,
		FullName: user.FullName,
		Password: "original-pass",
		Role:     "User",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	err = svc.ChangePassword(context.Background(), created.ID, enums.UserRoleUser, created.ID, ChangePasswordInput{
		CurrentPassword: "wrong",
		NewPassword:     "updated-pass",
	})
	expectCode(t, err, pkgerrors.CodeValidation)

	err = svc.ChangePassword(context.Background(), created.ID, enums.UserRoleUser, created.ID, ChangePasswordInput{
		CurrentPassword: "original-pass",
		NewPassword:     "updated-pass",
	})
	if err != nil {
		t.Fatalf("change password: %v", err)
	}
}

func TestChangePasswordAdminResetSkipsCurrent(t *testing.T) {
	target := baseUser(enums.UserRoleUser)
	repo := newStubUserRepo(target)
	svc := mustService(t, repo)

	err := svc.ChangePassword(context.Background(), uuid.New(), enums.UserRoleAdmin, target.ID, ChangePasswordInput{
		NewPassword: "reset-pass",
	})
	if err != nil {
		t.Fatalf("admin reset: %v", err)
	}
	if repo.updated == nil || repo.updated.PasswordHash == target.PasswordHash {
		t.Fatal("expected password hash replaced")
	}
}

func TestToggleStatusFlips(t *testing.T) {
	user := baseUser(enums.UserRoleUser)
	svc := mustService(t, newStubUserRepo(user))

	dto, err := svc.ToggleStatus(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("toggle status: %v", err)
	}
	if dto.IsActive {
		t.Fatal("expected user deactivated")
	}
}

func TestListDependencyError(t *testing.T) {
	repo := newStubUserRepo()
	repo.err = errors.New("boom")
	svc := mustService(t, repo)

	_, _, err := svc.List(context.Background(), ListUsersQuery{})
	expectCode(t, err, pkgerrors.CodeDependency)
}
