package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/localizy/localizy-backend/pkg/config"
	"github.com/localizy/localizy-backend/pkg/db"
	"github.com/localizy/localizy-backend/pkg/db/models"
	"github.com/localizy/localizy-backend/pkg/enums"
	pkgerrors "github.com/localizy/localizy-backend/pkg/errors"
	"github.com/localizy/localizy-backend/pkg/security"
)

// Service exposes user management operations.
type Service interface {
	List(ctx context.Context, query ListUsersQuery) ([]UserDTO, int64, error)
	Get(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, id uuid.UUID) (*UserDTO, error)
	Create(ctx context.Context, input CreateUserInput) (*UserDTO, error)
	Update(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, id uuid.UUID, input UpdateUserInput) (*UserDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ToggleStatus(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	ChangePassword(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, id uuid.UUID, input ChangePasswordInput) error
	CreateSubAccount(ctx context.Context, businessID uuid.UUID, input CreateSubAccountInput) (*UserDTO, error)
	ListSubAccounts(ctx context.Context, businessID uuid.UUID) ([]UserDTO, error)
	Stats(ctx context.Context) (*StatsDTO, error)
}

// CreateUserInput captures admin-side user creation. Role is raw input and is
// rejected when it does not parse.
type CreateUserInput struct {
	Email            string
	FullName         string
	Password         string
	Role             string
	Phone            *string
	Location         *string
	ParentBusinessID *uuid.UUID
	IsActive         *bool
}

// UpdateUserInput captures the mutable user fields. Role/IsActive/parent are
// only honored for admin actors.
type UpdateUserInput struct {
	Email            *string
	FullName         *string
	Phone            *string
	Location         *string
	Avatar           *string
	Role             *string
	IsActive         *bool
	ParentBusinessID *uuid.UUID
}

// ChangePasswordInput carries a password change request. CurrentPassword is
// skipped when an admin resets another user.
type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

// CreateSubAccountInput captures Business-owned sub-account creation.
type CreateSubAccountInput struct {
	Email    string
	FullName string
	Password string
	Phone    *string
}

type service struct {
	repo        Repository
	passwordCfg config.PasswordConfig
}

// NewService builds a user service with the provided repository.
func NewService(repo Repository, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	return &service{repo: repo, passwordCfg: passwordCfg}, nil
}

func (s *service) List(ctx context.Context, query ListUsersQuery) ([]UserDTO, int64, error) {
	rows, total, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	return FromModels(rows), total, nil
}

func (s *service) Get(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, id uuid.UUID) (*UserDTO, error) {
	if actorRole != enums.UserRoleAdmin && actorID != id {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot view another user")
	}
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *service) Create(ctx context.Context, input CreateUserInput) (*UserDTO, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if strings.TrimSpace(input.FullName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name is required")
	}
	if input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password is required")
	}

	role, err := enums.ParseUserRole(input.Role)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}

	if err := s.ensureEmailAvailable(ctx, email, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.checkSubAccountParent(ctx, role, input.ParentBusinessID); err != nil {
		return nil, err
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		Email:            email,
		FullName:         strings.TrimSpace(input.FullName),
		PasswordHash:     hash,
		Phone:            input.Phone,
		Location:         input.Location,
		Role:             role,
		ParentBusinessID: input.ParentBusinessID,
		IsActive:         true,
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if role != enums.UserRoleSubAccount {
		user.ParentBusinessID = nil
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err, "ux_users_email") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return FromModel(user), nil
}

func (s *service) Update(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, id uuid.UUID, input UpdateUserInput) (*UserDTO, error) {
	isAdmin := actorRole == enums.UserRoleAdmin
	if !isAdmin && actorID != id {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot update another user")
	}

	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "email cannot be empty")
		}
		if err := s.ensureEmailAvailable(ctx, email, user.ID); err != nil {
			return nil, err
		}
		user.Email = email
	}
	if input.FullName != nil {
		name := strings.TrimSpace(*input.FullName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name cannot be empty")
		}
		user.FullName = name
	}
	if input.Phone != nil {
		user.Phone = input.Phone
	}
	if input.Location != nil {
		user.Location = input.Location
	}
	if input.Avatar != nil {
		user.Avatar = input.Avatar
	}

	if input.Role != nil || input.IsActive != nil || input.ParentBusinessID != nil {
		if !isAdmin {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "role and status changes require admin")
		}
	}
	if input.Role != nil {
		role, err := enums.ParseUserRole(*input.Role)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
		}
		user.Role = role
	}
	if input.ParentBusinessID != nil {
		user.ParentBusinessID = input.ParentBusinessID
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if user.Role == enums.UserRoleSubAccount {
		if err := s.checkSubAccountParent(ctx, user.Role, user.ParentBusinessID); err != nil {
			return nil, err
		}
	} else {
		user.ParentBusinessID = nil
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if db.IsUniqueViolation(err, "ux_users_email") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}
	return FromModel(user), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findUser(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete user")
	}
	return nil
}

func (s *service) ToggleStatus(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	user.IsActive = !user.IsActive
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "toggle user status")
	}
	return FromModel(user), nil
}

func (s *service) ChangePassword(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, id uuid.UUID, input ChangePasswordInput) error {
	isAdmin := actorRole == enums.UserRoleAdmin
	if !isAdmin && actorID != id {
		return pkgerrors.New(pkgerrors.CodeForbidden, "cannot change another user's password")
	}
	if input.NewPassword == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "new password is required")
	}

	user, err := s.findUser(ctx, id)
	if err != nil {
		return err
	}

	// Self-service changes must prove the current password; an admin resetting
	// someone else does not.
	if !isAdmin || actorID == id {
		ok, err := security.VerifyPassword(input.CurrentPassword, user.PasswordHash)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "current password is incorrect")
		}
	}

	hash, err := security.HashPassword(input.NewPassword, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	user.PasswordHash = hash

	if err := s.repo.Update(ctx, user); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update password")
	}
	return nil
}

func (s *service) CreateSubAccount(ctx context.Context, businessID uuid.UUID, input CreateSubAccountInput) (*UserDTO, error) {
	parent, err := s.findUser(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if parent.Role != enums.UserRoleBusiness {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only business accounts can create sub-accounts")
	}

	parentID := parent.ID
	return s.Create(ctx, CreateUserInput{
		Email:            input.Email,
		FullName:         input.FullName,
		Password:         input.Password,
		Phone:            input.Phone,
		Role:             enums.UserRoleSubAccount.String(),
		ParentBusinessID: &parentID,
	})
}

func (s *service) ListSubAccounts(ctx context.Context, businessID uuid.UUID) ([]UserDTO, error) {
	rows, err := s.repo.ListSubAccounts(ctx, businessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sub-accounts")
	}
	return FromModels(rows), nil
}

func (s *service) Stats(ctx context.Context) (*StatsDTO, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "user stats")
	}
	return stats, nil
}

func (s *service) findUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}

func (s *service) ensureEmailAvailable(ctx context.Context, email string, selfID uuid.UUID) error {
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup email")
	}
	if existing.ID == selfID {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
}

// checkSubAccountParent enforces: role=SubAccount requires a parent that exists
// and is a Business account.
func (s *service) checkSubAccountParent(ctx context.Context, role enums.UserRole, parentID *uuid.UUID) error {
	if role != enums.UserRoleSubAccount {
		return nil
	}
	if parentID == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "sub-accounts require a parent business")
	}
	parent, err := s.repo.FindByID(ctx, *parentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "parent business not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load parent business")
	}
	if parent.Role != enums.UserRoleBusiness {
		return pkgerrors.New(pkgerrors.CodeValidation, "parent account is not a business")
	}
	return nil
}
