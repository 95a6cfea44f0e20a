package validations

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/localizy/localizy-backend/internal/addresses"
	"github.com/localizy/localizy-backend/pkg/db"
	"github.com/localizy/localizy-backend/pkg/db/models"
	"github.com/localizy/localizy-backend/pkg/enums"
	pkgerrors "github.com/localizy/localizy-backend/pkg/errors"
	"github.com/localizy/localizy-backend/pkg/storage/uploads"
)

// requestIDAttempts bounds regeneration when concurrent submissions race on the
// same yearly sequence number.
const requestIDAttempts = 3

type usersRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type uploadStore interface {
	SaveMultipart(ctx context.Context, folder string, header *multipart.FileHeader) (*uploads.StoredFile, error)
	Delete(ctx context.Context, key string) error
}

// Service exposes the verification-request workflow.
type Service interface {
	List(ctx context.Context, query ListValidationsQuery) ([]ValidationDTO, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*ValidationDTO, error)
	GetByRequestID(ctx context.Context, requestID string) (*ValidationDTO, error)
	Create(ctx context.Context, input CreateValidationInput) (*ValidationDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateValidationInput) (*ValidationDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Verify(ctx context.Context, id, verifierID uuid.UUID, notes *string) (*ValidationDTO, error)
	Reject(ctx context.Context, id, rejecterID uuid.UUID, reason string) (*ValidationDTO, error)
	CreateVerificationRequest(ctx context.Context, input VerificationRequestInput) (*ValidationDTO, error)
	Stats(ctx context.Context) (*StatsDTO, error)
}

// CreateValidationInput captures a new verification request. Priority and
// RequestType are raw strings; unknown values fall back to Medium/NewAddress.
type CreateValidationInput struct {
	AddressID   *uuid.UUID
	Priority    string
	RequestType string
	Notes       *string
	OldData     *string
	NewData     *string
	SubmittedBy uuid.UUID
}

// UpdateValidationInput captures the admin-editable fields. Status is owned by
// Verify/Reject and never set here.
type UpdateValidationInput struct {
	Priority          *string
	Notes             *string
	PhotosProvided    *bool
	DocumentsProvided *bool
	LocationVerified  *bool
	AttachmentsCount  *int
}

// VerificationRequestInput captures the in-person appointment flow with
// optional document uploads.
type VerificationRequestInput struct {
	AddressID           *uuid.UUID
	SubmittedBy         uuid.UUID
	IDType              *string
	Latitude            *float64
	Longitude           *float64
	PaymentMethod       *string
	PaymentAmount       *float64
	PaymentStatus       *string
	AppointmentDate     *time.Time
	AppointmentTimeSlot *string
	Notes               *string
	IDDocument          *multipart.FileHeader
	AddressProof        *multipart.FileHeader
}

type service struct {
	repo      Repository
	addresses addresses.Repository
	users     usersRepository
	tx        txRunner
	uploads   uploadStore
	now       func() time.Time
}

// NewService builds the validation service with the provided collaborators.
func NewService(repo Repository, addressesRepo addresses.Repository, users usersRepository, tx txRunner, uploads uploadStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("validation repository required")
	}
	if addressesRepo == nil {
		return nil, fmt.Errorf("address repository required")
	}
	if users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if uploads == nil {
		return nil, fmt.Errorf("upload store required")
	}
	return &service{
		repo:      repo,
		addresses: addressesRepo,
		users:     users,
		tx:        tx,
		uploads:   uploads,
		now:       time.Now,
	}, nil
}

func (s *service) List(ctx context.Context, query ListValidationsQuery) ([]ValidationDTO, int64, error) {
	rows, total, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list validations")
	}
	return FromModels(rows), total, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ValidationDTO, error) {
	validation, err := s.findValidation(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(validation), nil
}

func (s *service) GetByRequestID(ctx context.Context, requestID string) (*ValidationDTO, error) {
	validation, err := s.repo.FindByRequestID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "validation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load validation")
	}
	return FromModel(validation), nil
}

func (s *service) Create(ctx context.Context, input CreateValidationInput) (*ValidationDTO, error) {
	if err := s.checkSubmitter(ctx, input.SubmittedBy); err != nil {
		return nil, err
	}
	if err := s.checkAddress(ctx, input.AddressID); err != nil {
		return nil, err
	}

	validation := &models.Validation{
		AddressID:         input.AddressID,
		Status:            enums.ValidationStatusPending,
		Priority:          enums.ValidationPriorityOrDefault(input.Priority),
		RequestType:       enums.ValidationRequestTypeOrDefault(input.RequestType),
		Notes:             input.Notes,
		OldData:           input.OldData,
		NewData:           input.NewData,
		SubmittedByUserID: input.SubmittedBy,
		SubmittedDate:     s.now().UTC(),
	}

	if err := s.createWithRequestID(ctx, validation); err != nil {
		return nil, err
	}
	return FromModel(validation), nil
}

// createWithRequestID assigns the next yearly sequence id and inserts,
// regenerating when a concurrent insert claims the same id first.
func (s *service) createWithRequestID(ctx context.Context, validation *models.Validation) error {
	year := validation.SubmittedDate.Year()
	for attempt := 0; attempt < requestIDAttempts; attempt++ {
		requestID, err := s.repo.NextRequestID(ctx, year)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "generate request id")
		}
		validation.RequestID = requestID

		err = s.repo.Create(ctx, validation)
		if err == nil {
			return nil
		}
		if !db.IsUniqueViolation(err, "ux_validations_request_id") {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create validation")
		}
	}
	return pkgerrors.New(pkgerrors.CodeConflict, "could not allocate a request id")
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateValidationInput) (*ValidationDTO, error) {
	validation, err := s.findValidation(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Priority != nil {
		validation.Priority = enums.ValidationPriorityOrDefault(*input.Priority)
	}
	if input.Notes != nil {
		validation.Notes = input.Notes
	}
	if input.PhotosProvided != nil {
		validation.PhotosProvided = *input.PhotosProvided
	}
	if input.DocumentsProvided != nil {
		validation.DocumentsProvided = *input.DocumentsProvided
	}
	if input.LocationVerified != nil {
		validation.LocationVerified = *input.LocationVerified
	}
	if input.AttachmentsCount != nil {
		validation.AttachmentsCount = *input.AttachmentsCount
	}

	if err := s.repo.Update(ctx, validation); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update validation")
	}
	return FromModel(validation), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findValidation(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete validation")
	}
	return nil
}

// Verify moves the request to Verified and stamps the linked address in the
// same transaction so the pair can never diverge.
func (s *service) Verify(ctx context.Context, id, verifierID uuid.UUID, notes *string) (*ValidationDTO, error) {
	validation, err := s.findValidation(ctx, id)
	if err != nil {
		return nil, err
	}
	if validation.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("validation already %s", strings.ToLower(validation.Status.String())))
	}

	now := s.now().UTC()
	validation.Status = enums.ValidationStatusVerified
	validation.ProcessedByUserID = &verifierID
	validation.ProcessedDate = &now
	validation.ProcessingNotes = notes
	validation.RejectionReason = nil

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Update(ctx, validation); err != nil {
			return err
		}
		return s.stampLinkedAddress(ctx, tx, validation, enums.AddressStatusVerified, verifierID, now, notes, nil)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "verify validation")
	}
	return FromModel(validation), nil
}

// Reject mirrors Verify. The reason is mandatory and checked before anything is
// written.
func (s *service) Reject(ctx context.Context, id, rejecterID uuid.UUID, reason string) (*ValidationDTO, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rejection reason is required")
	}

	validation, err := s.findValidation(ctx, id)
	if err != nil {
		return nil, err
	}
	if validation.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("validation already %s", strings.ToLower(validation.Status.String())))
	}

	now := s.now().UTC()
	validation.Status = enums.ValidationStatusRejected
	validation.ProcessedByUserID = &rejecterID
	validation.ProcessedDate = &now
	validation.ProcessingNotes = nil
	validation.RejectionReason = &reason

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Update(ctx, validation); err != nil {
			return err
		}
		return s.stampLinkedAddress(ctx, tx, validation, enums.AddressStatusRejected, rejecterID, now, nil, &reason)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reject validation")
	}
	return FromModel(validation), nil
}

// stampLinkedAddress propagates the transition to the referenced address. A
// request can outlive its address (SET NULL fk), so a missing row is skipped.
func (s *service) stampLinkedAddress(ctx context.Context, tx *gorm.DB, validation *models.Validation, status enums.AddressStatus, actorID uuid.UUID, at time.Time, notes, reason *string) error {
	if validation.AddressID == nil {
		return nil
	}

	addrRepo := s.addresses.WithTx(tx)
	address, err := addrRepo.FindByID(ctx, *validation.AddressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	address.Status = status
	address.VerifiedByUserID = &actorID
	address.VerifiedDate = &at
	address.VerificationNotes = notes
	address.RejectionReason = reason
	return addrRepo.Update(ctx, address)
}

func (s *service) CreateVerificationRequest(ctx context.Context, input VerificationRequestInput) (*ValidationDTO, error) {
	if err := s.checkSubmitter(ctx, input.SubmittedBy); err != nil {
		return nil, err
	}
	if err := s.checkAddress(ctx, input.AddressID); err != nil {
		return nil, err
	}

	validation := &models.Validation{
		AddressID:           input.AddressID,
		Status:              enums.ValidationStatusPending,
		Priority:            enums.ValidationPriorityMedium,
		RequestType:         enums.ValidationRequestTypeNewAddress,
		Notes:               input.Notes,
		SubmittedByUserID:   input.SubmittedBy,
		SubmittedDate:       s.now().UTC(),
		IDType:              input.IDType,
		Latitude:            input.Latitude,
		Longitude:           input.Longitude,
		PaymentMethod:       input.PaymentMethod,
		PaymentAmount:       input.PaymentAmount,
		PaymentStatus:       input.PaymentStatus,
		AppointmentDate:     input.AppointmentDate,
		AppointmentTimeSlot: input.AppointmentTimeSlot,
	}

	storedKeys := []string{}
	cleanup := func() {
		for _, key := range storedKeys {
			_ = s.uploads.Delete(ctx, key)
		}
	}

	if input.IDDocument != nil {
		stored, err := s.uploads.SaveMultipart(ctx, "validations", input.IDDocument)
		if err != nil {
			return nil, err
		}
		storedKeys = append(storedKeys, stored.Key)
		validation.IDDocumentFileName = &stored.FileName
		validation.IDDocumentPath = &stored.URL
	}
	if input.AddressProof != nil {
		stored, err := s.uploads.SaveMultipart(ctx, "validations", input.AddressProof)
		if err != nil {
			cleanup()
			return nil, err
		}
		storedKeys = append(storedKeys, stored.Key)
		validation.AddressProofFileName = &stored.FileName
		validation.AddressProofPath = &stored.URL
	}

	validation.DocumentsProvided = len(storedKeys) > 0
	validation.AttachmentsCount = len(storedKeys)

	if err := s.createWithRequestID(ctx, validation); err != nil {
		cleanup()
		return nil, err
	}
	return FromModel(validation), nil
}

func (s *service) Stats(ctx context.Context) (*StatsDTO, error) {
	stats, err := s.repo.Stats(ctx, s.now().UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validation stats")
	}
	return stats, nil
}

func (s *service) findValidation(ctx context.Context, id uuid.UUID) (*models.Validation, error) {
	validation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "validation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load validation")
	}
	return validation, nil
}

func (s *service) checkSubmitter(ctx context.Context, id uuid.UUID) error {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "submitting user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load submitting user")
	}
	return nil
}

// checkAddress rejects requests that reference a missing address before
// anything is persisted.
func (s *service) checkAddress(ctx context.Context, addressID *uuid.UUID) error {
	if addressID == nil {
		return nil
	}
	if _, err := s.addresses.FindByID(ctx, *addressID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "address not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
	}
	return nil
}
