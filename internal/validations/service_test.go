package validations

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/localizy/localizy-backend/internal/addresses"
	"github.com/localizy/localizy-backend/pkg/db/models"
	"github.com/localizy/localizy-backend/pkg/enums"
	pkgerrors "github.com/localizy/localizy-backend/pkg/errors"
	"github.com/localizy/localizy-backend/pkg/storage/uploads"
)

type stubValidationRepo struct {
	validations map[uuid.UUID]*models.Validation
	byRequestID map[string]*models.Validation
	nextID      string
	nextIDErr   error
	err         error
	createErrs  []error
	created     []*models.Validation
	updated     *models.Validation
	deleted     []uuid.UUID
	stats       *StatsDTO
}

func newStubValidationRepo(seed ...*models.Validation) *stubValidationRepo {
	repo := &stubValidationRepo{
		validations: map[uuid.UUID]*models.Validation{},
		byRequestID: map[string]*models.Validation{},
		nextID:      "VAL-2026-001",
	}
	for _, v := range seed {
		repo.validations[v.ID] = v
		repo.byRequestID[v.RequestID] = v
	}
	return repo
}

func (r *stubValidationRepo) WithTx(tx *gorm.DB) Repository { return r }

func (r *stubValidationRepo) Create(ctx context.Context, validation *models.Validation) error {
	if len(r.createErrs) > 0 {
		err := r.createErrs[0]
		r.createErrs = r.createErrs[1:]
		if err != nil {
			return err
		}
	} else if r.err != nil {
		return r.err
	}
	if validation.ID == uuid.Nil {
		validation.ID = uuid.New()
	}
	r.created = append(r.created, validation)
	r.validations[validation.ID] = validation
	r.byRequestID[validation.RequestID] = validation
	return nil
}

func (r *stubValidationRepo) Update(ctx context.Context, validation *models.Validation) error {
	if r.err != nil {
		return r.err
	}
	r.updated = validation
	r.validations[validation.ID] = validation
	return nil
}

func (r *stubValidationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if r.err != nil {
		return r.err
	}
	r.deleted = append(r.deleted, id)
	delete(r.validations, id)
	return nil
}

func (r *stubValidationRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Validation, error) {
	if r.err != nil {
		return nil, r.err
	}
	if v, ok := r.validations[id]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubValidationRepo) FindByRequestID(ctx context.Context, requestID string) (*models.Validation, error) {
	if r.err != nil {
		return nil, r.err
	}
	if v, ok := r.byRequestID[requestID]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubValidationRepo) List(ctx context.Context, query ListValidationsQuery) ([]models.Validation, int64, error) {
	if r.err != nil {
		return nil, 0, r.err
	}
	out := []models.Validation{}
	for _, v := range r.validations {
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

func (r *stubValidationRepo) NextRequestID(ctx context.Context, year int) (string, error) {
	if r.nextIDErr != nil {
		return "", r.nextIDErr
	}
	return r.nextID, nil
}

func (r *stubValidationRepo) Stats(ctx context.Context, now time.Time) (*StatsDTO, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.stats, nil
}

type stubAddressRepo struct {
	addresses map[uuid.UUID]*models.Address
	err       error
	updated   *models.Address
}

func newStubAddressRepo(seed ...*models.Address) *stubAddressRepo {
	repo := &stubAddressRepo{addresses: map[uuid.UUID]*models.Address{}}
	for _, a := range seed {
		repo.addresses[a.ID] = a
	}
	return repo
}

func (r *stubAddressRepo) WithTx(tx *gorm.DB) addresses.Repository { return r }

func (r *stubAddressRepo) Create(ctx context.Context, address *models.Address) error { return r.err }

func (r *stubAddressRepo) Update(ctx context.Context, address *models.Address) error {
	if r.err != nil {
		return r.err
	}
	r.updated = address
	r.addresses[address.ID] = address
	return nil
}

func (r *stubAddressRepo) Delete(ctx context.Context, id uuid.UUID) error { return r.err }

func (r *stubAddressRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Address, error) {
	if r.err != nil {
		return nil, r.err
	}
	if a, ok := r.addresses[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubAddressRepo) List(ctx context.Context, query addresses.ListAddressesQuery) ([]models.Address, int64, error) {
	return nil, 0, r.err
}

func (r *stubAddressRepo) IncrementViews(ctx context.Context, id uuid.UUID) error { return r.err }

func (r *stubAddressRepo) Stats(ctx context.Context) (*addresses.StatsDTO, error) {
	return nil, r.err
}

type stubUsers struct {
	users map[uuid.UUID]*models.User
}

func (s stubUsers) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubTx struct {
	calls int
	err   error
}

func (s *stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	return fn(nil)
}

type stubUploads struct {
	saved   []string
	deleted []string
	err     error
}

func (s *stubUploads) SaveMultipart(ctx context.Context, folder string, header *multipart.FileHeader) (*uploads.StoredFile, error) {
	if s.err != nil {
		return nil, s.err
	}
	name := uuid.NewString() + ".png"
	key := folder + "/" + name
	s.saved = append(s.saved, key)
	return &uploads.StoredFile{FileName: name, Key: key, URL: "/uploads/" + key, Size: 3}, nil
}

func (s *stubUploads) Delete(ctx context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return nil
}

type fixture struct {
	repo     *stubValidationRepo
	addrRepo *stubAddressRepo
	users    stubUsers
	tx       *stubTx
	uploads  *stubUploads
	svc      Service
}

func newFixture(t *testing.T, seedValidations []*models.Validation, seedAddresses []*models.Address, seedUsers []*models.User) *fixture {
	t.Helper()
	f := &fixture{
		repo:     newStubValidationRepo(seedValidations...),
		addrRepo: newStubAddressRepo(seedAddresses...),
		users:    stubUsers{users: map[uuid.UUID]*models.User{}},
		tx:       &stubTx{},
		uploads:  &stubUploads{},
	}
	for _, u := range seedUsers {
		f.users.users[u.ID] = u
	}
	svc, err := NewService(f.repo, f.addrRepo, f.users, f.tx, f.uploads)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	f.svc = svc
	return f
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

func pendingValidation(addressID *uuid.UUID) *models.Validation {
	return &models.Validation{
		ID:                uuid.New(),
		RequestID:         "VAL-2026-042",
		AddressID:         addressID,
		Status:            enums.ValidationStatusPending,
		Priority:          enums.ValidationPriorityMedium,
		RequestType:       enums.ValidationRequestTypeNewAddress,
		SubmittedByUserID: uuid.New(),
		SubmittedDate:     time.Now().UTC(),
	}
}

func fileHeader(t *testing.T, filename string) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	fw.Write([]byte("abc"))
	mw.Close()

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("parse multipart form: %v", err)
	}
	return req.MultipartForm.File["file"][0]
}

func TestCreateAssignsRequestIDAndDefaults(t *testing.T) {
	submitter := &models.User{ID: uuid.New()}
	f := newFixture(t, nil, nil, []*models.User{submitter})

	dto, err := f.svc.Create(context.Background(), CreateValidationInput{
		SubmittedBy: submitter.ID,
		Priority:    "urgent-ish",
		RequestType: "whatever",
	})
	if err != nil {
		t.Fatalf("create validation: %v", err)
	}
	if dto.RequestID != "VAL-2026-001" {
		t.Fatalf("expected generated request id, got %q", dto.RequestID)
	}
	if dto.Status != enums.ValidationStatusPending {
		t.Fatalf("expected Pending, got %s", dto.Status)
	}
	if dto.Priority != enums.ValidationPriorityMedium {
		t.Fatalf("expected Medium fallback, got %s", dto.Priority)
	}
	if dto.RequestType != enums.ValidationRequestTypeNewAddress {
		t.Fatalf("expected NewAddress fallback, got %s", dto.RequestType)
	}
}

func TestCreateUnknownSubmitter(t *testing.T) {
	f := newFixture(t, nil, nil, nil)

	_, err := f.svc.Create(context.Background(), CreateValidationInput{SubmittedBy: uuid.New()})
	expectCode(t, err, pkgerrors.CodeNotFound)
	if len(f.repo.created) != 0 {
		t.Fatal("nothing should be persisted")
	}
}

func TestCreateUnknownAddressPersistsNothing(t *testing.T) {
	submitter := &models.User{ID: uuid.New()}
	f := newFixture(t, nil, nil, []*models.User{submitter})

	addressID := uuid.New()
	_, err := f.svc.Create(context.Background(), CreateValidationInput{
		SubmittedBy: submitter.ID,
		AddressID:   &addressID,
	})
	expectCode(t, err, pkgerrors.CodeValidation)
	if len(f.repo.created) != 0 {
		t.Fatal("nothing should be persisted")
	}
}

func TestCreateRetriesOnRequestIDRace(t *testing.T) {
	submitter := &models.User{ID: uuid.New()}
	f := newFixture(t, nil, nil, []*models.User{submitter})
	f.repo.createErrs = []error{errors.New(`duplicate key value violates unique constraint "ux_validations_request_id"`), nil}

	dto, err := f.svc.Create(context.Background(), CreateValidationInput{SubmittedBy: submitter.ID})
	if err != nil {
		t.Fatalf("create validation: %v", err)
	}
	if dto.RequestID == "" {
		t.Fatal("expected request id after retry")
	}
	if len(f.repo.created) != 1 {
		t.Fatalf("expected exactly one persisted row, got %d", len(f.repo.created))
	}
}

func TestVerifyUpdatesValidationAndAddressInOneTx(t *testing.T) {
	address := &models.Address{ID: uuid.New(), Status: enums.AddressStatusPending}
	addressID := address.ID
	validation := pendingValidation(&addressID)
	f := newFixture(t, []*models.Validation{validation}, []*models.Address{address}, nil)

	verifier := uuid.New()
	notes := "checked on site"
	dto, err := f.svc.Verify(context.Background(), validation.ID, verifier, &notes)
	if err != nil {
		t.Fatalf("verify validation: %v", err)
	}
	if f.tx.calls != 1 {
		t.Fatalf("expected one transaction, got %d", f.tx.calls)
	}
	if dto.Status != enums.ValidationStatusVerified {
		t.Fatalf("expected Verified, got %s", dto.Status)
	}
	if dto.ProcessedByUserID == nil || *dto.ProcessedByUserID != verifier {
		t.Fatal("expected processor stamped")
	}
	if f.addrRepo.updated == nil {
		t.Fatal("expected linked address updated")
	}
	if f.addrRepo.updated.Status != enums.AddressStatusVerified {
		t.Fatalf("expected address Verified, got %s", f.addrRepo.updated.Status)
	}
	if f.addrRepo.updated.VerifiedByUserID == nil || *f.addrRepo.updated.VerifiedByUserID != verifier {
		t.Fatal("expected same verifier on address")
	}
}

func TestVerifyWithoutAddressSkipsAddressWrite(t *testing.T) {
	validation := pendingValidation(nil)
	f := newFixture(t, []*models.Validation{validation}, nil, nil)

	_, err := f.svc.Verify(context.Background(), validation.ID, uuid.New(), nil)
	if err != nil {
		t.Fatalf("verify validation: %v", err)
	}
	if f.addrRepo.updated != nil {
		t.Fatal("no address should be touched")
	}
}

func TestVerifyTerminalStateConflict(t *testing.T) {
	validation := pendingValidation(nil)
	validation.Status = enums.ValidationStatusVerified
	f := newFixture(t, []*models.Validation{validation}, nil, nil)

	_, err := f.svc.Verify(context.Background(), validation.ID, uuid.New(), nil)
	expectCode(t, err, pkgerrors.CodeStateConflict)
	if f.tx.calls != 0 {
		t.Fatal("no transaction should start for a terminal request")
	}
}

func TestRejectRequiresReasonBeforeAnyWrite(t *testing.T) {
	validation := pendingValidation(nil)
	f := newFixture(t, []*models.Validation{validation}, nil, nil)

	_, err := f.svc.Reject(context.Background(), validation.ID, uuid.New(), "  ")
	expectCode(t, err, pkgerrors.CodeValidation)
	if f.tx.calls != 0 || f.repo.updated != nil {
		t.Fatal("nothing should be written without a reason")
	}
}

func TestRejectPropagatesReasonToAddress(t *testing.T) {
	address := &models.Address{ID: uuid.New(), Status: enums.AddressStatusPending}
	addressID := address.ID
	validation := pendingValidation(&addressID)
	f := newFixture(t, []*models.Validation{validation}, []*models.Address{address}, nil)

	dto, err := f.svc.Reject(context.Background(), validation.ID, uuid.New(), "photos do not match")
	if err != nil {
		t.Fatalf("reject validation: %v", err)
	}
	if dto.Status != enums.ValidationStatusRejected {
		t.Fatalf("expected Rejected, got %s", dto.Status)
	}
	if dto.RejectionReason == nil || *dto.RejectionReason != "photos do not match" {
		t.Fatal("expected reason on validation")
	}
	if f.addrRepo.updated == nil || f.addrRepo.updated.RejectionReason == nil ||
		*f.addrRepo.updated.RejectionReason != "photos do not match" {
		t.Fatal("expected reason propagated to address")
	}
}

func TestRejectTxFailureSurfacesDependency(t *testing.T) {
	validation := pendingValidation(nil)
	f := newFixture(t, []*models.Validation{validation}, nil, nil)
	f.tx.err = errors.New("deadlock")

	_, err := f.svc.Reject(context.Background(), validation.ID, uuid.New(), "bad data")
	expectCode(t, err, pkgerrors.CodeDependency)
}

func TestUpdateNeverTouchesStatus(t *testing.T) {
	validation := pendingValidation(nil)
	f := newFixture(t, []*models.Validation{validation}, nil, nil)

	priority := "High"
	located := true
	dto, err := f.svc.Update(context.Background(), validation.ID, UpdateValidationInput{
		Priority:         &priority,
		LocationVerified: &located,
	})
	if err != nil {
		t.Fatalf("update validation: %v", err)
	}
	if dto.Status != enums.ValidationStatusPending {
		t.Fatalf("expected status untouched, got %s", dto.Status)
	}
	if dto.Priority != enums.ValidationPriorityHigh {
		t.Fatalf("expected High, got %s", dto.Priority)
	}
	if !dto.LocationVerified {
		t.Fatal("expected location flag set")
	}
}

func TestGetByRequestID(t *testing.T) {
	validation := pendingValidation(nil)
	f := newFixture(t, []*models.Validation{validation}, nil, nil)

	dto, err := f.svc.GetByRequestID(context.Background(), validation.RequestID)
	if err != nil {
		t.Fatalf("get by request id: %v", err)
	}
	if dto.ID != validation.ID {
		t.Fatalf("expected %s, got %s", validation.ID, dto.ID)
	}

	_, err = f.svc.GetByRequestID(context.Background(), "VAL-1999-001")
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestVerificationRequestStoresDocuments(t *testing.T) {
	submitter := &models.User{ID: uuid.New()}
	f := newFixture(t, nil, nil, []*models.User{submitter})

	idType := "passport"
	dto, err := f.svc.CreateVerificationRequest(context.Background(), VerificationRequestInput{
		SubmittedBy:  submitter.ID,
		IDType:       &idType,
		IDDocument:   fileHeader(t, "id.png"),
		AddressProof: fileHeader(t, "proof.jpg"),
	})
	if err != nil {
		t.Fatalf("create verification request: %v", err)
	}
	if len(f.uploads.saved) != 2 {
		t.Fatalf("expected two stored files, got %d", len(f.uploads.saved))
	}
	if !dto.DocumentsProvided || dto.AttachmentsCount != 2 {
		t.Fatalf("expected document flags set, got provided=%v count=%d", dto.DocumentsProvided, dto.AttachmentsCount)
	}
	if dto.IDDocumentPath == nil || dto.AddressProofPath == nil {
		t.Fatal("expected stored file paths on the request")
	}
}

func TestVerificationRequestCleansUpFilesOnPersistFailure(t *testing.T) {
	submitter := &models.User{ID: uuid.New()}
	f := newFixture(t, nil, nil, []*models.User{submitter})
	f.repo.createErrs = []error{errors.New("insert failed"), errors.New("insert failed"), errors.New("insert failed")}

	_, err := f.svc.CreateVerificationRequest(context.Background(), VerificationRequestInput{
		SubmittedBy: submitter.ID,
		IDDocument:  fileHeader(t, "id.png"),
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(f.uploads.deleted) != 1 {
		t.Fatalf("expected stored file cleaned up, got %v", f.uploads.deleted)
	}
}
