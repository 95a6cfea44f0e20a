package validations

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/localizy/localizy-backend/internal/addresses"
	"github.com/localizy/localizy-backend/pkg/db"
	"github.com/localizy/localizy-backend/pkg/db/models"
	"github.com/localizy/localizy-backend/pkg/enums"
)

func setupWorkflowTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL,
  full_name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  phone TEXT,
  location TEXT,
  avatar TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  role TEXT NOT NULL DEFAULT 'User',
  last_login_at DATETIME,
  parent_business_id TEXT,
  total_addresses INTEGER NOT NULL DEFAULT 0,
  verified_addresses INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE UNIQUE INDEX IF NOT EXISTS ux_users_email ON users (email);`
	addressesTable := `
CREATE TABLE IF NOT EXISTS addresses (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  full_address TEXT NOT NULL,
  city_id TEXT,
  country TEXT NOT NULL,
  type TEXT NOT NULL,
  category TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'Pending',
  latitude REAL NOT NULL DEFAULT 0,
  longitude REAL NOT NULL DEFAULT 0,
  description TEXT,
  phone TEXT,
  website TEXT,
  opening_hours TEXT,
  rating REAL NOT NULL DEFAULT 0,
  views INTEGER NOT NULL DEFAULT 0,
  total_reviews INTEGER NOT NULL DEFAULT 0,
  submitted_by_user_id TEXT NOT NULL,
  submitted_date DATETIME NOT NULL,
  verified_by_user_id TEXT,
  verified_date DATETIME,
  verification_notes TEXT,
  rejection_reason TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	validationsTable := `
CREATE TABLE IF NOT EXISTS validations (
  id TEXT PRIMARY KEY,
  request_id TEXT NOT NULL,
  address_id TEXT,
  status TEXT NOT NULL DEFAULT 'Pending',
  priority TEXT NOT NULL DEFAULT 'Medium',
  request_type TEXT NOT NULL DEFAULT 'NewAddress',
  submitted_by_user_id TEXT NOT NULL,
  submitted_date DATETIME NOT NULL,
  notes TEXT,
  old_data TEXT,
  new_data TEXT,
  photos_provided INTEGER NOT NULL DEFAULT 0,
  documents_provided INTEGER NOT NULL DEFAULT 0,
  location_verified INTEGER NOT NULL DEFAULT 0,
  attachments_count INTEGER NOT NULL DEFAULT 0,
  processed_by_user_id TEXT,
  processed_date DATETIME,
  processing_notes TEXT,
  rejection_reason TEXT,
  id_type TEXT,
  latitude REAL,
  longitude REAL,
  payment_method TEXT,
  payment_amount REAL,
  payment_status TEXT,
  appointment_date DATETIME,
  appointment_time_slot TEXT,
  id_document_file_name TEXT,
  id_document_path TEXT,
  address_proof_file_name TEXT,
  address_proof_path TEXT,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE UNIQUE INDEX IF NOT EXISTS ux_validations_request_id ON validations (request_id);`

	for _, stmt := range []string{users, addressesTable, validationsTable} {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

type gormTxRunner struct {
	conn *gorm.DB
}

func (g gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return g.conn.WithContext(ctx).Transaction(fn)
}

func seedWorkflowUser(t *testing.T, conn *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Email:        uuid.NewString() + "@example.com",
		FullName:     "Workflow User",
		PasswordHash: "x",
		Role:         enums.UserRoleUser,
		IsActive:     true,
	}
	require.NoError(t, conn.Create(user).Error)
	return user
}

func seedWorkflowAddress(t *testing.T, conn *gorm.DB, submittedBy uuid.UUID) *models.Address {
	t.Helper()
	address := &models.Address{
		ID:                uuid.New(),
		Name:              "Corner Cafe",
		FullAddress:       "12 Riverside Rd",
		Country:           "Vietnam",
		Type:              "cafe",
		Category:          "food",
		Status:            enums.AddressStatusPending,
		SubmittedByUserID: submittedBy,
		SubmittedDate:     time.Now().UTC(),
	}
	require.NoError(t, conn.Create(address).Error)
	return address
}

func seedWorkflowValidation(t *testing.T, conn *gorm.DB, requestID string, addressID *uuid.UUID, submittedBy uuid.UUID) *models.Validation {
	t.Helper()
	validation := &models.Validation{
		ID:                uuid.New(),
		RequestID:         requestID,
		AddressID:         addressID,
		Status:            enums.ValidationStatusPending,
		Priority:          enums.ValidationPriorityMedium,
		RequestType:       enums.ValidationRequestTypeNewAddress,
		SubmittedByUserID: submittedBy,
		SubmittedDate:     time.Now().UTC(),
	}
	require.NoError(t, conn.Create(validation).Error)
	return validation
}

func TestNextRequestIDSequencing(t *testing.T) {
	conn := setupWorkflowTestDB(t)
	repo := NewRepository(conn)
	user := seedWorkflowUser(t, conn)

	year := time.Now().UTC().Year()

	first, err := repo.NextRequestID(context.Background(), year)
	require.NoError(t, err)
	assert.Regexp(t, `^VAL-\d{4}-001$`, first)

	seedWorkflowValidation(t, conn, first, nil, user.ID)
	seedWorkflowValidation(t, conn, requestIDForYear(year, 9), nil, user.ID)

	next, err := repo.NextRequestID(context.Background(), year)
	require.NoError(t, err)
	assert.Equal(t, requestIDForYear(year, 10), next)

	// Other years do not leak into the sequence.
	prev, err := repo.NextRequestID(context.Background(), year-1)
	require.NoError(t, err)
	assert.Equal(t, requestIDForYear(year-1, 1), prev)
}

func requestIDForYear(year, seq int) string {
	return fmt.Sprintf("VAL-%d-%03d", year, seq)
}

func TestRequestIDUniqueIndexBackstop(t *testing.T) {
	conn := setupWorkflowTestDB(t)
	user := seedWorkflowUser(t, conn)

	seedWorkflowValidation(t, conn, "VAL-2026-001", nil, user.ID)

	dup := &models.Validation{
		ID:                uuid.New(),
		RequestID:         "VAL-2026-001",
		Status:            enums.ValidationStatusPending,
		Priority:          enums.ValidationPriorityMedium,
		RequestType:       enums.ValidationRequestTypeNewAddress,
		SubmittedByUserID: user.ID,
		SubmittedDate:     time.Now().UTC(),
	}
	err := conn.Create(dup).Error
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err, "ux_validations_request_id"))
}

func workflowService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(
		NewRepository(conn),
		addresses.NewRepository(conn),
		workflowUsers{conn: conn},
		gormTxRunner{conn: conn},
		&stubUploads{},
	)
	require.NoError(t, err)
	return svc
}

type workflowUsers struct {
	conn *gorm.DB
}

func (w workflowUsers) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := w.conn.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func TestVerifyWorkflowUpdatesBothRows(t *testing.T) {
	conn := setupWorkflowTestDB(t)
	user := seedWorkflowUser(t, conn)
	address := seedWorkflowAddress(t, conn, user.ID)
	addressID := address.ID
	validation := seedWorkflowValidation(t, conn, "VAL-2026-007", &addressID, user.ID)

	svc := workflowService(t, conn)

	verifier := uuid.New()
	notes := "documents match"
	dto, err := svc.Verify(context.Background(), validation.ID, verifier, &notes)
	require.NoError(t, err)
	assert.Equal(t, enums.ValidationStatusVerified, dto.Status)

	var storedValidation models.Validation
	require.NoError(t, conn.First(&storedValidation, "id = ?", validation.ID).Error)
	assert.Equal(t, enums.ValidationStatusVerified, storedValidation.Status)
	require.NotNil(t, storedValidation.ProcessedByUserID)
	assert.Equal(t, verifier, *storedValidation.ProcessedByUserID)

	var storedAddress models.Address
	require.NoError(t, conn.First(&storedAddress, "id = ?", address.ID).Error)
	assert.Equal(t, enums.AddressStatusVerified, storedAddress.Status)
	require.NotNil(t, storedAddress.VerifiedByUserID)
	assert.Equal(t, verifier, *storedAddress.VerifiedByUserID)
	require.NotNil(t, storedAddress.VerificationNotes)
	assert.Equal(t, "documents match", *storedAddress.VerificationNotes)
}

func TestRejectWorkflowPropagatesReason(t *testing.T) {
	conn := setupWorkflowTestDB(t)
	user := seedWorkflowUser(t, conn)
	address := seedWorkflowAddress(t, conn, user.ID)
	addressID := address.ID
	validation := seedWorkflowValidation(t, conn, "VAL-2026-008", &addressID, user.ID)

	svc := workflowService(t, conn)

	dto, err := svc.Reject(context.Background(), validation.ID, uuid.New(), "location mismatch")
	require.NoError(t, err)
	assert.Equal(t, enums.ValidationStatusRejected, dto.Status)

	var storedAddress models.Address
	require.NoError(t, conn.First(&storedAddress, "id = ?", address.ID).Error)
	assert.Equal(t, enums.AddressStatusRejected, storedAddress.Status)
	require.NotNil(t, storedAddress.RejectionReason)
	assert.Equal(t, "location mismatch", *storedAddress.RejectionReason)

	// Terminal afterwards.
	_, err = svc.Verify(context.Background(), validation.ID, uuid.New(), nil)
	require.Error(t, err)
}
