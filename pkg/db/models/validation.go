package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/localizy/localizy-backend/pkg/enums"
)

// Validation is a verification request wrapping an address mutation. AddressID
// is nullable so a new-address request can exist before its address does.
// RequestID carries the human-readable VAL-{year}-{seq} identifier and is
// unique; the yearly sequence generator relies on that index as its race
// backstop.
type Validation struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	RequestID string     `gorm:"column:request_id;type:text;not null;uniqueIndex:ux_validations_request_id"`
	AddressID *uuid.UUID `gorm:"column:address_id;type:uuid"`
	Address   *Address   `gorm:"foreignKey:AddressID;constraint:OnDelete:SET NULL"`

	Status      enums.ValidationStatus      `gorm:"column:status;type:text;not null;default:'Pending'"`
	Priority    enums.ValidationPriority    `gorm:"column:priority;type:text;not null;default:'Medium'"`
	RequestType enums.ValidationRequestType `gorm:"column:request_type;type:text;not null;default:'NewAddress'"`

	SubmittedByUserID uuid.UUID `gorm:"column:submitted_by_user_id;type:uuid;not null"`
	SubmittedByUser   *User     `gorm:"foreignKey:SubmittedByUserID"`
	SubmittedDate     time.Time `gorm:"column:submitted_date;not null"`

	Notes   *string `gorm:"column:notes"`
	OldData *string `gorm:"column:old_data"`
	NewData *string `gorm:"column:new_data"`

	PhotosProvided    bool `gorm:"column:photos_provided;not null;default:false"`
	DocumentsProvided bool `gorm:"column:documents_provided;not null;default:false"`
	LocationVerified  bool `gorm:"column:location_verified;not null;default:false"`
	AttachmentsCount  int  `gorm:"column:attachments_count;not null;default:0"`

	ProcessedByUserID *uuid.UUID `gorm:"column:processed_by_user_id;type:uuid"`
	ProcessedByUser   *User      `gorm:"foreignKey:ProcessedByUserID"`
	ProcessedDate     *time.Time `gorm:"column:processed_date"`
	ProcessingNotes   *string    `gorm:"column:processing_notes"`
	RejectionReason   *string    `gorm:"column:rejection_reason"`

	// In-person verification appointment payload.
	IDType              *string    `gorm:"column:id_type"`
	Latitude            *float64   `gorm:"column:latitude"`
	Longitude           *float64   `gorm:"column:longitude"`
	PaymentMethod       *string    `gorm:"column:payment_method"`
	PaymentAmount       *float64   `gorm:"column:payment_amount"`
	PaymentStatus       *string    `gorm:"column:payment_status"`
	AppointmentDate     *time.Time `gorm:"column:appointment_date"`
	AppointmentTimeSlot *string    `gorm:"column:appointment_time_slot"`

	IDDocumentFileName   *string `gorm:"column:id_document_file_name"`
	IDDocumentPath       *string `gorm:"column:id_document_path"`
	AddressProofFileName *string `gorm:"column:address_proof_file_name"`
	AddressProofPath     *string `gorm:"column:address_proof_path"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
