package validations

import (
	"time"

	"github.com/google/uuid"

	"github.com/localizy/localizy-backend/pkg/db/models"
	"github.com/localizy/localizy-backend/pkg/enums"
)

// ValidationDTO is the public verification-request shape.
type ValidationDTO struct {
	ID        uuid.UUID  `json:"id"`
	RequestID string     `json:"request_id"`
	AddressID *uuid.UUID `json:"address_id,omitempty"`

	Status      enums.ValidationStatus      `json:"status"`
	Priority    enums.ValidationPriority    `json:"priority"`
	RequestType enums.ValidationRequestType `json:"request_type"`

	SubmittedByUserID uuid.UUID `json:"submitted_by_user_id"`
	SubmittedDate     time.Time `json:"submitted_date"`

	Notes   *string `json:"notes,omitempty"`
	OldData *string `json:"old_data,omitempty"`
	NewData *string `json:"new_data,omitempty"`

	PhotosProvided    bool `json:"photos_provided"`
	DocumentsProvided bool `json:"documents_provided"`
	LocationVerified  bool `json:"location_verified"`
	AttachmentsCount  int  `json:"attachments_count"`

	ProcessedByUserID *uuid.UUID `json:"processed_by_user_id,omitempty"`
	ProcessedDate     *time.Time `json:"processed_date,omitempty"`
	ProcessingNotes   *string    `json:"processing_notes,omitempty"`
	RejectionReason   *string    `json:"rejection_reason,omitempty"`

	IDType              *string    `json:"id_type,omitempty"`
	Latitude            *float64   `json:"latitude,omitempty"`
	Longitude           *float64   `json:"longitude,omitempty"`
	PaymentMethod       *string    `json:"payment_method,omitempty"`
	PaymentAmount       *float64   `json:"payment_amount,omitempty"`
	PaymentStatus       *string    `json:"payment_status,omitempty"`
	AppointmentDate     *time.Time `json:"appointment_date,omitempty"`
	AppointmentTimeSlot *string    `json:"appointment_time_slot,omitempty"`

	IDDocumentFileName   *string `json:"id_document_file_name,omitempty"`
	IDDocumentPath       *string `json:"id_document_path,omitempty"`
	AddressProofFileName *string `json:"address_proof_file_name,omitempty"`
	AddressProofPath     *string `json:"address_proof_path,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromModel maps a validation row to its DTO.
func FromModel(v *models.Validation) *ValidationDTO {
	if v == nil {
		return nil
	}
	return &ValidationDTO{
		ID:                   v.ID,
		RequestID:            v.RequestID,
		AddressID:            v.AddressID,
		Status:               v.Status,
		Priority:             v.Priority,
		RequestType:          v.RequestType,
		SubmittedByUserID:    v.SubmittedByUserID,
		SubmittedDate:        v.SubmittedDate,
		Notes:                v.Notes,
		OldData:              v.OldData,
		NewData:              v.NewData,
		PhotosProvided:       v.PhotosProvided,
		DocumentsProvided:    v.DocumentsProvided,
		LocationVerified:     v.LocationVerified,
		AttachmentsCount:     v.AttachmentsCount,
		ProcessedByUserID:    v.ProcessedByUserID,
		ProcessedDate:        v.ProcessedDate,
		ProcessingNotes:      v.ProcessingNotes,
		RejectionReason:      v.RejectionReason,
		IDType:               v.IDType,
		Latitude:             v.Latitude,
		Longitude:            v.Longitude,
		PaymentMethod:        v.PaymentMethod,
		PaymentAmount:        v.PaymentAmount,
		PaymentStatus:        v.PaymentStatus,
		AppointmentDate:      v.AppointmentDate,
		AppointmentTimeSlot:  v.AppointmentTimeSlot,
		IDDocumentFileName:   v.IDDocumentFileName,
		IDDocumentPath:       v.IDDocumentPath,
		AddressProofFileName: v.AddressProofFileName,
		AddressProofPath:     v.AddressProofPath,
		CreatedAt:            v.CreatedAt,
		UpdatedAt:            v.UpdatedAt,
	}
}

// FromModels maps a slice of validation rows.
func FromModels(rows []models.Validation) []ValidationDTO {
	out := make([]ValidationDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

// StatsDTO summarizes the verification queue.
type StatsDTO struct {
	Total        int64 `json:"total"`
	Pending      int64 `json:"pending"`
	Verified     int64 `json:"verified"`
	Rejected     int64 `json:"rejected"`
	HighPriority int64 `json:"high_priority"`
	Today        int64 `json:"today"`
}
