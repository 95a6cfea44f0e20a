package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/localizy/localizy-backend/api/responses"
	"github.com/localizy/localizy-backend/api/validators"
	"github.com/localizy/localizy-backend/internal/validations"
	"github.com/localizy/localizy-backend/pkg/enums"
	pkgerrors "github.com/localizy/localizy-backend/pkg/errors"
	"github.com/localizy/localizy-backend/pkg/logger"
)

// maxVerificationFormSize caps the multipart verification-request payload.
const maxVerificationFormSize = 32 << 20

func validationListQuery(r *http.Request) (validations.ListValidationsQuery, error) {
	page, err := validators.ParsePagination(r)
	if err != nil {
		return validations.ListValidationsQuery{}, err
	}

	query := validations.ListValidationsQuery{
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
		Page:   page,
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status, err := enums.ParseValidationStatus(raw)
		if err != nil {
			return validations.ListValidationsQuery{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		query.Status = &status
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("priority")); raw != "" {
		priority, err := enums.ParseValidationPriority(raw)
		if err != nil {
			return validations.ListValidationsQuery{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid priority")
		}
		query.Priority = &priority
	}
	return query, nil
}

// ValidationList returns the paginated validation queue.
func ValidationList(svc validations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "validation service unavailable"))
			return
		}

		query, err := validationListQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, total, err := svc.List(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newPagedResponse(rows, total, query.Page))
	}
}

// ValidationListMine returns the acting user's own requests.
func ValidationListMine(svc validations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "validation service unavailable"))
			return
		}

		actorID, _, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		query, err := validationListQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		query.SubmittedBy = &actorID

		rows, total, err := svc.List(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newPagedResponse(rows, total, query.Page))
	}
}

// ValidationGet returns a single validation by id.
func ValidationGet(svc validations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "validation service unavailable"))
			return
		}

		id, err := pathUUID(r, "validationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		validation, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, validation)
	}
}

// ValidationGetByRequestID resolves a validation by its public request id.
func ValidationGetByRequestID(svc validations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "validation service unavailable"))
			return
		}

		requestID := strings.TrimSpace(chi.URLParam(r, "requestId"))
		if requestID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "requestId is required"))
			return
		}

		validation, err := svc.GetByRequestID(r.Context(), requestID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, validation)
	}
}

type validationCreateRequest struct {
	AddressID   *string `json:"address_id,omitempty"`
	Priority    string  `json:"priority,omitempty"`
	RequestType string  `json:"request_type,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	OldData     *string `json:"old_data,omitempty"`
	NewData     *string `json:"new_data,omitempty"`
}

// ValidationCreate submits a new validation request for the acting user.
func ValidationCreate(svc validations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "validation service unavailable"))
			return
		}

		actorID, _, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload validationCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		addressID, err := parseOptionalUUID(payload.AddressID, "address id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		validation, err := svc.Create(r.Context(), validations.CreateValidationInput{
			AddressID:   addressID,
			Priority:    payload.Priority,
			RequestType: payload.RequestType,
			Notes:       payload.Notes,
			OldData:     payload.OldData,
			NewData:     payload.NewData,
			SubmittedBy: actorID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, validation)
	}
}

type validationUpdateRequest struct {
	Priority          *string `json:"priority,omitempty"`
	Notes             *string `json:"notes,omitempty"`
	PhotosProvided    *bool   `json:"photos_provided,omitempty"`
	DocumentsProvided *bool   `json:"documents_provided,omitempty"`
	LocationVerified  *bool   `json:"location_verified,omitempty"`
	AttachmentsCount  *int    `json:"attachments_count,omitempty"`
}

// ValidationUpdate edits the review checklist fields.
func ValidationUpdate(svc validations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "validation service unavailable"))
			return
		}

		id, err := pathUUID(r, "validationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload validationUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		validation, err := svc.Update(r.Context(), id, validations.UpdateValidationInput{
			Priority:          payload.Priority,
			Notes:             payload.Notes,
			PhotosProvided:    payload.PhotosProvided,
			DocumentsProvided: payload.DocumentsProvided,
			LocationVerified:  payload.LocationVerified,
			AttachmentsCount:  payload.AttachmentsCount,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, validation)
	}
}

// ValidationDelete removes a validation (admin only).
func ValidationDelete(svc validations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "validation service unavailable"))
			return
		}

		id, err := pathUUID(r, "validationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, nil)
	}
}

// ValidationVerify approves a request and its linked address in one step.
func ValidationVerify(svc validations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "validation service unavailable"))
			return
		}

		actorID, _, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := pathUUID(r, "validationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addressVerifyRequest
		if err := validators.DecodeOptionalJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		validation, err := svc.Verify(r.Context(), id, actorID, payload.Notes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, validation)
	}
}

// ValidationReject declines a request with a reason.
func ValidationReject(svc validations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "validation service unavailable"))
			return
		}

		actorID, _, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := pathUUID(r, "validationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addressRejectRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		validation, err := svc.Reject(r.Context(), id, actorID, payload.Reason)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, validation)
	}
}

// ValidationCreateVerificationRequest accepts the multipart in-person flow
// with optional id document and address proof uploads.
func ValidationCreateVerificationRequest(svc validations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "validation service unavailable"))
			return
		}

		actorID, _, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := r.ParseMultipartForm(maxVerificationFormSize); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}

		input := validations.VerificationRequestInput{SubmittedBy: actorID}

		addressID, err := parseOptionalUUID(formValuePtr(r, "address_id"), "address id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.AddressID = addressID
		input.IDType = formValuePtr(r, "id_type")
		input.PaymentMethod = formValuePtr(r, "payment_method")
		input.PaymentStatus = formValuePtr(r, "payment_status")
		input.AppointmentTimeSlot = formValuePtr(r, "appointment_time_slot")
		input.Notes = formValuePtr(r, "notes")

		if input.Latitude, err = formFloatPtr(r, "latitude"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if input.Longitude, err = formFloatPtr(r, "longitude"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if input.PaymentAmount, err = formFloatPtr(r, "payment_amount"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if input.AppointmentDate, err = formTimePtr(r, "appointment_date"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if files := r.MultipartForm.File["id_document"]; len(files) > 0 {
			input.IDDocument = files[0]
		}
		if files := r.MultipartForm.File["address_proof"]; len(files) > 0 {
			input.AddressProof = files[0]
		}

		validation, err := svc.CreateVerificationRequest(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, validation)
	}
}

// ValidationStats returns aggregate validation counts (admin only).
func ValidationStats(svc validations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "validation service unavailable"))
			return
		}

		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

func formValuePtr(r *http.Request, field string) *string {
	value := strings.TrimSpace(r.FormValue(field))
	if value == "" {
		return nil
	}
	return &value
}

func formFloatPtr(r *http.Request, field string) (*float64, error) {
	raw := strings.TrimSpace(r.FormValue(field))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+field)
	}
	return &value, nil
}

func formTimePtr(r *http.Request, field string) (*time.Time, error) {
	raw := strings.TrimSpace(r.FormValue(field))
	if raw == "" {
		return nil, nil
	}
	value, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		if value, err = time.Parse("2006-01-02", raw); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+field)
		}
	}
	return &value, nil
}
