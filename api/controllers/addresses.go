package controllers

import (
	"net/http"
	"strings"

	"github.com/localizy/localizy-backend/api/responses"
	"github.com/localizy/localizy-backend/api/validators"
	"github.com/localizy/localizy-backend/internal/addresses"
	"github.com/localizy/localizy-backend/pkg/enums"
	pkgerrors "github.com/localizy/localizy-backend/pkg/errors"
	"github.com/localizy/localizy-backend/pkg/logger"
)

func addressListQuery(r *http.Request) (addresses.ListAddressesQuery, error) {
	page, err := validators.ParsePagination(r)
	if err != nil {
		return addresses.ListAddressesQuery{}, err
	}
	cityID, err := validators.ParseQueryUUID(r, "city_id")
	if err != nil {
		return addresses.ListAddressesQuery{}, err
	}

	query := addresses.ListAddressesQuery{
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
		Type:   strings.TrimSpace(r.URL.Query().Get("type")),
		CityID: cityID,
		Page:   page,
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status, err := enums.ParseAddressStatus(raw)
		if err != nil {
			return addresses.ListAddressesQuery{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		query.Status = &status
	}
	return query, nil
}

// AddressList returns the paginated address directory.
func AddressList(svc addresses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}

		query, err := addressListQuery(r)
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

// AddressListMine returns the acting user's own submissions.
func AddressListMine(svc addresses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}

		actorID, _, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		query, err := addressListQuery(r)
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

// AddressListByUser returns another user's submissions (admin only).
func AddressListByUser(svc addresses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}

		userID, err := pathUUID(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		query, err := addressListQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		query.SubmittedBy = &userID

		rows, total, err := svc.List(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newPagedResponse(rows, total, query.Page))
	}
}

// AddressGet returns a single address.
func AddressGet(svc addresses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}

		id, err := pathUUID(r, "addressId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		address, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, address)
	}
}

type addressCreateRequest struct {
	Name         string  `json:"name" validate:"required"`
	FullAddress  string  `json:"full_address" validate:"required"`
	CityID       *string `json:"city_id,omitempty"`
	Country      string  `json:"country" validate:"required"`
	Type         string  `json:"type" validate:"required"`
	Category     string  `json:"category,omitempty"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Description  *string `json:"description,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Website      *string `json:"website,omitempty"`
	OpeningHours *string `json:"opening_hours,omitempty"`
}

// AddressCreate submits a new address on behalf of the acting user.
func AddressCreate(svc addresses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}

		actorID, _, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addressCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := addresses.CreateAddressInput{
			Name:         payload.Name,
			FullAddress:  payload.FullAddress,
			Country:      payload.Country,
			Type:         payload.Type,
			Category:     payload.Category,
			Latitude:     payload.Latitude,
			Longitude:    payload.Longitude,
			Description:  payload.Description,
			Phone:        payload.Phone,
			Website:      payload.Website,
			OpeningHours: payload.OpeningHours,
			SubmittedBy:  actorID,
		}
		cityID, err := parseOptionalUUID(payload.CityID, "city id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.CityID = cityID

		address, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, address)
	}
}

type addressUpdateRequest struct {
	Name         *string  `json:"name,omitempty"`
	FullAddress  *string  `json:"full_address,omitempty"`
	CityID       *string  `json:"city_id,omitempty"`
	Country      *string  `json:"country,omitempty"`
	Type         *string  `json:"type,omitempty"`
	Category     *string  `json:"category,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Phone        *string  `json:"phone,omitempty"`
	Website      *string  `json:"website,omitempty"`
	OpeningHours *string  `json:"opening_hours,omitempty"`
}

// AddressUpdate edits address fields; the review state machine stays untouched.
func AddressUpdate(svc addresses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}

		id, err := pathUUID(r, "addressId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addressUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := addresses.UpdateAddressInput{
			Name:         payload.Name,
			FullAddress:  payload.FullAddress,
			Country:      payload.Country,
			Type:         payload.Type,
			Category:     payload.Category,
			Latitude:     payload.Latitude,
			Longitude:    payload.Longitude,
			Description:  payload.Description,
			Phone:        payload.Phone,
			Website:      payload.Website,
			OpeningHours: payload.OpeningHours,
		}
		cityID, err := parseOptionalUUID(payload.CityID, "city id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.CityID = cityID

		address, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, address)
	}
}

// AddressDelete removes an address (admin only).
func AddressDelete(svc addresses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}

		id, err := pathUUID(r, "addressId")
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

type addressVerifyRequest struct {
	Notes *string `json:"notes,omitempty"`
}

// AddressVerify marks an address verified by the acting reviewer.
func AddressVerify(svc addresses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}

		actorID, _, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := pathUUID(r, "addressId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addressVerifyRequest
		if err := validators.DecodeOptionalJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		address, err := svc.Verify(r.Context(), id, actorID, payload.Notes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, address)
	}
}

type addressRejectRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// AddressReject marks an address rejected with a reason.
func AddressReject(svc addresses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}

		actorID, _, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := pathUUID(r, "addressId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addressRejectRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		address, err := svc.Reject(r.Context(), id, actorID, payload.Reason)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, address)
	}
}

// AddressIncrementViews bumps the public view counter.
func AddressIncrementViews(svc addresses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}

		id, err := pathUUID(r, "addressId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.IncrementViews(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, nil)
	}
}

// AddressStats returns aggregate address counts (admin only).
func AddressStats(svc addresses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
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
