package controllers

import (
	"net/http"
	"strings"

	"github.com/localizy/localizy-backend/api/responses"
	"github.com/localizy/localizy-backend/api/validators"
	"github.com/localizy/localizy-backend/internal/cities"
	pkgerrors "github.com/localizy/localizy-backend/pkg/errors"
	"github.com/localizy/localizy-backend/pkg/logger"
)

// CityList returns the paginated city catalog.
func CityList(svc cities.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "city service unavailable"))
			return
		}

		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		isActive, err := validators.ParseQueryBool(r, "is_active")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := cities.ListCitiesQuery{
			Search:   strings.TrimSpace(r.URL.Query().Get("search")),
			Country:  strings.TrimSpace(r.URL.Query().Get("country")),
			IsActive: isActive,
			Page:     page,
		}

		rows, total, err := svc.List(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newPagedResponse(rows, total, page))
	}
}

// CityGet returns a single city by id.
func CityGet(svc cities.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "city service unavailable"))
			return
		}

		id, err := pathUUID(r, "cityId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		city, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, city)
	}
}

type cityCreateRequest struct {
	Name        string  `json:"name" validate:"required"`
	Code        string  `json:"code" validate:"required"`
	Country     string  `json:"country" validate:"required"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// CityCreate registers a new city (admin only).
func CityCreate(svc cities.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "city service unavailable"))
			return
		}

		var payload cityCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		city, err := svc.Create(r.Context(), cities.CreateCityInput{
			Name:        payload.Name,
			Code:        payload.Code,
			Country:     payload.Country,
			Description: payload.Description,
			IsActive:    payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, city)
	}
}

type cityUpdateRequest struct {
	Name        *string `json:"name,omitempty"`
	Code        *string `json:"code,omitempty"`
	Country     *string `json:"country,omitempty"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// CityUpdate edits city fields (admin only).
func CityUpdate(svc cities.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "city service unavailable"))
			return
		}

		id, err := pathUUID(r, "cityId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cityUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		city, err := svc.Update(r.Context(), id, cities.UpdateCityInput{
			Name:        payload.Name,
			Code:        payload.Code,
			Country:     payload.Country,
			Description: payload.Description,
			IsActive:    payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, city)
	}
}

// CityDelete removes a city (admin only).
func CityDelete(svc cities.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "city service unavailable"))
			return
		}

		id, err := pathUUID(r, "cityId")
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

// CityToggleActive flips the active flag (admin only).
func CityToggleActive(svc cities.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "city service unavailable"))
			return
		}

		id, err := pathUUID(r, "cityId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		city, err := svc.ToggleActive(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, city)
	}
}

// CityStats returns aggregate city counts (admin only).
func CityStats(svc cities.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "city service unavailable"))
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
