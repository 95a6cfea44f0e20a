package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/localizy/localizy-backend/api/responses"
	"github.com/localizy/localizy-backend/internal/homeslides"
	pkgerrors "github.com/localizy/localizy-backend/pkg/errors"
	"github.com/localizy/localizy-backend/pkg/logger"
)

// maxSlideFormSize caps the multipart slide payload.
const maxSlideFormSize = 16 << 20

// HomeSlideListActive returns the public carousel in display order.
func HomeSlideListActive(svc homeslides.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "home slide service unavailable"))
			return
		}

		rows, err := svc.ListActive(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// HomeSlideListAll returns every slide for the admin console.
func HomeSlideListAll(svc homeslides.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "home slide service unavailable"))
			return
		}

		rows, err := svc.ListAll(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// HomeSlideGet returns a single slide by id.
func HomeSlideGet(svc homeslides.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "home slide service unavailable"))
			return
		}

		id, err := pathUUID(r, "slideId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		slide, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, slide)
	}
}

// HomeSlideCreate accepts a multipart form with an image file plus content
// fields.
func HomeSlideCreate(svc homeslides.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "home slide service unavailable"))
			return
		}

		if err := r.ParseMultipartForm(maxSlideFormSize); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}

		input := homeslides.CreateSlideInput{
			Content: strings.TrimSpace(r.FormValue("content")),
		}
		sortOrder, err := formIntPtr(r, "sort_order")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if sortOrder != nil {
			input.SortOrder = *sortOrder
		}
		isActive, err := formBoolPtr(r, "is_active")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.IsActive = isActive

		if files := r.MultipartForm.File["image"]; len(files) > 0 {
			input.Image = files[0]
		}

		slide, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, slide)
	}
}

// HomeSlideUpdate edits a slide; an attached image replaces the stored file.
func HomeSlideUpdate(svc homeslides.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "home slide service unavailable"))
			return
		}

		id, err := pathUUID(r, "slideId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := r.ParseMultipartForm(maxSlideFormSize); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}

		input := homeslides.UpdateSlideInput{
			Content: formValuePtr(r, "content"),
		}
		if input.SortOrder, err = formIntPtr(r, "sort_order"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if input.IsActive, err = formBoolPtr(r, "is_active"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if files := r.MultipartForm.File["image"]; len(files) > 0 {
			input.Image = files[0]
		}

		slide, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, slide)
	}
}

// HomeSlideDelete removes a slide and its stored image.
func HomeSlideDelete(svc homeslides.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "home slide service unavailable"))
			return
		}

		id, err := pathUUID(r, "slideId")
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

// HomeSlideToggleActive flips the visibility flag.
func HomeSlideToggleActive(svc homeslides.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "home slide service unavailable"))
			return
		}

		id, err := pathUUID(r, "slideId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		slide, err := svc.ToggleActive(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, slide)
	}
}

func formIntPtr(r *http.Request, field string) (*int, error) {
	raw := strings.TrimSpace(r.FormValue(field))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+field)
	}
	return &value, nil
}

func formBoolPtr(r *http.Request, field string) (*bool, error) {
	raw := strings.TrimSpace(r.FormValue(field))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+field)
	}
	return &value, nil
}
