// Package httpx provides the JSON API over tracked job applications.
package httpx

import (
	"log/slog"
	"net/http"

	"github.com/jobhuntos/jobhunt-api/internal/domain/model"
	"github.com/jobhuntos/jobhunt-api/internal/service"
)

// ApplicationHandlers provides HTTP handlers for application records and listings.
type ApplicationHandlers struct {
	Svc       *service.ApplicationService
	Paginator *service.ResultPaginator
	Logger    *slog.Logger
}

// List handles GET /applications.
func (h *ApplicationHandlers) List(w http.ResponseWriter, r *http.Request) {
	f, err := model.ParseApplicationFilter(r.URL.Query())
	if err != nil {
		WriteAppError(w, err)
		return
	}

	page, err := h.Paginator.Paginate(r.Context(), f)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, page)
}

// GetByID handles GET /applications/{id}.
func (h *ApplicationHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDPath(r)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	app, err := h.Svc.GetByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, app)
}

// Create handles POST /applications.
func (h *ApplicationHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateApplicationRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	app, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Location", "/applications/"+formatID(app.ID))
	WriteJSON(w, http.StatusCreated, app)
}

// Update handles PUT and PATCH /applications/{id}. Only keys present in the
// body are changed.
func (h *ApplicationHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDPath(r)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	var req model.UpdateApplicationRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	app, err := h.Svc.Update(r.Context(), id, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, app)
}

// Delete handles DELETE /applications/{id}.
func (h *ApplicationHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDPath(r)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	deleted, err := h.Svc.Delete(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !deleted {
		WriteAppError(w, errApplicationNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ApplicationHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	logServerError(r, h.Logger, err)
	WriteAppError(w, err)
}
