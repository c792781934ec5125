package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/frizerski/booking-api/internal/pkg/errorhandler"
	"github.com/frizerski/booking-api/internal/pkg/response"
	"github.com/frizerski/booking-api/internal/pkg/validator"
)

// Handler handles catalog HTTP requests
type Handler struct {
	mgr *Manager
}

// NewHandler creates catalog handler
func NewHandler(mgr *Manager) *Handler {
	return &Handler{mgr: mgr}
}

// List handles GET /services[?stylistId=]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var stylistID int64
	if raw := r.URL.Query().Get("stylistId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			response.BadRequest(w, "Invalid stylistId")
			return
		}
		stylistID = id
	}

	items, err := h.mgr.List(r.Context(), stylistID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, ListResponse(items))
}

// Get handles GET /services/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	s, err := h.mgr.GetByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, ResponseFromEntity(s))
}

// Create handles POST /services (admin)
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	s, err := h.mgr.Create(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Created(w, ResponseFromEntity(s))
}

// Update handles PUT /services/{id} (admin)
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	s, err := h.mgr.Update(r.Context(), id, &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, ResponseFromEntity(s))
}

// Delete handles DELETE /services/{id} (admin)
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.mgr.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, true)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrServiceNotFound):
		response.NotFound(w, "Service not found")
	case errors.Is(err, ErrStylistNotFound):
		response.ValidationError(w, map[string]string{"stylist_id": "Stylist does not exist"})
	case errors.Is(err, ErrServiceInUse):
		response.Conflict(w, "Service has appointments and cannot be deleted")
	default:
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", "Service request failed", err)
	}
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "Invalid service ID")
		return 0, false
	}
	return id, true
}
