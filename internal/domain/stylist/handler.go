package stylist

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/frizerski/booking-api/internal/middleware"
	"github.com/frizerski/booking-api/internal/pkg/errorhandler"
	"github.com/frizerski/booking-api/internal/pkg/response"
	"github.com/frizerski/booking-api/internal/pkg/storage"
	"github.com/frizerski/booking-api/internal/pkg/validator"
)

// Handler handles stylist HTTP requests
type Handler struct {
	svc *Service
}

// NewHandler creates stylist handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// List handles GET /stylists. Admins may pass ?all=true to include inactive ones.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var (
		items []*Stylist
		err   error
	)
	if r.URL.Query().Get("all") == "true" && middleware.IsAdmin(r.Context()) {
		items, err = h.svc.ListAll(r.Context())
	} else {
		items, err = h.svc.ListActive(r.Context())
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, ListResponse(items))
}

// Get handles GET /stylists/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	st, err := h.svc.GetActive(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, ResponseFromEntity(st))
}

// Create handles POST /stylists (admin)
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

	st, err := h.svc.Create(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Created(w, ResponseFromEntity(st))
}

// Update handles PUT /stylists/{id} (admin)
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

	st, err := h.svc.Update(r.Context(), id, &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, ResponseFromEntity(st))
}

// Delete handles DELETE /stylists/{id} (admin); the stylist is deactivated
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Deactivate(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, true)
}

// UploadImage handles PUT /stylists/{id}/image (admin, multipart field "image")
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxPortraitSize+1<<20)
	file, _, err := r.FormFile("image")
	if err != nil {
		response.BadRequest(w, "Multipart field \"image\" is required")
		return
	}
	defer file.Close()

	st, err := h.svc.UploadPortrait(r.Context(), id, file)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, ResponseFromEntity(st))
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrStylistNotFound):
		response.NotFound(w, "Stylist not found")
	case errors.Is(err, ErrInvalidImage):
		response.Error(w, http.StatusUnprocessableEntity, "INVALID_IMAGE", "Portrait must be a JPEG or PNG image up to 5 MB")
	case errors.Is(err, ErrStorageDisabled):
		response.ServiceUnavailable(w, "Portrait uploads are not configured")
	default:
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", "Stylist request failed", err)
	}
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "Invalid stylist ID")
		return 0, false
	}
	return id, true
}
