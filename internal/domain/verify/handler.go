package verify

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/frizerski/booking-api/internal/middleware"
	"github.com/frizerski/booking-api/internal/pkg/errorhandler"
	"github.com/frizerski/booking-api/internal/pkg/response"
	"github.com/frizerski/booking-api/internal/pkg/validator"
)

// Handler handles phone verification HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates verification handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// SendCode handles POST /verify/send-code
func (h *Handler) SendCode(w http.ResponseWriter, r *http.Request) {
	var req SendCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := h.service.SendCode(r.Context(), req.Phone); err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, StatusResponse{Status: "sent", ExpiresIn: int(CodeTTL.Seconds())})
}

// VerifyCode handles POST /verify/verify-code
func (h *Handler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var req VerifyCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := h.service.VerifyCode(r.Context(), req.Phone, req.Code); err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, StatusResponse{Status: "verified"})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidCode):
		response.Error(w, http.StatusBadRequest, "INVALID_CODE", "Invalid or expired code")
	case errors.Is(err, ErrTooManyAttempts):
		response.Error(w, http.StatusTooManyRequests, "TOO_MANY_ATTEMPTS", "Too many attempts, request a new code")
	case errors.Is(err, ErrResendTooSoon):
		w.Header().Set("Retry-After", strconv.Itoa(int(ResendCooldown.Seconds())))
		response.TooManyRequests(w)
	case errors.Is(err, ErrStoreUnavailable):
		response.ServiceUnavailable(w, "Phone verification is not available")
	default:
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", "Verification failed", err)
	}
}

// Routes returns verification routes; limiter may be nil
func (h *Handler) Routes(limiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()
	if limiter != nil {
		r.Use(limiter.Middleware)
	}

	r.Post("/send-code", h.SendCode)
	r.Post("/verify-code", h.VerifyCode)

	return r
}
