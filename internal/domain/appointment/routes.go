package appointment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/frizerski/booking-api/internal/middleware"
)

// Routes returns appointment routes. Availability and booking are public;
// limiter guards the public write and may be nil.
func (h *Handler) Routes(auth func(http.Handler) http.Handler, limiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	r.Get("/available-slots", h.AvailableSlots)

	if limiter != nil {
		r.With(limiter.Middleware).Post("/", h.Create)
	} else {
		r.Post("/", h.Create)
	}

	r.Group(func(r chi.Router) {
		r.Use(auth)

		r.Get("/", h.List)
		r.Get("/date/{date}", h.ListByDate)
		r.Get("/{id}", h.Get)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth)
		r.Use(middleware.RequireAdmin())

		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})

	return r
}
