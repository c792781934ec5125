package stylist

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/frizerski/booking-api/internal/middleware"
)

// Routes returns stylist routes; reads are public, writes need an admin token.
// optionalAuth populates the caller when a token is sent and never rejects.
func (h *Handler) Routes(auth, optionalAuth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.With(optionalAuth).Get("/", h.List)
	r.Get("/{id}", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(auth)
		r.Use(middleware.RequireAdmin())

		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Put("/{id}/image", h.UploadImage)
	})

	return r
}
