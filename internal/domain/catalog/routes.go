package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/frizerski/booking-api/internal/middleware"
)

// Routes returns catalog routes; writes need an admin token
func (h *Handler) Routes(auth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/{id}", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(auth)
		r.Use(middleware.RequireAdmin())

		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})

	return r
}
