package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/frizerski/booking-api/internal/middleware"
)

// SessionHandler serves login and the current-user lookup
type SessionHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
}

// Routes returns user router; login and registration are public
func (h *Handler) Routes(auth, optionalAuth func(http.Handler) http.Handler, session SessionHandler) chi.Router {
	r := chi.NewRouter()

	r.Post("/login", session.Login)
	r.With(optionalAuth).Post("/", h.Register)

	r.Group(func(r chi.Router) {
		r.Use(auth)

		r.Get("/me", session.Me)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth)
		r.Use(middleware.RequireAdmin())

		r.Get("/", h.List)
		r.Delete("/{id}", h.Delete)
	})

	return r
}
