package space

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns space router
func (h *Handler) Routes(authMiddleware, adminOnly func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)

	r.Get("/", h.List)
	r.Get("/types", h.ListTypes)
	r.Get("/{id}", h.Get)
	r.Get("/{id}/availability", h.Availability)

	r.Group(func(r chi.Router) {
		r.Use(adminOnly)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Post("/types", h.CreateType)
	})

	return r
}
