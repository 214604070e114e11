package booking

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns booking router
func (h *Handler) Routes(authMiddleware, adminOnly func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)

	r.Post("/", h.Create)
	r.Get("/my-bookings", h.MyBookings)
	r.Get("/{id}", h.Get)
	r.Delete("/{id}", h.Cancel)

	r.With(adminOnly).Get("/", h.ListAll)

	return r
}
