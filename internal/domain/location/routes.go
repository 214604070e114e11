package location

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns location router
func (h *Handler) Routes(authMiddleware, adminOnly func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)

	r.Get("/", h.List)
	r.Get("/{id}", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(adminOnly)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Post("/{id}/buildings", h.CreateBuilding)
	})

	return r
}

// FloorRoutes returns floor-scoped admin router (layout management)
func (h *Handler) FloorRoutes(authMiddleware, adminOnly func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)
	r.Use(adminOnly)

	r.Post("/{buildingId}/floors", h.CreateFloor)

	return r
}

// LayoutRoutes returns layout management router mounted at /floors
func (h *Handler) LayoutRoutes(authMiddleware, adminOnly func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)
	r.Use(adminOnly)

	r.Put("/{floorId}/layout", h.UpdateFloorLayout)
	r.Post("/{floorId}/layout-image", h.UploadFloorLayoutImage)

	return r
}
