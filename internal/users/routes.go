package users

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers user routes. Both the bare and trailing-slash
// collection forms are routed for compatibility with existing clients.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}
