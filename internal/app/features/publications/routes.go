// internal/app/features/publications/routes.go
package publications

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts the public publication list.
// Typically: r.Mount("/publications", publications.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServePublicList)

	return r
}

// AdminRoutes mounts the publication management screens. The caller wraps
// the mount in the admin middleware group.
// Typically: r.Mount("/admin/publications", publications.AdminRoutes(handler))
func AdminRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeAdminList)
	r.Get("/new", h.ServeNew)
	r.Post("/", h.HandleCreate)
	r.Get("/{id}/edit", h.ServeEdit)
	r.Post("/{id}/edit", h.HandleEdit)
	r.Post("/{id}/delete", h.HandleDelete)

	return r
}
