// internal/app/features/applications/routes.go
package applications

import (
	"github.com/go-chi/chi/v5"
)

// AdminRoutes mounts the application management screens. The caller wraps
// the mount in the admin middleware group.
// Typically: r.Mount("/admin/applications", applications.AdminRoutes(handler))
func AdminRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeAdminList)
	r.Post("/{id}/contacted", h.HandleMarkContacted)
	r.Post("/{id}/delete", h.HandleDelete)

	return r
}
