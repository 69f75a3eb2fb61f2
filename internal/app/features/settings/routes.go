// internal/app/features/settings/routes.go
package settings

import "github.com/go-chi/chi/v5"

// AdminRoutes mounts the settings form. The caller wraps the mount in the
// admin middleware group.
// Typically: r.Mount("/admin/settings", settings.AdminRoutes(handler))
func AdminRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeSettings)
	r.Post("/", h.HandleSettings)

	return r
}
