// internal/app/features/members/routes.go
package members

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts the public member pages.
// Typically: r.Mount("/members", members.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServePublicList)
	r.Get("/{slug}", h.ServeProfile)

	return r
}

// AdminRoutes mounts the member management screens. The caller wraps the
// mount in the admin middleware group.
// Typically: r.Mount("/admin/members", members.AdminRoutes(handler))
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
