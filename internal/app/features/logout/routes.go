// internal/app/features/logout/routes.go
package logout

import "github.com/go-chi/chi/v5"

// Routes mounts the logout endpoint. GET keeps the header link simple;
// POST is accepted for form-based logout.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeLogout)
	r.Post("/", h.ServeLogout)

	return r
}
