// internal/app/features/authgoogle/routes.go
package authgoogle

import "github.com/go-chi/chi/v5"

// Routes returns the router for the admin Google sign-in flow. Both
// endpoints are public; the callback only signs in known admin accounts.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeLogin)
	r.Get("/callback", h.ServeCallback)

	return r
}
