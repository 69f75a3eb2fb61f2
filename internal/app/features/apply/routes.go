// internal/app/features/apply/routes.go
package apply

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts the public application form.
// Typically: r.Mount("/apply", apply.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeForm)
	r.Post("/", h.HandleSubmit)
	r.Get("/thanks", h.ServeThanks)

	return r
}
