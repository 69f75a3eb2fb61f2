// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/dalemusser/labsite/internal/app/system/auth"
	"go.uber.org/zap"
)

type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

// ServeLogout clears the session and sends the user home.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	if err := auth.SignOut(w, r); err != nil {
		h.Log.Warn("logout: clear session failed", zap.Error(err))
	}

	// HTMX handling: use HX-Redirect to force a client-side navigation.
	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", "/")
		w.WriteHeader(http.StatusOK)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
