// internal/app/features/login/handler.go
package login

import (
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/labsite/internal/app/features/errors"
	adminstore "github.com/dalemusser/labsite/internal/app/store/admins"
	"github.com/dalemusser/labsite/internal/app/system/auth"
	"github.com/dalemusser/labsite/internal/app/system/dberr"
	"github.com/dalemusser/labsite/internal/app/system/limits"
	"github.com/dalemusser/labsite/internal/app/system/ratelimit"
	"github.com/dalemusser/labsite/internal/app/system/timeouts"
	"github.com/dalemusser/labsite/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Handler serves the admin password sign-in page.
type Handler struct {
	Log     *zap.Logger
	ErrLog  *uierrors.ErrorLogger
	Admins  *adminstore.Store
	Limiter *ratelimit.LoginLimiter

	// GoogleEnabled toggles the "sign in with Google" link on the form.
	GoogleEnabled bool
}

func NewHandler(admins *adminstore.Store, limiter *ratelimit.LoginLimiter, googleEnabled bool, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:           logger,
		ErrLog:        errLog,
		Admins:        admins,
		Limiter:       limiter,
		GoogleEnabled: googleEnabled,
	}
}

type loginVM struct {
	viewdata.BaseVM
	Email         string
	ReturnURL     string
	GoogleEnabled bool
	ErrorMessage  string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, "/admin/members", http.StatusSeeOther)
		return
	}

	vm := loginVM{
		BaseVM:        viewdata.NewBaseVM(r, nil, "Sign In", "/"),
		ReturnURL:     sanitizeReturnURL(r.URL.Query().Get("return")),
		GoogleEnabled: h.GoogleEnabled,
	}
	templates.Render(w, r, "login_form", vm)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxFormSize)
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "login: parse form failed", err,
			"Invalid form data.", "/login")
		return
	}

	email := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
	password := r.FormValue("password")
	returnURL := sanitizeReturnURL(r.FormValue("return"))

	reRender := func(msg string) {
		vm := loginVM{
			BaseVM:        viewdata.NewBaseVM(r, nil, "Sign In", "/"),
			Email:         email,
			ReturnURL:     returnURL,
			GoogleEnabled: h.GoogleEnabled,
			ErrorMessage:  msg,
		}
		templates.Render(w, r, "login_form", vm)
	}

	if allowed, reason := h.Limiter.Check(r, email); !allowed {
		h.Log.Warn("login rate limited",
			zap.String("ip", ratelimit.ClientIP(r)),
			zap.String("email", email))
		reRender(reason)
		return
	}

	if email == "" || password == "" {
		reRender("Email and password are required.")
		return
	}

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	admin, err := h.Admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			// Same message as a wrong password; do not reveal which.
			reRender("Invalid email or password.")
			return
		}
		h.ErrLog.LogDBError(w, r, "login: lookup failed", err,
			"Sign-in is unavailable right now. Please try again.", "/login")
		return
	}

	if admin.Status == "disabled" {
		reRender("This account is disabled.")
		return
	}
	if !admin.CanPasswordLogin() {
		reRender("This account signs in with Google.")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		h.Log.Warn("login failed", zap.String("email", email))
		reRender("Invalid email or password.")
		return
	}

	if err := auth.SignIn(w, r, auth.SessionUser{
		ID:    admin.ID.Hex(),
		Name:  admin.Name,
		Email: admin.Email,
		Role:  admin.Role,
	}); err != nil {
		h.ErrLog.LogServerError(w, r, "login: create session failed", err,
			"Sign-in is unavailable right now. Please try again.", "/login")
		return
	}

	h.Limiter.ResetEmail(email)
	h.Log.Info("admin signed in", zap.String("email", email))

	if returnURL == "" {
		returnURL = "/admin/members"
	}
	http.Redirect(w, r, returnURL, http.StatusSeeOther)
}

// sanitizeReturnURL keeps redirects on-site: only rooted paths pass.
func sanitizeReturnURL(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || !strings.HasPrefix(s, "/") || strings.HasPrefix(s, "//") {
		return ""
	}
	return s
}
