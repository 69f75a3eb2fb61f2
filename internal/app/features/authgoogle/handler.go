// internal/app/features/authgoogle/handler.go
package authgoogle

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/labsite/internal/app/features/errors"
	adminstore "github.com/dalemusser/labsite/internal/app/store/admins"
	"github.com/dalemusser/labsite/internal/app/store/oauthstate"
	"github.com/dalemusser/labsite/internal/app/system/auth"
	"github.com/dalemusser/labsite/internal/app/system/dberr"
	"github.com/dalemusser/labsite/internal/app/system/normalize"
	"github.com/dalemusser/labsite/internal/app/system/timeouts"
	"github.com/dalemusser/labsite/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// stateTTL bounds how long an issued OAuth state stays redeemable.
const stateTTL = 10 * time.Minute

// Handler handles Google OAuth sign-in for admins. Only existing admin
// accounts can sign in this way; there is no self-service signup.
type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	ErrLog     *uierrors.ErrorLogger
	Admins     *adminstore.Store
	StateStore *oauthstate.Store

	ClientID     string
	ClientSecret string
	RedirectURL  string // e.g. "https://lab.example.edu/auth/google/callback"
}

func NewHandler(db *mongo.Database, stateStore *oauthstate.Store, clientID, clientSecret, baseURL string, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:           db,
		Log:          logger,
		ErrLog:       errLog,
		Admins:       adminstore.New(db),
		StateStore:   stateStore,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  baseURL + "/auth/google/callback",
	}
}

// oauth2Config returns the Google OAuth2 configuration.
func (h *Handler) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.ClientID,
		ClientSecret: h.ClientSecret,
		RedirectURL:  h.RedirectURL,
		Scopes: []string{
			"openid",
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

// IsConfigured returns true if Google OAuth is configured.
func (h *Handler) IsConfigured() bool {
	return h.ClientID != "" && h.ClientSecret != ""
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/google                                                             |
| Redirects to Google's consent screen with a one-time persisted state.        |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if !h.IsConfigured() {
		h.Log.Warn("Google OAuth not configured")
		http.Redirect(w, r, "/login?error=google_not_configured", http.StatusSeeOther)
		return
	}

	state, err := generateState()
	if err != nil {
		h.Log.Error("failed to generate OAuth state", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}

	returnURL := query.Get(r, "return")

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	expiresAt := time.Now().UTC().Add(stateTTL)
	if err := h.StateStore.Save(ctx, state, returnURL, expiresAt); err != nil {
		h.Log.Error("failed to save OAuth state", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}

	url := h.oauth2Config().AuthCodeURL(state)

	h.Log.Debug("initiating Google OAuth flow",
		zap.String("return_url", returnURL))

	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/google/callback                                                    |
| Exchanges the code, fetches user info, matches an admin, creates a session.  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.Log.Warn("Google OAuth error",
			zap.String("error", errParam),
			zap.String("description", r.URL.Query().Get("error_description")))
		http.Redirect(w, r, "/login?error=google_denied", http.StatusSeeOther)
		return
	}

	state := r.URL.Query().Get("state")
	if state == "" {
		h.Log.Warn("missing OAuth state parameter")
		http.Redirect(w, r, "/login?error=invalid_state", http.StatusSeeOther)
		return
	}

	ctxShort, cancel := timeouts.WithShort(ctx)
	defer cancel()

	returnURL, valid, err := h.StateStore.Validate(ctxShort, state)
	if err != nil {
		h.Log.Error("failed to validate OAuth state", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}
	if !valid {
		h.Log.Warn("invalid or expired OAuth state")
		http.Redirect(w, r, "/login?error=invalid_state", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.Log.Warn("missing OAuth code parameter")
		http.Redirect(w, r, "/login?error=invalid_code", http.StatusSeeOther)
		return
	}

	token, err := h.oauth2Config().Exchange(ctx, code)
	if err != nil {
		h.Log.Error("failed to exchange OAuth code", zap.Error(err))
		http.Redirect(w, r, "/login?error=token_exchange", http.StatusSeeOther)
		return
	}

	googleUser, err := fetchGoogleUserInfo(ctx, token)
	if err != nil {
		h.Log.Error("failed to fetch Google user info", zap.Error(err))
		http.Redirect(w, r, "/login?error=user_info", http.StatusSeeOther)
		return
	}

	admin, err := h.findAdmin(ctxShort, googleUser)
	if err != nil {
		switch {
		case errors.Is(err, errAdminNotFound):
			h.Log.Info("Google OAuth: no admin account",
				zap.String("email", googleUser.Email))
			http.Redirect(w, r, "/login?error=no_account", http.StatusSeeOther)
		case errors.Is(err, errAdminDisabled):
			h.Log.Info("Google OAuth: admin disabled",
				zap.String("email", googleUser.Email))
			http.Redirect(w, r, "/login?error=account_disabled", http.StatusSeeOther)
		default:
			h.Log.Error("Google OAuth: admin lookup failed", zap.Error(err))
			http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		}
		return
	}

	if err := auth.SignIn(w, r, auth.SessionUser{
		ID:    admin.ID.Hex(),
		Name:  admin.Name,
		Email: admin.Email,
		Role:  admin.Role,
	}); err != nil {
		h.ErrLog.LogServerError(w, r, "authgoogle: create session failed", err,
			"Sign-in is unavailable right now. Please try again.", "/login")
		return
	}

	h.Log.Info("admin signed in via Google", zap.String("email", admin.Email))

	if returnURL == "" {
		returnURL = "/admin/members"
	}
	http.Redirect(w, r, returnURL, http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Admin lookup                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

var (
	errAdminNotFound = errors.New("admin not found")
	errAdminDisabled = errors.New("admin disabled")
)

// googleUserInfo represents user info returned from Google.
type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// fetchGoogleUserInfo retrieves user information from Google's userinfo endpoint.
func fetchGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}

	return &info, nil
}

// findAdmin matches the Google account to an admin: first by linked Google
// ID, then by verified email. An email match links the Google ID for next
// time. Unknown accounts are rejected; this flow never creates admins.
func (h *Handler) findAdmin(ctx context.Context, gu *googleUserInfo) (*models.Admin, error) {
	admin, err := h.Admins.GetByGoogleID(ctx, gu.ID)
	if err != nil && !errors.Is(err, dberr.ErrNotFound) {
		return nil, err
	}

	if admin == nil {
		if !gu.EmailVerified {
			return nil, errAdminNotFound
		}
		admin, err = h.Admins.GetByEmail(ctx, normalize.Email(gu.Email))
		if err != nil {
			if errors.Is(err, dberr.ErrNotFound) {
				return nil, errAdminNotFound
			}
			return nil, err
		}
		if err := h.Admins.LinkGoogle(ctx, admin.ID, gu.ID); err != nil {
			h.Log.Warn("authgoogle: linking Google id failed",
				zap.String("email", admin.Email), zap.Error(err))
		}
	}

	if admin.Status == "disabled" {
		return nil, errAdminDisabled
	}
	return admin, nil
}

// generateState returns a cryptographically random URL-safe state token.
func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
