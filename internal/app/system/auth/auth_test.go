package auth_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/labsite/internal/app/system/auth"
	"go.uber.org/zap"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func htmlRequest(method, target string) *http.Request {
	r := httptest.NewRequest(method, target, nil)
	r.Header.Set("Accept", "text/html")
	return r
}

func TestRequireSignedIn_NoUser_RedirectsToLogin(t *testing.T) {
	rec := httptest.NewRecorder()
	auth.RequireSignedIn(okHandler()).ServeHTTP(rec, htmlRequest(http.MethodGet, "/admin/members"))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	loc := rec.Header().Get("Location")
	if !strings.HasPrefix(loc, "/login?return=") {
		t.Errorf("Location = %q, want /login?return=...", loc)
	}
}

func TestRequireSignedIn_NoUser_API_Returns401(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/admin/members", nil)
	auth.RequireSignedIn(okHandler()).ServeHTTP(rec, r)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireSignedIn_NoUser_HTMX_ReturnsHXRedirect(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/admin/members", nil)
	r.Header.Set("HX-Request", "true")
	auth.RequireSignedIn(okHandler()).ServeHTTP(rec, r)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if hx := rec.Header().Get("HX-Redirect"); !strings.HasPrefix(hx, "/login?return=") {
		t.Errorf("HX-Redirect = %q, want /login?return=...", hx)
	}
}

func TestRequireSignedIn_WithUser_Passes(t *testing.T) {
	rec := httptest.NewRecorder()
	r := auth.WithTestUser(htmlRequest(http.MethodGet, "/admin/members"),
		&auth.SessionUser{ID: "1", Name: "Admin", Role: "admin"})
	auth.RequireSignedIn(okHandler()).ServeHTTP(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestRequireRole_NoUser_RedirectsToLogin(t *testing.T) {
	rec := httptest.NewRecorder()
	auth.RequireRole("admin")(okHandler()).ServeHTTP(rec, htmlRequest(http.MethodGet, "/admin/settings"))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
}

func TestRequireRole_WrongRole_Forbidden(t *testing.T) {
	rec := httptest.NewRecorder()
	r := auth.WithTestUser(htmlRequest(http.MethodGet, "/admin/settings"),
		&auth.SessionUser{ID: "1", Name: "Viewer", Role: "viewer"})
	auth.RequireRole("admin")(okHandler()).ServeHTTP(rec, r)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/forbidden" {
		t.Errorf("Location = %q, want /forbidden", loc)
	}
}

func TestRequireRole_WrongRole_API_Returns403(t *testing.T) {
	rec := httptest.NewRecorder()
	r := auth.WithTestUser(httptest.NewRequest(http.MethodGet, "/admin/settings", nil),
		&auth.SessionUser{ID: "1", Name: "Viewer", Role: "viewer"})
	auth.RequireRole("admin")(okHandler()).ServeHTTP(rec, r)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestRequireRole_MatchIsCaseInsensitive(t *testing.T) {
	rec := httptest.NewRecorder()
	r := auth.WithTestUser(htmlRequest(http.MethodGet, "/admin/settings"),
		&auth.SessionUser{ID: "1", Name: "Admin", Role: "Admin"})
	auth.RequireRole("admin")(okHandler()).ServeHTTP(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestInitSessionStore_EmptyKey(t *testing.T) {
	if err := auth.InitSessionStore("", "", false, zap.NewNop()); err == nil {
		t.Fatal("expected error for empty session key")
	}
}

func TestInitSessionStore_SignInRoundTrip(t *testing.T) {
	if err := auth.InitSessionStore(strings.Repeat("k", 32), "", false, zap.NewNop()); err != nil {
		t.Fatalf("InitSessionStore: %v", err)
	}

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/login", nil)
	if err := auth.SignIn(rec, r, auth.SessionUser{ID: "1", Name: "Admin", Email: "a@b.co", Role: "admin"}); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("SignIn set no cookies")
	}

	// Replay the cookie through the middleware and observe the context user.
	r2 := httptest.NewRequest(http.MethodGet, "/admin/members", nil)
	for _, c := range cookies {
		r2.AddCookie(c)
	}
	var got *auth.SessionUser
	auth.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	})).ServeHTTP(httptest.NewRecorder(), r2)

	if got == nil {
		t.Fatal("no user in context after LoadSessionUser")
	}
	if got.Email != "a@b.co" || got.Role != "admin" {
		t.Errorf("user = %+v", got)
	}
}
