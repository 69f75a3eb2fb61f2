package logout_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/labsite/internal/app/features/logout"
	"github.com/dalemusser/labsite/internal/app/system/auth"
	"go.uber.org/zap"
)

func TestServeLogout_Redirects(t *testing.T) {
	logger := zap.NewNop()
	if err := auth.InitSessionStore("0123456789abcdef0123456789abcdef", "", false, logger); err != nil {
		t.Fatalf("InitSessionStore() error = %v", err)
	}
	h := logout.NewHandler(logger)

	req := httptest.NewRequest("GET", "/logout", nil)
	rec := httptest.NewRecorder()
	h.ServeLogout(rec, req)

	if rec.Code != 303 {
		t.Fatalf("ServeLogout status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Fatalf("redirect location = %q, want /", loc)
	}
}

func TestServeLogout_HTMX(t *testing.T) {
	logger := zap.NewNop()
	if err := auth.InitSessionStore("0123456789abcdef0123456789abcdef", "", false, logger); err != nil {
		t.Fatalf("InitSessionStore() error = %v", err)
	}
	h := logout.NewHandler(logger)

	req := httptest.NewRequest("GET", "/logout", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	h.ServeLogout(rec, req)

	if rec.Code != 200 {
		t.Fatalf("ServeLogout status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("HX-Redirect"); got != "/" {
		t.Fatalf("HX-Redirect = %q, want /", got)
	}
}
