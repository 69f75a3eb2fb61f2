package apply_test

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	uierrors "github.com/dalemusser/labsite/internal/app/features/errors"
	"github.com/dalemusser/labsite/internal/app/features/apply"
	applicationstore "github.com/dalemusser/labsite/internal/app/store/applications"
	"github.com/dalemusser/labsite/internal/app/system/mailer"
	"github.com/dalemusser/labsite/internal/domain/models"
	"github.com/dalemusser/labsite/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*apply.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	m := mailer.New(mailer.Config{}, logger) // no host: sends become no-ops
	h := apply.NewHandler(db, m, "https://example.com", uierrors.NewErrorLogger(logger), logger)
	return h, testutil.NewFixtures(t, db)
}

func render(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			// Template rendering may panic in tests - that's expected
		}
	}()
	fn()
}

func TestHandleSubmit_Valid(t *testing.T) {
	h, f := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	form := url.Values{}
	form.Set("name", "Jane Smith")
	form.Set("email", "jane@example.com")
	form.Set("school", "State University")
	form.Set("message", "I would like to join the group.")

	req := httptest.NewRequest("POST", "/apply", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.HandleSubmit(rec, req)

	if rec.Code != 303 {
		t.Fatalf("HandleSubmit status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/apply/thanks" {
		t.Fatalf("redirect location = %q, want /apply/thanks", loc)
	}

	list, err := applicationstore.New(f.DB()).List(ctx, "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("List() returned %d applications, want 1", len(list))
	}
	a := list[0]
	if a.Status != models.ApplicationPending {
		t.Errorf("Status = %q, want %q", a.Status, models.ApplicationPending)
	}
	if a.Source != models.ApplicationSource {
		t.Errorf("Source = %q, want %q", a.Source, models.ApplicationSource)
	}
	if a.Timestamp.IsZero() {
		t.Error("Timestamp not assigned")
	}
}

func TestHandleSubmit_InvalidEmailWritesNothing(t *testing.T) {
	h, f := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	form := url.Values{}
	form.Set("name", "Al")
	form.Set("email", "bad-email")
	form.Set("message", "Hello.")

	req := httptest.NewRequest("POST", "/apply", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	render(func() { h.HandleSubmit(rec, req) })

	list, err := applicationstore.New(f.DB()).List(ctx, "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("List() returned %d applications after rejected submit, want 0", len(list))
	}
}

func TestHandleSubmit_NoMessageStillAccepted(t *testing.T) {
	h, f := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	form := url.Values{}
	form.Set("name", "Jane Smith")
	form.Set("email", "jane@example.com")

	req := httptest.NewRequest("POST", "/apply", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.HandleSubmit(rec, req)

	if rec.Code != 303 {
		t.Fatalf("HandleSubmit status = %d, want 303", rec.Code)
	}

	list, err := applicationstore.New(f.DB()).List(ctx, "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("List() returned %d applications, want 1", len(list))
	}
	if list[0].Message != "" {
		t.Errorf("Message = %q, want empty", list[0].Message)
	}
}

func TestHandleSubmit_RecordsAttachmentMetadata(t *testing.T) {
	h, f := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	_ = mw.WriteField("name", "Jane Smith")
	_ = mw.WriteField("email", "jane@example.com")
	_ = mw.WriteField("message", "CV attached.")
	fw, err := mw.CreateFormFile("cv", "jane-smith-cv.pdf")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	cvBytes := []byte("%PDF-1.4 fake cv body")
	_, _ = fw.Write(cvBytes)
	_ = mw.Close()

	req := httptest.NewRequest("POST", "/apply", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.HandleSubmit(rec, req)

	if rec.Code != 303 {
		t.Fatalf("HandleSubmit status = %d, want 303", rec.Code)
	}

	list, err := applicationstore.New(f.DB()).List(ctx, "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("List() returned %d applications, want 1", len(list))
	}
	a := list[0]
	if a.CV == nil {
		t.Fatal("CV metadata not recorded")
	}
	if a.CV.Filename != "jane-smith-cv.pdf" {
		t.Errorf("CV.Filename = %q", a.CV.Filename)
	}
	if a.CV.Size != int64(len(cvBytes)) {
		t.Errorf("CV.Size = %d, want %d", a.CV.Size, len(cvBytes))
	}
	if a.Transcript != nil {
		t.Error("Transcript recorded without an upload")
	}
}

func TestHandleSubmit_RateLimited(t *testing.T) {
	h, f := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	form := url.Values{}
	form.Set("name", "Jane Smith")
	form.Set("email", "jane@example.com")
	form.Set("message", "I would like to join the group.")

	submit := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/apply", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.RemoteAddr = "203.0.113.9:4444"
		rec := httptest.NewRecorder()
		render(func() { h.HandleSubmit(rec, req) })
		return rec
	}

	// The apply limiter allows 5 submissions per IP per window.
	for i := 0; i < 5; i++ {
		if rec := submit(); rec.Code != 303 {
			t.Fatalf("submission %d status = %d, want 303", i+1, rec.Code)
		}
	}

	if rec := submit(); rec.Code == 303 {
		t.Fatal("sixth submission was not rate limited")
	}

	list, err := applicationstore.New(f.DB()).List(ctx, "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 5 {
		t.Fatalf("List() returned %d applications, want 5", len(list))
	}
}

func TestHandleSubmit_ShortNameWritesNothing(t *testing.T) {
	h, f := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	form := url.Values{}
	form.Set("name", "A")
	form.Set("email", "a@example.com")
	form.Set("message", "Hello.")

	req := httptest.NewRequest("POST", "/apply", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	render(func() { h.HandleSubmit(rec, req) })

	n, err := applicationstore.New(f.DB()).CountPending(ctx)
	if err != nil {
		t.Fatalf("CountPending() error = %v", err)
	}
	if n != 0 {
		t.Fatalf("CountPending() = %d after rejected submit, want 0", n)
	}
}
