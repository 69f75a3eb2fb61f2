package mailer

import (
	"strings"
	"testing"
	"time"
)

func TestBuildApplicationEmail(t *testing.T) {
	e := BuildApplicationEmail(ApplicationEmailData{
		SiteName:  "Distributed Systems Lab",
		Name:      "Jane Doe",
		Email:     "jane@example.com",
		School:    "State University",
		Phone:     "+1 (555) 123-4567",
		Message:   "I would like to join the group.",
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		AdminURL:  "https://lab.example.com/admin/applications",
	})

	if !strings.Contains(e.Subject, "Jane Doe") {
		t.Errorf("subject missing applicant name: %q", e.Subject)
	}
	for _, want := range []string{"jane@example.com", "State University", "I would like to join"} {
		if !strings.Contains(e.TextBody, want) {
			t.Errorf("text body missing %q", want)
		}
		if !strings.Contains(e.HTMLBody, want) {
			t.Errorf("html body missing %q", want)
		}
	}
	if !strings.Contains(e.TextBody, "https://lab.example.com/admin/applications") {
		t.Error("text body missing admin link")
	}
}

func TestBuildApplicationEmail_OptionalFieldsOmitted(t *testing.T) {
	e := BuildApplicationEmail(ApplicationEmailData{
		SiteName: "Lab",
		Name:     "Jane",
		Email:    "jane@example.com",
		Message:  "Hello",
	})
	if strings.Contains(e.TextBody, "School:") || strings.Contains(e.TextBody, "Phone:") {
		t.Errorf("optional fields should be omitted when empty:\n%s", e.TextBody)
	}
}

func TestBuildApplicationEmail_NamesAttachments(t *testing.T) {
	e := BuildApplicationEmail(ApplicationEmailData{
		SiteName: "Lab",
		Name:     "Jane",
		Email:    "jane@example.com",
		CVName:   "jane-cv.pdf",
		TrName:   "transcript.pdf",
	})
	for _, want := range []string{"jane-cv.pdf", "transcript.pdf"} {
		if !strings.Contains(e.TextBody, want) {
			t.Errorf("text body missing %q", want)
		}
		if !strings.Contains(e.HTMLBody, want) {
			t.Errorf("html body missing %q", want)
		}
	}
}

func TestMailerDisabledDropsSilently(t *testing.T) {
	m := New(Config{}, nil)
	if m.Enabled() {
		t.Fatal("mailer with no host should be disabled")
	}
	if err := m.Send(Email{To: "x@y.z", Subject: "s", TextBody: "b"}); err != nil {
		t.Fatalf("disabled mailer should no-op, got %v", err)
	}
}

func TestEnvelopeFrom(t *testing.T) {
	cases := map[string]string{
		"Lab <no-reply@example.com>": "no-reply@example.com",
		"no-reply@example.com":       "no-reply@example.com",
		"  bare@example.com  ":       "bare@example.com",
	}
	for in, want := range cases {
		if got := envelopeFrom(in); got != want {
			t.Errorf("envelopeFrom(%q) = %q, want %q", in, got, want)
		}
	}
}
