// internal/app/system/mailer/mailer.go
package mailer

import (
	"fmt"
	"mime"
	"net/smtp"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Email is one outbound message. TextBody is required; HTMLBody is optional
// and sent as a multipart alternative when present.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Config holds SMTP connection settings.
type Config struct {
	Host     string // e.g. "smtp.example.com"
	Port     int    // e.g. 587
	Username string
	Password string
	From     string // e.g. "Lab Website <no-reply@example.com>"
}

// Mailer sends email over SMTP. A nil Mailer (or one with no Host) drops
// messages with a log line instead of failing the request; notification
// email is best-effort by design of the application flow.
type Mailer struct {
	cfg Config
	log *zap.Logger
}

// New creates a Mailer. Host may be empty; Send then becomes a logged no-op.
func New(cfg Config, logger *zap.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: logger}
}

// Enabled reports whether SMTP is configured.
func (m *Mailer) Enabled() bool {
	return m != nil && m.cfg.Host != ""
}

// Send delivers one message. Callers treat errors as non-fatal and log them.
func (m *Mailer) Send(e Email) error {
	if !m.Enabled() {
		if m != nil && m.log != nil {
			m.log.Info("mailer disabled; dropping email",
				zap.String("to", e.To),
				zap.String("subject", e.Subject))
		}
		return nil
	}
	if e.To == "" {
		return fmt.Errorf("email has no recipient")
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	msg := m.buildMessage(e)
	if err := smtp.SendMail(addr, auth, envelopeFrom(m.cfg.From), []string{e.To}, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", e.To, err)
	}
	return nil
}

func (m *Mailer) buildMessage(e Email) []byte {
	var b strings.Builder
	b.WriteString("From: " + m.cfg.From + "\r\n")
	b.WriteString("To: " + e.To + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", e.Subject) + "\r\n")
	b.WriteString("Date: " + time.Now().UTC().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")

	if e.HTMLBody == "" {
		b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		b.WriteString(e.TextBody)
		return []byte(b.String())
	}

	const boundary = "labsite-alt-boundary"
	b.WriteString("Content-Type: multipart/alternative; boundary=" + boundary + "\r\n\r\n")

	b.WriteString("--" + boundary + "\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(e.TextBody + "\r\n")

	b.WriteString("--" + boundary + "\r\n")
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	b.WriteString(e.HTMLBody + "\r\n")

	b.WriteString("--" + boundary + "--\r\n")
	return []byte(b.String())
}

// envelopeFrom extracts the bare address from "Name <addr>" forms.
func envelopeFrom(from string) string {
	if i := strings.Index(from, "<"); i >= 0 {
		if j := strings.Index(from[i:], ">"); j > 0 {
			return from[i+1 : i+j]
		}
	}
	return strings.TrimSpace(from)
}
