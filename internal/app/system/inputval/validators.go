// internal/app/system/inputval/validators.go
package inputval

import (
	"net/url"
	"strconv"
	"strings"
)

// IsValidEmail checks basic RFC 5322 shape: one @, a non-empty local part
// with no leading/trailing/consecutive dots, a domain containing at least
// one dot, and no whitespace anywhere. Display-name forms like
// "Name <a@b.c>" are rejected.
func IsValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" || strings.ContainsAny(email, " \t<>") {
		return false
	}
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || domain == "" {
		return false
	}
	if strings.Contains(domain, "@") {
		return false
	}
	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") ||
		strings.Contains(local, "..") {
		return false
	}
	if strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") ||
		strings.Contains(domain, "..") {
		return false
	}
	return strings.Contains(domain, ".")
}

// IsValidPhone accepts digits, whitespace, and the separators + - ( ).
// The empty string is not a valid phone; callers treat phone as optional
// by tagging it without "required".
func IsValidPhone(phone string) bool {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return false
	}
	for _, r := range phone {
		switch {
		case r >= '0' && r <= '9':
		case r == ' ' || r == '\t':
		case r == '+' || r == '-' || r == '(' || r == ')':
		default:
			return false
		}
	}
	return true
}

// IsValidHTTPURL checks for an absolute http(s) URL with a host.
func IsValidHTTPURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != "" && !strings.ContainsAny(raw, " \t")
}

// IsValidObjectID checks for a 24-character hex string.
func IsValidObjectID(id string) bool {
	id = strings.TrimSpace(id)
	if len(id) != 24 {
		return false
	}
	for _, r := range id {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// publicationTypes mirrors models.PublicationTypes; duplicated here to keep
// this package dependency-free for use from any layer.
var publicationTypes = map[string]bool{
	"Q1": true, "Q2": true, "Q3": true, "Q4": true,
	"Conference A": true, "Conference B": true, "Conference C": true,
	"Book Chapter": true, "Patent": true,
}

// IsValidPublicationType reports whether t is a known venue grade.
func IsValidPublicationType(t string) bool {
	return publicationTypes[strings.TrimSpace(t)]
}

// IsValidYear accepts a four-digit year between 1900 and 2100.
func IsValidYear(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) != 4 {
		return false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return false
	}
	return n >= 1900 && n <= 2100
}
