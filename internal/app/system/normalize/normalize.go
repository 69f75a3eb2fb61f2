// internal/app/system/normalize/normalize.go
package normalize

// Canonical forms for values that get stored or compared. Every store
// normalizes on the way in so lookups never depend on how a form was typed.

import "strings"

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace; case is preserved for display.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Status lowercases and trims a status value ("pending", "contacted", ...).
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Role lowercases and trims a role value.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QueryParam trims a free-text query parameter; case is preserved.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// Phone trims and collapses internal whitespace runs to single spaces.
func Phone(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Lines splits textarea input into one trimmed entry per line, dropping
// blanks. Used for the list-valued member fields (research interests,
// education, achievements).
func Lines(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	raw := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(raw))
	for _, line := range raw {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
