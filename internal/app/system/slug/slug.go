// internal/app/system/slug/slug.go
package slug

import "strings"

// Make derives a URL slug from a display name: lowercase, drop everything
// outside [a-z0-9 -], spaces to hyphens, collapse runs of hyphens.
//
// Make is pure and idempotent: Make(Make(s)) == Make(s). It is the join key
// between members and publication author lists, so the exact mapping here
// is load-bearing; changing it silently orphans existing publications.
func Make(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ', r == '-':
			b.WriteRune(r)
		}
	}
	s = b.String()

	s = strings.ReplaceAll(s, " ", "-")
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return strings.Trim(s, "-")
}

// ForMember returns the slug used for a member: the nickname when present,
// otherwise the full name.
func ForMember(name, nickname string) string {
	if strings.TrimSpace(nickname) != "" {
		return Make(nickname)
	}
	return Make(name)
}
