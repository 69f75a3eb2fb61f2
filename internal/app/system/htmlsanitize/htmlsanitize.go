// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize strips unsafe HTML from admin-entered rich text
// (member bios, publication abstracts) before it is stored.
package htmlsanitize

import (
	"html/template"

	"github.com/microcosm-cc/bluemonday"
)

// policy allows the usual user-generated-content tags plus tables.
// Built once; bluemonday policies are safe for concurrent use.
var policy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowTables()
	p.AllowAttrs("colspan", "rowspan").OnElements("td", "th")
	return p
}()

// Sanitize returns s with disallowed tags and attributes removed.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return policy.Sanitize(s)
}

// SanitizeHTML sanitizes and marks the result safe for template rendering.
func SanitizeHTML(s string) template.HTML {
	return template.HTML(Sanitize(s))
}
