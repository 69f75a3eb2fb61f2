// internal/app/features/members/templates.go
package members

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

// The set covers both the public roster/profile pages and the admin
// member management screens.
//
//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "members",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
