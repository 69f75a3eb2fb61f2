// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"context"
	"net/http"

	settingsstore "github.com/dalemusser/labsite/internal/app/store/settings"
	"github.com/dalemusser/labsite/internal/app/system/auth"
	"github.com/dalemusser/labsite/internal/app/system/timeouts"
	"github.com/dalemusser/labsite/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"
	"go.mongodb.org/mongo-driver/mongo"
)

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
// Usage:
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
//
//	data := myPageData{
//	    BaseVM: viewdata.NewBaseVM(r, db, "Page Title", "/default-back"),
//	    // page-specific fields...
//	}
type BaseVM struct {
	// Site settings (from database)
	SiteName     string
	ContactEmail string

	// User context (from auth middleware)
	IsLoggedIn bool
	Role       string
	UserName   string

	// Page context
	Title       string
	BackURL     string
	CurrentPath string

	// CSRF protection
	CSRFToken string // Token for form submission
}

// NewBaseVM creates a fully populated BaseVM for a page.
// This is the preferred way to create a BaseVM for embedding in view models.
//
// Parameters:
//   - r: the HTTP request
//   - db: database for loading site settings (can be nil for defaults)
//   - title: the page title
//   - backDefault: default URL for the back button if none in request
func NewBaseVM(r *http.Request, db *mongo.Database, title, backDefault string) BaseVM {
	vm := BaseVM{
		SiteName:    models.DefaultSiteName,
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
		CSRFToken:   csrf.Token(r),
	}

	if u, ok := auth.CurrentUser(r); ok {
		vm.IsLoggedIn = true
		vm.Role = u.Role
		vm.UserName = u.Name
	}

	if db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()

		settings, err := settingsstore.New(db).Get(ctx)
		if err == nil {
			if settings.SiteName != "" {
				vm.SiteName = settings.SiteName
			}
			vm.ContactEmail = settings.ContactEmail
		}
	}

	return vm
}

// GetSiteName returns the site name from settings, or the default if not available.
func GetSiteName(ctx context.Context, db *mongo.Database) string {
	if db == nil {
		return models.DefaultSiteName
	}
	settings, err := settingsstore.New(db).Get(ctx)
	if err != nil || settings.SiteName == "" {
		return models.DefaultSiteName
	}
	return settings.SiteName
}

// GetSettings returns the full site settings, or defaults if not available.
func GetSettings(ctx context.Context, db *mongo.Database) models.SiteSettings {
	if db == nil {
		return models.SiteSettings{SiteName: models.DefaultSiteName}
	}
	settings, err := settingsstore.New(db).Get(ctx)
	if err != nil {
		return models.SiteSettings{SiteName: models.DefaultSiteName}
	}
	return settings
}
