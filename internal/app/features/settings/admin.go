// internal/app/features/settings/admin.go
package settings

import (
	"net/http"
	"strings"

	settingsstore "github.com/dalemusser/labsite/internal/app/store/settings"
	"github.com/dalemusser/labsite/internal/app/system/inputval"
	"github.com/dalemusser/labsite/internal/app/system/limits"
	"github.com/dalemusser/labsite/internal/app/system/timeouts"
	"github.com/dalemusser/labsite/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// settingsFormInput defines validation rules for the settings form.
type settingsFormInput struct {
	SiteName          string `validate:"max=100" label:"Site name"`
	ContactEmail      string `validate:"email" label:"Contact email"`
	NotificationEmail string `validate:"email" label:"Notification email"`
}

type settingsVM struct {
	viewdata.BaseVM
	FormSiteName      string
	FormContactEmail  string
	NotificationEmail string
	Saved             bool
	ErrorMessage      string
}

// ServeSettings displays the settings form.
func (h *Handler) ServeSettings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	settings, err := h.Settings.Get(ctx)
	if err != nil {
		h.ErrLog.LogDBError(w, r, "settings admin: load failed", err,
			"Could not load site settings.", "/admin/members")
		return
	}

	vm := settingsVM{
		BaseVM:            viewdata.NewBaseVM(r, h.DB, "Site Settings", "/admin/members"),
		FormSiteName:      settings.SiteName,
		FormContactEmail:  settings.ContactEmail,
		NotificationEmail: settings.NotificationEmail,
		Saved:             r.URL.Query().Get("saved") == "1",
	}
	templates.Render(w, r, "admin_settings_form", vm)
}

// HandleSettings processes the settings form. The form always submits all
// three fields, so every one is written, and a field cleared in the form
// clears the stored value.
func (h *Handler) HandleSettings(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxFormSize)
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "settings admin: parse form failed", err,
			"Invalid form data.", "/admin/settings")
		return
	}

	siteName := strings.TrimSpace(r.FormValue("site_name"))
	contactEmail := strings.TrimSpace(r.FormValue("contact_email"))
	notificationEmail := strings.TrimSpace(r.FormValue("notification_email"))

	reRender := func(msg string) {
		vm := settingsVM{
			BaseVM:            viewdata.NewBaseVM(r, h.DB, "Site Settings", "/admin/members"),
			FormSiteName:      siteName,
			FormContactEmail:  contactEmail,
			NotificationEmail: notificationEmail,
			ErrorMessage:      msg,
		}
		templates.Render(w, r, "admin_settings_form", vm)
	}

	input := settingsFormInput{
		SiteName:          siteName,
		ContactEmail:      contactEmail,
		NotificationEmail: notificationEmail,
	}
	if result := inputval.Validate(input); result.HasErrors() {
		reRender(result.First())
		return
	}

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	err := h.Settings.Save(ctx, settingsstore.Patch{
		SiteName:          &siteName,
		ContactEmail:      &contactEmail,
		NotificationEmail: &notificationEmail,
	})
	if err != nil {
		h.ErrLog.LogDBError(w, r, "settings admin: save failed", err,
			"Could not save site settings.", "/admin/settings")
		return
	}

	h.Log.Info("site settings saved", zap.String("site_name", siteName))
	http.Redirect(w, r, "/admin/settings?saved=1", http.StatusSeeOther)
}
