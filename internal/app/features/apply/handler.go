// internal/app/features/apply/handler.go
package apply

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	uierrors "github.com/dalemusser/labsite/internal/app/features/errors"
	applicationstore "github.com/dalemusser/labsite/internal/app/store/applications"
	settingsstore "github.com/dalemusser/labsite/internal/app/store/settings"
	"github.com/dalemusser/labsite/internal/app/system/inputval"
	"github.com/dalemusser/labsite/internal/app/system/limits"
	"github.com/dalemusser/labsite/internal/app/system/mailer"
	"github.com/dalemusser/labsite/internal/app/system/ratelimit"
	"github.com/dalemusser/labsite/internal/app/system/timeouts"
	"github.com/dalemusser/labsite/internal/app/system/viewdata"
	"github.com/dalemusser/labsite/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the public "join us" application form.
type Handler struct {
	DB      *mongo.Database
	Log     *zap.Logger
	ErrLog  *uierrors.ErrorLogger
	Mailer  *mailer.Mailer
	Apps    *applicationstore.Store
	Limiter *ratelimit.Limiter

	// BaseURL builds the admin link in notification emails.
	BaseURL string
}

func NewHandler(db *mongo.Database, m *mailer.Mailer, baseURL string, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Log:     logger,
		ErrLog:  errLog,
		Mailer:  m,
		Apps:    applicationstore.New(db),
		Limiter: ratelimit.NewApplyLimiter(),
		BaseURL: strings.TrimRight(baseURL, "/"),
	}
}

// applyFormInput defines validation rules for the application form.
type applyFormInput struct {
	Name    string `validate:"required,min=2,max=100" label:"Name"`
	Email   string `validate:"required,email" label:"Email"`
	Phone   string `validate:"phone" label:"Phone"`
	Message string `validate:"max=5000" label:"Message"`
}

// applyFormVM carries the echoed form values.
type applyFormVM struct {
	viewdata.BaseVM
	Name         string
	Email        string
	School       string
	Phone        string
	Message      string
	ErrorMessage string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /apply – application form                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeForm(w http.ResponseWriter, r *http.Request) {
	vm := applyFormVM{
		BaseVM: viewdata.NewBaseVM(r, h.DB, "Join Us", "/"),
	}
	templates.Render(w, r, "apply_form", vm)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /apply – submit                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxMultipartFormSize)
	err := r.ParseMultipartForm(limits.MaxMultipartFormSize)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.ErrLog.LogBadRequest(w, r, "apply: parse form failed", err,
			"Invalid form data.", "/apply")
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.TrimSpace(r.FormValue("email"))
	school := strings.TrimSpace(r.FormValue("school"))
	phone := strings.TrimSpace(r.FormValue("phone"))
	message := strings.TrimSpace(r.FormValue("message"))

	// Helper to re-render the form with a message. Nothing is written to
	// the database on a validation failure.
	reRender := func(msg string) {
		vm := applyFormVM{
			BaseVM:       viewdata.NewBaseVM(r, h.DB, "Join Us", "/"),
			Name:         name,
			Email:        email,
			School:       school,
			Phone:        phone,
			Message:      message,
			ErrorMessage: msg,
		}
		templates.Render(w, r, "apply_form", vm)
	}

	if !h.Limiter.Allow(ratelimit.ClientIP(r)) {
		h.Log.Warn("apply: rate limited", zap.String("ip", ratelimit.ClientIP(r)))
		reRender("You have submitted several applications recently. Please wait a few minutes and try again.")
		return
	}

	input := applyFormInput{Name: name, Email: email, Phone: phone, Message: message}
	if result := inputval.Validate(input); result.HasErrors() {
		reRender(result.First())
		return
	}

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	created, err := h.Apps.Create(ctx, models.Application{
		Name:       name,
		Email:      email,
		School:     school,
		Phone:      phone,
		Message:    message,
		CV:         fileMeta(r, "cv"),
		Transcript: fileMeta(r, "transcript"),
	})
	if err != nil {
		h.ErrLog.LogDBError(w, r, "apply: create application failed", err,
			"Could not submit your application. Please try again.", "/apply")
		return
	}

	h.notify(created)

	h.Log.Info("application received",
		zap.String("application_id", created.ID.Hex()))
	http.Redirect(w, r, "/apply/thanks", http.StatusSeeOther)
}

// fileMeta records the metadata of an uploaded file. The bytes themselves
// are never stored; admins ask applicants to send documents over email.
func fileMeta(r *http.Request, field string) *models.ApplicationFile {
	if r.MultipartForm == nil {
		return nil
	}
	headers := r.MultipartForm.File[field]
	if len(headers) == 0 || headers[0].Size == 0 {
		return nil
	}
	fh := headers[0]
	return &models.ApplicationFile{
		Filename:    filepath.Base(fh.Filename),
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /apply/thanks                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeThanks(w http.ResponseWriter, r *http.Request) {
	data := struct {
		viewdata.BaseVM
	}{
		BaseVM: viewdata.NewBaseVM(r, h.DB, "Thank You", "/"),
	}
	templates.Render(w, r, "apply_thanks", data)
}

// notify sends the new-application email to the configured notification
// address. Best-effort: a mail failure never fails the submission.
func (h *Handler) notify(a models.Application) {
	ctx, cancel := timeouts.WithShort(context.Background())
	defer cancel()

	settings, err := settingsstore.New(h.DB).Get(ctx)
	if err != nil {
		h.Log.Warn("apply: load settings for notification failed", zap.Error(err))
		return
	}
	if settings.NotificationEmail == "" {
		return
	}

	data := mailer.ApplicationEmailData{
		SiteName:  settings.SiteName,
		Name:      a.Name,
		Email:     a.Email,
		School:    a.School,
		Phone:     a.Phone,
		Message:   a.Message,
		Timestamp: a.Timestamp,
		AdminURL:  h.BaseURL + "/admin/applications",
	}
	if a.HasCV() {
		data.CVName = a.CV.Filename
	}
	if a.HasTranscript() {
		data.TrName = a.Transcript.Filename
	}
	email := mailer.BuildApplicationEmail(data)
	email.To = settings.NotificationEmail

	if err := h.Mailer.Send(email); err != nil {
		h.Log.Warn("apply: notification email failed",
			zap.String("to", settings.NotificationEmail),
			zap.Error(err))
	}
}
