// internal/app/features/applications/handler.go
package applications

import (
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/labsite/internal/app/features/errors"
	applicationstore "github.com/dalemusser/labsite/internal/app/store/applications"
	"github.com/dalemusser/labsite/internal/app/system/dberr"
	"github.com/dalemusser/labsite/internal/app/system/normalize"
	"github.com/dalemusser/labsite/internal/app/system/timeouts"
	"github.com/dalemusser/labsite/internal/app/system/viewdata"
	"github.com/dalemusser/labsite/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the admin screens for job applications.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
	Apps   *applicationstore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Log:    logger,
		ErrLog: errLog,
		Apps:   applicationstore.New(db),
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/applications – list, optional ?status= filter                    |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeAdminList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	status := normalize.Status(r.URL.Query().Get("status"))
	if status != models.ApplicationPending && status != models.ApplicationContacted {
		status = ""
	}

	list, err := h.Apps.List(ctx, status)
	if err != nil {
		h.ErrLog.LogDBError(w, r, "applications admin: list failed", err,
			"Could not load applications.", "/admin/applications")
		return
	}

	pending, err := h.Apps.CountPending(ctx)
	if err != nil {
		h.Log.Warn("applications admin: count pending failed", zap.Error(err))
	}

	data := struct {
		viewdata.BaseVM
		Applications []models.Application
		ActiveStatus string
		PendingCount int64
	}{
		BaseVM:       viewdata.NewBaseVM(r, h.DB, "Applications", "/admin/applications"),
		Applications: list,
		ActiveStatus: status,
		PendingCount: pending,
	}

	templates.Render(w, r, "admin_applications_list", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/applications/{id}/contacted                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleMarkContacted(w http.ResponseWriter, r *http.Request) {
	id, ok := h.applicationID(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	if err := h.Apps.MarkContacted(ctx, id); err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			h.ErrLog.LogNotFound(w, r, "applications admin: mark-contacted target missing", err,
				"That application does not exist.", "/admin/applications")
			return
		}
		h.ErrLog.LogDBError(w, r, "applications admin: mark contacted failed", err,
			"Could not update the application.", "/admin/applications")
		return
	}

	h.Log.Info("application marked contacted", zap.String("application_id", id.Hex()))
	http.Redirect(w, r, "/admin/applications", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/applications/{id}/delete                                        |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.applicationID(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	if _, err := h.Apps.Delete(ctx, id); err != nil {
		h.ErrLog.LogDBError(w, r, "applications admin: delete failed", err,
			"Could not delete the application.", "/admin/applications")
		return
	}

	h.Log.Info("application deleted", zap.String("application_id", id.Hex()))
	http.Redirect(w, r, "/admin/applications", http.StatusSeeOther)
}

func (h *Handler) applicationID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "applications admin: bad application id", err,
			"Bad application id.", "/admin/applications")
		return primitive.NilObjectID, false
	}
	return id, true
}
