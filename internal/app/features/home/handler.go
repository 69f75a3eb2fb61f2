package home

import (
	"net/http"

	memberstore "github.com/dalemusser/labsite/internal/app/store/members"
	publicationstore "github.com/dalemusser/labsite/internal/app/store/publications"
	"github.com/dalemusser/labsite/internal/app/system/timeouts"
	"github.com/dalemusser/labsite/internal/app/system/viewdata"
	"github.com/dalemusser/labsite/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler holds dependencies needed to serve the home page.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:  db,
		Log: logger,
	}
}

// recentPublicationCount caps the landing-page publication strip.
const recentPublicationCount = 5

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – landing                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	// Best-effort recent publications; the landing page still renders
	// if this read fails.
	var recent []models.Publication
	pubs, err := publicationstore.New(h.DB).List(ctx)
	if err != nil {
		h.Log.Warn("home: load recent publications failed", zap.Error(err))
	} else {
		if len(pubs) > recentPublicationCount {
			pubs = pubs[:recentPublicationCount]
		}
		recent = pubs
	}

	memberCount, err := memberstore.New(h.DB).Count(ctx)
	if err != nil {
		h.Log.Warn("home: count members failed", zap.Error(err))
	}

	data := struct {
		viewdata.BaseVM
		RecentPublications []models.Publication
		MemberCount        int64
	}{
		BaseVM:             viewdata.NewBaseVM(r, h.DB, "Welcome", "/"),
		RecentPublications: recent,
		MemberCount:        memberCount,
	}

	templates.Render(w, r, "home", data)
}
