// internal/app/features/publications/public.go
package publications

import (
	"net/http"

	"github.com/dalemusser/labsite/internal/app/media"
	"github.com/dalemusser/labsite/internal/app/system/normalize"
	"github.com/dalemusser/labsite/internal/app/system/timeouts"
	"github.com/dalemusser/labsite/internal/app/system/viewdata"
	"github.com/dalemusser/labsite/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
)

// listEntry is one publication row on the public list, with the cover
// image resolved through the media backend.
type listEntry struct {
	models.Publication
	CoverURL string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /publications – public list, optional ?type= filter                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServePublicList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	typeFilter := normalize.QueryParam(r.URL.Query().Get("type"))
	if !models.IsValidPublicationType(typeFilter) {
		typeFilter = ""
	}

	var (
		list []models.Publication
		err  error
	)
	if typeFilter != "" {
		list, err = h.Pubs.ListByType(ctx, typeFilter)
	} else {
		list, err = h.Pubs.List(ctx)
	}
	if err != nil {
		h.ErrLog.LogDBError(w, r, "publications: list failed", err,
			"Could not load publications.", "/")
		return
	}

	entries := make([]listEntry, 0, len(list))
	for i := range list {
		p := list[i]
		ref := media.ImageRef{ID: p.ImageRef, URL: p.ImageURL}
		entries = append(entries, listEntry{
			Publication: p,
			CoverURL:    h.Media.Resolve(ref, media.Thumbnail),
		})
	}

	data := struct {
		viewdata.BaseVM
		Publications []listEntry
		Types        []string
		ActiveType   string
	}{
		BaseVM:       viewdata.NewBaseVM(r, h.DB, "Publications", "/"),
		Publications: entries,
		Types:        models.PublicationTypes,
		ActiveType:   typeFilter,
	}

	templates.Render(w, r, "publications_list", data)
}
