// internal/app/features/publications/admin.go
package publications

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/labsite/internal/app/media"
	"github.com/dalemusser/labsite/internal/app/system/dberr"
	"github.com/dalemusser/labsite/internal/app/system/htmlsanitize"
	"github.com/dalemusser/labsite/internal/app/system/inputval"
	"github.com/dalemusser/labsite/internal/app/system/limits"
	"github.com/dalemusser/labsite/internal/app/system/timeouts"
	"github.com/dalemusser/labsite/internal/app/system/viewdata"
	"github.com/dalemusser/labsite/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Years accepted by the publication form.
const (
	minPubYear = 1900
	maxPubYear = 2100
)

// pubFormInput defines validation rules for the publication form.
type pubFormInput struct {
	Title string `validate:"required,max=300" label:"Title"`
	Year  string `validate:"required" label:"Year"`
}

// authorOption is one roster member offered on the author checklist.
type authorOption struct {
	Name     string
	Slug     string
	Selected bool
}

// pubFormVM carries the echoed form values for new/edit.
type pubFormVM struct {
	viewdata.BaseVM
	Editing       bool
	PubID         string
	PubTitle      string
	Authors       string
	Journal       string
	PubType       string
	Year          string
	URL           string
	DOI           string
	Abstract      string
	Citations     string
	ImpactFactor  string
	CoverURL      string
	Types         []string
	AuthorOptions []authorOption
	ErrorMessage  string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/publications – admin list                                        |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeAdminList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	list, err := h.Pubs.List(ctx)
	if err != nil {
		h.ErrLog.LogDBError(w, r, "publications admin: list failed", err,
			"Could not load publications.", "/admin/publications")
		return
	}

	data := struct {
		viewdata.BaseVM
		Publications []models.Publication
	}{
		BaseVM:       viewdata.NewBaseVM(r, h.DB, "Manage Publications", "/admin/publications"),
		Publications: list,
	}

	templates.Render(w, r, "admin_publications_list", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/publications/new + POST /admin/publications                      |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	vm := pubFormVM{
		BaseVM:        viewdata.NewBaseVM(r, h.DB, "New Publication", "/admin/publications"),
		Types:         models.PublicationTypes,
		AuthorOptions: h.authorOptions(ctx, nil),
	}
	templates.Render(w, r, "admin_publication_form", vm)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(limits.MaxMultipartFormSize); err != nil {
		h.ErrLog.LogBadRequest(w, r, "publications admin: parse form failed", err,
			"Invalid form data.", "/admin/publications")
		return
	}

	ctx, cancel := timeouts.WithLong(r.Context())
	defer cancel()

	form, slugs := h.readPubForm(r)

	reRender := func(msg string) {
		vm := form
		vm.BaseVM = viewdata.NewBaseVM(r, h.DB, "New Publication", "/admin/publications")
		vm.Types = models.PublicationTypes
		vm.AuthorOptions = h.authorOptions(ctx, slugs)
		vm.ErrorMessage = msg
		templates.Render(w, r, "admin_publication_form", vm)
	}

	p, msg := publicationFromForm(form, slugs)
	if msg != "" {
		reRender(msg)
		return
	}

	cover, err := h.coverFromForm(ctx, r)
	if err != nil {
		reRender(uploadMessage(err))
		return
	}
	p.ImageRef = cover.ID
	p.ImageURL = cover.URL

	created, err := h.Pubs.Create(ctx, p)
	if err != nil {
		// The row never landed, so the freshly uploaded cover is orphaned;
		// remove it best-effort.
		if !cover.IsZero() {
			if rmErr := h.Media.Remove(ctx, cover); rmErr != nil {
				h.Log.Warn("publications admin: orphan cover cleanup failed",
					zap.String("ref", cover.ID), zap.Error(rmErr))
			}
		}
		h.ErrLog.LogDBError(w, r, "publications admin: create failed", err,
			"Could not create the publication.", "/admin/publications")
		return
	}

	h.Log.Info("publication created",
		zap.String("publication_id", created.ID.Hex()),
		zap.Int("year", created.Year))
	http.Redirect(w, r, "/admin/publications", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET/POST /admin/publications/{id}/edit                                      |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pubID(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	p, err := h.Pubs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			h.ErrLog.LogNotFound(w, r, "publications admin: edit target missing", err,
				"That publication does not exist.", "/admin/publications")
			return
		}
		h.ErrLog.LogDBError(w, r, "publications admin: load failed", err,
			"Could not load the publication.", "/admin/publications")
		return
	}

	vm := pubFormVM{
		BaseVM:        viewdata.NewBaseVM(r, h.DB, "Edit Publication", "/admin/publications"),
		Editing:       true,
		PubID:         p.ID.Hex(),
		PubTitle:      p.Title,
		Authors:       p.Authors,
		Journal:       p.Journal,
		PubType:       p.Type,
		Year:          strconv.Itoa(p.Year),
		URL:           p.URL,
		DOI:           p.DOI,
		Abstract:      p.Abstract,
		Types:         models.PublicationTypes,
		AuthorOptions: h.authorOptions(ctx, p.AuthorSlugs),
	}
	if p.Citations > 0 {
		vm.Citations = strconv.Itoa(p.Citations)
	}
	if p.ImpactFactor > 0 {
		vm.ImpactFactor = strconv.FormatFloat(p.ImpactFactor, 'f', -1, 64)
	}
	if p.HasImage() {
		vm.CoverURL = h.Media.Resolve(media.ImageRef{ID: p.ImageRef, URL: p.ImageURL}, media.Thumbnail)
	}
	templates.Render(w, r, "admin_publication_form", vm)
}

func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pubID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(limits.MaxMultipartFormSize); err != nil {
		h.ErrLog.LogBadRequest(w, r, "publications admin: parse form failed", err,
			"Invalid form data.", "/admin/publications")
		return
	}

	ctx, cancel := timeouts.WithLong(r.Context())
	defer cancel()

	form, slugs := h.readPubForm(r)
	form.Editing = true
	form.PubID = id.Hex()

	reRender := func(msg string) {
		vm := form
		vm.BaseVM = viewdata.NewBaseVM(r, h.DB, "Edit Publication", "/admin/publications")
		vm.Types = models.PublicationTypes
		vm.AuthorOptions = h.authorOptions(ctx, slugs)
		vm.ErrorMessage = msg
		templates.Render(w, r, "admin_publication_form", vm)
	}

	mut, msg := publicationFromForm(form, slugs)
	if msg != "" {
		reRender(msg)
		return
	}

	cur, err := h.Pubs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			h.ErrLog.LogNotFound(w, r, "publications admin: edit target missing", err,
				"That publication does not exist.", "/admin/publications")
			return
		}
		h.ErrLog.LogDBError(w, r, "publications admin: load failed", err,
			"Could not load the publication.", "/admin/publications")
		return
	}

	cover, err := h.coverFromForm(ctx, r)
	if err != nil {
		reRender(uploadMessage(err))
		return
	}
	mut.ImageRef = cover.ID
	mut.ImageURL = cover.URL

	if err := h.Pubs.Update(ctx, id, mut); err != nil {
		if !cover.IsZero() {
			if rmErr := h.Media.Remove(ctx, cover); rmErr != nil {
				h.Log.Warn("publications admin: orphan cover cleanup failed",
					zap.String("ref", cover.ID), zap.Error(rmErr))
			}
		}
		h.ErrLog.LogDBError(w, r, "publications admin: update failed", err,
			"Could not update the publication.", "/admin/publications")
		return
	}

	// New cover replaced the old one; the stored image is now unreachable.
	if !cover.IsZero() && cur.HasImage() {
		old := media.ImageRef{ID: cur.ImageRef, URL: cur.ImageURL}
		if rmErr := h.Media.Remove(ctx, old); rmErr != nil {
			h.Log.Warn("publications admin: old cover removal failed",
				zap.String("ref", old.ID), zap.Error(rmErr))
		}
	}

	http.Redirect(w, r, "/admin/publications", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/publications/{id}/delete                                        |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pubID(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithLong(r.Context())
	defer cancel()

	p, err := h.Pubs.GetByID(ctx, id)
	if err != nil && !errors.Is(err, dberr.ErrNotFound) {
		h.ErrLog.LogDBError(w, r, "publications admin: load failed", err,
			"Could not delete the publication.", "/admin/publications")
		return
	}

	if _, err := h.Pubs.Delete(ctx, id); err != nil {
		h.ErrLog.LogDBError(w, r, "publications admin: delete failed", err,
			"Could not delete the publication.", "/admin/publications")
		return
	}

	if p.HasImage() {
		ref := media.ImageRef{ID: p.ImageRef, URL: p.ImageURL}
		if rmErr := h.Media.Remove(ctx, ref); rmErr != nil {
			h.Log.Warn("publications admin: cover removal failed",
				zap.String("ref", ref.ID), zap.Error(rmErr))
		}
	}

	h.Log.Info("publication deleted", zap.String("publication_id", id.Hex()))
	http.Redirect(w, r, "/admin/publications", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| helpers                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) pubID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "publications admin: bad publication id", err,
			"Bad publication id.", "/admin/publications")
		return primitive.NilObjectID, false
	}
	return id, true
}

// readPubForm pulls the text fields out of a parsed form, trimmed, plus the
// checked author slugs.
func (h *Handler) readPubForm(r *http.Request) (pubFormVM, []string) {
	slugs := make([]string, 0, len(r.Form["author_slugs"]))
	for _, s := range r.Form["author_slugs"] {
		if s = strings.TrimSpace(s); s != "" {
			slugs = append(slugs, s)
		}
	}

	return pubFormVM{
		PubTitle:     strings.TrimSpace(r.FormValue("title")),
		Authors:      strings.TrimSpace(r.FormValue("authors")),
		Journal:      strings.TrimSpace(r.FormValue("journal")),
		PubType:      strings.TrimSpace(r.FormValue("type")),
		Year:         strings.TrimSpace(r.FormValue("year")),
		URL:          strings.TrimSpace(r.FormValue("url")),
		DOI:          strings.TrimSpace(r.FormValue("doi")),
		Abstract:     strings.TrimSpace(r.FormValue("abstract")),
		Citations:    strings.TrimSpace(r.FormValue("citations")),
		ImpactFactor: strings.TrimSpace(r.FormValue("impact_factor")),
	}, slugs
}

// authorOptions loads the roster for the author checklist, marking the
// slugs already attached to the publication. A load failure degrades to an
// empty checklist rather than failing the page.
func (h *Handler) authorOptions(ctx context.Context, selected []string) []authorOption {
	list, err := h.Members.List(ctx)
	if err != nil {
		h.Log.Warn("publications admin: load roster failed", zap.Error(err))
		return nil
	}

	sel := make(map[string]bool, len(selected))
	for _, s := range selected {
		sel[s] = true
	}

	opts := make([]authorOption, 0, len(list))
	for i := range list {
		opts = append(opts, authorOption{
			Name:     list[i].Name,
			Slug:     list[i].Slug,
			Selected: sel[list[i].Slug],
		})
	}
	return opts
}

// publicationFromForm validates the echoed values and maps them onto a
// Publication. Returns a user-facing message when the form is rejected.
func publicationFromForm(form pubFormVM, slugs []string) (models.Publication, string) {
	input := pubFormInput{Title: form.PubTitle, Year: form.Year}
	if result := inputval.Validate(input); result.HasErrors() {
		return models.Publication{}, result.First()
	}

	year, err := strconv.Atoi(form.Year)
	if err != nil || year < minPubYear || year > maxPubYear {
		return models.Publication{}, "Year must be a number between 1900 and 2100."
	}
	if !models.IsValidPublicationType(form.PubType) {
		return models.Publication{}, "Type is invalid."
	}
	if form.URL != "" && !urlutil.IsValidAbsHTTPURL(form.URL) {
		return models.Publication{}, "URL must be a valid absolute URL (e.g., https://doi.org/...)."
	}

	var citations int
	if form.Citations != "" {
		citations, err = strconv.Atoi(form.Citations)
		if err != nil || citations < 0 {
			return models.Publication{}, "Citations must be a non-negative number."
		}
	}

	var impact float64
	if form.ImpactFactor != "" {
		impact, err = strconv.ParseFloat(form.ImpactFactor, 64)
		if err != nil || impact < 0 {
			return models.Publication{}, "Impact factor must be a non-negative number."
		}
	}

	return models.Publication{
		Title:        form.PubTitle,
		Authors:      form.Authors,
		AuthorSlugs:  slugs,
		Journal:      form.Journal,
		Type:         form.PubType,
		Year:         year,
		URL:          form.URL,
		DOI:          form.DOI,
		Abstract:     htmlsanitize.Sanitize(form.Abstract),
		Citations:    citations,
		ImpactFactor: impact,
	}, ""
}
