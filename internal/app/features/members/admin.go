// internal/app/features/members/admin.go
package members

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/labsite/internal/app/media"
	memberstore "github.com/dalemusser/labsite/internal/app/store/members"
	"github.com/dalemusser/labsite/internal/app/system/dberr"
	"github.com/dalemusser/labsite/internal/app/system/htmlsanitize"
	"github.com/dalemusser/labsite/internal/app/system/inputval"
	"github.com/dalemusser/labsite/internal/app/system/limits"
	"github.com/dalemusser/labsite/internal/app/system/normalize"
	"github.com/dalemusser/labsite/internal/app/system/paging"
	"github.com/dalemusser/labsite/internal/app/system/timeouts"
	"github.com/dalemusser/labsite/internal/app/system/viewdata"
	"github.com/dalemusser/labsite/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// memberFormInput defines validation rules for the member form.
type memberFormInput struct {
	Name          string `validate:"required,min=2,max=100" label:"Name"`
	GoogleScholar string `validate:"httpurl" label:"Google Scholar URL"`
}

// memberFormVM carries the echoed form values for new/edit.
type memberFormVM struct {
	viewdata.BaseVM
	Editing           bool
	MemberID          string
	Name              string
	Nickname          string
	MemberRole        string
	Bio               string
	GoogleScholar     string
	ORCID             string
	ResearchInterests string
	Education         string
	Achievements      string
	AvatarURL         string
	ErrorMessage      string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/members – admin list                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeAdminList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	before := query.Get(r, "before")
	after := query.Get(r, "after")

	list, page, err := h.Members.ListPage(ctx, before, after)
	if err != nil {
		h.ErrLog.LogDBError(w, r, "members admin: list failed", err,
			"Could not load members.", "/admin/members")
		return
	}

	prevCursor, nextCursor := paging.BuildCursors(list,
		func(m models.Member) string { return m.NameCI },
		func(m models.Member) primitive.ObjectID { return m.ID })

	data := struct {
		viewdata.BaseVM
		Members    []models.Member
		HasPrev    bool
		HasNext    bool
		PrevCursor string
		NextCursor string
	}{
		BaseVM:     viewdata.NewBaseVM(r, h.DB, "Manage Members", "/admin/members"),
		Members:    list,
		HasPrev:    page.HasPrev,
		HasNext:    page.HasNext,
		PrevCursor: prevCursor,
		NextCursor: nextCursor,
	}

	templates.Render(w, r, "admin_members_list", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/members/new + POST /admin/members                                |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	vm := memberFormVM{
		BaseVM: viewdata.NewBaseVM(r, h.DB, "New Member", "/admin/members"),
	}
	templates.Render(w, r, "admin_member_form", vm)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(limits.MaxMultipartFormSize); err != nil {
		h.ErrLog.LogBadRequest(w, r, "members admin: parse form failed", err,
			"Invalid form data.", "/admin/members")
		return
	}

	form := h.readMemberForm(r)

	// Helper to re-render the form with a message
	reRender := func(msg string) {
		vm := form
		vm.BaseVM = viewdata.NewBaseVM(r, h.DB, "New Member", "/admin/members")
		vm.ErrorMessage = msg
		templates.Render(w, r, "admin_member_form", vm)
	}

	if msg := validateMemberForm(form); msg != "" {
		reRender(msg)
		return
	}

	ctx, cancel := timeouts.WithLong(r.Context())
	defer cancel()

	avatar, err := h.avatarFromForm(ctx, r)
	if err != nil {
		reRender(uploadMessage(err))
		return
	}

	m := memberFromForm(form)
	m.AvatarRef = avatar.ID
	m.AvatarURL = avatar.URL

	created, err := h.Members.Create(ctx, m)
	if err != nil {
		// The member row never landed, so the freshly uploaded avatar is
		// orphaned; remove it best-effort.
		if !avatar.IsZero() {
			if rmErr := h.Media.Remove(ctx, avatar); rmErr != nil {
				h.Log.Warn("members admin: orphan avatar cleanup failed",
					zap.String("ref", avatar.ID), zap.Error(rmErr))
			}
		}
		if errors.Is(err, memberstore.ErrDuplicateSlug) {
			reRender("A member with this name already exists.")
			return
		}
		h.ErrLog.LogDBError(w, r, "members admin: create failed", err,
			"Could not create the member.", "/admin/members")
		return
	}

	h.Log.Info("member created",
		zap.String("member_id", created.ID.Hex()),
		zap.String("slug", created.Slug))
	http.Redirect(w, r, "/admin/members", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET/POST /admin/members/{id}/edit                                           |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.memberID(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	m, err := h.Members.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			h.ErrLog.LogNotFound(w, r, "members admin: edit target missing", err,
				"That member does not exist.", "/admin/members")
			return
		}
		h.ErrLog.LogDBError(w, r, "members admin: load member failed", err,
			"Could not load the member.", "/admin/members")
		return
	}

	vm := memberFormVM{
		BaseVM:            viewdata.NewBaseVM(r, h.DB, "Edit Member", "/admin/members"),
		Editing:           true,
		MemberID:          m.ID.Hex(),
		Name:              m.Name,
		Nickname:          m.Nickname,
		MemberRole:        m.Role,
		Bio:               m.Bio,
		GoogleScholar:     m.GoogleScholar,
		ORCID:             m.ORCID,
		ResearchInterests: strings.Join(m.ResearchInterests, "\n"),
		Education:         strings.Join(m.Education, "\n"),
		Achievements:      strings.Join(m.Achievements, "\n"),
		AvatarURL:         h.avatarURL(&m, media.Avatar),
	}
	templates.Render(w, r, "admin_member_form", vm)
}

func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.memberID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(limits.MaxMultipartFormSize); err != nil {
		h.ErrLog.LogBadRequest(w, r, "members admin: parse form failed", err,
			"Invalid form data.", "/admin/members")
		return
	}

	form := h.readMemberForm(r)
	form.Editing = true
	form.MemberID = id.Hex()

	reRender := func(msg string) {
		vm := form
		vm.BaseVM = viewdata.NewBaseVM(r, h.DB, "Edit Member", "/admin/members")
		vm.ErrorMessage = msg
		templates.Render(w, r, "admin_member_form", vm)
	}

	if msg := validateMemberForm(form); msg != "" {
		reRender(msg)
		return
	}

	ctx, cancel := timeouts.WithLong(r.Context())
	defer cancel()

	cur, err := h.Members.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			h.ErrLog.LogNotFound(w, r, "members admin: edit target missing", err,
				"That member does not exist.", "/admin/members")
			return
		}
		h.ErrLog.LogDBError(w, r, "members admin: load member failed", err,
			"Could not load the member.", "/admin/members")
		return
	}

	avatar, err := h.avatarFromForm(ctx, r)
	if err != nil {
		reRender(uploadMessage(err))
		return
	}

	mut := memberFromForm(form)
	mut.AvatarRef = avatar.ID
	mut.AvatarURL = avatar.URL

	if err := h.Members.Update(ctx, id, mut); err != nil {
		if !avatar.IsZero() {
			if rmErr := h.Media.Remove(ctx, avatar); rmErr != nil {
				h.Log.Warn("members admin: orphan avatar cleanup failed",
					zap.String("ref", avatar.ID), zap.Error(rmErr))
			}
		}
		if errors.Is(err, memberstore.ErrDuplicateSlug) {
			reRender("A member with this name already exists.")
			return
		}
		h.ErrLog.LogDBError(w, r, "members admin: update failed", err,
			"Could not update the member.", "/admin/members")
		return
	}

	// New avatar replaced the old one; the stored image is now unreachable.
	if !avatar.IsZero() && cur.HasAvatar() {
		old := media.ImageRef{ID: cur.AvatarRef, URL: cur.AvatarURL}
		if rmErr := h.Media.Remove(ctx, old); rmErr != nil {
			h.Log.Warn("members admin: old avatar removal failed",
				zap.String("ref", old.ID), zap.Error(rmErr))
		}
	}

	http.Redirect(w, r, "/admin/members", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/members/{id}/delete                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.memberID(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithLong(r.Context())
	defer cancel()

	m, err := h.Members.GetByID(ctx, id)
	if err != nil && !errors.Is(err, dberr.ErrNotFound) {
		h.ErrLog.LogDBError(w, r, "members admin: load member failed", err,
			"Could not delete the member.", "/admin/members")
		return
	}

	if _, err := h.Members.Delete(ctx, id); err != nil {
		h.ErrLog.LogDBError(w, r, "members admin: delete failed", err,
			"Could not delete the member.", "/admin/members")
		return
	}

	if m.HasAvatar() {
		ref := media.ImageRef{ID: m.AvatarRef, URL: m.AvatarURL}
		if rmErr := h.Media.Remove(ctx, ref); rmErr != nil {
			h.Log.Warn("members admin: avatar removal failed",
				zap.String("ref", ref.ID), zap.Error(rmErr))
		}
	}

	h.Log.Info("member deleted", zap.String("member_id", id.Hex()))
	http.Redirect(w, r, "/admin/members", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| helpers                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// memberID parses the {id} route param, rendering a 400 page on garbage.
func (h *Handler) memberID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "members admin: bad member id", err,
			"Bad member id.", "/admin/members")
		return primitive.NilObjectID, false
	}
	return id, true
}

// readMemberForm pulls the text fields out of a parsed form, trimmed.
func (h *Handler) readMemberForm(r *http.Request) memberFormVM {
	return memberFormVM{
		Name:              strings.TrimSpace(r.FormValue("name")),
		Nickname:          strings.TrimSpace(r.FormValue("nickname")),
		MemberRole:        strings.TrimSpace(r.FormValue("role")),
		Bio:               strings.TrimSpace(r.FormValue("bio")),
		GoogleScholar:     strings.TrimSpace(r.FormValue("google_scholar")),
		ORCID:             strings.TrimSpace(r.FormValue("orcid")),
		ResearchInterests: r.FormValue("research_interests"),
		Education:         r.FormValue("education"),
		Achievements:      r.FormValue("achievements"),
	}
}

// validateMemberForm runs the struct-tag rules over the submitted form.
// Returns "" when the form is acceptable.
func validateMemberForm(form memberFormVM) string {
	input := memberFormInput{Name: form.Name, GoogleScholar: form.GoogleScholar}
	if result := inputval.Validate(input); result.HasErrors() {
		return result.First()
	}
	return ""
}

// memberFromForm maps the echoed form values onto a Member. The store
// derives NameCI and Slug itself.
func memberFromForm(form memberFormVM) models.Member {
	return models.Member{
		Name:              form.Name,
		Nickname:          form.Nickname,
		Role:              form.MemberRole,
		Bio:               htmlsanitize.Sanitize(form.Bio),
		GoogleScholar:     form.GoogleScholar,
		ORCID:             form.ORCID,
		ResearchInterests: normalize.Lines(form.ResearchInterests),
		Education:         normalize.Lines(form.Education),
		Achievements:      normalize.Lines(form.Achievements),
	}
}
