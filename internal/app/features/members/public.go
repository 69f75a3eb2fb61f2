// internal/app/features/members/public.go
package members

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/dalemusser/labsite/internal/app/media"
	"github.com/dalemusser/labsite/internal/app/system/dberr"
	"github.com/dalemusser/labsite/internal/app/system/htmlsanitize"
	"github.com/dalemusser/labsite/internal/app/system/timeouts"
	"github.com/dalemusser/labsite/internal/app/system/viewdata"
	"github.com/dalemusser/labsite/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// rosterEntry is one member card on the public roster.
type rosterEntry struct {
	Name      string
	Role      string
	Slug      string
	AvatarURL string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /members – public roster                                                |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServePublicList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	list, err := h.Members.List(ctx)
	if err != nil {
		h.ErrLog.LogDBError(w, r, "members: list failed", err,
			"Could not load the member roster.", "/")
		return
	}

	entries := make([]rosterEntry, 0, len(list))
	for i := range list {
		m := &list[i]
		entries = append(entries, rosterEntry{
			Name:      m.Name,
			Role:      m.Role,
			Slug:      m.Slug,
			AvatarURL: h.avatarURL(m, media.Avatar),
		})
	}

	data := struct {
		viewdata.BaseVM
		Members []rosterEntry
	}{
		BaseVM:  viewdata.NewBaseVM(r, h.DB, "Members", "/"),
		Members: entries,
	}

	templates.Render(w, r, "members_list", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /members/{slug} – profile page                                          |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	sl := chi.URLParam(r, "slug")

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	m, err := h.Members.GetBySlug(ctx, sl)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			h.ErrLog.LogNotFound(w, r, "members: profile not found", err,
				"That member profile does not exist.", "/members")
			return
		}
		h.ErrLog.LogDBError(w, r, "members: load profile failed", err,
			"Could not load the member profile.", "/members")
		return
	}

	// Publications joined by author slug; the profile still renders when
	// this read fails.
	pubs, err := h.Pubs.ListByAuthorSlug(ctx, m.Slug)
	if err != nil {
		h.Log.Warn("members: profile publications failed",
			zap.String("slug", m.Slug), zap.Error(err))
		pubs = nil
	}

	data := struct {
		viewdata.BaseVM
		Member       models.Member
		Bio          template.HTML
		AvatarURL    string
		Publications []models.Publication
	}{
		BaseVM:       viewdata.NewBaseVM(r, h.DB, m.Name, "/members"),
		Member:       m,
		Bio:          htmlsanitize.SanitizeHTML(m.Bio),
		AvatarURL:    h.avatarURL(&m, media.AvatarLarge),
		Publications: pubs,
	}

	templates.Render(w, r, "member_profile", data)
}

// avatarURL resolves the member's avatar through the media backend, falling
// back to the variant's placeholder when none is set.
func (h *Handler) avatarURL(m *models.Member, v media.Variant) string {
	return h.Media.Resolve(media.ImageRef{ID: m.AvatarRef, URL: m.AvatarURL}, v)
}
