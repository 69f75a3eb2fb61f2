// internal/domain/models/member.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Member is a person on the research group's roster: faculty, postdocs,
// students, and alumni. Members appear on the public roster and each has a
// profile page reachable by slug.
//
// Publications are joined to members by author slug (see Publication), not
// by ObjectID. The slug is derived from Nickname when set, otherwise Name.
type Member struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name   string             `bson:"name" json:"name"`
	NameCI string             `bson:"name_ci" json:"name_ci"` // lowercase, diacritics-stripped

	// Nickname is the short form used in publication author lists
	// (e.g. "J. Smith"). When set it drives the slug instead of Name.
	Nickname string `bson:"nickname,omitempty" json:"nickname,omitempty"`

	// Slug is the URL key for the profile page and the publication join key.
	// Derived once on create/update; renaming a member regenerates it.
	Slug string `bson:"slug" json:"slug"`

	Role string `bson:"role,omitempty" json:"role,omitempty"` // e.g. "Professor", "PhD Student"
	Bio  string `bson:"bio,omitempty" json:"bio,omitempty"`   // sanitized HTML

	GoogleScholar string `bson:"google_scholar,omitempty" json:"google_scholar,omitempty"`
	ORCID         string `bson:"orcid,omitempty" json:"orcid,omitempty"`

	// Avatar: AvatarRef is the media-backend identifier (e.g. a Cloudinary
	// public id or a repo path); AvatarURL is the resolved delivery URL kept
	// for direct rendering. Both empty means "use placeholder".
	AvatarRef string `bson:"avatar_ref,omitempty" json:"avatar_ref,omitempty"`
	AvatarURL string `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`

	// Free-form profile sections, one entry per line in the admin form.
	ResearchInterests []string `bson:"research_interests,omitempty" json:"research_interests,omitempty"`
	Education         []string `bson:"education,omitempty" json:"education,omitempty"`
	Achievements      []string `bson:"achievements,omitempty" json:"achievements,omitempty"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// HasAvatar returns true if the member has an uploaded avatar.
func (m *Member) HasAvatar() bool {
	return m.AvatarRef != "" || m.AvatarURL != ""
}

// DisplayName returns the nickname when set, otherwise the full name.
func (m *Member) DisplayName() string {
	if m.Nickname != "" {
		return m.Nickname
	}
	return m.Name
}
