// internal/domain/models/publication.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Publication types as shown on the public list. The venue-rank values
// (Q1-Q4, Conference A-C) follow the group's internal grading.
const (
	PubTypeQ1          = "Q1"
	PubTypeQ2          = "Q2"
	PubTypeQ3          = "Q3"
	PubTypeQ4          = "Q4"
	PubTypeConferenceA = "Conference A"
	PubTypeConferenceB = "Conference B"
	PubTypeConferenceC = "Conference C"
	PubTypeBookChapter = "Book Chapter"
	PubTypePatent      = "Patent"
)

// PublicationTypes lists the valid Type values in display order.
var PublicationTypes = []string{
	PubTypeQ1, PubTypeQ2, PubTypeQ3, PubTypeQ4,
	PubTypeConferenceA, PubTypeConferenceB, PubTypeConferenceC,
	PubTypeBookChapter, PubTypePatent,
}

// IsValidPublicationType reports whether t is one of the known Type values.
func IsValidPublicationType(t string) bool {
	for _, v := range PublicationTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Publication is a paper, chapter, or patent listed on the site.
//
// Authors is the display string exactly as it should render; AuthorSlugs is
// the join key used to show a publication on member profile pages. The two
// are maintained together by the admin form.
type Publication struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title   string             `bson:"title" json:"title"`
	TitleCI string             `bson:"title_ci" json:"title_ci"`

	Authors     string   `bson:"authors,omitempty" json:"authors,omitempty"`
	AuthorSlugs []string `bson:"author_slugs,omitempty" json:"author_slugs,omitempty"`

	Journal string `bson:"journal,omitempty" json:"journal,omitempty"`
	Type    string `bson:"type" json:"type"`
	Year    int    `bson:"year" json:"year"`

	URL      string `bson:"url,omitempty" json:"url,omitempty"`
	DOI      string `bson:"doi,omitempty" json:"doi,omitempty"`
	Abstract string `bson:"abstract,omitempty" json:"abstract,omitempty"` // sanitized HTML

	Citations    int     `bson:"citations,omitempty" json:"citations,omitempty"`
	ImpactFactor float64 `bson:"impact_factor,omitempty" json:"impact_factor,omitempty"`

	// Cover image via the media backend; both empty means placeholder.
	ImageRef string `bson:"image_ref,omitempty" json:"image_ref,omitempty"`
	ImageURL string `bson:"image_url,omitempty" json:"image_url,omitempty"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// HasImage returns true if the publication has an uploaded cover image.
func (p *Publication) HasImage() bool {
	return p.ImageRef != "" || p.ImageURL != ""
}
