// internal/domain/models/application.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Application status values. New applications are always "pending"; admins
// move them to "contacted" after reaching out.
const (
	ApplicationPending   = "pending"
	ApplicationContacted = "contacted"
)

// ApplicationSource identifies where an application came from. The public
// form is currently the only source.
const ApplicationSource = "website_contact_form"

// ApplicationFile records what an applicant attached: filename, size, and
// declared content type. Only this metadata is stored; the bytes are
// discarded after the upload is received.
type ApplicationFile struct {
	Filename    string `bson:"filename" json:"filename"`
	Size        int64  `bson:"size" json:"size"`
	ContentType string `bson:"content_type,omitempty" json:"content_type,omitempty"`
}

// Application is a submission from the public "join us" form.
// Timestamp is server-assigned on insert; the client never supplies it.
type Application struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	Name    string `bson:"name" json:"name"`
	Email   string `bson:"email" json:"email"`
	School  string `bson:"school,omitempty" json:"school,omitempty"`
	Phone   string `bson:"phone,omitempty" json:"phone,omitempty"`
	Message string `bson:"message,omitempty" json:"message,omitempty"`

	CV         *ApplicationFile `bson:"cv,omitempty" json:"cv,omitempty"`
	Transcript *ApplicationFile `bson:"transcript,omitempty" json:"transcript,omitempty"`

	Status      string     `bson:"status" json:"status"`
	ContactedAt *time.Time `bson:"contacted_at,omitempty" json:"contacted_at,omitempty"`
	Source      string     `bson:"source" json:"source"`

	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// IsPending returns true if the application has not been contacted yet.
func (a *Application) IsPending() bool {
	return a.Status == ApplicationPending
}

// HasCV reports whether a CV was attached to the submission.
func (a *Application) HasCV() bool { return a.CV != nil }

// HasTranscript reports whether a transcript was attached.
func (a *Application) HasTranscript() bool { return a.Transcript != nil }
