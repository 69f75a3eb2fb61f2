// internal/domain/models/sitesettings.go
package models

import "time"

// SettingsID is the _id of the singleton settings document. The site has
// exactly one settings document; saves are merge-upserts against this id.
const SettingsID = "general"

// SiteSettings holds site-wide configuration editable by admins.
type SiteSettings struct {
	ID string `bson:"_id,omitempty" json:"id,omitempty"`

	// SiteName is shown in the header and page titles.
	SiteName string `bson:"site_name,omitempty" json:"site_name,omitempty"`

	// ContactEmail is displayed publicly on the site.
	ContactEmail string `bson:"contact_email,omitempty" json:"contact_email,omitempty"`

	// NotificationEmail receives a message for each new application.
	NotificationEmail string `bson:"notification_email,omitempty" json:"notification_email,omitempty"`

	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// HasNotificationEmail returns true if application alerts are configured.
func (s *SiteSettings) HasNotificationEmail() bool {
	return s.NotificationEmail != ""
}

// DefaultSiteName is used when no settings document exists yet.
const DefaultSiteName = "Research Group"
