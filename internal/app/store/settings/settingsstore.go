// internal/app/store/settings/settingsstore.go
package settingsstore

import (
	"context"
	"strings"
	"time"

	"github.com/dalemusser/labsite/internal/app/system/dberr"
	"github.com/dalemusser/labsite/internal/app/system/normalize"
	"github.com/dalemusser/labsite/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the settings collection, which holds exactly one
// document (_id = models.SettingsID).
type Store struct {
	c *mongo.Collection
}

// New creates a new settings store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("settings")}
}

// Get returns the site settings. If no settings document exists yet,
// defaults are returned instead of an error.
func (s *Store) Get(ctx context.Context) (models.SiteSettings, error) {
	var settings models.SiteSettings
	err := s.c.FindOne(ctx, bson.M{"_id": models.SettingsID}).Decode(&settings)
	if err == mongo.ErrNoDocuments {
		return models.SiteSettings{
			ID:       models.SettingsID,
			SiteName: models.DefaultSiteName,
		}, nil
	}
	if err != nil {
		return models.SiteSettings{}, dberr.Classify(err)
	}
	return settings, nil
}

// Patch is a partial update of the settings singleton. A nil field is
// left untouched; a non-nil field is written even when it points at "",
// so a pointer to an empty string clears a previously saved value.
type Patch struct {
	SiteName          *string
	ContactEmail      *string
	NotificationEmail *string
}

// Save merge-upserts the singleton document: only the non-nil fields of
// the patch are written, everything else is preserved. Saving {SiteName}
// after {SiteName, ContactEmail} leaves ContactEmail intact; saving a
// pointer to "" clears the field.
func (s *Store) Save(ctx context.Context, p Patch) error {
	now := time.Now().UTC()

	set := bson.M{"updated_at": now}
	if p.SiteName != nil {
		set["site_name"] = strings.TrimSpace(*p.SiteName)
	}
	if p.ContactEmail != nil {
		set["contact_email"] = normalize.Email(*p.ContactEmail)
	}
	if p.NotificationEmail != nil {
		set["notification_email"] = normalize.Email(*p.NotificationEmail)
	}

	update := bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"_id": models.SettingsID,
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": models.SettingsID}, update, opts)
	return dberr.Classify(err)
}

// Exists checks if a settings document has been saved.
func (s *Store) Exists(ctx context.Context) (bool, error) {
	count, err := s.c.CountDocuments(ctx, bson.M{"_id": models.SettingsID})
	if err != nil {
		return false, dberr.Classify(err)
	}
	return count > 0, nil
}
