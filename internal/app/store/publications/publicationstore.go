// internal/app/store/publications/publicationstore.go
package publicationstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/labsite/internal/app/system/dberr"
	"github.com/dalemusser/labsite/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrTitleRequired = errors.New("publication title is required")
	ErrUnknownType   = errors.New("unknown publication type")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("publications")}
}

// listSort orders newest year first; within a year the insertion id
// ascending keeps the order stable across reloads.
var listSort = bson.D{
	{Key: "year", Value: -1},
	{Key: "_id", Value: 1},
}

// Create inserts a new Publication, setting TitleCI and timestamps.
func (s *Store) Create(ctx context.Context, p models.Publication) (models.Publication, error) {
	now := time.Now().UTC()

	p.ID = primitive.NewObjectID()
	p.Title = strings.TrimSpace(p.Title)
	p.TitleCI = text.Fold(p.Title)
	p.CreatedAt = now
	p.UpdatedAt = &now

	if p.Title == "" {
		return models.Publication{}, ErrTitleRequired
	}
	if !models.IsValidPublicationType(p.Type) {
		return models.Publication{}, ErrUnknownType
	}

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Publication{}, dberr.Classify(err)
	}
	return p, nil
}

// Update modifies mutable fields and refreshes UpdatedAt.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, mut models.Publication) error {
	set := bson.M{}

	if title := strings.TrimSpace(mut.Title); title != "" {
		set["title"] = title
		set["title_ci"] = text.Fold(title)
	}
	if mut.Type != "" {
		if !models.IsValidPublicationType(mut.Type) {
			return ErrUnknownType
		}
		set["type"] = mut.Type
	}
	if mut.Year != 0 {
		set["year"] = mut.Year
	}

	// Display and join fields travel together: the admin form always
	// submits both, so an empty slice here means "no authors".
	set["authors"] = mut.Authors
	set["author_slugs"] = mut.AuthorSlugs

	set["journal"] = strings.TrimSpace(mut.Journal)
	set["url"] = strings.TrimSpace(mut.URL)
	set["doi"] = strings.TrimSpace(mut.DOI)
	set["abstract"] = mut.Abstract
	set["citations"] = mut.Citations
	set["impact_factor"] = mut.ImpactFactor

	if mut.ImageRef != "" || mut.ImageURL != "" {
		set["image_ref"] = mut.ImageRef
		set["image_url"] = mut.ImageURL
	}

	now := time.Now().UTC()
	set["updated_at"] = now

	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	return dberr.Classify(err)
}

// ClearImage blanks the cover-image fields after a media-backend removal.
func (s *Store) ClearImage(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now().UTC()
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"image_ref": "", "image_url": "", "updated_at": now,
	}})
	return dberr.Classify(err)
}

// GetByID returns a publication by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Publication, error) {
	var p models.Publication
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return models.Publication{}, dberr.Classify(err)
	}
	return p, nil
}

// Delete removes a publication by ID. Deleting a missing one is a no-op.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, dberr.Classify(err)
	}
	return res.DeletedCount, nil
}

// List returns all publications, newest year first.
func (s *Store) List(ctx context.Context) ([]models.Publication, error) {
	return s.find(ctx, bson.M{})
}

// ListByAuthorSlug returns the publications shown on a member's profile:
// those whose author_slugs array contains the member's slug. The join is by
// derived string, so entries saved before a member was renamed will not
// match the new slug.
func (s *Store) ListByAuthorSlug(ctx context.Context, sl string) ([]models.Publication, error) {
	return s.find(ctx, bson.M{"author_slugs": sl})
}

// ListByType filters on the venue grade, newest year first.
func (s *Store) ListByType(ctx context.Context, pubType string) ([]models.Publication, error) {
	return s.find(ctx, bson.M{"type": pubType})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Publication, error) {
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(listSort))
	if err != nil {
		return nil, dberr.Classify(err)
	}
	defer cur.Close(ctx)

	var out []models.Publication
	if err := cur.All(ctx, &out); err != nil {
		return nil, dberr.Classify(err)
	}
	return out, nil
}

// Count returns the number of publications.
func (s *Store) Count(ctx context.Context) (int64, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{})
	return n, dberr.Classify(err)
}
