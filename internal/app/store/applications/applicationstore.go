// internal/app/store/applications/applicationstore.go
package applicationstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/labsite/internal/app/system/dberr"
	"github.com/dalemusser/labsite/internal/app/system/normalize"
	"github.com/dalemusser/labsite/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrMissingContact is returned when an application has no name or no
// email; everything else on the form is optional.
var ErrMissingContact = errors.New("application name and email are required")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("applications")}
}

// Create inserts a new application. Status, Source, and Timestamp are
// always server-assigned here; whatever the caller set is overwritten.
func (s *Store) Create(ctx context.Context, a models.Application) (models.Application, error) {
	a.ID = primitive.NewObjectID()
	a.Name = normalize.Name(a.Name)
	a.Email = normalize.Email(a.Email)
	a.School = normalize.Name(a.School)
	a.Phone = normalize.Phone(a.Phone)
	a.Message = strings.TrimSpace(a.Message)

	a.Status = models.ApplicationPending
	a.ContactedAt = nil
	a.Source = models.ApplicationSource
	a.Timestamp = time.Now().UTC()

	if a.Name == "" || a.Email == "" {
		return models.Application{}, ErrMissingContact
	}

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Application{}, dberr.Classify(err)
	}
	return a, nil
}

// MarkContacted flips a pending application to contacted and stamps
// ContactedAt. Every other field is left untouched. Returns NotFound when
// the id does not exist.
func (s *Store) MarkContacted(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now().UTC()
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"status":       models.ApplicationContacted,
		"contacted_at": now,
	}})
	if err != nil {
		return dberr.Classify(err)
	}
	if res.MatchedCount == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

// GetByID returns an application by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Application, error) {
	var a models.Application
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return models.Application{}, dberr.Classify(err)
	}
	return a, nil
}

// Delete removes an application by ID. Deleting a missing one is a no-op.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, dberr.Classify(err)
	}
	return res.DeletedCount, nil
}

// List returns applications newest first, optionally filtered by status
// ("" means all).
func (s *Store) List(ctx context.Context, status string) ([]models.Application, error) {
	filter := bson.M{}
	if st := normalize.Status(status); st != "" {
		filter["status"] = st
	}

	// Newest first; ties on timestamp break by insertion id ascending so
	// the order is stable across reloads.
	find := options.Find().SetSort(bson.D{
		{Key: "timestamp", Value: -1},
		{Key: "_id", Value: 1},
	})
	cur, err := s.c.Find(ctx, filter, find)
	if err != nil {
		return nil, dberr.Classify(err)
	}
	defer cur.Close(ctx)

	var out []models.Application
	if err := cur.All(ctx, &out); err != nil {
		return nil, dberr.Classify(err)
	}
	return out, nil
}

// CountPending returns the number of applications still awaiting contact.
func (s *Store) CountPending(ctx context.Context) (int64, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"status": models.ApplicationPending})
	return n, dberr.Classify(err)
}
