// internal/app/store/admins/adminstore.go
package adminstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/labsite/internal/app/system/dberr"
	"github.com/dalemusser/labsite/internal/app/system/normalize"
	"github.com/dalemusser/labsite/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrDuplicateEmail is returned when an admin with the same email
	// already exists.
	ErrDuplicateEmail = errors.New("an admin with this email already exists")
	// ErrEmailRequired is returned when Create is given no usable email.
	ErrEmailRequired = errors.New("admin email is required")
)

// Store provides access to the admins collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new admin store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("admins")}
}

// Create inserts a new admin. The password hash, if any, must already be
// computed by the caller; the store never sees plaintext credentials.
func (s *Store) Create(ctx context.Context, admin *models.Admin) error {
	if admin.ID.IsZero() {
		admin.ID = primitive.NewObjectID()
	}
	admin.Email = normalize.Email(admin.Email)
	admin.Name = normalize.Name(admin.Name)
	if admin.Email == "" {
		return ErrEmailRequired
	}
	if admin.Role == "" {
		admin.Role = "admin"
	}
	if admin.Status == "" {
		admin.Status = "active"
	}
	now := time.Now().UTC()
	admin.CreatedAt = now
	admin.UpdatedAt = &now

	_, err := s.c.InsertOne(ctx, admin)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateEmail
		}
		return dberr.Classify(err)
	}
	return nil
}

// GetByEmail finds an admin by email (case-insensitive).
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&admin)
	if err != nil {
		return nil, dberr.Classify(err)
	}
	return &admin, nil
}

// GetByGoogleID finds an admin by their linked Google account ID.
func (s *Store) GetByGoogleID(ctx context.Context, googleID string) (*models.Admin, error) {
	var admin models.Admin
	err := s.c.FindOne(ctx, bson.M{"google_id": googleID}).Decode(&admin)
	if err != nil {
		return nil, dberr.Classify(err)
	}
	return &admin, nil
}

// LinkGoogle records the Google account ID on an existing admin so that
// subsequent sign-ins can match on it directly.
func (s *Store) LinkGoogle(ctx context.Context, id primitive.ObjectID, googleID string) error {
	update := bson.M{"$set": bson.M{
		"google_id":  googleID,
		"updated_at": time.Now().UTC(),
	}}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return dberr.Classify(err)
	}
	if res.MatchedCount == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

// Count returns the total number of admins.
func (s *Store) Count(ctx context.Context) (int64, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, dberr.Classify(err)
	}
	return n, nil
}
