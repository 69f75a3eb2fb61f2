package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/labsite/internal/app/system/slug"
	"github.com/dalemusser/labsite/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateMember creates a test group member with the given name and role.
// Returns the created member with its generated ID and derived slug.
func (f *Fixtures) CreateMember(ctx context.Context, name, role string) models.Member {
	f.t.Helper()

	now := time.Now().UTC()
	m := models.Member{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Slug:      slug.ForMember(name, ""),
		Role:      role,
		CreatedAt: now,
		UpdatedAt: &now,
	}

	_, err := f.db.Collection("members").InsertOne(ctx, m)
	if err != nil {
		f.t.Fatalf("failed to create test member: %v", err)
	}

	return m
}

// CreatePublication creates a test publication attributed to the given
// member slugs.
func (f *Fixtures) CreatePublication(ctx context.Context, title string, year int, authorSlugs ...string) models.Publication {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Publication{
		ID:          primitive.NewObjectID(),
		Title:       title,
		TitleCI:     text.Fold(title),
		Authors:     "Test Author",
		AuthorSlugs: authorSlugs,
		Journal:     "Journal of Testing",
		Type:        models.PubTypeQ1,
		Year:        year,
		CreatedAt:   now,
		UpdatedAt:   &now,
	}

	_, err := f.db.Collection("publications").InsertOne(ctx, p)
	if err != nil {
		f.t.Fatalf("failed to create test publication: %v", err)
	}

	return p
}

// CreateApplication creates a pending test job application.
func (f *Fixtures) CreateApplication(ctx context.Context, name, email string) models.Application {
	f.t.Helper()

	a := models.Application{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Email:     text.Fold(email),
		Message:   "I would like to join your group.",
		Status:    models.ApplicationPending,
		Source:    models.ApplicationSource,
		Timestamp: time.Now().UTC(),
	}

	_, err := f.db.Collection("applications").InsertOne(ctx, a)
	if err != nil {
		f.t.Fatalf("failed to create test application: %v", err)
	}

	return a
}

// CreateAdmin creates a test admin account without a password hash.
func (f *Fixtures) CreateAdmin(ctx context.Context, name, email string) models.Admin {
	f.t.Helper()

	now := time.Now().UTC()
	a := models.Admin{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Email:     text.Fold(email),
		Role:      "admin",
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: &now,
	}

	_, err := f.db.Collection("admins").InsertOne(ctx, a)
	if err != nil {
		f.t.Fatalf("failed to create test admin: %v", err)
	}

	return a
}

// SaveSettings writes the site settings singleton directly, bypassing the
// store's merge semantics. Useful for seeding a known baseline.
func (f *Fixtures) SaveSettings(ctx context.Context, settings models.SiteSettings) {
	f.t.Helper()

	settings.ID = models.SettingsID
	_, err := f.db.Collection("settings").ReplaceOne(ctx,
		bson.M{"_id": models.SettingsID}, settings,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		f.t.Fatalf("failed to save test settings: %v", err)
	}
}
