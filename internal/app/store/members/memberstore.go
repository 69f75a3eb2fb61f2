// internal/app/store/members/memberstore.go
package memberstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/labsite/internal/app/system/dberr"
	"github.com/dalemusser/labsite/internal/app/system/paging"
	"github.com/dalemusser/labsite/internal/app/system/slug"
	"github.com/dalemusser/labsite/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var (
	ErrDuplicateSlug = errors.New("a member with this name already exists")
	ErrNameTooShort  = errors.New("member name must be at least 2 characters")
	ErrNameInvalid   = errors.New("member name must contain letters or digits")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("members")}
}

// Create inserts a new Member, deriving NameCI and Slug and setting
// timestamps. The slug comes from the nickname when present, otherwise the
// name; it is the join key for the member's publications.
func (s *Store) Create(ctx context.Context, m models.Member) (models.Member, error) {
	now := time.Now().UTC()

	m.ID = primitive.NewObjectID()
	m.Name = strings.TrimSpace(m.Name)
	m.NameCI = text.Fold(m.Name)
	m.Slug = slug.ForMember(m.Name, m.Nickname)
	m.CreatedAt = now
	m.UpdatedAt = &now

	if len([]rune(m.Name)) < 2 {
		return models.Member{}, ErrNameTooShort
	}
	if m.Slug == "" {
		return models.Member{}, ErrNameInvalid
	}

	_, err := s.c.InsertOne(ctx, m)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Member{}, ErrDuplicateSlug
		}
		return models.Member{}, dberr.Classify(err)
	}
	return m, nil
}

// Update modifies mutable fields and refreshes UpdatedAt. Name changes
// re-derive NameCI and Slug; publications carrying the old slug are NOT
// rewritten, so a rename can orphan them (see the admin edit page warning).
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, mut models.Member) error {
	set := bson.M{}

	if name := strings.TrimSpace(mut.Name); name != "" {
		if len([]rune(name)) < 2 {
			return ErrNameTooShort
		}
		set["name"] = name
		set["name_ci"] = text.Fold(name)
		set["slug"] = slug.ForMember(name, mut.Nickname)
	}
	// Nickname can be cleared; re-derive the slug from whatever name wins.
	set["nickname"] = strings.TrimSpace(mut.Nickname)
	if _, ok := set["slug"]; !ok && mut.Name == "" {
		// nickname-only edit still moves the slug
		var cur models.Member
		if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&cur); err != nil {
			return dberr.Classify(err)
		}
		set["slug"] = slug.ForMember(cur.Name, mut.Nickname)
	}

	set["role"] = strings.TrimSpace(mut.Role)
	set["bio"] = mut.Bio
	set["google_scholar"] = strings.TrimSpace(mut.GoogleScholar)
	set["orcid"] = strings.TrimSpace(mut.ORCID)
	set["research_interests"] = mut.ResearchInterests
	set["education"] = mut.Education
	set["achievements"] = mut.Achievements

	// Avatar fields only change when the caller uploaded or cleared one.
	if mut.AvatarRef != "" || mut.AvatarURL != "" {
		set["avatar_ref"] = mut.AvatarRef
		set["avatar_url"] = mut.AvatarURL
	}

	now := time.Now().UTC()
	set["updated_at"] = now

	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateSlug
		}
		return dberr.Classify(err)
	}
	return nil
}

// ClearAvatar blanks the avatar fields after a media-backend removal.
func (s *Store) ClearAvatar(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now().UTC()
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"avatar_ref": "", "avatar_url": "", "updated_at": now,
	}})
	return dberr.Classify(err)
}

// GetByID returns a member by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Member, error) {
	var m models.Member
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		return models.Member{}, dberr.Classify(err)
	}
	return m, nil
}

// GetBySlug returns the member whose profile lives at /members/{slug}.
func (s *Store) GetBySlug(ctx context.Context, sl string) (models.Member, error) {
	var m models.Member
	if err := s.c.FindOne(ctx, bson.M{"slug": sl}).Decode(&m); err != nil {
		return models.Member{}, dberr.Classify(err)
	}
	return m, nil
}

// Delete removes a member by ID. Deleting a missing member is a no-op.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, dberr.Classify(err)
	}
	return res.DeletedCount, nil
}

// List returns the roster ordered by folded name ascending, id as the
// tiebreak so the order is total.
func (s *Store) List(ctx context.Context) ([]models.Member, error) {
	find := options.Find().SetSort(bson.D{
		{Key: "name_ci", Value: 1},
		{Key: "_id", Value: 1},
	})
	cur, err := s.c.Find(ctx, bson.M{}, find)
	if err != nil {
		return nil, dberr.Classify(err)
	}
	defer cur.Close(ctx)

	var out []models.Member
	if err := cur.All(ctx, &out); err != nil {
		return nil, dberr.Classify(err)
	}
	return out, nil
}

// ListPage returns one keyset page of members ordered by folded name.
// before/after are opaque cursors from a previous page; both empty means
// the first page.
func (s *Store) ListPage(ctx context.Context, before, after string) ([]models.Member, paging.Result, error) {
	cfg := paging.ConfigureKeyset(before, after)

	filter := bson.M{}
	if w := cfg.KeysetWindow("name_ci"); w != nil {
		filter = w
	}

	find := options.Find()
	cfg.ApplyToFind(find, "name_ci")

	cur, err := s.c.Find(ctx, filter, find)
	if err != nil {
		return nil, paging.Result{}, dberr.Classify(err)
	}
	defer cur.Close(ctx)

	var out []models.Member
	if err := cur.All(ctx, &out); err != nil {
		return nil, paging.Result{}, dberr.Classify(err)
	}

	// A backward fetch runs in reverse sort order; restore display order
	// before trimming the look-ahead row.
	if cfg.Direction == paging.Backward {
		paging.Reverse(out)
	}
	res := paging.TrimPage(&out, before, after)
	return out, res, nil
}

// Count returns the number of members.
func (s *Store) Count(ctx context.Context) (int64, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{})
	return n, dberr.Classify(err)
}
