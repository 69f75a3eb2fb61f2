// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/labsite/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. On servers that don't support collMod/validators (e.g. some
// DocumentDB versions), we log and skip gracefully.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	// helper: ensure collection exists (with truthful logging) and then validator (if provided)
	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			// DocumentDB or other deployments may not support collMod/validators.
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	// Core collections this app uses
	ensure("members", membersSchema())
	ensure("publications", publicationsSchema())
	ensure("applications", applicationsSchema())
	ensure("admins", adminsSchema())

	// These don't strictly need validators; we still ensure the collections exist.
	ensure("settings", nil)
	ensure("oauth_states", nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

// collectionExists returns true when <name> already exists.
// Uses ListCollectionNames to avoid "created collection" log when it didn't.
func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// ensureCollection idempotently makes sure <name> exists.
// Returns created==true only if we actually created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		zap.L().Info("collection exists", zap.String("collection", name))
		return false, nil
	}
	// If listing failed, fall back to create-and-handle-race.
	if err := db.CreateCollection(ctx, name); err != nil {
		// NamespaceExists / already exists is fine (race or prior run).
		if isNamespaceExistsErr(err) {
			zap.L().Info("collection exists", zap.String("collection", name))
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

/* ------------------------------ validators ------------------------------- */

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func isNamespaceExistsErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 48 || strings.Contains(strings.ToLower(ce.Message), "already exists")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

func isNoSuchCommand(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || strings.Contains(strings.ToLower(ce.Message), "no such command")) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 115 ||
		strings.Contains(strings.ToLower(ce.Message), "not implemented") ||
		strings.Contains(strings.ToLower(ce.Message), "not supported")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

func membersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "name_ci", "slug"},
			"properties": bson.M{
				"name":    bson.M{"bsonType": "string", "minLength": 2, "pattern": ".*\\S.*"},
				"name_ci": bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"slug":    bson.M{"bsonType": "string", "minLength": 1, "pattern": "^[a-z0-9-]+$"},

				"nickname":       bson.M{"bsonType": "string"},
				"role":           bson.M{"bsonType": "string"},
				"bio":            bson.M{"bsonType": "string"},
				"google_scholar": bson.M{"bsonType": "string"},
				"orcid":          bson.M{"bsonType": "string"},

				"avatar_ref": bson.M{"bsonType": "string"},
				"avatar_url": bson.M{"bsonType": "string"},

				"research_interests": bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}},
				"education":          bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}},
				"achievements":       bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}},

				"created_at": bson.M{"bsonType": "date"},
				"updated_at": bson.M{"bsonType": "date"},
			},
		},
	}
}

func publicationsSchema() bson.M {
	// Build the enum for the type field from the canonical list in the domain models.
	typeEnum := bson.A{}
	for _, t := range models.PublicationTypes {
		typeEnum = append(typeEnum, t)
	}

	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"title", "title_ci", "type", "year"},
			"properties": bson.M{
				"title":    bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"title_ci": bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},

				"type": bson.M{
					"bsonType": "string",
					"enum":     typeEnum,
				},
				"year": bson.M{"bsonType": "int", "minimum": 1900, "maximum": 2100},

				"authors":      bson.M{"bsonType": "string"},
				"author_slugs": bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}},

				"journal":  bson.M{"bsonType": "string"},
				"url":      bson.M{"bsonType": "string"},
				"doi":      bson.M{"bsonType": "string"},
				"abstract": bson.M{"bsonType": "string"},

				"citations":     bson.M{"bsonType": "int", "minimum": 0},
				"impact_factor": bson.M{"bsonType": "double", "minimum": 0},

				"image_ref": bson.M{"bsonType": "string"},
				"image_url": bson.M{"bsonType": "string"},

				"created_at": bson.M{"bsonType": "date"},
				"updated_at": bson.M{"bsonType": "date"},
			},
		},
	}
}

func applicationsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "email", "message", "status", "timestamp"},
			"properties": bson.M{
				"name":    bson.M{"bsonType": "string", "minLength": 2, "pattern": ".*\\S.*"},
				"email":   bson.M{"bsonType": "string", "minLength": 3},
				"message": bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},

				"school": bson.M{"bsonType": "string"},
				"phone":  bson.M{"bsonType": "string"},

				"status":       bson.M{"enum": bson.A{"pending", "contacted"}},
				"contacted_at": bson.M{"bsonType": bson.A{"date", "null"}},
				"source":       bson.M{"bsonType": "string"},
				"timestamp":    bson.M{"bsonType": "date"},
			},
		},
	}
}

func adminsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"email", "role", "status"},
			"properties": bson.M{
				"name":          bson.M{"bsonType": "string"},
				"email":         bson.M{"bsonType": "string", "minLength": 3},
				"role":          bson.M{"enum": bson.A{"admin"}},
				"status":        bson.M{"enum": bson.A{"active", "disabled"}},
				"password_hash": bson.M{"bsonType": "string"},
				"google_id":     bson.M{"bsonType": "string"},
				"created_at":    bson.M{"bsonType": "date"},
				"updated_at":    bson.M{"bsonType": "date"},
			},
		},
	}
}
