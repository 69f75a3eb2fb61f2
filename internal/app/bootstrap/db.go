// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/labsite/internal/app/media"
	"github.com/dalemusser/labsite/internal/app/system/indexes"
	"github.com/dalemusser/labsite/internal/app/system/timeouts"
	"github.com/dalemusser/labsite/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB establishes the MongoDB connection and selects the media
// backend. Both are fatal on failure; the app does not start half-wired.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := timeouts.WithPing(ctx)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}

	adapter, err := media.FromConfig(media.Config{
		Backend: appCfg.MediaBackend,
		GitHub: media.GitHubConfig{
			Owner:    appCfg.GitHubOwner,
			Repo:     appCfg.GitHubRepo,
			Branch:   appCfg.GitHubBranch,
			Token:    appCfg.GitHubToken,
			BasePath: appCfg.GitHubBasePath,
		},
		Cloudinary: media.CloudinaryConfig{
			CloudName:    appCfg.CloudinaryCloudName,
			UploadPreset: appCfg.CloudinaryUploadPreset,
			Folder:       appCfg.CloudinaryFolder,
			APIKey:       appCfg.CloudinaryAPIKey,
			APISecret:    appCfg.CloudinaryAPISecret,
		},
	}, logger)
	if err != nil {
		_ = client.Disconnect(ctx)
		return DBDeps{}, fmt.Errorf("media backend: %w", err)
	}

	logger.Info("connected",
		zap.String("database", appCfg.MongoDatabase),
		zap.String("media_backend", adapter.Name()))

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
		Media:         adapter,
	}, nil
}

// EnsureSchema reconciles indexes and collection validators at startup.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	if err := validators.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		return fmt.Errorf("ensure validators: %w", err)
	}
	return nil
}
