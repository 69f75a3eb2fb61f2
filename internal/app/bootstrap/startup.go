// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/labsite/internal/app/resources"
	adminstore "github.com/dalemusser/labsite/internal/app/store/admins"
	"github.com/dalemusser/labsite/internal/app/system/dberr"
	"github.com/dalemusser/labsite/internal/app/system/normalize"
	"github.com/dalemusser/labsite/internal/app/system/timeouts"
	"github.com/dalemusser/labsite/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It is the
// place to load shared resources (like templates), warm caches, or perform
// any app-wide setup that depends on config and backends.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.ConfigureFromEnv()
	resources.LoadSharedTemplates()

	if appCfg.InitialAdminEmail != "" {
		if err := ensureInitialAdmin(ctx, deps, appCfg.InitialAdminEmail, logger); err != nil {
			return err
		}
	}
	return nil
}

// ensureInitialAdmin guarantees an active admin account with the given email
// exists. The account is created without a password hash, so its owner signs
// in through Google OAuth. An existing account is left untouched.
func ensureInitialAdmin(ctx context.Context, deps DBDeps, email string, logger *zap.Logger) error {
	email = normalize.Email(email)
	if email == "" {
		return fmt.Errorf("initial_admin_email is not a usable address")
	}

	admins := adminstore.New(deps.MongoDatabase)

	existing, err := admins.GetByEmail(ctx, email)
	if err == nil {
		logger.Info("initial admin already exists",
			zap.String("email", email),
			zap.String("status", existing.Status))
		return nil
	}
	if !dberr.IsNotFound(err) {
		return fmt.Errorf("initial admin lookup: %w", err)
	}

	admin := &models.Admin{
		Name:   "Administrator",
		Email:  email,
		Role:   "admin",
		Status: "active",
	}
	if err := admins.Create(ctx, admin); err != nil {
		return fmt.Errorf("create initial admin: %w", err)
	}

	logger.Info("created initial admin account", zap.String("email", email))
	return nil
}
