// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for the lab website.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, media_backend, etc.
//   - Environment variables: LABSITE_MONGO_URI, LABSITE_MEDIA_BACKEND, etc.
//   - Command-line flags: --mongo_uri, --media_backend, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "labsite", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	// Media storage configuration
	{Name: "media_backend", Default: "stock", Desc: "Media backend: 'github', 'cloudinary', or 'stock'"},
	{Name: "github_owner", Default: "", Desc: "GitHub media repo owner"},
	{Name: "github_repo", Default: "", Desc: "GitHub media repo name"},
	{Name: "github_branch", Default: "main", Desc: "GitHub media repo branch"},
	{Name: "github_token", Default: "", Desc: "GitHub personal access token with repo scope"},
	{Name: "github_base_path", Default: "media", Desc: "Directory inside the media repo"},
	{Name: "cloudinary_cloud_name", Default: "", Desc: "Cloudinary cloud name"},
	{Name: "cloudinary_upload_preset", Default: "", Desc: "Cloudinary unsigned upload preset"},
	{Name: "cloudinary_folder", Default: "labsite", Desc: "Cloudinary default folder"},
	{Name: "cloudinary_api_key", Default: "", Desc: "Cloudinary API key (needed for deletes)"},
	{Name: "cloudinary_api_secret", Default: "", Desc: "Cloudinary API secret (needed for deletes)"},

	// Email/SMTP configuration for application notifications
	{Name: "mail_smtp_host", Default: "", Desc: "SMTP server host (blank disables mail)"},
	{Name: "mail_smtp_port", Default: 587, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "no-reply@localhost", Desc: "From address for notification email"},

	// Base URL for email links and OAuth callbacks
	{Name: "base_url", Default: "http://localhost:3000", Desc: "Base URL for links and OAuth callbacks"},

	// Google OAuth configuration for admin sign-in
	{Name: "google_client_id", Default: "", Desc: "Google OAuth2 client ID"},
	{Name: "google_client_secret", Default: "", Desc: "Google OAuth2 client secret"},

	{Name: "initial_admin_email", Default: "", Desc: "Email of an admin account guaranteed to exist at startup"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, LABSITE_* for app), and
// command-line flags, merged with precedence: flags > env > files >
// defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "LABSITE", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionDomain: appValues.String("session_domain"),

		MediaBackend:   appValues.String("media_backend"),
		GitHubOwner:    appValues.String("github_owner"),
		GitHubRepo:     appValues.String("github_repo"),
		GitHubBranch:   appValues.String("github_branch"),
		GitHubToken:    appValues.String("github_token"),
		GitHubBasePath: appValues.String("github_base_path"),

		CloudinaryCloudName:    appValues.String("cloudinary_cloud_name"),
		CloudinaryUploadPreset: appValues.String("cloudinary_upload_preset"),
		CloudinaryFolder:       appValues.String("cloudinary_folder"),
		CloudinaryAPIKey:       appValues.String("cloudinary_api_key"),
		CloudinaryAPISecret:    appValues.String("cloudinary_api_secret"),

		MailSMTPHost: appValues.String("mail_smtp_host"),
		MailSMTPPort: appValues.Int("mail_smtp_port"),
		MailSMTPUser: appValues.String("mail_smtp_user"),
		MailSMTPPass: appValues.String("mail_smtp_pass"),
		MailFrom:     appValues.String("mail_from"),

		BaseURL: appValues.String("base_url"),

		GoogleClientID:     appValues.String("google_client_id"),
		GoogleClientSecret: appValues.String("google_client_secret"),

		InitialAdminEmail: appValues.String("initial_admin_email"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation before any
// backends are contacted.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	switch appCfg.MediaBackend {
	case "github":
		if appCfg.GitHubOwner == "" || appCfg.GitHubRepo == "" || appCfg.GitHubToken == "" {
			return fmt.Errorf("media_backend 'github' requires github_owner, github_repo, and github_token")
		}
	case "cloudinary":
		if appCfg.CloudinaryCloudName == "" || appCfg.CloudinaryUploadPreset == "" {
			return fmt.Errorf("media_backend 'cloudinary' requires cloudinary_cloud_name and cloudinary_upload_preset")
		}
	case "stock", "":
		// read-only fallback, nothing to validate
	default:
		return fmt.Errorf("unknown media_backend %q (want github, cloudinary, or stock)", appCfg.MediaBackend)
	}

	return nil
}
