// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (HTTP/HTTPS ports,
// TLS, logging, request limits); AppConfig is everything specific to the
// lab website: database, sessions, media backend, mail, and OAuth.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionDomain string // Cookie domain (blank means current host)

	// Media storage backend: "github", "cloudinary", or "stock"
	MediaBackend string

	// GitHub media backend (repo-as-CDN)
	GitHubOwner    string
	GitHubRepo     string
	GitHubBranch   string
	GitHubToken    string
	GitHubBasePath string // path prefix inside the repo, e.g. "media"

	// Cloudinary media backend
	CloudinaryCloudName    string
	CloudinaryUploadPreset string // unsigned upload preset
	CloudinaryFolder       string
	CloudinaryAPIKey       string // required only for Remove (signed destroy)
	CloudinaryAPISecret    string

	// Email/SMTP configuration for application notifications
	MailSMTPHost string
	MailSMTPPort int
	MailSMTPUser string
	MailSMTPPass string
	MailFrom     string // e.g. "Lab Website <no-reply@example.edu>"

	// Base URL for links in notification emails and OAuth callbacks
	BaseURL string // e.g., "https://lab.example.edu"

	// Google OAuth for admin sign-in
	GoogleClientID     string
	GoogleClientSecret string

	// InitialAdminEmail, when set, guarantees an active admin account with
	// this email exists at startup. The account has no password; its owner
	// signs in with Google.
	InitialAdminEmail string
}
