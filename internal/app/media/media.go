// internal/app/media/media.go

// Package media abstracts image storage behind a small Adapter interface
// with three interchangeable backends:
//
//   - github:     commits images into a Git repository and serves them from
//     the raw-content CDN
//   - cloudinary: uploads through Cloudinary's pipeline and builds
//     transformation URLs per display variant
//   - stock:      a read-only fallback over a fixed set of stock photos for
//     installs with no upload credentials at all
//
// The backend is chosen once at startup from configuration; handlers hold an
// Adapter and never know which one they talk to.
package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"
)

// MaxUploadSize is the byte cap for a single image, enforced before any
// network traffic.
const MaxUploadSize = 10 << 20 // 10 MiB

// allowedTypes is the MIME allow-list for uploads. "image/jpg" is not a real
// MIME type but browsers still emit it.
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Variant names a display size/crop. Cloudinary maps these to transform
// strings; URL-parameter backends map them to width/height hints; the
// github backend serves the original bytes regardless.
type Variant string

const (
	Original    Variant = "original"
	Avatar      Variant = "avatar"      // 150x150, face crop
	AvatarLarge Variant = "avatarLarge" // 300x300, face crop
	Thumbnail   Variant = "thumbnail"   // 200x200
	Banner      Variant = "banner"      // 1200x400
	Optimized   Variant = "optimized"   // original size, auto quality/format
)

// ImageRef identifies a stored image. ID is the backend's handle (a
// Cloudinary public id, a repo path, a stock photo id); URL is the delivery
// URL captured at upload time. The zero ref is valid everywhere: Resolve of
// a zero ref returns a placeholder and Remove of a zero ref is a no-op.
type ImageRef struct {
	ID  string
	URL string
}

// IsZero reports whether the ref points at nothing.
func (r ImageRef) IsZero() bool { return r.ID == "" && r.URL == "" }

// UploadInput describes one image to store.
type UploadInput struct {
	Filename    string // original filename, used for the extension only
	ContentType string
	Size        int64
	Body        io.Reader
	Folder      string // logical grouping, e.g. "avatars" or "publications"
}

// Adapter is the storage strategy. Implementations validate input before
// any network IO, so a bad MIME type or oversized file never leaves the
// process.
type Adapter interface {
	// Upload stores the image and returns its ref. Returns *ValidationError
	// for pre-flight failures and *UploadError for transport failures.
	Upload(ctx context.Context, in UploadInput) (ImageRef, error)

	// Resolve builds a delivery URL for the given variant. It never fails:
	// a zero ref yields a deterministic placeholder.
	Resolve(ref ImageRef, v Variant) string

	// Remove deletes the stored image. Removing a zero or unknown ref is a
	// no-op success.
	Remove(ctx context.Context, ref ImageRef) error

	// Name identifies the backend ("github", "cloudinary", "stock").
	Name() string
}

// ValidationError reports a pre-flight rejection, annotated with the form
// field it concerns so handlers can echo it next to the input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// UploadError wraps a transport or backend failure after validation passed.
// The caller decides whether to abort the operation or continue without an
// image.
type UploadError struct {
	Backend string
	Op      string
	Err     error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Backend, e.Op, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// ValidateUpload applies the MIME allow-list and size cap. Every adapter
// calls this before touching the network.
func ValidateUpload(in UploadInput) error {
	ct := strings.ToLower(strings.TrimSpace(in.ContentType))
	if _, ok := allowedTypes[ct]; !ok {
		return &ValidationError{
			Field:   "image",
			Message: "Unsupported image type; use JPEG, PNG, GIF, or WebP.",
		}
	}
	if in.Size > MaxUploadSize {
		return &ValidationError{
			Field:   "image",
			Message: fmt.Sprintf("Image is too large; the limit is %d MB.", MaxUploadSize>>20),
		}
	}
	return nil
}

// extFor returns the canonical extension for a validated content type,
// falling back to the filename's own extension.
func extFor(contentType, filename string) string {
	if ext, ok := allowedTypes[strings.ToLower(strings.TrimSpace(contentType))]; ok {
		return ext
	}
	if ext := strings.ToLower(path.Ext(filename)); ext != "" {
		return ext
	}
	return ".img"
}

// variantDims maps a variant to width/height hints for URL-parameter
// backends. Zero dimensions mean "original size".
func variantDims(v Variant) (w, h int) {
	switch v {
	case Avatar:
		return 150, 150
	case AvatarLarge:
		return 300, 300
	case Thumbnail:
		return 200, 200
	case Banner:
		return 1200, 400
	default:
		return 0, 0
	}
}

// Placeholder returns the static asset shown when no image is set. It is a
// pure function of the variant so pages render identically across reloads.
func Placeholder(v Variant) string {
	switch v {
	case Avatar, AvatarLarge:
		return "/static/img/placeholder-avatar.svg"
	case Banner:
		return "/static/img/placeholder-banner.svg"
	default:
		return "/static/img/placeholder.svg"
	}
}

// Config selects and configures a backend.
type Config struct {
	Backend string // "github", "cloudinary", or "stock"

	// HTTPClient is shared by the network-backed adapters. When nil a
	// client with a 30s timeout is used.
	HTTPClient *http.Client

	GitHub     GitHubConfig
	Cloudinary CloudinaryConfig
}

// FromConfig builds the configured Adapter. Selection happens here, once;
// an unknown backend is a startup error rather than a silent fallback.
func FromConfig(cfg Config, logger *zap.Logger) (Adapter, error) {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "github":
		return NewGitHub(cfg.GitHub, client, logger)
	case "cloudinary":
		return NewCloudinary(cfg.Cloudinary, client, logger)
	case "stock", "":
		return NewStock(logger), nil
	default:
		return nil, fmt.Errorf("unknown media backend %q (want github, cloudinary, or stock)", cfg.Backend)
	}
}
